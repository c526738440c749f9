package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"astdump/internal/printer"
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <artifact.yaml>",
		Short: "List the declarations in a YAML artifact",
		Long: `Decode a YAML artifact as a multi-document stream and print the type and
name of every rendered declaration, one per line.

Examples:
  astdump inspect out/pkg/Service.java.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()
			return inspect(cmd.OutOrStdout(), f)
		},
	}
}

func inspect(w io.Writer, r io.Reader) error {
	decls, err := printer.ReadDeclarations(r)
	if err != nil {
		return err
	}
	for _, d := range decls {
		name := d.Name
		if name == "" {
			name = "-"
		}
		if _, err := fmt.Fprintf(w, "%s\t%s\n", d.Type, name); err != nil {
			return err
		}
	}
	return nil
}
