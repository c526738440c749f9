package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"astdump/internal/report"
)

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Work with run reports",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "check <report.json>",
		Short: "Validate a run report against the report schema",
		Long: `Validate a persisted log_<timestamp>.json report.

Examples:
  astdump report check log_2024-05-01_09-30-00.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			if err := report.Validate(data); err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: valid\n", args[0])
			return nil
		},
	})
	return cmd
}
