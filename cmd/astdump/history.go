package main

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"astdump/internal/config"
	"astdump/internal/history"
	"astdump/internal/slogutil"
)

func newHistoryCmd(v *viper.Viper) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent export runs",
		Long: `List runs recorded in <project>/.astdump/history.db, newest first.

Examples:
  astdump history
  astdump history --project ./proj --limit 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := config.LoadProjectRoot(v, workDir)
			if err != nil {
				return err
			}
			store, err := history.OpenExisting(config.StateDirOf(root), slogutil.NewDiscardLogger())
			if errors.Is(err, history.ErrNoHistory) {
				return printRuns(cmd.OutOrStdout(), nil)
			}
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			runs, err := store.Recent(limit)
			if err != nil {
				return err
			}
			return printRuns(cmd.OutOrStdout(), runs)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum runs to list")
	return cmd
}

func printRuns(w io.Writer, runs []history.Run) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No runs recorded.")
		return err
	}

	p := message.NewPrinter(language.English)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tMODE\tFORMAT\tPARSED\tMETHODS\tFAILED\tDURATION\tSTATUS")
	for _, run := range runs {
		status := "ok"
		if run.ErrorMessage != "" {
			status = "aborted"
		}
		methods := "-"
		if run.ParseMode == "method" {
			methods = p.Sprintf("%d", run.ParsedMethods)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			run.Name,
			run.ParseMode,
			run.OutputFormat,
			p.Sprintf("%d", run.ParsedFiles),
			methods,
			p.Sprintf("%d", run.ParseFailedFiles),
			(time.Duration(run.DurationMs) * time.Millisecond).String(),
			status,
		)
	}
	return tw.Flush()
}
