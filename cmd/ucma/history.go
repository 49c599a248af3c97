package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/ucma/internal/config"
	"github.com/nao1215/ucma/internal/history"
	"github.com/nao1215/ucma/internal/model"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show recorded runs",
		Long: `History lists recent runs, newest first. With a run id (or a unique prefix
of one) it shows the outcome of every ref in that run.

Examples:
  ucma history
  ucma history --limit 5
  ucma history 3f2a`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", 20, "Maximum runs to list (0 = all)")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (its history.dir is used)")
	cmd.Flags().String("dir", "", "History directory (overrides the config file)")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	dir, err := cmd.Flags().GetString("dir")
	if err != nil {
		return err
	}
	if dir == "" {
		configPath, err := cmd.Flags().GetString("config")
		if err != nil {
			return err
		}
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		dir = cfg.HistoryDir()
	}

	store, err := history.Open(dir, history.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		return fmt.Errorf("no run history: %w", err)
	}
	defer store.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if len(args) == 1 {
		run, err := store.FindRun(ctx, args[0])
		if err != nil {
			return err
		}
		outcomes, err := store.Outcomes(ctx, run.ID)
		if err != nil {
			return err
		}
		return printRun(out, run, outcomes)
	}

	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	runs, err := store.ListRuns(ctx, limit)
	if err != nil {
		return err
	}
	return printRuns(out, runs)
}

// printRuns writes one line per run.
func printRuns(w io.Writer, runs []history.Run) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No runs recorded.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTARTED\tDURATION\tREFS\tFAILED\tREPORTER")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\n",
			shortID(r.ID),
			r.StartedAt.Local().Format(time.DateTime),
			r.Duration.Round(time.Millisecond),
			r.Items,
			r.Failed,
			r.Reporter,
		)
	}
	return tw.Flush()
}

// printRun writes a run's header and the outcome of each ref.
func printRun(w io.Writer, run *history.Run, outcomes []model.Outcome) error {
	fmt.Fprintf(w, "Run %s\n", run.ID)
	fmt.Fprintf(w, "  started:   %s (%s)\n", run.StartedAt.Local().Format(time.DateTime), run.Duration.Round(time.Millisecond))
	fmt.Fprintf(w, "  extractor: %s\n", run.Extractor)
	fmt.Fprintf(w, "  analyzer:  %s\n", run.Analyzer)
	fmt.Fprintf(w, "  reporter:  %s\n\n", run.Reporter)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "REF\tSTATUS\tSTAGE\tDURATION\tERROR")
	for _, o := range outcomes {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			o.Item,
			o.Status,
			dash(o.Stage),
			o.Duration.Round(time.Millisecond),
			dash(o.Error),
		)
	}
	return tw.Flush()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
