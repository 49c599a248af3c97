package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/ucma/internal/config"
	"github.com/nao1215/ucma/internal/history"
	"github.com/nao1215/ucma/internal/metrics"
	"github.com/nao1215/ucma/internal/model"
	"github.com/nao1215/ucma/internal/pipeline"
	"github.com/nao1215/ucma/internal/plugin"
	"github.com/nao1215/ucma/internal/report"
)

// ErrAllFailed is returned when every ref in a non-empty batch failed.
var ErrAllFailed = errors.New("all refs failed")

// NewRunCmd creates the run command.
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <ref>...",
		Short: "Run the configured stages for each git ref",
		Long: `Run resolves the configured extractor, analyzer and reporter, then runs
them for every ref concurrently. A ref may be HEAD, a tag, a branch, a remote
branch or a (short) commit hash.

A failing ref is reported as "Ref <ref> failed at <stage>: <error>" and does
not affect the others. The command exits non-zero when plugins cannot be
resolved or when every ref failed.

Examples:
  # Process three refs
  ucma run HEAD v1.0 origin/main

  # Only check that the configured plugins resolve
  ucma run --dry-run HEAD

  # Use the json reporter for this run
  ucma run -r json HEAD

  # Process at most two refs at once and write Prometheus metrics
  ucma run --concurrency 2 --metrics-file ucma.prom $(git tag)`,
		Args: cobra.MinimumNArgs(1),
		RunE: runRunCmd,
	}

	cmd.Flags().Bool("dry-run", false,
		"Resolve plugins and validate the configuration without processing refs")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .ucma.yaml in current directory or XDG config dir)")
	cmd.Flags().Int("concurrency", 0,
		"Maximum refs processed at once (0 = all at once)")
	cmd.Flags().String("metrics-file", "",
		"Write Prometheus metrics in textfile format to this path")
	cmd.Flags().String("plugins-file", "",
		"Plugin listing file that replaces the built-in discovery order")
	cmd.Flags().Bool("no-history", false,
		"Do not record this run in the history database")
	cmd.Flags().StringP("extractor", "e", "", "Extractor plugin name (overrides the config file)")
	cmd.Flags().StringP("analyzer", "a", "", "Analyzer plugin name (overrides the config file)")
	cmd.Flags().StringP("reporter", "r", "", "Reporter plugin name (overrides the config file)")

	return cmd
}

// runRunCmd executes the run command.
func runRunCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return err
	}

	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runRefs(ctx, cmd.OutOrStdout(), cfg, args, dryRun, logger)
}

// buildConfig loads the configuration file and applies flag overrides.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	for _, o := range []struct {
		flag    string
		section *config.Section
	}{
		{"extractor", &cfg.Extractor},
		{"analyzer", &cfg.Analyzer},
		{"reporter", &cfg.Reporter},
	} {
		name, err := cmd.Flags().GetString(o.flag)
		if err != nil {
			return nil, err
		}
		*o.section = o.section.Override(name, nil)
	}

	if cmd.Flags().Changed("concurrency") {
		if cfg.Concurrency, err = cmd.Flags().GetInt("concurrency"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("metrics-file") {
		if cfg.MetricsFile, err = cmd.Flags().GetString("metrics-file"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("plugins-file") {
		if cfg.PluginsFile, err = cmd.Flags().GetString("plugins-file"); err != nil {
			return nil, err
		}
	}

	noHistory, err := cmd.Flags().GetBool("no-history")
	if err != nil {
		return nil, err
	}
	if noHistory {
		cfg.History.Enabled = false
	}

	return cfg, nil
}

// newRegistry discovers plugins from the listing file, or from the
// built-in catalog when no listing is configured.
func newRegistry(pluginsFile string) (*plugin.Registry, error) {
	if pluginsFile == "" {
		return plugin.New(plugin.DefaultCatalog)
	}
	listing, err := plugin.LoadListingFile(pluginsFile)
	if err != nil {
		return nil, err
	}
	return plugin.New(listing)
}

// runRefs resolves the plugins and processes every ref. Per-ref failures
// are printed; the returned error is nil unless resolution failed, the run
// was interrupted or every ref failed.
func runRefs(ctx context.Context, out io.Writer, cfg *config.Config, refs []string, dryRun bool, logger *slog.Logger) error {
	registry, err := newRegistry(cfg.PluginsFile)
	if err != nil {
		return fmt.Errorf("plugin discovery failed: %w", err)
	}

	collector := metrics.NewCollector()
	orch := pipeline.NewOrchestrator(registry, cfg.Stages(),
		pipeline.WithLogger(logger),
		pipeline.WithConcurrency(cfg.Concurrency),
		pipeline.WithObserver(collector.Observe),
	)

	set, err := orch.Resolve()
	if err != nil {
		return fmt.Errorf("plugin resolution failed: %w", err)
	}

	if dryRun {
		fmt.Fprintf(out, "Configuration is valid; %d refs would be processed with:\n", len(refs))
		fmt.Fprintf(out, "  extractor: %s\n", set.Extractor.Impl.Descriptor)
		fmt.Fprintf(out, "  analyzer:  %s\n", set.Analyzer.Impl.Descriptor)
		fmt.Fprintf(out, "  reporter:  %s\n", set.Reporter.Impl.Descriptor)
		return nil
	}

	started := time.Now()
	outcomes := orch.RunSet(ctx, set, refs)
	elapsed := time.Since(started)

	if _, err := report.NewSimpleWriter(out).WriteSummary(outcomes); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}

	collector.Finish(time.Now(), elapsed)
	if cfg.MetricsFile != "" {
		if err := collector.WriteTextfile(cfg.MetricsFile); err != nil {
			logger.Error("failed to write metrics", "path", cfg.MetricsFile, "error", err)
		}
	}

	if cfg.History.Enabled {
		run := &history.Run{
			StartedAt: started,
			Duration:  elapsed,
			Extractor: set.Extractor.Impl.Descriptor.String(),
			Analyzer:  set.Analyzer.Impl.Descriptor.String(),
			Reporter:  set.Reporter.Impl.Descriptor.String(),
		}
		if err := recordRun(ctx, cfg, run, outcomes, logger); err != nil {
			logger.Error("failed to record run history", "error", err)
		}
	}

	if err := ctx.Err(); err != nil {
		return &exitError{code: 130, err: fmt.Errorf("run interrupted: %w", err)}
	}
	if failed := model.CountFailed(outcomes); failed > 0 && failed == len(outcomes) {
		return fmt.Errorf("%w (%d of %d)", ErrAllFailed, failed, len(outcomes))
	}
	return nil
}

// recordRun stores the run and prunes old runs.
func recordRun(ctx context.Context, cfg *config.Config, run *history.Run, outcomes []model.Outcome, logger *slog.Logger) error {
	store, err := history.Open(cfg.HistoryDir(), history.DefaultOptions())
	if err != nil {
		return err
	}
	defer store.Close()

	// Record even when interrupted so partial batches are kept.
	ctx = context.WithoutCancel(ctx)

	id, err := store.Record(ctx, run, outcomes)
	if err != nil {
		return err
	}
	logger.Debug("run recorded", "id", id, "path", store.Path())

	if cfg.History.Keep > 0 {
		n, err := store.Prune(ctx, cfg.History.Keep)
		if err != nil {
			return err
		}
		if n > 0 {
			logger.Debug("pruned run history", "removed", n)
		}
	}
	return nil
}
