package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/league-stats/internal/config"
	"github.com/pfrederiksen/league-stats/internal/logger"
	"github.com/pfrederiksen/league-stats/internal/pipeline"
	"github.com/pfrederiksen/league-stats/internal/report"
	"github.com/pfrederiksen/league-stats/internal/scraper"
	"github.com/pfrederiksen/league-stats/internal/stats"
	"github.com/pfrederiksen/league-stats/internal/storage"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

// app carries the state shared by every command of one invocation
type app struct {
	configPath string
	cacheDir   string
	timeout    time.Duration
	verbose    bool

	cfg      *config.Config
	log      *logger.Logger
	metrics  *logger.Metrics
	store    *storage.Storage
	reporter *report.Reporter
	stderr   io.Writer
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	a := &app{stderr: os.Stderr}

	cmd := &cobra.Command{
		Use:   "league-stats",
		Short: "Fetch and compare Premier League squad statistics",
		Long: `A CLI tool to fetch FBref Premier League squad statistics tables.
Normalizes the passing and shooting tables, caches them as CSV, and
produces team comparisons, rankings, spreadsheets and charts.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.stderr = cmd.ErrOrStderr()
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.verbose && a.metrics != nil {
				a.log.Debug("Run metrics", a.metrics.Snapshot().Fields())
			}
		},
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Run file (default $XDG_CONFIG_HOME/league-stats/config.yaml)")
	cmd.PersistentFlags().StringVar(&a.cacheDir, "cache-dir", config.DefaultCacheDir, "Directory for cached tables and exports")
	cmd.PersistentFlags().DurationVar(&a.timeout, "timeout", config.DefaultTimeout, "Per-request timeout")
	cmd.PersistentFlags().BoolVar(&a.verbose, "verbose", false, "Enable verbose logging")

	cmd.AddCommand(
		newFetchCmd(a),
		newCompareCmd(a),
		newTopCmd(a),
		newSummaryCmd(a),
		newExportCmd(a),
		newPlotCmd(a),
		newRunCmd(a),
	)

	return cmd
}

// setup loads the configuration, applies flag overrides and builds the
// shared logger, metrics and cache.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("cache-dir") {
		cfg.CacheDir = a.cacheDir
	}
	if flags.Changed("timeout") {
		cfg.Timeout = a.timeout
	}
	if a.verbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = logger.New(level, a.stderr)
	logger.SetDefault(a.log)
	a.metrics = logger.NewMetrics()
	a.reporter = report.New(report.WithLogger(a.log))

	a.log.Debug("Loaded configuration", logger.Fields{
		"cache_dir": cfg.CacheDir,
		"teams":     cfg.Teams,
		"timeout":   cfg.Timeout.String(),
		"file":      config.FindConfigFile(a.configPath),
	})

	a.store, err = storage.New(cfg.CacheDir)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	return nil
}

func (a *app) pipeline() *pipeline.Pipeline {
	sc := scraper.New(
		scraper.WithTimeout(a.cfg.Timeout),
		scraper.WithLogger(a.log),
		scraper.WithMetrics(a.metrics),
	)
	return pipeline.New(sc, a.store, pipeline.WithLogger(a.log), pipeline.WithMetrics(a.metrics))
}

// table returns the normalized table for kind, from the cache when offline
func (a *app) table(ctx context.Context, kind stats.Kind, offline bool) (*stats.Table, error) {
	if offline {
		t, err := a.store.Load(kind)
		if err != nil {
			return nil, fmt.Errorf("loading cached %s table (run fetch first): %w", kind, err)
		}
		return t, nil
	}

	page, err := a.cfg.Page(kind)
	if err != nil {
		return nil, err
	}
	t, _, err := a.pipeline().Run(ctx, page)
	return t, err
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
