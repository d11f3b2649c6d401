package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	app "github.com/okian/gauntlet/internal/app"
	"github.com/okian/gauntlet/internal/config"
	"github.com/okian/gauntlet/pkg/logger"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// flagValues holds CLI overrides; only flags the user set are applied.
type flagValues struct {
	url         string
	output      string
	stdout      bool
	rows        int
	pairs       int
	timeout     time.Duration
	logLevel    string
	metricsFile string
}

func newRootCommand() *cobra.Command {
	return buildRootCommand(&flagValues{})
}

// buildRootCommand binds the CLI flags to fv.
func buildRootCommand(fv *flagValues) *cobra.Command {
	defaults := config.New()

	cmd := &cobra.Command{
		Use:   "gauntlet",
		Short: "Rank crew by their best gauntlet skill pairs",
		Long: `gauntlet downloads the crew export, sums the rolls of every pair of
skills, ranks and normalizes each pair, and scores crew by the mean of their
best normalized pairs. The top rows are written as CSV or printed as a table.

Configuration is layered: defaults, the YAML file named by GAUNTLET_CONFIG,
GAUNTLET_* environment variables, then flags.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Failures past argument parsing are logged by run.
			cmd.SilenceErrors = true
			return run(cmd, fv)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&fv.url, "url", defaults.SourceURL, "Crew JSON endpoint")
	flags.StringVarP(&fv.output, "output", "o", defaults.OutputPath, "CSV output path")
	flags.BoolVar(&fv.stdout, "stdout", false, "Print the table to stdout instead of writing CSV")
	flags.IntVarP(&fv.rows, "rows", "n", defaults.TopN, "Number of top-ranked rows to report")
	flags.IntVar(&fv.pairs, "pairs", defaults.TopPairs, "Number of best pairs averaged into the score")
	flags.DurationVar(&fv.timeout, "timeout", defaults.HTTPTimeout(), "Download timeout")
	flags.StringVar(&fv.logLevel, "log-level", defaults.LogLevel, "Log level: debug, info, warn, error")
	flags.StringVar(&fv.metricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile after the run")

	return cmd
}

func run(cmd *cobra.Command, fv *flagValues) error {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := resolveConfig(ctx, cmd, fv)
	if err != nil {
		log.Error(ctx, "invalid configuration", logger.Error(err))
		return err
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if _, err := app.NewFromConfig(cfg, log).Run(ctx); err != nil {
		log.Error(ctx, "gauntlet run failed", logger.Error(err))
		return err
	}
	return nil
}

// resolveConfig loads file and env configuration, applies explicitly set
// flags on top and validates the result.
func resolveConfig(ctx context.Context, cmd *cobra.Command, fv *flagValues) (*config.Config, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	applyFlags(cmd, fv, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyFlags copies explicitly set flags over cfg.
func applyFlags(cmd *cobra.Command, fv *flagValues, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("url") {
		cfg.SourceURL = fv.url
	}
	if changed("output") {
		cfg.OutputPath = fv.output
	}
	if fv.stdout {
		cfg.OutputPath = ""
	}
	if changed("rows") {
		cfg.TopN = fv.rows
	}
	if changed("pairs") {
		cfg.TopPairs = fv.pairs
	}
	if changed("timeout") {
		cfg.HTTPTimeoutMS = int(fv.timeout / time.Millisecond)
	}
	if changed("log-level") {
		cfg.LogLevel = fv.logLevel
	}
	if changed("metrics-file") {
		cfg.MetricsPath = fv.metricsFile
	}
}
