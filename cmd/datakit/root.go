package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/datakit/pkg/datakit/config"
	"github.com/randalmurphal/datakit/pkg/datakit/observability"
	"github.com/randalmurphal/datakit/pkg/datakit/record"
	"github.com/randalmurphal/datakit/pkg/datakit/stats"
	"github.com/randalmurphal/datakit/pkg/datakit/textfile"
)

// app carries state shared by every subcommand. It is populated by the
// root command's PersistentPreRunE.
type app struct {
	configPath string
	verbose    bool

	cfg       config.Config
	logger    *slog.Logger
	telemetry *observability.Telemetry
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "datakit",
		Short: "Record registry and sample statistics toolkit",
		Long: `datakit keeps a registry of id/name/email records and computes
descriptive statistics over numeric samples.

Records live in memory unless store.driver is "sqlite" in the config file
or DATAKIT_STORE_DRIVER=sqlite is set.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	cmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "config file (default: $DATAKIT_CONFIG)")
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(
		newStatsCmd(a),
		newFilterCmd(a),
		newEmailCmd(),
		newFileCmd(a),
		newRecordsCmd(a),
	)
	return cmd
}

func (a *app) init(cmd *cobra.Command) error {
	path := a.configPath
	if path == "" {
		path = os.Getenv("DATAKIT_CONFIG")
	}

	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.FromFile(path); err != nil {
			return err
		}
	}
	cfg.ApplyEnv(os.Getenv)
	if a.verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = observability.NewLogger(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
	a.telemetry = observability.NewTelemetry(a.logger, cfg.Telemetry.Metrics, cfg.Telemetry.Tracing)

	a.logger.Debug("config loaded",
		slog.String("config_path", path),
		slog.String("store_driver", cfg.Store.Driver),
		slog.Float64("outlier_threshold", cfg.Stats.OutlierThreshold),
	)
	return nil
}

// execute runs cmd and then shuts telemetry down. Cobra skips
// PersistentPostRunE when RunE fails, so shutdown happens here instead.
func (a *app) execute(cmd *cobra.Command) error {
	err := cmd.Execute()
	if serr := a.shutdown(context.Background()); serr != nil {
		cmd.PrintErrln("Error:", serr)
		err = errors.Join(err, fmt.Errorf("shutdown telemetry: %w", serr))
	}
	return err
}

func (a *app) shutdown(ctx context.Context) error {
	if a.telemetry == nil {
		return nil
	}
	return a.telemetry.Shutdown(ctx)
}

// openRegistry builds a Registry over the configured store.
func (a *app) openRegistry() (*record.Registry, error) {
	opts := []record.Option{
		record.WithLogger(a.logger),
		record.WithMetrics(a.telemetry.Metrics()),
	}

	switch a.cfg.Store.Driver {
	case config.DriverSQLite:
		store, err := record.NewSQLiteStore(a.cfg.Store.Path)
		if err != nil {
			return nil, fmt.Errorf("open record store: %w", err)
		}
		opts = append(opts, record.WithStore(store))
	default:
		opts = append(opts, record.WithStore(record.NewMemoryStore()))
	}
	return record.NewRegistry(opts...), nil
}

// analyzer builds an Analyzer from config; opts override the defaults.
func (a *app) analyzer(opts ...stats.AnalyzerOption) *stats.Analyzer {
	base := []stats.AnalyzerOption{
		stats.WithThreshold(a.cfg.Stats.OutlierThreshold),
		stats.WithLogger(a.logger),
		stats.WithMetrics(a.telemetry.Metrics()),
		stats.WithSpanManager(a.telemetry.Spans()),
	}
	return stats.NewAnalyzer(append(base, opts...)...)
}

func (a *app) files() *textfile.Manager {
	return textfile.New(a.logger,
		textfile.WithMetrics(a.telemetry.Metrics()),
		textfile.WithSpanManager(a.telemetry.Spans()),
	)
}
