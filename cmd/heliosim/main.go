package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/san-kum/heliosim/internal/config"
	"github.com/san-kum/heliosim/internal/experiment"
	"github.com/san-kum/heliosim/internal/logging"
	"github.com/san-kum/heliosim/internal/storage"
	"github.com/san-kum/heliosim/internal/telemetry"
)

var (
	configFile  string
	preset      string
	dataDir     string
	logLevel    string
	logFormat   string
	metricsFile string
	traceSpans  bool
)

// env is the per-invocation state built before any command runs.
type env struct {
	cfg       *config.Config
	log       logging.Logger
	collector *telemetry.Collector
	shutdown  func(context.Context) error
}

var current *env

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := newRootCmd()
	err := root.ExecuteContext(ctx)
	if current != nil {
		current.close(ctx)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "heliosim",
		Short:         "orbit integration and solar position lab",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd)
			if err != nil {
				return err
			}
			current = e
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "start from a named preset")
	pf.StringVar(&dataDir, "data", ".heliosim", "run data directory")
	pf.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&logFormat, "log-format", "", "log format: text or json")
	pf.StringVar(&metricsFile, "metrics-file", "", "write prometheus metrics to this file on exit")
	pf.BoolVar(&traceSpans, "trace", false, "print trace spans to stderr")

	root.AddCommand(
		newOrbitCmd(),
		newCompareCmd(),
		newLiveCmd(),
		newSiderealCmd(),
		newSunpathCmd(),
		newYieldCmd(),
		newOptimizeCmd(),
		newListCmd(),
		newPlotCmd(),
		newExportJSONCmd(),
		newSVGCmd(),
		newPresetsCmd(),
		newScenarioCmd(),
	)
	return root
}

// loadConfig layers defaults, the preset and the config file, in that order.
func loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.LoadOver(cfg, configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFormat != "" {
		cfg.Logging.Format = logFormat
	}
	if metricsFile != "" {
		cfg.Telemetry.MetricsFile = metricsFile
	}
	if traceSpans {
		cfg.Telemetry.Tracing = true
	}
	return cfg, cfg.Validate()
}

func setup(cmd *cobra.Command) (*env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log := logging.New(cfg.LoggerConfig())

	collector, err := telemetry.NewCollector(nil)
	if err != nil {
		return nil, err
	}
	shutdown, err := telemetry.InitTracing(cmd.Context(), telemetry.TracingConfig{
		Enabled:     cfg.Telemetry.Tracing,
		ServiceName: "heliosim",
	}, log)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, log: log, collector: collector, shutdown: shutdown}, nil
}

func (e *env) close(ctx context.Context) {
	telemetry.ShutdownWithTimeout(context.WithoutCancel(ctx), e.shutdown, e.log)
	if path := e.cfg.Telemetry.MetricsFile; path != "" {
		if err := e.collector.WriteTextfile(path); err != nil {
			e.log.Warn(ctx, "metrics not written", logging.Err(err))
		}
	}
}

func (e *env) experiment() (*experiment.Experiment, error) {
	return experiment.New(e.cfg,
		experiment.WithLogger(e.log),
		experiment.WithCollector(e.collector),
	)
}

func (e *env) store() (*storage.Store, error) {
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return nil, err
	}
	return st, nil
}
