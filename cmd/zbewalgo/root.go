package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/arloliu/zbewalgo/engine"
	"github.com/arloliu/zbewalgo/internal/config"
	"github.com/arloliu/zbewalgo/internal/logger"
	"github.com/arloliu/zbewalgo/metrics"
)

// app carries the state shared by all subcommands of one invocation.
type app struct {
	v          *viper.Viper
	configPath string
	cfg        config.Config
	log        *zap.Logger
	eng        *engine.Engine
	registry   *prometheus.Registry
	observer   *metrics.Observer
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.NewViper()}

	root := &cobra.Command{
		Use:          "zbewalgo [command] (flags)",
		Short:        "adaptive page compression tool",
		SilenceUsage: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return a.setup()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	def := config.Default()
	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "YAML configuration file")
	flags.Int("max-output-size", def.MaxOutputSize, "largest accepted compressed payload")
	flags.Int("early-abort-size", def.EarlyAbortSize, "stop the pipeline search below this payload size")
	flags.Int("bwt-max-alphabet", def.BWTMaxAlphabet, "distinct byte limit of the bwt stage")
	flags.StringSlice("pipelines", def.Pipelines, "pipelines to search, e.g. bwt-mtf-huffman")
	flags.IntP("workers", "w", def.Workers, "number of parallel page workers")
	flags.String("log-level", def.Log.Level, "log level (debug, info, warn, error)")
	flags.String("log-encoding", def.Log.Encoding, "log encoding (console or json)")

	bindings := []struct{ key, flag string }{
		{config.KeyMaxOutputSize, "max-output-size"},
		{config.KeyEarlyAbortSize, "early-abort-size"},
		{config.KeyBWTMaxAlphabet, "bwt-max-alphabet"},
		{config.KeyPipelines, "pipelines"},
		{config.KeyWorkers, "workers"},
		{config.KeyLogLevel, "log-level"},
		{config.KeyLogEncoding, "log-encoding"},
	}
	for _, b := range bindings {
		if err := a.v.BindPFlag(b.key, flags.Lookup(b.flag)); err != nil {
			panic(err)
		}
	}

	cobra.EnableCommandSorting = false
	root.AddCommand(
		newCompressCmd(a),
		newDecompressCmd(a),
		newBenchCmd(a),
		newPipelinesCmd(a),
		newConfigCmd(a),
	)

	return root
}

// setup resolves the configuration and builds the logger and the engine.
func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if err := config.ApplyOverrides(&cfg, a.v); err != nil {
		return err
	}
	a.cfg = cfg

	a.log, err = logger.New(cfg.Log)
	if err != nil {
		return err
	}

	a.registry = prometheus.NewRegistry()
	a.observer = metrics.NewObserver(a.registry)

	opts := append(cfg.EngineOptions(), engine.WithLogger(a.log), engine.WithObserver(a.observer))
	a.eng, err = engine.New(opts...)
	if err != nil {
		return err
	}
	a.log.Debug("engine ready",
		zap.Int("pipelines", len(a.eng.Pipelines())),
		zap.Int("scratch", a.eng.ScratchSize()),
		zap.Int("workers", cfg.Workers))

	return nil
}

// writeMetrics dumps the engine statistics in the Prometheus text format.
func (a *app) writeMetrics(path string) error {
	if path == "" {
		return nil
	}

	return prometheus.WriteToTextfile(path, a.registry)
}
