package engine

import (
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/arloliu/zbewalgo/codec"
	"github.com/arloliu/zbewalgo/internal/options"
)

// Config holds the construction-time settings of an Engine.
type Config struct {
	table       *codec.Table
	logger      *zap.Logger
	observer    Observer
	maxOutput   int
	earlyAbort  int
	bwtAlphabet int
	pipelines   []string
}

func defaultConfig() *Config {
	lim := codec.DefaultLimits()

	return &Config{
		table:       codec.Builtin(),
		logger:      zap.NewNop(),
		observer:    nopObserver{},
		maxOutput:   lim.MaxOutputSize,
		earlyAbort:  DefaultEarlyAbortSize,
		bwtAlphabet: lim.BWTMaxAlphabet,
	}
}

// Option configures an Engine.
type Option = options.Option[*Config]

// WithTable replaces the builtin algorithm table. Blocks are only portable
// between engines that share the same table.
func WithTable(table *codec.Table) Option {
	return options.New(func(c *Config) error {
		if table == nil {
			return errors.New("algorithm table must not be nil")
		}
		c.table = table

		return nil
	})
}

// WithLogger sets the logger used for administrative operations.
// The compression hot path never logs.
func WithLogger(logger *zap.Logger) Option {
	return options.NoError(func(c *Config) {
		if logger != nil {
			c.logger = logger
		}
	})
}

// WithObserver installs a statistics observer.
func WithObserver(obs Observer) Option {
	return options.NoError(func(c *Config) {
		if obs != nil {
			c.observer = obs
		}
	})
}

// WithMaxOutputSize sets the initial max_output_size tunable.
func WithMaxOutputSize(n int) Option {
	return options.New(func(c *Config) error {
		if err := TunableMaxOutputSize.Validate(n); err != nil {
			return err
		}
		c.maxOutput = n

		return nil
	})
}

// WithEarlyAbortSize sets the initial early_abort_size tunable.
func WithEarlyAbortSize(n int) Option {
	return options.New(func(c *Config) error {
		if err := TunableEarlyAbortSize.Validate(n); err != nil {
			return err
		}
		c.earlyAbort = n

		return nil
	})
}

// WithBWTMaxAlphabet sets the initial bwt_max_alphabet tunable.
func WithBWTMaxAlphabet(n int) Option {
	return options.New(func(c *Config) error {
		if err := TunableBWTMaxAlphabet.Validate(n); err != nil {
			return err
		}
		c.bwtAlphabet = n

		return nil
	})
}

// WithPipelines sets the initial pipelines instead of the defaults.
// ResetPipelines still restores the defaults.
func WithPipelines(specs ...string) Option {
	return options.NoError(func(c *Config) {
		c.pipelines = append([]string(nil), specs...)
	})
}
