// Package config loads the settings of the zbewalgo command line tool.
//
// Settings come from three layers, later ones winning: built-in defaults, a
// YAML file and finally flags or ZBEWALGO_* environment variables bound
// through viper.
package config

import (
	"bytes"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/arloliu/zbewalgo/engine"
	"github.com/arloliu/zbewalgo/format"
	"github.com/arloliu/zbewalgo/internal/logger"
	"github.com/arloliu/zbewalgo/pipeline"
)

// EnvPrefix prefixes environment variable overrides, e.g.
// ZBEWALGO_EARLY_ABORT_SIZE or ZBEWALGO_LOG_LEVEL.
const EnvPrefix = "ZBEWALGO"

// Keys accepted by ApplyOverrides.
const (
	KeyMaxOutputSize  = "max_output_size"
	KeyEarlyAbortSize = "early_abort_size"
	KeyBWTMaxAlphabet = "bwt_max_alphabet"
	KeyPipelines      = "pipelines"
	KeyWorkers        = "workers"
	KeyLogLevel       = "log.level"
	KeyLogEncoding    = "log.encoding"
)

// Config is the complete tool configuration.
type Config struct {
	MaxOutputSize  int           `yaml:"max_output_size"`
	EarlyAbortSize int           `yaml:"early_abort_size"`
	BWTMaxAlphabet int           `yaml:"bwt_max_alphabet"`
	Pipelines      []string      `yaml:"pipelines"`
	Workers        int           `yaml:"workers"`
	Log            logger.Config `yaml:"log"`
}

// Default returns the configuration of a fresh engine.
func Default() Config {
	return Config{
		MaxOutputSize:  format.DefaultMaxOutputSize,
		EarlyAbortSize: format.DefaultEarlyAbortSize,
		BWTMaxAlphabet: format.DefaultBWTMaxAlphabet,
		Pipelines:      append([]string(nil), pipeline.DefaultSpecs...),
		Workers:        runtime.GOMAXPROCS(0),
		Log:            logger.DefaultConfig(),
	}
}

// Load reads path on top of the defaults. An empty path returns the
// defaults. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return cfg, errors.Wrap(err, "open config")
	}
	defer f.Close()

	if err := decode(f, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "config %s", path)
	}

	return cfg, cfg.Validate()
}

// Parse decodes YAML data on top of the defaults.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := decode(bytes.NewReader(data), &cfg); err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

func decode(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return errors.Wrap(err, "decode yaml")
	}

	return nil
}

// ApplyOverrides copies every key that is set in v onto cfg. Flags count as
// set only when given on the command line.
func ApplyOverrides(cfg *Config, v *viper.Viper) error {
	if v.IsSet(KeyMaxOutputSize) {
		cfg.MaxOutputSize = v.GetInt(KeyMaxOutputSize)
	}
	if v.IsSet(KeyEarlyAbortSize) {
		cfg.EarlyAbortSize = v.GetInt(KeyEarlyAbortSize)
	}
	if v.IsSet(KeyBWTMaxAlphabet) {
		cfg.BWTMaxAlphabet = v.GetInt(KeyBWTMaxAlphabet)
	}
	if v.IsSet(KeyPipelines) {
		cfg.Pipelines = v.GetStringSlice(KeyPipelines)
	}
	if v.IsSet(KeyWorkers) {
		cfg.Workers = v.GetInt(KeyWorkers)
	}
	if v.IsSet(KeyLogLevel) {
		cfg.Log.Level = v.GetString(KeyLogLevel)
	}
	if v.IsSet(KeyLogEncoding) {
		cfg.Log.Encoding = v.GetString(KeyLogEncoding)
	}

	return cfg.Validate()
}

// NewViper returns a viper instance that resolves keys from ZBEWALGO_*
// environment variables.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Validate checks tunable ranges and the worker count. Pipelines are checked
// when the engine is built.
func (c Config) Validate() error {
	checks := []struct {
		t engine.Tunable
		v int
	}{
		{engine.TunableMaxOutputSize, c.MaxOutputSize},
		{engine.TunableEarlyAbortSize, c.EarlyAbortSize},
		{engine.TunableBWTMaxAlphabet, c.BWTMaxAlphabet},
	}
	for _, chk := range checks {
		if err := chk.t.Validate(chk.v); err != nil {
			return err
		}
	}
	if c.Workers < 1 {
		return errors.Newf("workers must be positive, got %d", c.Workers)
	}
	if len(c.Pipelines) == 0 {
		return errors.New("at least one pipeline is required")
	}

	return nil
}

// EngineOptions converts c into engine options.
func (c Config) EngineOptions() []engine.Option {
	return []engine.Option{
		engine.WithMaxOutputSize(c.MaxOutputSize),
		engine.WithEarlyAbortSize(c.EarlyAbortSize),
		engine.WithBWTMaxAlphabet(c.BWTMaxAlphabet),
		engine.WithPipelines(c.Pipelines...),
	}
}

// Marshal renders c as YAML.
func (c Config) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, errors.Wrap(err, "encode yaml")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, "encode yaml")
	}

	return buf.Bytes(), nil
}
