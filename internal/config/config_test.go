package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/zbewalgo/engine"
	"github.com/arloliu/zbewalgo/errs"
	"github.com/arloliu/zbewalgo/format"
	"github.com/arloliu/zbewalgo/pipeline"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "zbewalgo.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	require.Equal(t, format.DefaultMaxOutputSize, cfg.MaxOutputSize)
	require.Equal(t, pipeline.DefaultSpecs, cfg.Pipelines)
	require.Positive(t, cfg.Workers)

	loaded, err := Load("")
	require.NoError(t, err)
	require.Equal(t, cfg, loaded)
}

func TestLoad(t *testing.T) {
	path := writeFile(t, `
early_abort_size: 128
pipelines:
  - bwt-mtf-huffman
  - rle
workers: 2
log:
  level: debug
  encoding: json
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 128, cfg.EarlyAbortSize)
	require.Equal(t, format.DefaultBWTMaxAlphabet, cfg.BWTMaxAlphabet, "unset keys keep defaults")
	require.Equal(t, []string{"bwt-mtf-huffman", "rle"}, cfg.Pipelines)
	require.Equal(t, 2, cfg.Workers)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "json", cfg.Log.Encoding)

	e, err := engine.New(cfg.EngineOptions()...)
	require.NoError(t, err)
	require.Equal(t, 128, e.Tunable(engine.TunableEarlyAbortSize))
	require.Len(t, e.Pipelines(), 2)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, err = Load(writeFile(t, "compression_level: 9\n"))
	require.Error(t, err, "unknown keys are rejected")

	_, err = Load(writeFile(t, "max_output_size: 0\n"))
	require.ErrorIs(t, err, errs.ErrInvalidTunable)

	_, err = Parse([]byte("workers: 0\n"))
	require.Error(t, err)

	_, err = Parse([]byte("pipelines: []\n"))
	require.Error(t, err)

	cfg, err := Parse(nil)
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.EarlyAbortSize = 77
	cfg.Pipelines = []string{"jbe2-rle"}

	data, err := cfg.Marshal()
	require.NoError(t, err)
	require.Contains(t, string(data), "early_abort_size: 77")

	back, err := Parse(data)
	require.NoError(t, err)
	require.Equal(t, cfg, back)
}

func TestApplyOverridesFromEnv(t *testing.T) {
	t.Setenv("ZBEWALGO_EARLY_ABORT_SIZE", "100")
	t.Setenv("ZBEWALGO_LOG_LEVEL", "warn")

	cfg := Default()
	require.NoError(t, ApplyOverrides(&cfg, NewViper()))
	require.Equal(t, 100, cfg.EarlyAbortSize)
	require.Equal(t, "warn", cfg.Log.Level)
	require.Equal(t, format.DefaultMaxOutputSize, cfg.MaxOutputSize)
}

func TestApplyOverridesFromFlags(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Int(KeyWorkers, 8, "")
	fs.Int(KeyBWTMaxAlphabet, 90, "")
	fs.StringSlice(KeyPipelines, nil, "")

	v := NewViper()
	for _, key := range []string{KeyWorkers, KeyBWTMaxAlphabet, KeyPipelines} {
		require.NoError(t, v.BindPFlag(key, fs.Lookup(key)))
	}
	require.NoError(t, fs.Parse([]string{"--workers=3", "--pipelines=rle,jbe-rle"}))

	cfg := Default()
	require.NoError(t, ApplyOverrides(&cfg, v))
	require.Equal(t, 3, cfg.Workers)
	require.Equal(t, []string{"rle", "jbe-rle"}, cfg.Pipelines)
	require.Equal(t, format.DefaultBWTMaxAlphabet, cfg.BWTMaxAlphabet, "flags left at their default do not override")

	require.NoError(t, fs.Set(KeyBWTMaxAlphabet, "300"))
	require.ErrorIs(t, ApplyOverrides(&cfg, v), errs.ErrInvalidTunable)
}
