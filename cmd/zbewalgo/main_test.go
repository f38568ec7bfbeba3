package main

import (
	"bytes"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/zbewalgo/internal/config"
)

func run(t *testing.T, args ...string) string {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--log-level=error"))
	require.NoError(t, cmd.Execute(), out.String())

	return out.String()
}

// testFile writes a mix of compressible and random pages plus a short tail.
func testFile(t *testing.T) string {
	t.Helper()

	rng := rand.New(rand.NewPCG(3, 4))
	var data []byte
	for i := range 9 {
		page := make([]byte, 4096)
		switch i % 3 {
		case 0:
			copy(page, bytes.Repeat([]byte("vm_area_struct "), 274))
		case 1:
			for j := range page {
				page[j] = byte(rng.UintN(256))
			}
		default:
			for j := 0; j < len(page); j += 16 {
				page[j] = byte(j >> 4)
			}
		}
		data = append(data, page...)
	}
	data = append(data, "tail"...)

	path := filepath.Join(t.TempDir(), "input.bin")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	return path
}

func TestCompressDecompress(t *testing.T) {
	in := testFile(t)
	dir := t.TempDir()
	packed := filepath.Join(dir, "packed.zbw")
	restored := filepath.Join(dir, "restored.bin")
	metricsFile := filepath.Join(dir, "metrics.prom")

	out := run(t, "compress", in, packed, "--workers=3", "--metrics-file", metricsFile)
	require.Contains(t, out, "pages=10")

	out = run(t, "decompress", packed, restored, "-w", "2")
	require.Contains(t, out, "pages=10 bytes=36868")

	want, err := os.ReadFile(in)
	require.NoError(t, err)
	got, err := os.ReadFile(restored)
	require.NoError(t, err)
	require.Equal(t, want, got)

	prom, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	require.Contains(t, string(prom), `zbewalgo_compress_total{result="compressed"}`)
}

func TestDecompressRejectsDamage(t *testing.T) {
	in := testFile(t)
	dir := t.TempDir()
	packed := filepath.Join(dir, "packed.zbw")
	run(t, "compress", in, packed)

	data, err := os.ReadFile(packed)
	require.NoError(t, err)
	data[len(data)/2] ^= 0x5A
	require.NoError(t, os.WriteFile(packed, data, 0o600))

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"decompress", packed, filepath.Join(dir, "out.bin")})
	require.Error(t, cmd.Execute())
}

func TestBench(t *testing.T) {
	out := run(t, "bench", testFile(t), "--baselines=lz4,zstd")
	require.Contains(t, out, "zbewalgo")
	require.Contains(t, out, "lz4")
	require.Contains(t, out, "zstd")
	require.NotContains(t, out, "| s2 ")
	require.Contains(t, out, "PIPELINE")
}

func TestVerifyPage(t *testing.T) {
	want := []byte("page contents")
	require.NoError(t, verifyPage("zbewalgo", 0, bytes.Clone(want), want))

	got := bytes.Clone(want)
	got[3] ^= 0xFF
	err := verifyPage("zbewalgo", 7, got, want)
	require.Error(t, err)
	require.Contains(t, err.Error(), "page 7 does not round-trip")

	require.Error(t, verifyPage("lz4", 1, want[:4], want))
}

func TestRecordLatencyClamps(t *testing.T) {
	h := newHistogram()
	recordLatency(h, 0)
	recordLatency(h, time.Microsecond)
	recordLatency(h, time.Second)

	require.Equal(t, int64(3), h.TotalCount())
	require.LessOrEqual(t, h.Min(), minLatency.Nanoseconds())
	require.GreaterOrEqual(t, h.Max(), maxLatency.Nanoseconds()*99/100)
}

func TestPipelines(t *testing.T) {
	out := run(t, "pipelines", "--pipelines=bwt-mtf-huffman,rle")
	require.Equal(t, "combinations={\n\tcombination[0]=bwt-mtf-huffman\n\tcombination[1]=rle\n}\n", out)

	out = run(t, "pipelines", "--table")
	require.Contains(t, out, "bitshuffle-rle-bitshuffle-rle")
}

func TestConfigDump(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "zbewalgo.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("early_abort_size: 64\nworkers: 2\n"), 0o600))

	out := run(t, "config", "dump", "--config", cfgPath, "--bwt-max-alphabet=120")
	cfg, err := config.Parse([]byte(out))
	require.NoError(t, err)
	require.Equal(t, 64, cfg.EarlyAbortSize)
	require.Equal(t, 120, cfg.BWTMaxAlphabet)
	require.Equal(t, 2, cfg.Workers)
	require.Equal(t, "error", cfg.Log.Level)
}

func TestInvalidConfig(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"pipelines", "--early-abort-size=-1"})
	require.Error(t, cmd.Execute())
}
