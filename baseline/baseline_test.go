package baseline

import (
	"bytes"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

func testPages() map[string][]byte {
	rng := rand.New(rand.NewPCG(1, 2))
	random := make([]byte, 4096)
	for i := range random {
		random[i] = byte(rng.UintN(256))
	}

	return map[string][]byte{
		"zeros":  make([]byte, 4096),
		"text":   bytes.Repeat([]byte("kswapd0 reclaimed 32 pages; "), 146),
		"random": random,
		"tiny":   []byte("x"),
	}
}

func TestParseType(t *testing.T) {
	for _, typ := range Types {
		got, err := ParseType(typ.String())
		require.NoError(t, err)
		require.Equal(t, typ, got)
	}

	got, err := ParseType(" LZ4 ")
	require.NoError(t, err)
	require.Equal(t, LZ4, got)

	_, err = ParseType("brotli")
	require.Error(t, err)

	_, err = New(Type(42))
	require.Error(t, err)
}

func TestRoundTrip(t *testing.T) {
	for _, typ := range Types {
		c, err := New(typ)
		require.NoError(t, err)
		require.Equal(t, typ, c.Type())

		for name, page := range testPages() {
			t.Run(typ.String()+"/"+name, func(t *testing.T) {
				compressed, err := c.Compress([]byte("hdr"), page)
				require.NoError(t, err)
				require.True(t, bytes.HasPrefix(compressed, []byte("hdr")))

				out, err := c.Decompress([]byte("pre"), compressed[3:], len(page))
				require.NoError(t, err)
				require.Equal(t, append([]byte("pre"), page...), out)
			})
		}
	}
}

func TestCompressible(t *testing.T) {
	page := make([]byte, 4096)
	for _, typ := range []Type{LZ4, S2, Zstd} {
		c, err := New(typ)
		require.NoError(t, err)

		out, err := c.Compress(nil, page)
		require.NoError(t, err)
		require.Less(t, len(out), 256, typ.String())
	}
}

func TestDecompressWrongSize(t *testing.T) {
	page := bytes.Repeat([]byte("abcd"), 1024)
	for _, typ := range Types {
		c, err := New(typ)
		require.NoError(t, err)

		out, err := c.Compress(nil, page)
		require.NoError(t, err)

		_, err = c.Decompress(nil, out, len(page)-1)
		require.Error(t, err, typ.String())
	}
}

func TestStats(t *testing.T) {
	s := Stats{Type: LZ4, OriginalSize: 4096, CompressedSize: 1024}
	require.InDelta(t, 0.25, s.Ratio(), 1e-9)
	require.InDelta(t, 75.0, s.SpaceSavings(), 1e-9)
	require.Zero(t, Stats{}.Ratio())
}
