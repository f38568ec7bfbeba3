package pipeline

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/zbewalgo/codec"
	"github.com/arloliu/zbewalgo/errs"
	"github.com/arloliu/zbewalgo/format"
)

func mustParse(t *testing.T, spec string) Pipeline {
	t.Helper()
	p, err := Parse(spec, codec.Builtin())
	require.NoError(t, err)

	return p
}

func TestRegistryAdd(t *testing.T) {
	r := NewRegistry()
	require.Equal(t, 0, r.Len())

	added, err := r.Add(mustParse(t, "bwt-mtf-rle"))
	require.NoError(t, err)
	require.True(t, added)

	added, err = r.Add(mustParse(t, "bwt-mtf-rle"))
	require.NoError(t, err)
	require.False(t, added, "duplicates are ignored")
	require.Equal(t, 1, r.Len())

	_, err = r.Add(Pipeline{})
	require.ErrorIs(t, err, errs.ErrEmptyPipeline)
	require.Equal(t, 1, r.Len())
}

func TestRegistryFull(t *testing.T) {
	r := NewRegistry()
	n := 0
	for a := range format.AlgorithmID(9) {
		for b := range format.AlgorithmID(9) {
			for c := range format.AlgorithmID(9) {
				if n == format.MaxPipelines {
					break
				}
				added, err := r.Add(MustNew(a, b, c))
				require.NoError(t, err)
				require.True(t, added)
				n++
			}
		}
	}
	require.Equal(t, format.MaxPipelines, r.Len())

	_, err := r.Add(mustParse(t, "huffman-huffman-huffman-huffman"))
	require.ErrorIs(t, err, errs.ErrRegistryFull)

	// a duplicate is still accepted silently
	added, err := r.Add(MustNew(0, 0, 0))
	require.NoError(t, err)
	require.False(t, added)
}

func TestRegistryReplaceAndReset(t *testing.T) {
	defaults, err := Defaults(codec.Builtin())
	require.NoError(t, err)
	r := NewRegistry(defaults...)
	require.Equal(t, defaults, r.Snapshot().All())

	require.NoError(t, r.Replace(mustParse(t, "rle"), mustParse(t, "rle"), mustParse(t, "jbe")))
	require.Equal(t, []Pipeline{mustParse(t, "rle"), mustParse(t, "jbe")}, r.Snapshot().All())

	require.ErrorIs(t, r.Replace(), errs.ErrEmptyPipeline)
	require.ErrorIs(t, r.Replace(mustParse(t, "rle"), Pipeline{}), errs.ErrEmptyPipeline)
	require.Equal(t, 2, r.Len(), "failed replace leaves the registry unchanged")

	r.Reset()
	require.Equal(t, defaults, r.Snapshot().All())
}

func TestSnapshotIsolation(t *testing.T) {
	r := NewRegistry(mustParse(t, "rle"))
	before := r.Snapshot()

	_, err := r.Add(mustParse(t, "jbe"))
	require.NoError(t, err)

	require.Equal(t, 1, before.Len())
	require.Equal(t, 2, r.Snapshot().Len())
	require.Greater(t, r.Snapshot().Version(), before.Version())
}

func TestRegistryConcurrentReaders(t *testing.T) {
	r := NewRegistry(mustParse(t, "rle"))

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 1000 {
				snap := r.Snapshot()
				for i := range snap.Len() {
					assert.False(t, snap.At(i).IsEmpty())
				}
			}
		}()
	}
	for i := range 200 {
		if i%50 == 0 {
			r.Reset()
		}
		_, _ = r.Add(MustNew(format.AlgorithmID(i%9), format.AlgorithmID(i/9%9)))
	}
	wg.Wait()
}
