package codec

import (
	"encoding/binary"
	"math/rand/v2"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/zbewalgo/errs"
	"github.com/arloliu/zbewalgo/format"
)

// generateTestData creates deterministic test inputs of the given shape.
func generateTestData(size int, shape string) []byte {
	data := make([]byte, size)
	rng := rand.New(rand.NewPCG(uint64(size), 42))

	switch shape {
	case "zeros":
		// already zero
	case "text":
		pattern := []byte("page cache entry 0042 maps to slot 17; ")
		for i := range data {
			data[i] = pattern[i%len(pattern)]
		}
	case "small_ints":
		for i := 0; i+4 <= size; i += 4 {
			binary.LittleEndian.PutUint32(data[i:], uint32(rng.IntN(300)))
		}
	case "runs":
		alphabet := []byte("ACGT")
		for i := 0; i < size; {
			run := 32 + rng.IntN(96)
			b := alphabet[rng.IntN(len(alphabet))]
			for j := 0; j < run && i < size; j++ {
				data[i] = b
				i++
			}
		}
	case "words":
		var vals [6]uint64
		for i := range vals {
			vals[i] = rng.Uint64()
		}
		for i := 0; i+8 <= size; i += 8 {
			binary.LittleEndian.PutUint64(data[i:], vals[(i/64)%len(vals)])
		}
	default:
		for i := range data {
			data[i] = byte(rng.UintN(256))
		}
	}

	return data
}

// roundTrip compresses src and checks that decompression restores it. It
// returns the compressed size or the codec error.
func roundTrip(t *testing.T, alg Algorithm, src []byte, lim Limits) (int, error) {
	t.Helper()

	dst := make([]byte, 2*len(src)+64)
	wrk := make([]byte, Builtin().WorkspaceSize())
	n, err := alg.Compress(dst, src, wrk, lim)
	if err != nil {
		return 0, err
	}

	out := make([]byte, len(src))
	m, err := alg.Decompress(out, dst[:n], wrk)
	require.NoError(t, err, "%s decompress", alg.Name())
	require.Equal(t, len(src), m)
	require.Equal(t, src, out, "%s round trip", alg.Name())

	return n, nil
}

func compressed(t *testing.T, alg Algorithm, src []byte, lim Limits) []byte {
	t.Helper()

	dst := make([]byte, 2*len(src)+64)
	wrk := make([]byte, Builtin().WorkspaceSize())
	n, err := alg.Compress(dst, src, wrk, lim)
	require.NoError(t, err)

	return dst[:n]
}

func TestBuiltinTable(t *testing.T) {
	table := Builtin()
	require.Equal(t, 9, table.Len())

	expected := []struct {
		name string
		kind format.Kind
	}{
		{"bewalgo", format.KindCompress},
		{"bewalgo2", format.KindCompress},
		{"bitshuffle", format.KindTransform},
		{"bwt", format.KindTransform},
		{"jbe", format.KindCompress},
		{"jbe2", format.KindCompress},
		{"mtf", format.KindTransform},
		{"rle", format.KindCompress},
		{"huffman", format.KindCompress},
	}
	for i, want := range expected {
		alg, ok := table.Get(format.AlgorithmID(i))
		require.True(t, ok)
		require.Equal(t, want.name, alg.Name())
		require.Equal(t, want.kind, alg.Kind())
		require.Equal(t, format.AlgorithmID(i).String(), alg.Name())

		byName, ok := table.Lookup(want.name)
		require.True(t, ok)
		require.Equal(t, alg.ID(), byName.ID())
	}

	_, ok := table.Get(format.AlgorithmID(9))
	require.False(t, ok)
	_, ok = table.Lookup("lz4")
	require.False(t, ok)
	_, ok = table.Lookup("RLE")
	require.False(t, ok, "names are case sensitive")

	require.Equal(t, bewalgoWorkspace, table.WorkspaceSize())
	require.Equal(t, bewalgoWorkspace+3*format.StageBufferSize, table.ScratchSize())
	require.Len(t, table.Algorithms(), 9)
}

func TestNewTable(t *testing.T) {
	t.Run("id must match position", func(t *testing.T) {
		_, err := NewTable(NewRLE())
		require.Error(t, err)
	})

	t.Run("duplicate names", func(t *testing.T) {
		algs := Builtin().Algorithms()
		algs = append(algs, renamed{Algorithm: NewRLE(), id: 9})
		_, err := NewTable(algs...)
		require.Error(t, err)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := NewTable()
		require.Error(t, err)
	})
}

type renamed struct {
	Algorithm
	id format.AlgorithmID
}

func (r renamed) ID() format.AlgorithmID { return r.id }

func TestRoundTripAllAlgorithms(t *testing.T) {
	sizes := []int{1, 7, 8, 9, 63, 100, 513, 1000, 4096}
	shapes := []string{"zeros", "text", "small_ints", "runs", "words", "random"}
	lim := Limits{MaxOutputSize: format.StageBufferSize, BWTMaxAlphabet: 256}

	for _, alg := range Builtin().Algorithms() {
		t.Run(alg.Name(), func(t *testing.T) {
			for _, shape := range shapes {
				for _, size := range sizes {
					src := generateTestData(size, shape)
					_, err := roundTrip(t, alg, src, lim)
					if err != nil {
						require.True(t, errors.Is(err, errs.ErrCodecFailure),
							"%s/%d: unexpected error %v", shape, size, err)
					}
				}
			}
		})
	}
}

func TestTransformsNeverFail(t *testing.T) {
	lim := Limits{BWTMaxAlphabet: 256}
	for _, name := range []string{"bitshuffle", "bwt", "mtf", "jbe", "jbe2", "rle"} {
		alg, ok := Builtin().Lookup(name)
		require.True(t, ok)
		for _, size := range []int{1, 5, 4096, format.MaxCodecInputSize} {
			_, err := roundTrip(t, alg, generateTestData(size, "random"), lim)
			require.NoError(t, err, "%s/%d", name, size)
		}
	}
}

func TestCompressRejectsInvalidInput(t *testing.T) {
	dst := make([]byte, 16)
	wrk := make([]byte, Builtin().WorkspaceSize())
	for _, alg := range Builtin().Algorithms() {
		_, err := alg.Compress(dst, nil, wrk, DefaultLimits())
		require.ErrorIs(t, err, errs.ErrCodecFailure, alg.Name())

		_, err = alg.Compress(dst, make([]byte, format.MaxCodecInputSize+1), wrk, DefaultLimits())
		require.ErrorIs(t, err, errs.ErrInputTooLarge, alg.Name())
	}
}

func TestCompressDestTooSmall(t *testing.T) {
	src := generateTestData(256, "text")
	wrk := make([]byte, Builtin().WorkspaceSize())
	for _, alg := range Builtin().Algorithms() {
		_, err := alg.Compress(make([]byte, 3), src, wrk, DefaultLimits())
		require.ErrorIs(t, err, errs.ErrDestTooSmall, alg.Name())
		require.ErrorIs(t, err, errs.ErrCodecFailure, alg.Name())
	}
}

func TestDecompressCorruptInput(t *testing.T) {
	lim := Limits{MaxOutputSize: format.StageBufferSize, BWTMaxAlphabet: 256}
	rng := rand.New(rand.NewPCG(7, 7))

	for _, alg := range Builtin().Algorithms() {
		t.Run(alg.Name(), func(t *testing.T) {
			src := generateTestData(1000, "text")
			valid := compressed(t, alg, src, lim)
			out := make([]byte, len(src))
			wrk := make([]byte, Builtin().WorkspaceSize())

			for cut := 0; cut < len(valid); cut++ {
				require.NotPanics(t, func() {
					_, _ = alg.Decompress(out, valid[:cut], wrk)
				})
			}
			for range 200 {
				mangled := append([]byte(nil), valid...)
				mangled[rng.IntN(len(mangled))] ^= byte(1 + rng.IntN(255))
				require.NotPanics(t, func() {
					_, _ = alg.Decompress(out, mangled, wrk)
				})
			}

			_, err := alg.Decompress(out, valid[:1], wrk)
			require.ErrorIs(t, err, errs.ErrCorruptBlock)
			_, err = alg.Decompress(out[:10], valid, wrk)
			require.ErrorIs(t, err, errs.ErrCorruptBlock, "length larger than destination")
		})
	}
}

func TestRLERunBoundary(t *testing.T) {
	rle := NewRLE()

	run128 := compressed(t, rle, generateRun('A', 128), DefaultLimits())
	require.Equal(t, []byte{128, 0, 0xFF, 'A'}, run128)

	run129 := compressed(t, rle, generateRun('A', 129), DefaultLimits())
	require.Equal(t, []byte{129, 0, 0xFF, 'A', 0x80, 'A'}, run129)

	mixed := compressed(t, rle, []byte("abcc"), DefaultLimits())
	require.Equal(t, []byte{4, 0, 0x01, 'a', 'b', 0x81, 'c'}, mixed)
}

func generateRun(b byte, n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = b
	}

	return out
}

func TestRLEWholePage(t *testing.T) {
	n, err := roundTrip(t, NewRLE(), generateRun('A', 4096), DefaultLimits())
	require.NoError(t, err)
	require.Equal(t, 2+2*32, n)
}

func TestMTFRanks(t *testing.T) {
	require.Equal(t, []byte{3, 0, 97, 0, 98}, compressed(t, NewMTF(), []byte("aab"), DefaultLimits()))
}

func TestBWT(t *testing.T) {
	bwt := NewBWT()

	require.Equal(t, []byte{'b', 2, 0, 'b', 'a'}, compressed(t, bwt, []byte("ab"), DefaultLimits()))

	_, err := roundTrip(t, bwt, []byte{'z'}, DefaultLimits())
	require.NoError(t, err)
}

func TestBWTAlphabetLimit(t *testing.T) {
	bwt := NewBWT()
	lim := DefaultLimits()

	atLimit := make([]byte, 0, 2*lim.BWTMaxAlphabet)
	for i := range lim.BWTMaxAlphabet {
		atLimit = append(atLimit, byte(i), byte(i))
	}
	_, err := roundTrip(t, bwt, atLimit, lim)
	require.NoError(t, err)

	overLimit := append(atLimit, byte(lim.BWTMaxAlphabet))
	_, err = roundTrip(t, bwt, overLimit, lim)
	require.ErrorIs(t, err, errs.ErrAlphabetTooLarge)
	require.ErrorIs(t, err, errs.ErrCodecFailure)
}

func TestBitshufflePlanes(t *testing.T) {
	src := []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	want := []byte{10, 0, 0, 8, 1, 9, 2, 0, 3, 0, 4, 0, 5, 0, 6, 0, 7, 0}
	require.Equal(t, want, compressed(t, NewBitshuffle(), src, DefaultLimits()))
}

func TestJBE(t *testing.T) {
	src := []byte{1, 0, 0, 0, 0, 0, 0, 2, 0, 0, 3}
	require.Equal(t, []byte{11, 0, 0x81, 0x20, 1, 2, 3}, compressed(t, NewJBE(), src, DefaultLimits()))

	n, err := roundTrip(t, NewJBE(), make([]byte, 4096), DefaultLimits())
	require.NoError(t, err)
	require.Equal(t, 2+512, n)
}

func TestJBE2NibbleSwap(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	for range 1000 {
		x := rng.Uint64()
		require.Equal(t, x, swapNibbles(swapNibbles(x)))
	}
	require.Equal(t, uint64(0x0000000100000000), swapNibbles(0x10))

	src := generateTestData(4096, "small_ints")
	_, err := roundTrip(t, NewJBE2(), src, DefaultLimits())
	require.NoError(t, err)
}

func TestHuffman(t *testing.T) {
	h := NewHuffman()

	t.Run("exact encoding", func(t *testing.T) {
		want := []byte{3, 0, 1, 'b', 1, 0, 'a', 2, 0, 0xC0}
		require.Equal(t, want, compressed(t, h, []byte("aab"), DefaultLimits()))
	})

	t.Run("single symbol", func(t *testing.T) {
		n, err := roundTrip(t, h, generateRun('x', 4096), DefaultLimits())
		require.NoError(t, err)
		require.Equal(t, 6, n)
	})

	t.Run("deterministic", func(t *testing.T) {
		src := generateTestData(4096, "text")
		require.Equal(t, compressed(t, h, src, DefaultLimits()), compressed(t, h, src, DefaultLimits()))
	})

	t.Run("too many nodes", func(t *testing.T) {
		_, err := roundTrip(t, h, generateTestData(4096, "random"), DefaultLimits())
		require.ErrorIs(t, err, errs.ErrTooManyNodes)
	})

	t.Run("output limit", func(t *testing.T) {
		_, err := roundTrip(t, h, generateTestData(4096, "text"), Limits{MaxOutputSize: 64})
		require.ErrorIs(t, err, errs.ErrDestTooSmall)
	})
}

func TestBewalgo(t *testing.T) {
	b := NewBewalgo()

	n, err := roundTrip(t, b, make([]byte, 4096), DefaultLimits())
	require.NoError(t, err)
	require.Equal(t, 2+3*8, n)

	long, err := roundTrip(t, b, generateTestData(4096, "words"), DefaultLimits())
	require.NoError(t, err)
	require.Less(t, long, 512)

	_, err = roundTrip(t, b, generateTestData(4096, "random"), DefaultLimits())
	require.ErrorIs(t, err, errs.ErrDestTooSmall)

	_, err = b.Compress(make([]byte, 64), []byte("x"), make([]byte, 16), DefaultLimits())
	require.ErrorIs(t, err, errs.ErrScratchTooSmall)
}

func TestBewalgo2(t *testing.T) {
	b := NewBewalgo2()

	n, err := roundTrip(t, b, make([]byte, 4096), DefaultLimits())
	require.NoError(t, err)
	require.Equal(t, 4+2*9+8, n)

	_, err = roundTrip(t, b, generateTestData(4096, "words"), DefaultLimits())
	require.NoError(t, err)

	_, err = roundTrip(t, b, generateTestData(4096, "random"), DefaultLimits())
	require.ErrorIs(t, err, errs.ErrIncompressible)

	// sequences seen earlier in the same order become single match records
	seq := make([]byte, 0, 4096)
	for rep := 0; rep < 4; rep++ {
		for i := range 128 {
			seq = binary.LittleEndian.AppendUint64(seq, uint64(i)*0x0101010101)
		}
	}
	n, err = roundTrip(t, b, seq, Limits{MaxOutputSize: format.StageBufferSize})
	require.NoError(t, err)
	require.Less(t, n, 1280)
}
