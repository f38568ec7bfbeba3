package baseline

import (
	"slices"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/pierrec/lz4/v4"
)

// lz4CompressorPool pools lz4.Compressor instances; each carries a hash table
// worth reusing.
var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

// LZ4Codec compresses pages in the LZ4 block format.
type LZ4Codec struct{}

var _ Codec = LZ4Codec{}

// NewLZ4 creates an LZ4 codec.
func NewLZ4() LZ4Codec {
	return LZ4Codec{}
}

func (LZ4Codec) Type() Type { return LZ4 }

// Compress appends the LZ4 block of src to dst. Input that does not shrink
// is stored as is; Decompress recognises it by its length.
func (LZ4Codec) Compress(dst, src []byte) ([]byte, error) {
	if len(src) == 0 {
		return dst, nil
	}
	base := len(dst)
	dst = slices.Grow(dst, lz4.CompressBlockBound(len(src)))

	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(src, dst[base:cap(dst)])
	if err != nil {
		return dst[:base], errors.Wrap(err, "lz4 compress")
	}
	if n == 0 || n >= len(src) {
		return append(dst[:base], src...), nil
	}

	return dst[:base+n], nil
}

// Decompress appends the size bytes encoded in src to dst.
func (LZ4Codec) Decompress(dst, src []byte, size int) ([]byte, error) {
	if len(src) == size {
		// stored page
		return append(dst, src...), nil
	}
	base := len(dst)
	dst = slices.Grow(dst, size)

	n, err := lz4.UncompressBlock(src, dst[base:base+size])
	if err != nil {
		return dst[:base], errors.Wrap(err, "lz4 decompress")
	}
	if _, err := checkSize(dst[base:base+n], size); err != nil {
		return dst[:base], err
	}

	return dst[:base+n], nil
}
