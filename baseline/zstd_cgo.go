//go:build gozstd

package baseline

import (
	"github.com/cockroachdb/errors"
	"github.com/valyala/gozstd"
)

// Compress appends the Zstandard frame of src to dst.
func (ZstdCodec) Compress(dst, src []byte) ([]byte, error) {
	return gozstd.CompressLevel(dst, src, 3), nil
}

// Decompress appends the decoded frame to dst.
func (ZstdCodec) Decompress(dst, src []byte, size int) ([]byte, error) {
	if size == 0 {
		return dst, nil
	}
	base := len(dst)
	out, err := gozstd.Decompress(dst, src)
	if err != nil {
		return dst[:base], errors.Wrap(err, "zstd decompress")
	}
	if _, err := checkSize(out[base:], size); err != nil {
		return dst[:base], err
	}

	return out, nil
}
