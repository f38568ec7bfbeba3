package baseline

import (
	"github.com/cockroachdb/errors"
	"github.com/klauspost/compress/s2"
)

// S2Codec compresses pages with S2 block encoding.
type S2Codec struct{}

var _ Codec = S2Codec{}

func (S2Codec) Type() Type { return S2 }

// Compress appends the S2 block of src to dst.
func (S2Codec) Compress(dst, src []byte) ([]byte, error) {
	if len(src) == 0 {
		return dst, nil
	}

	return append(dst, s2.Encode(nil, src)...), nil
}

// Decompress appends the decoded block to dst.
func (S2Codec) Decompress(dst, src []byte, size int) ([]byte, error) {
	if size == 0 {
		return dst, nil
	}
	out, err := s2.Decode(nil, src)
	if err != nil {
		return dst, errors.Wrap(err, "s2 decompress")
	}
	if _, err := checkSize(out, size); err != nil {
		return dst, err
	}

	return append(dst, out...), nil
}
