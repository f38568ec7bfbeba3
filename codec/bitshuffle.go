package codec

import (
	"github.com/arloliu/zbewalgo/endian"
	"github.com/arloliu/zbewalgo/errs"
	"github.com/arloliu/zbewalgo/format"
)

// bitshuffleCodec regroups the input by byte position within 8-byte words:
// first byte 0 of every word, then byte 1, and so on. Arrays of small
// integers turn into long runs of zero bytes.
//
// Wire format: u16 length | roundup8(length) bytes, the input zero-padded.
type bitshuffleCodec struct{}

// NewBitshuffle returns the byte-plane shuffle.
func NewBitshuffle() Algorithm { return bitshuffleCodec{} }

func (bitshuffleCodec) ID() format.AlgorithmID { return format.AlgorithmBitshuffle }
func (bitshuffleCodec) Name() string           { return "bitshuffle" }
func (bitshuffleCodec) Kind() format.Kind      { return format.KindTransform }
func (bitshuffleCodec) WorkspaceSize() int     { return 0 }

func (bitshuffleCodec) Compress(dst, src, _ []byte, _ Limits) (int, error) {
	if err := checkInput(src); err != nil {
		return 0, err
	}
	words := endian.Words(len(src))
	size := 2 + words*endian.WordSize
	if len(dst) < size {
		return 0, errs.ErrDestTooSmall
	}
	le.PutUint16(dst, uint16(len(src)))

	op := 2
	for k := range endian.WordSize {
		for w := range words {
			if i := w*endian.WordSize + k; i < len(src) {
				dst[op] = src[i]
			} else {
				dst[op] = 0
			}
			op++
		}
	}

	return size, nil
}

func (bitshuffleCodec) Decompress(dst, src, _ []byte) (int, error) {
	n, err := readLength(src, dst, 0)
	if err != nil {
		return 0, err
	}
	words := endian.Words(n)
	if len(src) < 2+words*endian.WordSize {
		return 0, errs.ErrCorruptBlock
	}

	ip := 2
	for k := range endian.WordSize {
		for w := range words {
			if i := w*endian.WordSize + k; i < n {
				dst[i] = src[ip]
			}
			ip++
		}
	}

	return n, nil
}
