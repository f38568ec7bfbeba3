package codec

import (
	"github.com/arloliu/zbewalgo/errs"
	"github.com/arloliu/zbewalgo/format"
)

// mtfCodec is the move-to-front transform: every byte is replaced by its rank
// in a recency list, turning local repetition into runs of small values.
type mtfCodec struct{}

// NewMTF returns the move-to-front transform.
func NewMTF() Algorithm { return mtfCodec{} }

func (mtfCodec) ID() format.AlgorithmID { return format.AlgorithmMTF }
func (mtfCodec) Name() string           { return "mtf" }
func (mtfCodec) Kind() format.Kind      { return format.KindTransform }
func (mtfCodec) WorkspaceSize() int     { return 0 }

func (mtfCodec) Compress(dst, src, _ []byte, _ Limits) (int, error) {
	if err := checkInput(src); err != nil {
		return 0, err
	}
	if len(dst) < len(src)+2 {
		return 0, errs.ErrDestTooSmall
	}
	le.PutUint16(dst, uint16(len(src)))

	dict := identityDict()
	out := dst[2 : 2+len(src)]
	for i, b := range src {
		rank := 0
		for dict[rank] != b {
			rank++
		}
		out[i] = byte(rank)
		copy(dict[1:rank+1], dict[:rank])
		dict[0] = b
	}

	return len(src) + 2, nil
}

func (mtfCodec) Decompress(dst, src, _ []byte) (int, error) {
	n, err := readLength(src, dst, 0)
	if err != nil {
		return 0, err
	}
	if len(src) < n+2 {
		return 0, errs.ErrCorruptBlock
	}

	dict := identityDict()
	for i, rank := range src[2 : 2+n] {
		b := dict[rank]
		dst[i] = b
		copy(dict[1:int(rank)+1], dict[:rank])
		dict[0] = b
	}

	return n, nil
}

func identityDict() [256]byte {
	var dict [256]byte
	for i := range dict {
		dict[i] = byte(i)
	}

	return dict
}
