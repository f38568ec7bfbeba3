package codec

import (
	"github.com/arloliu/zbewalgo/errs"
	"github.com/arloliu/zbewalgo/format"
)

// bwtCodec is a Burrows-Wheeler transform that sorts rotations by their
// first symbol only. With a one-symbol context the transform is a stable
// counting sort, linear in the input and cheap enough for page-sized blocks.
//
// Wire format: u8 last input byte | u16 length | permuted bytes.
type bwtCodec struct{}

// NewBWT returns the Burrows-Wheeler transform.
func NewBWT() Algorithm { return bwtCodec{} }

func (bwtCodec) ID() format.AlgorithmID { return format.AlgorithmBWT }
func (bwtCodec) Name() string           { return "bwt" }
func (bwtCodec) Kind() format.Kind      { return format.KindTransform }
func (bwtCodec) WorkspaceSize() int     { return 0 }

func (bwtCodec) Compress(dst, src, _ []byte, lim Limits) (int, error) {
	if err := checkInput(src); err != nil {
		return 0, err
	}
	n := len(src)
	if len(dst) < n+3 {
		return 0, errs.ErrDestTooSmall
	}

	var counts [256]int
	for _, b := range src {
		counts[b]++
	}
	alphabet, sum := 0, 0
	for i, c := range counts {
		if c > 0 {
			alphabet++
		}
		sum += c
		counts[i] = sum
	}
	maxAlphabet := lim.BWTMaxAlphabet
	if maxAlphabet <= 0 {
		maxAlphabet = 256
	}
	if alphabet > maxAlphabet {
		return 0, errs.ErrAlphabetTooLarge
	}

	dst[0] = src[n-1]
	le.PutUint16(dst[1:], uint16(n))
	out := dst[3 : 3+n]
	for i := n - 1; i > 0; i-- {
		counts[src[i]]--
		out[counts[src[i]]] = src[i-1]
	}
	counts[src[0]]--
	out[counts[src[0]]] = src[n-1]

	return n + 3, nil
}

func (bwtCodec) Decompress(dst, src, _ []byte) (int, error) {
	n, err := readLength(src, dst, 1)
	if err != nil {
		return 0, err
	}
	if len(src) < n+3 {
		return 0, errs.ErrCorruptBlock
	}
	in := src[3 : 3+n]

	var counts, starts [256]int
	for _, b := range in {
		counts[b]++
	}
	sum := 0
	for i, c := range counts {
		starts[i] = sum
		sum += c
		counts[i] = sum
	}

	key := src[0]
	for k := n - 1; k >= 0; k-- {
		if counts[key] == starts[key] {
			return 0, errs.ErrCorruptBlock
		}
		counts[key]--
		dst[k] = key
		key = in[counts[key]]
	}

	return n, nil
}
