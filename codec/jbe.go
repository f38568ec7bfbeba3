package codec

import (
	"github.com/arloliu/zbewalgo/endian"
	"github.com/arloliu/zbewalgo/errs"
	"github.com/arloliu/zbewalgo/format"
)

// jbeCodec is J-bit encoding: the input is split into 8-byte words, and every
// word contributes one presence byte (bit 7-k set when byte k is non-zero)
// followed, in a second section, by its non-zero bytes only.
//
// With nibbleSwap set the codec is JBE2: every word first exchanges the low
// nibbles of its upper half with the high nibbles of its lower half, which
// groups zero nibbles of small integers into whole zero bytes.
//
// Wire format: u16 length | ceil(length/8) presence bytes | non-zero bytes.
type jbeCodec struct {
	nibbleSwap bool
}

// NewJBE returns the J-bit encoder.
func NewJBE() Algorithm { return jbeCodec{} }

// NewJBE2 returns the nibble-swapping J-bit encoder.
func NewJBE2() Algorithm { return jbeCodec{nibbleSwap: true} }

func (c jbeCodec) ID() format.AlgorithmID {
	if c.nibbleSwap {
		return format.AlgorithmJBE2
	}

	return format.AlgorithmJBE
}

func (c jbeCodec) Name() string {
	if c.nibbleSwap {
		return "jbe2"
	}

	return "jbe"
}

func (jbeCodec) Kind() format.Kind  { return format.KindCompress }
func (jbeCodec) WorkspaceSize() int { return 0 }

// swapNibbles is its own inverse.
func swapNibbles(x uint64) uint64 {
	return (x & 0xF0F0F0F00F0F0F0F) |
		((x & 0x0F0F0F0F00000000) >> 28) |
		((x & 0x00000000F0F0F0F0) << 28)
}

func (c jbeCodec) Compress(dst, src, _ []byte, _ Limits) (int, error) {
	if err := checkInput(src); err != nil {
		return 0, err
	}
	words := endian.Words(len(src))
	if len(dst) < 2+words {
		return 0, errs.ErrDestTooSmall
	}
	le.PutUint16(dst, uint16(len(src)))

	presence := dst[2 : 2+words]
	op := 2 + words
	for w := range words {
		x := endian.LoadWord(src, w)
		if c.nibbleSwap {
			x = swapNibbles(x)
		}
		var mask byte
		for k := range endian.WordSize {
			b := byte(x >> (8 * k))
			if b == 0 {
				continue
			}
			if op >= len(dst) {
				return 0, errs.ErrDestTooSmall
			}
			dst[op] = b
			op++
			mask |= 0x80 >> k
		}
		presence[w] = mask
	}

	return op, nil
}

func (c jbeCodec) Decompress(dst, src, _ []byte) (int, error) {
	n, err := readLength(src, dst, 0)
	if err != nil {
		return 0, err
	}
	words := endian.Words(n)
	if len(src) < 2+words {
		return 0, errs.ErrCorruptBlock
	}

	presence := src[2 : 2+words]
	ip := 2 + words
	out := dst[:n]
	for w, mask := range presence {
		var x uint64
		for k := range endian.WordSize {
			if mask&(0x80>>k) == 0 {
				continue
			}
			if ip >= len(src) {
				return 0, errs.ErrCorruptBlock
			}
			x |= uint64(src[ip]) << (8 * k)
			ip++
		}
		if c.nibbleSwap {
			x = swapNibbles(x)
		}
		endian.StoreWord(out, w, x)
	}

	return n, nil
}
