package codec

import (
	"github.com/arloliu/zbewalgo/endian"
	"github.com/arloliu/zbewalgo/errs"
	"github.com/arloliu/zbewalgo/format"
)

const (
	bewalgoHashLog     = 12
	bewalgoHashSize    = 1 << bewalgoHashLog
	bewalgoWorkspace   = bewalgoHashSize * 4
	bewalgoSkipTrigger = 6
	bewalgoMaxLength   = 255
	bewalgoMaxOffset   = 1<<16 - 1
)

// bewalgoCodec is an LZ77 matcher over 8-byte words. A single-entry hash
// table remembers the last position of every hashed word; the search stride
// grows after 64 consecutive misses so incompressible stretches are skipped
// quickly.
//
// Wire format: u16 length | 8-byte words. The stream is a sequence of control
// words, each holding two 4-byte blocks (u8 literal words, u8 match words,
// u16 match offset in words). The literal words of both blocks follow their
// control word. A block copies its literals, then copies its match from
// offset words back; matches may overlap the output they produce.
type bewalgoCodec struct{}

// NewBewalgo returns the hash-table LZ matcher.
func NewBewalgo() Algorithm { return bewalgoCodec{} }

func (bewalgoCodec) ID() format.AlgorithmID { return format.AlgorithmBewalgo }
func (bewalgoCodec) Name() string           { return "bewalgo" }
func (bewalgoCodec) Kind() format.Kind      { return format.KindCompress }
func (bewalgoCodec) WorkspaceSize() int     { return bewalgoWorkspace }

func bewalgoHash(w uint64) uint32 {
	return uint32(((w >> 24) * 11400714785074694791) >> (64 - bewalgoHashLog))
}

// bewalgoWriter appends blocks to the output, opening a new control word for
// every second block.
type bewalgoWriter struct {
	dst   []byte
	src   []byte
	limit int
	op    int
	ctrl  int
	half  int
}

func (w *bewalgoWriter) block(lit, litLen, matchLen, offset int) error {
	if w.half == 0 {
		if w.op+endian.WordSize > w.limit {
			return errs.ErrDestTooSmall
		}
		w.ctrl = w.op
		le.PutUint64(w.dst[w.op:], 0)
		w.op += endian.WordSize
	}
	if w.op+litLen*endian.WordSize > w.limit {
		return errs.ErrDestTooSmall
	}

	c := w.ctrl + 4*w.half
	w.dst[c] = byte(litLen)
	w.dst[c+1] = byte(matchLen)
	le.PutUint16(w.dst[c+2:], uint16(offset))
	for i := lit; i < lit+litLen; i++ {
		le.PutUint64(w.dst[w.op:], endian.LoadWord(w.src, i))
		w.op += endian.WordSize
	}
	w.half ^= 1

	return nil
}

// sequence emits litLen literal words starting at lit followed by a match of
// matchLen words, splitting both into blocks of at most 255 words.
func (w *bewalgoWriter) sequence(lit, litLen, matchLen, offset int) error {
	for litLen > bewalgoMaxLength {
		if err := w.block(lit, bewalgoMaxLength, 0, 0); err != nil {
			return err
		}
		lit += bewalgoMaxLength
		litLen -= bewalgoMaxLength
	}
	m := min(matchLen, bewalgoMaxLength)
	if litLen > 0 || m > 0 {
		if err := w.block(lit, litLen, m, offset); err != nil {
			return err
		}
	}
	for matchLen -= m; matchLen > 0; matchLen -= m {
		m = min(matchLen, bewalgoMaxLength)
		if err := w.block(0, 0, m, offset); err != nil {
			return err
		}
	}

	return nil
}

func (bewalgoCodec) Compress(dst, src, wrk []byte, lim Limits) (int, error) {
	if err := checkInput(src); err != nil {
		return 0, err
	}
	table, err := view[uint32](wrk, 0, bewalgoHashSize)
	if err != nil {
		return 0, err
	}
	clear(table)

	limit := outputLimit(dst, lim)
	if limit < 2 {
		return 0, errs.ErrDestTooSmall
	}
	le.PutUint16(dst, uint16(len(src)))
	w := bewalgoWriter{dst: dst, src: src, limit: limit, op: 2}

	words := endian.Words(len(src))
	word := func(i int) uint64 { return endian.LoadWord(src, i) }

	anchor, misses := 0, 0
	ip := 1
	for ip < words {
		x := word(ip)
		h := bewalgoHash(x)
		cand := int(table[h])
		table[h] = uint32(ip)
		if word(cand) != x || ip-cand > bewalgoMaxOffset {
			misses++
			ip += 1 + misses>>bewalgoSkipTrigger
			continue
		}

		for cand > 0 && ip > anchor && word(cand-1) == word(ip-1) {
			cand--
			ip--
		}
		end := ip + 1
		for end < words && word(cand+end-ip) == word(end) {
			end++
		}

		if err := w.sequence(anchor, ip-anchor, end-ip, ip-cand); err != nil {
			return 0, err
		}
		anchor, ip, misses = end, end, 0
	}
	if anchor < words {
		if err := w.sequence(anchor, words-anchor, 0, 0); err != nil {
			return 0, err
		}
	}

	return w.op, nil
}

func (bewalgoCodec) Decompress(dst, src, _ []byte) (int, error) {
	n, err := readLength(src, dst, 0)
	if err != nil {
		return 0, err
	}
	out := dst[:n]
	words := endian.Words(n)

	ip, op := 2, 0
	for op < words {
		if ip+endian.WordSize > len(src) {
			return 0, errs.ErrCorruptBlock
		}
		ctrl := src[ip : ip+endian.WordSize]
		ip += endian.WordSize
		for half := range 2 {
			b := ctrl[4*half : 4*half+4]
			litLen, matchLen, offset := int(b[0]), int(b[1]), int(le.Uint16(b[2:]))

			if op+litLen > words || ip+litLen*endian.WordSize > len(src) {
				return 0, errs.ErrCorruptBlock
			}
			for range litLen {
				endian.StoreWord(out, op, le.Uint64(src[ip:]))
				ip += endian.WordSize
				op++
			}

			if matchLen == 0 {
				continue
			}
			if offset == 0 || offset > op || op+matchLen > words {
				return 0, errs.ErrCorruptBlock
			}
			for range matchLen {
				endian.StoreWord(out, op, endian.LoadWord(out, op-offset))
				op++
			}
		}
	}

	return n, nil
}
