package codec

import (
	"github.com/arloliu/zbewalgo/endian"
	"github.com/arloliu/zbewalgo/errs"
	"github.com/arloliu/zbewalgo/format"
)

const (
	bewalgo2IndexShift = 7
	bewalgo2MatchBit   = 1 << 6
	bewalgo2MaxCount   = 1<<6 - 1
	bewalgo2HeaderSize = 4
	// inputs above this size are sampled before the full scan
	bewalgo2SampleThreshold = 512
)

// bewalgo2Codec is an LZ matcher over a table of distinct 8-byte words.
//
// The input is scanned backwards from its last word. Every distinct word is
// inserted into an AVL tree whose node indices double as positions in a
// literal table. The scan emits 16-bit records: either a repeat of one
// literal or a run of consecutive literals, which reproduces any stretch
// whose words were first seen in the same order.
//
// Wire format: u16 end of records in 16-bit units | u16 length | records |
// literal table of u64 words. A record is index<<7 | match<<6 | count with
// count in 1..63; records are replayed from the last output word downwards.
type bewalgo2Codec struct{}

// NewBewalgo2 returns the tree-based LZ matcher.
func NewBewalgo2() Algorithm { return bewalgo2Codec{} }

func (bewalgo2Codec) ID() format.AlgorithmID { return format.AlgorithmBewalgo2 }
func (bewalgo2Codec) Name() string           { return "bewalgo2" }
func (bewalgo2Codec) Kind() format.Kind      { return format.KindCompress }
func (bewalgo2Codec) WorkspaceSize() int     { return avlWorkspace }

type bewalgo2Encoder struct {
	src         []byte
	dst         []byte
	tree        *avlTree
	maxLiterals int
	limit       int
	op          int
}

func (e *bewalgo2Encoder) word(i int) uint64 {
	return endian.LoadWord(e.src, i)
}

// add inserts v and fails once the literal table outgrows the output budget.
func (e *bewalgo2Encoder) add(v uint64) (int, error) {
	idx := e.tree.insert(v)
	if e.tree.size > e.maxLiterals {
		return 0, errs.ErrIncompressible
	}

	return idx, nil
}

// record emits count words starting at literal idx, split into records of at
// most 63 words.
func (e *bewalgo2Encoder) record(idx int, match bool, count int) error {
	for count > 0 {
		c := min(count, bewalgo2MaxCount)
		if e.op+2 > e.limit {
			return errs.ErrDestTooSmall
		}
		v := idx<<bewalgo2IndexShift | c
		if match {
			v |= bewalgo2MatchBit
			idx += c
		}
		le.PutUint16(e.dst[e.op:], uint16(v))
		e.op += 2
		count -= c
	}

	return nil
}

// sample probes the last, first and middle words of the block and rejects
// blocks whose samples are almost all distinct.
func (e *bewalgo2Encoder) sample(words int) error {
	last := words - 1
	for i := 2; i <= 10; i++ {
		if _, err := e.add(e.word(last - i)); err != nil {
			return err
		}
	}
	if e.tree.size < 6 {
		return nil
	}

	for i := range 10 {
		if _, err := e.add(e.word(i)); err != nil {
			return err
		}
	}
	if e.tree.size < 13 {
		return nil
	}

	for i := 256; i < 266 && i < words; i++ {
		if _, err := e.add(e.word(i)); err != nil {
			return err
		}
	}
	if e.tree.size >= 21 {
		return errs.ErrIncompressible
	}

	return nil
}

func (bewalgo2Codec) Compress(dst, src, wrk []byte, lim Limits) (int, error) {
	if err := checkInput(src); err != nil {
		return 0, err
	}
	tree, err := newAVLTree(wrk)
	if err != nil {
		return 0, err
	}

	limit := outputLimit(dst, lim)
	e := bewalgo2Encoder{
		src:         src,
		dst:         dst,
		tree:        tree,
		maxLiterals: min(limit>>3-bewalgo2HeaderSize, avlCapacity-1),
		limit:       limit,
		op:          bewalgo2HeaderSize,
	}
	if e.maxLiterals < 1 {
		return 0, errs.ErrDestTooSmall
	}

	words := endian.Words(len(src))
	p := words - 1
	idx, err := e.add(e.word(p))
	if err != nil {
		return 0, err
	}
	if len(src) > bewalgo2SampleThreshold {
		if err := e.sample(words); err != nil {
			return 0, err
		}
	}

	for {
		run := 1
		for p-run >= 0 && e.word(p-run) == tree.keys[idx] {
			run++
		}

		if run > 1 {
			if err := e.record(idx, false, run); err != nil {
				return 0, err
			}
		} else {
			// extend while the following words were first seen in this order
			for p-run >= 0 {
				next, err := e.add(e.word(p - run))
				if err != nil {
					return 0, err
				}
				if next != idx+run {
					break
				}
				run++
			}
			if err := e.record(idx, run > 1, run); err != nil {
				return 0, err
			}
		}

		if p -= run; p < 0 {
			break
		}
		if idx, err = e.add(e.word(p)); err != nil {
			return 0, err
		}
	}

	size := e.op + tree.size*endian.WordSize
	if size > limit {
		return 0, errs.ErrDestTooSmall
	}
	le.PutUint16(dst, uint16(e.op/2))
	le.PutUint16(dst[2:], uint16(len(src)))
	for i, v := range tree.keys[:tree.size] {
		le.PutUint64(dst[e.op+i*endian.WordSize:], v)
	}

	return size, nil
}

func (bewalgo2Codec) Decompress(dst, src, _ []byte) (int, error) {
	n, err := readLength(src, dst, 2)
	if err != nil {
		return 0, err
	}
	end := 2 * int(le.Uint16(src))
	if end < bewalgo2HeaderSize || end > len(src) {
		return 0, errs.ErrCorruptBlock
	}
	literals := (len(src) - end) / endian.WordSize
	literal := func(i int) uint64 {
		return le.Uint64(src[end+i*endian.WordSize:])
	}

	out := dst[:n]
	op := endian.Words(n) - 1
	for r := bewalgo2HeaderSize; r < end; r += 2 {
		v := int(le.Uint16(src[r:]))
		idx, count := v>>bewalgo2IndexShift, v&bewalgo2MaxCount
		if count == 0 || count > op+1 {
			return 0, errs.ErrCorruptBlock
		}

		if v&bewalgo2MatchBit != 0 {
			if idx+count > literals {
				return 0, errs.ErrCorruptBlock
			}
			for k := range count {
				endian.StoreWord(out, op, literal(idx+k))
				op--
			}
			continue
		}

		if idx >= literals {
			return 0, errs.ErrCorruptBlock
		}
		x := literal(idx)
		for range count {
			endian.StoreWord(out, op, x)
			op--
		}
	}
	if op != -1 {
		return 0, errs.ErrCorruptBlock
	}

	return n, nil
}
