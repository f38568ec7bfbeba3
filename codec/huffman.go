package codec

import (
	"github.com/arloliu/zbewalgo/errs"
	"github.com/arloliu/zbewalgo/format"
)

const (
	huffmanMaxNodes      = 400
	huffmanMaxCodeLength = 24
	huffmanTreeCapacity  = 2*256 - 1
)

// huffmanCodec is a static Huffman coder for small blocks.
//
// The tree lives in one array kept sorted by weight. Leaves are inserted in
// symbol order, then the k-th merge combines the nodes at positions 2k and
// 2k+1 and inserts the sum after every node of equal or smaller weight. The
// merged pair always sits below the insertion point, so child positions never
// move and the decoder rebuilds the identical tree from the sorted leaves.
//
// Wire format: u16 length | u8 leaves-1 | leaves x (u8 symbol, u16 weight) |
// codewords packed MSB-first, each written from the root down.
type huffmanCodec struct{}

// NewHuffman returns the Huffman coder.
func NewHuffman() Algorithm { return huffmanCodec{} }

func (huffmanCodec) ID() format.AlgorithmID { return format.AlgorithmHuffman }
func (huffmanCodec) Name() string           { return "huffman" }
func (huffmanCodec) Kind() format.Kind      { return format.KindCompress }
func (huffmanCodec) WorkspaceSize() int     { return 0 }

// huffmanNode is a leaf when ref < 0 (symbol -(ref+1)), otherwise the ref-th
// internal node whose children sit at positions 2*ref and 2*ref+1.
type huffmanNode struct {
	weight int
	ref    int
}

type huffmanTree struct {
	nodes  [huffmanTreeCapacity]huffmanNode
	count  int
	leaves int
}

func (t *huffmanTree) insert(nd huffmanNode) {
	i := t.count
	for i > 0 && t.nodes[i-1].weight > nd.weight {
		t.nodes[i] = t.nodes[i-1]
		i--
	}
	t.nodes[i] = nd
	t.count++
}

// merge builds the internal nodes on top of the sorted leaves.
func (t *huffmanTree) merge() {
	for k := 0; 2*k+1 < t.count; k++ {
		t.insert(huffmanNode{weight: t.nodes[2*k].weight + t.nodes[2*k+1].weight, ref: k})
	}
}

func (t *huffmanTree) root() int {
	return t.count - 1
}

func (huffmanCodec) Compress(dst, src, _ []byte, lim Limits) (int, error) {
	if err := checkInput(src); err != nil {
		return 0, err
	}

	var freq [256]int
	for _, b := range src {
		freq[b]++
	}
	var t huffmanTree
	for sym, f := range freq {
		if f > 0 {
			t.insert(huffmanNode{weight: f, ref: -(sym + 1)})
			t.leaves++
		}
	}
	if 2*t.leaves-1 > huffmanMaxNodes {
		return 0, errs.ErrTooManyNodes
	}

	// the header lists the leaves in sorted order, before merging interleaves
	// internal nodes with them
	limit := outputLimit(dst, lim)
	op := 3 + 3*t.leaves
	if op > limit {
		return 0, errs.ErrDestTooSmall
	}
	le.PutUint16(dst, uint16(len(src)))
	dst[2] = byte(t.leaves - 1)
	for p := range t.leaves {
		nd := t.nodes[p]
		dst[3+3*p] = byte(-(nd.ref + 1))
		le.PutUint16(dst[3+3*p+1:], uint16(nd.weight))
	}
	t.merge()

	var parent [huffmanTreeCapacity]int
	for p := range t.count {
		if k := t.nodes[p].ref; k >= 0 {
			parent[2*k] = p
			parent[2*k+1] = p
		}
	}
	var codes [256]uint32
	var lengths [256]uint
	root := t.root()
	for q := range t.count {
		nd := t.nodes[q]
		if nd.ref >= 0 {
			continue
		}
		sym := -(nd.ref + 1)
		var code uint32
		var length uint
		for p := q; p != root; p = parent[p] {
			code |= uint32(p&1) << length
			length++
		}
		if length > huffmanMaxCodeLength {
			return 0, errs.ErrCodewordTooLong
		}
		codes[sym] = code
		lengths[sym] = length
	}

	var acc uint64
	var bits uint
	for _, b := range src {
		acc = acc<<lengths[b] | uint64(codes[b])
		bits += lengths[b]
		for bits >= 8 {
			if op >= limit {
				return 0, errs.ErrDestTooSmall
			}
			bits -= 8
			dst[op] = byte(acc >> bits)
			op++
		}
	}
	if bits > 0 {
		if op >= limit {
			return 0, errs.ErrDestTooSmall
		}
		dst[op] = byte(acc << (8 - bits))
		op++
	}

	return op, nil
}

func (huffmanCodec) Decompress(dst, src, _ []byte) (int, error) {
	n, err := readLength(src, dst, 0)
	if err != nil {
		return 0, err
	}
	if len(src) < 3 {
		return 0, errs.ErrCorruptBlock
	}
	leaves := int(src[2]) + 1
	ip := 3 + 3*leaves
	if len(src) < ip {
		return 0, errs.ErrCorruptBlock
	}

	// leaves are stored in tree order, so they are placed without sorting
	var t huffmanTree
	for p := range leaves {
		w := int(le.Uint16(src[3+3*p+1:]))
		if w == 0 || (p > 0 && w < t.nodes[p-1].weight) {
			return 0, errs.ErrCorruptBlock
		}
		t.nodes[p] = huffmanNode{weight: w, ref: -(int(src[3+3*p]) + 1)}
	}
	t.count = leaves
	t.leaves = leaves
	t.merge()

	root := t.nodes[t.root()]
	in := src[ip:]
	pos := 0
	for i := range n {
		nd := root
		for nd.ref >= 0 {
			if pos>>3 >= len(in) {
				return 0, errs.ErrCorruptBlock
			}
			bit := int(in[pos>>3]>>(7-pos&7)) & 1
			pos++
			nd = t.nodes[2*nd.ref+bit]
		}
		dst[i] = byte(-(nd.ref + 1))
	}

	return n, nil
}
