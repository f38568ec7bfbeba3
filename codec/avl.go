package codec

const avlNull = 0xFFFF

// avlTree is an AVL tree of distinct 64-bit values stored in flat arrays.
// Node i holds keys[i]; children are indices into the same arrays and avlNull
// marks a missing child. Nodes are numbered in insertion order, so a node's
// index doubles as its position in the literal table.
type avlTree struct {
	keys   []uint64
	left   []uint16
	right  []uint16
	height []int8
	root   uint16
	size   int
}

const (
	avlCapacity     = 512
	avlKeysOffset   = 0
	avlLeftOffset   = avlKeysOffset + 8*avlCapacity
	avlRightOffset  = avlLeftOffset + 2*avlCapacity
	avlHeightOffset = avlRightOffset + 2*avlCapacity
	avlWorkspace    = avlHeightOffset + avlCapacity
)

// newAVLTree lays an empty tree of avlCapacity nodes over wrk.
func newAVLTree(wrk []byte) (*avlTree, error) {
	keys, err := view[uint64](wrk, avlKeysOffset, avlCapacity)
	if err != nil {
		return nil, err
	}
	left, err := view[uint16](wrk, avlLeftOffset, avlCapacity)
	if err != nil {
		return nil, err
	}
	right, err := view[uint16](wrk, avlRightOffset, avlCapacity)
	if err != nil {
		return nil, err
	}
	height, err := view[int8](wrk, avlHeightOffset, avlCapacity)
	if err != nil {
		return nil, err
	}

	return &avlTree{keys: keys, left: left, right: right, height: height, root: avlNull}, nil
}

// insert returns the index of v, adding a node when v is absent.
// The caller guarantees size < avlCapacity.
func (t *avlTree) insert(v uint64) int {
	idx := -1
	t.root = t.insertAt(t.root, v, &idx)

	return idx
}

func (t *avlTree) insertAt(n uint16, v uint64, idx *int) uint16 {
	if n == avlNull {
		i := t.size
		t.size++
		t.keys[i] = v
		t.left[i] = avlNull
		t.right[i] = avlNull
		t.height[i] = 1
		*idx = i

		return uint16(i)
	}

	switch k := t.keys[n]; {
	case v == k:
		*idx = int(n)
		return n
	case v < k:
		t.left[n] = t.insertAt(t.left[n], v, idx)
	default:
		t.right[n] = t.insertAt(t.right[n], v, idx)
	}

	return t.rebalance(n)
}

func (t *avlTree) heightOf(n uint16) int8 {
	if n == avlNull {
		return 0
	}

	return t.height[n]
}

func (t *avlTree) update(n uint16) {
	t.height[n] = 1 + max(t.heightOf(t.left[n]), t.heightOf(t.right[n]))
}

func (t *avlTree) rotateRight(n uint16) uint16 {
	l := t.left[n]
	t.left[n] = t.right[l]
	t.right[l] = n
	t.update(n)
	t.update(l)

	return l
}

func (t *avlTree) rotateLeft(n uint16) uint16 {
	r := t.right[n]
	t.right[n] = t.left[r]
	t.left[r] = n
	t.update(n)
	t.update(r)

	return r
}

func (t *avlTree) rebalance(n uint16) uint16 {
	t.update(n)
	switch bal := t.heightOf(t.left[n]) - t.heightOf(t.right[n]); {
	case bal > 1:
		if l := t.left[n]; t.heightOf(t.left[l]) < t.heightOf(t.right[l]) {
			t.left[n] = t.rotateLeft(l)
		}
		return t.rotateRight(n)
	case bal < -1:
		if r := t.right[n]; t.heightOf(t.right[r]) < t.heightOf(t.left[r]) {
			t.right[n] = t.rotateRight(r)
		}
		return t.rotateLeft(n)
	}

	return n
}
