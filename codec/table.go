package codec

import (
	"fmt"

	"github.com/arloliu/zbewalgo/format"
)

// Table is the algorithm registry: a fixed mapping from algorithm id to codec.
//
// A Table is built once and never mutated, so it is safe for concurrent use
// without locking. Ids are positions in the table; the builtin order is part
// of the block format and must never change.
type Table struct {
	algs      []Algorithm
	workspace int
}

var builtin = mustNewTable(
	NewBewalgo(),
	NewBewalgo2(),
	NewBitshuffle(),
	NewBWT(),
	NewJBE(),
	NewJBE2(),
	NewMTF(),
	NewRLE(),
	NewHuffman(),
)

// Builtin returns the table of the nine builtin algorithms.
func Builtin() *Table {
	return builtin
}

// NewTable builds a table from algs. The id of every algorithm must equal its
// position and names must be unique.
func NewTable(algs ...Algorithm) (*Table, error) {
	if len(algs) == 0 || len(algs) > format.MaxAlgorithms {
		return nil, fmt.Errorf("algorithm table size %d out of range [1, %d]", len(algs), format.MaxAlgorithms)
	}

	t := &Table{algs: make([]Algorithm, len(algs))}
	seen := make(map[string]struct{}, len(algs))
	for i, alg := range algs {
		if int(alg.ID()) != i {
			return nil, fmt.Errorf("algorithm %q has id %d at position %d", alg.Name(), alg.ID(), i)
		}
		if _, dup := seen[alg.Name()]; dup {
			return nil, fmt.Errorf("duplicate algorithm name %q", alg.Name())
		}
		seen[alg.Name()] = struct{}{}
		t.algs[i] = alg
		t.workspace = max(t.workspace, alg.WorkspaceSize())
	}

	return t, nil
}

func mustNewTable(algs ...Algorithm) *Table {
	t, err := NewTable(algs...)
	if err != nil {
		panic(err)
	}

	return t
}

// Len returns the number of registered algorithms.
func (t *Table) Len() int {
	return len(t.algs)
}

// Get returns the algorithm registered under id.
func (t *Table) Get(id format.AlgorithmID) (Algorithm, bool) {
	if int(id) >= len(t.algs) {
		return nil, false
	}

	return t.algs[id], true
}

// Lookup returns the algorithm registered under name. Names are matched
// exactly; the table is small enough that a linear scan beats a map.
func (t *Table) Lookup(name string) (Algorithm, bool) {
	for _, alg := range t.algs {
		if alg.Name() == name {
			return alg, true
		}
	}

	return nil, false
}

// Algorithms returns the registered algorithms in id order.
func (t *Table) Algorithms() []Algorithm {
	out := make([]Algorithm, len(t.algs))
	copy(out, t.algs)

	return out
}

// WorkspaceSize returns the largest workspace requirement in the table.
func (t *Table) WorkspaceSize() int {
	return t.workspace
}

// ScratchSize returns the scratch size an engine over this table needs: the
// largest codec workspace plus three stage buffers.
func (t *Table) ScratchSize() int {
	return t.workspace + 3*format.StageBufferSize
}
