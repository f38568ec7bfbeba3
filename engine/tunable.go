package engine

import (
	"sync/atomic"

	"github.com/cockroachdb/errors"

	"github.com/arloliu/zbewalgo/errs"
	"github.com/arloliu/zbewalgo/format"
)

// DefaultEarlyAbortSize is the default early_abort_size tunable.
const DefaultEarlyAbortSize = format.DefaultEarlyAbortSize

// Tunable identifies a runtime parameter of the engine.
type Tunable uint8

const (
	// TunableMaxOutputSize caps the payload of a compressed block and the
	// output of the size-reducing codecs.
	TunableMaxOutputSize Tunable = iota
	// TunableEarlyAbortSize stops the pipeline search once a payload smaller
	// than this is found.
	TunableEarlyAbortSize
	// TunableBWTMaxAlphabet is the largest alphabet the BWT stage accepts.
	TunableBWTMaxAlphabet
)

// Tunables lists every tunable in display order.
var Tunables = []Tunable{TunableMaxOutputSize, TunableEarlyAbortSize, TunableBWTMaxAlphabet}

func (t Tunable) String() string {
	switch t {
	case TunableMaxOutputSize:
		return "max_output_size"
	case TunableEarlyAbortSize:
		return "early_abort_size"
	case TunableBWTMaxAlphabet:
		return "bwt_max_alphabet"
	default:
		return "unknown"
	}
}

// ParseTunable returns the tunable with the given name.
func ParseTunable(name string) (Tunable, error) {
	for _, t := range Tunables {
		if t.String() == name {
			return t, nil
		}
	}

	return 0, errors.Wrapf(errs.ErrInvalidTunable, "unknown tunable %q", name)
}

func (t Tunable) bounds() (lo, hi int) {
	switch t {
	case TunableMaxOutputSize:
		return 1, format.StageBufferSize
	case TunableEarlyAbortSize:
		return 0, 1<<16 - 1
	case TunableBWTMaxAlphabet:
		return 1, 256
	default:
		return 0, -1
	}
}

// Validate reports whether v is in range for t.
func (t Tunable) Validate(v int) error {
	lo, hi := t.bounds()
	if v < lo || v > hi {
		return errors.Wrapf(errs.ErrInvalidTunable, "%s=%d out of range [%d, %d]", t, v, lo, hi)
	}

	return nil
}

// tunables holds the live values. Each value is read once per compression
// call, so a concurrent update affects whole calls only.
type tunables struct {
	values [3]atomic.Int32
}

func (ts *tunables) get(t Tunable) int {
	return int(ts.values[t].Load())
}

func (ts *tunables) set(t Tunable, v int) {
	ts.values[t].Store(int32(v))
}
