package pipeline

import (
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/arloliu/zbewalgo/errs"
	"github.com/arloliu/zbewalgo/format"
)

// Pipeline is an ordered list of one to MaxPipelineLength algorithm ids.
//
// Pipeline is a small comparable value: two pipelines are equal with == when
// they hold the same ids in the same order. Unused slots are always zero.
type Pipeline struct {
	ids   [format.MaxPipelineLength]format.AlgorithmID
	count uint8
}

// New builds a pipeline from ids.
//
// Returns errs.ErrEmptyPipeline when ids is empty and an error when more than
// format.MaxPipelineLength ids are given.
func New(ids ...format.AlgorithmID) (Pipeline, error) {
	var p Pipeline
	if len(ids) == 0 {
		return p, errs.ErrEmptyPipeline
	}
	if len(ids) > format.MaxPipelineLength {
		return p, errors.Newf("pipeline has %d stages, at most %d allowed", len(ids), format.MaxPipelineLength)
	}
	copy(p.ids[:], ids)
	p.count = uint8(len(ids))

	return p, nil
}

// MustNew is like New but panics on error. It is meant for static pipelines.
func MustNew(ids ...format.AlgorithmID) Pipeline {
	p, err := New(ids...)
	if err != nil {
		panic(err)
	}

	return p
}

// Len returns the number of stages.
func (p Pipeline) Len() int {
	return int(p.count)
}

// IsEmpty reports whether p is the zero Pipeline.
func (p Pipeline) IsEmpty() bool {
	return p.count == 0
}

// ID returns the id of stage i.
func (p Pipeline) ID(i int) format.AlgorithmID {
	return p.ids[i]
}

// IDs returns a copy of the stage ids.
func (p Pipeline) IDs() []format.AlgorithmID {
	out := make([]format.AlgorithmID, p.count)
	copy(out, p.ids[:p.count])

	return out
}

// Prefix returns the pipeline made of the first n stages of p.
func (p Pipeline) Prefix(n int) Pipeline {
	n = min(max(n, 0), int(p.count))
	var out Pipeline
	copy(out.ids[:], p.ids[:n])
	out.count = uint8(n)

	return out
}

// String renders p in the mini-language, e.g. "bwt-mtf-rle".
func (p Pipeline) String() string {
	var sb strings.Builder
	for i := range int(p.count) {
		if i > 0 {
			sb.WriteByte('-')
		}
		sb.WriteString(p.ids[i].String())
	}

	return sb.String()
}
