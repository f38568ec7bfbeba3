package engine

import (
	"github.com/cockroachdb/errors"

	"github.com/arloliu/zbewalgo/codec"
	"github.com/arloliu/zbewalgo/errs"
	"github.com/arloliu/zbewalgo/format"
	"github.com/arloliu/zbewalgo/pipeline"
)

// appendHeader appends the fixed-size pipeline descriptor of p to dst.
func appendHeader(dst []byte, p pipeline.Pipeline) []byte {
	var hdr [format.BlockHeaderSize]byte
	hdr[0] = byte(p.Len())
	for i := range p.Len() {
		hdr[1+i] = byte(p.ID(i))
	}

	return append(dst, hdr[:]...)
}

// parseHeader splits block into its pipeline and payload and checks every id
// against table.
func parseHeader(block []byte, table *codec.Table) (pipeline.Pipeline, []byte, error) {
	if len(block) <= format.BlockHeaderSize {
		return pipeline.Pipeline{}, nil, errors.Wrapf(errs.ErrCorruptBlock, "block of %d bytes", len(block))
	}

	count := int(block[0])
	if count == 0 || count > format.MaxPipelineLength {
		return pipeline.Pipeline{}, nil, errors.Wrapf(errs.ErrCorruptBlock, "pipeline length %d", count)
	}

	var ids [format.MaxPipelineLength]format.AlgorithmID
	for i := range count {
		id := format.AlgorithmID(block[1+i])
		if _, ok := table.Get(id); !ok {
			return pipeline.Pipeline{}, nil, errors.Wrapf(errs.ErrUnknownAlgorithmID, "id %d at stage %d", id, i)
		}
		ids[i] = id
	}

	p, err := pipeline.New(ids[:count]...)
	if err != nil {
		return pipeline.Pipeline{}, nil, err
	}

	return p, block[format.BlockHeaderSize:], nil
}

// BlockPipeline returns the pipeline recorded in the header of a compressed
// block, validated against the builtin algorithm table.
func BlockPipeline(block []byte) (pipeline.Pipeline, error) {
	p, _, err := parseHeader(block, codec.Builtin())
	return p, err
}
