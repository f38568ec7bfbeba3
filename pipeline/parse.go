package pipeline

import (
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/arloliu/zbewalgo/codec"
	"github.com/arloliu/zbewalgo/errs"
	"github.com/arloliu/zbewalgo/format"
)

// Separator divides algorithm names in a pipeline spec.
const Separator = '-'

// DefaultSpecs are the pipelines a registry holds after Reset.
var DefaultSpecs = []string{
	"bewalgo2-bitshuffle-jbe-rle",
	"bwt-mtf-bewalgo-huffman",
	"bitshuffle-bewalgo2-mtf-bewalgo-jbe",
	"bitshuffle-rle-bitshuffle-rle",
}

// Resolver maps algorithm names to algorithms. *codec.Table implements it.
type Resolver interface {
	Lookup(name string) (codec.Algorithm, bool)
}

// Parse turns a spec such as "bwt-mtf-huffman" into a Pipeline.
//
// Leading, trailing and repeated separators are skipped. Parsing stops
// without error once format.MaxPipelineLength ids have been collected, so any
// names after the seventh are ignored even when they are unknown. Surrounding
// whitespace is ignored.
//
// Returns errs.ErrUnknownAlgorithmName for a name r does not know and
// errs.ErrEmptyPipeline when the spec names no algorithm.
func Parse(spec string, r Resolver) (Pipeline, error) {
	var p Pipeline

	rest := strings.TrimSpace(spec)
	for rest != "" && int(p.count) < format.MaxPipelineLength {
		var name string
		if i := strings.IndexByte(rest, Separator); i >= 0 {
			name, rest = rest[:i], rest[i+1:]
		} else {
			name, rest = rest, ""
		}
		if name == "" {
			continue
		}

		alg, ok := r.Lookup(name)
		if !ok {
			return Pipeline{}, errors.Wrapf(errs.ErrUnknownAlgorithmName, "%q", name)
		}
		p.ids[p.count] = alg.ID()
		p.count++
	}

	if p.count == 0 {
		return Pipeline{}, errors.Wrapf(errs.ErrEmptyPipeline, "%q", spec)
	}

	return p, nil
}

// Defaults parses DefaultSpecs against r.
func Defaults(r Resolver) ([]Pipeline, error) {
	out := make([]Pipeline, 0, len(DefaultSpecs))
	for _, spec := range DefaultSpecs {
		p, err := Parse(spec, r)
		if err != nil {
			return nil, errors.Wrapf(err, "default pipeline %q", spec)
		}
		out = append(out, p)
	}

	return out, nil
}
