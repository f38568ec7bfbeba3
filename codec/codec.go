package codec

import (
	"github.com/arloliu/zbewalgo/endian"
	"github.com/arloliu/zbewalgo/errs"
	"github.com/arloliu/zbewalgo/format"
)

// Limits carries the runtime tunables a stage has to honour.
//
// The engine snapshots its tunables once per call and passes the same Limits
// to every stage it runs.
type Limits struct {
	// MaxOutputSize caps the output of the size-reducing codecs (huffman,
	// bewalgo, bewalgo2). Zero means "bounded by the destination only".
	MaxOutputSize int
	// BWTMaxAlphabet is the largest number of distinct byte values the BWT
	// stage accepts.
	BWTMaxAlphabet int
}

// DefaultLimits returns the limits used when no tunable has been changed.
func DefaultLimits() Limits {
	return Limits{
		MaxOutputSize:  format.DefaultMaxOutputSize,
		BWTMaxAlphabet: format.DefaultBWTMaxAlphabet,
	}
}

// Algorithm is one stage of a compression pipeline.
//
// Every algorithm encodes the length of its own output, so stages can be
// chained without framing: the output of Compress is exactly what Decompress
// consumes, and Decompress reproduces exactly the bytes Compress was given.
//
// Memory management:
//   - dst is written from offset 0; its length is the hard upper bound of the output
//   - wrk is caller-owned scratch of at least WorkspaceSize bytes
//   - no method allocates or retains any of the slices
//
// Thread Safety: algorithms are stateless and safe for concurrent use as long
// as every caller passes its own dst and wrk.
type Algorithm interface {
	// ID returns the stable algorithm id embedded in compressed blocks.
	ID() format.AlgorithmID
	// Name returns the name used by the pipeline mini-language.
	Name() string
	// Kind reports whether the algorithm shrinks data or only reorders it.
	Kind() format.Kind
	// WorkspaceSize returns the number of scratch bytes Compress and
	// Decompress need in wrk.
	WorkspaceSize() int
	// Compress encodes src into dst and returns the number of bytes written.
	// Failures wrap errs.ErrCodecFailure unless the input itself is invalid.
	Compress(dst, src, wrk []byte, lim Limits) (int, error)
	// Decompress decodes src into dst and returns the decoded length.
	Decompress(dst, src, wrk []byte) (int, error)
}

var le = endian.GetLittleEndianEngine()

// checkInput rejects inputs no codec header can describe.
func checkInput(src []byte) error {
	if len(src) == 0 {
		return errs.ErrIncompressible
	}
	if len(src) > format.MaxCodecInputSize {
		return errs.ErrInputTooLarge
	}

	return nil
}

// outputLimit returns the largest output a size-reducing stage may produce.
func outputLimit(dst []byte, lim Limits) int {
	if lim.MaxOutputSize > 0 && lim.MaxOutputSize < len(dst) {
		return lim.MaxOutputSize
	}

	return len(dst)
}

// readLength reads the uint16 length header at src[off:] and checks that the
// decoded data fits dst. A length the destination cannot hold means the
// payload was not produced for a block of this size.
func readLength(src, dst []byte, off int) (int, error) {
	if len(src) < off+2 {
		return 0, errs.ErrCorruptBlock
	}
	n := int(le.Uint16(src[off:]))
	if n == 0 || n > len(dst) {
		return 0, errs.ErrCorruptBlock
	}

	return n, nil
}
