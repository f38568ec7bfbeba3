// Package errs defines the sentinel errors returned by zbewalgo.
//
// Every error returned by the engine, the pipeline registry or a codec
// matches one of these values with errors.Is. Codec-level causes wrap
// ErrCodecFailure so callers can test for the whole class at once:
//
//	if errors.Is(err, errs.ErrCodecFailure) {
//	    // the stage gave up; the search moves on to the next pipeline
//	}
package errs

import "github.com/cockroachdb/errors"

// Caller errors.
var (
	// ErrInputTooLarge is returned when the input exceeds the size a block or codec can hold.
	ErrInputTooLarge = errors.New("zbewalgo: input too large")
	// ErrScratchTooSmall is returned when the caller-supplied scratch buffer is
	// smaller than the engine's ScratchSize.
	ErrScratchTooSmall = errors.New("zbewalgo: scratch buffer too small")
	// ErrInvalidTunable is returned by tunable setters for out-of-range values.
	ErrInvalidTunable = errors.New("zbewalgo: invalid tunable value")
)

// Compression outcome.
var (
	// ErrNotCompressible is returned when no pipeline produced a result within
	// the configured maximum output size. It is an expected outcome.
	ErrNotCompressible = errors.New("zbewalgo: data not compressible")
)

// Codec failures. They are recovered inside the adaptive search and never
// surface from Compress.
var (
	// ErrCodecFailure is the class of all codec-internal limit violations.
	ErrCodecFailure = errors.New("zbewalgo: codec failure")
	// ErrAlphabetTooLarge is returned by the BWT stage when the input uses more
	// distinct byte values than the configured alphabet limit.
	ErrAlphabetTooLarge = errors.Wrap(ErrCodecFailure, "bwt alphabet too large")
	// ErrTooManyNodes is returned by the Huffman stage when the tree would not
	// fit its node table.
	ErrTooManyNodes = errors.Wrap(ErrCodecFailure, "huffman tree too large")
	// ErrCodewordTooLong is returned by the Huffman stage when a codeword would
	// exceed the bit writer's width.
	ErrCodewordTooLong = errors.Wrap(ErrCodecFailure, "huffman codeword too long")
	// ErrIncompressible is returned by the LZ stages when their heuristics
	// predict that the input will not shrink.
	ErrIncompressible = errors.Wrap(ErrCodecFailure, "stage input looks incompressible")
	// ErrDestTooSmall is returned when a stage output would overflow its
	// destination buffer or the maximum output size.
	ErrDestTooSmall = errors.Wrap(ErrCodecFailure, "destination buffer too small")
)

// Decompression errors.
var (
	// ErrUnknownAlgorithmID is returned when a block names an algorithm id that
	// is not in the algorithm table.
	ErrUnknownAlgorithmID = errors.New("zbewalgo: unknown algorithm id")
	// ErrCorruptBlock is returned when a block or stage payload is truncated or
	// references data outside its bounds.
	ErrCorruptBlock = errors.New("zbewalgo: corrupt block")
)

// Administrative errors from pipeline registry mutation.
var (
	// ErrRegistryFull is returned when the pipeline registry holds MaxPipelines entries.
	ErrRegistryFull = errors.New("zbewalgo: pipeline registry full")
	// ErrEmptyPipeline is returned when a pipeline string names no algorithm.
	ErrEmptyPipeline = errors.New("zbewalgo: empty pipeline")
	// ErrUnknownAlgorithmName is returned when a pipeline string names an
	// algorithm that is not registered.
	ErrUnknownAlgorithmName = errors.New("zbewalgo: unknown algorithm name")
	// ErrUnknownCommand is returned by the command interpreter for unknown verbs.
	ErrUnknownCommand = errors.New("zbewalgo: unknown command")
)
