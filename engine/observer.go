package engine

import "github.com/arloliu/zbewalgo/pipeline"

// CompressStats describes one call to Engine.Compress.
type CompressStats struct {
	// Index is the registry index of the winning pipeline, or -1.
	Index int
	// Pipeline is the winning pipeline prefix; empty on failure.
	Pipeline pipeline.Pipeline
	// InputSize is the size of the uncompressed block.
	InputSize int
	// OutputSize is the payload size of the result, without the header.
	OutputSize int
	// Tried is the number of pipelines the search ran.
	Tried int
	// EarlyAbort reports whether the search stopped before trying every
	// pipeline.
	EarlyAbort bool
	// Compressed is false when the call returned ErrNotCompressible.
	Compressed bool
}

// Observer receives statistics from an Engine. Implementations must be safe
// for concurrent use and must not block.
type Observer interface {
	ObserveCompress(stats CompressStats)
	ObserveDecompress(p pipeline.Pipeline, size int, err error)
}

type nopObserver struct{}

func (nopObserver) ObserveCompress(CompressStats) {}
func (nopObserver) ObserveDecompress(pipeline.Pipeline, int, error) {}
