// Package zbewalgo is an adaptive compressor for small fixed-size blocks such
// as memory pages.
//
// For every block it tries a list of codec pipelines (for example
// "bwt-mtf-bewalgo-huffman"), keeps the smallest result and stores the
// pipeline that produced it in the block, so any engine with the same
// algorithm table can decompress it later.
//
// # Basic Usage
//
// The package-level functions use a process-wide engine with a pool of
// workers:
//
//	block, err := zbewalgo.Compress(nil, page)
//	if errors.Is(err, errs.ErrNotCompressible) {
//	    // keep the page uncompressed
//	}
//	page, err = zbewalgo.Decompress(page[:0], block)
//
// Pipelines and tunables can be changed at any time; blocks written earlier
// stay readable:
//
//	err := zbewalgo.AddPipeline("bitshuffle-jbe2-rle")
//	err = zbewalgo.SetTunable(engine.TunableEarlyAbortSize, 256)
//
// # Package Structure
//
// This package wraps the engine package for the common case. Callers that
// manage their own scratch memory and per-worker bias state, or that need
// several independently configured engines, use engine directly.
package zbewalgo

import (
	"sync"

	"github.com/arloliu/zbewalgo/engine"
	"github.com/arloliu/zbewalgo/internal/pool"
	"github.com/arloliu/zbewalgo/pipeline"
)

var (
	defaultOnce    sync.Once
	defaultWorkers *pool.WorkerPool
)

func workers() *pool.WorkerPool {
	defaultOnce.Do(func() {
		e, err := engine.New()
		if err != nil {
			// the builtin table and default pipelines always parse
			panic(err)
		}
		defaultWorkers = pool.NewWorkerPool(e)
	})

	return defaultWorkers
}

// Default returns the process-wide engine.
func Default() *engine.Engine {
	return workers().Engine()
}

// NewEngine creates an independent engine.
func NewEngine(opts ...engine.Option) (*engine.Engine, error) {
	return engine.New(opts...)
}

// ScratchSize returns the scratch size of the default engine.
func ScratchSize() int {
	return Default().ScratchSize()
}

// Compress compresses src, at most format.MaxInputSize bytes, and appends
// the block to dst.
func Compress(dst, src []byte) ([]byte, error) {
	p := workers()
	w := p.Get()
	defer p.Put(w)

	return w.Compress(dst, src)
}

// Decompress decodes block and appends the result to dst.
func Decompress(dst, block []byte) ([]byte, error) {
	p := workers()
	w := p.Get()
	defer p.Put(w)

	return w.Decompress(dst, block)
}

// AddPipeline appends a pipeline such as "bwt-mtf-huffman" to the default
// engine.
func AddPipeline(spec string) error {
	return Default().AddPipeline(spec)
}

// SetPipelines replaces the pipelines of the default engine.
func SetPipelines(specs ...string) error {
	return Default().SetPipelines(specs...)
}

// ResetPipelines restores the default pipelines.
func ResetPipelines() {
	Default().ResetPipelines()
}

// Pipelines returns the pipelines of the default engine.
func Pipelines() []pipeline.Pipeline {
	return Default().Pipelines()
}

// DescribePipelines lists the pipelines of the default engine.
func DescribePipelines() string {
	return Default().DescribePipelines()
}

// Exec runs an administrative command ("add <spec>", "set <spec>" or
// "reset") against the default engine.
func Exec(cmd string) error {
	return Default().Exec(cmd)
}

// Tunable returns a tunable of the default engine.
func Tunable(t engine.Tunable) int {
	return Default().Tunable(t)
}

// SetTunable updates a tunable of the default engine.
func SetTunable(t engine.Tunable, v int) error {
	return Default().SetTunable(t, v)
}
