// Package engine implements the adaptive block compressor.
//
// An Engine tries the pipelines of its registry against each input block,
// keeps the smallest result seen after any stage and emits a self-describing
// block: an 8-byte pipeline descriptor followed by the payload of the last
// stage that ran. Decompression reads the descriptor and replays the stages
// in reverse, independent of the current registry.
//
// Basic usage:
//
//	eng, err := engine.New(engine.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	w := eng.NewWorker(nil)
//	block, err := w.Compress(nil, page)
//	if errors.Is(err, errs.ErrNotCompressible) {
//	    // store the page uncompressed
//	}
//	page, err = w.Decompress(page[:0], block)
//
// Each call is synchronous and allocation free when dst has enough capacity.
// Workers own their scratch memory and bias state, so any number of workers
// can share one Engine without locking.
package engine
