// Package baseline provides general-purpose block compressors used as a
// yardstick for the adaptive engine.
//
// The codecs compress one page at a time, the same unit the engine works on,
// so benchmark numbers are directly comparable:
//
//	c, err := baseline.New(baseline.LZ4)
//	if err != nil {
//	    return err
//	}
//	out, err := c.Compress(nil, page)
//
// The Zstd codec uses klauspost/compress by default. Building with the
// gozstd tag switches it to the cgo binding of the reference library.
package baseline
