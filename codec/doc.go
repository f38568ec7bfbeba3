// Package codec implements the compression stages of zbewalgo and the fixed
// algorithm table that assigns them their wire ids.
//
// Transforms (bwt, mtf, bitshuffle) reorder bytes so that later stages find
// more redundancy; compressors (rle, jbe, jbe2, huffman, bewalgo, bewalgo2)
// shrink their input. Each stage writes a self-contained payload that
// records its own decoded length, so stages can be chained in any order.
//
// All stages work in caller-provided buffers and never allocate:
//
//	alg, _ := codec.Builtin().Lookup("rle")
//	n, err := alg.Compress(dst, src, wrk, codec.DefaultLimits())
//	if err != nil {
//	    // errors.Is(err, errs.ErrCodecFailure): this stage gave up
//	}
package codec
