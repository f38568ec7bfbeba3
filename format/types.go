package format

type (
	// AlgorithmID identifies a codec in the fixed algorithm table. Ids are
	// positions in that table and are embedded in every compressed block.
	AlgorithmID uint8
	// Kind distinguishes size-reducing codecs from reversible reorderings.
	Kind uint8
)

const (
	AlgorithmBewalgo    AlgorithmID = 0x0 // AlgorithmBewalgo represents the hash-chain LZ matcher.
	AlgorithmBewalgo2   AlgorithmID = 0x1 // AlgorithmBewalgo2 represents the tree-based LZ matcher.
	AlgorithmBitshuffle AlgorithmID = 0x2 // AlgorithmBitshuffle represents the stride-8 byte shuffle.
	AlgorithmBWT        AlgorithmID = 0x3 // AlgorithmBWT represents the Burrows-Wheeler transform.
	AlgorithmJBE        AlgorithmID = 0x4 // AlgorithmJBE represents J-bit encoding.
	AlgorithmJBE2       AlgorithmID = 0x5 // AlgorithmJBE2 represents nibble-swapped J-bit encoding.
	AlgorithmMTF        AlgorithmID = 0x6 // AlgorithmMTF represents move-to-front.
	AlgorithmRLE        AlgorithmID = 0x7 // AlgorithmRLE represents run-length encoding.
	AlgorithmHuffman    AlgorithmID = 0x8 // AlgorithmHuffman represents Huffman coding.

	KindCompress  Kind = 0x1 // KindCompress marks codecs that shrink their input.
	KindTransform Kind = 0x2 // KindTransform marks codecs that only reorder their input.
)

func (a AlgorithmID) String() string {
	switch a {
	case AlgorithmBewalgo:
		return "bewalgo"
	case AlgorithmBewalgo2:
		return "bewalgo2"
	case AlgorithmBitshuffle:
		return "bitshuffle"
	case AlgorithmBWT:
		return "bwt"
	case AlgorithmJBE:
		return "jbe"
	case AlgorithmJBE2:
		return "jbe2"
	case AlgorithmMTF:
		return "mtf"
	case AlgorithmRLE:
		return "rle"
	case AlgorithmHuffman:
		return "huffman"
	default:
		return "Unknown"
	}
}

func (k Kind) String() string {
	switch k {
	case KindCompress:
		return "Compress"
	case KindTransform:
		return "Transform"
	default:
		return "Unknown"
	}
}
