package baseline

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Type identifies a baseline codec.
type Type uint8

const (
	None Type = iota // None stores pages as they are.
	LZ4              // LZ4 block format.
	S2               // S2, the Snappy extension.
	Zstd             // Zstandard at the default level.
)

// Types lists every baseline codec.
var Types = []Type{None, LZ4, S2, Zstd}

func (t Type) String() string {
	switch t {
	case None:
		return "none"
	case LZ4:
		return "lz4"
	case S2:
		return "s2"
	case Zstd:
		return "zstd"
	default:
		return "unknown"
	}
}

// ParseType returns the codec type with the given name.
func ParseType(name string) (Type, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, t := range Types {
		if t.String() == name {
			return t, nil
		}
	}

	return 0, errors.Newf("unknown baseline codec %q", name)
}

// Codec compresses and decompresses single pages.
//
// Both methods append their output to dst and return the extended slice.
// Implementations are safe for concurrent use.
type Codec interface {
	Type() Type
	Compress(dst, src []byte) ([]byte, error)
	// Decompress needs the decoded size, which the caller keeps next to the
	// compressed page.
	Decompress(dst, src []byte, size int) ([]byte, error)
}

// New returns the codec of type t.
func New(t Type) (Codec, error) {
	switch t {
	case None:
		return NoOpCodec{}, nil
	case LZ4:
		return NewLZ4(), nil
	case S2:
		return S2Codec{}, nil
	case Zstd:
		return ZstdCodec{}, nil
	default:
		return nil, errors.Newf("invalid baseline codec type %d", t)
	}
}

// Stats summarises one codec over a set of pages.
type Stats struct {
	Type           Type
	OriginalSize   int64
	CompressedSize int64
}

// Ratio returns compressed size divided by original size.
func (s Stats) Ratio() float64 {
	if s.OriginalSize == 0 {
		return 0
	}

	return float64(s.CompressedSize) / float64(s.OriginalSize)
}

// SpaceSavings returns the saved space in percent.
func (s Stats) SpaceSavings() float64 {
	return (1 - s.Ratio()) * 100
}

func checkSize(out []byte, size int) ([]byte, error) {
	if len(out) != size {
		return nil, errors.Newf("decoded %d bytes, want %d", len(out), size)
	}

	return out, nil
}
