// Package pagefile implements the container the command line tool stores
// compressed pages in.
//
// Layout, all integers little-endian:
//
//	header:  "ZBWP" | u16 version | u16 page size
//	record:  u8 kind | u16 size | u16 stored | u64 checksum | stored bytes
//	trailer: u8 0xFF | u32 pages | u64 total size | u64 digest
//
// size is the uncompressed page length and checksum its xxHash64. The digest
// hashes the sequence of page checksums, so a reader detects dropped,
// duplicated or reordered records.
package pagefile

import (
	"github.com/cockroachdb/errors"

	"github.com/arloliu/zbewalgo/endian"
)

// Kind says how a record payload is stored.
type Kind uint8

const (
	// KindRaw records hold the page unchanged.
	KindRaw Kind = 0x0
	// KindCompressed records hold a zbewalgo block.
	KindCompressed Kind = 0x1

	kindTrailer Kind = 0xFF
)

func (k Kind) String() string {
	switch k {
	case KindRaw:
		return "raw"
	case KindCompressed:
		return "compressed"
	default:
		return "unknown"
	}
}

const (
	// Version is the container version this package writes.
	Version = 1

	headerSize  = 8
	recordSize  = 13
	trailerSize = 21
)

var magic = [4]byte{'Z', 'B', 'W', 'P'}

var le = endian.GetLittleEndianEngine()

var (
	// ErrBadMagic is returned for input that is not a page file.
	ErrBadMagic = errors.New("pagefile: bad magic")
	// ErrUnsupportedVersion is returned for files written by a newer version.
	ErrUnsupportedVersion = errors.New("pagefile: unsupported version")
	// ErrCorrupt is returned when records or the trailer do not add up.
	ErrCorrupt = errors.New("pagefile: corrupt file")
)

// Record is one stored page.
type Record struct {
	Kind     Kind
	Size     int
	Checksum uint64
	Payload  []byte
}

// Summary is the content of the trailer.
type Summary struct {
	Pages     int
	TotalSize int64
	Digest    uint64
}
