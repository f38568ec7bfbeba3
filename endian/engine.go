// Package endian provides the byte order used by every zbewalgo wire format.
//
// All header fields and payload words are little-endian regardless of the
// host, so blocks move freely between machines.
//
// # Basic Usage
//
//	engine := endian.GetLittleEndianEngine()
//	engine.PutUint16(dst[0:2], uint16(len(src)))
//	n := int(engine.Uint16(src[0:2]))
//
// Word-oriented codecs read their input as 8-byte words. An input whose
// length is not a multiple of eight is treated as if it were padded with
// zero bytes:
//
//	w := endian.LoadWord(src, 3)    // bytes 24..31, zero padded
//	endian.StoreWord(dst, 3, w)     // writes only the bytes that fit
//
// # Thread Safety
//
// All functions and methods in this package are safe for concurrent use.
package endian

import "encoding/binary"

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from encoding/binary
// into a single interface for convenient byte order operations.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// WordSize is the unit of the word-oriented codecs.
const WordSize = 8

var wire EndianEngine = binary.LittleEndian

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return wire
}

// Words returns the number of 8-byte words needed to hold n bytes.
func Words(n int) int {
	return (n + WordSize - 1) / WordSize
}

// LoadWord returns the i-th 8-byte word of b. Bytes beyond len(b) read as zero.
func LoadWord(b []byte, i int) uint64 {
	off := i * WordSize
	if off+WordSize <= len(b) {
		return wire.Uint64(b[off : off+WordSize])
	}

	var tmp [WordSize]byte
	if off < len(b) {
		copy(tmp[:], b[off:])
	}

	return wire.Uint64(tmp[:])
}

// StoreWord writes v as the i-th 8-byte word of b. Bytes that would land
// beyond len(b) are dropped.
func StoreWord(b []byte, i int, v uint64) {
	off := i * WordSize
	if off+WordSize <= len(b) {
		wire.PutUint64(b[off:off+WordSize], v)
		return
	}
	if off >= len(b) {
		return
	}

	var tmp [WordSize]byte
	wire.PutUint64(tmp[:], v)
	copy(b[off:], tmp[:])
}
