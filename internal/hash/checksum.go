// Package hash computes the xxHash64 checksums stored next to compressed
// pages.
package hash

import "github.com/cespare/xxhash/v2"

// Page returns the checksum of one uncompressed page.
func Page(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// String returns the checksum of s without copying it.
func String(s string) uint64 {
	return xxhash.Sum64String(s)
}

// Digest accumulates the checksum of a whole stream of pages.
type Digest struct {
	d *xxhash.Digest
}

// NewDigest creates an empty stream checksum.
func NewDigest() *Digest {
	return &Digest{d: xxhash.New()}
}

// Write adds p to the checksum. It never fails.
func (d *Digest) Write(p []byte) (int, error) {
	return d.d.Write(p)
}

// Sum64 returns the checksum of everything written so far.
func (d *Digest) Sum64() uint64 {
	return d.d.Sum64()
}

// Reset clears the digest.
func (d *Digest) Reset() {
	d.d.Reset()
}
