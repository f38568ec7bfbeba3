package pagefile

import (
	"io"

	"github.com/cockroachdb/errors"

	"github.com/arloliu/zbewalgo/internal/hash"
)

// Reader iterates over the records of a page file.
type Reader struct {
	r        io.Reader
	pageSize int
	payload  []byte
	summary  Summary
	digest   *hash.Digest
	done     bool
}

// NewReader reads and checks the file header.
func NewReader(r io.Reader) (*Reader, error) {
	var hdr [headerSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, errors.Wrap(ErrBadMagic, err.Error())
	}
	if [4]byte(hdr[:4]) != magic {
		return nil, ErrBadMagic
	}
	if v := le.Uint16(hdr[4:]); v != Version {
		return nil, errors.Wrapf(ErrUnsupportedVersion, "version %d", v)
	}

	return &Reader{
		r:        r,
		pageSize: int(le.Uint16(hdr[6:])),
		payload:  make([]byte, 0, 1<<16-1),
		digest:   hash.NewDigest(),
	}, nil
}

// PageSize returns the page size recorded in the header.
func (r *Reader) PageSize() int {
	return r.pageSize
}

// Next returns the next record. The payload is only valid until the next
// call. After the last record Next verifies the trailer and returns io.EOF.
func (r *Reader) Next() (Record, error) {
	if r.done {
		return Record{}, io.EOF
	}

	var kind [1]byte
	if _, err := io.ReadFull(r.r, kind[:]); err != nil {
		return Record{}, errors.Wrapf(ErrCorrupt, "missing trailer: %v", err)
	}
	if Kind(kind[0]) == kindTrailer {
		return Record{}, r.readTrailer()
	}
	if Kind(kind[0]) != KindRaw && Kind(kind[0]) != KindCompressed {
		return Record{}, errors.Wrapf(ErrCorrupt, "record kind %d", kind[0])
	}

	var hdr [recordSize - 1]byte
	if _, err := io.ReadFull(r.r, hdr[:]); err != nil {
		return Record{}, errors.Wrapf(ErrCorrupt, "record header: %v", err)
	}
	rec := Record{
		Kind:     Kind(kind[0]),
		Size:     int(le.Uint16(hdr[0:])),
		Checksum: le.Uint64(hdr[4:]),
	}
	stored := int(le.Uint16(hdr[2:]))
	if rec.Kind == KindRaw && stored != rec.Size {
		return Record{}, errors.Wrapf(ErrCorrupt, "raw record of %d bytes stores %d", rec.Size, stored)
	}

	r.payload = r.payload[:stored]
	if _, err := io.ReadFull(r.r, r.payload); err != nil {
		return Record{}, errors.Wrapf(ErrCorrupt, "record payload: %v", err)
	}
	rec.Payload = r.payload

	r.summary.Pages++
	r.summary.TotalSize += int64(rec.Size)
	var sum [8]byte
	le.PutUint64(sum[:], rec.Checksum)
	_, _ = r.digest.Write(sum[:])

	return rec, nil
}

func (r *Reader) readTrailer() error {
	var tr [trailerSize - 1]byte
	if _, err := io.ReadFull(r.r, tr[:]); err != nil {
		return errors.Wrapf(ErrCorrupt, "trailer: %v", err)
	}
	r.done = true
	r.summary.Digest = r.digest.Sum64()

	want := Summary{
		Pages:     int(le.Uint32(tr[0:])),
		TotalSize: int64(le.Uint64(tr[4:])),
		Digest:    le.Uint64(tr[12:]),
	}
	if want != r.summary {
		return errors.Wrapf(ErrCorrupt, "trailer %+v does not match records %+v", want, r.summary)
	}

	return io.EOF
}

// Summary returns the totals of the records read so far.
func (r *Reader) Summary() Summary {
	return r.summary
}
