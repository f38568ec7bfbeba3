package pagefile

import (
	"io"

	"github.com/cockroachdb/errors"

	"github.com/arloliu/zbewalgo/internal/hash"
	"github.com/arloliu/zbewalgo/internal/pool"
)

// Writer appends records to a page file. It is not safe for concurrent use.
type Writer struct {
	w       io.Writer
	summary Summary
	digest  *hash.Digest
	closed  bool
}

// NewWriter writes the file header to w.
func NewWriter(w io.Writer, pageSize int) (*Writer, error) {
	if pageSize <= 0 || pageSize > 1<<16-1 {
		return nil, errors.Newf("pagefile: invalid page size %d", pageSize)
	}

	var hdr [headerSize]byte
	copy(hdr[:4], magic[:])
	le.PutUint16(hdr[4:], Version)
	le.PutUint16(hdr[6:], uint16(pageSize))
	if _, err := w.Write(hdr[:]); err != nil {
		return nil, errors.Wrap(err, "pagefile: write header")
	}

	return &Writer{w: w, digest: hash.NewDigest()}, nil
}

// Write appends rec.
func (w *Writer) Write(rec Record) error {
	if w.closed {
		return errors.New("pagefile: write after close")
	}
	if rec.Kind != KindRaw && rec.Kind != KindCompressed {
		return errors.Newf("pagefile: invalid record kind %d", rec.Kind)
	}
	if rec.Size > 1<<16-1 || len(rec.Payload) > 1<<16-1 {
		return errors.Newf("pagefile: record too large (%d/%d bytes)", rec.Size, len(rec.Payload))
	}

	bb := pool.GetPageBuffer()
	defer pool.PutPageBuffer(bb)

	bb.Grow(recordSize + len(rec.Payload))
	bb.B = append(bb.B, byte(rec.Kind))
	bb.B = le.AppendUint16(bb.B, uint16(rec.Size))
	bb.B = le.AppendUint16(bb.B, uint16(len(rec.Payload)))
	bb.B = le.AppendUint64(bb.B, rec.Checksum)
	bb.B = append(bb.B, rec.Payload...)
	if _, err := bb.WriteTo(w.w); err != nil {
		return errors.Wrap(err, "pagefile: write record")
	}

	w.summary.Pages++
	w.summary.TotalSize += int64(rec.Size)
	var sum [8]byte
	le.PutUint64(sum[:], rec.Checksum)
	_, _ = w.digest.Write(sum[:])

	return nil
}

// Close writes the trailer. It does not close the underlying writer.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	w.summary.Digest = w.digest.Sum64()

	var tr [trailerSize]byte
	tr[0] = byte(kindTrailer)
	le.PutUint32(tr[1:], uint32(w.summary.Pages))
	le.PutUint64(tr[5:], uint64(w.summary.TotalSize))
	le.PutUint64(tr[13:], w.summary.Digest)
	if _, err := w.w.Write(tr[:]); err != nil {
		return errors.Wrap(err, "pagefile: write trailer")
	}

	return nil
}

// Summary returns what has been written so far.
func (w *Writer) Summary() Summary {
	s := w.summary
	s.Digest = w.digest.Sum64()

	return s
}
