package codec

import (
	"unsafe"

	"github.com/arloliu/zbewalgo/errs"
)

// view reinterprets b[off:] as n elements of T without copying.
//
// Scratch buffers come from make([]byte, ...) and offsets are multiples of
// the element size, so the result is always aligned.
func view[T uint16 | uint32 | uint64 | int8](b []byte, off, n int) ([]T, error) {
	var zero T
	size := int(unsafe.Sizeof(zero))
	if off < 0 || len(b) < off+n*size {
		return nil, errs.ErrScratchTooSmall
	}

	return unsafe.Slice((*T)(unsafe.Pointer(&b[off])), n), nil
}
