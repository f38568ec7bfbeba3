package codec

import (
	"github.com/arloliu/zbewalgo/errs"
	"github.com/arloliu/zbewalgo/format"
)

const (
	rleRepeat = 0x80
	rleMaxRun = 128
)

// rleCodec is a run-length encoder. Each control byte carries a run of up to
// 128 bytes: 0x80|(len-1) followed by the repeated byte, or (len-1) followed
// by len literal bytes.
type rleCodec struct{}

// NewRLE returns the run-length encoder.
func NewRLE() Algorithm { return rleCodec{} }

func (rleCodec) ID() format.AlgorithmID { return format.AlgorithmRLE }
func (rleCodec) Name() string           { return "rle" }
func (rleCodec) Kind() format.Kind      { return format.KindCompress }
func (rleCodec) WorkspaceSize() int     { return 0 }

func (rleCodec) Compress(dst, src, _ []byte, _ Limits) (int, error) {
	if err := checkInput(src); err != nil {
		return 0, err
	}
	if len(dst) < 2 {
		return 0, errs.ErrDestTooSmall
	}
	le.PutUint16(dst, uint16(len(src)))

	n := len(src)
	op, anchor, ip := 2, 0, 0
	for {
		// literals up to, but not including, the first byte of a repeat
		for {
			ip++
			if ip >= n || src[ip] == src[ip-1] {
				break
			}
		}
		count := ip - anchor
		if ip < n {
			count--
		}
		for count > 0 {
			c := min(count, rleMaxRun)
			if op+1+c > len(dst) {
				return 0, errs.ErrDestTooSmall
			}
			dst[op] = byte(c - 1)
			copy(dst[op+1:], src[anchor:anchor+c])
			op += 1 + c
			anchor += c
			count -= c
		}
		if ip >= n {
			return op, nil
		}

		v := src[anchor]
		for ip < n && src[ip] == v {
			ip++
		}
		for count = ip - anchor; count > 0; count -= rleMaxRun {
			if op+2 > len(dst) {
				return 0, errs.ErrDestTooSmall
			}
			dst[op] = rleRepeat | byte(min(count, rleMaxRun)-1)
			dst[op+1] = v
			op += 2
		}
		anchor = ip
		if ip >= n {
			return op, nil
		}
	}
}

func (rleCodec) Decompress(dst, src, _ []byte) (int, error) {
	n, err := readLength(src, dst, 0)
	if err != nil {
		return 0, err
	}

	ip, op := 2, 0
	for op < n {
		if ip >= len(src) {
			return 0, errs.ErrCorruptBlock
		}
		ctrl := src[ip]
		ip++
		length := int(ctrl&^rleRepeat) + 1
		if op+length > n {
			return 0, errs.ErrCorruptBlock
		}
		if ctrl&rleRepeat != 0 {
			if ip >= len(src) {
				return 0, errs.ErrCorruptBlock
			}
			v := src[ip]
			ip++
			run := dst[op : op+length]
			for i := range run {
				run[i] = v
			}
		} else {
			if ip+length > len(src) {
				return 0, errs.ErrCorruptBlock
			}
			copy(dst[op:], src[ip:ip+length])
			ip += length
		}
		op += length
	}

	return n, nil
}
