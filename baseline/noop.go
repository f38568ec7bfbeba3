package baseline

// NoOpCodec stores pages unchanged. It gives the cost of the surrounding page
// handling without any compression.
type NoOpCodec struct{}

var _ Codec = NoOpCodec{}

func (NoOpCodec) Type() Type { return None }

// Compress appends src to dst.
func (NoOpCodec) Compress(dst, src []byte) ([]byte, error) {
	return append(dst, src...), nil
}

// Decompress appends src to dst.
func (NoOpCodec) Decompress(dst, src []byte, size int) ([]byte, error) {
	if _, err := checkSize(src, size); err != nil {
		return dst, err
	}

	return append(dst, src...), nil
}
