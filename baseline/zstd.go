package baseline

// ZstdCodec compresses pages with Zstandard. The implementation is chosen at
// build time, see the package documentation.
type ZstdCodec struct{}

var _ Codec = ZstdCodec{}

func (ZstdCodec) Type() Type { return Zstd }
