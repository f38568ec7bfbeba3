package format

const (
	// MaxInputSize is the largest block the adaptive compressor accepts.
	MaxInputSize = 4096
	// MaxCodecInputSize is the largest input any single codec accepts; codec
	// headers store lengths as uint16.
	MaxCodecInputSize = 65535
	// StageBufferSize is the size of each intermediate stage buffer. Transforms
	// may expand their input, so stages get twice the block size.
	StageBufferSize = MaxInputSize << 1

	// MaxPipelineLength is the maximum number of codecs in one pipeline.
	MaxPipelineLength = 7
	// MaxPipelines is the capacity of the pipeline registry.
	MaxPipelines = 256
	// MaxAlgorithms bounds the size of the algorithm table.
	MaxAlgorithms = 16

	// BlockHeaderSize is the size of the pipeline descriptor that prefixes
	// every compressed block: one count byte and MaxPipelineLength id bytes.
	BlockHeaderSize = 1 + MaxPipelineLength

	// DefaultMaxOutputSize matches the largest zsmalloc size class.
	DefaultMaxOutputSize = 3264
	// DefaultEarlyAbortSize is the payload size below which the search stops.
	DefaultEarlyAbortSize = 400
	// DefaultBWTMaxAlphabet is the distinct-byte limit of the BWT stage.
	DefaultBWTMaxAlphabet = 90
)
