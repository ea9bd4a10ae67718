package votable

const (
	defaultBufferSize = 1 << 14
	minBufferSize     = 1 << 10
	maxBufferSize     = 1 << 24
)

// Option configures a Parser.
type Option func(*parserConfig)

type parserConfig struct {
	bufferSize int
}

// BufferSize sets how many bytes of input one refill cycle feeds to the
// scanner. The value is clamped to [1 KiB, 16 MiB]; the default is 16 KiB.
func BufferSize(n int) Option {
	return func(cfg *parserConfig) {
		cfg.bufferSize = n
	}
}

func resolveParserConfig(opts []Option) parserConfig {
	cfg := parserConfig{bufferSize: defaultBufferSize}
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.bufferSize = clamp(cfg.bufferSize, minBufferSize, maxBufferSize)
	return cfg
}

func clamp(v, low, high int) int {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}
