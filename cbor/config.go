package cbor

// Config bundles the CBOR read/write config surfaces from spec §6. It is
// built with functional options, mirroring the teacher's ReaderOption/
// WriterOption pattern.
type Config struct {
	// Write side.
	BufferSize                  int
	CompressFloatingPointValues bool
	WriteSelfDescribeTag        bool

	// Read side.
	MaxByteStringLength   int64
	MaxTextStringLength   int64
	ReadDoubleAlsoAsFloat bool

	// Shared.
	Validation      bool
	Conformance     ConformanceMode
	MaxNestingDepth int
}

// DefaultConfig returns the default CBOR configuration: validation on,
// lax conformance, no artificial size caps beyond int32 max (per spec §4.5
// analogue for CBOR byte/text strings), 64-deep nesting limit (teacher's
// default).
func DefaultConfig() Config {
	return Config{
		BufferSize:          256,
		MaxByteStringLength: 1<<31 - 1,
		MaxTextStringLength: 1<<31 - 1,
		Validation:          true,
		Conformance:         ConformanceLax,
		MaxNestingDepth:     64,
	}
}

// Option configures a Config.
type Option func(*Config)

func WithBufferSize(n int) Option { return func(c *Config) { c.BufferSize = n } }

func WithCompressFloatingPointValues(v bool) Option {
	return func(c *Config) { c.CompressFloatingPointValues = v }
}

func WithWriteSelfDescribeTag(v bool) Option { return func(c *Config) { c.WriteSelfDescribeTag = v } }

func WithMaxByteStringLength(n int64) Option { return func(c *Config) { c.MaxByteStringLength = n } }

func WithMaxTextStringLength(n int64) Option { return func(c *Config) { c.MaxTextStringLength = n } }

func WithReadDoubleAlsoAsFloat(v bool) Option { return func(c *Config) { c.ReadDoubleAlsoAsFloat = v } }

func WithValidation(v bool) Option { return func(c *Config) { c.Validation = v } }

func WithConformance(m ConformanceMode) Option { return func(c *Config) { c.Conformance = m } }

func WithMaxNestingDepth(n int) Option { return func(c *Config) { c.MaxNestingDepth = n } }

// NewConfig builds a Config from DefaultConfig plus the given options.
func NewConfig(opts ...Option) Config {
	c := DefaultConfig()
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
