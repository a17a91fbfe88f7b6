// Package json implements the JSON (RFC 8259) parser and renderer: the
// bytes <-> item.Item boundary for the JSON wire format. It reads/writes
// raw UTF-8 bytes directly, never materializing a full tree, following the
// same one-item-per-pull shape as the cbor package so codecs written
// against the Reader/Writer façade never need to know which parser is
// underneath.
package json

// Config bundles the JSON read/write config surfaces from spec §6.
type Config struct {
	// Write side.
	BufferSize        int
	InitialBufferSize int
	MaxBufferSize     int

	// Read side.
	MaxStringLength                      int64
	MaxNumberMantissaDigits              int
	MaxNumberAbsExponent                 int
	ReadDecimalNumbersOnlyAsNumberString bool
	AllowBufferCaching                   bool
	AllowTrailingWhitespace              bool
	AllowTrailingInput                   bool

	// Shared.
	Validation      bool
	MaxNestingDepth int
}

// DefaultConfig returns the default JSON configuration.
func DefaultConfig() Config {
	return Config{
		BufferSize:              256,
		InitialBufferSize:       256,
		MaxBufferSize:           1 << 24,
		MaxStringLength:         1<<31 - 1,
		MaxNumberMantissaDigits: 1024,
		MaxNumberAbsExponent:    1 << 20,
		AllowTrailingWhitespace: true,
		Validation:              true,
		MaxNestingDepth:         64,
	}
}

// Option configures a Config.
type Option func(*Config)

func WithBufferSize(n int) Option        { return func(c *Config) { c.BufferSize = n } }
func WithInitialBufferSize(n int) Option { return func(c *Config) { c.InitialBufferSize = n } }
func WithMaxBufferSize(n int) Option     { return func(c *Config) { c.MaxBufferSize = n } }

func WithMaxStringLength(n int64) Option { return func(c *Config) { c.MaxStringLength = n } }
func WithMaxNumberMantissaDigits(n int) Option {
	return func(c *Config) { c.MaxNumberMantissaDigits = n }
}
func WithMaxNumberAbsExponent(n int) Option { return func(c *Config) { c.MaxNumberAbsExponent = n } }
func WithReadDecimalNumbersOnlyAsNumberString(v bool) Option {
	return func(c *Config) { c.ReadDecimalNumbersOnlyAsNumberString = v }
}
func WithAllowBufferCaching(v bool) Option      { return func(c *Config) { c.AllowBufferCaching = v } }
func WithAllowTrailingWhitespace(v bool) Option { return func(c *Config) { c.AllowTrailingWhitespace = v } }
func WithAllowTrailingInput(v bool) Option      { return func(c *Config) { c.AllowTrailingInput = v } }
func WithValidation(v bool) Option              { return func(c *Config) { c.Validation = v } }
func WithMaxNestingDepth(n int) Option          { return func(c *Config) { c.MaxNestingDepth = n } }

// NewConfig builds a Config from DefaultConfig plus the given options.
func NewConfig(opts ...Option) Config {
	c := DefaultConfig()
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
