package json

import (
	"errors"

	"github.com/ionscribe/stream/ioerr"
)

// errCleanEOF is returned by Pad.PadByte to distinguish "input legitimately
// ended here" from a genuine UnexpectedEndOfInput; only Parser interprets
// it, at the one call site (rawByte) that's allowed to treat EOF as
// clean.
var errCleanEOF = errors.New("json: clean end of input")

// Pad is the JSON PadPolicy (spec §4.1): byte-level exhaustion might be a
// legitimate end of document, so it is reported via errCleanEOF rather
// than an error value; composite reads never occur for JSON (numbers and
// strings are scanned byte-by-byte), so the wider-read pad callbacks are
// never exercised in practice but still defined to satisfy bio.PadPolicy.
type Pad struct{}

func (Pad) PadByte() (byte, error) { return 0, errCleanEOF }

func (Pad) PadDoubleByte(remaining []byte) (uint16, error) {
	return 0, ioerr.NewUnexpectedEndOfInput(0, "unexpected end of input")
}

func (Pad) PadQuadByte(remaining []byte) (uint32, error) {
	return 0, ioerr.NewUnexpectedEndOfInput(0, "unexpected end of input")
}

func (Pad) PadOctaByte(remaining []byte) (uint64, error) {
	return 0, ioerr.NewUnexpectedEndOfInput(0, "unexpected end of input")
}

func (Pad) PadBytes(rest []byte, missing int) ([]byte, error) {
	return nil, ioerr.NewUnexpectedEndOfInput(0, "unexpected end of input")
}
