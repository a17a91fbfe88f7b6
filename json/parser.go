package json

import (
	"errors"
	"math/big"
	"strconv"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/ionscribe/stream/bio"
	"github.com/ionscribe/stream/ioerr"
	"github.com/ionscribe/stream/item"
)

// containerState tracks where a frame is within its "{ k : v , k : v }" or
// "[ v , v ]" grammar so Pull knows what byte is expected next.
type containerState int8

const (
	stateOpen        containerState = iota // just opened: expect a value/key, or the matching close
	stateAfterComma                        // just consumed ',': expect a value/key, close NOT allowed
	stateAfterKey                          // map only: just read a key, expect ':'
	stateAfterValue                        // expect ',' or the matching close
)

// frame tracks one open array or object while the parser walks the input.
type frame struct {
	isMap bool
	state containerState
}

// Parser reads one JSON item per Pull call from a bio.Input, mirroring the
// shape of cbor.Parser: a frame stack for open containers, and a dispatch
// that emits exactly one item.Item per call without ever materializing a
// tree.
type Parser struct {
	in     bio.Input
	cfg    Config
	frames []frame

	havePeek bool
	peek     byte

	rootStarted bool
	scratch     []byte
}

// NewParser creates a JSON Parser over the given Input. The Input must use
// Pad as its PadPolicy so end-of-document can be distinguished from a
// genuine truncation.
func NewParser(in bio.Input, cfg Config) *Parser {
	return &Parser{in: in, cfg: cfg}
}

func (p *Parser) pos() ioerr.Position { return ioerr.Position(p.in.Cursor()) }

// Pos exposes the current input cursor for callers outside the package.
func (p *Parser) Pos() ioerr.Position { return p.pos() }

func (p *Parser) top() *frame {
	if len(p.frames) == 0 {
		return nil
	}
	return &p.frames[len(p.frames)-1]
}

func (p *Parser) pushFrame(f frame) error {
	if len(p.frames) >= p.cfg.MaxNestingDepth {
		return ioerr.NewOverflow(p.pos(), "maximum nesting depth exceeded")
	}
	p.frames = append(p.frames, f)
	return nil
}

// rawByte reads the next byte, reporting ok=false (no error) on a clean
// end of input and a real error for anything else.
func (p *Parser) rawByte() (b byte, ok bool, err error) {
	if p.havePeek {
		p.havePeek = false
		return p.peek, true, nil
	}
	v, err := p.in.ReadByte()
	if err != nil {
		if errors.Is(err, errCleanEOF) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return v, true, nil
}

// peekByte looks at, without consuming, the next byte.
func (p *Parser) peekByte() (b byte, ok bool, err error) {
	if p.havePeek {
		return p.peek, true, nil
	}
	v, ok, err := p.rawByte()
	if err != nil || !ok {
		return 0, ok, err
	}
	p.peek = v
	p.havePeek = true
	return v, true, nil
}

func isJSONWhitespace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func (p *Parser) skipWhitespace() error {
	for {
		b, ok, err := p.peekByte()
		if err != nil {
			return err
		}
		if !ok || !isJSONWhitespace(b) {
			return nil
		}
		p.havePeek = false
	}
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// Pull reads and returns exactly one item.Item, advancing the input.
func (p *Parser) Pull() (item.Item, error) {
	f := p.top()
	switch {
	case f == nil && !p.rootStarted:
		p.rootStarted = true
		return p.parseValue()
	case f == nil:
		return p.pullTrailing()
	case f.state == stateAfterValue:
		return p.pullAfterValue(f)
	case f.state == stateAfterKey:
		return p.pullAfterKey(f)
	default:
		return p.pullOpenOrAfterComma(f, f.state == stateOpen)
	}
}

// pullTrailing handles everything after the root value has fully closed:
// optional whitespace, then either a clean end of input or, depending on
// configuration, an error or a tolerated ignore of leftover bytes.
func (p *Parser) pullTrailing() (item.Item, error) {
	b, ok, err := p.peekByte()
	if err != nil {
		return item.EndOfInput(), err
	}
	if ok && isJSONWhitespace(b) {
		if !p.cfg.AllowTrailingWhitespace {
			return item.EndOfInput(), ioerr.NewInvalidInputData(p.pos(), "unexpected trailing whitespace after root value")
		}
		if err := p.skipWhitespace(); err != nil {
			return item.EndOfInput(), err
		}
	}
	_, ok, err = p.peekByte()
	if err != nil {
		return item.EndOfInput(), err
	}
	if !ok {
		return item.EndOfInput(), nil
	}
	if !p.cfg.AllowTrailingInput {
		return item.EndOfInput(), ioerr.NewInvalidInputData(p.pos(), "unexpected data after root value")
	}
	return item.EndOfInput(), nil
}

func closeByte(isMap bool) byte {
	if isMap {
		return '}'
	}
	return ']'
}

func (p *Parser) pullAfterValue(f *frame) (item.Item, error) {
	if err := p.skipWhitespace(); err != nil {
		return item.EndOfInput(), err
	}
	b, ok, err := p.peekByte()
	if err != nil {
		return item.EndOfInput(), err
	}
	if !ok {
		return item.EndOfInput(), ioerr.NewUnexpectedEndOfInput(p.pos(), "unexpected end of input inside container")
	}
	if b == closeByte(f.isMap) {
		p.havePeek = false
		p.frames = p.frames[:len(p.frames)-1]
		return item.BreakItem(), nil
	}
	if b != ',' {
		return item.EndOfInput(), ioerr.NewInvalidInputData(p.pos(), "expected ',' or closing bracket")
	}
	p.havePeek = false
	f.state = stateAfterComma
	return p.pullOpenOrAfterComma(f, false)
}

func (p *Parser) pullAfterKey(f *frame) (item.Item, error) {
	if err := p.skipWhitespace(); err != nil {
		return item.EndOfInput(), err
	}
	b, ok, err := p.rawByte()
	if err != nil {
		return item.EndOfInput(), err
	}
	if !ok {
		return item.EndOfInput(), ioerr.NewUnexpectedEndOfInput(p.pos(), "unexpected end of input, expected ':'")
	}
	if b != ':' {
		return item.EndOfInput(), ioerr.NewInvalidInputData(p.pos(), "expected ':' after object key")
	}
	it, err := p.parseValue()
	if err != nil {
		return it, err
	}
	f.state = stateAfterValue
	return it, nil
}

// pullOpenOrAfterComma handles a frame that is either freshly opened or has
// just consumed a comma: for an object this expects a string key (or the
// closing brace if freshly opened); for an array, a value (or closing
// bracket if freshly opened).
func (p *Parser) pullOpenOrAfterComma(f *frame, closeAllowed bool) (item.Item, error) {
	if err := p.skipWhitespace(); err != nil {
		return item.EndOfInput(), err
	}
	if closeAllowed {
		b, ok, err := p.peekByte()
		if err != nil {
			return item.EndOfInput(), err
		}
		if ok && b == closeByte(f.isMap) {
			p.havePeek = false
			p.frames = p.frames[:len(p.frames)-1]
			return item.BreakItem(), nil
		}
	}
	if f.isMap {
		b, ok, err := p.peekByte()
		if err != nil {
			return item.EndOfInput(), err
		}
		if !ok {
			return item.EndOfInput(), ioerr.NewUnexpectedEndOfInput(p.pos(), "unexpected end of input, expected object key")
		}
		if b != '"' {
			return item.EndOfInput(), ioerr.NewInvalidInputData(p.pos(), "expected a string key")
		}
		key, err := p.parseString()
		if err != nil {
			return item.EndOfInput(), err
		}
		f.state = stateAfterKey
		return key, nil
	}
	it, err := p.parseValue()
	if err != nil {
		return it, err
	}
	f.state = stateAfterValue
	return it, nil
}

// parseValue scans one JSON value: a literal, string, number, or the
// opening marker of a nested container.
func (p *Parser) parseValue() (item.Item, error) {
	if err := p.skipWhitespace(); err != nil {
		return item.EndOfInput(), err
	}
	b, ok, err := p.peekByte()
	if err != nil {
		return item.EndOfInput(), err
	}
	if !ok {
		return item.EndOfInput(), ioerr.NewUnexpectedEndOfInput(p.pos(), "unexpected end of input, expected a value")
	}
	switch {
	case b == '{':
		p.havePeek = false
		if err := p.pushFrame(frame{isMap: true, state: stateOpen}); err != nil {
			return item.EndOfInput(), err
		}
		return item.MapStart(), nil
	case b == '[':
		p.havePeek = false
		if err := p.pushFrame(frame{isMap: false, state: stateOpen}); err != nil {
			return item.EndOfInput(), err
		}
		return item.ArrayStart(), nil
	case b == '"':
		return p.parseString()
	case b == 't':
		if err := p.expectLiteral("true"); err != nil {
			return item.EndOfInput(), err
		}
		return item.Bool(true), nil
	case b == 'f':
		if err := p.expectLiteral("false"); err != nil {
			return item.EndOfInput(), err
		}
		return item.Bool(false), nil
	case b == 'n':
		if err := p.expectLiteral("null"); err != nil {
			return item.EndOfInput(), err
		}
		return item.Null(), nil
	case b == '-' || isDigit(b):
		return p.parseNumber()
	default:
		return item.EndOfInput(), ioerr.NewInvalidInputData(p.pos(), "unexpected character, expected a value")
	}
}

func (p *Parser) expectLiteral(lit string) error {
	for i := 0; i < len(lit); i++ {
		b, ok, err := p.rawByte()
		if err != nil {
			return err
		}
		if !ok {
			return ioerr.NewUnexpectedEndOfInput(p.pos(), "unexpected end of input inside literal "+lit)
		}
		if b != lit[i] {
			return ioerr.NewInvalidInputData(p.pos(), "invalid literal, expected "+lit)
		}
	}
	return nil
}

// parseString consumes a JSON string starting at the opening quote
// (already peeked but not yet consumed) and returns it as a Text item.
func (p *Parser) parseString() (item.Item, error) {
	b, ok, err := p.rawByte()
	if err != nil {
		return item.EndOfInput(), err
	}
	if !ok || b != '"' {
		return item.EndOfInput(), ioerr.NewInvalidInputData(p.pos(), "expected '\"'")
	}
	p.scratch = p.scratch[:0]
	for {
		c, ok, err := p.rawByte()
		if err != nil {
			return item.EndOfInput(), err
		}
		if !ok {
			return item.EndOfInput(), ioerr.NewUnexpectedEndOfInput(p.pos(), "unexpected end of input inside string")
		}
		switch {
		case c == '"':
			if int64(len(p.scratch)) > p.cfg.MaxStringLength {
				return item.EndOfInput(), ioerr.NewOverflow(p.pos(), "string exceeds configured maximum length")
			}
			s := string(p.scratch)
			if !utf8.ValidString(s) {
				return item.EndOfInput(), ioerr.NewInvalidInputData(p.pos(), "invalid UTF-8 in string")
			}
			return item.TextItem(s), nil
		case c == '\\':
			if err := p.parseEscape(); err != nil {
				return item.EndOfInput(), err
			}
		case c < 0x20:
			return item.EndOfInput(), ioerr.NewInvalidInputData(p.pos(), "unescaped control character in string")
		default:
			p.scratch = append(p.scratch, c)
		}
		if int64(len(p.scratch)) > p.cfg.MaxStringLength {
			return item.EndOfInput(), ioerr.NewOverflow(p.pos(), "string exceeds configured maximum length")
		}
	}
}

func (p *Parser) parseEscape() error {
	c, ok, err := p.rawByte()
	if err != nil {
		return err
	}
	if !ok {
		return ioerr.NewUnexpectedEndOfInput(p.pos(), "unexpected end of input inside escape sequence")
	}
	switch c {
	case '"':
		p.scratch = append(p.scratch, '"')
	case '\\':
		p.scratch = append(p.scratch, '\\')
	case '/':
		p.scratch = append(p.scratch, '/')
	case 'b':
		p.scratch = append(p.scratch, 0x08)
	case 'f':
		p.scratch = append(p.scratch, 0x0C)
	case 'n':
		p.scratch = append(p.scratch, 0x0A)
	case 'r':
		p.scratch = append(p.scratch, 0x0D)
	case 't':
		p.scratch = append(p.scratch, 0x09)
	case 'u':
		r, err := p.parseUnicodeEscape()
		if err != nil {
			return err
		}
		if utf16.IsSurrogate(r) {
			r2 := r
			b, ok, err := p.peekByte()
			if err == nil && ok && b == '\\' {
				p.havePeek = false
				b2, ok2, err2 := p.rawByte()
				if err2 != nil {
					return err2
				}
				if !ok2 || b2 != 'u' {
					return ioerr.NewInvalidInputData(p.pos(), "lone UTF-16 surrogate in string")
				}
				low, err := p.parseUnicodeEscape()
				if err != nil {
					return err
				}
				combined := utf16.DecodeRune(r2, low)
				if combined == utf8.RuneError {
					return ioerr.NewInvalidInputData(p.pos(), "invalid UTF-16 surrogate pair")
				}
				var buf [utf8.UTFMax]byte
				n := utf8.EncodeRune(buf[:], combined)
				p.scratch = append(p.scratch, buf[:n]...)
				return nil
			}
			return ioerr.NewInvalidInputData(p.pos(), "lone UTF-16 surrogate in string")
		}
		var buf [utf8.UTFMax]byte
		n := utf8.EncodeRune(buf[:], r)
		p.scratch = append(p.scratch, buf[:n]...)
	default:
		return ioerr.NewInvalidInputData(p.pos(), "invalid escape sequence")
	}
	return nil
}

func (p *Parser) parseUnicodeEscape() (rune, error) {
	var v uint32
	for i := 0; i < 4; i++ {
		b, ok, err := p.rawByte()
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, ioerr.NewUnexpectedEndOfInput(p.pos(), "unexpected end of input inside \\u escape")
		}
		var digit uint32
		switch {
		case b >= '0' && b <= '9':
			digit = uint32(b - '0')
		case b >= 'a' && b <= 'f':
			digit = uint32(b-'a') + 10
		case b >= 'A' && b <= 'F':
			digit = uint32(b-'A') + 10
		default:
			return 0, ioerr.NewInvalidInputData(p.pos(), "invalid hex digit in \\u escape")
		}
		v = v<<4 | digit
	}
	return rune(v), nil
}

// Lossless-round-trip precision of float64 decimal literals; beyond this
// many significant digits a value is emitted as NumberString instead of
// Double so callers don't silently lose digits the input actually had.
const doubleLosslessDigits = 17

// significantDigits counts the significant decimal digits of a literal's
// mantissa (integer part followed by fractional part), ignoring leading
// zeros and the exponent entirely — a literal's magnitude doesn't change
// how many digits of precision it carries.
func significantDigits(intPart, fracPart []byte) int {
	i := 0
	for i < len(intPart) && intPart[i] == '0' {
		i++
	}
	n := len(intPart) - i
	if n == 0 {
		j := 0
		for j < len(fracPart) && fracPart[j] == '0' {
			j++
		}
		n += len(fracPart) - j
		if n == 0 {
			return 1
		}
		return n
	}
	return n + len(fracPart)
}

var (
	maxInt32Big  = big.NewInt(1<<31 - 1)
	minInt32Big  = big.NewInt(-1 << 31)
	maxInt64Big  = new(big.Int).SetInt64(1<<63 - 1)
	minInt64Big  = new(big.Int).SetInt64(-1 << 63)
	maxUint64Big = new(big.Int).SetUint64(^uint64(0))
)

// parseNumber scans a JSON number literal and classifies it per spec §4.5:
// integers that fit i32/i64 become Int/Long; integers beyond i64 but
// within the OverLong's signed-unsigned range become OverLong; fractional
// or exponent forms become Double when representable without losing
// significant digits, otherwise everything falls back to NumberString.
func (p *Parser) parseNumber() (item.Item, error) {
	p.scratch = p.scratch[:0]
	neg := false
	if b, ok, _ := p.peekByte(); ok && b == '-' {
		neg = true
		p.havePeek = false
		p.scratch = append(p.scratch, '-')
	}
	intStart := len(p.scratch)
	intDigits := 0
	for {
		b, ok, err := p.peekByte()
		if err != nil {
			return item.EndOfInput(), err
		}
		if !ok || !isDigit(b) {
			break
		}
		p.havePeek = false
		p.scratch = append(p.scratch, b)
		intDigits++
	}
	if intDigits == 0 {
		return item.EndOfInput(), ioerr.NewInvalidInputData(p.pos(), "invalid number literal")
	}
	intPart := p.scratch[intStart:len(p.scratch):len(p.scratch)]
	var fracPart []byte
	isFloat := false
	if b, ok, _ := p.peekByte(); ok && b == '.' {
		isFloat = true
		p.havePeek = false
		p.scratch = append(p.scratch, '.')
		fracStart := len(p.scratch)
		fracDigits := 0
		for {
			b, ok, err := p.peekByte()
			if err != nil {
				return item.EndOfInput(), err
			}
			if !ok || !isDigit(b) {
				break
			}
			p.havePeek = false
			p.scratch = append(p.scratch, b)
			fracDigits++
		}
		if fracDigits == 0 {
			return item.EndOfInput(), ioerr.NewInvalidInputData(p.pos(), "expected digit after decimal point")
		}
		fracPart = p.scratch[fracStart:len(p.scratch):len(p.scratch)]
	}
	expDigits := 0
	if b, ok, _ := p.peekByte(); ok && (b == 'e' || b == 'E') {
		isFloat = true
		p.havePeek = false
		p.scratch = append(p.scratch, b)
		if b2, ok2, _ := p.peekByte(); ok2 && (b2 == '+' || b2 == '-') {
			p.havePeek = false
			p.scratch = append(p.scratch, b2)
		}
		expStart := len(p.scratch)
		for {
			b, ok, err := p.peekByte()
			if err != nil {
				return item.EndOfInput(), err
			}
			if !ok || !isDigit(b) {
				break
			}
			p.havePeek = false
			p.scratch = append(p.scratch, b)
			expDigits++
		}
		if expDigits == 0 {
			return item.EndOfInput(), ioerr.NewInvalidInputData(p.pos(), "expected digit in exponent")
		}
		expMag, err := strconv.Atoi(string(p.scratch[expStart:]))
		if err != nil || expMag > p.cfg.MaxNumberAbsExponent {
			return item.EndOfInput(), ioerr.NewOverflow(p.pos(), "exponent magnitude too large")
		}
	}

	literal := string(p.scratch)
	mantissaDigits := significantDigits(intPart, fracPart)
	if mantissaDigits > p.cfg.MaxNumberMantissaDigits {
		return item.EndOfInput(), ioerr.NewOverflow(p.pos(), "number has too many significant digits")
	}

	if isFloat {
		if p.cfg.ReadDecimalNumbersOnlyAsNumberString {
			return item.NumberString(literal), nil
		}
		if mantissaDigits > doubleLosslessDigits {
			return item.NumberString(literal), nil
		}
		f, err := strconv.ParseFloat(literal, 64)
		if err != nil {
			return item.NumberString(literal), nil
		}
		return item.Double(f), nil
	}

	n, ok := new(big.Int).SetString(literal, 10)
	if !ok {
		return item.NumberString(literal), nil
	}
	switch {
	case n.Cmp(minInt32Big) >= 0 && n.Cmp(maxInt32Big) <= 0:
		return item.Int(int32(n.Int64())), nil
	case n.Cmp(minInt64Big) >= 0 && n.Cmp(maxInt64Big) <= 0:
		return item.Long(n.Int64()), nil
	case !neg && n.Cmp(maxUint64Big) <= 0:
		return item.OverLong(n.Uint64(), false), nil
	case neg:
		// Mathematical value is -n; OverLong represents it as -1-u64, so
		// u64 = n-1 (CBOR's negative-integer convention, spec §4.5).
		mag := new(big.Int).Neg(n)
		mag.Sub(mag, big.NewInt(1))
		if mag.Sign() >= 0 && mag.Cmp(maxUint64Big) <= 0 {
			return item.OverLong(mag.Uint64(), true), nil
		}
		return item.NumberString(literal), nil
	default:
		return item.NumberString(literal), nil
	}
}

// Depth reports the current nesting depth (exposed for tests/diagnostics).
func (p *Parser) Depth() int { return len(p.frames) }
