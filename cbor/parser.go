package cbor

import (
	"math"
	"math/big"
	"unicode/utf8"

	"github.com/ionscribe/stream/bio"
	"github.com/ionscribe/stream/ioerr"
	"github.com/ionscribe/stream/item"
	"github.com/x448/float16"
)

// frame tracks one open container while the parser walks the byte stream.
// Generalizes the teacher's readerNestingInfo to cover byte/text-string
// indefinite sequences in addition to arrays/maps.
type frame struct {
	major        MajorType
	definite     int64 // -1 for indefinite
	childrenSeen int64
	isMap        bool
	keySeen      bool
	indefinite   bool
}

// Parser reads one CBOR item per Pull call from a bio.Input.
type Parser struct {
	in     bio.Input
	cfg    Config
	frames []frame
}

// NewParser creates a CBOR Parser over the given Input.
func NewParser(in bio.Input, cfg Config) *Parser {
	return &Parser{in: in, cfg: cfg}
}

func (p *Parser) pos() ioerr.Position { return ioerr.Position(p.in.Cursor()) }

// Pos exposes the current input cursor for callers outside the package
// (the reader façade, when reporting validator errors).
func (p *Parser) Pos() ioerr.Position { return p.pos() }

func (p *Parser) pushFrame(f frame) error {
	if len(p.frames) >= p.cfg.MaxNestingDepth {
		return ioerr.NewOverflow(p.pos(), "maximum nesting depth exceeded")
	}
	p.frames = append(p.frames, f)
	return nil
}

func (p *Parser) top() *frame {
	if len(p.frames) == 0 {
		return nil
	}
	return &p.frames[len(p.frames)-1]
}

func (p *Parser) popFrame() { p.frames = p.frames[:len(p.frames)-1] }

// advance records that one child item was produced under the current
// frame, flipping the map key/value expectation as needed. Generalizes the
// teacher's advanceContainer. Definite-length frames (ArrayHeader(n)/
// MapHeader(n)) have no Break terminator in CBOR, so once their declared
// arity is reached the frame auto-closes here, cascading into the parent
// since closing a child counts as completing one of its slots.
func (p *Parser) advance() {
	for {
		f := p.top()
		if f == nil {
			return
		}
		if f.isMap {
			if f.keySeen {
				f.keySeen = false
				f.childrenSeen++
			} else {
				f.keySeen = true
				return
			}
		} else {
			f.childrenSeen++
		}
		if !f.indefinite && f.childrenSeen >= f.definite {
			p.popFrame()
			continue
		}
		return
	}
}

// Pull reads and returns exactly one item.Item, advancing the input.
func (p *Parser) Pull() (item.Item, error) {
	initial, err := p.in.ReadByte()
	if err != nil {
		return item.EndOfInput(), err
	}

	mt, ai := decodeInitialByte(initial)

	if ai == AddInfoIndefiniteLength {
		switch mt {
		case MajorByteString:
			return p.startIndefinite(MajorByteString, item.BytesStart())
		case MajorTextString:
			return p.startIndefinite(MajorTextString, item.TextStart())
		case MajorArray:
			return p.startIndefinite(MajorArray, item.ArrayStart())
		case MajorMap:
			return p.startIndefinite(MajorMap, item.MapStart())
		case MajorSimpleFloat:
			return p.finishBreak()
		default:
			return item.EndOfInput(), ioerr.NewInvalidInputData(p.pos(), "indefinite length not allowed for this major type")
		}
	}

	switch mt {
	case MajorUnsignedInt:
		return p.finishUnsigned(ai)
	case MajorNegativeInt:
		return p.finishNegative(ai)
	case MajorByteString:
		return p.finishString(ai, true)
	case MajorTextString:
		return p.finishString(ai, false)
	case MajorArray:
		return p.finishContainerHeader(ai, MajorArray)
	case MajorMap:
		return p.finishContainerHeader(ai, MajorMap)
	case MajorTag:
		return p.finishTag(ai)
	case MajorSimpleFloat:
		return p.finishSimpleOrFloat(ai)
	default:
		return item.EndOfInput(), ioerr.NewInvalidInputData(p.pos(), "invalid major type")
	}
}

// readArgument reads the "ulong" argument that follows the initial byte,
// given the already-decoded additional info.
func (p *Parser) readArgument(ai byte) (uint64, error) {
	switch {
	case ai < 24:
		return uint64(ai), nil
	case ai == AddInfo8Bit:
		b, err := p.in.ReadByte()
		if err != nil {
			return 0, err
		}
		if p.cfg.Conformance >= ConformanceStrict && b < 24 {
			return 0, ioerr.NewInvalidInputData(p.pos(), "non-canonical 1-byte argument")
		}
		return uint64(b), nil
	case ai == AddInfo16Bit:
		v, err := p.in.ReadUint16BE()
		if err != nil {
			return 0, err
		}
		if p.cfg.Conformance >= ConformanceStrict && v <= 0xFF {
			return 0, ioerr.NewInvalidInputData(p.pos(), "non-canonical 2-byte argument")
		}
		return uint64(v), nil
	case ai == AddInfo32Bit:
		v, err := p.in.ReadUint32BE()
		if err != nil {
			return 0, err
		}
		if p.cfg.Conformance >= ConformanceStrict && v <= 0xFFFF {
			return 0, ioerr.NewInvalidInputData(p.pos(), "non-canonical 4-byte argument")
		}
		return uint64(v), nil
	case ai == AddInfo64Bit:
		v, err := p.in.ReadUint64BE()
		if err != nil {
			return 0, err
		}
		if p.cfg.Conformance >= ConformanceStrict && v <= 0xFFFFFFFF {
			return 0, ioerr.NewInvalidInputData(p.pos(), "non-canonical 8-byte argument")
		}
		return uint64(v), nil
	default:
		return 0, ioerr.NewInvalidInputData(p.pos(), "invalid additional info")
	}
}

func (p *Parser) finishUnsigned(ai byte) (item.Item, error) {
	v, err := p.readArgument(ai)
	if err != nil {
		return item.EndOfInput(), err
	}
	p.advance()
	if v <= math.MaxInt32 {
		return item.Int(int32(v)), nil
	}
	if v <= math.MaxInt64 {
		return item.Long(int64(v)), nil
	}
	return item.OverLong(v, false), nil
}

func (p *Parser) finishNegative(ai byte) (item.Item, error) {
	v, err := p.readArgument(ai)
	if err != nil {
		return item.EndOfInput(), err
	}
	p.advance()
	// mathematical value is -1-v
	if v <= math.MaxInt32 {
		return item.Int(int32(-1 - int64(v))), nil
	}
	if v <= math.MaxInt64 {
		return item.Long(-1 - int64(v)), nil
	}
	return item.OverLong(v, true), nil
}

func (p *Parser) finishString(ai byte, isBytes bool) (item.Item, error) {
	length, err := p.readArgument(ai)
	if err != nil {
		return item.EndOfInput(), err
	}
	if length > math.MaxInt64 {
		return item.EndOfInput(), ioerr.NewOverflow(p.pos(), "string length exceeds i63 range")
	}
	maxLen := p.cfg.MaxTextStringLength
	if isBytes {
		maxLen = p.cfg.MaxByteStringLength
	}
	if int64(length) > maxLen {
		return item.EndOfInput(), ioerr.NewOverflow(p.pos(), "string length exceeds configured maximum")
	}
	data, err := p.in.ReadBytes(int(length))
	if err != nil {
		return item.EndOfInput(), err
	}
	p.advance()
	if isBytes {
		cp := make([]byte, len(data))
		copy(cp, data)
		return item.BytesItem(cp), nil
	}
	if p.cfg.Conformance >= ConformanceStrict && !utf8.Valid(data) {
		return item.EndOfInput(), ioerr.NewInvalidInputData(p.pos(), "invalid UTF-8 in text string")
	}
	return item.TextItem(string(data)), nil
}

func (p *Parser) startIndefinite(mt MajorType, it item.Item) (item.Item, error) {
	if p.cfg.Conformance >= ConformanceCanonical {
		return item.EndOfInput(), ioerr.NewInvalidInputData(p.pos(), "indefinite length not allowed in canonical mode")
	}
	if err := p.pushFrame(frame{major: mt, definite: -1, isMap: mt == MajorMap, indefinite: true}); err != nil {
		return item.EndOfInput(), err
	}
	return it, nil
}

func (p *Parser) finishContainerHeader(ai byte, mt MajorType) (item.Item, error) {
	n, err := p.readArgument(ai)
	if err != nil {
		return item.EndOfInput(), err
	}
	if n > math.MaxInt64 {
		return item.EndOfInput(), ioerr.NewOverflow(p.pos(), "container arity exceeds i63 range")
	}
	if n > 0 {
		if err := p.pushFrame(frame{major: mt, definite: int64(n), isMap: mt == MajorMap}); err != nil {
			return item.EndOfInput(), err
		}
	} else {
		p.advance()
	}
	if mt == MajorMap {
		return item.MapHeader(int64(n)), nil
	}
	return item.ArrayHeader(int64(n)), nil
}

func (p *Parser) finishTag(ai byte) (item.Item, error) {
	code, err := p.readArgument(ai)
	if err != nil {
		return item.EndOfInput(), err
	}
	// Tag does not count as a value for arity purposes (spec invariant 3);
	// no advance() here, the tagged item's own Pull will advance.
	return item.Tag(code), nil
}

func (p *Parser) finishBreak() (item.Item, error) {
	f := p.top()
	if f == nil || !f.indefinite {
		return item.EndOfInput(), ioerr.NewInvalidInputData(p.pos(), "unexpected break")
	}
	if f.isMap && f.keySeen {
		return item.EndOfInput(), ioerr.NewInvalidInputData(p.pos(), "map closed with a dangling key")
	}
	p.popFrame()
	p.advance()
	return item.BreakItem(), nil
}

func (p *Parser) finishSimpleOrFloat(ai byte) (item.Item, error) {
	switch ai {
	case SimpleFalse:
		p.advance()
		return item.Bool(false), nil
	case SimpleTrue:
		p.advance()
		return item.Bool(true), nil
	case SimpleNull:
		p.advance()
		return item.Null(), nil
	case SimpleUndefined:
		p.advance()
		return item.Undefined(), nil
	case AddInfo8Bit:
		b, err := p.in.ReadByte()
		if err != nil {
			return item.EndOfInput(), err
		}
		if (b >= 24 && b <= 31) || (p.cfg.Conformance >= ConformanceStrict && b < 32) {
			return item.EndOfInput(), ioerr.NewInvalidInputData(p.pos(), "invalid simple value")
		}
		p.advance()
		return item.Simple(b), nil
	case AddInfo16Bit: // float16
		bits, err := p.in.ReadUint16BE()
		if err != nil {
			return item.EndOfInput(), err
		}
		p.advance()
		return item.Float16(float16.Frombits(bits).Float32()), nil
	case AddInfo32Bit:
		bits, err := p.in.ReadUint32BE()
		if err != nil {
			return item.EndOfInput(), err
		}
		p.advance()
		return item.Float(math.Float32frombits(bits)), nil
	case AddInfo64Bit:
		bits, err := p.in.ReadUint64BE()
		if err != nil {
			return item.EndOfInput(), err
		}
		p.advance()
		v := math.Float64frombits(bits)
		if p.cfg.ReadDoubleAlsoAsFloat {
			if f := float32(v); float64(f) == v {
				return item.Float(f), nil
			}
		}
		return item.Double(v), nil
	default:
		if ai < 20 {
			p.advance()
			return item.Simple(ai), nil
		}
		return item.EndOfInput(), ioerr.NewInvalidInputData(p.pos(), "unsupported simple/float additional info")
	}
}

// BigIntFromBytes interprets a bignum byte payload per tags 2/3, used by
// codec's BigInteger decoder when it encounters TagPositiveBigNum/
// TagNegativeBigNum.
func BigIntFromBytes(payload []byte, negative bool) *big.Int {
	v := new(big.Int).SetBytes(payload)
	if negative {
		v.Add(v, big.NewInt(1))
		v.Neg(v)
	}
	return v
}

// Depth reports the current nesting depth (exposed for tests/diagnostics).
func (p *Parser) Depth() int { return len(p.frames) }
