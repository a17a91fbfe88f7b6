package json

import (
	"math/big"
	"strconv"
	"unicode/utf8"

	"github.com/ionscribe/stream/bio"
	"github.com/ionscribe/stream/ioerr"
	"github.com/ionscribe/stream/item"
)

// wframe tracks one open array or object while rendering.
type wframe struct {
	isMap        bool
	childrenSeen int64
	keyWritten   bool
}

// Renderer writes item.Item values as JSON bytes to a bio.Output. Every
// container is written "indefinite style" (no a-priori length prefix is
// possible in JSON) regardless of whether the caller used a *Header or a
// *Start item to open it; both forms close on Break.
type Renderer struct {
	out    bio.Output
	cfg    Config
	frames []wframe
}

// NewRenderer creates a JSON Renderer writing to the given Output.
func NewRenderer(out bio.Output, cfg Config) *Renderer {
	return &Renderer{out: out, cfg: cfg}
}

func (r *Renderer) pos() ioerr.Position { return ioerr.Position(r.out.Cursor()) }

// Pos exposes the current output cursor for callers outside the package.
func (r *Renderer) Pos() ioerr.Position { return r.pos() }

func (r *Renderer) top() *wframe {
	if len(r.frames) == 0 {
		return nil
	}
	return &r.frames[len(r.frames)-1]
}

// maybeSeparator writes the separating ',' (or ':' after a map key) a new
// child needs before it, and flips the map key/value expectation.
func (r *Renderer) maybeSeparator() error {
	f := r.top()
	if f == nil {
		return nil
	}
	if f.isMap && f.keyWritten {
		return r.out.WriteByte(':')
	}
	if f.childrenSeen > 0 {
		return r.out.WriteByte(',')
	}
	return nil
}

func (r *Renderer) advance() {
	f := r.top()
	if f == nil {
		return
	}
	if f.isMap {
		if f.keyWritten {
			f.keyWritten = false
			f.childrenSeen++
		} else {
			f.keyWritten = true
		}
	} else {
		f.childrenSeen++
	}
}

// Render writes exactly one item.Item. For containers this writes only
// the opening brace/bracket; callers must Render the children and the
// matching Break.
func (r *Renderer) Render(it item.Item) error {
	if f := r.top(); f != nil && f.isMap && !f.keyWritten && it.Kind != item.KindBreak {
		if it.Kind != item.KindText && it.Kind != item.KindString {
			return ioerr.NewUnsupported(r.pos(), "JSON map keys must be text strings, got "+it.Kind.String())
		}
	}
	switch it.Kind {
	case item.KindNull:
		return r.writeLiteral("null")
	case item.KindUndefinedValue:
		return ioerr.NewUnsupported(r.pos(), "JSON has no undefined item")
	case item.KindBool:
		if it.Bool {
			return r.writeLiteral("true")
		}
		return r.writeLiteral("false")
	case item.KindInt:
		return r.writeRaw(strconv.AppendInt(nil, int64(it.I32), 10))
	case item.KindLong:
		return r.writeRaw(strconv.AppendInt(nil, it.I64, 10))
	case item.KindOverLong:
		return r.renderOverLong(it.U64, it.Neg)
	case item.KindBigInteger:
		if it.Big == nil {
			return r.writeLiteral("null")
		}
		return r.writeRaw([]byte(it.Big.String()))
	case item.KindFloat16:
		return r.renderFloat(float64(it.F16))
	case item.KindFloat:
		return r.renderFloat(float64(it.F32))
	case item.KindDouble:
		return r.renderFloat(it.F64)
	case item.KindBigDecimal:
		return r.renderBigDecimal(it)
	case item.KindNumberString:
		return r.writeRaw([]byte(it.Raw))
	case item.KindBytes:
		return ioerr.NewUnsupported(r.pos(), "JSON cannot render a raw byte string directly; encode it via a ByteAccess codec first")
	case item.KindBytesStart:
		return ioerr.NewUnsupported(r.pos(), "JSON has no indefinite byte string form")
	case item.KindText, item.KindString:
		return r.renderString(it.Text)
	case item.KindTextStart:
		return ioerr.NewUnsupported(r.pos(), "JSON has no indefinite text string form")
	case item.KindArrayHeader, item.KindArrayStart:
		return r.open(false)
	case item.KindMapHeader, item.KindMapStart:
		return r.open(true)
	case item.KindTag:
		return ioerr.NewUnsupported(r.pos(), "JSON has no tag item")
	case item.KindSimpleValue:
		return ioerr.NewUnsupported(r.pos(), "JSON has no simple-value item")
	case item.KindBreak:
		return r.close()
	default:
		return ioerr.NewUnsupported(r.pos(), "cannot render item kind "+it.Kind.String())
	}
}

func (r *Renderer) writeLiteral(lit string) error {
	if err := r.maybeSeparator(); err != nil {
		return err
	}
	if err := r.out.WriteBytes([]byte(lit)); err != nil {
		return err
	}
	r.advance()
	return nil
}

func (r *Renderer) writeRaw(b []byte) error {
	if err := r.maybeSeparator(); err != nil {
		return err
	}
	if err := r.out.WriteBytes(b); err != nil {
		return err
	}
	r.advance()
	return nil
}

// renderOverLong writes an OverLong (magnitude u64, Neg flag) as a plain
// JSON integer literal. Mathematical value is u64 if !neg, else -1-u64;
// the negative case needs big.Int since 1+MaxUint64 overflows uint64.
func (r *Renderer) renderOverLong(u64 uint64, neg bool) error {
	if !neg {
		return r.writeRaw(strconv.AppendUint(nil, u64, 10))
	}
	v := new(big.Int).SetUint64(u64)
	v.Add(v, big.NewInt(1))
	v.Neg(v)
	return r.writeRaw([]byte(v.String()))
}

func (r *Renderer) renderFloat(v float64) error {
	return r.writeRaw(strconv.AppendFloat(nil, v, 'g', -1, 64))
}

func (r *Renderer) renderBigDecimal(it item.Item) error {
	if it.Mantissa == nil {
		return r.writeLiteral("null")
	}
	// value = mantissa * 10^exponent; render as a decimal literal rather
	// than scientific notation so it parses back as a JSON number.
	mantissa := new(big.Int).Set(it.Mantissa)
	neg := mantissa.Sign() < 0
	if neg {
		mantissa.Neg(mantissa)
	}
	digits := mantissa.String()
	var buf []byte
	if neg {
		buf = append(buf, '-')
	}
	switch {
	case it.Exponent == 0:
		buf = append(buf, digits...)
	case it.Exponent > 0:
		buf = append(buf, digits...)
		for i := int32(0); i < it.Exponent; i++ {
			buf = append(buf, '0')
		}
	default:
		shift := int(-it.Exponent)
		if shift >= len(digits) {
			buf = append(buf, '0', '.')
			for i := 0; i < shift-len(digits); i++ {
				buf = append(buf, '0')
			}
			buf = append(buf, digits...)
		} else {
			buf = append(buf, digits[:len(digits)-shift]...)
			buf = append(buf, '.')
			buf = append(buf, digits[len(digits)-shift:]...)
		}
	}
	return r.writeRaw(buf)
}

var hexDigits = "0123456789abcdef"

func (r *Renderer) renderString(s string) error {
	if !utf8.ValidString(s) {
		return ioerr.NewInvalidInputData(r.pos(), "string is not valid UTF-8")
	}
	if err := r.maybeSeparator(); err != nil {
		return err
	}
	if err := r.out.WriteByte('"'); err != nil {
		return err
	}
	for _, b := range []byte(s) {
		switch {
		case b == '"':
			if err := r.out.WriteBytes([]byte{'\\', '"'}); err != nil {
				return err
			}
		case b == '\\':
			if err := r.out.WriteBytes([]byte{'\\', '\\'}); err != nil {
				return err
			}
		case b == '\n':
			if err := r.out.WriteBytes([]byte{'\\', 'n'}); err != nil {
				return err
			}
		case b == '\r':
			if err := r.out.WriteBytes([]byte{'\\', 'r'}); err != nil {
				return err
			}
		case b == '\t':
			if err := r.out.WriteBytes([]byte{'\\', 't'}); err != nil {
				return err
			}
		case b == 0x08:
			if err := r.out.WriteBytes([]byte{'\\', 'b'}); err != nil {
				return err
			}
		case b == 0x0C:
			if err := r.out.WriteBytes([]byte{'\\', 'f'}); err != nil {
				return err
			}
		case b < 0x20:
			esc := []byte{'\\', 'u', '0', '0', hexDigits[b>>4], hexDigits[b&0xF]}
			if err := r.out.WriteBytes(esc); err != nil {
				return err
			}
		default:
			if err := r.out.WriteByte(b); err != nil {
				return err
			}
		}
	}
	if err := r.out.WriteByte('"'); err != nil {
		return err
	}
	r.advance()
	return nil
}

func (r *Renderer) open(isMap bool) error {
	if len(r.frames) >= r.cfg.MaxNestingDepth {
		return ioerr.NewOverflow(r.pos(), "maximum nesting depth exceeded")
	}
	if err := r.maybeSeparator(); err != nil {
		return err
	}
	b := byte('[')
	if isMap {
		b = '{'
	}
	if err := r.out.WriteByte(b); err != nil {
		return err
	}
	r.frames = append(r.frames, wframe{isMap: isMap})
	return nil
}

func (r *Renderer) close() error {
	f := r.top()
	if f == nil {
		return ioerr.NewInvalidInputData(r.pos(), "break with no open container")
	}
	if f.isMap && f.keyWritten {
		return ioerr.NewInvalidInputData(r.pos(), "map closed with a dangling key")
	}
	b := byte(']')
	if f.isMap {
		b = '}'
	}
	if err := r.out.WriteByte(b); err != nil {
		return err
	}
	r.frames = r.frames[:len(r.frames)-1]
	r.advance()
	return nil
}

// Depth reports the current nesting depth (exposed for tests/diagnostics).
func (r *Renderer) Depth() int { return len(r.frames) }
