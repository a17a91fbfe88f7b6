package cbor

import (
	"math"
	"math/big"

	"github.com/ionscribe/stream/bio"
	"github.com/ionscribe/stream/ioerr"
	"github.com/ionscribe/stream/item"
	"github.com/x448/float16"
)

// wframe tracks one open container while rendering, mirroring the
// teacher's nestingInfo.
type wframe struct {
	major        MajorType
	definite     int64
	childrenSeen int64
	isMap        bool
	keyWritten   bool
	indefinite   bool
}

// Renderer writes item.Item values as CBOR bytes to a bio.Output.
type Renderer struct {
	out    bio.Output
	cfg    Config
	frames []wframe
	wroteSelfDescribe bool
}

// NewRenderer creates a CBOR Renderer writing to the given Output.
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

// advance mirrors Parser.advance: definite frames have no Break in CBOR,
// so they auto-close once their declared arity is written, cascading into
// the parent frame.
func (r *Renderer) advance() {
	for {
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
				return
			}
		} else {
			f.childrenSeen++
		}
		if !f.indefinite && f.childrenSeen >= f.definite {
			r.frames = r.frames[:len(r.frames)-1]
			continue
		}
		return
	}
}

func (r *Renderer) writeMinimalInitialByte(mt MajorType, value uint64) error {
	var err error
	switch {
	case value < 24:
		err = r.out.WriteByte(encodeInitialByte(mt, byte(value)))
	case value <= math.MaxUint8:
		if err = r.out.WriteByte(encodeInitialByte(mt, AddInfo8Bit)); err == nil {
			err = r.out.WriteByte(byte(value))
		}
	case value <= math.MaxUint16:
		if err = r.out.WriteByte(encodeInitialByte(mt, AddInfo16Bit)); err == nil {
			err = r.out.WriteUint16BE(uint16(value))
		}
	case value <= math.MaxUint32:
		if err = r.out.WriteByte(encodeInitialByte(mt, AddInfo32Bit)); err == nil {
			err = r.out.WriteUint32BE(uint32(value))
		}
	default:
		if err = r.out.WriteByte(encodeInitialByte(mt, AddInfo64Bit)); err == nil {
			err = r.out.WriteUint64BE(value)
		}
	}
	return err
}

// maybeSelfDescribe emits the tag-55799 magic header before the first
// top-level item, when configured.
func (r *Renderer) maybeSelfDescribe() error {
	if !r.cfg.WriteSelfDescribeTag || r.wroteSelfDescribe || len(r.frames) > 0 {
		return nil
	}
	r.wroteSelfDescribe = true
	return r.writeMinimalInitialByte(MajorTag, uint64(TagSelfDescribeCBOR))
}

// Render writes exactly one item.Item (or, for containers, its opening
// header/Start marker only — callers must still Render the children and
// the matching Break/closing call).
func (r *Renderer) Render(it item.Item) error {
	if it.Kind != item.KindBreak {
		if err := r.maybeSelfDescribe(); err != nil {
			return err
		}
	}
	switch it.Kind {
	case item.KindNull:
		return r.writeAndAdvance(encodeInitialByte(MajorSimpleFloat, SimpleNull))
	case item.KindUndefinedValue:
		return r.writeAndAdvance(encodeInitialByte(MajorSimpleFloat, SimpleUndefined))
	case item.KindBool:
		v := byte(SimpleFalse)
		if it.Bool {
			v = SimpleTrue
		}
		return r.writeAndAdvance(encodeInitialByte(MajorSimpleFloat, v))
	case item.KindInt:
		return r.renderSignedInt(int64(it.I32))
	case item.KindLong:
		return r.renderSignedInt(it.I64)
	case item.KindOverLong:
		if it.Neg {
			if err := r.writeMinimalInitialByte(MajorNegativeInt, it.U64); err != nil {
				return err
			}
		} else {
			if err := r.writeMinimalInitialByte(MajorUnsignedInt, it.U64); err != nil {
				return err
			}
		}
		r.advance()
		return nil
	case item.KindBigInteger:
		return r.renderBigInteger(it.Big)
	case item.KindFloat16:
		bits := float16.Fromfloat32(it.F16).Bits()
		if err := r.out.WriteByte(encodeInitialByte(MajorSimpleFloat, AddInfo16Bit)); err != nil {
			return err
		}
		if err := r.out.WriteUint16BE(bits); err != nil {
			return err
		}
		r.advance()
		return nil
	case item.KindFloat:
		if err := r.out.WriteByte(encodeInitialByte(MajorSimpleFloat, AddInfo32Bit)); err != nil {
			return err
		}
		if err := r.out.WriteUint32BE(math.Float32bits(it.F32)); err != nil {
			return err
		}
		r.advance()
		return nil
	case item.KindDouble:
		return r.renderDouble(it.F64)
	case item.KindBigDecimal:
		return r.renderBigDecimal(it)
	case item.KindNumberString:
		return ioerr.NewUnsupported(r.pos(), "CBOR has no NumberString item")
	case item.KindBytes:
		if err := r.writeMinimalInitialByte(MajorByteString, uint64(len(it.Bytes))); err != nil {
			return err
		}
		if err := r.out.WriteBytes(it.Bytes); err != nil {
			return err
		}
		r.advance()
		return nil
	case item.KindBytesStart:
		return r.openIndefinite(MajorByteString, false)
	case item.KindText, item.KindString:
		if err := r.writeMinimalInitialByte(MajorTextString, uint64(len(it.Text))); err != nil {
			return err
		}
		if err := r.out.WriteBytes([]byte(it.Text)); err != nil {
			return err
		}
		r.advance()
		return nil
	case item.KindTextStart:
		return r.openIndefinite(MajorTextString, false)
	case item.KindArrayHeader:
		return r.openHeader(MajorArray, it.Len, false)
	case item.KindArrayStart:
		return r.openIndefinite(MajorArray, false)
	case item.KindMapHeader:
		return r.openHeader(MajorMap, it.Len, true)
	case item.KindMapStart:
		return r.openIndefinite(MajorMap, true)
	case item.KindTag:
		return r.writeMinimalInitialByte(MajorTag, it.TagCode) // does not advance; tagged value follows
	case item.KindSimpleValue:
		return r.renderSimple(it.Simple)
	case item.KindBreak:
		return r.closeContainer()
	default:
		return ioerr.NewUnsupported(r.pos(), "cannot render item kind "+it.Kind.String())
	}
}

func (r *Renderer) writeAndAdvance(b byte) error {
	if err := r.out.WriteByte(b); err != nil {
		return err
	}
	r.advance()
	return nil
}

func (r *Renderer) renderSignedInt(v int64) error {
	var err error
	if v >= 0 {
		err = r.writeMinimalInitialByte(MajorUnsignedInt, uint64(v))
	} else {
		err = r.writeMinimalInitialByte(MajorNegativeInt, uint64(-1-v))
	}
	if err != nil {
		return err
	}
	r.advance()
	return nil
}

func (r *Renderer) renderBigInteger(v *big.Int) error {
	if v == nil {
		return r.writeAndAdvance(encodeInitialByte(MajorSimpleFloat, SimpleNull))
	}
	if v.IsInt64() {
		return r.renderSignedInt(v.Int64())
	}
	var tag Tag
	var abs *big.Int
	if v.Sign() >= 0 {
		tag = TagPositiveBigNum
		abs = v
	} else {
		tag = TagNegativeBigNum
		abs = new(big.Int).Neg(v)
		abs.Sub(abs, big.NewInt(1))
	}
	if err := r.writeMinimalInitialByte(MajorTag, uint64(tag)); err != nil {
		return err
	}
	payload := abs.Bytes()
	if err := r.writeMinimalInitialByte(MajorByteString, uint64(len(payload))); err != nil {
		return err
	}
	if err := r.out.WriteBytes(payload); err != nil {
		return err
	}
	r.advance()
	return nil
}

func (r *Renderer) renderBigDecimal(it item.Item) error {
	if it.Mantissa == nil {
		return r.writeAndAdvance(encodeInitialByte(MajorSimpleFloat, SimpleNull))
	}
	if err := r.writeMinimalInitialByte(MajorTag, uint64(TagDecimalFraction)); err != nil {
		return err
	}
	// Tag 4's payload is a 2-element array [exponent, mantissa]; its frame
	// closes after the mantissa, advancing the parent exactly once.
	if err := r.writeMinimalInitialByte(MajorArray, 2); err != nil {
		return err
	}
	r.frames = append(r.frames, wframe{major: MajorArray, definite: 2})
	if err := r.renderSignedInt(int64(it.Exponent)); err != nil {
		return err
	}
	return r.renderBigInteger(it.Mantissa)
}

func (r *Renderer) renderDouble(v float64) error {
	if r.cfg.CompressFloatingPointValues {
		f32 := float32(v)
		if float64(f32) == v {
			f16 := float16.Fromfloat32(f32)
			if f16.Float32() == f32 {
				return r.Render(item.Float16(f32))
			}
			return r.Render(item.Float(f32))
		}
	}
	if err := r.out.WriteByte(encodeInitialByte(MajorSimpleFloat, AddInfo64Bit)); err != nil {
		return err
	}
	if err := r.out.WriteUint64BE(math.Float64bits(v)); err != nil {
		return err
	}
	r.advance()
	return nil
}

func (r *Renderer) renderSimple(v byte) error {
	if v < 32 {
		if err := r.out.WriteByte(encodeInitialByte(MajorSimpleFloat, v)); err != nil {
			return err
		}
	} else {
		if err := r.out.WriteByte(encodeInitialByte(MajorSimpleFloat, AddInfo8Bit)); err != nil {
			return err
		}
		if err := r.out.WriteByte(v); err != nil {
			return err
		}
	}
	r.advance()
	return nil
}

func (r *Renderer) openHeader(mt MajorType, n int64, isMap bool) error {
	if len(r.frames) >= r.cfg.MaxNestingDepth {
		return ioerr.NewOverflow(r.pos(), "maximum nesting depth exceeded")
	}
	if err := r.writeMinimalInitialByte(mt, uint64(n)); err != nil {
		return err
	}
	if n > 0 {
		r.frames = append(r.frames, wframe{major: mt, definite: n, isMap: isMap})
	} else {
		r.advance()
	}
	return nil
}

func (r *Renderer) openIndefinite(mt MajorType, isMap bool) error {
	if r.cfg.Conformance >= ConformanceCanonical {
		return ioerr.NewInvalidInputData(r.pos(), "indefinite length not allowed in canonical mode")
	}
	if len(r.frames) >= r.cfg.MaxNestingDepth {
		return ioerr.NewOverflow(r.pos(), "maximum nesting depth exceeded")
	}
	if err := r.out.WriteByte(encodeInitialByte(mt, AddInfoIndefiniteLength)); err != nil {
		return err
	}
	r.frames = append(r.frames, wframe{major: mt, definite: -1, isMap: isMap, indefinite: true})
	return nil
}

func (r *Renderer) closeContainer() error {
	f := r.top()
	if f == nil {
		return ioerr.NewInvalidInputData(r.pos(), "break with no open container")
	}
	if f.isMap && f.keyWritten {
		return ioerr.NewInvalidInputData(r.pos(), "map closed with a dangling key")
	}
	if f.indefinite {
		if err := r.out.WriteByte(breakByte); err != nil {
			return err
		}
	} else if f.childrenSeen != f.definite {
		return ioerr.NewInvalidInputData(r.pos(), "container arity mismatch")
	}
	r.frames = r.frames[:len(r.frames)-1]
	r.advance()
	return nil
}

// Depth reports the current nesting depth (exposed for tests/diagnostics).
func (r *Renderer) Depth() int { return len(r.frames) }
