package dom

import (
	"github.com/ionscribe/stream/codec"
	"github.com/ionscribe/stream/ioerr"
	"github.com/ionscribe/stream/item"
	"github.com/ionscribe/stream/reader"
	"github.com/ionscribe/stream/writer"
)

// Codec is the Codec[Value] built purely from Reader/Writer primitives:
// no special-cased parser/renderer path, demonstrating that the item
// model is a genuine "center of gravity" (spec.md §9) rather than an
// abstraction that leaks for generic trees.
var Codec codec.Codec[Value] = codec.New(encodeValue, decodeValue)

func encodeValue(w *writer.Writer, v Value) error {
	switch v.Kind {
	case KindNull:
		return w.WriteNull()
	case KindBool:
		return w.WriteBool(v.Bool)
	case KindNumber:
		return encodeNumber(w, v.Number)
	case KindBytes:
		return w.WriteBytes(v.Bytes)
	case KindText:
		return w.WriteText(v.Text)
	case KindArray:
		if err := w.WriteArrayOpen(int64(len(v.Array))); err != nil {
			return err
		}
		for _, elem := range v.Array {
			if err := encodeValue(w, elem); err != nil {
				return err
			}
		}
		return w.WriteArrayClose()
	case KindObject:
		if err := w.WriteMapOpen(int64(len(v.Object))); err != nil {
			return err
		}
		for _, pair := range v.Object {
			if err := w.WriteString(pair.Key); err != nil {
				return err
			}
			if err := encodeValue(w, pair.Value); err != nil {
				return err
			}
		}
		return w.WriteMapClose()
	default:
		return ioerr.NewUnsupported(0, "unknown dom.Value kind")
	}
}

func encodeNumber(w *writer.Writer, it item.Item) error {
	switch it.Kind {
	case item.KindInt:
		return w.WriteInt(it.I32)
	case item.KindLong:
		return w.WriteLong(it.I64)
	case item.KindOverLong:
		return w.WriteOverLong(it.U64, it.Neg)
	case item.KindBigInteger:
		return w.WriteBigInteger(it.Big)
	case item.KindFloat16:
		return w.WriteFloat16(it.F16)
	case item.KindFloat:
		return w.WriteFloat(it.F32)
	case item.KindDouble:
		return w.WriteDouble(it.F64)
	case item.KindBigDecimal:
		return w.WriteBigDecimal(it.Mantissa, it.Exponent)
	case item.KindNumberString:
		return w.WriteNumberString(it.Raw)
	default:
		return ioerr.NewUnsupported(0, "dom.Value Number holds a non-numeric item")
	}
}

func decodeValue(r *reader.Reader) (Value, error) {
	switch {
	case r.HasNull():
		return Null(), r.ReadNull()
	case r.HasBool():
		v, err := r.ReadBool()
		return Bool(v), err
	case r.HasInt():
		v, err := r.ReadInt()
		return Number(item.Int(v)), err
	case r.HasLong():
		v, err := r.ReadLong()
		return Number(item.Long(v)), err
	case r.HasOverLong():
		v, neg, err := r.ReadOverLong()
		return Number(item.OverLong(v, neg)), err
	case r.HasBigInteger():
		v, err := r.ReadBigInteger()
		return Number(item.BigInteger(v)), err
	case r.HasFloat16():
		v, err := r.ReadFloat16()
		return Number(item.Float16(v)), err
	case r.HasFloat():
		v, err := r.ReadFloat()
		return Number(item.Float(v)), err
	case r.HasDouble():
		v, err := r.ReadDouble()
		return Number(item.Double(v)), err
	case r.HasBigDecimal():
		mantissa, exponent, err := r.ReadBigDecimal()
		return Number(item.BigDecimal(mantissa, exponent)), err
	case r.HasNumberString():
		v, err := r.ReadNumberString()
		return Number(item.NumberString(v)), err
	case r.HasBytes():
		v, err := r.ReadBytes()
		return Bytes(v), err
	case r.HasText() || r.HasString():
		v, err := r.ReadText()
		return Text(v), err
	case r.HasArrayHeader():
		n, err := r.ReadArrayHeader()
		if err != nil {
			return Value{}, err
		}
		out := make([]Value, 0, n)
		for i := int64(0); i < n; i++ {
			elem, err := decodeValue(r)
			if err != nil {
				return Value{}, err
			}
			out = append(out, elem)
		}
		return Array(out), nil
	case r.HasArrayStart():
		if err := r.ReadArrayStart(); err != nil {
			return Value{}, err
		}
		var out []Value
		for !r.HasBreak() {
			elem, err := decodeValue(r)
			if err != nil {
				return Value{}, err
			}
			out = append(out, elem)
		}
		return Array(out), r.ReadBreak()
	case r.HasMapHeader():
		n, err := r.ReadMapHeader()
		if err != nil {
			return Value{}, err
		}
		out := make([]Pair, 0, n)
		for i := int64(0); i < n; i++ {
			key, err := r.ReadText()
			if err != nil {
				return Value{}, err
			}
			val, err := decodeValue(r)
			if err != nil {
				return Value{}, err
			}
			out = append(out, Pair{Key: key, Value: val})
		}
		return Object(out), nil
	case r.HasMapStart():
		if err := r.ReadMapStart(); err != nil {
			return Value{}, err
		}
		var out []Pair
		for !r.HasBreak() {
			key, err := r.ReadText()
			if err != nil {
				return Value{}, err
			}
			val, err := decodeValue(r)
			if err != nil {
				return Value{}, err
			}
			out = append(out, Pair{Key: key, Value: val})
		}
		return Object(out), r.ReadBreak()
	default:
		return Value{}, ioerr.NewUnsupported(0, "unsupported item kind in DOM decode")
	}
}
