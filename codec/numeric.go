package codec

import (
	"math"

	"github.com/ionscribe/stream/ioerr"
	"github.com/ionscribe/stream/item"
	"github.com/ionscribe/stream/reader"
	"github.com/ionscribe/stream/writer"
	"golang.org/x/exp/constraints"
)

// Bool is the built-in bool Codec.
var Bool Codec[bool] = New(
	func(w *writer.Writer, v bool) error { return w.WriteBool(v) },
	func(r *reader.Reader) (bool, error) { return r.ReadBool() },
)

// readSigned widens whatever integer item is buffered (Int or Long) to
// int64. Any other numeric kind is reported via UnexpectedDataItem.
func readSigned(r *reader.Reader) (int64, error) {
	if r.HasInt() {
		v, err := r.ReadInt()
		return int64(v), err
	}
	return r.ReadLong()
}

// readUnsigned widens a non-negative Int/Long/OverLong item to uint64.
func readUnsigned(r *reader.Reader) (uint64, error) {
	if r.HasInt() {
		v, err := r.ReadInt()
		if err != nil {
			return 0, err
		}
		if v < 0 {
			return 0, ioerr.NewOverflow(0, "negative value for unsigned integer field")
		}
		return uint64(v), nil
	}
	if r.HasLong() {
		v, err := r.ReadLong()
		if err != nil {
			return 0, err
		}
		if v < 0 {
			return 0, ioerr.NewOverflow(0, "negative value for unsigned integer field")
		}
		return uint64(v), nil
	}
	v, neg, err := r.ReadOverLong()
	if err != nil {
		return 0, err
	}
	if neg {
		return 0, ioerr.NewOverflow(0, "negative value for unsigned integer field")
	}
	return v, nil
}

// Int builds a Codec for any signed integer width. Values are always
// written via WriteLong — both renderers pick the shortest wire
// representation for the actual magnitude regardless of which Kind
// produced it, so encoding never needs to special-case width.
func Int[T constraints.Signed]() Codec[T] {
	return New(
		func(w *writer.Writer, v T) error { return w.WriteLong(int64(v)) },
		func(r *reader.Reader) (T, error) {
			v, err := readSigned(r)
			if err != nil {
				return 0, err
			}
			var zero T
			if overflowsSigned(zero, v) {
				return 0, ioerr.NewOverflow(0, "integer value out of range for field width")
			}
			return T(v), nil
		},
	)
}

// Uint builds a Codec for any unsigned integer width.
func Uint[T constraints.Unsigned]() Codec[T] {
	return New(
		func(w *writer.Writer, v T) error { return w.WriteOverLong(uint64(v), false) },
		func(r *reader.Reader) (T, error) {
			v, err := readUnsigned(r)
			if err != nil {
				return 0, err
			}
			var zero T
			if overflowsUnsigned(zero, v) {
				return 0, ioerr.NewOverflow(0, "integer value out of range for field width")
			}
			return T(v), nil
		},
	)
}

func overflowsSigned[T constraints.Signed](zero T, v int64) bool {
	switch any(zero).(type) {
	case int8:
		return v < math.MinInt8 || v > math.MaxInt8
	case int16:
		return v < math.MinInt16 || v > math.MaxInt16
	case int32:
		return v < math.MinInt32 || v > math.MaxInt32
	default:
		return false
	}
}

func overflowsUnsigned[T constraints.Unsigned](zero T, v uint64) bool {
	switch any(zero).(type) {
	case uint8:
		return v > math.MaxUint8
	case uint16:
		return v > math.MaxUint16
	case uint32:
		return v > math.MaxUint32
	default:
		return false
	}
}

// Float builds a Codec for float32/float64, always written as Double (the
// renderer's CompressFloatingPointValues option, when set, downcasts
// losslessly on the wire).
func Float[T constraints.Float]() Codec[T] {
	return New(
		func(w *writer.Writer, v T) error { return w.WriteDouble(float64(v)) },
		func(r *reader.Reader) (T, error) {
			switch {
			case r.HasFloat16():
				v, err := r.ReadFloat16()
				return T(v), err
			case r.HasFloat():
				v, err := r.ReadFloat()
				return T(v), err
			case r.HasDouble():
				v, err := r.ReadDouble()
				return T(v), err
			default:
				v, err := r.ReadDouble()
				return T(v), err
			}
		},
	)
}

// String is the built-in Codec for UTF-8 text.
var String Codec[string] = New(
	func(w *writer.Writer, v string) error { return w.WriteText(v) },
	func(r *reader.Reader) (string, error) { return r.ReadText() },
)

// item.Target is re-exported for codecs that must branch on wire format
// (e.g. byte arrays, Either key style).
type Target = item.Target

const (
	TargetCBOR = item.TargetCBOR
	TargetJSON = item.TargetJSON
)
