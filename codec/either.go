package codec

import (
	"github.com/ionscribe/stream/ioerr"
	"github.com/ionscribe/stream/reader"
	"github.com/ionscribe/stream/writer"
)

// EitherKeyStyle selects how Either tags its active branch in the
// single-entry wrapper map.
type EitherKeyStyle int

const (
	// EitherKeyNamed tags branches with the string keys "Left"/"Right".
	EitherKeyNamed EitherKeyStyle = iota
	// EitherKeyIndexed tags branches with the integers 0 (Left) / 1 (Right).
	EitherKeyIndexed
)

// Either is the value produced/consumed by an Either[A, B] Codec. Exactly
// one of Left/Right is meaningful, selected by IsLeft.
type Either[A, B any] struct {
	IsLeft bool
	Left   A
	Right  B
}

// EitherWithKeyStyle builds a Codec[Either[A, B]]: a single-entry map
// whose one key names the active branch and whose one value holds that
// branch's encoding.
func EitherWithKeyStyle[A, B any](ca Codec[A], cb Codec[B], style EitherKeyStyle) Codec[Either[A, B]] {
	return New(
		func(w *writer.Writer, v Either[A, B]) error {
			if err := w.WriteMapOpen(1); err != nil {
				return err
			}
			if v.IsLeft {
				if err := writeEitherKey(w, style, true); err != nil {
					return err
				}
				if err := ca.Encode(w, v.Left); err != nil {
					return err
				}
			} else {
				if err := writeEitherKey(w, style, false); err != nil {
					return err
				}
				if err := cb.Encode(w, v.Right); err != nil {
					return err
				}
			}
			return w.WriteMapClose()
		},
		func(r *reader.Reader) (Either[A, B], error) {
			var out Either[A, B]
			if err := openEitherMap(r); err != nil {
				return out, err
			}
			isLeft, err := readEitherKey(r, style)
			if err != nil {
				return out, err
			}
			if isLeft {
				v, err := ca.Decode(r)
				if err != nil {
					return out, err
				}
				out = Either[A, B]{IsLeft: true, Left: v}
			} else {
				v, err := cb.Decode(r)
				if err != nil {
					return out, err
				}
				out = Either[A, B]{IsLeft: false, Right: v}
			}
			if err := closeTupleArray(r); err != nil {
				return out, err
			}
			return out, nil
		},
	)
}

// EitherCodec builds an Either[A, B] Codec using the default named key style.
func EitherCodec[A, B any](ca Codec[A], cb Codec[B]) Codec[Either[A, B]] {
	return EitherWithKeyStyle(ca, cb, EitherKeyNamed)
}

func writeEitherKey(w *writer.Writer, style EitherKeyStyle, isLeft bool) error {
	if style == EitherKeyIndexed {
		if isLeft {
			return w.WriteInt(0)
		}
		return w.WriteInt(1)
	}
	if isLeft {
		return w.WriteString("Left")
	}
	return w.WriteString("Right")
}

func openEitherMap(r *reader.Reader) error {
	if r.HasMapHeader() {
		n, err := r.ReadMapHeader()
		if err != nil {
			return err
		}
		if n != 1 {
			return ioerr.NewInvalidInputData(0, "either wrapper map must have exactly one entry")
		}
		return nil
	}
	return r.ReadMapStart()
}

func readEitherKey(r *reader.Reader, style EitherKeyStyle) (bool, error) {
	if style == EitherKeyIndexed {
		n, err := r.ReadInt()
		if err != nil {
			return false, err
		}
		switch n {
		case 0:
			return true, nil
		case 1:
			return false, nil
		default:
			return false, ioerr.NewInvalidInputData(0, "either wrapper key must be 0 or 1")
		}
	}
	s, err := r.ReadText()
	if err != nil {
		return false, err
	}
	switch s {
	case "Left":
		return true, nil
	case "Right":
		return false, nil
	default:
		return false, ioerr.NewInvalidInputData(0, "either wrapper key must be Left or Right")
	}
}
