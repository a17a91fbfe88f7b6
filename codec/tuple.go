package codec

import (
	"github.com/ionscribe/stream/reader"
	"github.com/ionscribe/stream/writer"
)

// Tuple2 builds a Codec for a fixed-arity 2-element heterogeneous array.
func Tuple2[A, B any](ca Codec[A], cb Codec[B]) Codec[struct {
	A A
	B B
}] {
	type T = struct {
		A A
		B B
	}
	return New(
		func(w *writer.Writer, v T) error {
			if err := w.WriteArrayOpen(2); err != nil {
				return err
			}
			if err := ca.Encode(w, v.A); err != nil {
				return err
			}
			if err := cb.Encode(w, v.B); err != nil {
				return err
			}
			return w.WriteArrayClose()
		},
		func(r *reader.Reader) (T, error) {
			var v T
			if err := openTupleArray(r); err != nil {
				return v, err
			}
			var err error
			if v.A, err = ca.Decode(r); err != nil {
				return v, err
			}
			if v.B, err = cb.Decode(r); err != nil {
				return v, err
			}
			return v, closeTupleArray(r)
		},
	)
}

// Tuple3 builds a Codec for a fixed-arity 3-element heterogeneous array.
func Tuple3[A, B, C any](ca Codec[A], cb Codec[B], cc Codec[C]) Codec[struct {
	A A
	B B
	C C
}] {
	type T = struct {
		A A
		B B
		C C
	}
	return New(
		func(w *writer.Writer, v T) error {
			if err := w.WriteArrayOpen(3); err != nil {
				return err
			}
			if err := ca.Encode(w, v.A); err != nil {
				return err
			}
			if err := cb.Encode(w, v.B); err != nil {
				return err
			}
			if err := cc.Encode(w, v.C); err != nil {
				return err
			}
			return w.WriteArrayClose()
		},
		func(r *reader.Reader) (T, error) {
			var v T
			if err := openTupleArray(r); err != nil {
				return v, err
			}
			var err error
			if v.A, err = ca.Decode(r); err != nil {
				return v, err
			}
			if v.B, err = cb.Decode(r); err != nil {
				return v, err
			}
			if v.C, err = cc.Decode(r); err != nil {
				return v, err
			}
			return v, closeTupleArray(r)
		},
	)
}

// Tuple4 builds a Codec for a fixed-arity 4-element heterogeneous array.
func Tuple4[A, B, C, D any](ca Codec[A], cb Codec[B], cc Codec[C], cd Codec[D]) Codec[struct {
	A A
	B B
	C C
	D D
}] {
	type T = struct {
		A A
		B B
		C C
		D D
	}
	return New(
		func(w *writer.Writer, v T) error {
			if err := w.WriteArrayOpen(4); err != nil {
				return err
			}
			for _, step := range []func() error{
				func() error { return ca.Encode(w, v.A) },
				func() error { return cb.Encode(w, v.B) },
				func() error { return cc.Encode(w, v.C) },
				func() error { return cd.Encode(w, v.D) },
			} {
				if err := step(); err != nil {
					return err
				}
			}
			return w.WriteArrayClose()
		},
		func(r *reader.Reader) (T, error) {
			var v T
			if err := openTupleArray(r); err != nil {
				return v, err
			}
			var err error
			if v.A, err = ca.Decode(r); err != nil {
				return v, err
			}
			if v.B, err = cb.Decode(r); err != nil {
				return v, err
			}
			if v.C, err = cc.Decode(r); err != nil {
				return v, err
			}
			if v.D, err = cd.Decode(r); err != nil {
				return v, err
			}
			return v, closeTupleArray(r)
		},
	)
}

func openTupleArray(r *reader.Reader) error {
	if r.HasArrayHeader() {
		_, err := r.ReadArrayHeader()
		return err
	}
	return r.ReadArrayStart()
}

func closeTupleArray(r *reader.Reader) error {
	if r.HasBreak() {
		return r.ReadBreak()
	}
	return nil
}
