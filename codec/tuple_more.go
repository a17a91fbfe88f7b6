package codec

import (
	"github.com/ionscribe/stream/reader"
	"github.com/ionscribe/stream/writer"
)

// Tuple5 builds a Codec for a fixed-arity 5-element heterogeneous array.
func Tuple5[A, B, C, D, E any](ca Codec[A], cb Codec[B], cc Codec[C], cd Codec[D], ce Codec[E]) Codec[struct {
	A A
	B B
	C C
	D D
	E E
}] {
	type T = struct {
		A A
		B B
		C C
		D D
		E E
	}
	return New(
		func(w *writer.Writer, v T) error {
			if err := w.WriteArrayOpen(5); err != nil {
				return err
			}
			for _, step := range []func() error{
				func() error { return ca.Encode(w, v.A) },
				func() error { return cb.Encode(w, v.B) },
				func() error { return cc.Encode(w, v.C) },
				func() error { return cd.Encode(w, v.D) },
				func() error { return ce.Encode(w, v.E) },
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
			if v.E, err = ce.Decode(r); err != nil {
				return v, err
			}
			return v, closeTupleArray(r)
		},
	)
}

// Tuple6 builds a Codec for a fixed-arity 6-element heterogeneous array.
func Tuple6[A, B, C, D, E, F any](ca Codec[A], cb Codec[B], cc Codec[C], cd Codec[D], ce Codec[E], cf Codec[F]) Codec[struct {
	A A
	B B
	C C
	D D
	E E
	F F
}] {
	type T = struct {
		A A
		B B
		C C
		D D
		E E
		F F
	}
	return New(
		func(w *writer.Writer, v T) error {
			if err := w.WriteArrayOpen(6); err != nil {
				return err
			}
			for _, step := range []func() error{
				func() error { return ca.Encode(w, v.A) },
				func() error { return cb.Encode(w, v.B) },
				func() error { return cc.Encode(w, v.C) },
				func() error { return cd.Encode(w, v.D) },
				func() error { return ce.Encode(w, v.E) },
				func() error { return cf.Encode(w, v.F) },
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
			if v.E, err = ce.Decode(r); err != nil {
				return v, err
			}
			if v.F, err = cf.Decode(r); err != nil {
				return v, err
			}
			return v, closeTupleArray(r)
		},
	)
}

// Tuple7 builds a Codec for a fixed-arity 7-element heterogeneous array.
func Tuple7[A, B, C, D, E, F, G any](ca Codec[A], cb Codec[B], cc Codec[C], cd Codec[D], ce Codec[E], cf Codec[F], cg Codec[G]) Codec[struct {
	A A
	B B
	C C
	D D
	E E
	F F
	G G
}] {
	type T = struct {
		A A
		B B
		C C
		D D
		E E
		F F
		G G
	}
	return New(
		func(w *writer.Writer, v T) error {
			if err := w.WriteArrayOpen(7); err != nil {
				return err
			}
			for _, step := range []func() error{
				func() error { return ca.Encode(w, v.A) },
				func() error { return cb.Encode(w, v.B) },
				func() error { return cc.Encode(w, v.C) },
				func() error { return cd.Encode(w, v.D) },
				func() error { return ce.Encode(w, v.E) },
				func() error { return cf.Encode(w, v.F) },
				func() error { return cg.Encode(w, v.G) },
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
			if v.E, err = ce.Decode(r); err != nil {
				return v, err
			}
			if v.F, err = cf.Decode(r); err != nil {
				return v, err
			}
			if v.G, err = cg.Decode(r); err != nil {
				return v, err
			}
			return v, closeTupleArray(r)
		},
	)
}

// Tuple8 builds a Codec for a fixed-arity 8-element heterogeneous array.
func Tuple8[A, B, C, D, E, F, G, H any](ca Codec[A], cb Codec[B], cc Codec[C], cd Codec[D], ce Codec[E], cf Codec[F], cg Codec[G], ch Codec[H]) Codec[struct {
	A A
	B B
	C C
	D D
	E E
	F F
	G G
	H H
}] {
	type T = struct {
		A A
		B B
		C C
		D D
		E E
		F F
		G G
		H H
	}
	return New(
		func(w *writer.Writer, v T) error {
			if err := w.WriteArrayOpen(8); err != nil {
				return err
			}
			for _, step := range []func() error{
				func() error { return ca.Encode(w, v.A) },
				func() error { return cb.Encode(w, v.B) },
				func() error { return cc.Encode(w, v.C) },
				func() error { return cd.Encode(w, v.D) },
				func() error { return ce.Encode(w, v.E) },
				func() error { return cf.Encode(w, v.F) },
				func() error { return cg.Encode(w, v.G) },
				func() error { return ch.Encode(w, v.H) },
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
			if v.E, err = ce.Decode(r); err != nil {
				return v, err
			}
			if v.F, err = cf.Decode(r); err != nil {
				return v, err
			}
			if v.G, err = cg.Decode(r); err != nil {
				return v, err
			}
			if v.H, err = ch.Decode(r); err != nil {
				return v, err
			}
			return v, closeTupleArray(r)
		},
	)
}

// Tuple9 builds a Codec for a fixed-arity 9-element heterogeneous array.
func Tuple9[A, B, C, D, E, F, G, H, I any](ca Codec[A], cb Codec[B], cc Codec[C], cd Codec[D], ce Codec[E], cf Codec[F], cg Codec[G], ch Codec[H], ci Codec[I]) Codec[struct {
	A A
	B B
	C C
	D D
	E E
	F F
	G G
	H H
	I I
}] {
	type T = struct {
		A A
		B B
		C C
		D D
		E E
		F F
		G G
		H H
		I I
	}
	return New(
		func(w *writer.Writer, v T) error {
			if err := w.WriteArrayOpen(9); err != nil {
				return err
			}
			for _, step := range []func() error{
				func() error { return ca.Encode(w, v.A) },
				func() error { return cb.Encode(w, v.B) },
				func() error { return cc.Encode(w, v.C) },
				func() error { return cd.Encode(w, v.D) },
				func() error { return ce.Encode(w, v.E) },
				func() error { return cf.Encode(w, v.F) },
				func() error { return cg.Encode(w, v.G) },
				func() error { return ch.Encode(w, v.H) },
				func() error { return ci.Encode(w, v.I) },
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
			if v.E, err = ce.Decode(r); err != nil {
				return v, err
			}
			if v.F, err = cf.Decode(r); err != nil {
				return v, err
			}
			if v.G, err = cg.Decode(r); err != nil {
				return v, err
			}
			if v.H, err = ch.Decode(r); err != nil {
				return v, err
			}
			if v.I, err = ci.Decode(r); err != nil {
				return v, err
			}
			return v, closeTupleArray(r)
		},
	)
}
