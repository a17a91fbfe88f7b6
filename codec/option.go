package codec

import (
	"github.com/ionscribe/stream/reader"
	"github.com/ionscribe/stream/writer"
)

// Option builds a Codec for a Go pointer-as-optional: nil encodes as a
// zero-element array, a present value as a one-element array holding the
// inner codec's single item. Kept array-shaped (rather than Null/value)
// so absence and "a present null" never collide for element codecs where
// T itself can be nil.
func Option[T any](inner Codec[T]) Codec[*T] {
	return New(
		func(w *writer.Writer, v *T) error {
			if v == nil {
				if err := w.WriteArrayOpen(0); err != nil {
					return err
				}
				return w.WriteArrayClose()
			}
			if err := w.WriteArrayOpen(1); err != nil {
				return err
			}
			if err := inner.Encode(w, *v); err != nil {
				return err
			}
			return w.WriteArrayClose()
		},
		func(r *reader.Reader) (*T, error) {
			if r.HasArrayHeader() {
				n, err := r.ReadArrayHeader()
				if err != nil {
					return nil, err
				}
				if n == 0 {
					return nil, nil
				}
				v, err := inner.Decode(r)
				if err != nil {
					return nil, err
				}
				return &v, nil
			}
			if err := r.ReadArrayStart(); err != nil {
				return nil, err
			}
			if r.HasBreak() {
				_ = r.ReadBreak()
				return nil, nil
			}
			v, err := inner.Decode(r)
			if err != nil {
				return nil, err
			}
			if err := r.ReadBreak(); err != nil {
				return nil, err
			}
			return &v, nil
		},
	)
}
