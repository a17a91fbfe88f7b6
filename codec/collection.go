package codec

import (
	"github.com/ionscribe/stream/reader"
	"github.com/ionscribe/stream/writer"
)

// Slice builds a Codec[[]T] from an element Codec[T], written as an array.
func Slice[T any](elem Codec[T]) Codec[[]T] {
	return New(
		func(w *writer.Writer, v []T) error {
			if err := w.WriteArrayOpen(int64(len(v))); err != nil {
				return err
			}
			for _, e := range v {
				if err := elem.Encode(w, e); err != nil {
					return err
				}
			}
			return w.WriteArrayClose()
		},
		func(r *reader.Reader) ([]T, error) {
			if r.HasArrayHeader() {
				n, err := r.ReadArrayHeader()
				if err != nil {
					return nil, err
				}
				out := make([]T, 0, n)
				for i := int64(0); i < n; i++ {
					e, err := elem.Decode(r)
					if err != nil {
						return nil, err
					}
					out = append(out, e)
				}
				return out, nil
			}
			if err := r.ReadArrayStart(); err != nil {
				return nil, err
			}
			var out []T
			for !r.HasBreak() {
				e, err := elem.Decode(r)
				if err != nil {
					return nil, err
				}
				out = append(out, e)
			}
			return out, r.ReadBreak()
		},
	)
}

// Map builds a Codec[map[K]V] from a string-keyed Codec[K] and a value
// Codec[V], written as a map item with K rendered via keyCodec.
func Map[K comparable, V any](keyCodec Codec[K], valueCodec Codec[V]) Codec[map[K]V] {
	return New(
		func(w *writer.Writer, v map[K]V) error {
			if err := w.WriteMapOpen(int64(len(v))); err != nil {
				return err
			}
			for k, val := range v {
				if err := keyCodec.Encode(w, k); err != nil {
					return err
				}
				if err := valueCodec.Encode(w, val); err != nil {
					return err
				}
			}
			return w.WriteMapClose()
		},
		func(r *reader.Reader) (map[K]V, error) {
			if r.HasMapHeader() {
				n, err := r.ReadMapHeader()
				if err != nil {
					return nil, err
				}
				out := make(map[K]V, n)
				for i := int64(0); i < n; i++ {
					k, err := keyCodec.Decode(r)
					if err != nil {
						return nil, err
					}
					val, err := valueCodec.Decode(r)
					if err != nil {
						return nil, err
					}
					out[k] = val
				}
				return out, nil
			}
			if err := r.ReadMapStart(); err != nil {
				return nil, err
			}
			out := make(map[K]V)
			for !r.HasBreak() {
				k, err := keyCodec.Decode(r)
				if err != nil {
					return nil, err
				}
				val, err := valueCodec.Decode(r)
				if err != nil {
					return nil, err
				}
				out[k] = val
			}
			return out, r.ReadBreak()
		},
	)
}
