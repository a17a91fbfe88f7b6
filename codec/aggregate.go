package codec

import (
	"fmt"

	"github.com/ionscribe/stream/ioerr"
	"github.com/ionscribe/stream/reader"
	"github.com/ionscribe/stream/writer"
)

// Field describes one member of a record type T for the aggregate
// combinators below: how to read/write its value and, for map-based
// encoding, the key it is stored under.
type Field[T any] struct {
	Name       string
	IntKey     int
	UseIntKey  bool
	Encode     func(w *writer.Writer, v T) error
	Decode     func(r *reader.Reader, v *T) error
	HasDefault bool
	SetDefault func(v *T)
}

// ArrayAggregate builds a record Codec that writes fields positionally:
// ArrayHeader(N) + fields in declaration order for N >= 2, or the bare
// field with no wrapper for N == 1 (spec.md's arity-1 unwrapping).
func ArrayAggregate[T any](fields []Field[T]) Codec[T] {
	if len(fields) == 1 {
		f := fields[0]
		return New(
			func(w *writer.Writer, v T) error { return f.Encode(w, v) },
			func(r *reader.Reader) (T, error) {
				var v T
				err := f.Decode(r, &v)
				return v, err
			},
		)
	}
	n := int64(len(fields))
	return New(
		func(w *writer.Writer, v T) error {
			if err := w.WriteArrayOpen(n); err != nil {
				return err
			}
			for _, f := range fields {
				if err := f.Encode(w, v); err != nil {
					return err
				}
			}
			return w.WriteArrayClose()
		},
		func(r *reader.Reader) (T, error) {
			var v T
			if r.HasArrayHeader() {
				got, err := r.ReadArrayHeader()
				if err != nil {
					return v, err
				}
				if got != n {
					return v, ioerr.NewInvalidInputData(0, fmt.Sprintf("expected Array of %d", n))
				}
			} else if err := r.ReadArrayStart(); err != nil {
				return v, err
			}
			for _, f := range fields {
				if r.HasBreak() {
					return v, ioerr.NewInvalidInputData(0, fmt.Sprintf("expected Array of %d", n))
				}
				if err := f.Decode(r, &v); err != nil {
					return v, err
				}
			}
			if err := closeTupleArray(r); err != nil {
				return v, err
			}
			return v, nil
		},
	)
}

// MapAggregate builds a record Codec that writes one map entry per
// field (key = Name or IntKey, per field.UseIntKey). Decoding tolerates
// fields in any order, substitutes defaults for missing fields that
// declare one, skips unrecognized extra fields, and rejects duplicate
// keys.
func MapAggregate[T any](fields []Field[T]) Codec[T] {
	byName := make(map[string]*Field[T], len(fields))
	byInt := make(map[int]*Field[T], len(fields))
	for i := range fields {
		f := &fields[i]
		if f.UseIntKey {
			byInt[f.IntKey] = f
		} else {
			byName[f.Name] = f
		}
	}
	return New(
		func(w *writer.Writer, v T) error {
			if err := w.WriteMapOpen(int64(len(fields))); err != nil {
				return err
			}
			for _, f := range fields {
				if f.UseIntKey {
					if err := w.WriteInt(int32(f.IntKey)); err != nil {
						return err
					}
				} else if err := w.WriteString(f.Name); err != nil {
					return err
				}
				if err := f.Encode(w, v); err != nil {
					return err
				}
			}
			return w.WriteMapClose()
		},
		func(r *reader.Reader) (T, error) {
			var v T
			seen := make(map[*Field[T]]bool, len(fields))
			readPair := func() error {
				f, err := matchAggregateKey(r, byName, byInt)
				if err != nil {
					return err
				}
				if f == nil {
					return r.SkipElement()
				}
				if seen[f] {
					return ioerr.NewInvalidInputData(0, "duplicate map key")
				}
				if err := f.Decode(r, &v); err != nil {
					return err
				}
				seen[f] = true
				return nil
			}
			if r.HasMapHeader() {
				n, err := r.ReadMapHeader()
				if err != nil {
					return v, err
				}
				for i := int64(0); i < n; i++ {
					if err := readPair(); err != nil {
						return v, err
					}
				}
			} else {
				if err := r.ReadMapStart(); err != nil {
					return v, err
				}
				for !r.HasBreak() {
					if err := readPair(); err != nil {
						return v, err
					}
				}
				if err := r.ReadBreak(); err != nil {
					return v, err
				}
			}
			for i := range fields {
				f := &fields[i]
				if !seen[f] {
					if !f.HasDefault {
						return v, ioerr.NewInvalidInputData(0, fmt.Sprintf("missing required field %q", f.Name))
					}
					f.SetDefault(&v)
				}
			}
			return v, nil
		},
	)
}

// CompactAggregate collapses a unary record to array-based encoding
// (identical to ArrayAggregate's arity-1 case) and falls back to
// MapAggregate for every other arity, avoiding a single-key map wrapper.
func CompactAggregate[T any](fields []Field[T]) Codec[T] {
	if len(fields) == 1 {
		return ArrayAggregate(fields)
	}
	return MapAggregate(fields)
}

func matchAggregateKey[T any](r *reader.Reader, byName map[string]*Field[T], byInt map[int]*Field[T]) (*Field[T], error) {
	if r.HasInt() {
		n, err := r.ReadInt()
		if err != nil {
			return nil, err
		}
		return byInt[int(n)], nil
	}
	s, err := r.ReadText()
	if err != nil {
		return nil, err
	}
	return byName[s], nil
}
