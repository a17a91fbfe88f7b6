package codec

import (
	"fmt"

	"github.com/ionscribe/stream/ioerr"
	"github.com/ionscribe/stream/item"
	"github.com/ionscribe/stream/reader"
	"github.com/ionscribe/stream/writer"
)

// Variant describes one member of a closed sum type T for WrappedSum:
// a type id, a predicate selecting it on encode, and a Codec for its
// payload (typically built with ArrayAggregate/MapAggregate/
// CompactAggregate).
type Variant[T any] struct {
	TypeID    string
	IntID     int
	UseIntID  bool
	Matches   func(v T) bool
	Payload   Codec[T]
}

// WrappedSum builds an ADT Codec that writes an instance as a
// single-entry map: key is the matched variant's type id, value is its
// payload (spec.md §4.10, "Wrapped").
func WrappedSum[T any](variants []Variant[T]) Codec[T] {
	byName := make(map[string]*Variant[T], len(variants))
	byInt := make(map[int]*Variant[T], len(variants))
	for i := range variants {
		v := &variants[i]
		if v.UseIntID {
			byInt[v.IntID] = v
		} else {
			byName[v.TypeID] = v
		}
	}
	return New(
		func(w *writer.Writer, v T) error {
			variant := matchVariant(variants, v)
			if variant == nil {
				return ioerr.NewUnsupported(0, "no ADT variant matches value")
			}
			if err := w.WriteMapOpen(1); err != nil {
				return err
			}
			if variant.UseIntID {
				if err := w.WriteInt(int32(variant.IntID)); err != nil {
					return err
				}
			} else if err := w.WriteString(variant.TypeID); err != nil {
				return err
			}
			if err := variant.Payload.Encode(w, v); err != nil {
				return err
			}
			return w.WriteMapClose()
		},
		func(r *reader.Reader) (T, error) {
			var zero T
			if err := openEitherMap(r); err != nil {
				return zero, err
			}
			var variant *Variant[T]
			if r.HasInt() {
				n, err := r.ReadInt()
				if err != nil {
					return zero, err
				}
				variant = byInt[int(n)]
			} else {
				s, err := r.ReadText()
				if err != nil {
					return zero, err
				}
				variant = byName[s]
			}
			if variant == nil {
				return zero, ioerr.NewInvalidInputData(0, "unknown ADT type id")
			}
			v, err := variant.Payload.Decode(r)
			if err != nil {
				return zero, err
			}
			if err := closeTupleArray(r); err != nil {
				return zero, err
			}
			return v, nil
		},
	)
}

func matchVariant[T any](variants []Variant[T], v T) *Variant[T] {
	for i := range variants {
		if variants[i].Matches(v) {
			return &variants[i]
		}
	}
	return nil
}

// FlatVariant describes one member of a closed sum type T for FlatSum:
// a type id and the field list of its payload, merged directly into the
// enclosing map alongside the `_type` discriminator.
type FlatVariant[T any] struct {
	TypeID   string
	IntID    int
	UseIntID bool
	Matches  func(v T) bool
	Fields   []Field[T]
}

type flatPair struct {
	key   item.Item
	value []item.Item
}

// FlatSum builds an ADT Codec that merges a `_type` discriminator member
// into the same map as the payload fields (spec.md §4.10, "Flat"). The
// discriminator may appear anywhere in the map; decoding drains every
// member up front (capturing each value's raw item sequence) so that
// members read before `_type` is found can be replayed once the variant
// is known.
func FlatSum[T any](variants []FlatVariant[T]) Codec[T] {
	byName := make(map[string]*FlatVariant[T], len(variants))
	byInt := make(map[int]*FlatVariant[T], len(variants))
	for i := range variants {
		v := &variants[i]
		if v.UseIntID {
			byInt[v.IntID] = v
		} else {
			byName[v.TypeID] = v
		}
	}
	return New(
		func(w *writer.Writer, v T) error {
			variant := matchFlatVariant(variants, v)
			if variant == nil {
				return ioerr.NewUnsupported(0, "no ADT variant matches value")
			}
			if err := w.WriteMapOpen(int64(1 + len(variant.Fields))); err != nil {
				return err
			}
			if err := w.WriteString("_type"); err != nil {
				return err
			}
			if variant.UseIntID {
				if err := w.WriteInt(int32(variant.IntID)); err != nil {
					return err
				}
			} else if err := w.WriteString(variant.TypeID); err != nil {
				return err
			}
			for _, f := range variant.Fields {
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
			var zero T
			pairs, err := drainFlatMap(r)
			if err != nil {
				return zero, err
			}
			typeIdx := -1
			for i, p := range pairs {
				if p.key.Kind == item.KindString || p.key.Kind == item.KindText {
					if p.key.Text == "_type" {
						typeIdx = i
						break
					}
				}
			}
			if typeIdx < 0 {
				return zero, ioerr.NewInvalidInputData(0, "Expected Type-ID member `_type` ... but got none")
			}
			typeItems := pairs[typeIdx].value
			if len(typeItems) != 1 {
				return zero, ioerr.NewInvalidInputData(0, "malformed `_type` member")
			}
			var variant *FlatVariant[T]
			switch typeItems[0].Kind {
			case item.KindString, item.KindText:
				variant = byName[typeItems[0].Text]
			case item.KindInt:
				variant = byInt[int(typeItems[0].I32)]
			case item.KindLong:
				variant = byInt[int(typeItems[0].I64)]
			default:
				return zero, ioerr.NewInvalidInputData(0, "malformed `_type` member")
			}
			if variant == nil {
				return zero, ioerr.NewInvalidInputData(0, "unknown ADT type id")
			}
			byFieldName := make(map[string]*Field[T], len(variant.Fields))
			byFieldInt := make(map[int]*Field[T], len(variant.Fields))
			for i := range variant.Fields {
				f := &variant.Fields[i]
				if f.UseIntKey {
					byFieldInt[f.IntKey] = f
				} else {
					byFieldName[f.Name] = f
				}
			}
			var v T
			seen := make(map[*Field[T]]bool, len(variant.Fields))
			for i, p := range pairs {
				if i == typeIdx {
					continue
				}
				var f *Field[T]
				switch p.key.Kind {
				case item.KindString, item.KindText:
					f = byFieldName[p.key.Text]
				case item.KindInt:
					f = byFieldInt[int(p.key.I32)]
				case item.KindLong:
					f = byFieldInt[int(p.key.I64)]
				}
				if f == nil {
					continue // extra member, skipped
				}
				if seen[f] {
					return zero, ioerr.NewInvalidInputData(0, "duplicate map key")
				}
				fieldReader := replayReader(r.Target(), p.value)
				if err := f.Decode(fieldReader, &v); err != nil {
					return zero, err
				}
				seen[f] = true
			}
			for i := range variant.Fields {
				f := &variant.Fields[i]
				if !seen[f] {
					if !f.HasDefault {
						return zero, ioerr.NewInvalidInputData(0, fmt.Sprintf("missing required field %q", f.Name))
					}
					f.SetDefault(&v)
				}
			}
			return v, nil
		},
	)
}

func matchFlatVariant[T any](variants []FlatVariant[T], v T) *FlatVariant[T] {
	for i := range variants {
		if variants[i].Matches(v) {
			return &variants[i]
		}
	}
	return nil
}

// drainFlatMap reads every key/value member of the current map item,
// capturing each value's raw item sequence, without interpreting any of
// them against a field schema (the variant, and hence the schema, is
// not yet known).
func drainFlatMap(r *reader.Reader) ([]flatPair, error) {
	var pairs []flatPair
	readOne := func() error {
		key, err := r.ReadAny()
		if err != nil {
			return err
		}
		var value []item.Item
		if err := captureValue(r, &value); err != nil {
			return err
		}
		pairs = append(pairs, flatPair{key: key, value: value})
		return nil
	}
	if r.HasMapHeader() {
		n, err := r.ReadMapHeader()
		if err != nil {
			return nil, err
		}
		for i := int64(0); i < n; i++ {
			if err := readOne(); err != nil {
				return nil, err
			}
		}
		return pairs, nil
	}
	if err := r.ReadMapStart(); err != nil {
		return nil, err
	}
	for !r.HasBreak() {
		if err := readOne(); err != nil {
			return nil, err
		}
	}
	return pairs, r.ReadBreak()
}
