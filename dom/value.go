// Package dom provides a minimal, thin DOM value for callers that want a
// generic tree rather than a typed Codec — explicitly a non-goal of the
// core, kept small on purpose (spec.md §11, SPEC_FULL.md §11).
package dom

import "github.com/ionscribe/stream/item"

// Value is a closed sum type mirroring the neutral item model: every
// numeric width is preserved verbatim in Number rather than collapsed to
// float64, so a DOM round-trip never loses precision the wire format
// itself preserves.
type Value struct {
	Kind Kind

	Bool   bool
	Number item.Item // one of the numeric Kinds (Int/Long/OverLong/BigInteger/Float16/Float/Double/BigDecimal/NumberString)
	Bytes  []byte
	Text   string
	Array  []Value
	Object []Pair
}

// Pair is one member of an Object-kind Value, in wire order.
type Pair struct {
	Key   string
	Value Value
}

// Kind discriminates Value's variants.
type Kind int8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindBytes
	KindText
	KindArray
	KindObject
)

func Null() Value                { return Value{Kind: KindNull} }
func Bool(v bool) Value          { return Value{Kind: KindBool, Bool: v} }
func Number(it item.Item) Value  { return Value{Kind: KindNumber, Number: it} }
func Bytes(v []byte) Value       { return Value{Kind: KindBytes, Bytes: v} }
func Text(v string) Value        { return Value{Kind: KindText, Text: v} }
func Array(v []Value) Value      { return Value{Kind: KindArray, Array: v} }
func Object(v []Pair) Value      { return Value{Kind: KindObject, Object: v} }
