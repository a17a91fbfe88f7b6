package dom

import (
	"testing"

	"github.com/ionscribe/stream/bio"
	"github.com/ionscribe/stream/cbor"
	"github.com/ionscribe/stream/item"
	"github.com/ionscribe/stream/json"
	"github.com/ionscribe/stream/reader"
	"github.com/ionscribe/stream/validate"
	"github.com/ionscribe/stream/writer"
	"github.com/stretchr/testify/require"
)

func roundTripCBOR(t *testing.T, v Value) Value {
	t.Helper()
	out := bio.NewToBytes(64)
	w := writer.New(cbor.NewRenderer(out, cbor.DefaultConfig()), item.TargetCBOR, validate.New())
	require.NoError(t, Codec.Encode(w, v))
	require.NoError(t, w.End())

	r := reader.New(cbor.NewParser(bio.NewBytes(out.Bytes(), bio.StrictPad{}), cbor.DefaultConfig()), item.TargetCBOR, validate.New())
	got, err := Codec.Decode(r)
	require.NoError(t, err)
	require.NoError(t, r.End())
	return got
}

func roundTripJSON(t *testing.T, v Value) Value {
	t.Helper()
	out := bio.NewToBytes(64)
	w := writer.New(json.NewRenderer(out, json.DefaultConfig()), item.TargetJSON, validate.New())
	require.NoError(t, Codec.Encode(w, v))
	require.NoError(t, w.End())

	r := reader.New(json.NewParser(bio.NewBytes(out.Bytes(), json.Pad{}), json.DefaultConfig()), item.TargetJSON, validate.New())
	got, err := Codec.Decode(r)
	require.NoError(t, err)
	require.NoError(t, r.End())
	return got
}

func TestDOMScalarsRoundTrip(t *testing.T) {
	for _, v := range []Value{Null(), Bool(true), Bool(false), Text("hi"), Bytes([]byte{1, 2, 3})} {
		require.Equal(t, v, roundTripCBOR(t, v))
	}
	for _, v := range []Value{Null(), Bool(true), Text("hi"), Bytes([]byte{1, 2, 3})} {
		require.Equal(t, v, roundTripJSON(t, v))
	}
}

func TestDOMNumberPreservesWidth(t *testing.T) {
	v := Number(item.Int(42))
	got := roundTripCBOR(t, v)
	require.Equal(t, item.KindInt, got.Number.Kind)
	require.Equal(t, int32(42), got.Number.I32)
}

func TestDOMArrayRoundTrip(t *testing.T) {
	v := Array([]Value{Number(item.Int(1)), Text("a"), Bool(true)})
	got := roundTripCBOR(t, v)
	require.Equal(t, KindArray, got.Kind)
	require.Len(t, got.Array, 3)
	require.Equal(t, "a", got.Array[1].Text)

	got = roundTripJSON(t, v)
	require.Len(t, got.Array, 3)
}

func TestDOMObjectRoundTrip(t *testing.T) {
	v := Object([]Pair{{Key: "a", Value: Number(item.Int(1))}, {Key: "b", Value: Text("x")}})
	got := roundTripJSON(t, v)
	require.Equal(t, KindObject, got.Kind)
	require.Len(t, got.Object, 2)
	require.Equal(t, "a", got.Object[0].Key)
	require.Equal(t, "b", got.Object[1].Key)
}

func TestDOMNestedArrayOfObjects(t *testing.T) {
	v := Array([]Value{
		Object([]Pair{{Key: "x", Value: Number(item.Int(1))}}),
		Object([]Pair{{Key: "x", Value: Number(item.Int(2))}}),
	})
	got := roundTripCBOR(t, v)
	require.Len(t, got.Array, 2)
	require.Equal(t, int32(1), got.Array[0].Object[0].Value.Number.I32)
	require.Equal(t, int32(2), got.Array[1].Object[0].Value.Number.I32)
}
