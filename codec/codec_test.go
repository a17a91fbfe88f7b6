package codec

import (
	"math/big"
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

// roundTripCBOR and roundTripJSON exercise a Codec[T] through both wire
// formats, the way every encoder/decoder pair in this package is expected
// to behave identically regardless of target.

func roundTripCBOR[T any](t *testing.T, c Codec[T], v T) T {
	t.Helper()
	out := bio.NewToBytes(64)
	w := writer.New(cbor.NewRenderer(out, cbor.DefaultConfig()), item.TargetCBOR, validate.New())
	require.NoError(t, c.Encode(w, v))
	require.NoError(t, w.End())

	r := reader.New(cbor.NewParser(bio.NewBytes(out.Bytes(), bio.StrictPad{}), cbor.DefaultConfig()), item.TargetCBOR, validate.New())
	got, err := c.Decode(r)
	require.NoError(t, err)
	require.NoError(t, r.End())
	return got
}

func roundTripJSON[T any](t *testing.T, c Codec[T], v T) T {
	t.Helper()
	out := bio.NewToBytes(64)
	w := writer.New(json.NewRenderer(out, json.DefaultConfig()), item.TargetJSON, validate.New())
	require.NoError(t, c.Encode(w, v))
	require.NoError(t, w.End())

	r := reader.New(json.NewParser(bio.NewBytes(out.Bytes(), json.Pad{}), json.DefaultConfig()), item.TargetJSON, validate.New())
	got, err := c.Decode(r)
	require.NoError(t, err)
	require.NoError(t, r.End())
	return got
}

func TestBoolCodecRoundTrip(t *testing.T) {
	require.Equal(t, true, roundTripCBOR(t, Bool, true))
	require.Equal(t, true, roundTripJSON(t, Bool, true))
}

func TestStringCodecRoundTrip(t *testing.T) {
	require.Equal(t, "hello", roundTripCBOR(t, String, "hello"))
	require.Equal(t, "hello", roundTripJSON(t, String, "hello"))
}

func TestIntCodecOverflowRejected(t *testing.T) {
	c := Int[int8]()
	out := bio.NewToBytes(16)
	w := writer.New(cbor.NewRenderer(out, cbor.DefaultConfig()), item.TargetCBOR, validate.New())
	require.NoError(t, w.WriteLong(1000))
	require.NoError(t, w.End())

	r := reader.New(cbor.NewParser(bio.NewBytes(out.Bytes(), bio.StrictPad{}), cbor.DefaultConfig()), item.TargetCBOR, validate.New())
	_, err := c.Decode(r)
	require.Error(t, err)
}

func TestUintCodecRoundTrip(t *testing.T) {
	c := Uint[uint16]()
	require.Equal(t, uint16(4000), roundTripCBOR(t, c, uint16(4000)))
	require.Equal(t, uint16(4000), roundTripJSON(t, c, uint16(4000)))
}

func TestFloatCodecRoundTrip(t *testing.T) {
	c := Float[float32]()
	require.InDelta(t, float32(3.5), roundTripCBOR(t, c, float32(3.5)), 1e-6)
	require.InDelta(t, float32(3.5), roundTripJSON(t, c, float32(3.5)), 1e-6)
}

func TestBigIntCodecRoundTrip(t *testing.T) {
	v := new(big.Int).Lsh(big.NewInt(1), 100)
	got := roundTripCBOR(t, BigInt, v)
	require.Equal(t, 0, v.Cmp(got))

	got = roundTripJSON(t, BigInt, v)
	require.Equal(t, 0, v.Cmp(got))
}

func TestBigIntCodecNegativeRoundTrip(t *testing.T) {
	v := new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 80))
	got := roundTripCBOR(t, BigInt, v)
	require.Equal(t, 0, v.Cmp(got))
}

func TestBigDecimalCodecRoundTrip(t *testing.T) {
	v := BigDecimalValue{Mantissa: big.NewInt(12345), Exponent: -3}
	got := roundTripCBOR(t, BigDecimal, v)
	require.Equal(t, 0, v.Mantissa.Cmp(got.Mantissa))
	require.Equal(t, v.Exponent, got.Exponent)

	got = roundTripJSON(t, BigDecimal, v)
	require.Equal(t, 0, v.Mantissa.Cmp(got.Mantissa))
	require.Equal(t, v.Exponent, got.Exponent)
}

func TestBytesCodecUsesBase64UnderJSON(t *testing.T) {
	data := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	got := roundTripCBOR(t, Bytes, data)
	require.Equal(t, data, got)

	got = roundTripJSON(t, Bytes, data)
	require.Equal(t, data, got)
}

func TestBytesWithEncodingCrockford(t *testing.T) {
	c := BytesWithEncoding(Base32Crockford)
	data := []byte{1, 2, 3, 4, 5}
	got := roundTripJSON(t, c, data)
	require.Equal(t, data, got)
}

func TestOptionCodecNilAndPresent(t *testing.T) {
	c := Option(String)
	require.Nil(t, roundTripCBOR(t, c, (*string)(nil)))
	s := "x"
	got := roundTripCBOR(t, c, &s)
	require.NotNil(t, got)
	require.Equal(t, "x", *got)

	require.Nil(t, roundTripJSON(t, c, (*string)(nil)))
	got = roundTripJSON(t, c, &s)
	require.Equal(t, "x", *got)
}

func TestSliceCodecRoundTrip(t *testing.T) {
	c := Slice(Int[int32]())
	v := []int32{1, 2, 3}
	require.Equal(t, v, roundTripCBOR(t, c, v))
	require.Equal(t, v, roundTripJSON(t, c, v))
}

func TestMapCodecRoundTrip(t *testing.T) {
	c := Map(String, Int[int32]())
	v := map[string]int32{"a": 1, "b": 2}
	require.Equal(t, v, roundTripCBOR(t, c, v))
	require.Equal(t, v, roundTripJSON(t, c, v))
}

func TestMapCodecRejectsNonTextKeyUnderJSON(t *testing.T) {
	c := Map(Int[int32](), String)
	v := map[int32]string{1: "a"}

	out := bio.NewToBytes(64)
	w := writer.New(json.NewRenderer(out, json.DefaultConfig()), item.TargetJSON, validate.New())
	err := c.Encode(w, v)
	require.Error(t, err)
}

func TestTuple2CodecRoundTrip(t *testing.T) {
	c := Tuple2(String, Int[int32]())
	type pair = struct {
		A string
		B int32
	}
	v := pair{A: "x", B: 9}
	require.Equal(t, v, roundTripCBOR(t, c, v))
	require.Equal(t, v, roundTripJSON(t, c, v))
}

func TestEitherCodecRoundTrip(t *testing.T) {
	c := EitherCodec(String, Int[int32]())
	left := Either[string, int32]{IsLeft: true, Left: "l"}
	got := roundTripCBOR(t, c, left)
	require.True(t, got.IsLeft)
	require.Equal(t, "l", got.Left)

	right := Either[string, int32]{IsLeft: false, Right: 5}
	got = roundTripJSON(t, c, right)
	require.False(t, got.IsLeft)
	require.Equal(t, int32(5), got.Right)
}

func TestEitherIndexedKeyStyle(t *testing.T) {
	c := EitherWithKeyStyle(String, Int[int32](), EitherKeyIndexed)
	left := Either[string, int32]{IsLeft: true, Left: "l"}
	got := roundTripJSON(t, c, left)
	require.True(t, got.IsLeft)
	require.Equal(t, "l", got.Left)
}

type point struct {
	X int32
	Y int32
}

func pointArrayCodec() Codec[point] {
	return ArrayAggregate([]Field[point]{
		{Name: "x", Encode: func(w *writer.Writer, v point) error { return w.WriteInt(v.X) },
			Decode: func(r *reader.Reader, v *point) error { n, err := r.ReadInt(); v.X = n; return err }},
		{Name: "y", Encode: func(w *writer.Writer, v point) error { return w.WriteInt(v.Y) },
			Decode: func(r *reader.Reader, v *point) error { n, err := r.ReadInt(); v.Y = n; return err }},
	})
}

func TestArrayAggregateRoundTrip(t *testing.T) {
	c := pointArrayCodec()
	v := point{X: 1, Y: 2}
	require.Equal(t, v, roundTripCBOR(t, c, v))
	require.Equal(t, v, roundTripJSON(t, c, v))
}

func TestArrayAggregateArityMismatch(t *testing.T) {
	c := pointArrayCodec()
	out := bio.NewToBytes(16)
	w := writer.New(cbor.NewRenderer(out, cbor.DefaultConfig()), item.TargetCBOR, validate.New())
	require.NoError(t, w.WriteArrayOpen(1))
	require.NoError(t, w.WriteInt(1))
	require.NoError(t, w.WriteArrayClose())
	require.NoError(t, w.End())

	r := reader.New(cbor.NewParser(bio.NewBytes(out.Bytes(), bio.StrictPad{}), cbor.DefaultConfig()), item.TargetCBOR, validate.New())
	_, err := c.Decode(r)
	require.Error(t, err)
}

type namedPoint struct {
	X int32
	Y int32
}

func namedPointFields() []Field[namedPoint] {
	return []Field[namedPoint]{
		{Name: "x", Encode: func(w *writer.Writer, v namedPoint) error { return w.WriteInt(v.X) },
			Decode: func(r *reader.Reader, v *namedPoint) error { n, err := r.ReadInt(); v.X = n; return err }},
		{Name: "y", Encode: func(w *writer.Writer, v namedPoint) error { return w.WriteInt(v.Y) },
			Decode: func(r *reader.Reader, v *namedPoint) error { n, err := r.ReadInt(); v.Y = n; return err },
			HasDefault: true, SetDefault: func(v *namedPoint) { v.Y = -1 }},
	}
}

func TestMapAggregateFieldOrderIndependence(t *testing.T) {
	c := MapAggregate(namedPointFields())
	out := bio.NewToBytes(32)
	w := writer.New(json.NewRenderer(out, json.DefaultConfig()), item.TargetJSON, validate.New())
	require.NoError(t, w.WriteMapOpen(2))
	require.NoError(t, w.WriteString("y"))
	require.NoError(t, w.WriteInt(7))
	require.NoError(t, w.WriteString("x"))
	require.NoError(t, w.WriteInt(3))
	require.NoError(t, w.WriteMapClose())
	require.NoError(t, w.End())

	r := reader.New(json.NewParser(bio.NewBytes(out.Bytes(), json.Pad{}), json.DefaultConfig()), item.TargetJSON, validate.New())
	got, err := c.Decode(r)
	require.NoError(t, err)
	require.Equal(t, namedPoint{X: 3, Y: 7}, got)
}

func TestMapAggregateMissingOptionalFieldUsesDefault(t *testing.T) {
	c := MapAggregate(namedPointFields())
	out := bio.NewToBytes(32)
	w := writer.New(json.NewRenderer(out, json.DefaultConfig()), item.TargetJSON, validate.New())
	require.NoError(t, w.WriteMapOpen(1))
	require.NoError(t, w.WriteString("x"))
	require.NoError(t, w.WriteInt(3))
	require.NoError(t, w.WriteMapClose())
	require.NoError(t, w.End())

	r := reader.New(json.NewParser(bio.NewBytes(out.Bytes(), json.Pad{}), json.DefaultConfig()), item.TargetJSON, validate.New())
	got, err := c.Decode(r)
	require.NoError(t, err)
	require.Equal(t, namedPoint{X: 3, Y: -1}, got)
}

func TestMapAggregateDuplicateKeyRejected(t *testing.T) {
	c := MapAggregate(namedPointFields())
	out := bio.NewToBytes(32)
	w := writer.New(json.NewRenderer(out, json.DefaultConfig()), item.TargetJSON, validate.New())
	require.NoError(t, w.WriteMapOpen(2))
	require.NoError(t, w.WriteString("x"))
	require.NoError(t, w.WriteInt(1))
	require.NoError(t, w.WriteString("x"))
	require.NoError(t, w.WriteInt(2))
	require.NoError(t, w.WriteMapClose())
	require.NoError(t, w.End())

	r := reader.New(json.NewParser(bio.NewBytes(out.Bytes(), json.Pad{}), json.DefaultConfig()), item.TargetJSON, validate.New())
	_, err := c.Decode(r)
	require.Error(t, err)
}

func TestMapAggregateExtraKeySkipped(t *testing.T) {
	c := MapAggregate(namedPointFields())
	out := bio.NewToBytes(32)
	w := writer.New(json.NewRenderer(out, json.DefaultConfig()), item.TargetJSON, validate.New())
	require.NoError(t, w.WriteMapOpen(3))
	require.NoError(t, w.WriteString("x"))
	require.NoError(t, w.WriteInt(1))
	require.NoError(t, w.WriteString("z"))
	require.NoError(t, w.WriteBool(true))
	require.NoError(t, w.WriteString("y"))
	require.NoError(t, w.WriteInt(2))
	require.NoError(t, w.WriteMapClose())
	require.NoError(t, w.End())

	r := reader.New(json.NewParser(bio.NewBytes(out.Bytes(), json.Pad{}), json.DefaultConfig()), item.TargetJSON, validate.New())
	got, err := c.Decode(r)
	require.NoError(t, err)
	require.Equal(t, namedPoint{X: 1, Y: 2}, got)
}

func TestCompactAggregateUnaryCollapsesToArray(t *testing.T) {
	type wrapper struct{ V int32 }
	c := CompactAggregate([]Field[wrapper]{
		{Name: "v", Encode: func(w *writer.Writer, v wrapper) error { return w.WriteInt(v.V) },
			Decode: func(r *reader.Reader, v *wrapper) error { n, err := r.ReadInt(); v.V = n; return err }},
	})
	v := wrapper{V: 5}
	got := roundTripCBOR(t, c, v)
	require.Equal(t, v, got)
}

type shape struct {
	isCircle bool
	radius   int32
	width    int32
	height   int32
}

func shapeWrappedCodec() Codec[shape] {
	circle := ArrayAggregate([]Field[shape]{
		{Name: "radius", Encode: func(w *writer.Writer, v shape) error { return w.WriteInt(v.radius) },
			Decode: func(r *reader.Reader, v *shape) error { n, err := r.ReadInt(); v.radius = n; v.isCircle = true; return err }},
	})
	rect := ArrayAggregate([]Field[shape]{
		{Name: "width", Encode: func(w *writer.Writer, v shape) error { return w.WriteInt(v.width) },
			Decode: func(r *reader.Reader, v *shape) error { n, err := r.ReadInt(); v.width = n; return err }},
		{Name: "height", Encode: func(w *writer.Writer, v shape) error { return w.WriteInt(v.height) },
			Decode: func(r *reader.Reader, v *shape) error { n, err := r.ReadInt(); v.height = n; return err }},
	})
	return WrappedSum([]Variant[shape]{
		{TypeID: "Circle", Matches: func(v shape) bool { return v.isCircle }, Payload: circle},
		{TypeID: "Rectangle", Matches: func(v shape) bool { return !v.isCircle }, Payload: rect},
	})
}

func TestWrappedSumRoundTrip(t *testing.T) {
	c := shapeWrappedCodec()
	circle := shape{isCircle: true, radius: 3}
	got := roundTripJSON(t, c, circle)
	require.True(t, got.isCircle)
	require.Equal(t, int32(3), got.radius)

	rect := shape{isCircle: false, width: 4, height: 5}
	got = roundTripCBOR(t, c, rect)
	require.False(t, got.isCircle)
	require.Equal(t, int32(4), got.width)
	require.Equal(t, int32(5), got.height)
}

func shapeFlatCodec() Codec[shape] {
	return FlatSum([]FlatVariant[shape]{
		{TypeID: "Circle", Matches: func(v shape) bool { return v.isCircle }, Fields: []Field[shape]{
			{Name: "radius", Encode: func(w *writer.Writer, v shape) error { return w.WriteInt(v.radius) },
				Decode: func(r *reader.Reader, v *shape) error { n, err := r.ReadInt(); v.radius = n; v.isCircle = true; return err }},
		}},
		{TypeID: "Rectangle", Matches: func(v shape) bool { return !v.isCircle }, Fields: []Field[shape]{
			{Name: "width", Encode: func(w *writer.Writer, v shape) error { return w.WriteInt(v.width) },
				Decode: func(r *reader.Reader, v *shape) error { n, err := r.ReadInt(); v.width = n; return err }},
			{Name: "height", Encode: func(w *writer.Writer, v shape) error { return w.WriteInt(v.height) },
				Decode: func(r *reader.Reader, v *shape) error { n, err := r.ReadInt(); v.height = n; return err }},
		}},
	})
}

func TestFlatSumRoundTrip(t *testing.T) {
	c := shapeFlatCodec()
	rect := shape{isCircle: false, width: 4, height: 5}
	got := roundTripJSON(t, c, rect)
	require.False(t, got.isCircle)
	require.Equal(t, int32(4), got.width)
	require.Equal(t, int32(5), got.height)
}

func TestFlatSumTypeIDAfterFields(t *testing.T) {
	c := shapeFlatCodec()
	out := bio.NewToBytes(32)
	w := writer.New(json.NewRenderer(out, json.DefaultConfig()), item.TargetJSON, validate.New())
	require.NoError(t, w.WriteMapOpen(2))
	require.NoError(t, w.WriteString("radius"))
	require.NoError(t, w.WriteInt(9))
	require.NoError(t, w.WriteString("_type"))
	require.NoError(t, w.WriteString("Circle"))
	require.NoError(t, w.WriteMapClose())
	require.NoError(t, w.End())

	r := reader.New(json.NewParser(bio.NewBytes(out.Bytes(), json.Pad{}), json.DefaultConfig()), item.TargetJSON, validate.New())
	got, err := c.Decode(r)
	require.NoError(t, err)
	require.True(t, got.isCircle)
	require.Equal(t, int32(9), got.radius)
}

func TestFlatSumMissingTypeIDErrors(t *testing.T) {
	c := shapeFlatCodec()
	out := bio.NewToBytes(16)
	w := writer.New(json.NewRenderer(out, json.DefaultConfig()), item.TargetJSON, validate.New())
	require.NoError(t, w.WriteMapOpen(0))
	require.NoError(t, w.WriteMapClose())
	require.NoError(t, w.End())

	r := reader.New(json.NewParser(bio.NewBytes(out.Bytes(), json.Pad{}), json.DefaultConfig()), item.TargetJSON, validate.New())
	_, err := c.Decode(r)
	require.Error(t, err)
	require.Contains(t, err.Error(), "_type")
}
