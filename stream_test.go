package stream

import (
	"bytes"
	"testing"

	"github.com/ionscribe/stream/codec"
	"github.com/ionscribe/stream/dom"
	"github.com/ionscribe/stream/item"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTripBothFormats(t *testing.T) {
	opts := DefaultOptions()
	data, err := Encode(CBOR, codec.String, "hello", opts)
	require.NoError(t, err)
	got, err := Decode(CBOR, codec.String, data, opts)
	require.NoError(t, err)
	require.Equal(t, "hello", got)

	data, err = Encode(JSON, codec.String, "hello", opts)
	require.NoError(t, err)
	require.Equal(t, `"hello"`, string(data))
	got, err = Decode(JSON, codec.String, data, opts)
	require.NoError(t, err)
	require.Equal(t, "hello", got)
}

func TestEncodeDecodeStreamVariants(t *testing.T) {
	opts := DefaultOptions()
	var buf bytes.Buffer
	w := NewStreamWriter(JSON, &buf, opts)
	require.NoError(t, codec.Int[int32]().Encode(w, 99))
	require.NoError(t, w.End())
	require.Equal(t, "99", buf.String())

	r := NewStreamReader(JSON, bytes.NewReader(buf.Bytes()), opts)
	v, err := codec.Int[int32]().Decode(r)
	require.NoError(t, err)
	require.Equal(t, int32(99), v)
}

func TestTranscodeRawCBORToJSON(t *testing.T) {
	opts := DefaultOptions()
	cborData, err := Encode(CBOR, dom.Codec, dom.Object([]dom.Pair{
		{Key: "a", Value: dom.Number(item.Int(1))},
		{Key: "b", Value: dom.Text("x")},
	}), opts)
	require.NoError(t, err)

	jsonData, err := TranscodeRaw(CBOR, JSON, cborData, opts)
	require.NoError(t, err)
	require.Equal(t, `{"a":1,"b":"x"}`, string(jsonData))

	got, err := Decode(JSON, dom.Codec, jsonData, opts)
	require.NoError(t, err)
	require.Equal(t, dom.KindObject, got.Kind)
	require.Equal(t, "a", got.Object[0].Key)
}

func TestTranscodeTypedConversion(t *testing.T) {
	opts := DefaultOptions()
	data, err := Encode(CBOR, codec.Int[int32](), 7, opts)
	require.NoError(t, err)

	out, err := Transcode(CBOR, JSON, codec.Int[int32](), codec.String, func(v int32) string {
		if v == 7 {
			return "seven"
		}
		return "other"
	}, data, opts)
	require.NoError(t, err)
	require.Equal(t, `"seven"`, string(out))
}

func TestDisableValidatorOption(t *testing.T) {
	opts := DefaultOptions()
	opts.DisableValidator = true
	data, err := Encode(CBOR, codec.Bool, true, opts)
	require.NoError(t, err)
	got, err := Decode(CBOR, codec.Bool, data, opts)
	require.NoError(t, err)
	require.True(t, got)
}
