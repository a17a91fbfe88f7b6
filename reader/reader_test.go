package reader

import (
	"math/big"
	"testing"

	"github.com/ionscribe/stream/bio"
	"github.com/ionscribe/stream/cbor"
	"github.com/ionscribe/stream/item"
	"github.com/ionscribe/stream/validate"
	"github.com/stretchr/testify/require"
)

func encodeCBOR(t *testing.T, fn func(w *cbor.Renderer) error) []byte {
	t.Helper()
	out := bio.NewToBytes(64)
	w := cbor.NewRenderer(out, cbor.DefaultConfig())
	require.NoError(t, fn(w))
	return out.Bytes()
}

func newCBORReader(data []byte) *Reader {
	p := cbor.NewParser(bio.NewBytes(data, bio.StrictPad{}), cbor.DefaultConfig())
	return New(p, item.TargetCBOR, validate.New())
}

func TestReaderScalarRoundTrip(t *testing.T) {
	data := encodeCBOR(t, func(w *cbor.Renderer) error { return w.Render(item.Long(42)) })
	r := newCBORReader(data)
	require.True(t, r.HasLong())
	v, err := r.ReadLong()
	require.NoError(t, err)
	require.Equal(t, int64(42), v)
	require.NoError(t, r.End())
}

func TestReaderArrayRoundTrip(t *testing.T) {
	data := encodeCBOR(t, func(w *cbor.Renderer) error {
		if err := w.Render(item.ArrayHeader(2)); err != nil {
			return err
		}
		if err := w.Render(item.Int(1)); err != nil {
			return err
		}
		return w.Render(item.Int(2))
	})
	r := newCBORReader(data)
	n, err := r.ReadArrayHeader()
	require.NoError(t, err)
	require.Equal(t, int64(2), n)
	a, err := r.ReadInt()
	require.NoError(t, err)
	require.Equal(t, int32(1), a)
	b, err := r.ReadInt()
	require.NoError(t, err)
	require.Equal(t, int32(2), b)
	require.NoError(t, r.End())
}

func TestReaderWrongKindReportsExpectedActual(t *testing.T) {
	data := encodeCBOR(t, func(w *cbor.Renderer) error { return w.Render(item.Bool(true)) })
	r := newCBORReader(data)
	_, err := r.ReadLong()
	require.Error(t, err)
}

func TestReaderSkipElementSkipsNestedContainer(t *testing.T) {
	data := encodeCBOR(t, func(w *cbor.Renderer) error {
		if err := w.Render(item.ArrayHeader(2)); err != nil {
			return err
		}
		if err := w.Render(item.ArrayHeader(2)); err != nil {
			return err
		}
		if err := w.Render(item.Int(1)); err != nil {
			return err
		}
		if err := w.Render(item.Int(2)); err != nil {
			return err
		}
		return w.Render(item.Bool(true))
	})
	r := newCBORReader(data)
	n, err := r.ReadArrayHeader()
	require.NoError(t, err)
	require.Equal(t, int64(2), n)
	require.NoError(t, r.SkipElement())
	v, err := r.ReadBool()
	require.NoError(t, err)
	require.True(t, v)
	require.NoError(t, r.End())
}

func TestReaderReadAnyReturnsRawItems(t *testing.T) {
	data := encodeCBOR(t, func(w *cbor.Renderer) error {
		if err := w.Render(item.Tag(2)); err != nil {
			return err
		}
		return w.Render(item.BytesItem([]byte{1, 2}))
	})
	r := newCBORReader(data)
	it, err := r.ReadAny()
	require.NoError(t, err)
	require.Equal(t, item.KindTag, it.Kind)
	it, err = r.ReadAny()
	require.NoError(t, err)
	require.Equal(t, item.KindBytes, it.Kind)
	require.NoError(t, r.End())
}

func TestReaderBigIntegerItemReadsBackAsTag(t *testing.T) {
	huge := new(big.Int).Lsh(big.NewInt(1), 100)
	data := encodeCBOR(t, func(w *cbor.Renderer) error { return w.Render(item.BigInteger(huge)) })
	r := newCBORReader(data)
	require.True(t, r.HasTag())
}

func TestReaderReadRawCapturesWholeContainerSubtree(t *testing.T) {
	data := encodeCBOR(t, func(w *cbor.Renderer) error {
		if err := w.Render(item.ArrayHeader(2)); err != nil {
			return err
		}
		if err := w.Render(item.Int(1)); err != nil {
			return err
		}
		return w.Render(item.Int(2))
	})
	r := newCBORReader(data)
	items, err := r.ReadRaw()
	require.NoError(t, err)
	require.Len(t, items, 3)
	require.Equal(t, item.KindArrayHeader, items[0].Kind)
	require.Equal(t, int32(1), items[1].I32)
	require.Equal(t, int32(2), items[2].I32)
	require.NoError(t, r.End())
}

func TestReaderReadRawCapturesIndefiniteMapIncludingBreak(t *testing.T) {
	data := encodeCBOR(t, func(w *cbor.Renderer) error {
		if err := w.Render(item.MapStart()); err != nil {
			return err
		}
		if err := w.Render(item.StringItem("k")); err != nil {
			return err
		}
		if err := w.Render(item.Int(9)); err != nil {
			return err
		}
		return w.Render(item.BreakItem())
	})
	r := newCBORReader(data)
	items, err := r.ReadRaw()
	require.NoError(t, err)
	require.Len(t, items, 4)
	require.Equal(t, item.KindMapStart, items[0].Kind)
	require.Equal(t, item.KindBreak, items[3].Kind)
	require.NoError(t, r.End())
}

func TestReaderReadRawPassesThroughTag(t *testing.T) {
	data := encodeCBOR(t, func(w *cbor.Renderer) error {
		if err := w.Render(item.Tag(2)); err != nil {
			return err
		}
		return w.Render(item.BytesItem([]byte{1, 2}))
	})
	r := newCBORReader(data)
	items, err := r.ReadRaw()
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, item.KindTag, items[0].Kind)
	require.Equal(t, item.KindBytes, items[1].Kind)
	require.NoError(t, r.End())
}

func TestReaderHasEndOfInputAtCleanEOF(t *testing.T) {
	data := encodeCBOR(t, func(w *cbor.Renderer) error { return w.Render(item.Int(1)) })
	r := newCBORReader(data)
	_, err := r.ReadInt()
	require.NoError(t, err)
	require.True(t, r.HasEndOfInput())
}
