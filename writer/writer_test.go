package writer

import (
	"testing"

	"github.com/ionscribe/stream/bio"
	"github.com/ionscribe/stream/cbor"
	"github.com/ionscribe/stream/item"
	"github.com/ionscribe/stream/validate"
	"github.com/stretchr/testify/require"
)

func newCBORWriter() (*Writer, *bio.ToBytes) {
	out := bio.NewToBytes(64)
	r := cbor.NewRenderer(out, cbor.DefaultConfig())
	return New(r, item.TargetCBOR, validate.New()), out
}

func decodeCBOR(t *testing.T, data []byte) []item.Item {
	t.Helper()
	p := cbor.NewParser(bio.NewBytes(data, bio.StrictPad{}), cbor.DefaultConfig())
	var items []item.Item
	for {
		it, err := p.Pull()
		require.NoError(t, err)
		items = append(items, it)
		if it.Kind == item.KindLong || it.Kind == item.KindInt || it.Kind == item.KindBool {
			break
		}
	}
	return items
}

func TestWriterWriteScalar(t *testing.T) {
	w, out := newCBORWriter()
	require.NoError(t, w.WriteLong(7))
	require.NoError(t, w.End())
	items := decodeCBOR(t, out.Bytes())
	require.Len(t, items, 1)
	require.Equal(t, int64(7), items[0].I64)
}

func TestWriterArrayOpenCloseChoosesHeaderUnderCBOR(t *testing.T) {
	w, out := newCBORWriter()
	require.NoError(t, w.WriteArrayOpen(2))
	require.NoError(t, w.WriteInt(1))
	require.NoError(t, w.WriteInt(2))
	require.NoError(t, w.WriteArrayClose())
	require.NoError(t, w.End())

	p := cbor.NewParser(bio.NewBytes(out.Bytes(), bio.StrictPad{}), cbor.DefaultConfig())
	first, err := p.Pull()
	require.NoError(t, err)
	require.Equal(t, item.KindArrayHeader, first.Kind)
	require.Equal(t, int64(2), first.Len)
}

func TestWriterEndFailsOnUnclosedContainer(t *testing.T) {
	w, _ := newCBORWriter()
	require.NoError(t, w.WriteArrayStart())
	require.NoError(t, w.WriteInt(1))
	require.Error(t, w.End())
}

func TestWriterEndFailsOnDanglingTag(t *testing.T) {
	w, _ := newCBORWriter()
	require.NoError(t, w.WriteTag(2))
	require.Error(t, w.End())
}

func TestWriterHookObservesItemsAndErrors(t *testing.T) {
	w, _ := newCBORWriter()
	var pushed []item.Kind
	var errs int
	w.SetHook(hookFunc{
		onItem:  func(target item.Target, it item.Item) { pushed = append(pushed, it.Kind) },
		onError: func(target item.Target, err error) { errs++ },
	})
	require.NoError(t, w.WriteInt(1))
	require.Error(t, w.WriteBreak()) // no open container
	require.Equal(t, []item.Kind{item.KindInt}, pushed)
	require.Equal(t, 1, errs)
}

type hookFunc struct {
	onItem  func(item.Target, item.Item)
	onError func(item.Target, error)
}

func (h hookFunc) OnItem(target item.Target, it item.Item)  { h.onItem(target, it) }
func (h hookFunc) OnError(target item.Target, err error)    { h.onError(target, err) }
