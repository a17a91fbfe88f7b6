package json

import (
	"testing"

	"github.com/ionscribe/stream/bio"
	"github.com/ionscribe/stream/item"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, items ...item.Item) string {
	t.Helper()
	out := bio.NewToBytes(64)
	w := NewRenderer(out, DefaultConfig())
	for _, it := range items {
		require.NoError(t, w.Render(it))
	}
	return string(out.Bytes())
}

func TestRenderScalarKinds(t *testing.T) {
	require.Equal(t, "true", render(t, item.Bool(true)))
	require.Equal(t, "false", render(t, item.Bool(false)))
	require.Equal(t, "null", render(t, item.Null()))
	require.Equal(t, "42", render(t, item.Int(42)))
	require.Equal(t, "-7", render(t, item.Long(-7)))
	require.Equal(t, `"hi"`, render(t, item.TextItem("hi")))
}

func TestContainersAlwaysIndefiniteOnWire(t *testing.T) {
	s := render(t, item.ArrayHeader(2), item.Int(1), item.Int(2), item.BreakItem())
	require.Equal(t, "[1,2]", s)

	s = render(t, item.MapHeader(1), item.StringItem("a"), item.Int(1), item.BreakItem())
	require.Equal(t, `{"a":1}`, s)
}

func TestParseArrayProducesIndefiniteStartAndBreak(t *testing.T) {
	p := NewParser(bio.NewBytes([]byte("[1,2]"), Pad{}), DefaultConfig())
	first, err := p.Pull()
	require.NoError(t, err)
	require.Equal(t, item.KindArrayStart, first.Kind)

	a, err := p.Pull()
	require.NoError(t, err)
	require.Equal(t, item.KindInt, a.Kind)
	require.Equal(t, int32(1), a.I32)

	b, err := p.Pull()
	require.NoError(t, err)
	require.Equal(t, item.KindInt, b.Kind)
	require.Equal(t, int32(2), b.I32)

	brk, err := p.Pull()
	require.NoError(t, err)
	require.Equal(t, item.KindBreak, brk.Kind)
}

func TestParseNumberClassification(t *testing.T) {
	p := NewParser(bio.NewBytes([]byte("1.5"), Pad{}), DefaultConfig())
	it, err := p.Pull()
	require.NoError(t, err)
	require.Equal(t, item.KindDouble, it.Kind)
	require.InDelta(t, 1.5, it.F64, 1e-9)
}

func TestParseOverlongIntegerBecomesNumberStringOrOverLong(t *testing.T) {
	p := NewParser(bio.NewBytes([]byte("99999999999999999999999999999"), Pad{}), DefaultConfig())
	it, err := p.Pull()
	require.NoError(t, err)
	require.True(t, it.Kind == item.KindNumberString || it.Kind == item.KindOverLong)
}

func TestParseHighPrecisionFractionalLiteralBecomesNumberString(t *testing.T) {
	literal := "1.23456789012345678" // 18 significant digits, exceeds doubleLosslessDigits
	p := NewParser(bio.NewBytes([]byte(literal), Pad{}), DefaultConfig())
	it, err := p.Pull()
	require.NoError(t, err)
	require.Equal(t, item.KindNumberString, it.Kind)
	require.Equal(t, literal, it.Raw)
}

func TestParseFractionalLiteralWithinPrecisionBecomesDouble(t *testing.T) {
	p := NewParser(bio.NewBytes([]byte("1.5"), Pad{}), DefaultConfig())
	it, err := p.Pull()
	require.NoError(t, err)
	require.Equal(t, item.KindDouble, it.Kind)
}

func TestParseLeadingZeroFractionDoesNotCountAsSignificant(t *testing.T) {
	p := NewParser(bio.NewBytes([]byte("0.001"), Pad{}), DefaultConfig())
	it, err := p.Pull()
	require.NoError(t, err)
	require.Equal(t, item.KindDouble, it.Kind)
	require.InDelta(t, 0.001, it.F64, 1e-12)
}

func TestParseExponentBeyondMaxAbsExponentOverflows(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxNumberAbsExponent = 10
	p := NewParser(bio.NewBytes([]byte("1e100"), Pad{}), cfg)
	_, err := p.Pull()
	require.Error(t, err)
}

func TestParseExponentWithinMaxAbsExponentSucceeds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxNumberAbsExponent = 10
	p := NewParser(bio.NewBytes([]byte("1e5"), Pad{}), cfg)
	it, err := p.Pull()
	require.NoError(t, err)
	require.Equal(t, item.KindDouble, it.Kind)
}

func TestTrailingWhitespaceRejectedWhenDisallowed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AllowTrailingWhitespace = false
	in := bio.NewBytes([]byte("1 \n"), Pad{})
	p := NewParser(in, cfg)
	_, err := p.Pull()
	require.NoError(t, err)
	_, err = p.Pull()
	require.Error(t, err)
}

func TestTrailingWhitespaceAllowedByDefault(t *testing.T) {
	in := bio.NewBytes([]byte("1 \n"), Pad{})
	p := NewParser(in, DefaultConfig())
	_, err := p.Pull()
	require.NoError(t, err)
	it, err := p.Pull()
	require.NoError(t, err)
	require.Equal(t, item.KindEndOfInput, it.Kind)
}

func TestRenderRejectsNonTextMapKey(t *testing.T) {
	out := bio.NewToBytes(32)
	w := NewRenderer(out, DefaultConfig())
	require.NoError(t, w.Render(item.MapStart()))
	err := w.Render(item.Int(1))
	require.Error(t, err)
}

func TestParseStringEscapes(t *testing.T) {
	p := NewParser(bio.NewBytes([]byte(`"a\nb\"c"`), Pad{}), DefaultConfig())
	it, err := p.Pull()
	require.NoError(t, err)
	require.Equal(t, item.KindText, it.Kind)
	require.Equal(t, "a\nb\"c", it.Text)
}

func TestParseObjectRoundTrip(t *testing.T) {
	p := NewParser(bio.NewBytes([]byte(`{"x":1,"y":2}`), Pad{}), DefaultConfig())
	start, err := p.Pull()
	require.NoError(t, err)
	require.Equal(t, item.KindMapStart, start.Kind)

	key1, err := p.Pull()
	require.NoError(t, err)
	require.Equal(t, "x", key1.Text)

	val1, err := p.Pull()
	require.NoError(t, err)
	require.Equal(t, int32(1), val1.I32)

	key2, err := p.Pull()
	require.NoError(t, err)
	require.Equal(t, "y", key2.Text)

	val2, err := p.Pull()
	require.NoError(t, err)
	require.Equal(t, int32(2), val2.I32)

	brk, err := p.Pull()
	require.NoError(t, err)
	require.Equal(t, item.KindBreak, brk.Kind)
}
