// Package writer implements the typed push façade (spec §4.9), symmetric
// to package reader: typed WriteX operations over a renderer, validated
// by a shared validate.Validator.
package writer

import (
	"math/big"

	"github.com/ionscribe/stream/ioerr"
	"github.com/ionscribe/stream/item"
	"github.com/ionscribe/stream/logging"
	"github.com/ionscribe/stream/validate"
)

// Renderer is satisfied by both cbor.Renderer and json.Renderer.
type Renderer interface {
	Render(it item.Item) error
	Pos() ioerr.Position
}

// Writer is the typed push API over a Renderer.
type Writer struct {
	renderer  Renderer
	validator *validate.Validator
	target    item.Target
	hook      logging.Hook
}

// New wraps a Renderer as a Writer, validating items through v before
// they are rendered.
func New(r Renderer, target item.Target, v *validate.Validator) *Writer {
	return &Writer{renderer: r, validator: v, target: target, hook: logging.NoOp}
}

// Target reports which wire format this Writer is bound to.
func (w *Writer) Target() item.Target { return w.target }

// SetHook installs an observability hook invoked for every item pushed
// and every error encountered; the default is a no-op.
func (w *Writer) SetHook(h logging.Hook) {
	if h == nil {
		h = logging.NoOp
	}
	w.hook = h
}

func (w *Writer) emit(it item.Item) error {
	if err := w.validator.Observe(it, w.renderer.Pos()); err != nil {
		w.hook.OnError(w.target, err)
		return err
	}
	if err := w.renderer.Render(it); err != nil {
		w.hook.OnError(w.target, err)
		return err
	}
	w.hook.OnItem(w.target, it)
	return nil
}

// WriteItem pushes a pre-built item.Item verbatim, validated like any
// typed WriteX call. Used by raw item-stream transcoding, where items
// are pulled from a Reader rather than constructed from typed values.
func (w *Writer) WriteItem(it item.Item) error { return w.emit(it) }

func (w *Writer) WriteNull() error      { return w.emit(item.Null()) }
func (w *Writer) WriteUndefined() error { return w.emit(item.Undefined()) }
func (w *Writer) WriteBool(v bool) error { return w.emit(item.Bool(v)) }

func (w *Writer) WriteInt(v int32) error               { return w.emit(item.Int(v)) }
func (w *Writer) WriteLong(v int64) error               { return w.emit(item.Long(v)) }
func (w *Writer) WriteOverLong(v uint64, neg bool) error { return w.emit(item.OverLong(v, neg)) }
func (w *Writer) WriteBigInteger(v *big.Int) error       { return w.emit(item.BigInteger(v)) }
func (w *Writer) WriteFloat16(v float32) error           { return w.emit(item.Float16(v)) }
func (w *Writer) WriteFloat(v float32) error             { return w.emit(item.Float(v)) }
func (w *Writer) WriteDouble(v float64) error            { return w.emit(item.Double(v)) }
func (w *Writer) WriteBigDecimal(mantissa *big.Int, exponent int32) error {
	return w.emit(item.BigDecimal(mantissa, exponent))
}
func (w *Writer) WriteNumberString(s string) error { return w.emit(item.NumberString(s)) }

func (w *Writer) WriteBytes(v []byte) error { return w.emit(item.BytesItem(v)) }
func (w *Writer) WriteBytesStart() error    { return w.emit(item.BytesStart()) }
func (w *Writer) WriteText(v string) error  { return w.emit(item.TextItem(v)) }
func (w *Writer) WriteString(v string) error { return w.emit(item.StringItem(v)) }
func (w *Writer) WriteTextStart() error     { return w.emit(item.TextStart()) }

func (w *Writer) WriteArrayHeader(n int64) error { return w.emit(item.ArrayHeader(n)) }
func (w *Writer) WriteArrayStart() error         { return w.emit(item.ArrayStart()) }
func (w *Writer) WriteMapHeader(n int64) error   { return w.emit(item.MapHeader(n)) }
func (w *Writer) WriteMapStart() error           { return w.emit(item.MapStart()) }
func (w *Writer) WriteBreak() error              { return w.emit(item.BreakItem()) }

func (w *Writer) WriteTag(code uint64) error        { return w.emit(item.Tag(code)) }
func (w *Writer) WriteSimpleValue(v byte) error     { return w.emit(item.Simple(v)) }

// WriteArrayOpen opens an array, choosing a definite ArrayHeader(n) under
// CBOR (denser on the wire) and an indefinite ArrayStart under JSON
// (which has no length prefix), so codecs never branch on target.
func (w *Writer) WriteArrayOpen(n int64) error {
	if w.target == item.TargetJSON {
		return w.WriteArrayStart()
	}
	return w.WriteArrayHeader(n)
}

// WriteArrayClose closes an array opened with WriteArrayOpen: a Break
// under JSON, nothing under CBOR (the definite header already declared
// its arity; the renderer auto-closed the frame once it was written).
func (w *Writer) WriteArrayClose() error {
	if w.target == item.TargetJSON {
		return w.WriteBreak()
	}
	return nil
}

// WriteMapOpen/WriteMapClose are the map-shaped counterparts of
// WriteArrayOpen/WriteArrayClose. n is the pair count.
func (w *Writer) WriteMapOpen(n int64) error {
	if w.target == item.TargetJSON {
		return w.WriteMapStart()
	}
	return w.WriteMapHeader(n)
}

func (w *Writer) WriteMapClose() error {
	if w.target == item.TargetJSON {
		return w.WriteBreak()
	}
	return nil
}

// End checks that the document is well-formed at the point the caller
// considers encoding finished (no open containers, no dangling tag).
func (w *Writer) End() error {
	return w.validator.End(w.renderer.Pos())
}
