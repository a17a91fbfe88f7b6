// Package reader implements the typed pull façade (spec §4.8): one item of
// look-ahead over a parser, validated by a shared validate.Validator,
// generalized from the teacher's CBOR-only PeekState/ReadX pairs to the
// full item set and to either backing format.
package reader

import (
	"errors"
	"math/big"

	"github.com/ionscribe/stream/ioerr"
	"github.com/ionscribe/stream/item"
	"github.com/ionscribe/stream/logging"
	"github.com/ionscribe/stream/validate"
)

// Parser is satisfied by both cbor.Parser and json.Parser.
type Parser interface {
	Pull() (item.Item, error)
	Pos() ioerr.Position
}

// Reader buffers exactly one item.Item ahead of the caller.
type Reader struct {
	parser    Parser
	validator *validate.Validator
	target    item.Target

	primed bool
	cur    item.Item
	curErr error

	hook logging.Hook
}

// New wraps a Parser as a Reader, validating items through v as they are
// pulled. Pass validate.New() with Disable() called for the trusted-input
// fast path.
func New(p Parser, target item.Target, v *validate.Validator) *Reader {
	return &Reader{parser: p, validator: v, target: target, hook: logging.NoOp}
}

// Target reports which wire format this Reader is bound to.
func (r *Reader) Target() item.Target { return r.target }

// SetHook installs an observability hook invoked for every item pulled
// and every error encountered; the default is a no-op.
func (r *Reader) SetHook(h logging.Hook) {
	if h == nil {
		h = logging.NoOp
	}
	r.hook = h
}

// Kind reports the buffered item's discriminator, priming if needed. A
// priming error is swallowed here (it surfaces from the next ReadX call);
// callers that need the error should call a ReadX/Current method instead.
func (r *Reader) Kind() item.Kind {
	_ = r.ensurePrimed()
	return r.cur.Kind
}

// Current returns the buffered item without consuming it.
func (r *Reader) Current() (item.Item, error) {
	if err := r.ensurePrimed(); err != nil {
		return item.EndOfInput(), err
	}
	return r.cur, nil
}

func (r *Reader) ensurePrimed() error {
	if r.primed {
		return r.curErr
	}
	r.pull()
	r.primed = true
	return r.curErr
}

// pull fetches the next item from the parser, folding a clean top-level
// end of input (CBOR's StrictPad always raises UnexpectedEndOfInput on
// exhaustion, since it cannot tell "the document just ended" from "a
// primitive was truncated") into item.EndOfInput with no error once the
// validator confirms no container is left open.
func (r *Reader) pull() {
	it, err := r.parser.Pull()
	if err != nil {
		if errors.Is(err, ioerr.UnexpectedEndOfInput) && r.validator.Depth() == 0 {
			r.cur, r.curErr = item.EndOfInput(), nil
			return
		}
		r.hook.OnError(r.target, err)
		r.cur, r.curErr = item.EndOfInput(), err
		return
	}
	if verr := r.validator.Observe(it, r.parser.Pos()); verr != nil {
		r.hook.OnError(r.target, verr)
		r.cur, r.curErr = it, verr
		return
	}
	r.hook.OnItem(r.target, it)
	r.cur, r.curErr = it, nil
}

func (r *Reader) advance() { r.primed = false }

func (r *Reader) is(k item.Kind) bool {
	if err := r.ensurePrimed(); err != nil {
		return false
	}
	return r.cur.Kind == k
}

func (r *Reader) expect(k item.Kind) error {
	if err := r.ensurePrimed(); err != nil {
		return err
	}
	if r.cur.Kind != k {
		return ioerr.NewUnexpectedDataItem(r.parser.Pos(), k, r.cur.Kind)
	}
	return nil
}

// HasEndOfInput reports whether the stream is exhausted at the current
// position (no more top-level items).
func (r *Reader) HasEndOfInput() bool { return r.is(item.KindEndOfInput) }

// --- Null / Undefined / Bool ---

func (r *Reader) HasNull() bool { return r.is(item.KindNull) }
func (r *Reader) ReadNull() error {
	if err := r.expect(item.KindNull); err != nil {
		return err
	}
	r.advance()
	return nil
}

func (r *Reader) HasUndefined() bool { return r.is(item.KindUndefinedValue) }
func (r *Reader) ReadUndefined() error {
	if err := r.expect(item.KindUndefinedValue); err != nil {
		return err
	}
	r.advance()
	return nil
}

func (r *Reader) HasBool() bool { return r.is(item.KindBool) }
func (r *Reader) ReadBool() (bool, error) {
	if err := r.expect(item.KindBool); err != nil {
		return false, err
	}
	v := r.cur.Bool
	r.advance()
	return v, nil
}
func (r *Reader) TryReadBool() (bool, bool) {
	if !r.HasBool() {
		return false, false
	}
	v, _ := r.ReadBool()
	return v, true
}

// --- Numerics ---

func (r *Reader) HasInt() bool { return r.is(item.KindInt) }
func (r *Reader) ReadInt() (int32, error) {
	if err := r.expect(item.KindInt); err != nil {
		return 0, err
	}
	v := r.cur.I32
	r.advance()
	return v, nil
}

func (r *Reader) HasLong() bool { return r.is(item.KindLong) }
func (r *Reader) ReadLong() (int64, error) {
	if err := r.expect(item.KindLong); err != nil {
		return 0, err
	}
	v := r.cur.I64
	r.advance()
	return v, nil
}

func (r *Reader) HasOverLong() bool { return r.is(item.KindOverLong) }
func (r *Reader) ReadOverLong() (v uint64, neg bool, err error) {
	if err := r.expect(item.KindOverLong); err != nil {
		return 0, false, err
	}
	v, neg = r.cur.U64, r.cur.Neg
	r.advance()
	return v, neg, nil
}

func (r *Reader) HasBigInteger() bool { return r.is(item.KindBigInteger) }
func (r *Reader) ReadBigInteger() (*big.Int, error) {
	if err := r.expect(item.KindBigInteger); err != nil {
		return nil, err
	}
	v := r.cur.Big
	r.advance()
	return v, nil
}

func (r *Reader) HasFloat16() bool { return r.is(item.KindFloat16) }
func (r *Reader) ReadFloat16() (float32, error) {
	if err := r.expect(item.KindFloat16); err != nil {
		return 0, err
	}
	v := r.cur.F16
	r.advance()
	return v, nil
}

func (r *Reader) HasFloat() bool { return r.is(item.KindFloat) }
func (r *Reader) ReadFloat() (float32, error) {
	if err := r.expect(item.KindFloat); err != nil {
		return 0, err
	}
	v := r.cur.F32
	r.advance()
	return v, nil
}

func (r *Reader) HasDouble() bool { return r.is(item.KindDouble) }
func (r *Reader) ReadDouble() (float64, error) {
	if err := r.expect(item.KindDouble); err != nil {
		return 0, err
	}
	v := r.cur.F64
	r.advance()
	return v, nil
}

func (r *Reader) HasBigDecimal() bool { return r.is(item.KindBigDecimal) }
func (r *Reader) ReadBigDecimal() (mantissa *big.Int, exponent int32, err error) {
	if err := r.expect(item.KindBigDecimal); err != nil {
		return nil, 0, err
	}
	mantissa, exponent = r.cur.Mantissa, r.cur.Exponent
	r.advance()
	return mantissa, exponent, nil
}

func (r *Reader) HasNumberString() bool { return r.is(item.KindNumberString) }
func (r *Reader) ReadNumberString() (string, error) {
	if err := r.expect(item.KindNumberString); err != nil {
		return "", err
	}
	v := r.cur.Raw
	r.advance()
	return v, nil
}

// --- Bytes / Text ---

func (r *Reader) HasBytes() bool { return r.is(item.KindBytes) }
func (r *Reader) ReadBytes() ([]byte, error) {
	if err := r.expect(item.KindBytes); err != nil {
		return nil, err
	}
	v := r.cur.Bytes
	r.advance()
	return v, nil
}

func (r *Reader) HasBytesStart() bool { return r.is(item.KindBytesStart) }
func (r *Reader) ReadBytesStart() error {
	if err := r.expect(item.KindBytesStart); err != nil {
		return err
	}
	r.advance()
	return nil
}

func (r *Reader) HasText() bool   { return r.is(item.KindText) }
func (r *Reader) HasString() bool { return r.is(item.KindString) }
func (r *Reader) ReadText() (string, error) {
	if err := r.ensurePrimed(); err != nil {
		return "", err
	}
	if r.cur.Kind != item.KindText && r.cur.Kind != item.KindString {
		return "", ioerr.NewUnexpectedDataItem(r.parser.Pos(), item.KindText, r.cur.Kind)
	}
	v := r.cur.Text
	r.advance()
	return v, nil
}
func (r *Reader) TryReadText() (string, bool) {
	if !r.HasText() && !r.HasString() {
		return "", false
	}
	v, _ := r.ReadText()
	return v, true
}

func (r *Reader) HasTextStart() bool { return r.is(item.KindTextStart) }
func (r *Reader) ReadTextStart() error {
	if err := r.expect(item.KindTextStart); err != nil {
		return err
	}
	r.advance()
	return nil
}

// --- Containers ---

func (r *Reader) HasArrayHeader() bool { return r.is(item.KindArrayHeader) }
func (r *Reader) ReadArrayHeader() (int64, error) {
	if err := r.expect(item.KindArrayHeader); err != nil {
		return 0, err
	}
	n := r.cur.Len
	r.advance()
	return n, nil
}

func (r *Reader) HasArrayStart() bool { return r.is(item.KindArrayStart) }
func (r *Reader) ReadArrayStart() error {
	if err := r.expect(item.KindArrayStart); err != nil {
		return err
	}
	r.advance()
	return nil
}

func (r *Reader) HasMapHeader() bool { return r.is(item.KindMapHeader) }
func (r *Reader) ReadMapHeader() (int64, error) {
	if err := r.expect(item.KindMapHeader); err != nil {
		return 0, err
	}
	n := r.cur.Len
	r.advance()
	return n, nil
}

func (r *Reader) HasMapStart() bool { return r.is(item.KindMapStart) }
func (r *Reader) ReadMapStart() error {
	if err := r.expect(item.KindMapStart); err != nil {
		return err
	}
	r.advance()
	return nil
}

func (r *Reader) HasBreak() bool { return r.is(item.KindBreak) }
func (r *Reader) ReadBreak() error {
	if err := r.expect(item.KindBreak); err != nil {
		return err
	}
	r.advance()
	return nil
}

// --- CBOR-only ---

func (r *Reader) HasTag() bool { return r.is(item.KindTag) }
func (r *Reader) ReadTag() (uint64, error) {
	if err := r.expect(item.KindTag); err != nil {
		return 0, err
	}
	v := r.cur.TagCode
	r.advance()
	return v, nil
}

func (r *Reader) HasSimpleValue() bool { return r.is(item.KindSimpleValue) }
func (r *Reader) ReadSimpleValue() (byte, error) {
	if err := r.expect(item.KindSimpleValue); err != nil {
		return 0, err
	}
	v := r.cur.Simple
	r.advance()
	return v, nil
}

// ReadAny consumes and returns whatever item is buffered next, without
// regard to its Kind. Used by combinators (e.g. the DOM codec, ADT
// buffer-and-replay decoding) that must handle the full item set
// generically rather than through a typed ReadX method.
func (r *Reader) ReadAny() (item.Item, error) {
	if err := r.ensurePrimed(); err != nil {
		return item.EndOfInput(), err
	}
	it := r.cur
	r.advance()
	return it, nil
}

// ReadRaw consumes one complete value — scalar, tag-prefixed item, or
// whole container subtree — and returns it as the flat sequence of
// item.Items that make it up, undecoded into any typed or DOM value.
// Generalizes the teacher's ReadEncodedValue (which captured a span of
// source bytes); here the unit of "raw" is the parsed item sequence
// rather than a byte span, since both wire formats already flow through
// a single decoded item.Item representation by the time a Reader sees
// them. Useful for a lazy dom.Value variant or for relaying an embedded
// CBOR payload (TagEncodedCborData) without fully materializing it.
func (r *Reader) ReadRaw() ([]item.Item, error) {
	it, err := r.ReadAny()
	if err != nil {
		return nil, err
	}
	items := []item.Item{it}
	switch {
	case it.Kind == item.KindTag:
		rest, err := r.ReadRaw()
		if err != nil {
			return nil, err
		}
		return append(items, rest...), nil
	case it.IsContainerStart() && it.IsIndefinite():
		for {
			cur, err := r.Current()
			if err != nil {
				return nil, err
			}
			if cur.Kind == item.KindBreak {
				brk, err := r.ReadAny()
				if err != nil {
					return nil, err
				}
				return append(items, brk), nil
			}
			child, err := r.ReadRaw()
			if err != nil {
				return nil, err
			}
			items = append(items, child...)
		}
	case it.IsContainerStart():
		n := it.Len
		if it.Kind == item.KindMapHeader {
			n *= 2
		}
		for i := int64(0); i < n; i++ {
			child, err := r.ReadRaw()
			if err != nil {
				return nil, err
			}
			items = append(items, child...)
		}
		return items, nil
	default:
		return items, nil
	}
}

// SkipElement consumes the next value, recursing into (and past) any
// container it opens, and past a Tag into the data item it prefixes.
func (r *Reader) SkipElement() error {
	if err := r.ensurePrimed(); err != nil {
		return err
	}
	it := r.cur
	r.advance()
	switch {
	case it.Kind == item.KindTag:
		return r.SkipElement()
	case it.IsContainerStart() && it.IsIndefinite():
		for {
			if err := r.ensurePrimed(); err != nil {
				return err
			}
			if r.cur.Kind == item.KindBreak {
				r.advance()
				return nil
			}
			if err := r.SkipElement(); err != nil {
				return err
			}
		}
	case it.IsContainerStart():
		n := it.Len
		if it.Kind == item.KindMapHeader {
			n *= 2
		}
		for i := int64(0); i < n; i++ {
			if err := r.SkipElement(); err != nil {
				return err
			}
		}
		return nil
	default:
		return nil
	}
}

// End checks that the document is well-formed at the point the caller
// considers decoding finished (no open containers, no dangling tag).
func (r *Reader) End() error {
	return r.validator.End(r.parser.Pos())
}
