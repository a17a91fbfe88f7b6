// Package stream is the façade tying the CBOR/JSON parsers and renderers,
// the Reader/Writer pull/push API, and the Encoder/Decoder type-class
// layer into the handful of entry points most callers need: Encode,
// Decode, and Transcode (spec.md §1's overview, SPEC_FULL.md §12).
package stream

import (
	"io"

	"github.com/ionscribe/stream/bio"
	"github.com/ionscribe/stream/cbor"
	"github.com/ionscribe/stream/codec"
	"github.com/ionscribe/stream/item"
	"github.com/ionscribe/stream/json"
	"github.com/ionscribe/stream/reader"
	"github.com/ionscribe/stream/validate"
	"github.com/ionscribe/stream/writer"
)

// Format selects the wire format a Reader/Writer pair is bound to.
type Format int8

const (
	CBOR Format = iota
	JSON
)

// Options bundles per-format configuration plus the validator's enabled
// state, composed by EncodeBytes/DecodeBytes/NewReader/NewWriter below so
// callers configure one surface regardless of target format.
type Options struct {
	CBOR             cbor.Config
	JSON             json.Config
	DisableValidator bool
}

// DefaultOptions returns each format's DefaultConfig with validation on.
func DefaultOptions() Options {
	return Options{CBOR: cbor.DefaultConfig(), JSON: json.DefaultConfig()}
}

func (o Options) newValidator() *validate.Validator {
	v := validate.New()
	if o.DisableValidator {
		v.Disable()
	}
	return v
}

// NewReader builds a Reader over in, bound to format, per opts.
func NewReader(format Format, in []byte, opts Options) *reader.Reader {
	switch format {
	case JSON:
		p := json.NewParser(bio.NewBytes(in, json.Pad{}), opts.JSON)
		return reader.New(p, item.TargetJSON, opts.newValidator())
	default:
		p := cbor.NewParser(bio.NewBytes(in, bio.StrictPad{}), opts.CBOR)
		return reader.New(p, item.TargetCBOR, opts.newValidator())
	}
}

// NewStreamReader builds a Reader over an io.Reader, for documents too
// large to buffer whole.
func NewStreamReader(format Format, r io.Reader, opts Options) *reader.Reader {
	switch format {
	case JSON:
		p := json.NewParser(bio.NewStream(r, json.Pad{}), opts.JSON)
		return reader.New(p, item.TargetJSON, opts.newValidator())
	default:
		p := cbor.NewParser(bio.NewStream(r, bio.StrictPad{}), opts.CBOR)
		return reader.New(p, item.TargetCBOR, opts.newValidator())
	}
}

// NewWriter builds a Writer that appends to an in-memory buffer,
// retrievable from the returned *bio.ToBytes after encoding completes.
func NewWriter(format Format, opts Options) (*writer.Writer, *bio.ToBytes) {
	out := bio.NewToBytes(256)
	switch format {
	case JSON:
		r := json.NewRenderer(out, opts.JSON)
		return writer.New(r, item.TargetJSON, opts.newValidator()), out
	default:
		r := cbor.NewRenderer(out, opts.CBOR)
		return writer.New(r, item.TargetCBOR, opts.newValidator()), out
	}
}

// NewStreamWriter builds a Writer that writes directly to w.
func NewStreamWriter(format Format, w io.Writer, opts Options) *writer.Writer {
	out := bio.NewToWriter(w)
	switch format {
	case JSON:
		r := json.NewRenderer(out, opts.JSON)
		return writer.New(r, item.TargetJSON, opts.newValidator())
	default:
		r := cbor.NewRenderer(out, opts.CBOR)
		return writer.New(r, item.TargetCBOR, opts.newValidator())
	}
}

// Encode writes v as a single document in the given format and returns
// the wire bytes.
func Encode[T any](format Format, enc codec.Encoder[T], v T, opts Options) ([]byte, error) {
	w, out := NewWriter(format, opts)
	if err := enc.Encode(w, v); err != nil {
		return nil, err
	}
	if err := w.End(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// Decode reads a single document of the given format from data.
func Decode[T any](format Format, dec codec.Decoder[T], data []byte, opts Options) (T, error) {
	r := NewReader(format, data, opts)
	v, err := dec.Decode(r)
	if err != nil {
		var zero T
		return zero, err
	}
	if err := r.End(); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// Transcode decodes data as A via fromFormat, converts it to B with conv,
// and re-encodes it as toFormat. Use TranscodeRaw instead when no typed
// intermediate value is needed at all.
func Transcode[A, B any](fromFormat, toFormat Format, dec codec.Decoder[A], enc codec.Encoder[B], conv func(A) B, data []byte, opts Options) ([]byte, error) {
	a, err := Decode(fromFormat, dec, data, opts)
	if err != nil {
		return nil, err
	}
	return Encode(toFormat, enc, conv(a), opts)
}

// TranscodeRaw re-renders data from fromFormat into toFormat by draining
// the source Reader's item stream straight into the destination Writer,
// with no typed value and no DOM ever materialized in between
// (SPEC_FULL.md §12, "Transcode without an intermediate tree").
func TranscodeRaw(fromFormat, toFormat Format, data []byte, opts Options) ([]byte, error) {
	r := NewReader(fromFormat, data, opts)
	w, out := NewWriter(toFormat, opts)
	for {
		it, err := r.ReadAny()
		if err != nil {
			return nil, err
		}
		if it.Kind == item.KindEndOfInput {
			break
		}
		if err := w.WriteItem(it); err != nil {
			return nil, err
		}
	}
	if err := w.End(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
