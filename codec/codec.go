// Package codec implements the Encoder[T]/Decoder[T]/Codec[T] type-class
// layer (spec §4.10): the center of gravity where user types meet the
// Reader/Writer façade. Every Encoder must write exactly one data item
// (a composite header+children+close counts as one); every Decoder must
// consume exactly one.
package codec

import (
	"github.com/ionscribe/stream/reader"
	"github.com/ionscribe/stream/writer"
)

// Encoder writes exactly one data item representing a T.
type Encoder[T any] interface {
	Encode(w *writer.Writer, v T) error
}

// Decoder reads exactly one data item and produces a T.
type Decoder[T any] interface {
	Decode(r *reader.Reader) (T, error)
}

// Codec bundles an Encoder and Decoder for the same T.
type Codec[T any] interface {
	Encoder[T]
	Decoder[T]
}

// EncoderFunc adapts a plain function to an Encoder.
type EncoderFunc[T any] func(w *writer.Writer, v T) error

func (f EncoderFunc[T]) Encode(w *writer.Writer, v T) error { return f(w, v) }

// DecoderFunc adapts a plain function to a Decoder.
type DecoderFunc[T any] func(r *reader.Reader) (T, error)

func (f DecoderFunc[T]) Decode(r *reader.Reader) (T, error) { return f(r) }

// funcCodec composes separate encode/decode functions into a Codec.
type funcCodec[T any] struct {
	enc func(w *writer.Writer, v T) error
	dec func(r *reader.Reader) (T, error)
}

func (c funcCodec[T]) Encode(w *writer.Writer, v T) error { return c.enc(w, v) }
func (c funcCodec[T]) Decode(r *reader.Reader) (T, error) { return c.dec(r) }

// New builds a Codec[T] from an encode and a decode function.
func New[T any](enc func(w *writer.Writer, v T) error, dec func(r *reader.Reader) (T, error)) Codec[T] {
	return funcCodec[T]{enc: enc, dec: dec}
}
