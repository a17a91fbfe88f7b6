package bio

import (
	"encoding/binary"
	"io"
)

// Output is a cursor-bearing byte sink. Renderers hold the current Output
// and call its Write methods directly; "to type" sinks (ToBytes) and "to
// value" sinks (ToWriter) both satisfy this one interface.
type Output interface {
	WriteByte(b byte) error
	WriteUint16BE(v uint16) error
	WriteUint32BE(v uint32) error
	WriteUint64BE(v uint64) error
	WriteBytes(p []byte) error
	Cursor() uint64
}

// ToBytes accumulates written bytes into a growable in-memory buffer.
type ToBytes struct {
	buf []byte
}

// NewToBytes creates an accumulating Output, optionally pre-sized.
func NewToBytes(initialCapacity int) *ToBytes {
	return &ToBytes{buf: make([]byte, 0, initialCapacity)}
}

func (o *ToBytes) Cursor() uint64 { return uint64(len(o.buf)) }

func (o *ToBytes) WriteByte(b byte) error {
	o.buf = append(o.buf, b)
	return nil
}

func (o *ToBytes) WriteUint16BE(v uint16) error {
	o.buf = binary.BigEndian.AppendUint16(o.buf, v)
	return nil
}

func (o *ToBytes) WriteUint32BE(v uint32) error {
	o.buf = binary.BigEndian.AppendUint32(o.buf, v)
	return nil
}

func (o *ToBytes) WriteUint64BE(v uint64) error {
	o.buf = binary.BigEndian.AppendUint64(o.buf, v)
	return nil
}

func (o *ToBytes) WriteBytes(p []byte) error {
	o.buf = append(o.buf, p...)
	return nil
}

// Bytes returns the accumulated buffer without copying.
func (o *ToBytes) Bytes() []byte { return o.buf }

// Take returns the accumulated buffer and resets the sink for reuse.
func (o *ToBytes) Take() []byte {
	b := o.buf
	o.buf = nil
	return b
}

// ToWriter writes directly into a caller-provided io.Writer, buffering
// nothing beyond what each Write call needs.
type ToWriter struct {
	w      io.Writer
	cursor uint64
	scratch [8]byte
}

// NewToWriter wraps an io.Writer as an Output.
func NewToWriter(w io.Writer) *ToWriter {
	return &ToWriter{w: w}
}

func (o *ToWriter) Cursor() uint64 { return o.cursor }

func (o *ToWriter) WriteByte(b byte) error {
	o.scratch[0] = b
	n, err := o.w.Write(o.scratch[:1])
	o.cursor += uint64(n)
	return err
}

func (o *ToWriter) WriteUint16BE(v uint16) error {
	binary.BigEndian.PutUint16(o.scratch[:2], v)
	n, err := o.w.Write(o.scratch[:2])
	o.cursor += uint64(n)
	return err
}

func (o *ToWriter) WriteUint32BE(v uint32) error {
	binary.BigEndian.PutUint32(o.scratch[:4], v)
	n, err := o.w.Write(o.scratch[:4])
	o.cursor += uint64(n)
	return err
}

func (o *ToWriter) WriteUint64BE(v uint64) error {
	binary.BigEndian.PutUint64(o.scratch[:8], v)
	n, err := o.w.Write(o.scratch[:8])
	o.cursor += uint64(n)
	return err
}

func (o *ToWriter) WriteBytes(p []byte) error {
	n, err := o.w.Write(p)
	o.cursor += uint64(n)
	return err
}
