// Package bio abstracts byte sources and sinks so the CBOR and JSON parsers
// and renderers never depend on a concrete container type. Input supports
// single-pass, chunked iteration so very large documents can be decoded
// without loading all bytes at once (spec §4.1).
package bio

import (
	"encoding/binary"
	"io"

	"github.com/ionscribe/stream/ioerr"
)

// Position mirrors ioerr.Position; kept as a distinct alias so bio stays
// import-light for callers that only need cursor arithmetic.
type Position = ioerr.Position

// PadPolicy supplies the padding/end-of-input behavior for each read
// width, invoked by an Input only when it is truly exhausted. CBOR's
// policy always raises UnexpectedEndOfInput; JSON's tolerates trailing
// whitespace by synthesizing a sentinel, per spec §4.1.
type PadPolicy interface {
	PadByte() (byte, error)
	PadDoubleByte(remaining []byte) (uint16, error)
	PadQuadByte(remaining []byte) (uint32, error)
	PadOctaByte(remaining []byte) (uint64, error)
	PadBytes(rest []byte, missing int) ([]byte, error)
}

// StrictPad is the PadPolicy used by CBOR: any exhaustion is an error.
type StrictPad struct{}

func (StrictPad) PadByte() (byte, error) {
	return 0, ioerr.NewUnexpectedEndOfInput(0, "unexpected end of input")
}
func (StrictPad) PadDoubleByte(remaining []byte) (uint16, error) {
	return 0, ioerr.NewUnexpectedEndOfInput(0, "unexpected end of input reading 2 bytes")
}
func (StrictPad) PadQuadByte(remaining []byte) (uint32, error) {
	return 0, ioerr.NewUnexpectedEndOfInput(0, "unexpected end of input reading 4 bytes")
}
func (StrictPad) PadOctaByte(remaining []byte) (uint64, error) {
	return 0, ioerr.NewUnexpectedEndOfInput(0, "unexpected end of input reading 8 bytes")
}
func (StrictPad) PadBytes(rest []byte, missing int) ([]byte, error) {
	return nil, ioerr.NewUnexpectedEndOfInput(0, "unexpected end of input reading byte span")
}

// Input is a cursor-bearing byte source. Each read either succeeds or
// consults the configured PadPolicy on exhaustion.
type Input interface {
	ReadByte() (byte, error)
	ReadUint16BE() (uint16, error)
	ReadUint32BE() (uint32, error)
	ReadUint64BE() (uint64, error)
	ReadBytes(n int) ([]byte, error)
	Cursor() uint64
	Mark() Position
	// Release frees any internally pooled buffers. Called exactly once
	// when decoding ends, successfully or not.
	Release()
}

// Bytes is an Input over a contiguous in-memory buffer — the common case,
// requiring no pooling or chunk management.
type Bytes struct {
	data []byte
	off  int
	pad  PadPolicy
}

// NewBytes wraps a byte slice as an Input. The slice is not copied; callers
// must not mutate it while decoding is in progress.
func NewBytes(data []byte, pad PadPolicy) *Bytes {
	return &Bytes{data: data, pad: pad}
}

func (b *Bytes) Cursor() uint64 { return uint64(b.off) }
func (b *Bytes) Mark() Position { return Position(b.off) }
func (b *Bytes) Release()       {}

func (b *Bytes) ReadByte() (byte, error) {
	if b.off >= len(b.data) {
		return b.pad.PadByte()
	}
	v := b.data[b.off]
	b.off++
	return v, nil
}

func (b *Bytes) ReadUint16BE() (uint16, error) {
	if b.off+2 > len(b.data) {
		return b.pad.PadDoubleByte(b.data[b.off:])
	}
	v := binary.BigEndian.Uint16(b.data[b.off:])
	b.off += 2
	return v, nil
}

func (b *Bytes) ReadUint32BE() (uint32, error) {
	if b.off+4 > len(b.data) {
		return b.pad.PadQuadByte(b.data[b.off:])
	}
	v := binary.BigEndian.Uint32(b.data[b.off:])
	b.off += 4
	return v, nil
}

func (b *Bytes) ReadUint64BE() (uint64, error) {
	if b.off+8 > len(b.data) {
		return b.pad.PadOctaByte(b.data[b.off:])
	}
	v := binary.BigEndian.Uint64(b.data[b.off:])
	b.off += 8
	return v, nil
}

func (b *Bytes) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, ioerr.NewOverflow(b.Mark(), "negative length")
	}
	if b.off+n > len(b.data) {
		return b.pad.PadBytes(b.data[b.off:], b.off+n-len(b.data))
	}
	v := b.data[b.off : b.off+n]
	b.off += n
	return v, nil
}

// Stream is an Input over an io.Reader, pulling fixed-size windows from the
// shared chunk-buffer pool (see pool.go) rather than allocating per read.
type Stream struct {
	r       io.Reader
	pad     PadPolicy
	cursor  uint64
	pending []byte // unread tail of the last fetched chunk
	chunk   *pooledChunk
	eof     bool
}

// NewStream wraps an io.Reader as a chunked Input.
func NewStream(r io.Reader, pad PadPolicy) *Stream {
	return &Stream{r: r, pad: pad}
}

func (s *Stream) Cursor() uint64 { return s.cursor }
func (s *Stream) Mark() Position { return Position(s.cursor) }

func (s *Stream) Release() {
	if s.chunk != nil {
		releaseChunk(s.chunk)
		s.chunk = nil
		s.pending = nil
	}
}

// fill ensures at least n bytes are available in s.pending, refilling from
// the pool and the underlying reader as needed. The pooled chunk is used
// purely as reusable read-into scratch space; s.pending owns its own
// growable backing array independent of the pool.
func (s *Stream) fill(n int) error {
	if s.chunk == nil {
		s.chunk = acquireChunk()
	}
	for len(s.pending) < n && !s.eof {
		nr, err := s.r.Read(s.chunk.buf)
		if nr > 0 {
			s.pending = append(s.pending, s.chunk.buf[:nr]...)
		}
		if err != nil {
			s.eof = true
		}
	}
	return nil
}

func (s *Stream) ReadByte() (byte, error) {
	if err := s.fill(1); err != nil {
		return 0, err
	}
	if len(s.pending) < 1 {
		return s.pad.PadByte()
	}
	v := s.pending[0]
	s.pending = s.pending[1:]
	s.cursor++
	return v, nil
}

func (s *Stream) ReadUint16BE() (uint16, error) {
	if err := s.fill(2); err != nil {
		return 0, err
	}
	if len(s.pending) < 2 {
		return s.pad.PadDoubleByte(s.pending)
	}
	v := binary.BigEndian.Uint16(s.pending)
	s.pending = s.pending[2:]
	s.cursor += 2
	return v, nil
}

func (s *Stream) ReadUint32BE() (uint32, error) {
	if err := s.fill(4); err != nil {
		return 0, err
	}
	if len(s.pending) < 4 {
		return s.pad.PadQuadByte(s.pending)
	}
	v := binary.BigEndian.Uint32(s.pending)
	s.pending = s.pending[4:]
	s.cursor += 4
	return v, nil
}

func (s *Stream) ReadUint64BE() (uint64, error) {
	if err := s.fill(8); err != nil {
		return 0, err
	}
	if len(s.pending) < 8 {
		return s.pad.PadOctaByte(s.pending)
	}
	v := binary.BigEndian.Uint64(s.pending)
	s.pending = s.pending[8:]
	s.cursor += 8
	return v, nil
}

func (s *Stream) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, ioerr.NewOverflow(s.Mark(), "negative length")
	}
	if err := s.fill(n); err != nil {
		return nil, err
	}
	if len(s.pending) < n {
		return s.pad.PadBytes(s.pending, n-len(s.pending))
	}
	out := make([]byte, n)
	copy(out, s.pending[:n])
	s.pending = s.pending[n:]
	s.cursor += uint64(n)
	return out, nil
}

// ChunkPuller supplies successive byte chunks for ChunkIter, returning
// ok=false once exhausted. Implemented by adapting any "iterator of byte
// chunks" producer (a gRPC stream, a multipart reader, …).
type ChunkPuller func() (chunk []byte, ok bool)

// ChunkIter is an Input driven by a ChunkPuller, buffering only the window
// required for the longest primitive read plus any pending string span.
type ChunkIter struct {
	next    ChunkPuller
	pad     PadPolicy
	cursor  uint64
	pending []byte
	done    bool
}

// NewChunkIter wraps a ChunkPuller as an Input.
func NewChunkIter(next ChunkPuller, pad PadPolicy) *ChunkIter {
	return &ChunkIter{next: next, pad: pad}
}

func (c *ChunkIter) Cursor() uint64 { return c.cursor }
func (c *ChunkIter) Mark() Position { return Position(c.cursor) }
func (c *ChunkIter) Release()       { c.pending = nil }

func (c *ChunkIter) fill(n int) {
	for len(c.pending) < n && !c.done {
		chunk, ok := c.next()
		if !ok {
			c.done = true
			return
		}
		c.pending = append(c.pending, chunk...)
	}
}

func (c *ChunkIter) ReadByte() (byte, error) {
	c.fill(1)
	if len(c.pending) < 1 {
		return c.pad.PadByte()
	}
	v := c.pending[0]
	c.pending = c.pending[1:]
	c.cursor++
	return v, nil
}

func (c *ChunkIter) ReadUint16BE() (uint16, error) {
	c.fill(2)
	if len(c.pending) < 2 {
		return c.pad.PadDoubleByte(c.pending)
	}
	v := binary.BigEndian.Uint16(c.pending)
	c.pending = c.pending[2:]
	c.cursor += 2
	return v, nil
}

func (c *ChunkIter) ReadUint32BE() (uint32, error) {
	c.fill(4)
	if len(c.pending) < 4 {
		return c.pad.PadQuadByte(c.pending)
	}
	v := binary.BigEndian.Uint32(c.pending)
	c.pending = c.pending[4:]
	c.cursor += 4
	return v, nil
}

func (c *ChunkIter) ReadUint64BE() (uint64, error) {
	c.fill(8)
	if len(c.pending) < 8 {
		return c.pad.PadOctaByte(c.pending)
	}
	v := binary.BigEndian.Uint64(c.pending)
	c.pending = c.pending[8:]
	c.cursor += 8
	return v, nil
}

func (c *ChunkIter) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, ioerr.NewOverflow(c.Mark(), "negative length")
	}
	c.fill(n)
	if len(c.pending) < n {
		return c.pad.PadBytes(c.pending, n-len(c.pending))
	}
	out := make([]byte, n)
	copy(out, c.pending[:n])
	c.pending = c.pending[n:]
	c.cursor += uint64(n)
	return out, nil
}
