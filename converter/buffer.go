package converter

import (
	"github.com/wippyai/encconv/encoding"
)

// Buffer is a growable byte buffer tagged with an encoding. Its length and
// capacity are tracked separately: a destination is grown before a
// conversion and cut back to what was written after it.
type Buffer struct {
	buf []byte
	n   int
	enc *encoding.Encoding
}

// NewBuffer returns a buffer holding b. enc may be nil for untagged bytes.
// The buffer writes into b[:len(b)] only; capacity beyond the length is
// never used, so growing always copies.
func NewBuffer(enc *encoding.Encoding, b []byte) *Buffer {
	return &Buffer{buf: b[:len(b):len(b)], n: len(b), enc: enc}
}

// NewBufferSize returns an empty buffer with capacity n.
func NewBufferSize(enc *encoding.Encoding, n int) *Buffer {
	return &Buffer{buf: make([]byte, n), enc: enc}
}

func (b *Buffer) Len() int { return b.n }

func (b *Buffer) Cap() int { return len(b.buf) }

// Bytes returns the buffer contents. The slice aliases the buffer until the
// next mutation.
func (b *Buffer) Bytes() []byte { return b.buf[:b.n] }

func (b *Buffer) String() string { return string(b.Bytes()) }

func (b *Buffer) Encoding() *encoding.Encoding { return b.enc }

func (b *Buffer) SetEncoding(enc *encoding.Encoding) { b.enc = enc }

// Grow makes the capacity at least n, keeping the contents.
func (b *Buffer) Grow(n int) {
	if n <= len(b.buf) {
		return
	}
	grown := make([]byte, n)
	copy(grown, b.buf[:b.n])
	b.buf = grown
}

// Reset empties the buffer and keeps its capacity.
func (b *Buffer) Reset() { b.n = 0 }

// consume drops n bytes from the front.
func (b *Buffer) consume(n int) {
	if n == 0 {
		return
	}
	b.buf = b.buf[n:]
	b.n -= n
}
