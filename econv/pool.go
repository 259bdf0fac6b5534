package econv

import "sync"

const (
	// Pool limits to prevent memory bloat
	poolMaxCap   = 64 * 1024
	stageBufSize = 4096
)

// byte buffer pool for intermediate stage output
var stageBufPool = sync.Pool{
	New: func() any {
		buf := make([]byte, stageBufSize)
		return &buf
	},
}

func getStageBuf() *[]byte {
	return stageBufPool.Get().(*[]byte)
}

func putStageBuf(buf *[]byte) {
	if buf == nil || cap(*buf) > poolMaxCap {
		return // reject oversized
	}
	*buf = (*buf)[:cap(*buf)]
	stageBufPool.Put(buf)
}

// buffer holds the output of one stage until the next stage reads it.
type buffer struct {
	ptr        *[]byte
	start, end int
}

func newBuffer() *buffer {
	return &buffer{ptr: getStageBuf()}
}

func (b *buffer) bytes() []byte { return (*b.ptr)[b.start:b.end] }

func (b *buffer) empty() bool { return b.start == b.end }

// free returns the writable tail, moving unread bytes to the front first.
func (b *buffer) free() []byte {
	if b.start > 0 {
		b.end = copy(*b.ptr, (*b.ptr)[b.start:b.end])
		b.start = 0
	}
	return (*b.ptr)[b.end:]
}

// reserve makes room for n more bytes, growing the buffer if needed.
func (b *buffer) reserve(n int) []byte {
	out := b.free()
	if len(out) >= n {
		return out
	}
	grown := make([]byte, b.end+n)
	copy(grown, (*b.ptr)[:b.end])
	putStageBuf(b.ptr)
	b.ptr = &grown
	return grown[b.end:]
}

func (b *buffer) advance(n int) {
	b.start += n
	if b.start == b.end {
		b.start, b.end = 0, 0
	}
}

func (b *buffer) release() {
	putStageBuf(b.ptr)
	b.ptr = nil
}
