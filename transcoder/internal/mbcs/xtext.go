package mbcs

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"

	"github.com/wippyai/encconv/transcoder/internal/char"
	"github.com/wippyai/encconv/transcoder/internal/utf"
)

// U+FFFD in UTF-8
var replacementChar = []byte{0xEF, 0xBF, 0xBD}

type decoder struct {
	scan Scanner
	t    transform.Transformer
	buf  [16]byte
}

// NewDecoder returns a codec converting one character of e to UTF-8.
// Boundaries come from scan; a well formed character that e decodes to
// U+FFFD is undefined.
func NewDecoder(scan Scanner, e encoding.Encoding) char.Codec {
	return &decoder{scan: scan, t: e.NewDecoder()}
}

func (d *decoder) Step(dst, src []byte) (int, int, char.Status) {
	n, st := d.scan(src)
	if st != char.OK {
		return 0, n, st
	}
	if src[0] < utf8.RuneSelf {
		w, st := char.Put(dst, src[:1])
		return w, w, st
	}
	d.t.Reset()
	w, _, err := d.t.Transform(d.buf[:], src[:n], true)
	if err != nil || w == 0 || bytes.HasPrefix(d.buf[:w], replacementChar) {
		return 0, n, char.Undefined
	}
	if len(dst) < w {
		return 0, 0, char.NoRoom
	}
	return copy(dst, d.buf[:w]), n, char.OK
}

func (d *decoder) Finish([]byte) (int, char.Status) { return 0, char.OK }

func (d *decoder) Reset() { d.t.Reset() }

type encoder struct {
	scan Scanner
	t    transform.Transformer
	buf  [8]byte
}

// NewEncoder returns a codec converting one UTF-8 character to e. Runes the
// x/text encoder rejects, or encodes outside the boundaries of scan, are
// undefined.
func NewEncoder(scan Scanner, e encoding.Encoding) char.Codec {
	return &encoder{scan: scan, t: e.NewEncoder()}
}

func (e *encoder) Step(dst, src []byte) (int, int, char.Status) {
	r, n, st := utf.DecodeUTF8(src)
	if st != char.OK {
		return 0, n, st
	}
	if r < utf8.RuneSelf {
		w, st := char.Put(dst, src[:1])
		return w, w, st
	}
	e.t.Reset()
	w, _, err := e.t.Transform(e.buf[:], src[:n], true)
	if err != nil || w == 0 {
		return 0, n, char.Undefined
	}
	if m, st := e.scan(e.buf[:w]); st != char.OK || m != w {
		return 0, n, char.Undefined
	}
	if len(dst) < w {
		return 0, 0, char.NoRoom
	}
	return copy(dst, e.buf[:w]), n, char.OK
}

func (e *encoder) Finish([]byte) (int, char.Status) { return 0, char.OK }

func (e *encoder) Reset() { e.t.Reset() }
