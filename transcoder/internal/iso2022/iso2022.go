// Package iso2022 converts between ISO-2022-JP and its stateless form.
//
// The stateless form carries ASCII unchanged and JIS X 0208 characters as
// two bytes with the high bit set, which makes it the code set 0 and 1
// subset of EUC-JP.
package iso2022

import (
	"github.com/wippyai/encconv/transcoder/internal/char"
	"github.com/wippyai/encconv/transcoder/internal/mbcs"
)

const esc = 0x1B

type charset uint8

const (
	ascii charset = iota
	jis0208
)

var (
	escASCII   = []byte{esc, '(', 'B'}
	escJIS0208 = []byte{esc, '$', 'B'}
)

func isJISByte(b byte) bool { return b >= 0x21 && b <= 0x7E }

func isEUCByte(b byte) bool { return b >= 0xA1 && b <= 0xFE }

// Decoder reads ISO-2022-JP and writes the stateless form.
type Decoder struct {
	cs charset
}

func NewDecoder() *Decoder { return &Decoder{} }

func (d *Decoder) Step(dst, src []byte) (int, int, char.Status) {
	b := src[0]
	if b == esc {
		return d.escape(src)
	}
	if d.cs == ascii {
		if b >= 0x80 || b == 0x0E || b == 0x0F {
			return 0, 1, char.Invalid
		}
		w, st := char.Put(dst, src[:1])
		return w, w, st
	}
	if !isJISByte(b) {
		return 0, 1, char.Invalid
	}
	if len(src) < 2 {
		return 0, 1, char.Short
	}
	if !isJISByte(src[1]) {
		return 0, 2, char.Invalid
	}
	if len(dst) < 2 {
		return 0, 0, char.NoRoom
	}
	dst[0], dst[1] = b|0x80, src[1]|0x80
	return 2, 2, char.OK
}

// escape consumes a designation sequence: ESC ( B, ESC $ @ or ESC $ B.
func (d *Decoder) escape(src []byte) (int, int, char.Status) {
	if len(src) < 2 {
		return 0, len(src), char.Short
	}
	if src[1] != '(' && src[1] != '$' {
		return 0, 2, char.Invalid
	}
	if len(src) < 3 {
		return 0, len(src), char.Short
	}
	switch {
	case src[1] == '(' && src[2] == 'B':
		d.cs = ascii
	case src[1] == '$' && (src[2] == '@' || src[2] == 'B'):
		d.cs = jis0208
	default:
		return 0, 3, char.Invalid
	}
	return 0, 3, char.OK
}

func (d *Decoder) Finish([]byte) (int, char.Status) {
	d.cs = ascii
	return 0, char.OK
}

func (d *Decoder) Reset() { d.cs = ascii }

// Encoder reads the stateless form and writes ISO-2022-JP, emitting a
// designation sequence whenever the character set changes.
type Encoder struct {
	cs charset
}

func NewEncoder() *Encoder { return &Encoder{} }

func (e *Encoder) Step(dst, src []byte) (int, int, char.Status) {
	b := src[0]
	switch {
	case b < 0x80:
		return e.put(dst, ascii, src[:1], 1)
	case isEUCByte(b):
		if len(src) < 2 {
			return 0, 1, char.Short
		}
		if !isEUCByte(src[1]) {
			return 0, 2, char.Invalid
		}
		return e.put(dst, jis0208, []byte{b & 0x7F, src[1] & 0x7F}, 2)
	}
	return 0, 1, char.Invalid
}

func (e *Encoder) put(dst []byte, cs charset, out []byte, n int) (int, int, char.Status) {
	var prefix []byte
	if cs != e.cs {
		prefix = designation(cs)
	}
	if len(dst) < len(prefix)+len(out) {
		return 0, 0, char.NoRoom
	}
	w := copy(dst, prefix)
	w += copy(dst[w:], out)
	e.cs = cs
	return w, n, char.OK
}

func designation(cs charset) []byte {
	if cs == jis0208 {
		return escJIS0208
	}
	return escASCII
}

// Finish switches back to ASCII.
func (e *Encoder) Finish(dst []byte) (int, char.Status) {
	if e.cs == ascii {
		return 0, char.OK
	}
	w, st := char.Put(dst, escASCII)
	if st == char.OK {
		e.cs = ascii
	}
	return w, st
}

func (e *Encoder) Reset() { e.cs = ascii }

// FromEUCJP converts EUC-JP to the stateless form. Code sets 2 and 3 have
// no stateless equivalent and are undefined.
func FromEUCJP(dst, src []byte) (int, int, char.Status) {
	n, st := mbcs.EUCJP(src)
	if st != char.OK {
		return 0, n, st
	}
	if src[0] == 0x8E || src[0] == 0x8F {
		return 0, n, char.Undefined
	}
	w, st := char.Put(dst, src[:n])
	return w, w, st
}

// ToEUCJP converts the stateless form to EUC-JP.
func ToEUCJP(dst, src []byte) (int, int, char.Status) {
	b := src[0]
	switch {
	case b < 0x80:
		w, st := char.Put(dst, src[:1])
		return w, w, st
	case isEUCByte(b):
		if len(src) < 2 {
			return 0, 1, char.Short
		}
		if !isEUCByte(src[1]) {
			return 0, 2, char.Invalid
		}
		w, st := char.Put(dst, src[:2])
		return w, w, st
	}
	return 0, 1, char.Invalid
}
