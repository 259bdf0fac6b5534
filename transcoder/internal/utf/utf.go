// Package utf implements strict UTF-8, UTF-16 and UTF-32 character codecs.
//
// Decoders report how many bytes were read before a sequence turned out to be
// malformed, so callers can tell the error bytes from the bytes that must be
// read again.
package utf

import (
	"unicode/utf16"
	"unicode/utf8"

	"github.com/wippyai/encconv/transcoder/internal/char"
)

const (
	surrogateMin = 0xD800
	surrogateMax = 0xDFFF
	maxRune      = 0x10FFFF
)

// DecodeFunc decodes the character at the start of p.
type DecodeFunc func(p []byte) (r rune, n int, st char.Status)

// EncodeFunc writes r to dst. It returns Undefined for runes the encoding
// cannot represent and NoRoom when dst is too small.
type EncodeFunc func(dst []byte, r rune) (n int, st char.Status)

// accept ranges for the second byte of a UTF-8 sequence, by lead byte
type acceptRange struct{ lo, hi byte }

func secondByteRange(lead byte) (acceptRange, int) {
	switch {
	case lead >= 0xC2 && lead <= 0xDF:
		return acceptRange{0x80, 0xBF}, 2
	case lead == 0xE0:
		return acceptRange{0xA0, 0xBF}, 3
	case lead >= 0xE1 && lead <= 0xEC, lead == 0xEE, lead == 0xEF:
		return acceptRange{0x80, 0xBF}, 3
	case lead == 0xED:
		return acceptRange{0x80, 0x9F}, 3
	case lead == 0xF0:
		return acceptRange{0x90, 0xBF}, 4
	case lead >= 0xF1 && lead <= 0xF3:
		return acceptRange{0x80, 0xBF}, 4
	case lead == 0xF4:
		return acceptRange{0x80, 0x8F}, 4
	}
	return acceptRange{}, 0
}

// DecodeUTF8 decodes one UTF-8 character, rejecting overlong forms,
// surrogates and code points above U+10FFFF.
func DecodeUTF8(p []byte) (rune, int, char.Status) {
	if len(p) == 0 {
		return 0, 0, char.Short
	}
	b := p[0]
	if b < utf8.RuneSelf {
		return rune(b), 1, char.OK
	}
	accept, size := secondByteRange(b)
	if size == 0 {
		return 0, 1, char.Invalid
	}
	for i := 1; i < size; i++ {
		if i >= len(p) {
			return 0, len(p), char.Short
		}
		lo, hi := byte(0x80), byte(0xBF)
		if i == 1 {
			lo, hi = accept.lo, accept.hi
		}
		if p[i] < lo || p[i] > hi {
			return 0, i + 1, char.Invalid
		}
	}
	r, _ := utf8.DecodeRune(p[:size])
	return r, size, char.OK
}

// EncodeUTF8 writes r as UTF-8.
func EncodeUTF8(dst []byte, r rune) (int, char.Status) {
	if len(dst) < utf8.RuneLen(r) {
		return 0, char.NoRoom
	}
	return utf8.EncodeRune(dst, r), char.OK
}

func unit16(p []byte, bigEndian bool) uint16 {
	if bigEndian {
		return uint16(p[0])<<8 | uint16(p[1])
	}
	return uint16(p[1])<<8 | uint16(p[0])
}

// DecodeUTF16 decodes one UTF-16 character. A high surrogate followed by a
// unit that is not a low surrogate is invalid as soon as the byte carrying
// the high half of that unit has been read.
func DecodeUTF16(p []byte, bigEndian bool) (rune, int, char.Status) {
	if len(p) < 2 {
		return 0, len(p), char.Short
	}
	u := unit16(p, bigEndian)
	switch {
	case u < surrogateMin || u > surrogateMax:
		return rune(u), 2, char.OK
	case u >= 0xDC00:
		return 0, 2, char.Invalid
	}
	// high byte of the trailing unit
	hi := 2
	if !bigEndian {
		hi = 3
	}
	if len(p) <= hi {
		return 0, len(p), char.Short
	}
	if p[hi] < 0xDC || p[hi] > 0xDF {
		return 0, hi + 1, char.Invalid
	}
	if len(p) < 4 {
		return 0, len(p), char.Short
	}
	return utf16.DecodeRune(rune(u), rune(unit16(p[2:], bigEndian))), 4, char.OK
}

func putUnit16(dst []byte, u uint16, bigEndian bool) {
	if bigEndian {
		dst[0], dst[1] = byte(u>>8), byte(u)
		return
	}
	dst[0], dst[1] = byte(u), byte(u>>8)
}

// EncodeUTF16 writes r as one or two UTF-16 units.
func EncodeUTF16(dst []byte, r rune, bigEndian bool) (int, char.Status) {
	if r <= 0xFFFF {
		if len(dst) < 2 {
			return 0, char.NoRoom
		}
		putUnit16(dst, uint16(r), bigEndian)
		return 2, char.OK
	}
	if len(dst) < 4 {
		return 0, char.NoRoom
	}
	r1, r2 := utf16.EncodeRune(r)
	putUnit16(dst, uint16(r1), bigEndian)
	putUnit16(dst[2:], uint16(r2), bigEndian)
	return 4, char.OK
}

// DecodeUTF32 decodes one UTF-32 unit. Surrogates and values above U+10FFFF
// make the whole unit invalid.
func DecodeUTF32(p []byte, bigEndian bool) (rune, int, char.Status) {
	if len(p) < 4 {
		return 0, len(p), char.Short
	}
	var v uint32
	if bigEndian {
		v = uint32(p[0])<<24 | uint32(p[1])<<16 | uint32(p[2])<<8 | uint32(p[3])
	} else {
		v = uint32(p[3])<<24 | uint32(p[2])<<16 | uint32(p[1])<<8 | uint32(p[0])
	}
	if v > maxRune || (v >= surrogateMin && v <= surrogateMax) {
		return 0, 4, char.Invalid
	}
	return rune(v), 4, char.OK
}

// EncodeUTF32 writes r as a single UTF-32 unit.
func EncodeUTF32(dst []byte, r rune, bigEndian bool) (int, char.Status) {
	if len(dst) < 4 {
		return 0, char.NoRoom
	}
	v := uint32(r)
	if bigEndian {
		dst[0], dst[1], dst[2], dst[3] = byte(v>>24), byte(v>>16), byte(v>>8), byte(v)
	} else {
		dst[0], dst[1], dst[2], dst[3] = byte(v), byte(v>>8), byte(v>>16), byte(v>>24)
	}
	return 4, char.OK
}

// ToUTF8 builds a codec that decodes with dec and writes UTF-8.
func ToUTF8(dec DecodeFunc) char.Func {
	return func(dst, src []byte) (int, int, char.Status) {
		r, n, st := dec(src)
		if st != char.OK {
			return 0, n, st
		}
		w, st := EncodeUTF8(dst, r)
		if st != char.OK {
			return 0, 0, st
		}
		return w, n, char.OK
	}
}

// FromUTF8 builds a codec that reads UTF-8 and writes with enc.
func FromUTF8(enc EncodeFunc) char.Func {
	return func(dst, src []byte) (int, int, char.Status) {
		r, n, st := DecodeUTF8(src)
		if st != char.OK {
			return 0, n, st
		}
		w, st := enc(dst, r)
		switch st {
		case char.OK:
			return w, n, char.OK
		case char.Undefined:
			return 0, n, char.Undefined
		default:
			return 0, 0, st
		}
	}
}

// UTF16 returns the decode and encode functions for one byte order.
func UTF16(bigEndian bool) (DecodeFunc, EncodeFunc) {
	return func(p []byte) (rune, int, char.Status) { return DecodeUTF16(p, bigEndian) },
		func(dst []byte, r rune) (int, char.Status) { return EncodeUTF16(dst, r, bigEndian) }
}

// UTF32 returns the decode and encode functions for one byte order.
func UTF32(bigEndian bool) (DecodeFunc, EncodeFunc) {
	return func(p []byte) (rune, int, char.Status) { return DecodeUTF32(p, bigEndian) },
		func(dst []byte, r rune) (int, char.Status) { return EncodeUTF32(dst, r, bigEndian) }
}
