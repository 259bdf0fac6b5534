// Package mbcs finds character boundaries in multibyte encodings and runs
// single characters through golang.org/x/text codecs.
package mbcs

import "github.com/wippyai/encconv/transcoder/internal/char"

// Scanner returns the length of the character at the start of p.
//
// For Invalid, n counts the bytes read including the one that broke the
// sequence. For Short, n is len(p).
type Scanner func(p []byte) (n int, st char.Status)

func in(b, lo, hi byte) bool { return b >= lo && b <= hi }

// ShiftJIS: single bytes 00-7F and A1-DF, lead 81-9F or E0-FC with trail
// 40-7E or 80-FC.
func ShiftJIS(p []byte) (int, char.Status) {
	if len(p) == 0 {
		return 0, char.Short
	}
	b := p[0]
	switch {
	case b < 0x80, in(b, 0xA1, 0xDF):
		return 1, char.OK
	case in(b, 0x81, 0x9F), in(b, 0xE0, 0xFC):
		if len(p) < 2 {
			return len(p), char.Short
		}
		if !(in(p[1], 0x40, 0x7E) || in(p[1], 0x80, 0xFC)) {
			return 2, char.Invalid
		}
		return 2, char.OK
	}
	return 1, char.Invalid
}

// EUCJP: code set 0 (00-7F), code set 1 (A1-FE A1-FE), code set 2
// (8E A1-DF) and code set 3 (8F A1-FE A1-FE).
func EUCJP(p []byte) (int, char.Status) {
	if len(p) == 0 {
		return 0, char.Short
	}
	b := p[0]
	var lo, hi byte
	size := 2
	switch {
	case b < 0x80:
		return 1, char.OK
	case b == 0x8E:
		lo, hi = 0xA1, 0xDF
	case b == 0x8F:
		lo, hi = 0xA1, 0xFE
		size = 3
	case in(b, 0xA1, 0xFE):
		lo, hi = 0xA1, 0xFE
	default:
		return 1, char.Invalid
	}
	for i := 1; i < size; i++ {
		if i >= len(p) {
			return len(p), char.Short
		}
		if !in(p[i], lo, hi) {
			return i + 1, char.Invalid
		}
		lo, hi = 0xA1, 0xFE
	}
	return size, char.OK
}

// GBK: lead 81-FE with trail 40-7E or 80-FE.
func GBK(p []byte) (int, char.Status) {
	if len(p) == 0 {
		return 0, char.Short
	}
	b := p[0]
	switch {
	case b < 0x80:
		return 1, char.OK
	case in(b, 0x81, 0xFE):
		if len(p) < 2 {
			return len(p), char.Short
		}
		if !(in(p[1], 0x40, 0x7E) || in(p[1], 0x80, 0xFE)) {
			return 2, char.Invalid
		}
		return 2, char.OK
	}
	return 1, char.Invalid
}

// GB18030 extends GBK with four byte sequences: lead 81-FE, 30-39, 81-FE, 30-39.
func GB18030(p []byte) (int, char.Status) {
	if len(p) < 2 || !in(p[0], 0x81, 0xFE) || !in(p[1], 0x30, 0x39) {
		return GBK(p)
	}
	for i, r := range [...][2]byte{{0x81, 0xFE}, {0x30, 0x39}} {
		pos := i + 2
		if pos >= len(p) {
			return len(p), char.Short
		}
		if !in(p[pos], r[0], r[1]) {
			return pos + 1, char.Invalid
		}
	}
	return 4, char.OK
}

// EUCKR: lead and trail both A1-FE.
func EUCKR(p []byte) (int, char.Status) {
	if len(p) == 0 {
		return 0, char.Short
	}
	b := p[0]
	switch {
	case b < 0x80:
		return 1, char.OK
	case in(b, 0xA1, 0xFE):
		if len(p) < 2 {
			return len(p), char.Short
		}
		if !in(p[1], 0xA1, 0xFE) {
			return 2, char.Invalid
		}
		return 2, char.OK
	}
	return 1, char.Invalid
}

// Big5: lead 81-FE with trail 40-7E or A1-FE.
func Big5(p []byte) (int, char.Status) {
	if len(p) == 0 {
		return 0, char.Short
	}
	b := p[0]
	switch {
	case b < 0x80:
		return 1, char.OK
	case in(b, 0x81, 0xFE):
		if len(p) < 2 {
			return len(p), char.Short
		}
		if !(in(p[1], 0x40, 0x7E) || in(p[1], 0xA1, 0xFE)) {
			return 2, char.Invalid
		}
		return 2, char.OK
	}
	return 1, char.Invalid
}
