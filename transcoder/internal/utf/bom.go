package utf

import (
	"bytes"

	"github.com/wippyai/encconv/transcoder/internal/char"
)

// bomForm describes UTF-16 or UTF-32 with a leading byte order mark.
type bomForm struct {
	be, le []byte
	codecs func(bigEndian bool) (DecodeFunc, EncodeFunc)
}

var (
	utf16Form = &bomForm{be: []byte{0xFE, 0xFF}, le: []byte{0xFF, 0xFE}, codecs: UTF16}
	utf32Form = &bomForm{be: []byte{0x00, 0x00, 0xFE, 0xFF}, le: []byte{0xFF, 0xFE, 0x00, 0x00}, codecs: UTF32}
)

// BOMDecoder reads the byte order mark and then characters in that order,
// writing UTF-8. Input that does not start with a mark is invalid.
type BOMDecoder struct {
	form *bomForm
	conv char.Func
}

func NewUTF16Decoder() *BOMDecoder { return &BOMDecoder{form: utf16Form} }

func NewUTF32Decoder() *BOMDecoder { return &BOMDecoder{form: utf32Form} }

func (d *BOMDecoder) Step(dst, src []byte) (int, int, char.Status) {
	if d.conv != nil {
		return d.conv(dst, src)
	}
	size := len(d.form.be)
	if len(src) < size {
		return 0, len(src), char.Short
	}
	var dec DecodeFunc
	switch {
	case bytes.Equal(src[:size], d.form.be):
		dec, _ = d.form.codecs(true)
	case bytes.Equal(src[:size], d.form.le):
		dec, _ = d.form.codecs(false)
	default:
		return 0, size, char.Invalid
	}
	d.conv = ToUTF8(dec)
	return 0, size, char.OK
}

func (d *BOMDecoder) Finish([]byte) (int, char.Status) { return 0, char.OK }

func (d *BOMDecoder) Reset() { d.conv = nil }

// BOMEncoder reads UTF-8 and writes big endian units, preceded by a byte
// order mark on the first character.
type BOMEncoder struct {
	mark    []byte
	conv    char.Func
	started bool
}

func NewUTF16Encoder() *BOMEncoder { return newBOMEncoder(utf16Form) }

func NewUTF32Encoder() *BOMEncoder { return newBOMEncoder(utf32Form) }

func newBOMEncoder(f *bomForm) *BOMEncoder {
	_, enc := f.codecs(true)
	return &BOMEncoder{mark: f.be, conv: FromUTF8(enc)}
}

func (e *BOMEncoder) Step(dst, src []byte) (int, int, char.Status) {
	if e.started {
		return e.conv(dst, src)
	}
	if len(dst) < len(e.mark) {
		if _, n, st := DecodeUTF8(src); st != char.OK {
			return 0, n, st
		}
		return 0, 0, char.NoRoom
	}
	w, n, st := e.conv(dst[len(e.mark):], src)
	if st != char.OK {
		return 0, n, st
	}
	copy(dst, e.mark)
	e.started = true
	return len(e.mark) + w, n, char.OK
}

func (e *BOMEncoder) Finish([]byte) (int, char.Status) { return 0, char.OK }

func (e *BOMEncoder) Reset() { e.started = false }
