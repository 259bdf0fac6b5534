package mbcs

import (
	"testing"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"

	"github.com/wippyai/encconv/transcoder/internal/char"
)

func TestScanners(t *testing.T) {
	tests := []struct {
		name string
		scan Scanner
		in   []byte
		n    int
		st   char.Status
	}{
		{"sjis ascii", ShiftJIS, []byte("a"), 1, char.OK},
		{"sjis kana", ShiftJIS, []byte{0xB1}, 1, char.OK},
		{"sjis double", ShiftJIS, []byte{0x82, 0xA0}, 2, char.OK},
		{"sjis short", ShiftJIS, []byte{0x82}, 1, char.Short},
		{"sjis bad trail", ShiftJIS, []byte{0x82, 0x20}, 2, char.Invalid},
		{"sjis bad lead", ShiftJIS, []byte{0xFD}, 1, char.Invalid},
		{"eucjp double", EUCJP, []byte{0xA4, 0xA2}, 2, char.OK},
		{"eucjp kana", EUCJP, []byte{0x8E, 0xB1}, 2, char.OK},
		{"eucjp triple", EUCJP, []byte{0x8F, 0xB0, 0xA1}, 3, char.OK},
		{"eucjp triple short", EUCJP, []byte{0x8F, 0xB0}, 2, char.Short},
		{"eucjp triple bad", EUCJP, []byte{0x8F, 0xB0, 0x41}, 3, char.Invalid},
		{"eucjp bad kana", EUCJP, []byte{0x8E, 0xE0}, 2, char.Invalid},
		{"eucjp bad lead", EUCJP, []byte{0x80}, 1, char.Invalid},
		{"gbk double", GBK, []byte{0xD6, 0xD0}, 2, char.OK},
		{"gbk bad trail", GBK, []byte{0xD6, 0x7F}, 2, char.Invalid},
		{"gbk 80", GBK, []byte{0x80}, 1, char.Invalid},
		{"gb18030 four", GB18030, []byte{0x81, 0x30, 0x81, 0x30}, 4, char.OK},
		{"gb18030 four short", GB18030, []byte{0x81, 0x30, 0x81}, 3, char.Short},
		{"gb18030 four bad", GB18030, []byte{0x81, 0x30, 0x20}, 3, char.Invalid},
		{"gb18030 double", GB18030, []byte{0xD6, 0xD0}, 2, char.OK},
		{"gb18030 lead only", GB18030, []byte{0x81}, 1, char.Short},
		{"euckr double", EUCKR, []byte{0xB0, 0xA1}, 2, char.OK},
		{"euckr bad lead", EUCKR, []byte{0x81}, 1, char.Invalid},
		{"big5 double", Big5, []byte{0xA4, 0xA4}, 2, char.OK},
		{"big5 low trail", Big5, []byte{0xA4, 0x40}, 2, char.OK},
		{"big5 bad trail", Big5, []byte{0xA4, 0x80}, 2, char.Invalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, st := tt.scan(tt.in)
			if n != tt.n || st != tt.st {
				t.Errorf("scan(% X) = (%d, %v), want (%d, %v)", tt.in, n, st, tt.n, tt.st)
			}
		})
	}
}

func TestDecoder(t *testing.T) {
	tests := []struct {
		name string
		dec  char.Codec
		in   []byte
		want string
	}{
		{"shift_jis", NewDecoder(ShiftJIS, japanese.ShiftJIS), []byte{0x82, 0xA0}, "あ"},
		{"euc-jp", NewDecoder(EUCJP, japanese.EUCJP), []byte{0xA4, 0xA2}, "あ"},
		{"gbk", NewDecoder(GBK, simplifiedchinese.GBK), []byte{0xD6, 0xD0}, "中"},
		{"euc-kr", NewDecoder(EUCKR, korean.EUCKR), []byte{0xB0, 0xA1}, "가"},
		{"big5", NewDecoder(Big5, traditionalchinese.Big5), []byte{0xA4, 0xA4}, "中"},
		{"ascii", NewDecoder(ShiftJIS, japanese.ShiftJIS), []byte("z"), "z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var dst [8]byte
			w, n, st := tt.dec.Step(dst[:], tt.in)
			if st != char.OK || n != len(tt.in) {
				t.Fatalf("Step = (%d, %d, %v)", w, n, st)
			}
			if got := string(dst[:w]); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecoder_Undefined(t *testing.T) {
	// row 9 of JIS X 0208 is unassigned
	dec := NewDecoder(EUCJP, japanese.EUCJP)
	var dst [8]byte
	_, n, st := dec.Step(dst[:], []byte{0xA9, 0xA1})
	if st != char.Undefined || n != 2 {
		t.Errorf("Step = (%d, %v), want (2, undefined)", n, st)
	}
}

func TestDecoder_NoRoom(t *testing.T) {
	dec := NewDecoder(ShiftJIS, japanese.ShiftJIS)
	var dst [2]byte
	w, n, st := dec.Step(dst[:], []byte{0x82, 0xA0})
	if st != char.NoRoom || w != 0 || n != 0 {
		t.Errorf("Step = (%d, %d, %v), want no_room", w, n, st)
	}
}

func TestEncoder(t *testing.T) {
	enc := NewEncoder(ShiftJIS, japanese.ShiftJIS)
	var dst [8]byte

	w, n, st := enc.Step(dst[:], []byte("あ"))
	if st != char.OK || n != 3 || w != 2 || dst[0] != 0x82 || dst[1] != 0xA0 {
		t.Fatalf("Step = (%d, %d, %v) % X", w, n, st, dst[:w])
	}

	_, n, st = enc.Step(dst[:], []byte("é"))
	if st != char.Undefined || n != 2 {
		t.Errorf("é: got (%d, %v), want (2, undefined)", n, st)
	}

	_, n, st = enc.Step(dst[:], []byte{0xE3, 0x81})
	if st != char.Short || n != 2 {
		t.Errorf("truncated: got (%d, %v), want (2, short)", n, st)
	}
}

func TestEncoder_OutsideBoundaries(t *testing.T) {
	// x/text encodes the euro sign as the single byte 0x80, which GBK
	// boundaries reject
	enc := NewEncoder(GBK, simplifiedchinese.GBK)
	var dst [8]byte
	if _, n, st := enc.Step(dst[:], []byte("€")); st != char.Undefined || n != 3 {
		t.Errorf("got (%d, %v), want (3, undefined)", n, st)
	}
}
