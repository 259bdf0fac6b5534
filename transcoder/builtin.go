package transcoder

import (
	"unicode/utf8"

	xencoding "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"

	"github.com/wippyai/encconv/encoding"
	"github.com/wippyai/encconv/transcoder/internal/char"
	"github.com/wippyai/encconv/transcoder/internal/iso2022"
	"github.com/wippyai/encconv/transcoder/internal/mbcs"
	"github.com/wippyai/encconv/transcoder/internal/utf"
)

var charmaps = map[string]*charmap.Charmap{
	"ISO-8859-2":   charmap.ISO8859_2,
	"ISO-8859-3":   charmap.ISO8859_3,
	"ISO-8859-4":   charmap.ISO8859_4,
	"ISO-8859-5":   charmap.ISO8859_5,
	"ISO-8859-6":   charmap.ISO8859_6,
	"ISO-8859-7":   charmap.ISO8859_7,
	"ISO-8859-8":   charmap.ISO8859_8,
	"ISO-8859-9":   charmap.ISO8859_9,
	"ISO-8859-10":  charmap.ISO8859_10,
	"ISO-8859-13":  charmap.ISO8859_13,
	"ISO-8859-14":  charmap.ISO8859_14,
	"ISO-8859-15":  charmap.ISO8859_15,
	"ISO-8859-16":  charmap.ISO8859_16,
	"Windows-1250": charmap.Windows1250,
	"Windows-1251": charmap.Windows1251,
	"Windows-1252": charmap.Windows1252,
	"Windows-1253": charmap.Windows1253,
	"Windows-1254": charmap.Windows1254,
	"Windows-1255": charmap.Windows1255,
	"Windows-1256": charmap.Windows1256,
	"Windows-1257": charmap.Windows1257,
	"Windows-1258": charmap.Windows1258,
	"KOI8-R":       charmap.KOI8R,
	"KOI8-U":       charmap.KOI8U,
	"IBM437":       charmap.CodePage437,
	"IBM866":       charmap.CodePage866,
	"macRoman":     charmap.Macintosh,
}

type multibyte struct {
	name string
	scan mbcs.Scanner
	enc  xencoding.Encoding
}

var multibytes = []multibyte{
	{encoding.ShiftJIS, mbcs.ShiftJIS, japanese.ShiftJIS},
	{encoding.EUCJP, mbcs.EUCJP, japanese.EUCJP},
	{encoding.GBK, mbcs.GBK, simplifiedchinese.GBK},
	{encoding.GB18030, mbcs.GB18030, simplifiedchinese.GB18030},
	{encoding.EUCKR, mbcs.EUCKR, korean.EUCKR},
	{encoding.Big5, mbcs.Big5, traditionalchinese.Big5},
}

func builtin() []*Transcoder {
	var ts []*Transcoder
	pair := func(name string, dec utf.DecodeFunc, enc utf.EncodeFunc) {
		ts = append(ts,
			newTranscoder(name, encoding.UTF8, stateless(utf.ToUTF8(dec))),
			newTranscoder(encoding.UTF8, name, stateless(utf.FromUTF8(enc))),
		)
	}

	dec, enc := utf.UTF16(true)
	pair(encoding.UTF16BE, dec, enc)
	dec, enc = utf.UTF16(false)
	pair(encoding.UTF16LE, dec, enc)
	dec, enc = utf.UTF32(true)
	pair(encoding.UTF32BE, dec, enc)
	dec, enc = utf.UTF32(false)
	pair(encoding.UTF32LE, dec, enc)
	ts = append(ts,
		newTranscoder(encoding.UTF16, encoding.UTF8, func() char.Codec { return utf.NewUTF16Decoder() }),
		newTranscoder(encoding.UTF8, encoding.UTF16, func() char.Codec { return utf.NewUTF16Encoder() }),
		newTranscoder(encoding.UTF32, encoding.UTF8, func() char.Codec { return utf.NewUTF32Decoder() }),
		newTranscoder(encoding.UTF8, encoding.UTF32, func() char.Codec { return utf.NewUTF32Encoder() }),
	)
	pair(encoding.ASCII, decodeASCII, limitEncoder(0x7F))
	pair(encoding.ISO8859_1, decodeLatin1, limitEncoder(0xFF))

	for _, name := range encoding.SingleByteNames {
		cm := charmaps[name]
		pair(name, charmapDecoder(cm), charmapEncoder(cm))
	}

	for _, m := range multibytes {
		ts = append(ts,
			newTranscoder(m.name, encoding.UTF8, func() char.Codec { return mbcs.NewDecoder(m.scan, m.enc) }),
			newTranscoder(encoding.UTF8, m.name, func() char.Codec { return mbcs.NewEncoder(m.scan, m.enc) }),
		)
	}

	ts = append(ts,
		newTranscoder(encoding.ISO2022JP, encoding.StatelessISO2022JP, func() char.Codec { return iso2022.NewDecoder() }),
		newTranscoder(encoding.StatelessISO2022JP, encoding.ISO2022JP, func() char.Codec { return iso2022.NewEncoder() }),
		newTranscoder(encoding.StatelessISO2022JP, encoding.EUCJP, stateless(iso2022.ToEUCJP)),
		newTranscoder(encoding.EUCJP, encoding.StatelessISO2022JP, stateless(iso2022.FromEUCJP)),
	)

	return append(ts, decorators()...)
}

func decodeASCII(p []byte) (rune, int, char.Status) {
	if p[0] >= utf8.RuneSelf {
		return 0, 1, char.Invalid
	}
	return rune(p[0]), 1, char.OK
}

func decodeLatin1(p []byte) (rune, int, char.Status) {
	return rune(p[0]), 1, char.OK
}

func limitEncoder(limit rune) utf.EncodeFunc {
	return func(dst []byte, r rune) (int, char.Status) {
		if r > limit {
			return 0, char.Undefined
		}
		if len(dst) == 0 {
			return 0, char.NoRoom
		}
		dst[0] = byte(r)
		return 1, char.OK
	}
}

func charmapDecoder(cm *charmap.Charmap) utf.DecodeFunc {
	return func(p []byte) (rune, int, char.Status) {
		r := cm.DecodeByte(p[0])
		if r == utf8.RuneError {
			return 0, 1, char.Undefined
		}
		return r, 1, char.OK
	}
}

func charmapEncoder(cm *charmap.Charmap) utf.EncodeFunc {
	return func(dst []byte, r rune) (int, char.Status) {
		b, ok := cm.EncodeRune(r)
		if !ok {
			return 0, char.Undefined
		}
		if len(dst) == 0 {
			return 0, char.NoRoom
		}
		dst[0] = b
		return 1, char.OK
	}
}
