package encoding

func unicodeEncoding(name string, minLen, maxLen, unit int, asciiCompat bool, aliases ...string) *Encoding {
	return &Encoding{
		Name:            name,
		Aliases:         aliases,
		MinLen:          minLen,
		MaxLen:          maxLen,
		Unit:            unit,
		ASCIICompatible: asciiCompat,
		Unicode:         true,
	}
}

func singleByte(name string, aliases ...string) *Encoding {
	return &Encoding{
		Name:            name,
		Aliases:         aliases,
		MinLen:          1,
		MaxLen:          1,
		Unit:            1,
		ASCIICompatible: true,
	}
}

func multiByte(name string, maxLen int, aliases ...string) *Encoding {
	return &Encoding{
		Name:            name,
		Aliases:         aliases,
		MinLen:          1,
		MaxLen:          maxLen,
		Unit:            1,
		ASCIICompatible: true,
	}
}

// SingleByteNames lists the table driven single byte encodings other than
// US-ASCII and ISO-8859-1.
var SingleByteNames = []string{
	"ISO-8859-2", "ISO-8859-3", "ISO-8859-4", "ISO-8859-5", "ISO-8859-6",
	"ISO-8859-7", "ISO-8859-8", "ISO-8859-9", "ISO-8859-10", "ISO-8859-13",
	"ISO-8859-14", "ISO-8859-15", "ISO-8859-16",
	"Windows-1250", "Windows-1251", Windows1252, "Windows-1253", "Windows-1254",
	"Windows-1255", "Windows-1256", "Windows-1257", "Windows-1258",
	"KOI8-R", "KOI8-U", "IBM437", "IBM866", "macRoman",
}

var singleByteAliases = map[string][]string{
	"ISO-8859-2":   {"ISO8859-2", "latin2"},
	"ISO-8859-5":   {"ISO8859-5", "cyrillic"},
	"ISO-8859-7":   {"ISO8859-7", "greek"},
	"ISO-8859-9":   {"ISO8859-9", "latin5"},
	"ISO-8859-15":  {"ISO8859-15", "latin9"},
	"Windows-1250": {"CP1250"},
	"Windows-1251": {"CP1251"},
	Windows1252:    {"CP1252"},
	"Windows-1253": {"CP1253"},
	"Windows-1254": {"CP1254"},
	"Windows-1255": {"CP1255"},
	"Windows-1256": {"CP1256"},
	"Windows-1257": {"CP1257"},
	"Windows-1258": {"CP1258"},
	"KOI8-R":       {"CP878"},
	"IBM437":       {"CP437"},
	"IBM866":       {"CP866"},
	"macRoman":     {"macintosh"},
}

func builtin() []*Encoding {
	out := []*Encoding{
		unicodeEncoding(UTF8, 1, 4, 1, true, "CP65001", "UTF8"),
		unicodeEncoding(UTF16, 2, 4, 2, false),
		unicodeEncoding(UTF16BE, 2, 4, 2, false, "UCS-2BE"),
		unicodeEncoding(UTF16LE, 2, 4, 2, false),
		unicodeEncoding(UTF32, 4, 4, 4, false),
		unicodeEncoding(UTF32BE, 4, 4, 4, false, "UCS-4BE"),
		unicodeEncoding(UTF32LE, 4, 4, 4, false, "UCS-4LE"),
		singleByte(ASCII, "ASCII", "ANSI_X3.4-1968", "646"),
		singleByte(ISO8859_1, "ISO8859-1", "latin1"),
		multiByte(ShiftJIS, 2, "SJIS", "MS_Kanji"),
		multiByte(EUCJP, 3, "eucJP"),
		multiByte(StatelessISO2022JP, 2),
		multiByte(GBK, 2, "CP936"),
		multiByte(GB18030, 4),
		multiByte(EUCKR, 2, "eucKR"),
		multiByte(Big5, 2, "CP950"),
		{
			Name:     ISO2022JP,
			Aliases:  []string{"ISO2022-JP"},
			MinLen:   1,
			MaxLen:   3,
			Unit:     1,
			Stateful: true,
		},
	}
	for _, name := range SingleByteNames {
		out = append(out, singleByte(name, singleByteAliases[name]...))
	}
	return out
}
