package encoding

import (
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/encoding/ianaindex"

	"github.com/wippyai/encconv/errors"
)

// Canonical names used across the module.
const (
	UTF8               = "UTF-8"
	UTF16              = "UTF-16"
	UTF16BE            = "UTF-16BE"
	UTF16LE            = "UTF-16LE"
	UTF32              = "UTF-32"
	UTF32BE            = "UTF-32BE"
	UTF32LE            = "UTF-32LE"
	ASCII              = "US-ASCII"
	ISO8859_1          = "ISO-8859-1"
	ShiftJIS           = "Shift_JIS"
	EUCJP              = "EUC-JP"
	ISO2022JP          = "ISO-2022-JP"
	StatelessISO2022JP = "stateless-ISO-2022-JP"
	GBK                = "GBK"
	GB18030            = "GB18030"
	EUCKR              = "EUC-KR"
	Big5               = "Big5"
	Windows1252        = "Windows-1252"
)

const defaultTableEntries = 48

// Encoding describes the identity and byte rules of a character encoding.
type Encoding struct {
	Name    string
	Aliases []string
	// MinLen and MaxLen bound the byte length of one character.
	MinLen int
	MaxLen int
	// Unit is the input unit length: 1 for byte oriented encodings,
	// 2 for UTF-16 and 4 for UTF-32.
	Unit            int
	ASCIICompatible bool
	Unicode         bool
	Stateful        bool
}

func (e *Encoding) String() string {
	return e.Name
}

type table struct {
	byName map[string]*Encoding
	all    []*Encoding
}

var (
	tbl     *table
	tblOnce sync.Once
)

func load() *table {
	tblOnce.Do(func() {
		t := &table{byName: make(map[string]*Encoding, defaultTableEntries)}
		for _, e := range builtin() {
			t.add(e)
		}
		tbl = t
	})
	return tbl
}

func (t *table) add(e *Encoding) {
	t.all = append(t.all, e)
	t.byName[fold(e.Name)] = e
	for _, a := range e.Aliases {
		t.byName[fold(a)] = e
	}
}

func fold(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Lookup resolves a case-insensitive encoding name or alias. Names unknown to
// the table are tried against the IANA registry and mapped back onto it.
func Lookup(name string) (*Encoding, error) {
	t := load()
	if e, ok := t.byName[fold(name)]; ok {
		return e, nil
	}
	if canonical, ok := ianaName(name); ok {
		if e, ok := t.byName[fold(canonical)]; ok {
			return e, nil
		}
	}
	return nil, errors.EncodingNotFound(name)
}

// MustLookup is like Lookup but panics on unknown names.
func MustLookup(name string) *Encoding {
	e, err := Lookup(name)
	if err != nil {
		panic(err)
	}
	return e
}

// Canonical returns the canonical name for name, or name itself if unknown.
func Canonical(name string) string {
	if e, err := Lookup(name); err == nil {
		return e.Name
	}
	return name
}

// All returns every known encoding sorted by name.
func All() []*Encoding {
	t := load()
	out := make([]*Encoding, len(t.all))
	copy(out, t.all)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func ianaName(name string) (string, bool) {
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return "", false
	}
	canonical, err := ianaindex.IANA.Name(enc)
	if err != nil {
		return "", false
	}
	return canonical, true
}
