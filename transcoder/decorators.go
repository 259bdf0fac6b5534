package transcoder

import (
	"github.com/wippyai/encconv/transcoder/internal/char"
)

var (
	lf     = []byte{'\n'}
	cr     = []byte{'\r'}
	crlf   = []byte{'\r', '\n'}
	quote  = []byte{'"'}
	quotes = []byte{'"', '"'}
)

func decorators() []*Transcoder {
	return []*Transcoder{
		newDecorator(UniversalNewline, func() char.Codec { return &universalNewline{} }),
		newDecorator(CRLFNewline, stateless(replaceByte('\n', crlf))),
		newDecorator(CRNewline, stateless(replaceByte('\n', cr))),
		newDecorator(XMLTextEscape, stateless(escaper(xmlText))),
		newDecorator(XMLAttrContentEscape, stateless(escaper(xmlAttrContent))),
		newDecorator(XMLAttrQuote, func() char.Codec { return &attrQuote{} }),
	}
}

// universalNewline turns CRLF and lone CR into LF.
type universalNewline struct {
	afterCR bool
}

func (u *universalNewline) Step(dst, src []byte) (int, int, char.Status) {
	switch b := src[0]; {
	case b == '\n' && u.afterCR:
		u.afterCR = false
		return 0, 1, char.OK
	case b == '\r':
		w, st := char.Put(dst, lf)
		if st != char.OK {
			return 0, 0, st
		}
		u.afterCR = true
		return w, 1, char.OK
	}
	w, st := char.Put(dst, src[:1])
	if st != char.OK {
		return 0, 0, st
	}
	u.afterCR = false
	return w, 1, char.OK
}

func (u *universalNewline) Finish([]byte) (int, char.Status) {
	u.afterCR = false
	return 0, char.OK
}

func (u *universalNewline) Reset() { u.afterCR = false }

func replaceByte(from byte, to []byte) char.Func {
	return func(dst, src []byte) (int, int, char.Status) {
		out := src[:1]
		if src[0] == from {
			out = to
		}
		w, st := char.Put(dst, out)
		if st != char.OK {
			return 0, 0, st
		}
		return w, 1, char.OK
	}
}

var (
	xmlText = map[byte][]byte{
		'&': []byte("&amp;"),
		'<': []byte("&lt;"),
		'>': []byte("&gt;"),
	}
	xmlAttrContent = map[byte][]byte{
		'&': []byte("&amp;"),
		'<': []byte("&lt;"),
		'>': []byte("&gt;"),
		'"': []byte("&quot;"),
	}
)

func escaper(table map[byte][]byte) char.Func {
	return func(dst, src []byte) (int, int, char.Status) {
		out, ok := table[src[0]]
		if !ok {
			out = src[:1]
		}
		w, st := char.Put(dst, out)
		if st != char.OK {
			return 0, 0, st
		}
		return w, 1, char.OK
	}
}

// attrQuote wraps the whole stream in double quotes.
type attrQuote struct {
	open bool
}

func (q *attrQuote) Step(dst, src []byte) (int, int, char.Status) {
	if q.open {
		w, st := char.Put(dst, src[:1])
		if st != char.OK {
			return 0, 0, st
		}
		return w, 1, char.OK
	}
	if len(dst) < 2 {
		return 0, 0, char.NoRoom
	}
	dst[0], dst[1] = '"', src[0]
	q.open = true
	return 2, 1, char.OK
}

func (q *attrQuote) Finish(dst []byte) (int, char.Status) {
	out := quote
	if !q.open {
		out = quotes
	}
	w, st := char.Put(dst, out)
	if st == char.OK {
		q.open = false
	}
	return w, st
}

func (q *attrQuote) Reset() { q.open = false }
