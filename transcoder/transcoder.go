package transcoder

import (
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/encconv"
	"github.com/wippyai/encconv/encoding"
	"github.com/wippyai/encconv/errors"
	"github.com/wippyai/encconv/transcoder/internal/char"
)

// Decorator names.
const (
	UniversalNewline     = "universal_newline"
	CRLFNewline          = "crlf_newline"
	CRNewline            = "cr_newline"
	XMLTextEscape        = "xml_text_escape"
	XMLAttrContentEscape = "xml_attr_content_escape"
	XMLAttrQuote         = "xml_attr_quote"
)

// Transcoder converts from one encoding to another, or, for decorators,
// rewrites bytes of an ASCII compatible encoding in place.
type Transcoder struct {
	Source      string
	Destination string
	// Decorator is the decorator name; empty for encoding conversions.
	Decorator string

	unit     int
	newCodec func() char.Codec
}

// New returns a fresh conversion step in its initial state.
func (t *Transcoder) New() encconv.Transcoding {
	return &step{codec: t.newCodec(), unit: t.unit}
}

func (t *Transcoder) IsDecorator() bool { return t.Decorator != "" }

func (t *Transcoder) String() string {
	if t.IsDecorator() {
		return t.Decorator
	}
	return t.Source + " to " + t.Destination
}

func newTranscoder(src, dst string, newCodec func() char.Codec) *Transcoder {
	return &Transcoder{
		Source:      src,
		Destination: dst,
		unit:        encoding.MustLookup(src).Unit,
		newCodec:    newCodec,
	}
}

func stateless(f char.Func) func() char.Codec {
	return func() char.Codec { return f }
}

func newDecorator(name string, newCodec func() char.Codec) *Transcoder {
	return &Transcoder{Decorator: name, unit: 1, newCodec: newCodec}
}

// Registry indexes transcoders by encoding pair. A registry is immutable once
// built and safe for concurrent use.
type Registry struct {
	next       map[string][]*Transcoder
	decorators map[string]*Transcoder
}

// NewRegistry builds a registry from ts. Encoding conversions are keyed by
// Source and Destination; the first registration of a pair wins.
func NewRegistry(ts ...*Transcoder) *Registry {
	r := &Registry{
		next:       make(map[string][]*Transcoder),
		decorators: make(map[string]*Transcoder),
	}
	for _, t := range ts {
		if t.IsDecorator() {
			if _, ok := r.decorators[t.Decorator]; !ok {
				r.decorators[t.Decorator] = t
			}
			continue
		}
		if _, ok := r.Lookup(t.Source, t.Destination); ok {
			continue
		}
		r.next[t.Source] = append(r.next[t.Source], t)
	}
	return r
}

var (
	defaultRegistry *Registry
	defaultOnce     sync.Once
)

// Default returns the registry of built-in transcoders, building it on
// first use.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry(builtin()...)
		Logger().Debug("registry built", zap.Int("sources", len(defaultRegistry.next)))
	})
	return defaultRegistry
}

// Lookup returns the direct transcoder from src to dst. Names must be canonical.
func (r *Registry) Lookup(src, dst string) (*Transcoder, bool) {
	for _, t := range r.next[src] {
		if t.Destination == dst {
			return t, true
		}
	}
	return nil, false
}

// Decorator returns the decorator registered under name.
func (r *Registry) Decorator(name string) (*Transcoder, bool) {
	t, ok := r.decorators[name]
	return t, ok
}

// Path returns the shortest transcoder chain from src to dst. Ties go to
// the earlier registration. Converting an encoding to itself is not a path.
func (r *Registry) Path(src, dst string) ([]*Transcoder, error) {
	from, err := encoding.Lookup(src)
	if err != nil {
		return nil, err
	}
	to, err := encoding.Lookup(dst)
	if err != nil {
		return nil, err
	}
	if from.Name == to.Name {
		return nil, errors.ConverterNotFound(from.Name, to.Name)
	}

	prev := map[string]*Transcoder{from.Name: nil}
	queue := []string{from.Name}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, t := range r.next[cur] {
			if _, seen := prev[t.Destination]; seen {
				continue
			}
			prev[t.Destination] = t
			if t.Destination == to.Name {
				return r.unwind(prev, to.Name), nil
			}
			queue = append(queue, t.Destination)
		}
	}
	return nil, errors.ConverterNotFound(from.Name, to.Name)
}

func (r *Registry) unwind(prev map[string]*Transcoder, dst string) []*Transcoder {
	var path []*Transcoder
	for t := prev[dst]; t != nil; t = prev[t.Source] {
		path = append(path, t)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// Destinations returns every encoding reachable from src, sorted by name.
func (r *Registry) Destinations(src string) []string {
	from, err := encoding.Lookup(src)
	if err != nil {
		return nil
	}
	seen := map[string]bool{from.Name: true}
	queue := []string{from.Name}
	var out []string
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, t := range r.next[cur] {
			if seen[t.Destination] {
				continue
			}
			seen[t.Destination] = true
			out = append(out, t.Destination)
			queue = append(queue, t.Destination)
		}
	}
	sort.Strings(out)
	return out
}

// Each calls fn for every source encoding, in name order, with its direct
// destinations in registration order.
func (r *Registry) Each(fn func(src string, dsts []string)) {
	srcs := make([]string, 0, len(r.next))
	for src := range r.next {
		srcs = append(srcs, src)
	}
	sort.Strings(srcs)
	for _, src := range srcs {
		dsts := make([]string, 0, len(r.next[src]))
		for _, t := range r.next[src] {
			dsts = append(dsts, t.Destination)
		}
		fn(src, dsts)
	}
}
