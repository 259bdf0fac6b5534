package econv

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/transform"

	"github.com/wippyai/encconv"
	"github.com/wippyai/encconv/encoding"
	"github.com/wippyai/encconv/errors"
	"github.com/wippyai/encconv/transcoder"
)

// bytes of source appended to held input when building a window
const lookahead = 8

var (
	asciiReplacement   = []byte("?")
	unicodeReplacement = []byte{0xEF, 0xBF, 0xBD}
)

type stage struct {
	tc        encconv.Transcoding
	from, to  *encoding.Encoding
	decorator string
	out       *buffer // nil for the last stage
	flushed   bool
	deferred  *transcoder.CharError
}

func (s *stage) describe() Stage {
	if s.decorator != "" {
		return Stage{Decorator: s.decorator}
	}
	return Stage{Source: s.from.Name, Destination: s.to.Name}
}

// EConv is a resumable conversion from one encoding to another through a
// chain of stages. It is not safe for concurrent use.
type EConv struct {
	source      *encoding.Encoding
	destination *encoding.Encoding
	flags       Flags
	stages      []*stage

	// pending holds source bytes read by the first stage but not converted
	pending []byte
	window  []byte
	// spill holds output of the last stage that did not fit in dst
	spill *buffer

	// putback state, rebuilt at the end of every Convert
	snapshot []byte
	detached bool
	taken    int

	last        LastError
	replacement []byte
	finished    bool
}

// Open creates a converter from src to dst using the default registry.
func Open(src, dst string, flags Flags) (*EConv, error) {
	return OpenRegistry(transcoder.Default(), src, dst, flags)
}

// OpenRegistry creates a converter from src to dst. Decorator flags add the
// matching decorator stages. Converting an encoding to itself needs at least
// one decorator.
func OpenRegistry(reg *transcoder.Registry, src, dst string, flags Flags) (*EConv, error) {
	from, err := encoding.Lookup(src)
	if err != nil {
		return nil, err
	}
	to, err := encoding.Lookup(dst)
	if err != nil {
		return nil, err
	}
	decs, err := decoratorsFor(flags)
	if err != nil {
		return nil, err
	}

	var path []*transcoder.Transcoder
	if from.Name != to.Name {
		if path, err = reg.Path(from.Name, to.Name); err != nil {
			return nil, err
		}
	} else if decs.empty() {
		return nil, errors.ConverterNotFound(from.Name, to.Name)
	}

	e := &EConv{
		source:      from,
		destination: to,
		flags:       flags,
		last:        LastError{Result: SourceBufferEmpty},
		replacement: asciiReplacement,
	}
	if to.Unicode {
		e.replacement = unicodeReplacement
	}
	if err := e.build(reg, path, decs); err != nil {
		return nil, err
	}
	for _, st := range e.stages[:len(e.stages)-1] {
		st.out = newBuffer()
	}
	e.spill = newBuffer()

	Logger().Debug("converter opened",
		zap.String("source", from.Name),
		zap.String("destination", to.Name),
		zap.Stringers("stages", e.Stages()))
	return e, nil
}

type decoratorSet struct {
	// decode side decorators sit at the first ASCII compatible encoding,
	// encode side ones at the last
	decode []string
	encode []string
}

func (d decoratorSet) empty() bool { return len(d.decode) == 0 && len(d.encode) == 0 }

func decoratorsFor(flags Flags) (decoratorSet, error) {
	var d decoratorSet
	if flags&UniversalNewline != 0 {
		d.decode = append(d.decode, transcoder.UniversalNewline)
	}
	switch flags & (XMLText | XMLAttrContent) {
	case XMLText:
		d.encode = append(d.encode, transcoder.XMLTextEscape)
	case XMLAttrContent:
		d.encode = append(d.encode, transcoder.XMLAttrContentEscape)
	case XMLText | XMLAttrContent:
		return d, errors.InvalidInput(errors.PhaseLookup, "xml text and attribute escaping are exclusive")
	}
	if flags&XMLAttrQuote != 0 {
		d.encode = append(d.encode, transcoder.XMLAttrQuote)
	}
	switch flags & (CRLFNewline | CRNewline) {
	case CRLFNewline:
		d.encode = append(d.encode, transcoder.CRLFNewline)
	case CRNewline:
		d.encode = append(d.encode, transcoder.CRNewline)
	case CRLFNewline | CRNewline:
		return d, errors.InvalidInput(errors.PhaseLookup, "crlf and cr newline conversion are exclusive")
	}
	return d, nil
}

func (e *EConv) build(reg *transcoder.Registry, path []*transcoder.Transcoder, decs decoratorSet) error {
	encs := []*encoding.Encoding{e.source}
	for _, t := range path {
		encs = append(encs, encoding.MustLookup(t.Destination))
	}

	first, last := -1, -1
	for i, enc := range encs {
		if enc.ASCIICompatible {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	if first < 0 && !decs.empty() {
		err := errors.Unsupported(errors.PhaseLookup, "decorators need an ASCII compatible encoding on the path")
		err.Source, err.Destination = e.source.Name, e.destination.Name
		return err
	}

	for p, enc := range encs {
		if p == first {
			if err := e.addDecorators(reg, enc, decs.decode); err != nil {
				return err
			}
		}
		if p == last {
			if err := e.addDecorators(reg, enc, decs.encode); err != nil {
				return err
			}
		}
		if p < len(path) {
			e.stages = append(e.stages, &stage{tc: path[p].New(), from: enc, to: encs[p+1]})
		}
	}
	return nil
}

func (e *EConv) addDecorators(reg *transcoder.Registry, enc *encoding.Encoding, names []string) error {
	for _, name := range names {
		t, ok := reg.Decorator(name)
		if !ok {
			return errors.New(errors.PhaseLookup, errors.KindNotFound).
				Detail("decorator %s", name).
				Build()
		}
		e.stages = append(e.stages, &stage{tc: t.New(), from: enc, to: enc, decorator: name})
	}
	return nil
}

func (e *EConv) Source() *encoding.Encoding { return e.source }

func (e *EConv) Destination() *encoding.Encoding { return e.destination }

func (e *EConv) Flags() Flags { return e.flags }

// Stages returns the conversion chain in order.
func (e *EConv) Stages() []Stage {
	out := make([]Stage, len(e.stages))
	for i, st := range e.stages {
		out[i] = st.describe()
	}
	return out
}

// LastError returns the outcome of the most recent Convert call. Before the
// first call its Result is SourceBufferEmpty.
func (e *EConv) LastError() LastError { return e.last }

// Replacement returns the replacement text in UTF-8.
func (e *EConv) Replacement() []byte { return bytes.Clone(e.replacement) }

// SetReplacement sets the text written in place of invalid or undefined
// characters when the matching replace flag is set. It must be valid UTF-8.
func (e *EConv) SetReplacement(s string) error {
	if !utf8.ValidString(s) {
		return errors.InvalidInput(errors.PhaseConvert, fmt.Sprintf("replacement %q is not valid UTF-8", s))
	}
	e.replacement = []byte(s)
	return nil
}

// Putbackable returns how many bytes Putback can return.
func (e *EConv) Putbackable() int { return len(e.snapshot) }

// Putback returns up to n of the source bytes read but not converted by the
// last Convert call, and drops them from the converter's held input. The
// returned bytes are the trailing ones; asking again before the next Convert
// returns the same bytes.
func (e *EConv) Putback(n int) []byte {
	n = max(0, min(n, len(e.snapshot)))
	out := bytes.Clone(e.snapshot[len(e.snapshot)-n:])
	if !e.detached && n > e.taken {
		e.pending = e.pending[:len(e.pending)-(n-e.taken)]
		e.taken = n
	}
	return out
}

// Close releases the stage buffers.
func (e *EConv) Close() {
	for _, st := range e.stages {
		if st.out != nil {
			st.out.release()
			st.out = nil
		}
	}
	if e.spill != nil {
		e.spill.release()
		e.spill = nil
	}
}

// Convert converts src into dst and reports how many bytes of each were
// used. Without PartialInput the end of src is the end of the stream: the
// chain is flushed and a truncated character is IncompleteInput.
func (e *EConv) Convert(dst, src []byte, flags Flags) (nDst, nSrc int, res Result) {
	e.last = LastError{}
	c := &call{
		e:           e,
		dst:         dst,
		src:         src,
		atEOF:       flags&PartialInput == 0,
		afterOutput: flags&StopAfterOutput != 0,
		errStage:    -1,
	}
	res = c.run()
	e.last.Result = res
	e.takeSnapshot(res, c.errStage)

	if res.IsError() {
		Logger().Debug("conversion stopped",
			zap.Stringer("result", res),
			zap.String("source", e.last.SourceEncoding),
			zap.String("destination", e.last.DestinationEncoding),
			zap.Binary("error_bytes", e.last.ErrorBytes))
	}
	return c.nDst, c.nSrc, res
}

func (e *EConv) takeSnapshot(res Result, errStage int) {
	e.taken = 0
	if res == IncompleteInput && errStage == 0 {
		e.snapshot = bytes.Clone(e.last.ErrorBytes)
		e.detached = true
		return
	}
	e.snapshot = bytes.Clone(e.pending)
	e.detached = false
}

func (e *EConv) restart() {
	for _, st := range e.stages {
		st.flushed = false
		st.tc.Reset()
	}
	e.finished = false
}

type call struct {
	e           *EConv
	dst, src    []byte
	nDst, nSrc  int
	atEOF       bool
	afterOutput bool
	// windowAll is set when the current window reaches the end of src
	windowAll bool
	errStage  int
}

func (c *call) run() Result {
	e := c.e
	if e.finished {
		if len(c.src) == 0 && len(e.pending) == 0 {
			return Finished
		}
		e.restart()
	}

	last := len(e.stages) - 1
	for {
		progress := false
		for i := range e.stages {
			res, moved, done := c.runStage(i)
			if done {
				return res
			}
			progress = progress || moved
		}
		if progress {
			continue
		}

		for i := last; i >= 0; i-- {
			if ce := e.stages[i].deferred; ce != nil {
				return c.report(i, ce)
			}
		}
		if c.atEOF && len(e.pending) == 0 && c.nSrc == len(c.src) && e.stages[last].flushed && e.spill.empty() {
			e.finished = true
			return Finished
		}
		return SourceBufferEmpty
	}
}

// runStage moves one stage forward. done reports a terminal result.
func (c *call) runStage(i int) (res Result, moved, done bool) {
	e := c.e
	st := e.stages[i]
	st.deferred = nil
	last := i == len(e.stages)-1

	if last && !e.spill.empty() {
		n := c.flushSpill()
		if !e.spill.empty() {
			return DestinationBufferFull, n > 0, true
		}
		if c.afterOutput {
			return AfterOutput, true, true
		}
	}

	in, eof := c.input(i)
	if len(in) == 0 {
		if !eof || st.flushed {
			return 0, false, false
		}
		n, err := st.tc.Finish(c.output(i))
		if err != nil {
			if last {
				return c.spillFinish(st)
			}
			return 0, false, false
		}
		c.produced(i, n)
		st.flushed = true
		return 0, true, false
	}

	var nOut, nIn int
	var err error
	if last && c.afterOutput {
		nOut, nIn, err = transcodeOne(st.tc, c.output(i), in, eof)
	} else {
		nOut, nIn, err = st.tc.Transcode(c.output(i), in, eof)
	}
	c.consume(i, nIn)
	c.produced(i, nOut)
	moved = nIn > 0 || nOut > 0
	if last && nOut > 0 && c.afterOutput {
		return AfterOutput, true, true
	}

	var ce *transcoder.CharError
	switch {
	case err == nil:
	case err == transform.ErrShortDst:
		if last {
			if moved {
				return DestinationBufferFull, true, true
			}
			return c.spillOne(i)
		}
	case err == transform.ErrShortSrc:
		if i == 0 && c.hold() {
			moved = true
		}
	case stderrors.As(err, &ce):
		res, m, done := c.charError(i, ce)
		return res, moved || m, done
	default:
		panic(fmt.Sprintf("econv: unexpected error from %s: %v", st.describe(), err))
	}
	return 0, moved, false
}

// transcodeOne converts at most one output character by offering the step
// a destination that grows one byte at a time.
func transcodeOne(tc encconv.Transcoding, dst, src []byte, atEOF bool) (int, int, error) {
	for limit := 1; ; limit++ {
		limit = min(limit, len(dst))
		nDst, nSrc, err := tc.Transcode(dst[:limit], src, atEOF)
		if nDst > 0 || nSrc > 0 || err != transform.ErrShortDst || limit == len(dst) {
			return nDst, nSrc, err
		}
	}
}

// spillOne converts the next character of the last stage into the spill
// buffer when dst has room for only part of it, and copies out what fits.
func (c *call) spillOne(i int) (Result, bool, bool) {
	if len(c.output(i)) == 0 {
		return DestinationBufferFull, false, true
	}
	sp := c.e.spill
	in, eof := c.input(i)
	nOut, nIn, err := transcodeOne(c.e.stages[i].tc, sp.free(), in, eof)
	if nOut == 0 && nIn == 0 {
		var ce *transcoder.CharError
		if stderrors.As(err, &ce) {
			return c.charError(i, ce)
		}
		return DestinationBufferFull, false, true
	}
	c.consume(i, nIn)
	sp.end += nOut
	c.flushSpill()
	if !sp.empty() {
		return DestinationBufferFull, true, true
	}
	if c.afterOutput && nOut > 0 {
		return AfterOutput, true, true
	}
	return 0, true, false
}

// spillFinish flushes the last stage into the spill buffer.
func (c *call) spillFinish(st *stage) (Result, bool, bool) {
	if len(c.dst) == c.nDst {
		return DestinationBufferFull, false, true
	}
	sp := c.e.spill
	n, err := st.tc.Finish(sp.free())
	if err != nil {
		return DestinationBufferFull, false, true
	}
	sp.end += n
	st.flushed = true
	c.flushSpill()
	if !sp.empty() {
		return DestinationBufferFull, true, true
	}
	return 0, true, false
}

// flushSpill copies held output into dst and returns how much was copied.
func (c *call) flushSpill() int {
	sp := c.e.spill
	n := copy(c.dst[c.nDst:], sp.bytes())
	c.nDst += n
	sp.advance(n)
	return n
}

// input returns what stage i reads and whether that input is final.
func (c *call) input(i int) ([]byte, bool) {
	if i > 0 {
		prev := c.e.stages[i-1]
		return prev.out.bytes(), prev.flushed
	}
	rest := c.src[c.nSrc:]
	if len(c.e.pending) == 0 {
		c.windowAll = true
		return rest, c.atEOF
	}
	k := min(len(rest), lookahead)
	c.e.window = append(append(c.e.window[:0], c.e.pending...), rest[:k]...)
	c.windowAll = k == len(rest)
	return c.e.window, c.atEOF && c.windowAll
}

func (c *call) output(i int) []byte {
	if i == len(c.e.stages)-1 {
		return c.dst[c.nDst:]
	}
	return c.e.stages[i].out.free()
}

func (c *call) produced(i, n int) {
	if i == len(c.e.stages)-1 {
		c.nDst += n
		return
	}
	c.e.stages[i].out.end += n
}

func (c *call) consume(i, n int) {
	if n == 0 {
		return
	}
	if i > 0 {
		c.e.stages[i-1].out.advance(n)
		return
	}
	e := c.e
	held := len(e.pending)
	switch {
	case held == 0:
		c.nSrc += n
	case n < held:
		e.pending = e.pending[:copy(e.pending, e.pending[n:])]
	default:
		c.nSrc += n - held
		e.pending = e.pending[:0]
	}
}

// hold moves the unconverted tail of src into pending once the first stage
// has seen all of it.
func (c *call) hold() bool {
	rest := c.src[c.nSrc:]
	if !c.windowAll || len(rest) == 0 {
		return false
	}
	c.e.pending = append(c.e.pending, rest...)
	c.nSrc = len(c.src)
	return true
}

// downstreamEmpty reports whether every buffer from stage i onwards is drained.
func (c *call) downstreamEmpty(i int) bool {
	if !c.e.spill.empty() {
		return false
	}
	for _, st := range c.e.stages[i : len(c.e.stages)-1] {
		if !st.out.empty() {
			return false
		}
	}
	return true
}

func (c *call) charError(i int, ce *transcoder.CharError) (Result, bool, bool) {
	e := c.e
	st := e.stages[i]
	last := i == len(e.stages)-1

	// encoding a replacement may advance a stateful last stage
	if last && len(c.output(i)) == 0 && e.flags&(InvalidMask|UndefMask) != 0 {
		return DestinationBufferFull, false, true
	}
	if rep, ok := c.replacementFor(i, ce); ok {
		var out []byte
		if last {
			out = c.output(i)
			if len(out) < len(rep) {
				if len(out) == 0 {
					return DestinationBufferFull, false, true
				}
				copy(e.spill.reserve(len(rep)), rep)
				e.spill.end += len(rep)
				c.drop(i, ce)
				c.flushSpill()
				return DestinationBufferFull, true, true
			}
		} else {
			out = st.out.reserve(len(rep))
		}
		copy(out, rep)
		c.produced(i, len(rep))
		c.drop(i, ce)
		if last && c.afterOutput {
			return AfterOutput, true, true
		}
		return 0, true, false
	}

	if !c.downstreamEmpty(i) {
		st.deferred = ce
		return 0, false, false
	}
	return c.report(i, ce), true, true
}

// report records the error at the start of stage i's input and drops it.
func (c *call) report(i int, ce *transcoder.CharError) Result {
	st := c.e.stages[i]
	in, _ := c.input(i)
	errLen := ce.Len - ce.ReadAgain
	res := resultOf(ce.Kind)
	c.e.last = LastError{
		Result:              res,
		SourceEncoding:      st.from.Name,
		DestinationEncoding: st.to.Name,
		ErrorBytes:          bytes.Clone(in[:errLen]),
	}
	if ce.ReadAgain > 0 {
		c.e.last.ReadAgainBytes = bytes.Clone(in[errLen:ce.Len])
	}
	c.errStage = i
	c.drop(i, ce)
	return res
}

// drop consumes the error bytes. Read-again bytes of the first stage move
// to pending; later stages leave them in their input buffer.
func (c *call) drop(i int, ce *transcoder.CharError) {
	errLen := ce.Len - ce.ReadAgain
	if i > 0 {
		c.consume(i, errLen)
		return
	}
	in, _ := c.input(0)
	again := bytes.Clone(in[errLen:ce.Len])
	c.consume(0, ce.Len)
	c.e.pending = append(again, c.e.pending...)
}

// replacementFor returns the bytes written in place of the failed character
// in stage i's output encoding, if the flags ask for replacement and one can
// be produced.
func (c *call) replacementFor(i int, ce *transcoder.CharError) ([]byte, bool) {
	e := c.e
	st := e.stages[i]
	rep := e.replacement
	switch ce.Kind {
	case transcoder.UndefinedConversion:
		mode := e.flags & UndefMask
		if mode == 0 {
			return nil, false
		}
		if mode == UndefHexCharref {
			if st.from.Name != encoding.UTF8 {
				return nil, false
			}
			in, _ := c.input(i)
			r, _ := utf8.DecodeRune(in[:ce.Len])
			rep = fmt.Appendf(nil, "&#x%X;", r)
		}
	default:
		if e.flags&InvalidMask != InvalidReplace {
			return nil, false
		}
	}

	switch {
	case st.to.Name == encoding.UTF8:
		return rep, true
	case st.from.Name == encoding.UTF8:
		if out, ok := encodeReplacement(st.tc, rep); ok {
			return out, true
		}
		return encodeReplacement(st.tc, asciiReplacement)
	case st.to.ASCIICompatible:
		return asciiReplacement, true
	}
	return nil, false
}

// encodeReplacement runs UTF-8 text through a stateless step.
func encodeReplacement(tc encconv.Transcoding, rep []byte) ([]byte, bool) {
	out := make([]byte, len(rep)*4+8)
	n, _, err := tc.Transcode(out, rep, true)
	if err != nil {
		return nil, false
	}
	return out[:n], true
}
