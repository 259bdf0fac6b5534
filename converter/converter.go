package converter

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/wippyai/encconv/econv"
	"github.com/wippyai/encconv/encoding"
	"github.com/wippyai/encconv/errors"
	"github.com/wippyai/encconv/transcoder"
)

// Converter converts a byte stream from one encoding to another. It wraps
// an econv.EConv with encoding-tagged buffers, output growth and Go errors.
type Converter struct {
	ec      *econv.EConv
	maxSize int
	// input left behind by Convert after an error result
	rest []byte
}

type options struct {
	flags       econv.Flags
	replacement *string
	maxSize     int
	registry    *transcoder.Registry
}

// Option configures a Converter.
type Option func(*options)

// WithFlags sets the replacement and decorator flags.
func WithFlags(f econv.Flags) Option {
	return func(o *options) { o.flags |= f }
}

// WithReplacement sets the text written for invalid or undefined characters.
func WithReplacement(s string) Option {
	return func(o *options) { o.replacement = &s }
}

// WithMaxBufferSize bounds how large a destination may grow. The default is
// math.MaxInt32.
func WithMaxBufferSize(n int) Option {
	return func(o *options) { o.maxSize = n }
}

// WithRegistry uses reg instead of the default transcoder registry.
func WithRegistry(reg *transcoder.Registry) Option {
	return func(o *options) { o.registry = reg }
}

// New opens a converter from src to dst.
func New(src, dst string, opts ...Option) (*Converter, error) {
	o := options{maxSize: math.MaxInt32, registry: transcoder.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.maxSize <= 0 {
		return nil, errors.InvalidInput(errors.PhaseConfig, fmt.Sprintf("max buffer size %d", o.maxSize))
	}

	ec, err := econv.OpenRegistry(o.registry, src, dst, o.flags)
	if err != nil {
		return nil, err
	}
	if o.replacement != nil {
		if err := ec.SetReplacement(*o.replacement); err != nil {
			ec.Close()
			return nil, err
		}
	}
	return &Converter{ec: ec, maxSize: o.maxSize}, nil
}

// Close releases the converter's buffers. The converter must not be used
// afterwards.
func (c *Converter) Close() { c.ec.Close() }

func (c *Converter) Source() *encoding.Encoding { return c.ec.Source() }

func (c *Converter) Destination() *encoding.Encoding { return c.ec.Destination() }

func (c *Converter) Replacement() string { return string(c.ec.Replacement()) }

func (c *Converter) SetReplacement(s string) error { return c.ec.SetReplacement(s) }

// Convpath returns the conversion chain, decorators included.
func (c *Converter) Convpath() []econv.Stage { return c.ec.Stages() }

// SearchConvpath returns the chain a converter from src to dst with flags
// would use.
func SearchConvpath(src, dst string, flags econv.Flags) ([]econv.Stage, error) {
	ec, err := econv.Open(src, dst, flags)
	if err != nil {
		return nil, err
	}
	defer ec.Close()
	return ec.Stages(), nil
}

// AvailableDestinations lists every encoding src converts to.
func AvailableDestinations(src string) []string {
	return transcoder.Default().Destinations(src)
}

// EachTranscoder calls fn for every source encoding with its direct
// destinations.
func EachTranscoder(fn func(src string, dsts []string)) {
	transcoder.Default().Each(fn)
}

// Convert converts a chunk of a longer stream. Bytes of a character split at
// the end of src are kept for the next call. Invalid, undefined and
// truncated characters are returned as *errors.Error together with the
// output converted before them; the input after the failing character is
// kept and converted first by the next call.
func (c *Converter) Convert(src []byte) ([]byte, error) {
	return c.drain(src, econv.PartialInput)
}

// Finish ends the stream: it converts input kept from an earlier failure,
// flushes shift state and reports bytes of a character left incomplete.
func (c *Converter) Finish() ([]byte, error) {
	return c.drain(nil, 0)
}

func (c *Converter) drain(src []byte, flags econv.Flags) ([]byte, error) {
	in := NewBuffer(c.Source(), append(c.rest, src...))
	c.rest = nil
	dst := NewBufferSize(nil, max(16, in.Len()))
	res, err := c.PrimitiveConvert(in, dst, 0, -1, flags)
	if err != nil {
		return nil, err
	}
	if res.IsError() {
		c.rest = in.Bytes()
		return dst.Bytes(), c.resultError()
	}
	return dst.Bytes(), nil
}

var resultKinds = map[econv.Result]errors.Kind{
	econv.InvalidByteSequence: errors.KindInvalidByteSequence,
	econv.UndefinedConversion: errors.KindUndefinedConversion,
	econv.IncompleteInput:     errors.KindIncompleteInput,
}

// resultError turns the last error result into an *errors.Error carrying
// the LastError as its Value.
func (c *Converter) resultError() error {
	le := c.ec.LastError()
	var detail string
	switch le.Result {
	case econv.IncompleteInput:
		detail = fmt.Sprintf("incomplete %q on %s", le.ErrorBytes, le.SourceEncoding)
	case econv.UndefinedConversion:
		detail = fmt.Sprintf("%q from %s to %s", le.ErrorBytes, le.SourceEncoding, le.DestinationEncoding)
	default:
		if len(le.ReadAgainBytes) > 0 {
			detail = fmt.Sprintf("%q followed by %q on %s", le.ErrorBytes, le.ReadAgainBytes, le.SourceEncoding)
		} else {
			detail = fmt.Sprintf("%q on %s", le.ErrorBytes, le.SourceEncoding)
		}
	}
	return errors.New(errors.PhaseConvert, resultKinds[le.Result]).
		Encodings(c.Source().Name, c.Destination().Name).
		Value(le).
		Detail("%s", detail).
		Build()
}

func (c *Converter) logResult(res econv.Result, off, size int) {
	if ce := Logger().Check(zap.DebugLevel, "primitive convert"); ce != nil {
		ce.Write(
			zap.Stringer("result", res),
			zap.Int("offset", off),
			zap.Int("size", size),
		)
	}
}
