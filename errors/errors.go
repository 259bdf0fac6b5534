package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseLookup  Phase = "lookup"  // encoding and path resolution
	PhaseConvert Phase = "convert" // primitive and high-level conversion
	PhaseConfig  Phase = "config"  // option and flag parsing
)

// Kind categorizes the error
type Kind string

const (
	KindNotFound            Kind = "not_found"
	KindOutOfBounds         Kind = "out_of_bounds"
	KindOverflow            Kind = "overflow"
	KindTooLong             Kind = "too_long"
	KindInvalidInput        Kind = "invalid_input"
	KindUnsupported         Kind = "unsupported"
	KindInvalidByteSequence Kind = "invalid_byte_sequence"
	KindUndefinedConversion Kind = "undefined_conversion"
	KindIncompleteInput     Kind = "incomplete_input"
)

// Error is the structured error type used throughout the module
type Error struct {
	Value       any
	Cause       error
	Phase       Phase
	Kind        Kind
	Source      string
	Destination string
	Detail      string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Source != "" || e.Destination != "" {
		b.WriteString(": ")
		switch {
		case e.Source != "" && e.Destination != "":
			b.WriteString(e.Source)
			b.WriteString(" to ")
			b.WriteString(e.Destination)
		case e.Source != "":
			b.WriteString("from ")
			b.WriteString(e.Source)
		default:
			b.WriteString("to ")
			b.WriteString(e.Destination)
		}
	}

	if e.Detail != "" {
		if e.Source != "" || e.Destination != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Encodings sets the source and destination encoding names
func (b *Builder) Encodings(source, destination string) *Builder {
	b.err.Source = source
	b.err.Destination = destination
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// EncodingNotFound creates an unknown encoding name error
func EncodingNotFound(name string) *Error {
	return &Error{
		Phase:  PhaseLookup,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("unknown encoding name %q", name),
		Value:  name,
	}
}

// ConverterNotFound creates a missing conversion path error
func ConverterNotFound(source, destination string) *Error {
	return &Error{
		Phase:       PhaseLookup,
		Kind:        KindNotFound,
		Source:      source,
		Destination: destination,
		Detail:      "code converter not found",
	}
}

// OutOfBounds creates an out of bounds error
func OutOfBounds(phase Phase, detail string, index, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Detail: fmt.Sprintf("%s: %d (length %d)", detail, index, length),
		Value:  index,
	}
}

// Overflow creates an overflow error
func Overflow(phase Phase, detail string, value any) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOverflow,
		Detail: detail,
		Value:  value,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// ParseFailed creates an option parsing error
func ParseFailed(what string, cause error) *Error {
	return &Error{
		Phase:  PhaseConfig,
		Kind:   KindInvalidInput,
		Detail: fmt.Sprintf("parse %s", what),
		Cause:  cause,
	}
}
