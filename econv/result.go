package econv

import (
	"github.com/wippyai/encconv/transcoder"
)

// Result is the terminal state of one Convert call.
type Result int

const (
	InvalidByteSequence Result = iota
	UndefinedConversion
	DestinationBufferFull
	SourceBufferEmpty
	Finished
	AfterOutput
	IncompleteInput
)

var resultNames = [...]string{
	InvalidByteSequence:   "invalid_byte_sequence",
	UndefinedConversion:   "undefined_conversion",
	DestinationBufferFull: "destination_buffer_full",
	SourceBufferEmpty:     "source_buffer_empty",
	Finished:              "finished",
	AfterOutput:           "after_output",
	IncompleteInput:       "incomplete_input",
}

func (r Result) String() string {
	if r < 0 || int(r) >= len(resultNames) {
		return "unknown"
	}
	return resultNames[r]
}

// IsError reports whether r stops on a character that could not be converted.
func (r Result) IsError() bool {
	return r == InvalidByteSequence || r == UndefinedConversion || r == IncompleteInput
}

func resultOf(k transcoder.ErrorKind) Result {
	switch k {
	case transcoder.UndefinedConversion:
		return UndefinedConversion
	case transcoder.IncompleteInput:
		return IncompleteInput
	default:
		return InvalidByteSequence
	}
}

// LastError describes the outcome of the most recent Convert call.
//
// Result is always set. The other fields are filled only when Result is an
// error and name the conversion step that failed, which may be an
// intermediate one.
type LastError struct {
	Result              Result
	SourceEncoding      string
	DestinationEncoding string
	ErrorBytes          []byte
	ReadAgainBytes      []byte
}

// Flags select decorators and error handling at Open and control single
// Convert calls.
type Flags uint32

const (
	InvalidMask    Flags = 0x0f
	InvalidReplace Flags = 0x02

	UndefMask       Flags = 0xf0
	UndefReplace    Flags = 0x20
	UndefHexCharref Flags = 0x30

	UniversalNewline Flags = 0x100
	CRLFNewline      Flags = 0x1000
	CRNewline        Flags = 0x2000
	XMLText          Flags = 0x4000
	XMLAttrContent   Flags = 0x8000
	XMLAttrQuote     Flags = 0x100000

	// PartialInput means more source follows the current call.
	PartialInput Flags = 0x10000
	// StopAfterOutput ends the call with AfterOutput as soon as one
	// character has been written.
	StopAfterOutput Flags = 0x20000
)

// Stage describes one step of a conversion chain.
type Stage struct {
	Source      string
	Destination string
	Decorator   string
}

func (s Stage) String() string {
	if s.Decorator != "" {
		return s.Decorator
	}
	return s.Source + " to " + s.Destination
}
