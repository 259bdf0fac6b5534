package transcoder

import (
	"fmt"

	"golang.org/x/text/transform"

	"github.com/wippyai/encconv"
	"github.com/wippyai/encconv/transcoder/internal/char"
)

// ErrorKind classifies a character that could not be converted.
type ErrorKind uint8

const (
	InvalidByteSequence ErrorKind = iota + 1
	UndefinedConversion
	IncompleteInput
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidByteSequence:
		return "invalid_byte_sequence"
	case UndefinedConversion:
		return "undefined_conversion"
	case IncompleteInput:
		return "incomplete_input"
	default:
		return "unknown"
	}
}

// CharError reports the character at the start of the unconsumed input.
//
// The first Len-ReadAgain bytes are the error bytes. The trailing ReadAgain
// bytes were read while detecting the error and must be converted again.
type CharError struct {
	Kind      ErrorKind
	Len       int
	ReadAgain int
}

func (e *CharError) Error() string {
	if e.ReadAgain > 0 {
		return fmt.Sprintf("%s: %d bytes, %d to read again", e.Kind, e.Len-e.ReadAgain, e.ReadAgain)
	}
	return fmt.Sprintf("%s: %d bytes", e.Kind, e.Len)
}

// invalidError splits n bytes read into error and read-again bytes. An error
// found within the first unit covers that whole unit; otherwise the unit in
// which it was found is read again.
func invalidError(n, unit, avail int) *CharError {
	if n <= unit {
		if unit > avail {
			unit = avail
		}
		return &CharError{Kind: InvalidByteSequence, Len: unit}
	}
	discard := (n - 1) / unit * unit
	return &CharError{Kind: InvalidByteSequence, Len: n, ReadAgain: n - discard}
}

// step runs a character codec over whole buffers.
type step struct {
	codec char.Codec
	unit  int
}

var _ encconv.Transcoding = (*step)(nil)

func (s *step) Transcode(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		w, n, st := s.codec.Step(dst[nDst:], src[nSrc:])
		switch st {
		case char.OK:
			nDst += w
			nSrc += n
		case char.NoRoom:
			return nDst, nSrc, transform.ErrShortDst
		case char.Short:
			if !atEOF {
				return nDst, nSrc, transform.ErrShortSrc
			}
			return nDst, nSrc, &CharError{Kind: IncompleteInput, Len: len(src) - nSrc}
		case char.Invalid:
			return nDst, nSrc, invalidError(n, s.unit, len(src)-nSrc)
		default:
			return nDst, nSrc, &CharError{Kind: UndefinedConversion, Len: n}
		}
	}
	return nDst, nSrc, nil
}

func (s *step) Finish(dst []byte) (int, error) {
	w, st := s.codec.Finish(dst)
	if st == char.NoRoom {
		return 0, transform.ErrShortDst
	}
	return w, nil
}

func (s *step) Reset() { s.codec.Reset() }
