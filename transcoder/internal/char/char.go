// Package char defines the single character conversion contract shared by
// the codec packages.
package char

// Status is the outcome of converting one character.
type Status uint8

const (
	// OK means the character was converted.
	OK Status = iota
	// NoRoom means dst cannot hold the converted character. Nothing was written.
	NoRoom
	// Short means src ends inside a character. nSrc is the number of bytes read.
	Short
	// Invalid means nSrc bytes were read and the last of them broke the sequence.
	Invalid
	// Undefined means a well formed character of nSrc bytes has no mapping.
	Undefined
)

func (s Status) String() string {
	switch s {
	case OK:
		return "ok"
	case NoRoom:
		return "no_room"
	case Short:
		return "short"
	case Invalid:
		return "invalid"
	case Undefined:
		return "undefined"
	default:
		return "unknown"
	}
}

// Codec converts the character at the start of src.
//
// Step is never called with an empty src and must not change its state
// unless it returns OK.
type Codec interface {
	Step(dst, src []byte) (nDst, nSrc int, st Status)
	// Finish writes the sequence returning to the initial state.
	Finish(dst []byte) (nDst int, st Status)
	Reset()
}

// Func adapts a stateless conversion function to Codec.
type Func func(dst, src []byte) (nDst, nSrc int, st Status)

func (f Func) Step(dst, src []byte) (int, int, Status) { return f(dst, src) }

func (Func) Finish([]byte) (int, Status) { return 0, OK }

func (Func) Reset() {}

// Put writes b to dst as one unit.
func Put(dst, b []byte) (int, Status) {
	if len(dst) < len(b) {
		return 0, NoRoom
	}
	return copy(dst, b), OK
}
