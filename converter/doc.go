// Package converter drives conversions over encoding-tagged buffers.
//
// PrimitiveConvert is the low level entry point. It converts from a source
// Buffer into a destination Buffer at a given offset, either into a fixed
// amount of space or growing the destination until the input is used up:
//
//	size   offset  behavior
//	──────────────────────────────────────────────────────────────
//	n      k       write at most n bytes at dst[k:]
//	n      0       write at most n bytes after the end of dst
//	-1     any     start at max(16, src.Len()) and double on full
//
// Convert and Finish wrap it for chunked conversion and report invalid,
// undefined and incomplete characters as *errors.Error values whose Value is
// the econv.LastError. Reader and Writer adapt a Converter to io.Reader and
// io.Writer.
//
// # Error Info
//
// After a conversion stops on a character, LastError and Errinfo describe
// it and Putback returns source bytes the converter read but did not
// convert:
//
//	input "\xF1abc" from UTF-8
//	LastError().Slots()  [invalid_byte_sequence UTF-8 UTF-16BE "\xF1" "a"]
//	Putback(10)          "a"
//
// # Thread Safety
//
// A Converter and its Readers and Writers are NOT thread-safe.
// AvailableDestinations, EachTranscoder and SearchConvpath may be called
// from any goroutine.
package converter
