// Package transcoder provides the conversion steps between encodings and
// the registry that chains them.
//
// A Transcoder converts from one encoding to another. Almost every built-in
// transcoder reads or writes UTF-8, so a conversion between two other
// encodings runs through UTF-8 as an intermediate:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│ Shift_JIS ──[Transcoder]──→ UTF-8 ──[Transcoder]──→ EUC-KR  │
//	└─────────────────────────────────────────────────────────────┘
//
// # Built-in Transcoders
//
//	Family          Encodings
//	──────────────────────────────────────────────────────────
//	Unicode         UTF-16BE/LE, UTF-32BE/LE
//	single byte     US-ASCII, ISO-8859-*, Windows-125*, KOI8-*, ...
//	multibyte       Shift_JIS, EUC-JP, GBK, GB18030, EUC-KR, Big5
//	stateful        ISO-2022-JP via stateless-ISO-2022-JP and EUC-JP
//
// Single byte tables and multibyte character sets come from
// golang.org/x/text. Character boundaries are found here so a malformed
// sequence can be reported with exact byte counts.
//
// # Steps
//
// Transcoder.New returns an encconv.Transcoding. A step consumes whole
// characters and stops at the first one it cannot convert:
//
//	transform.ErrShortDst  dst cannot hold the next character
//	transform.ErrShortSrc  src ends inside a character (atEOF false)
//	*CharError             invalid, undefined or truncated character
//
// A CharError splits the bytes read into error bytes and read-again bytes.
// An error found in the first input unit covers that unit. An error found
// later leaves the unit that revealed it to be read again:
//
//	UTF-8     F1 61        error F1     read again 61
//	UTF-16BE  D8 00 00 40  error D8 00  read again 00
//
// # Path Search
//
// Registry.Path finds the shortest chain of transcoders between two
// encodings by breadth-first search. Registry.Destinations lists every
// encoding reachable from a source.
//
// # Decorators
//
// Decorators rewrite bytes of an ASCII compatible encoding without changing
// the encoding: newline conversion and XML escaping. They are looked up by
// name with Registry.Decorator.
//
// # Thread Safety
//
// Registry and Transcoder are immutable and safe for concurrent use.
// The default registry is built once on first use.
// Steps returned by Transcoder.New maintain state and are NOT thread-safe.
// Use separate steps per goroutine.
package transcoder
