// Package econv implements the resumable conversion engine.
//
// An EConv chains the steps of a conversion path and moves bytes through
// them. Intermediate output waits in pooled stage buffers:
//
//	┌──────────────────────────────────────────────────────────────────┐
//	│ src ──→ [Shift_JIS to UTF-8] ──buf──→ [UTF-8 to EUC-KR] ──→ dst  │
//	│           ↑                                                      │
//	│        pending (bytes of a character split across calls)         │
//	└──────────────────────────────────────────────────────────────────┘
//
// # Results
//
// Convert returns how many bytes it used from src and wrote to dst, and why
// it stopped:
//
//	Finished               all input converted and the chain flushed
//	SourceBufferEmpty      src used up, PartialInput was set
//	DestinationBufferFull  dst has no room for the next character
//	AfterOutput            StopAfterOutput was set and output was written
//	InvalidByteSequence    malformed input
//	UndefinedConversion    character has no mapping in the target
//	IncompleteInput        input ends inside a character
//
// The error results stop on one character. LastError names the step that
// failed and the bytes involved. Conversion resumes after those bytes on
// the next call. Errors are reported in stream order: an error of an early
// step waits until everything before it has left the chain.
//
// # Putback
//
// Bytes held by the first step after a call (a split character, or the
// bytes to read again after an invalid sequence) can be taken back with
// Putback. Repeated calls before the next Convert return the same bytes.
//
// # Flags
//
// Replacement flags (InvalidReplace, UndefReplace, UndefHexCharref) and
// decorator flags are fixed at Open. PartialInput and StopAfterOutput apply
// to a single Convert call.
//
// # Thread Safety
//
// An EConv maintains state and is NOT thread-safe. Use one per goroutine.
package econv
