// Package errors provides structured error types for the encconv module.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the source and destination encoding names, a detail
// message, the offending value and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseConvert, errors.KindOutOfBounds).
//		Encodings("UTF-8", "UTF-16BE").
//		Detail("output offset too big").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.EncodingNotFound("EBCDIC-XYZ")
//	err := errors.ConverterNotFound("UTF-8", "UTF-8")
//
// All errors implement the standard error interface and support errors.Is/As.
// errors.Is matches on Phase and Kind, so package level sentinels can be
// compared against errors carrying a different detail.
package errors
