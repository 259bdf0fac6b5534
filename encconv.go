package encconv

// Transcoding is one live conversion step between two encodings.
//
// Transcode consumes whole characters only. It returns transform.ErrShortDst
// when dst cannot hold the next character, transform.ErrShortSrc when src ends
// inside a character and atEOF is false, or a *transcoder.CharError for an
// invalid, undefined or truncated character at src[nSrc:].
type Transcoding interface {
	Transcode(dst, src []byte, atEOF bool) (nDst, nSrc int, err error)
	// Finish writes the bytes needed to return to the initial shift state.
	Finish(dst []byte) (nDst int, err error)
	Reset()
}
