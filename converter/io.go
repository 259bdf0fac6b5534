package converter

import (
	"io"

	"github.com/wippyai/encconv/econv"
)

const (
	defaultBufferSize = 8 * 1024
	minBufferSize     = 16
)

// Reader converts bytes read from an underlying reader.
type Reader struct {
	source            io.Reader
	conv              *Converter
	buffer            []byte
	readPos, writePos int
	eof, done         bool
}

func NewReader(source io.Reader, conv *Converter) *Reader {
	return NewReaderSize(source, conv, defaultBufferSize)
}

// NewReaderSize returns a Reader whose input buffer holds size bytes.
func NewReaderSize(source io.Reader, conv *Converter, size int) *Reader {
	return &Reader{
		source: source,
		conv:   conv,
		buffer: make([]byte, max(size, minBufferSize)),
	}
}

// Read converts into p. A character that cannot be converted ends the Read
// with an *errors.Error; reading can continue after it.
func (r *Reader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	for !r.done {
		if !r.eof && r.readPos == r.writePos {
			n, err := r.source.Read(r.buffer)
			if n < 0 {
				panic("converter: source reader returned negative count from Read")
			}
			r.readPos, r.writePos = 0, n
			switch {
			case err == io.EOF:
				r.eof = true
			case err != nil:
				return 0, err
			}
		}

		flags := econv.PartialInput
		if r.eof {
			flags = 0
		}
		nDst, nSrc, res := r.conv.ec.Convert(p, r.buffer[r.readPos:r.writePos], flags)
		r.readPos += nSrc

		switch {
		case res.IsError():
			return nDst, r.conv.resultError()
		case res == econv.Finished:
			r.done = true
		case res == econv.DestinationBufferFull && nDst == 0:
			return 0, io.ErrShortBuffer
		}
		if nDst > 0 {
			return nDst, nil
		}
	}
	return 0, io.EOF
}

// Reset discards the reader's state and reads from source. The converter is
// reused and must be at the start of a stream.
func (r *Reader) Reset(source io.Reader) {
	*r = Reader{
		source: source,
		conv:   r.conv,
		buffer: r.buffer,
	}
}

// Writer converts bytes before writing them to an underlying writer. Bytes
// of a character split across Write calls are kept by the converter. Close
// must be called to flush the end of the stream.
type Writer struct {
	destination io.Writer
	conv        *Converter
	buffer      []byte
	writePos    int
}

func NewWriter(destination io.Writer, conv *Converter) *Writer {
	return NewWriterSize(destination, conv, defaultBufferSize)
}

// NewWriterSize returns a Writer whose output buffer holds size bytes.
func NewWriterSize(destination io.Writer, conv *Converter, size int) *Writer {
	return &Writer{
		destination: destination,
		conv:        conv,
		buffer:      make([]byte, max(size, minBufferSize)),
	}
}

// Write converts all of p. A character that cannot be converted stops the
// Write with an *errors.Error and the count of bytes consumed up to and
// including it.
func (w *Writer) Write(p []byte) (int, error) {
	return w.convert(p, econv.PartialInput)
}

func (w *Writer) convert(p []byte, flags econv.Flags) (int, error) {
	total := 0
	for {
		nDst, nSrc, res := w.conv.ec.Convert(w.buffer[w.writePos:], p[total:], flags)
		total += nSrc
		w.writePos += nDst

		switch {
		case res.IsError():
			return total, w.conv.resultError()
		case res == econv.DestinationBufferFull:
			if nDst == 0 && nSrc == 0 && w.writePos == 0 {
				return total, io.ErrShortBuffer
			}
			if err := w.Flush(); err != nil {
				return total, err
			}
		default:
			return total, nil
		}
	}
}

// Flush writes buffered output to the underlying writer.
func (w *Writer) Flush() error {
	if w.writePos == 0 {
		return nil
	}
	n, err := w.destination.Write(w.buffer[:w.writePos])
	if n < 0 {
		panic("converter: writer returned negative count from Write")
	}
	w.writePos = copy(w.buffer, w.buffer[n:w.writePos])
	if err == nil && w.writePos > 0 {
		err = io.ErrShortWrite
	}
	return err
}

// Close finishes the stream and flushes. It does not close the underlying
// writer.
func (w *Writer) Close() error {
	if _, err := w.convert(nil, 0); err != nil {
		return err
	}
	return w.Flush()
}

// Reset discards buffered output and writes to destination.
func (w *Writer) Reset(destination io.Writer) {
	*w = Writer{
		destination: destination,
		conv:        w.conv,
		buffer:      w.buffer,
	}
}
