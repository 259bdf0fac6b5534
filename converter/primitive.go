package converter

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/wippyai/encconv/econv"
	"github.com/wippyai/encconv/errors"
)

// Argument errors of PrimitiveConvert, matched with errors.Is.
var (
	ErrOffsetTooBig      = &errors.Error{Phase: errors.PhaseConvert, Kind: errors.KindOutOfBounds}
	ErrOffsetSizeTooBig  = &errors.Error{Phase: errors.PhaseConvert, Kind: errors.KindOverflow}
	ErrConversionTooLong = &errors.Error{Phase: errors.PhaseConvert, Kind: errors.KindTooLong}
)

// PrimitiveConvert converts src into dst starting at offset and writing at
// most size bytes.
//
// A nil src is an empty source. Consumed bytes are removed from the front of
// src. dst is cut to the end of the written bytes and tagged with the
// destination encoding.
//
// An offset of 0 appends at the current end of dst. A size of -1 grows the
// output: it starts at max(16, src.Len()) and doubles on every
// DestinationBufferFull, so that result is never returned in this mode.
func (c *Converter) PrimitiveConvert(src, dst *Buffer, offset, size int, flags econv.Flags) (econv.Result, error) {
	if dst == nil {
		return 0, errors.InvalidInput(errors.PhaseConvert, "nil destination buffer")
	}
	if offset < 0 {
		return 0, errors.OutOfBounds(errors.PhaseConvert, "negative offset", offset, dst.Len())
	}
	growing := size == -1
	if growing {
		size = 16
		if src != nil {
			size = max(size, src.Len())
		}
	} else if size < 0 {
		return 0, errors.InvalidInput(errors.PhaseConvert, fmt.Sprintf("negative size %d", size))
	}

	for {
		off := offset
		if off == 0 {
			off = dst.Len()
		}
		if off > dst.Len() {
			return 0, errors.OutOfBounds(errors.PhaseConvert, "output offset too big", off, dst.Len())
		}
		if c.maxSize-off < size {
			return 0, errors.Overflow(errors.PhaseConvert,
				fmt.Sprintf("output offset %d plus size %d exceeds %d", off, size, c.maxSize), off)
		}

		dst.Grow(off + size)
		var in []byte
		if src != nil {
			in = src.Bytes()
		}
		nDst, nSrc, res := c.ec.Convert(dst.buf[off:off+size], in, flags)
		if src != nil {
			src.consume(nSrc)
		}
		dst.n = off + nDst
		dst.enc = c.ec.Destination()
		c.logResult(res, off, size)

		if !growing || res != econv.DestinationBufferFull {
			return res, nil
		}
		if c.maxSize/2 < size {
			return 0, errors.New(errors.PhaseConvert, errors.KindTooLong).
				Value(size).
				Detail("conversion result of more than %d bytes", size).
				Build()
		}
		size *= 2
		offset = 0
		Logger().Debug("growing destination", zap.Int("size", size))
	}
}
