package converter

import (
	"github.com/wippyai/encconv/econv"
)

// Putbackable returns how many bytes Putback can return.
func (c *Converter) Putbackable() int { return c.ec.Putbackable() }

// Putback returns up to limit bytes the last conversion read from the source
// but did not convert, as a buffer in the source encoding. The converter
// forgets them; calling Putback again before the next conversion returns the
// same bytes.
func (c *Converter) Putback(limit int) *Buffer {
	return NewBuffer(c.Source(), c.ec.Putback(limit))
}

// PutbackAll is Putback(Putbackable()).
func (c *Converter) PutbackAll() *Buffer {
	return c.Putback(c.ec.Putbackable())
}

// ErrorRecord describes the character the last conversion stopped on.
type ErrorRecord struct {
	econv.LastError
}

// Slots returns the record as result, source encoding, destination encoding
// and error bytes, followed by the read-again bytes when there are any.
func (r *ErrorRecord) Slots() []any {
	slots := []any{r.Result, r.SourceEncoding, r.DestinationEncoding, r.ErrorBytes}
	if len(r.ReadAgainBytes) > 0 {
		slots = append(slots, r.ReadAgainBytes)
	}
	return slots
}

// LastError returns the error the last conversion stopped on, or nil when it
// did not stop on an error.
func (c *Converter) LastError() *ErrorRecord {
	le := c.ec.LastError()
	if !le.Result.IsError() {
		return nil
	}
	return &ErrorRecord{LastError: le}
}

// Errinfo returns the last result followed by source encoding, destination
// encoding, error bytes and read-again bytes. Slots that do not apply are
// nil.
func (c *Converter) Errinfo() [5]any {
	le := c.ec.LastError()
	info := [5]any{le.Result}
	if !le.Result.IsError() {
		return info
	}
	info[1] = le.SourceEncoding
	info[2] = le.DestinationEncoding
	info[3] = le.ErrorBytes
	if len(le.ReadAgainBytes) > 0 {
		info[4] = le.ReadAgainBytes
	}
	return info
}
