// Package logging holds the swappable zap logger behind each package's
// Logger and SetLogger functions.
package logging

import (
	"sync/atomic"

	"go.uber.org/zap"
)

// Holder is a logger that may be replaced while other goroutines read it.
// The zero value logs nothing.
type Holder struct {
	l atomic.Pointer[zap.Logger]
}

var nop = zap.NewNop()

func (h *Holder) Get() *zap.Logger {
	if l := h.l.Load(); l != nil {
		return l
	}
	return nop
}

// Set replaces the logger. A nil logger restores the no-op one.
func (h *Holder) Set(l *zap.Logger) {
	h.l.Store(l)
}
