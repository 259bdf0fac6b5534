package transcoder

import (
	"go.uber.org/zap"

	"github.com/wippyai/encconv/internal/logging"
)

var logger logging.Holder

// Logger returns the logger used when registry lookups run. It is a no-op logger
// until SetLogger is called.
func Logger() *zap.Logger { return logger.Get() }

// SetLogger replaces the package logger. It is safe to call at any time.
func SetLogger(l *zap.Logger) { logger.Set(l) }
