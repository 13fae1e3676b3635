package resource

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var (
	logger    atomic.Pointer[zap.Logger]
	nopLogger = zap.NewNop()
)

// Logger returns the resource package's logger instance.
// It uses a no-op logger by default.
func Logger() *zap.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return nopLogger
}

// SetLogger configures the resource package's logger. It is safe to call while other
// goroutines log; a nil l restores the no-op logger.
func SetLogger(l *zap.Logger) {
	logger.Store(l)
}
