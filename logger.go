package nantag

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var (
	logger    atomic.Pointer[zap.Logger]
	nopLogger = zap.NewNop()
)

// Logger returns the package's logger instance.
// It uses a no-op logger by default.
func Logger() *zap.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return nopLogger
}

// SetLogger configures the package's logger. It is safe to call while other
// goroutines log; a nil l restores the no-op logger.
func SetLogger(l *zap.Logger) {
	logger.Store(l)
}

// defect logs err and panics with it. Used for states that only a misuse of
// a tagged value can reach.
func defect(err error) {
	Logger().Error("tagged value defect", zap.Error(err))
	panic(err)
}
