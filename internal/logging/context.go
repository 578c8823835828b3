package logging

import (
	"context"

	"github.com/charmbracelet/log"
)

// loggerKey is the context key under which a command's logger is stored.
type loggerKey struct{}

// FromContext returns the logger attached to ctx, or the default logger
// when there is none.
func FromContext(ctx context.Context) *log.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(loggerKey{}).(*log.Logger); ok && logger != nil {
			return logger
		}
	}
	return Default()
}

// WithLogger returns a copy of ctx carrying logger.
func WithLogger(ctx context.Context, logger *log.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loggerKey{}, logger)
}
