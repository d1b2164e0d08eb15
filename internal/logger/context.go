package logger

import (
	"context"

	"go.uber.org/zap"
)

// requestLoggerKey keys the per-request logger that the HTTP middleware
// stores in the request context.
type requestLoggerKey struct{}

// ContextWithLogger returns a context carrying the given logger.
func ContextWithLogger(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, requestLoggerKey{}, l)
}

// FromContext returns the logger carried by ctx, or a no-op logger when
// the context never passed through the request middleware.
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(requestLoggerKey{}).(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}
