package logger

import (
	"context"
	"log/slog"
)

type loggerCtxKey struct{}

// With derives a request-scoped logger carrying the given fields and stores
// it in the returned context. The trace-id middleware uses this so every log
// line downstream of it carries the request's trace id.
func With(ctx context.Context, fields ...any) context.Context {
	return context.WithValue(ctx, loggerCtxKey{}, From(ctx).With(fields...))
}

// From returns the request-scoped logger, falling back to the process logger
// when the context carries none.
func From(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerCtxKey{}).(*slog.Logger); ok {
		return l
	}
	return L()
}
