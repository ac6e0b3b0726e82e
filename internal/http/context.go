package http

import (
	"context"
	"log/slog"

	"github.com/example/schedule-conflicts/internal/logging"
)

type contextKey string

const (
	versionIDContextKey contextKey = "version_id"
	requestIDContextKey contextKey = "request_id"
)

// ContextWithLogger attaches the request scoped logger.
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return logging.ContextWithLogger(ctx, logger)
}

// LoggerFromContext returns the request scoped logger if one was attached.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx)
}

// ContextWithVersionID injects the schedule version identifier resolved from the request path.
func ContextWithVersionID(ctx context.Context, versionID string) context.Context {
	return context.WithValue(ctx, versionIDContextKey, versionID)
}

// VersionIDFromContext extracts a version identifier previously associated with the context.
func VersionIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(versionIDContextKey).(string)
	return id, ok
}

func contextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDContextKey, id)
}

// RequestIDFromContext returns the identifier assigned by RequestLogger.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDContextKey).(string)
	return id, ok
}
