package logger

import (
	"context"

	"go.uber.org/zap"
)

// contextKey is the private key type for values this package stores on a context
type contextKey string

const (
	// LoggerKey carries the request-scoped logger
	LoggerKey contextKey = "logger"
	// RequestIDKey carries the request ID for log correlation
	RequestIDKey contextKey = "request_id"
	// UserIDKey carries the acting user's ID
	UserIDKey contextKey = "user_id"
)

// WithContext attaches the logger to the context
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// FromContext returns the attached logger, or a no-op logger when none was set
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(LoggerKey).(*zap.Logger); ok {
		return logger
	}
	return zap.NewNop()
}

// WithRequestID stores the request ID on the context and returns a logger
// that stamps it on every entry
func WithRequestID(ctx context.Context, logger *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	return enrich(ctx, logger, RequestIDKey, requestID)
}

// WithUserID stores the acting user's ID on the context and returns a logger
// that stamps it on every entry
func WithUserID(ctx context.Context, logger *zap.Logger, userID string) (context.Context, *zap.Logger) {
	return enrich(ctx, logger, UserIDKey, userID)
}

func enrich(ctx context.Context, logger *zap.Logger, key contextKey, value string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, key, value)
	logger = logger.With(zap.String(string(key), value))
	return WithContext(ctx, logger), logger
}

// GetRequestID returns the request ID stored on the context, if any
func GetRequestID(ctx context.Context) string {
	return stringValue(ctx, RequestIDKey)
}

// GetUserID returns the user ID stored on the context, if any
func GetUserID(ctx context.Context) string {
	return stringValue(ctx, UserIDKey)
}

func stringValue(ctx context.Context, key contextKey) string {
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}
