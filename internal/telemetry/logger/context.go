package logger

import "context"

type contextKey string

const (
	loggerKey    contextKey = "teataster.logger"
	requestIDKey contextKey = "teataster.request_id"
	actionIDKey  contextKey = "teataster.action_id"
)

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext extracts the logger from context.
// Returns the default logger if none is set.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(loggerKey).(Logger); ok {
		return l
	}
	return Default()
}

// WithRequestID adds an HTTP request ID to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFromContext extracts the request ID from context.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithActionID adds the correlation id of the store action being handled.
func WithActionID(ctx context.Context, actionID string) context.Context {
	return context.WithValue(ctx, actionIDKey, actionID)
}

// ActionIDFromContext extracts the action correlation id from context.
func ActionIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(actionIDKey).(string)
	return id
}

// L returns the context's logger bound to ctx, so its entries carry the
// request and action ids.
func L(ctx context.Context) Logger {
	return FromContext(ctx).WithContext(ctx)
}
