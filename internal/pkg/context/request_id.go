package context

import "context"

// The request id travels the whole request path: assigned (or echoed) by the
// RequestID middleware, attached to every log line via logger.WithCtx, and
// returned to clients inside error payloads.

type contextKey string

const requestIDKey contextKey = "request_id"

// WithRequestID stores the request id under the package-private key.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// GetRequestID returns the request id, or "" when none was attached.
func GetRequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}
