package ctxutil

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ctxKey string

const (
	ginContextKey ctxKey = "gin_context"

	// TraceIDKey is the log field and gin key carrying the request trace id.
	TraceIDKey = "trace_id"
	// TraceHeader is the HTTP header used to propagate the trace id.
	TraceHeader = "X-Trace-ID"

	emailKey = "user_email"
	roleKey  = "user_role"
)

// WithGinContext returns a context.Context that embeds the *gin.Context.
func WithGinContext(ctx context.Context, c *gin.Context) context.Context {
	return context.WithValue(ctx, ginContextKey, c)
}

// GetGinContext extracts *gin.Context from context.Context if it exists.
func GetGinContext(ctx context.Context) (*gin.Context, bool) {
	if c, ok := ctx.Value(ginContextKey).(*gin.Context); ok {
		return c, ok
	}
	return nil, false
}

// GetValue retrieves a value from the context.
func GetValue(ctx context.Context, key string) any {
	if c, ok := GetGinContext(ctx); ok {
		if val, exists := c.Get(key); exists {
			return val
		}
	}
	return ctx.Value(ctxKey(key))
}

// SetValue sets a value to the context.
func SetValue(ctx context.Context, key string, val any) context.Context {
	if c, ok := GetGinContext(ctx); ok {
		c.Set(key, val)
	}
	return context.WithValue(ctx, ctxKey(key), val)
}

// GetTraceID gets trace id from context.Context or gin.Context.
func GetTraceID(ctx context.Context) string {
	if traceID, ok := GetValue(ctx, TraceIDKey).(string); ok {
		return traceID
	}
	return ""
}

// SetTraceID sets trace id to context.Context and gin.Context if available.
func SetTraceID(ctx context.Context, traceID string) context.Context {
	return SetValue(ctx, TraceIDKey, traceID)
}

// EnsureTraceID ensures that a trace ID exists in the context.
func EnsureTraceID(ctx context.Context) (context.Context, string) {
	if traceID := GetTraceID(ctx); traceID != "" {
		return ctx, traceID
	}
	traceID := uuid.NewString()
	return SetTraceID(ctx, traceID), traceID
}

// SetIdentity stores the authenticated caller.
func SetIdentity(ctx context.Context, email, role string) context.Context {
	return SetValue(SetValue(ctx, emailKey, email), roleKey, role)
}

// GetEmail returns the authenticated caller's email.
func GetEmail(ctx context.Context) string {
	if email, ok := GetValue(ctx, emailKey).(string); ok {
		return email
	}
	return ""
}

// GetRole returns the authenticated caller's role.
func GetRole(ctx context.Context) string {
	if role, ok := GetValue(ctx, roleKey).(string); ok {
		return role
	}
	return ""
}
