// Package middleware provides the gin middleware for tracing, panic
// recovery, request logging, authentication and role checks.
package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/ncobase/staffing/ctxutil"
	"github.com/ncobase/staffing/ecode"
	"github.com/ncobase/staffing/logging/logger"
	"github.com/ncobase/staffing/net/resp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// Trace attaches a trace id to the request context, reusing the inbound
// X-Trace-ID header when present, and echoes it on the response. Each
// request also runs inside a server span; W3C trace headers continue an
// upstream trace.
func Trace() gin.HandlerFunc {
	tracer := otel.Tracer("github.com/ncobase/staffing/middleware")
	return func(c *gin.Context) {
		ctx := otel.GetTextMapPropagator().Extract(c.Request.Context(), propagation.HeaderCarrier(c.Request.Header))
		ctx = ctxutil.WithGinContext(ctx, c)
		if traceID := c.GetHeader(ctxutil.TraceHeader); traceID != "" {
			ctx = ctxutil.SetTraceID(ctx, traceID)
		}
		ctx, traceID := ctxutil.EnsureTraceID(ctx)

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		ctx, span := tracer.Start(ctx, c.Request.Method+" "+route,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", c.Request.Method),
				attribute.String("http.route", route),
				attribute.String("trace_id", traceID),
			),
		)
		defer span.End()

		c.Request = c.Request.WithContext(ctx)
		c.Header(ctxutil.TraceHeader, traceID)
		c.Next()

		status := c.Writer.Status()
		span.SetAttributes(attribute.Int("http.status_code", status))
		if email := ctxutil.GetEmail(c.Request.Context()); email != "" {
			span.SetAttributes(attribute.String("enduser.id", email))
		}
		if status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
	}
}

// Recovery turns a panic into a 500 response, logs it and reports it to
// Sentry when a client is configured.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			ctx := c.Request.Context()
			hub := sentry.CurrentHub().Clone()
			hub.Scope().SetRequest(c.Request)
			hub.Scope().SetTag("trace_id", ctxutil.GetTraceID(ctx))
			eventID := hub.RecoverWithContext(ctx, r)

			kv := []any{"panic", fmt.Sprint(r), "path", c.Request.URL.Path}
			if eventID != nil {
				kv = append(kv, "sentry_event_id", string(*eventID))
			}
			log.Error(ctx, "panic recovered", kv...)

			resp.Fail(c.Writer, resp.InternalServer(ecode.Text(ecode.ServerErr)))
			c.Abort()
		}()
		c.Next()
	}
}

// Logger logs one line per request.
func Logger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		kv := []any{
			"method", method,
			"path", path,
			"status", status,
			"duration", time.Since(start).String(),
			"ip", c.ClientIP(),
		}
		if email := ctxutil.GetEmail(c.Request.Context()); email != "" {
			kv = append(kv, "user", email)
		}

		switch {
		case status >= 500:
			log.Error(c.Request.Context(), "HTTP request", kv...)
		case status >= 400:
			log.Warn(c.Request.Context(), "HTTP request", kv...)
		default:
			log.Info(c.Request.Context(), "HTTP request", kv...)
		}
	}
}
