package observes

import (
	"context"
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/ncobase/staffing/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestNewTracerWithoutEndpoint(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	shutdown, err := NewTracer(context.Background(), config.Default().Observes.Tracer, TracerOption{
		Name: "staffing", Version: "test", Environment: "debug",
	})
	require.NoError(t, err)

	_, span := otel.Tracer("test").Start(context.Background(), "match")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	assert.NoError(t, shutdown(context.Background()))
}

func TestNewTracerNilConfig(t *testing.T) {
	_, err := NewTracer(context.Background(), nil, TracerOption{})
	assert.Error(t, err)
}

func TestNewSentryDisabled(t *testing.T) {
	enabled, err := NewSentry(&config.Sentry{}, "staffing", "test")
	require.NoError(t, err)
	assert.False(t, enabled)
	assert.Nil(t, sentry.CurrentHub().Client())

	enabled, err = NewSentry(nil, "staffing", "test")
	require.NoError(t, err)
	assert.False(t, enabled)
}

func TestNewSentryBadDSN(t *testing.T) {
	_, err := NewSentry(&config.Sentry{DSN: "not a dsn"}, "staffing", "test")
	assert.Error(t, err)
}
