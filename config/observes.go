package config

import (
	"time"

	"github.com/spf13/viper"
)

// Observes groups tracing and error reporting.
type Observes struct {
	Tracer *Tracer
	Sentry *Sentry
}

// Tracer config struct for OpenTelemetry. An empty endpoint keeps spans
// in process without exporting them.
type Tracer struct {
	Endpoint      string
	SamplingRate  float64
	BatchTimeout  time.Duration
	ExportTimeout time.Duration
}

// Sentry config struct. Reporting is off without a DSN.
type Sentry struct {
	DSN         string
	Environment string
	SampleRate  float64
}

func getObservesConfig(v *viper.Viper) *Observes {
	return &Observes{
		Tracer: &Tracer{
			Endpoint:      v.GetString("observes.tracer.endpoint"),
			SamplingRate:  getFloat64OrDefault(v, "observes.tracer.sampling_rate", 1.0),
			BatchTimeout:  getDurationOrDefault(v, "observes.tracer.batch_timeout", 5*time.Second),
			ExportTimeout: getDurationOrDefault(v, "observes.tracer.export_timeout", 30*time.Second),
		},
		Sentry: &Sentry{
			DSN:         v.GetString("observes.sentry.dsn"),
			Environment: getStringOrDefault(v, "observes.sentry.environment", getStringOrDefault(v, "run_mode", "release")),
			SampleRate:  getFloat64OrDefault(v, "observes.sentry.sample_rate", 1.0),
		},
	}
}

// Breaker configures the circuit breakers around outbound calls (mail
// providers and the message broker).
type Breaker struct {
	// MaxRequests allowed through while half-open.
	MaxRequests uint32
	// Interval clears the closed-state counts; zero never clears.
	Interval time.Duration
	// Timeout is how long the breaker stays open.
	Timeout time.Duration
	// MinRequests and FailureRatio decide when to trip.
	MinRequests  uint32
	FailureRatio float64
}

func getBreakerConfig(v *viper.Viper) *Breaker {
	return &Breaker{
		MaxRequests:  uint32(getIntOrDefault(v, "breaker.max_requests", 1)),
		Interval:     getDurationOrDefault(v, "breaker.interval", time.Minute),
		Timeout:      getDurationOrDefault(v, "breaker.timeout", 30*time.Second),
		MinRequests:  uint32(getIntOrDefault(v, "breaker.min_requests", 3)),
		FailureRatio: getFloat64OrDefault(v, "breaker.failure_ratio", 0.6),
	}
}
