// Package breaker builds the circuit breakers that guard outbound calls.
package breaker

import (
	"context"

	"github.com/ncobase/staffing/config"
	"github.com/ncobase/staffing/logging/logger"
	"github.com/sony/gobreaker"
)

// New returns a breaker that opens once at least MinRequests calls were
// made in the current interval and the failure ratio reaches FailureRatio.
func New(name string, cfg *config.Breaker, log *logger.Logger) *gobreaker.CircuitBreaker {
	if cfg == nil {
		cfg = config.Default().Breaker
	}
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn(context.Background(), "circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
}
