package breaker

import (
	"errors"
	"testing"
	"time"

	"github.com/ncobase/staffing/config"
	"github.com/ncobase/staffing/logging/logger"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
)

func TestTripsOnFailureRatio(t *testing.T) {
	cfg := &config.Breaker{MaxRequests: 1, Interval: time.Minute, Timeout: time.Minute, MinRequests: 3, FailureRatio: 0.6}
	cb := New("email", cfg, logger.NewNop())

	boom := errors.New("provider down")
	calls := 0
	fail := func() (any, error) {
		calls++
		return nil, boom
	}

	for i := 0; i < 2; i++ {
		_, err := cb.Execute(fail)
		assert.ErrorIs(t, err, boom)
	}
	assert.Equal(t, gobreaker.StateClosed, cb.State())

	_, err := cb.Execute(fail)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, gobreaker.StateOpen, cb.State())

	_, err = cb.Execute(fail)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 3, calls)
}

func TestStaysClosedBelowRatio(t *testing.T) {
	cfg := &config.Breaker{MaxRequests: 1, Interval: time.Minute, Timeout: time.Minute, MinRequests: 3, FailureRatio: 0.6}
	cb := New("rabbitmq", cfg, logger.NewNop())

	ok := func() (any, error) { return "ok", nil }
	fail := func() (any, error) { return nil, errors.New("nack") }

	for _, call := range []func() (any, error){ok, fail, ok, fail, ok} {
		_, _ = cb.Execute(call)
	}
	assert.Equal(t, gobreaker.StateClosed, cb.State())
}
