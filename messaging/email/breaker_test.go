package email

import (
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuardOpensAfterFailures(t *testing.T) {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "email",
		Timeout: time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 2
		},
	})

	calls := 0
	down := SenderFunc(func(string, Template) (string, error) {
		calls++
		return "", errors.New("503 from provider")
	})
	sender := Guard(down, cb)

	for i := 0; i < 2; i++ {
		_, err := sender.SendTemplateEmail("a@x.io", Template{Subject: "OTP"})
		require.Error(t, err)
	}
	_, err := sender.SendTemplateEmail("a@x.io", Template{Subject: "OTP"})
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 2, calls)
}

func TestGuardPassesThrough(t *testing.T) {
	sender := Guard(SenderFunc(func(to string, _ Template) (string, error) {
		return "id-" + to, nil
	}), gobreaker.NewCircuitBreaker(gobreaker.Settings{Name: "email"}))

	id, err := sender.SendTemplateEmail("a@x.io", Template{})
	require.NoError(t, err)
	assert.Equal(t, "id-a@x.io", id)

	assert.Nil(t, Guard(nil, gobreaker.NewCircuitBreaker(gobreaker.Settings{})))
}
