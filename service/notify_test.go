package service

import (
	"context"
	"testing"
	"time"

	"github.com/ncobase/staffing/event"
	"github.com/ncobase/staffing/logging/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOTPTemplate(t *testing.T) {
	tmpl := otpTemplate("Acme", "123456", 10*time.Minute)
	assert.Equal(t, "Acme Task Registration OTP", tmpl.Subject)
	assert.Equal(t, "Your OTP for Acme task registration is: 123456\n\n"+
		"This code will expire in 10 minutes.\n\n"+
		"If you didn't request this code, please ignore this email.\n\nAcme", tmpl.Body)
}

func TestNotificationHandlers(t *testing.T) {
	box := &mailbox{}
	n := NewNotificationService(box, "Acme", logger.NewNop())
	ctx := context.Background()

	err := n.HandleRequestAssigned(ctx, &event.Event{
		Type:    event.EventTypeRequestAssigned,
		Payload: map[string]any{"email": "a@x.io", "task_id": "T1", "task_name": "Build"},
	})
	require.NoError(t, err)
	assert.Equal(t, "a@x.io", box.last().to)
	assert.Contains(t, box.last().template.Body, `task "Build" (T1)`)

	err = n.HandleRequestDecided(ctx, &event.Event{
		Type:    event.EventTypeRequestRejected,
		Payload: map[string]any{"email": "a@x.io", "task_id": "T1", "status": "rejected"},
	})
	require.NoError(t, err)
	assert.Contains(t, box.last().template.Body, "has been rejected")

	assert.Error(t, n.HandleRequestDecided(ctx, &event.Event{Payload: map[string]any{}}))
}

func TestEventsReachSubscribers(t *testing.T) {
	d := newTestData()
	box := &mailbox{}
	bus := event.NewBus(16, logger.NewNop())

	svc, _ := newTestService(t, d)
	svc.Notify = NewNotificationService(box, "Acme", logger.NewNop())
	svc.Task.events = &emitter{bus: bus, logger: logger.NewNop()}
	svc.Subscribe(bus, nil)

	seedTask(t, d, "T1")
	seedStaff(t, d, "a@x.io")

	ctx, cancel := context.WithCancel(context.Background())
	bus.Start(ctx, 1)

	_, err := svc.Task.AssignStaff(context.Background(), "T1", "a@x.io")
	require.NoError(t, err)

	cancel()
	bus.Wait()

	box.mu.Lock()
	defer box.mu.Unlock()
	require.Len(t, box.sent, 1)
	assert.Equal(t, "Acme Task Assignment", box.sent[0].template.Subject)
}
