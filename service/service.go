// Package service implements the staffing workflows on top of the data
// layer: task posting and assignment, request claims and decisions, the
// joined views and account management.
package service

import (
	"context"
	"errors"

	"github.com/ncobase/staffing/config"
	"github.com/ncobase/staffing/data"
	"github.com/ncobase/staffing/data/repository"
	"github.com/ncobase/staffing/ecode"
	"github.com/ncobase/staffing/event"
	"github.com/ncobase/staffing/logging/logger"
	"github.com/ncobase/staffing/messaging/email"
)

// Service aggregates all business logic services.
type Service struct {
	Task    *TaskService
	Request *RequestService
	View    *ViewService
	Account *AccountService
	Notify  *NotificationService
}

// NewService creates a new service instance with all sub-services
// initialized. bus may be nil, in which case no events are emitted.
func NewService(cfg *config.Config, d *data.Data, bus *event.Bus, sender email.Sender, logger *logger.Logger) *Service {
	emitter := &emitter{bus: bus, logger: logger}
	brand := cfg.Email.Brand

	return &Service{
		Task:    NewTaskService(d, emitter, logger),
		Request: NewRequestService(d, cfg.Matching, emitter, logger),
		View:    NewViewService(d, logger),
		Account: NewAccountService(d, cfg.Auth, sender, brand, emitter, logger),
		Notify:  NewNotificationService(sender, brand, logger),
	}
}

// Subscribe attaches the notification handlers and, when a broker is
// configured, the event forwarder.
func (s *Service) Subscribe(bus *event.Bus, pub event.Publisher) {
	bus.Subscribe(event.EventTypeRequestAssigned, s.Notify.HandleRequestAssigned)
	bus.Subscribe(event.EventTypeRequestApproved, s.Notify.HandleRequestDecided)
	bus.Subscribe(event.EventTypeRequestRejected, s.Notify.HandleRequestDecided)
	if pub != nil {
		bus.Subscribe(event.EventTypeAll, event.Forwarder(pub))
	}
}

// emitter publishes events on a best-effort basis. The operation that
// produced the event has already committed, so failures are only logged.
type emitter struct {
	bus    *event.Bus
	logger *logger.Logger
}

func (e *emitter) emit(ctx context.Context, evt *event.Event) {
	if e == nil || e.bus == nil {
		return
	}
	if err := e.bus.Publish(ctx, evt); err != nil {
		e.logger.Warn(ctx, "failed to publish event", "type", evt.Type, "error", err)
	}
}

// internalError logs a storage failure and hides it behind a generic
// message.
func internalError(ctx context.Context, log *logger.Logger, op string, err error) error {
	log.Error(ctx, op+" failed", "error", err)
	return ecode.Internal(err)
}

func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
