package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ncobase/staffing/event"
	"github.com/ncobase/staffing/logging/logger"
	"github.com/ncobase/staffing/messaging/email"
)

func otpTemplate(brand, otp string, expire time.Duration) email.Template {
	return email.Template{
		Subject: fmt.Sprintf("%s Task Registration OTP", brand),
		Body: fmt.Sprintf("Your OTP for %s task registration is: %s\n\n"+
			"This code will expire in %d minutes.\n\n"+
			"If you didn't request this code, please ignore this email.\n\n%s",
			brand, otp, int(expire.Minutes()), brand),
		Data: map[string]string{"otp": otp, "brand": brand},
	}
}

// NotificationService mails staff members about assignments and decisions.
type NotificationService struct {
	sender email.Sender
	brand  string
	logger *logger.Logger
}

// NewNotificationService creates a new notification service.
func NewNotificationService(sender email.Sender, brand string, logger *logger.Logger) *NotificationService {
	return &NotificationService{
		sender: sender,
		brand:  brand,
		logger: logger,
	}
}

// HandleRequestAssigned tells a staff member they were assigned a task.
func (s *NotificationService) HandleRequestAssigned(ctx context.Context, evt *event.Event) error {
	task := taskLabel(evt)
	return s.send(ctx, evt, email.Template{
		Subject: fmt.Sprintf("%s Task Assignment", s.brand),
		Body: fmt.Sprintf("You have been assigned to %s.\n\n%s",
			task, s.brand),
		Data: map[string]string{"task_id": evt.PayloadString("task_id")},
	})
}

// HandleRequestDecided tells a staff member their request was approved or
// rejected.
func (s *NotificationService) HandleRequestDecided(ctx context.Context, evt *event.Event) error {
	status := evt.PayloadString("status")
	task := taskLabel(evt)
	return s.send(ctx, evt, email.Template{
		Subject: fmt.Sprintf("%s Task Request %s", s.brand, status),
		Body: fmt.Sprintf("Your request for %s has been %s.\n\n%s",
			task, status, s.brand),
		Data: map[string]string{
			"task_id": evt.PayloadString("task_id"),
			"status":  status,
		},
	})
}

func (s *NotificationService) send(ctx context.Context, evt *event.Event, tmpl email.Template) error {
	to := evt.PayloadString("email")
	if to == "" {
		return fmt.Errorf("event %s has no recipient", evt.ID)
	}
	if s.sender == nil {
		s.logger.Info(ctx, "email provider not configured, notification skipped", "to", to, "type", evt.Type)
		return nil
	}
	id, err := s.sender.SendTemplateEmail(to, tmpl)
	if err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	s.logger.Info(ctx, "notification sent", "to", to, "type", evt.Type, "message_id", id)
	return nil
}

func taskLabel(evt *event.Event) string {
	if name := evt.PayloadString("task_name"); name != "" {
		return fmt.Sprintf("task %q (%s)", name, evt.PayloadString("task_id"))
	}
	return "task " + evt.PayloadString("task_id")
}
