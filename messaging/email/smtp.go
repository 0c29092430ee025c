package email

import (
	"errors"
	"fmt"
	"net/smtp"
)

// SMTPConfig holds the configuration for local email sending
type SMTPConfig struct {
	SMTPHost string
	SMTPPort string
	Username string
	Password string
	From     string
}

// LocalSMTPSender implements Sender for local SMTP
type LocalSMTPSender struct {
	Config *SMTPConfig
}

func (s *LocalSMTPSender) SendTemplateEmail(recipientEmail string, template Template) (string, error) {
	var auth smtp.Auth
	if s.Config.Username != "" {
		auth = smtp.PlainAuth("", s.Config.Username, s.Config.Password, s.Config.SMTPHost)
	}
	msg := buildMessage(s.Config.From, recipientEmail, template)

	addr := fmt.Sprintf("%s:%s", s.Config.SMTPHost, s.Config.SMTPPort)
	if err := smtp.SendMail(addr, auth, s.Config.From, []string{recipientEmail}, msg); err != nil {
		return "", fmt.Errorf("failed to send email: %w", err)
	}
	return "", nil
}

func buildMessage(from, to string, template Template) []byte {
	return []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s",
		from, to, template.Subject, template.Body))
}

func validateSMTPConfig(config *SMTPConfig) error {
	if config == nil || config.SMTPHost == "" || config.SMTPPort == "" || config.From == "" {
		return errors.New("invalid local email configuration")
	}
	return nil
}
