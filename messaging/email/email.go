package email

import (
	"errors"
	"strings"
)

// Providers.
const (
	ProviderMailgun  = "mailgun"
	ProviderSendGrid = "sendgrid"
	ProviderSMTP     = "smtp"
)

// ErrNoProvider is returned by NewSender when no provider is configured.
var ErrNoProvider = errors.New("email provider not configured")

// Email holds the configuration for all email providers
type Email struct {
	Provider string          `json:"provider" yaml:"provider"`
	Brand    string          `json:"brand" yaml:"brand"`
	Mailgun  *MailgunConfig  `json:"mailgun" yaml:"mailgun"`
	SendGrid *SendGridConfig `json:"sendgrid" yaml:"sendgrid"`
	SMTP     *SMTPConfig     `json:"smtp" yaml:"smtp"`
}

// Template represents the email template
type Template struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
	// Template is the provider-side template name, used by Mailgun when set.
	Template string            `json:"template"`
	Data     map[string]string `json:"data"`
}

// Sender is a generic interface for sending emails
type Sender interface {
	SendTemplateEmail(recipientEmail string, template Template) (string, error)
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(recipientEmail string, template Template) (string, error)

// SendTemplateEmail calls f.
func (f SenderFunc) SendTemplateEmail(recipientEmail string, template Template) (string, error) {
	return f(recipientEmail, template)
}

// NewSender returns the Sender for the configured provider
func NewSender(cfg *Email) (Sender, error) {
	if cfg == nil || cfg.Provider == "" {
		return nil, ErrNoProvider
	}
	switch strings.ToLower(cfg.Provider) {
	case ProviderMailgun:
		if err := validateMailgunConfig(cfg.Mailgun); err != nil {
			return nil, err
		}
		return &MailgunSender{Config: cfg.Mailgun}, nil
	case ProviderSendGrid:
		if err := validateSendGridConfig(cfg.SendGrid); err != nil {
			return nil, err
		}
		return &SendGridSender{Config: cfg.SendGrid, Brand: cfg.Brand}, nil
	case ProviderSMTP:
		if err := validateSMTPConfig(cfg.SMTP); err != nil {
			return nil, err
		}
		return &LocalSMTPSender{Config: cfg.SMTP}, nil
	default:
		return nil, errors.New("unsupported email provider: " + cfg.Provider)
	}
}
