package observes

import (
	"github.com/getsentry/sentry-go"
	"github.com/ncobase/staffing/config"
)

// NewSentry initializes the global Sentry client. It reports false without
// touching the client when no DSN is configured.
func NewSentry(cfg *config.Sentry, name, release string) (bool, error) {
	if cfg == nil || cfg.DSN == "" {
		return false, nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		AttachStacktrace: true,
		SampleRate:       cfg.SampleRate,
		TracesSampleRate: cfg.SampleRate,
		ServerName:       name,
		Release:          release,
		Environment:      cfg.Environment,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
