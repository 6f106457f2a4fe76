package templates

import (
	"time"
)

const timeLayout = "02 January 2006, 15:04 MST"

// Option pattern
type Option func(map[string]any)

func WithExpiresAt(t time.Time) Option {
	return func(d map[string]any) {
		d["ExpiresAtText"] = t.UTC().Format(timeLayout)
	}
}

// NewRegistrationOTPData builds the template data for a sign-up code email.
// The map survives the JSON round trip through the queue unchanged.
func NewRegistrationOTPData(appName, name, email, code string, opts ...Option) map[string]any {
	d := map[string]any{
		"AppName": appName,
		"Name":    name,
		"Email":   email,
		"Code":    code,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}
