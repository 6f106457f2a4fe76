package mailer

import (
	"context"
	"errors"
	"time"

	"github.com/oksasatya/go-finance-tracker/pkg/mailer/templates"
)

var ErrSendingDisabled = errors.New("email sending disabled")

// Queue accepts email jobs for asynchronous delivery.
type Queue interface {
	Publish(ctx context.Context, job EmailJob) error
}

// OTPNotifier enqueues registration codes for the email worker.
type OTPNotifier struct {
	queue   Queue
	appName string
	enabled bool
}

func NewOTPNotifier(q Queue, appName string, enabled bool) *OTPNotifier {
	return &OTPNotifier{queue: q, appName: appName, enabled: enabled}
}

func (n *OTPNotifier) SendRegistrationOTP(ctx context.Context, name, email, code string, expiresAt time.Time) error {
	if !n.enabled || n.queue == nil {
		return ErrSendingDisabled
	}
	data := templates.NewRegistrationOTPData(n.appName, name, email, code, templates.WithExpiresAt(expiresAt))
	return n.queue.Publish(ctx, EmailJob{To: email, Template: templates.RegistrationOTP, Data: data})
}
