package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/oksasatya/go-finance-tracker/pkg/mailer/templates"
)

// ErrMalformedJob marks messages that can never be delivered and must not be requeued.
var ErrMalformedJob = errors.New("malformed email job")

// Worker turns queued EmailJob payloads into sent messages.
type Worker struct {
	Sender Sender
}

// Handle decodes, renders and sends one message body. Errors wrapping
// ErrMalformedJob are permanent; anything else is worth a retry.
func (w *Worker) Handle(ctx context.Context, body []byte) error {
	var job EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedJob, err)
	}
	if job.To == "" {
		return fmt.Errorf("%w: missing recipient", ErrMalformedJob)
	}

	subject, text, html := job.Subject, job.Text, job.HTML
	if job.Template != "" {
		s, t, h, err := templates.Render(job.Template, job.Data)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedJob, err)
		}
		subject, text, html = s, t, h
	}
	if subject == "" || (text == "" && html == "") {
		return fmt.Errorf("%w: empty message", ErrMalformedJob)
	}
	return w.Sender.Send(ctx, job.To, subject, text, html)
}
