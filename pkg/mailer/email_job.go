package mailer

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Either Template (rendered by the worker from Data) or Subject with Text/HTML is set.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // e.g. "registration_otp"
	Data     map[string]any `json:"data,omitempty"`
}
