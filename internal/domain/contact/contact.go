// Package contact relays messages from the public contact form to the HR inbox.
package contact

import (
	"bytes"
	"context"
	"html/template"
	"strings"

	log "github.com/sirupsen/logrus"

	"hrms/internal/domain/apperr"
	"hrms/internal/platform/email"
)

const (
	MessageRequired = "Email and message are required."
	MessageFailed   = "Failed to send message."
	MessageSent     = "Message sent successfully."
)

type Request struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type Service struct {
	Mailer    email.Mailer
	From      string
	Recipient string
}

func NewService(mailer email.Mailer, from, recipient string) *Service {
	return &Service{Mailer: mailer, From: from, Recipient: recipient}
}

var bodyTemplate = template.Must(template.New("contact").Parse(`<h2>New contact form submission</h2>
<p><strong>Name:</strong> {{.Name}}</p>
<p><strong>Email:</strong> {{.Email}}</p>
<p><strong>Subject:</strong> {{.Subject}}</p>
<p><strong>Message:</strong></p>
<p>{{.Message}}</p>
`))

// Send validates the form and mails it once. Transport failures are logged
// and reported as an internal error carrying MessageFailed.
func (s *Service) Send(ctx context.Context, req Request) error {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Subject = strings.TrimSpace(req.Subject)
	req.Message = strings.TrimSpace(req.Message)
	if req.Email == "" || req.Message == "" {
		return apperr.Validation(MessageRequired)
	}

	body, err := Render(req)
	if err != nil {
		return &apperr.Error{Kind: apperr.KindInternal, Code: "mail_failed", Message: MessageFailed, Err: err}
	}
	subject := "Contact form: " + req.Subject
	if req.Subject == "" {
		subject = "Contact form message"
	}
	msg := email.Message{From: s.From, To: s.Recipient, ReplyTo: req.Email, Subject: subject, HTML: body}
	if err := s.Mailer.Send(ctx, msg); err != nil {
		log.WithError(err).WithField("replyTo", req.Email).Error("contact message not delivered")
		return &apperr.Error{Kind: apperr.KindInternal, Code: "mail_failed", Message: MessageFailed, Err: err}
	}
	return nil
}

func Render(req Request) (string, error) {
	var buf bytes.Buffer
	if err := bodyTemplate.Execute(&buf, req); err != nil {
		return "", err
	}
	return buf.String(), nil
}
