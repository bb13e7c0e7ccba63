// Package email composes HTML messages and hands them to an SMTP relay.
package email

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"

	"hrms/internal/platform/config"
)

type Message struct {
	From    string
	To      string
	ReplyTo string
	Subject string
	HTML    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// New returns an SMTP mailer, or a mailer that only logs when email is
// disabled or no relay is configured.
func New(cfg config.Config) Mailer {
	if !cfg.EmailEnabled || cfg.SMTPHost == "" {
		return noopMailer{}
	}
	return &smtpMailer{
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		useTLS:   cfg.SMTPUseTLS,
	}
}

type noopMailer struct{}

func (noopMailer) Send(_ context.Context, msg Message) error {
	log.WithField("to", msg.To).WithField("subject", msg.Subject).Warn("email not sent, smtp is not configured")
	return nil
}

type smtpMailer struct {
	addr     string
	user     string
	password string
	useTLS   bool
}

func (s *smtpMailer) Send(_ context.Context, msg Message) error {
	if strings.TrimSpace(msg.To) == "" {
		return errors.New("email recipient is empty")
	}
	body, err := Compose(msg)
	if err != nil {
		return err
	}

	var auth sasl.Client
	if s.user != "" {
		auth = sasl.NewPlainClient("", s.user, s.password)
	}
	to := []string{msg.To}
	if s.useTLS {
		err = smtp.SendMailTLS(s.addr, auth, msg.From, to, bytes.NewReader(body))
	} else {
		err = smtp.SendMail(s.addr, auth, msg.From, to, bytes.NewReader(body))
	}
	if err != nil {
		log.WithError(err).WithField("to", msg.To).Error("email send failed")
		return errors.Wrap(err, "send email")
	}
	log.WithField("to", msg.To).Info("email sent")
	return nil
}

// Compose renders msg as a MIME message with an HTML body.
func Compose(msg Message) ([]byte, error) {
	m := gomail.NewMessage()
	m.SetHeader("From", msg.From)
	m.SetHeader("To", msg.To)
	if msg.ReplyTo != "" {
		m.SetHeader("Reply-To", msg.ReplyTo)
	}
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTML)

	var buf bytes.Buffer
	if _, err := m.WriteTo(&buf); err != nil {
		return nil, errors.Wrap(err, "compose email")
	}
	return buf.Bytes(), nil
}
