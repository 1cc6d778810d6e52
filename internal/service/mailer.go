package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/daniyarzhalgas/TripMate-backend/config"

	"github.com/sirupsen/logrus"
)

type EmailMessage struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

type Mailer interface {
	Send(ctx context.Context, msg EmailMessage) error
}

type LogMailer struct {
	Log logrus.FieldLogger
}

func (m *LogMailer) Send(_ context.Context, msg EmailMessage) error {
	log := m.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	log.WithFields(logrus.Fields{
		"to":      msg.To,
		"subject": msg.Subject,
		"body":    msg.Text,
	}).Info("email (log mailer)")
	return nil
}

// NewMailer builds the transport selected by cfg.Type: resend, ses, smtp or log.
func NewMailer(ctx context.Context, cfg config.MailerConfig, log logrus.FieldLogger) (Mailer, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Type)) {
	case "resend":
		log.Info("initializing resend mailer")
		return NewResendMailer(cfg.ResendAPIKey, cfg.From)
	case "ses":
		log.Info("initializing ses mailer")
		return NewSESMailer(ctx, cfg.SES, cfg.From, log)
	case "smtp":
		log.Info("initializing smtp mailer")
		return NewSMTPMailer(cfg.SMTP, cfg.From)
	case "log", "":
		log.Info("initializing log mailer")
		return &LogMailer{Log: log}, nil
	default:
		return nil, fmt.Errorf("unknown mailer type %q", cfg.Type)
	}
}
