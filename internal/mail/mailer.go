// Package mail is the outbound email capability. The pipeline only needs it
// to deliver one-time passwords; the concrete transport is configuration.
package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/Ukvalley1218/bestkitchennet-backend/internal/log"
)

type Config struct {
	// Transport is one of smtp, log. The log transport only writes the mail
	// to the server log, for development setups without an SMTP relay.
	Transport string `conf:"transport" yaml:"transport" json:"transport"`
	Host      string `conf:"host" yaml:"host" json:"host"`
	Port      int    `conf:"port" yaml:"port" json:"port"`
	Username  string `conf:"username" yaml:"username" json:"username"`
	Password  string `conf:"password" yaml:"password" json:"password"`
	From      string `conf:"from" yaml:"from" json:"from"`
}

// Mailer sends plain-text mail.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// New builds a Mailer from config.
func New(cfg Config) Mailer {
	if cfg.Transport == "smtp" {
		return &smtpMailer{cfg: cfg}
	}

	return &logMailer{}
}

type smtpMailer struct {
	cfg Config
}

func (m *smtpMailer) Send(_ context.Context, to, subject, body string) error {
	msg := strings.Join([]string{
		"From: " + m.cfg.From,
		"To: " + to,
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}

	return nil
}

type logMailer struct{}

func (m *logMailer) Send(ctx context.Context, to, subject, body string) error {
	log.Info(ctx, "outbound mail",
		log.String("to", to),
		log.String("subject", subject),
		log.String("body", body),
	)

	return nil
}
