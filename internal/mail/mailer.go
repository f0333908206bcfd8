package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"perde-store/internal/config"

	"github.com/rs/zerolog"
)

// Mailer delivers a subject/body message to one or more recipients.
// Delivery is best-effort, at-most-once: callers log failures and carry on.
type Mailer interface {
	Send(ctx context.Context, recipients []string, subject, body string) error
}

// smtpMailer implements Mailer over plain SMTP.
type smtpMailer struct {
	cfg    config.MailConfig
	send   func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
	logger zerolog.Logger
}

// NewSMTPMailer creates an SMTP-backed mailer.
func NewSMTPMailer(cfg config.MailConfig, logger zerolog.Logger) Mailer {
	return &smtpMailer{
		cfg:    cfg,
		send:   smtp.SendMail,
		logger: logger.With().Str("component", "smtp-mailer").Logger(),
	}
}

// Send delivers one message to all recipients in a single SMTP transaction.
func (m *smtpMailer) Send(ctx context.Context, recipients []string, subject, body string) error {
	if len(recipients) == 0 {
		return fmt.Errorf("no recipients")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	msg := buildMessage(m.cfg.From, recipients, subject, body)
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	if err := m.send(addr, auth, m.cfg.From, recipients, msg); err != nil {
		m.logger.Error().
			Err(err).
			Int("recipient_count", len(recipients)).
			Str("subject", subject).
			Msg("failed to send mail")
		return fmt.Errorf("failed to send mail: %w", err)
	}

	m.logger.Debug().
		Int("recipient_count", len(recipients)).
		Str("subject", subject).
		Msg("mail sent")

	return nil
}

func buildMessage(from string, to []string, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}
