// Package notifier drains the notification outbox and delivers pickup
// confirmations and payment receipts by email.
package notifier

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/google/uuid"
	"github.com/greentruckerlabs/greentrucker/internal/config"
	"go.uber.org/zap"
)

// Mailer delivers one message. Implementations must be safe for concurrent
// use.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPMailer sends through a plain SMTP relay.
type SMTPMailer struct {
	addr string
	auth smtp.Auth
	from string
}

func NewSMTPMailer(cfg config.MailConfig) *SMTPMailer {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &SMTPMailer{
		addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		auth: auth,
		from: cfg.From,
	}
}

func (m *SMTPMailer) Send(_ context.Context, to, subject, body string) error {
	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	fmt.Fprintf(&msg, "Message-ID: <%s@greentrucker>\r\n", uuid.NewString())
	msg.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	msg.WriteString(body)
	return smtp.SendMail(m.addr, m.auth, m.from, []string{to}, []byte(msg.String()))
}

// LogMailer is used when no SMTP host is configured. Deliveries are recorded
// in the log instead of being sent.
type LogMailer struct {
	log *zap.Logger
}

func NewLogMailer(log *zap.Logger) *LogMailer {
	return &LogMailer{log: log.Named("notifier.logmailer")}
}

func (m *LogMailer) Send(_ context.Context, to, subject, _ string) error {
	m.log.Info("mail delivery skipped, no smtp host configured",
		zap.String("to", to),
		zap.String("subject", subject),
	)
	return nil
}

// NewMailer picks the SMTP implementation when a host is configured and the
// logging fallback otherwise.
func NewMailer(cfg *config.Config, log *zap.Logger) Mailer {
	if strings.TrimSpace(cfg.Mail.Host) == "" {
		return NewLogMailer(log)
	}
	return NewSMTPMailer(cfg.Mail)
}
