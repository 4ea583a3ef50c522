package mail

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strconv"

	"go.uber.org/zap"

	"github.com/resolveit/complaint-service/internal/config"
)

// Message is a queued outbound email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer delivers a single message. Implementations own their transport
// errors; callers treat delivery as best-effort.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPMailer sends plain-text mail through an SMTP relay.
type SMTPMailer struct {
	cfg config.MailConfig
}

// NewSMTPMailer builds the mailer from config.
func NewSMTPMailer(cfg config.MailConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// Send delivers the message, honoring the configured send timeout.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))
	payload := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		m.cfg.From, msg.To, msg.Subject, msg.Body)

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(addr, auth, m.cfg.From, []string{msg.To}, []byte(payload))
	}()

	if m.cfg.SendTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.cfg.SendTimeout)
		defer cancel()
	}

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// LogMailer logs messages instead of sending them. Used when no SMTP host
// is configured.
type LogMailer struct {
	logger *zap.Logger
}

// NewLogMailer builds the logging mailer.
func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// Send logs the message at debug level.
func (m *LogMailer) Send(_ context.Context, msg Message) error {
	m.logger.Debug("mail delivery skipped (no SMTP host configured)",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
	)
	return nil
}
