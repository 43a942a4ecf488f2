package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/scribehq/scribe-api/internal/domain"
)

// SMTPMailer sends mail through a plain SMTP relay.
type SMTPMailer struct {
	addr   string
	from   string
	logger *slog.Logger

	// send is swappable for tests; defaults to smtp.SendMail.
	send func(addr, from string, to []string, msg []byte) error
}

// NewSMTPMailer creates a mailer that relays through the SMTP server at
// host:port, sending from the given address.
func NewSMTPMailer(host string, port int, from string, logger *slog.Logger) *SMTPMailer {
	if logger == nil {
		logger = slog.Default()
	}

	return &SMTPMailer{
		addr:   fmt.Sprintf("%s:%d", host, port),
		from:   from,
		logger: logger.With(slog.String("component", "smtp_mailer")),
		send: func(addr, from string, to []string, msg []byte) error {
			return smtp.SendMail(addr, nil, from, to, msg)
		},
	}
}

// Ensure SMTPMailer implements Mailer
var _ Mailer = (*SMTPMailer)(nil)

// SendWelcomeEmail implements Mailer.SendWelcomeEmail
func (m *SMTPMailer) SendWelcomeEmail(ctx context.Context, user *domain.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := buildWelcomeMessage(m.from, user)

	if err := m.send(m.addr, m.from, []string{user.Email}, msg); err != nil {
		m.logger.ErrorContext(ctx, "failed to send welcome email",
			slog.String("error", err.Error()),
			slog.String("to", user.Email))
		return fmt.Errorf("failed to send welcome email: %w", err)
	}

	m.logger.InfoContext(ctx, "welcome email sent",
		slog.String("to", user.Email))
	return nil
}

// buildWelcomeMessage renders the welcome email as a raw RFC 5322 message.
func buildWelcomeMessage(from string, user *domain.User) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", user.Email)
	b.WriteString("Subject: Welcome!\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	fmt.Fprintf(&b, "Hi %s,\r\n\r\n", user.Name)
	b.WriteString("Welcome aboard! Your account is ready to use.\r\n")
	return []byte(b.String())
}
