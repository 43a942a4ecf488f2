package mailer

import (
	"context"
	"log/slog"

	"github.com/scribehq/scribe-api/internal/domain"
)

// LogMailer writes mail to the log instead of sending it. It is the
// default when no SMTP host is configured, which keeps local development
// and tests free of mail infrastructure.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer creates a mailer that logs instead of sending.
func NewLogMailer(logger *slog.Logger) *LogMailer {
	if logger == nil {
		logger = slog.Default()
	}

	return &LogMailer{
		logger: logger.With(slog.String("component", "log_mailer")),
	}
}

// Ensure LogMailer implements Mailer
var _ Mailer = (*LogMailer)(nil)

// SendWelcomeEmail implements Mailer.SendWelcomeEmail
func (m *LogMailer) SendWelcomeEmail(ctx context.Context, user *domain.User) error {
	m.logger.InfoContext(ctx, "welcome email",
		slog.String("to", user.Email),
		slog.String("name", user.Name))
	return nil
}
