package mailer

import (
	"context"

	"github.com/scribehq/scribe-api/internal/domain"
)

// Mailer sends transactional email to users.
type Mailer interface {
	// SendWelcomeEmail sends the post-registration welcome message to the
	// given user.
	SendWelcomeEmail(ctx context.Context, user *domain.User) error
}
