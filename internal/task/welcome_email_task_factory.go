package task

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// WelcomeEmailTaskFactory creates WelcomeEmailTask instances, both for
// fresh requests and for rows recovered from the database.
type WelcomeEmailTaskFactory struct {
	users  UserGetter
	mailer WelcomeMailer
	logger *slog.Logger
}

// NewWelcomeEmailTaskFactory creates a new factory for WelcomeEmailTasks
func NewWelcomeEmailTaskFactory(
	users UserGetter,
	mailer WelcomeMailer,
	logger *slog.Logger,
) *WelcomeEmailTaskFactory {
	return &WelcomeEmailTaskFactory{
		users:  users,
		mailer: mailer,
		logger: logger.With(slog.String("component", "welcome_email_task_factory")),
	}
}

// Ensure WelcomeEmailTaskFactory implements Hydrator
var _ Hydrator = (*WelcomeEmailTaskFactory)(nil)

// CreateTask creates a new WelcomeEmailTask for the specified user
func (f *WelcomeEmailTaskFactory) CreateTask(userID int64) (Task, error) {
	return NewWelcomeEmailTask(userID, f.users, f.mailer, f.logger)
}

// Hydrate implements Hydrator. It rebuilds an executable WelcomeEmailTask
// from a persisted row, keeping the row's identity.
func (f *WelcomeEmailTaskFactory) Hydrate(id uuid.UUID, payload []byte) (Task, error) {
	var p welcomeEmailPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal welcome email payload: %w", err)
	}

	t, err := NewWelcomeEmailTask(p.UserID, f.users, f.mailer, f.logger)
	if err != nil {
		return nil, err
	}
	t.id = id
	return t, nil
}
