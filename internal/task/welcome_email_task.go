package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/scribehq/scribe-api/internal/domain"
)

// Common errors
var (
	ErrNilUserGetter = errors.New("user getter cannot be nil")
	ErrNilMailer     = errors.New("mailer cannot be nil")
	ErrNilLogger     = errors.New("logger cannot be nil")
	ErrInvalidUserID = errors.New("user ID must be positive")
)

// UserGetter looks up the recipient of a welcome email. store.UserStore
// satisfies this.
type UserGetter interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// WelcomeMailer sends the welcome email. mailer.Mailer satisfies this.
type WelcomeMailer interface {
	SendWelcomeEmail(ctx context.Context, user *domain.User) error
}

// welcomeEmailPayload is the serialized data stored with the task
type welcomeEmailPayload struct {
	UserID int64 `json:"user_id"`
}

// WelcomeEmailTask implements the Task interface for sending the
// post-registration welcome email to a user
type WelcomeEmailTask struct {
	id     uuid.UUID
	userID int64
	users  UserGetter
	mailer WelcomeMailer
	logger *slog.Logger
	status TaskStatus
}

// NewWelcomeEmailTask creates a new welcome email task for the given user
func NewWelcomeEmailTask(
	userID int64,
	users UserGetter,
	mailer WelcomeMailer,
	logger *slog.Logger,
) (*WelcomeEmailTask, error) {
	if users == nil {
		return nil, ErrNilUserGetter
	}
	if mailer == nil {
		return nil, ErrNilMailer
	}
	if logger == nil {
		return nil, ErrNilLogger
	}
	if userID <= 0 {
		return nil, ErrInvalidUserID
	}

	return &WelcomeEmailTask{
		id:     uuid.New(),
		userID: userID,
		users:  users,
		mailer: mailer,
		logger: logger.With(
			slog.String("task_type", TaskTypeWelcomeEmail),
			slog.Int64("user_id", userID)),
		status: TaskStatusPending,
	}, nil
}

// ID returns the task's unique identifier
func (t *WelcomeEmailTask) ID() uuid.UUID {
	return t.id
}

// Type returns the task type identifier
func (t *WelcomeEmailTask) Type() string {
	return TaskTypeWelcomeEmail
}

// Payload returns the task data as a byte slice
func (t *WelcomeEmailTask) Payload() []byte {
	data, err := json.Marshal(welcomeEmailPayload{UserID: t.userID})
	if err != nil {
		t.logger.Error("failed to marshal task payload",
			slog.String("error", err.Error()))
		return []byte{}
	}
	return data
}

// Status returns the current task status
func (t *WelcomeEmailTask) Status() TaskStatus {
	return t.status
}

// Execute looks up the user and sends the welcome email. A missing user
// fails the task; the user may have been deleted between enqueue and
// execution.
func (t *WelcomeEmailTask) Execute(ctx context.Context) error {
	t.status = TaskStatusProcessing
	t.logger.Info("starting welcome email task")

	if err := ctx.Err(); err != nil {
		t.status = TaskStatusFailed
		t.logger.Error("task cancelled by context", slog.String("error", err.Error()))
		return fmt.Errorf("task cancelled by context: %w", err)
	}

	user, err := t.users.GetByID(ctx, t.userID)
	if err != nil {
		t.status = TaskStatusFailed
		t.logger.Error("failed to retrieve user", slog.String("error", err.Error()))
		return fmt.Errorf("failed to retrieve user: %w", err)
	}

	if err := t.mailer.SendWelcomeEmail(ctx, user); err != nil {
		t.status = TaskStatusFailed
		t.logger.Error("failed to send welcome email", slog.String("error", err.Error()))
		return fmt.Errorf("failed to send welcome email: %w", err)
	}

	t.status = TaskStatusCompleted
	t.logger.Info("welcome email task completed")
	return nil
}
