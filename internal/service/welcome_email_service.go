package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/scribehq/scribe-api/internal/domain"
	"github.com/scribehq/scribe-api/internal/store"
	"github.com/scribehq/scribe-api/internal/task"
)

// welcomeTaskCreator builds a welcome email task for a user.
// task.WelcomeEmailTaskFactory satisfies this.
type welcomeTaskCreator interface {
	CreateTask(userID int64) (task.Task, error)
}

// WelcomeEmailService queues a welcome email for a user selected by ID or
// email. It persists the task as a pending row; a running task runner, in
// this process or another, picks it up from there.
type WelcomeEmailService interface {
	// Trigger queues a welcome email for the user selected by userID (when
	// positive) or email (when userID is not positive and email is
	// non-empty). Returns the resolved user.
	// Returns ErrMissingSelector when neither selector is given and
	// store.ErrUserNotFound when no user matches.
	Trigger(ctx context.Context, userID int64, email string) (*domain.User, error)
}

// WelcomeEmailServiceImpl implements the WelcomeEmailService interface
type WelcomeEmailServiceImpl struct {
	userStore store.UserStore
	taskStore task.TaskStore
	factory   welcomeTaskCreator
	logger    *slog.Logger
}

// NewWelcomeEmailService creates a new WelcomeEmailService
func NewWelcomeEmailService(
	userStore store.UserStore,
	taskStore task.TaskStore,
	factory welcomeTaskCreator,
	logger *slog.Logger,
) *WelcomeEmailServiceImpl {
	return &WelcomeEmailServiceImpl{
		userStore: userStore,
		taskStore: taskStore,
		factory:   factory,
		logger:    logger.With(slog.String("component", "welcome_email_service")),
	}
}

// Ensure WelcomeEmailServiceImpl implements WelcomeEmailService
var _ WelcomeEmailService = (*WelcomeEmailServiceImpl)(nil)

// Trigger queues exactly one welcome email for the selected user.
func (s *WelcomeEmailServiceImpl) Trigger(
	ctx context.Context,
	userID int64,
	email string,
) (*domain.User, error) {
	user, err := s.resolveUser(ctx, userID, email)
	if err != nil {
		return nil, err
	}

	t, err := s.factory.CreateTask(user.ID)
	if err != nil {
		s.logger.Error("failed to create welcome email task",
			"error", err,
			"user_id", user.ID)
		return nil, fmt.Errorf("failed to create welcome email task: %w", err)
	}

	if err := s.taskStore.SaveTask(ctx, t); err != nil {
		s.logger.Error("failed to queue welcome email task",
			"error", err,
			"user_id", user.ID)
		return nil, fmt.Errorf("failed to queue welcome email task: %w", err)
	}

	s.logger.Info("welcome email task queued",
		"task_id", t.ID(),
		"user_id", user.ID,
		"email", user.Email)

	return user, nil
}

// resolveUser applies the selector precedence: ID when positive, then
// email, otherwise ErrMissingSelector.
func (s *WelcomeEmailServiceImpl) resolveUser(
	ctx context.Context,
	userID int64,
	email string,
) (*domain.User, error) {
	switch {
	case userID > 0:
		return s.userStore.GetByID(ctx, userID)
	case email != "":
		return s.userStore.GetByEmail(ctx, email)
	default:
		return nil, ErrMissingSelector
	}
}
