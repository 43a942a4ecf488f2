package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/scribehq/scribe-api/internal/events"
)

// taskCreator creates a welcome email task for a user.
type taskCreator interface {
	CreateTask(userID int64) (Task, error)
}

// taskSubmitter persists and queues a task for execution.
type taskSubmitter interface {
	Submit(ctx context.Context, task Task) error
}

// WelcomeEmailEventHandler turns welcome email request events into
// persisted, queued tasks.
type WelcomeEmailEventHandler struct {
	factory taskCreator
	runner  taskSubmitter
	logger  *slog.Logger
}

// NewWelcomeEmailEventHandler creates a handler that builds tasks with the
// given factory and submits them to the given runner.
func NewWelcomeEmailEventHandler(
	factory taskCreator,
	runner taskSubmitter,
	logger *slog.Logger,
) *WelcomeEmailEventHandler {
	return &WelcomeEmailEventHandler{
		factory: factory,
		runner:  runner,
		logger:  logger.With(slog.String("component", "welcome_email_event_handler")),
	}
}

// Ensure WelcomeEmailEventHandler implements events.EventHandler
var _ events.EventHandler = (*WelcomeEmailEventHandler)(nil)

// HandleEvent processes welcome email request events. Events of other
// types are ignored so additional handlers can share the emitter.
func (h *WelcomeEmailEventHandler) HandleEvent(
	ctx context.Context,
	event *events.TaskRequestEvent,
) error {
	if event.Type != TaskTypeWelcomeEmail {
		h.logger.Debug("ignoring event with unsupported type",
			slog.String("event_type", event.Type),
			slog.String("event_id", event.ID.String()))
		return nil
	}

	var payload welcomeEmailPayload
	if err := event.UnmarshalPayload(&payload); err != nil {
		h.logger.Error("failed to unmarshal payload",
			slog.String("error", err.Error()),
			slog.String("event_id", event.ID.String()))
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	t, err := h.factory.CreateTask(payload.UserID)
	if err != nil {
		h.logger.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.Int64("user_id", payload.UserID),
			slog.String("event_id", event.ID.String()))
		return fmt.Errorf("failed to create task: %w", err)
	}

	if err := h.runner.Submit(ctx, t); err != nil {
		h.logger.Error("failed to submit task",
			slog.String("error", err.Error()),
			slog.String("task_id", t.ID().String()),
			slog.Int64("user_id", payload.UserID))
		return fmt.Errorf("failed to submit task: %w", err)
	}

	h.logger.Info("task created and submitted",
		slog.String("task_id", t.ID().String()),
		slog.Int64("user_id", payload.UserID))
	return nil
}
