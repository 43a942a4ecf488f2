package events

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTaskRequestEvent(t *testing.T) {
	type welcomePayload struct {
		UserID int64 `json:"user_id"`
	}

	event, err := NewTaskRequestEvent("welcome_email", welcomePayload{UserID: 42})

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, "welcome_email", event.Type)
	assert.WithinDuration(t, time.Now(), event.CreatedAt, 2*time.Second)

	var decoded welcomePayload
	require.NoError(t, event.UnmarshalPayload(&decoded))
	assert.Equal(t, int64(42), decoded.UserID)
}

func TestNewTaskRequestEventUnserializablePayload(t *testing.T) {
	_, err := NewTaskRequestEvent("welcome_email", make(chan int))
	assert.Error(t, err)
}

func TestUnmarshalPayloadTypeMismatch(t *testing.T) {
	event, err := NewTaskRequestEvent("welcome_email", map[string]string{"user_id": "not-a-number"})
	require.NoError(t, err)

	var decoded struct {
		UserID int64 `json:"user_id"`
	}
	assert.Error(t, event.UnmarshalPayload(&decoded))
}

// recordingHandler implements EventHandler for tests.
type recordingHandler struct {
	LastEvent    *TaskRequestEvent
	HandlerError error
	HandledCount int
}

func (h *recordingHandler) HandleEvent(ctx context.Context, event *TaskRequestEvent) error {
	h.LastEvent = event
	h.HandledCount++
	return h.HandlerError
}
