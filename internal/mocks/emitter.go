package mocks

import (
	"context"
	"sync"

	"github.com/scribehq/scribe-api/internal/events"
)

// RecordingEmitter implements events.EventEmitter and records every
// emitted event for inspection.
type RecordingEmitter struct {
	mu     sync.Mutex
	events []*events.TaskRequestEvent

	// ForcedErr, when set, is returned by every EmitEvent call.
	ForcedErr error
}

// NewRecordingEmitter creates an empty RecordingEmitter.
func NewRecordingEmitter() *RecordingEmitter {
	return &RecordingEmitter{}
}

// Ensure RecordingEmitter implements events.EventEmitter
var _ events.EventEmitter = (*RecordingEmitter)(nil)

// EmitEvent implements events.EventEmitter.EmitEvent
func (e *RecordingEmitter) EmitEvent(ctx context.Context, event *events.TaskRequestEvent) error {
	if e.ForcedErr != nil {
		return e.ForcedErr
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, event)
	return nil
}

// Events returns a snapshot of the emitted events.
func (e *RecordingEmitter) Events() []*events.TaskRequestEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]*events.TaskRequestEvent(nil), e.events...)
}
