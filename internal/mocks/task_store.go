package mocks

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/scribehq/scribe-api/internal/task"
)

// MemoryTaskStore implements task.TaskStore backed by a map.
type MemoryTaskStore struct {
	mu    sync.Mutex
	rows  map[uuid.UUID]*TaskRow
	order []uuid.UUID

	// ForcedErr, when set, is returned by every call.
	ForcedErr error
}

// TaskRow is a persisted task as the store sees it.
type TaskRow struct {
	ID        uuid.UUID
	Type      string
	Payload   []byte
	Status    task.TaskStatus
	ErrorMsg  string
	UpdatedAt time.Time
}

// NewMemoryTaskStore creates an empty MemoryTaskStore.
func NewMemoryTaskStore() *MemoryTaskStore {
	return &MemoryTaskStore{rows: make(map[uuid.UUID]*TaskRow)}
}

// Ensure MemoryTaskStore implements task.TaskStore
var _ task.TaskStore = (*MemoryTaskStore)(nil)

// SaveTask implements task.TaskStore.SaveTask
func (s *MemoryTaskStore) SaveTask(ctx context.Context, t task.Task) error {
	if s.ForcedErr != nil {
		return s.ForcedErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.rows[t.ID()] = &TaskRow{
		ID:        t.ID(),
		Type:      t.Type(),
		Payload:   t.Payload(),
		Status:    t.Status(),
		UpdatedAt: time.Now().UTC(),
	}
	s.order = append(s.order, t.ID())
	return nil
}

// UpdateTaskStatus implements task.TaskStore.UpdateTaskStatus
func (s *MemoryTaskStore) UpdateTaskStatus(
	ctx context.Context,
	taskID uuid.UUID,
	status task.TaskStatus,
	errorMsg string,
) error {
	if s.ForcedErr != nil {
		return s.ForcedErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.rows[taskID]
	if !ok {
		return nil
	}
	row.Status = status
	row.ErrorMsg = errorMsg
	row.UpdatedAt = time.Now().UTC()
	return nil
}

// GetPendingTasks implements task.TaskStore.GetPendingTasks
func (s *MemoryTaskStore) GetPendingTasks(ctx context.Context) ([]task.Task, error) {
	if s.ForcedErr != nil {
		return nil, s.ForcedErr
	}
	return s.tasksByStatus(task.TaskStatusPending, 0), nil
}

// GetProcessingTasks implements task.TaskStore.GetProcessingTasks
func (s *MemoryTaskStore) GetProcessingTasks(
	ctx context.Context,
	olderThan time.Duration,
) ([]task.Task, error) {
	if s.ForcedErr != nil {
		return nil, s.ForcedErr
	}
	return s.tasksByStatus(task.TaskStatusProcessing, olderThan), nil
}

// WithTx implements task.TaskStore.WithTx
func (s *MemoryTaskStore) WithTx(tx *sql.Tx) task.TaskStore {
	return s
}

// Rows returns a snapshot of the persisted rows in insertion order.
func (s *MemoryTaskStore) Rows() []TaskRow {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]TaskRow, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.rows[id])
	}
	return out
}

// StatusOf returns the stored status of the given task.
func (s *MemoryTaskStore) StatusOf(id uuid.UUID) task.TaskStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[id]
	if !ok {
		return ""
	}
	return row.Status
}

func (s *MemoryTaskStore) tasksByStatus(status task.TaskStatus, olderThan time.Duration) []task.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().UTC().Add(-olderThan)
	var out []task.Task
	for _, id := range s.order {
		row := s.rows[id]
		if row.Status != status {
			continue
		}
		if olderThan > 0 && !row.UpdatedAt.Before(cutoff) {
			continue
		}
		out = append(out, &persistedTask{
			id:       row.ID,
			taskType: row.Type,
			payload:  row.Payload,
			status:   row.Status,
		})
	}
	return out
}

// persistedTask mimics a task row loaded from the database: identity and
// payload without execution wiring.
type persistedTask struct {
	id       uuid.UUID
	taskType string
	payload  []byte
	status   task.TaskStatus
}

var _ task.Task = (*persistedTask)(nil)

func (t *persistedTask) ID() uuid.UUID           { return t.id }
func (t *persistedTask) Type() string            { return t.taskType }
func (t *persistedTask) Payload() []byte         { return t.payload }
func (t *persistedTask) Status() task.TaskStatus { return t.status }

func (t *persistedTask) Execute(ctx context.Context) error {
	return errors.New("task has not been hydrated")
}
