package task

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scribehq/scribe-api/internal/domain"
	"github.com/scribehq/scribe-api/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeUserGetter implements UserGetter for tests.
type fakeUserGetter struct {
	users map[int64]*domain.User
	err   error
}

func (f *fakeUserGetter) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	user, ok := f.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return user, nil
}

// fakeMailer implements WelcomeMailer for tests.
type fakeMailer struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (f *fakeMailer) SendWelcomeEmail(ctx context.Context, user *domain.User) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, user.Email)
	return nil
}

func (f *fakeMailer) sentTo() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sent...)
}

func newTestUser(id int64) *domain.User {
	return &domain.User{
		ID:        id,
		Name:      "Jamie Doe",
		Email:     "jamie@example.com",
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
}

func TestNewWelcomeEmailTask(t *testing.T) {
	users := &fakeUserGetter{users: map[int64]*domain.User{1: newTestUser(1)}}
	mailer := &fakeMailer{}

	t.Run("valid task", func(t *testing.T) {
		task, err := NewWelcomeEmailTask(1, users, mailer, testLogger())
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, task.ID())
		assert.Equal(t, TaskTypeWelcomeEmail, task.Type())
		assert.Equal(t, TaskStatusPending, task.Status())
		assert.JSONEq(t, `{"user_id":1}`, string(task.Payload()))
	})

	t.Run("nil user getter", func(t *testing.T) {
		_, err := NewWelcomeEmailTask(1, nil, mailer, testLogger())
		assert.ErrorIs(t, err, ErrNilUserGetter)
	})

	t.Run("nil mailer", func(t *testing.T) {
		_, err := NewWelcomeEmailTask(1, users, nil, testLogger())
		assert.ErrorIs(t, err, ErrNilMailer)
	})

	t.Run("nil logger", func(t *testing.T) {
		_, err := NewWelcomeEmailTask(1, users, mailer, nil)
		assert.ErrorIs(t, err, ErrNilLogger)
	})

	t.Run("non-positive user ID", func(t *testing.T) {
		_, err := NewWelcomeEmailTask(0, users, mailer, testLogger())
		assert.ErrorIs(t, err, ErrInvalidUserID)
	})
}

func TestWelcomeEmailTaskExecute(t *testing.T) {
	t.Run("sends email to the user", func(t *testing.T) {
		users := &fakeUserGetter{users: map[int64]*domain.User{1: newTestUser(1)}}
		mailer := &fakeMailer{}
		task, err := NewWelcomeEmailTask(1, users, mailer, testLogger())
		require.NoError(t, err)

		require.NoError(t, task.Execute(context.Background()))
		assert.Equal(t, TaskStatusCompleted, task.Status())
		assert.Equal(t, []string{"jamie@example.com"}, mailer.sentTo())
	})

	t.Run("fails when user is missing", func(t *testing.T) {
		users := &fakeUserGetter{users: map[int64]*domain.User{}}
		mailer := &fakeMailer{}
		task, err := NewWelcomeEmailTask(9999, users, mailer, testLogger())
		require.NoError(t, err)

		err = task.Execute(context.Background())
		assert.ErrorIs(t, err, store.ErrUserNotFound)
		assert.Equal(t, TaskStatusFailed, task.Status())
		assert.Empty(t, mailer.sentTo())
	})

	t.Run("fails when mailer fails", func(t *testing.T) {
		users := &fakeUserGetter{users: map[int64]*domain.User{1: newTestUser(1)}}
		mailer := &fakeMailer{err: errors.New("smtp down")}
		task, err := NewWelcomeEmailTask(1, users, mailer, testLogger())
		require.NoError(t, err)

		err = task.Execute(context.Background())
		assert.ErrorContains(t, err, "failed to send welcome email")
		assert.Equal(t, TaskStatusFailed, task.Status())
	})

	t.Run("fails on cancelled context", func(t *testing.T) {
		users := &fakeUserGetter{users: map[int64]*domain.User{1: newTestUser(1)}}
		mailer := &fakeMailer{}
		task, err := NewWelcomeEmailTask(1, users, mailer, testLogger())
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		assert.Error(t, task.Execute(ctx))
		assert.Equal(t, TaskStatusFailed, task.Status())
		assert.Empty(t, mailer.sentTo())
	})
}

func TestWelcomeEmailTaskFactoryHydrate(t *testing.T) {
	users := &fakeUserGetter{users: map[int64]*domain.User{1: newTestUser(1)}}
	mailer := &fakeMailer{}
	factory := NewWelcomeEmailTaskFactory(users, mailer, testLogger())

	t.Run("rebuilds an executable task with the persisted ID", func(t *testing.T) {
		id := uuid.New()
		task, err := factory.Hydrate(id, []byte(`{"user_id":1}`))
		require.NoError(t, err)
		assert.Equal(t, id, task.ID())

		require.NoError(t, task.Execute(context.Background()))
		assert.Equal(t, []string{"jamie@example.com"}, mailer.sentTo())
	})

	t.Run("rejects malformed payload", func(t *testing.T) {
		_, err := factory.Hydrate(uuid.New(), []byte(`{`))
		assert.ErrorContains(t, err, "failed to unmarshal welcome email payload")
	})

	t.Run("rejects payload with missing user ID", func(t *testing.T) {
		_, err := factory.Hydrate(uuid.New(), []byte(`{}`))
		assert.ErrorIs(t, err, ErrInvalidUserID)
	})
}
