package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scribehq/scribe-api/internal/mocks"
	"github.com/scribehq/scribe-api/internal/platform/mailer"
	"github.com/scribehq/scribe-api/internal/service"
	"github.com/scribehq/scribe-api/internal/store"
	"github.com/scribehq/scribe-api/internal/task"
)

type welcomeFixture struct {
	users *mocks.MemoryUserStore
	tasks *mocks.MemoryTaskStore
	svc   service.WelcomeEmailService
}

func newWelcomeFixture(t *testing.T) *welcomeFixture {
	t.Helper()
	users := mocks.NewMemoryUserStore()
	tasks := mocks.NewMemoryTaskStore()
	factory := task.NewWelcomeEmailTaskFactory(users, mailer.NewLogMailer(testLogger()), testLogger())

	return &welcomeFixture{
		users: users,
		tasks: tasks,
		svc:   service.NewWelcomeEmailService(users, tasks, factory, testLogger()),
	}
}

func TestWelcomeEmailServiceTrigger(t *testing.T) {
	t.Run("by ID queues exactly one pending task", func(t *testing.T) {
		f := newWelcomeFixture(t)
		seeded := f.users.MustCreate("Jamie Doe", "jamie@example.com", "$2a$10$hash")

		user, err := f.svc.Trigger(context.Background(), seeded.ID, "")
		require.NoError(t, err)
		assert.Equal(t, seeded.ID, user.ID)
		assert.Equal(t, "jamie@example.com", user.Email)

		rows := f.tasks.Rows()
		require.Len(t, rows, 1)
		assert.Equal(t, task.TaskTypeWelcomeEmail, rows[0].Type)
		assert.Equal(t, task.TaskStatusPending, rows[0].Status)
	})

	t.Run("by email", func(t *testing.T) {
		f := newWelcomeFixture(t)
		seeded := f.users.MustCreate("Jamie Doe", "jamie@example.com", "$2a$10$hash")

		user, err := f.svc.Trigger(context.Background(), 0, "jamie@example.com")
		require.NoError(t, err)
		assert.Equal(t, seeded.ID, user.ID)
		assert.Len(t, f.tasks.Rows(), 1)
	})

	t.Run("ID takes precedence over email", func(t *testing.T) {
		f := newWelcomeFixture(t)
		byID := f.users.MustCreate("Jamie Doe", "jamie@example.com", "$2a$10$hash")
		f.users.MustCreate("Other Person", "other@example.com", "$2a$10$hash")

		user, err := f.svc.Trigger(context.Background(), byID.ID, "other@example.com")
		require.NoError(t, err)
		assert.Equal(t, byID.ID, user.ID)
	})

	t.Run("no selector", func(t *testing.T) {
		f := newWelcomeFixture(t)

		_, err := f.svc.Trigger(context.Background(), 0, "")
		assert.ErrorIs(t, err, service.ErrMissingSelector)
		assert.Empty(t, f.tasks.Rows())
	})

	t.Run("unknown ID", func(t *testing.T) {
		f := newWelcomeFixture(t)

		_, err := f.svc.Trigger(context.Background(), 9999, "")
		assert.ErrorIs(t, err, store.ErrUserNotFound)
		assert.Empty(t, f.tasks.Rows())
	})

	t.Run("unknown email", func(t *testing.T) {
		f := newWelcomeFixture(t)

		_, err := f.svc.Trigger(context.Background(), 0, "nobody@example.com")
		assert.ErrorIs(t, err, store.ErrUserNotFound)
		assert.Empty(t, f.tasks.Rows())
	})

	t.Run("task store failure surfaces", func(t *testing.T) {
		f := newWelcomeFixture(t)
		seeded := f.users.MustCreate("Jamie Doe", "jamie@example.com", "$2a$10$hash")
		f.tasks.ForcedErr = assert.AnError

		_, err := f.svc.Trigger(context.Background(), seeded.ID, "")
		assert.ErrorContains(t, err, "failed to queue welcome email task")
	})
}
