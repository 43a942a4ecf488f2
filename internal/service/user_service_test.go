package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scribehq/scribe-api/internal/mocks"
	"github.com/scribehq/scribe-api/internal/service"
	"github.com/scribehq/scribe-api/internal/store"
)

func TestUserServiceGetUser(t *testing.T) {
	users := mocks.NewMemoryUserStore()
	seeded := users.MustCreate("Jamie Doe", "jamie@example.com", "$2a$10$hash")
	svc := service.NewUserService(users, testLogger())

	t.Run("existing user", func(t *testing.T) {
		user, err := svc.GetUser(context.Background(), seeded.ID)
		require.NoError(t, err)
		assert.Equal(t, "Jamie Doe", user.Name)
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := svc.GetUser(context.Background(), 9999)
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})
}
