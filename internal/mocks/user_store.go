package mocks

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/scribehq/scribe-api/internal/domain"
	"github.com/scribehq/scribe-api/internal/store"
)

// MemoryUserStore implements store.UserStore backed by a map.
type MemoryUserStore struct {
	mu     sync.RWMutex
	users  map[int64]*domain.User
	nextID int64

	// ForcedErr, when set, is returned by every call.
	ForcedErr error
}

// NewMemoryUserStore creates an empty MemoryUserStore.
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: make(map[int64]*domain.User)}
}

// Ensure MemoryUserStore implements store.UserStore
var _ store.UserStore = (*MemoryUserStore)(nil)

// Create implements store.UserStore.Create
func (s *MemoryUserStore) Create(ctx context.Context, user *domain.User) error {
	if s.ForcedErr != nil {
		return s.ForcedErr
	}
	if err := user.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == user.Email {
			return store.ErrEmailExists
		}
	}

	s.nextID++
	user.ID = s.nextID
	clone := *user
	s.users[user.ID] = &clone
	return nil
}

// GetByID implements store.UserStore.GetByID
func (s *MemoryUserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if s.ForcedErr != nil {
		return nil, s.ForcedErr
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

// GetByEmail implements store.UserStore.GetByEmail
func (s *MemoryUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if s.ForcedErr != nil {
		return nil, s.ForcedErr
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, store.ErrUserNotFound
}

// WithTx implements store.UserStore.WithTx
func (s *MemoryUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return s
}

// MustCreate seeds a user and panics on error, for concise test setup.
func (s *MemoryUserStore) MustCreate(name, email, hashedPassword string) *domain.User {
	now := time.Now().UTC()
	user := &domain.User{
		Name:           name,
		Email:          email,
		HashedPassword: hashedPassword,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.Create(context.Background(), user); err != nil {
		panic(err)
	}
	return user
}
