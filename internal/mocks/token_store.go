package mocks

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/scribehq/scribe-api/internal/store"
)

// MemoryTokenStore implements store.TokenStore backed by a map.
type MemoryTokenStore struct {
	mu     sync.RWMutex
	tokens map[uuid.UUID]*store.AuthToken

	// ForcedErr, when set, is returned by every call.
	ForcedErr error
}

// NewMemoryTokenStore creates an empty MemoryTokenStore.
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{tokens: make(map[uuid.UUID]*store.AuthToken)}
}

// Ensure MemoryTokenStore implements store.TokenStore
var _ store.TokenStore = (*MemoryTokenStore)(nil)

// Create implements store.TokenStore.Create
func (s *MemoryTokenStore) Create(ctx context.Context, token *store.AuthToken) error {
	if s.ForcedErr != nil {
		return s.ForcedErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *token
	s.tokens[token.ID] = &clone
	return nil
}

// Exists implements store.TokenStore.Exists
func (s *MemoryTokenStore) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	if s.ForcedErr != nil {
		return false, s.ForcedErr
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	token, ok := s.tokens[id]
	if !ok {
		return false, nil
	}
	return token.ExpiresAt.After(time.Now().UTC()), nil
}

// Delete implements store.TokenStore.Delete
func (s *MemoryTokenStore) Delete(ctx context.Context, id uuid.UUID) error {
	if s.ForcedErr != nil {
		return s.ForcedErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tokens[id]; !ok {
		return store.ErrTokenNotFound
	}
	delete(s.tokens, id)
	return nil
}

// DeleteForUser implements store.TokenStore.DeleteForUser
func (s *MemoryTokenStore) DeleteForUser(ctx context.Context, userID int64) (int64, error) {
	if s.ForcedErr != nil {
		return 0, s.ForcedErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	for id, token := range s.tokens {
		if token.UserID == userID {
			delete(s.tokens, id)
			count++
		}
	}
	return count, nil
}

// DeleteExpired implements store.TokenStore.DeleteExpired
func (s *MemoryTokenStore) DeleteExpired(ctx context.Context) (int64, error) {
	if s.ForcedErr != nil {
		return 0, s.ForcedErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	var count int64
	for id, token := range s.tokens {
		if !token.ExpiresAt.After(now) {
			delete(s.tokens, id)
			count++
		}
	}
	return count, nil
}

// WithTx implements store.TokenStore.WithTx
func (s *MemoryTokenStore) WithTx(tx *sql.Tx) store.TokenStore {
	return s
}

// Count returns the number of stored tokens.
func (s *MemoryTokenStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tokens)
}
