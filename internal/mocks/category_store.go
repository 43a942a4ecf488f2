package mocks

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/scribehq/scribe-api/internal/domain"
	"github.com/scribehq/scribe-api/internal/store"
)

// MemoryCategoryStore implements store.CategoryStore backed by a map.
type MemoryCategoryStore struct {
	mu         sync.RWMutex
	categories map[int64]*domain.Category
	nextID     int64

	// ForcedErr, when set, is returned by every call.
	ForcedErr error
}

// NewMemoryCategoryStore creates an empty MemoryCategoryStore.
func NewMemoryCategoryStore() *MemoryCategoryStore {
	return &MemoryCategoryStore{categories: make(map[int64]*domain.Category)}
}

// Ensure MemoryCategoryStore implements store.CategoryStore
var _ store.CategoryStore = (*MemoryCategoryStore)(nil)

// Create implements store.CategoryStore.Create
func (s *MemoryCategoryStore) Create(ctx context.Context, category *domain.Category) error {
	if s.ForcedErr != nil {
		return s.ForcedErr
	}
	if err := category.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	category.ID = s.nextID
	clone := *category
	s.categories[category.ID] = &clone
	return nil
}

// GetByID implements store.CategoryStore.GetByID
func (s *MemoryCategoryStore) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	if s.ForcedErr != nil {
		return nil, s.ForcedErr
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	category, ok := s.categories[id]
	if !ok {
		return nil, store.ErrCategoryNotFound
	}
	clone := *category
	return &clone, nil
}

// Exists implements store.CategoryStore.Exists
func (s *MemoryCategoryStore) Exists(ctx context.Context, id int64) (bool, error) {
	if s.ForcedErr != nil {
		return false, s.ForcedErr
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.categories[id]
	return ok, nil
}

// List implements store.CategoryStore.List
func (s *MemoryCategoryStore) List(ctx context.Context) ([]*domain.Category, error) {
	if s.ForcedErr != nil {
		return nil, s.ForcedErr
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Category, 0, len(s.categories))
	for _, category := range s.categories {
		clone := *category
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// WithTx implements store.CategoryStore.WithTx
func (s *MemoryCategoryStore) WithTx(tx *sql.Tx) store.CategoryStore {
	return s
}

// MustCreate seeds a category and panics on error, for concise test setup.
func (s *MemoryCategoryStore) MustCreate(name string) *domain.Category {
	now := time.Now().UTC()
	category := &domain.Category{Name: name, CreatedAt: now, UpdatedAt: now}
	if err := s.Create(context.Background(), category); err != nil {
		panic(err)
	}
	return category
}
