package mocks

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/scribehq/scribe-api/internal/domain"
	"github.com/scribehq/scribe-api/internal/store"
)

// MemoryPostStore implements store.PostStore backed by a map. Relations
// are resolved through the linked user, category and comment stores, and
// deleting a post cascades to its comments like the real schema does.
type MemoryPostStore struct {
	mu     sync.RWMutex
	posts  map[int64]*domain.Post
	nextID int64

	Users      *MemoryUserStore
	Categories *MemoryCategoryStore
	Comments   *MemoryCommentStore

	// ForcedErr, when set, is returned by every call.
	ForcedErr error
}

// NewMemoryPostStore creates an empty MemoryPostStore resolving relations
// through the given stores.
func NewMemoryPostStore(
	users *MemoryUserStore,
	categories *MemoryCategoryStore,
	comments *MemoryCommentStore,
) *MemoryPostStore {
	return &MemoryPostStore{
		posts:      make(map[int64]*domain.Post),
		Users:      users,
		Categories: categories,
		Comments:   comments,
	}
}

// Ensure MemoryPostStore implements store.PostStore
var _ store.PostStore = (*MemoryPostStore)(nil)

// Create implements store.PostStore.Create
func (s *MemoryPostStore) Create(ctx context.Context, post *domain.Post) error {
	if s.ForcedErr != nil {
		return s.ForcedErr
	}
	if err := post.Validate(); err != nil {
		return err
	}

	// Mirror the foreign key constraints.
	if s.Users != nil {
		if _, err := s.Users.GetByID(ctx, post.UserID); err != nil {
			return fmt.Errorf("%w: referenced user or category not found", store.ErrInvalidEntity)
		}
	}
	if s.Categories != nil {
		if ok, _ := s.Categories.Exists(ctx, post.CategoryID); !ok {
			return fmt.Errorf("%w: referenced user or category not found", store.ErrInvalidEntity)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	post.ID = s.nextID
	clone := *post
	clone.Author = nil
	clone.Category = nil
	clone.Comments = nil
	s.posts[post.ID] = &clone
	return nil
}

// GetByID implements store.PostStore.GetByID
func (s *MemoryPostStore) GetByID(
	ctx context.Context,
	id int64,
	includes ...store.PostInclude,
) (*domain.Post, error) {
	if s.ForcedErr != nil {
		return nil, s.ForcedErr
	}

	s.mu.RLock()
	post, ok := s.posts[id]
	s.mu.RUnlock()

	if !ok {
		return nil, store.ErrPostNotFound
	}

	clone := *post
	s.attachRelations(ctx, &clone, includes)
	return &clone, nil
}

// List implements store.PostStore.List
func (s *MemoryPostStore) List(
	ctx context.Context,
	page store.PageRequest,
) (*store.Page[*domain.Post], error) {
	if s.ForcedErr != nil {
		return nil, s.ForcedErr
	}
	page = page.Normalize()

	all := s.sortedPosts()
	total := int64(len(all))

	start := page.Offset()
	if start > len(all) {
		start = len(all)
	}
	end := start + page.PerPage
	if end > len(all) {
		end = len(all)
	}

	includes := []store.PostInclude{
		store.IncludeAuthor,
		store.IncludeCategory,
		store.IncludeComments,
	}

	items := make([]*domain.Post, 0, end-start)
	for _, post := range all[start:end] {
		clone := *post
		s.attachRelations(ctx, &clone, includes)
		items = append(items, &clone)
	}

	return &store.Page[*domain.Post]{
		Items:   items,
		Page:    page.Page,
		PerPage: page.PerPage,
		Total:   total,
	}, nil
}

// Update implements store.PostStore.Update
func (s *MemoryPostStore) Update(ctx context.Context, id int64, upd store.PostUpdate) error {
	if s.ForcedErr != nil {
		return s.ForcedErr
	}

	if upd.CategoryID != nil && s.Categories != nil {
		if ok, _ := s.Categories.Exists(ctx, *upd.CategoryID); !ok {
			return fmt.Errorf("%w: referenced category not found", store.ErrInvalidEntity)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[id]
	if !ok {
		return store.ErrPostNotFound
	}

	if upd.CategoryID != nil {
		post.CategoryID = *upd.CategoryID
	}
	if upd.Title != nil {
		post.Title = *upd.Title
	}
	if upd.Body != nil {
		post.Body = *upd.Body
	}
	post.UpdatedAt = time.Now().UTC()
	return nil
}

// Delete implements store.PostStore.Delete
func (s *MemoryPostStore) Delete(ctx context.Context, id int64) error {
	if s.ForcedErr != nil {
		return s.ForcedErr
	}

	s.mu.Lock()
	_, ok := s.posts[id]
	if ok {
		delete(s.posts, id)
	}
	s.mu.Unlock()

	if !ok {
		return store.ErrPostNotFound
	}

	if s.Comments != nil {
		s.Comments.DeleteByPost(id)
	}
	return nil
}

// WithTx implements store.PostStore.WithTx
func (s *MemoryPostStore) WithTx(tx *sql.Tx) store.PostStore {
	return s
}

// MustCreate seeds a post and panics on error, for concise test setup.
func (s *MemoryPostStore) MustCreate(userID, categoryID int64, title, body string) *domain.Post {
	post, err := domain.NewPost(userID, categoryID, title, body)
	if err != nil {
		panic(err)
	}
	if err := s.Create(context.Background(), post); err != nil {
		panic(err)
	}
	return post
}

func (s *MemoryPostStore) sortedPosts() []*domain.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Post, 0, len(s.posts))
	for _, post := range s.posts {
		out = append(out, post)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *MemoryPostStore) attachRelations(
	ctx context.Context,
	post *domain.Post,
	includes []store.PostInclude,
) {
	want := make(map[store.PostInclude]bool, len(includes))
	for _, inc := range includes {
		want[inc] = true
	}
	if want[store.IncludeCommentAuthors] {
		want[store.IncludeComments] = true
	}

	if want[store.IncludeAuthor] && s.Users != nil {
		if author, err := s.Users.GetByID(ctx, post.UserID); err == nil {
			post.Author = author
		}
	}

	if want[store.IncludeCategory] && s.Categories != nil {
		if category, err := s.Categories.GetByID(ctx, post.CategoryID); err == nil {
			post.Category = category
		}
	}

	if want[store.IncludeComments] && s.Comments != nil {
		post.Comments = make([]*domain.Comment, 0)
		for _, comment := range s.Comments.commentsForPost(post.ID) {
			clone := *comment
			if want[store.IncludeCommentAuthors] {
				s.Comments.attachAuthor(ctx, &clone)
			}
			post.Comments = append(post.Comments, &clone)
		}
	}
}
