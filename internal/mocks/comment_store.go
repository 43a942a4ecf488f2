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

// MemoryCommentStore implements store.CommentStore backed by a map.
// Authors are resolved through the linked MemoryUserStore.
type MemoryCommentStore struct {
	mu       sync.RWMutex
	comments map[int64]*domain.Comment
	nextID   int64

	// Users resolves comment authors for eager loading.
	Users *MemoryUserStore

	// ForcedErr, when set, is returned by every call.
	ForcedErr error
}

// NewMemoryCommentStore creates an empty MemoryCommentStore resolving
// authors through users.
func NewMemoryCommentStore(users *MemoryUserStore) *MemoryCommentStore {
	return &MemoryCommentStore{
		comments: make(map[int64]*domain.Comment),
		Users:    users,
	}
}

// Ensure MemoryCommentStore implements store.CommentStore
var _ store.CommentStore = (*MemoryCommentStore)(nil)

// Create implements store.CommentStore.Create
func (s *MemoryCommentStore) Create(ctx context.Context, comment *domain.Comment) error {
	if s.ForcedErr != nil {
		return s.ForcedErr
	}
	if err := comment.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	comment.ID = s.nextID
	clone := *comment
	clone.Author = nil
	s.comments[comment.ID] = &clone
	return nil
}

// GetByID implements store.CommentStore.GetByID
func (s *MemoryCommentStore) GetByID(ctx context.Context, id int64) (*domain.Comment, error) {
	if s.ForcedErr != nil {
		return nil, s.ForcedErr
	}

	s.mu.RLock()
	comment, ok := s.comments[id]
	s.mu.RUnlock()

	if !ok {
		return nil, store.ErrCommentNotFound
	}

	clone := *comment
	s.attachAuthor(ctx, &clone)
	return &clone, nil
}

// ListByPost implements store.CommentStore.ListByPost
func (s *MemoryCommentStore) ListByPost(
	ctx context.Context,
	postID int64,
	page store.PageRequest,
) (*store.Page[*domain.Comment], error) {
	if s.ForcedErr != nil {
		return nil, s.ForcedErr
	}
	page = page.Normalize()

	all := s.commentsForPost(postID)
	total := int64(len(all))

	start := page.Offset()
	if start > len(all) {
		start = len(all)
	}
	end := start + page.PerPage
	if end > len(all) {
		end = len(all)
	}

	items := make([]*domain.Comment, 0, end-start)
	for _, comment := range all[start:end] {
		clone := *comment
		s.attachAuthor(ctx, &clone)
		items = append(items, &clone)
	}

	return &store.Page[*domain.Comment]{
		Items:   items,
		Page:    page.Page,
		PerPage: page.PerPage,
		Total:   total,
	}, nil
}

// UpdateBody implements store.CommentStore.UpdateBody
func (s *MemoryCommentStore) UpdateBody(ctx context.Context, id int64, body string) error {
	if s.ForcedErr != nil {
		return s.ForcedErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	comment, ok := s.comments[id]
	if !ok {
		return store.ErrCommentNotFound
	}
	comment.Body = body
	comment.UpdatedAt = time.Now().UTC()
	return nil
}

// Delete implements store.CommentStore.Delete
func (s *MemoryCommentStore) Delete(ctx context.Context, id int64) error {
	if s.ForcedErr != nil {
		return s.ForcedErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.comments[id]; !ok {
		return store.ErrCommentNotFound
	}
	delete(s.comments, id)
	return nil
}

// WithTx implements store.CommentStore.WithTx
func (s *MemoryCommentStore) WithTx(tx *sql.Tx) store.CommentStore {
	return s
}

// DeleteByPost removes every comment on the given post, mirroring the
// ON DELETE CASCADE behavior of the real schema.
func (s *MemoryCommentStore) DeleteByPost(postID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, comment := range s.comments {
		if comment.PostID == postID {
			delete(s.comments, id)
		}
	}
}

// MustCreate seeds a comment and panics on error, for concise test setup.
func (s *MemoryCommentStore) MustCreate(postID, userID int64, body string) *domain.Comment {
	comment, err := domain.NewComment(postID, userID, body)
	if err != nil {
		panic(err)
	}
	if err := s.Create(context.Background(), comment); err != nil {
		panic(err)
	}
	return comment
}

// commentsForPost returns the post's comments in insertion order.
func (s *MemoryCommentStore) commentsForPost(postID int64) []*domain.Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Comment
	for _, comment := range s.comments {
		if comment.PostID == postID {
			out = append(out, comment)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *MemoryCommentStore) attachAuthor(ctx context.Context, comment *domain.Comment) {
	if s.Users == nil {
		return
	}
	if author, err := s.Users.GetByID(ctx, comment.UserID); err == nil {
		comment.Author = author
	}
}
