package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/scribehq/scribe-api/internal/domain"
	"github.com/scribehq/scribe-api/internal/policy"
	"github.com/scribehq/scribe-api/internal/store"
)

// PostService provides the post operations exposed by the API. Mutations
// enforce the ownership policy; a denied mutation returns ErrNotOwned
// without touching the store.
type PostService interface {
	// CreatePost creates a post authored by authorID in the given category.
	CreatePost(ctx context.Context, authorID, categoryID int64, title, body string) (*domain.Post, error)

	// GetPost retrieves a post with its author, category, and comments
	// (including comment authors) loaded.
	// Returns store.ErrPostNotFound if the post does not exist.
	GetPost(ctx context.Context, id int64) (*domain.Post, error)

	// ListPosts retrieves one page of posts in insertion order with
	// relations loaded.
	ListPosts(ctx context.Context, page store.PageRequest) (*store.Page[*domain.Post], error)

	// UpdatePost applies the non-nil fields of upd to the post. Only the
	// post's owner may update it; ownership never changes.
	UpdatePost(ctx context.Context, actorID, postID int64, upd store.PostUpdate) (*domain.Post, error)

	// DeletePost removes the post and, through the store, its comments.
	// Only the post's owner may delete it.
	DeletePost(ctx context.Context, actorID, postID int64) error
}

// PostServiceImpl implements the PostService interface
type PostServiceImpl struct {
	db        *sql.DB
	postStore store.PostStore
	logger    *slog.Logger
}

// NewPostService creates a new PostService
func NewPostService(db *sql.DB, postStore store.PostStore, logger *slog.Logger) *PostServiceImpl {
	return &PostServiceImpl{
		db:        db,
		postStore: postStore,
		logger:    logger.With(slog.String("component", "post_service")),
	}
}

// Ensure PostServiceImpl implements PostService
var _ PostService = (*PostServiceImpl)(nil)

// inTx runs fn in a database transaction. A nil db runs fn directly,
// which the in-memory stores support.
func (s *PostServiceImpl) inTx(ctx context.Context, fn store.TxFn) error {
	if s.db == nil {
		return fn(ctx, nil)
	}
	return store.RunInTransaction(ctx, s.db, fn)
}

// CreatePost creates a post authored by authorID in the given category
func (s *PostServiceImpl) CreatePost(
	ctx context.Context,
	authorID, categoryID int64,
	title, body string,
) (*domain.Post, error) {
	post, err := domain.NewPost(authorID, categoryID, title, body)
	if err != nil {
		s.logger.Debug("invalid post data", "error", err)
		return nil, err
	}

	if err := s.postStore.Create(ctx, post); err != nil {
		s.logger.Error("failed to create post",
			"error", err,
			"user_id", authorID)
		return nil, err
	}

	return s.GetPost(ctx, post.ID)
}

// GetPost retrieves a post with all its relations loaded
func (s *PostServiceImpl) GetPost(ctx context.Context, id int64) (*domain.Post, error) {
	post, err := s.postStore.GetByID(ctx, id,
		store.IncludeAuthor,
		store.IncludeCategory,
		store.IncludeComments,
		store.IncludeCommentAuthors,
	)
	if err != nil {
		if errors.Is(err, store.ErrPostNotFound) {
			s.logger.Debug("post not found", "post_id", id)
			return nil, err
		}
		s.logger.Error("failed to retrieve post",
			"error", err,
			"post_id", id)
		return nil, fmt.Errorf("failed to retrieve post: %w", err)
	}

	return post, nil
}

// ListPosts retrieves one page of posts
func (s *PostServiceImpl) ListPosts(
	ctx context.Context,
	page store.PageRequest,
) (*store.Page[*domain.Post], error) {
	result, err := s.postStore.List(ctx, page)
	if err != nil {
		s.logger.Error("failed to list posts", "error", err)
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	return result, nil
}

// UpdatePost applies the update after checking ownership
func (s *PostServiceImpl) UpdatePost(
	ctx context.Context,
	actorID, postID int64,
	upd store.PostUpdate,
) (*domain.Post, error) {
	err := s.inTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.postStore.WithTx(tx)

		post, err := txStore.GetByID(ctx, postID)
		if err != nil {
			return err
		}

		if !policy.AllowsOn(policy.ActionUpdate, policy.ResourcePost, actorID, post) {
			s.logger.Debug("post update denied by policy",
				"post_id", postID,
				"actor_id", actorID,
				"owner_id", post.OwnerID())
			return ErrNotOwned
		}

		return txStore.Update(ctx, postID, upd)
	})

	if err != nil {
		if errors.Is(err, ErrNotOwned) || errors.Is(err, store.ErrPostNotFound) {
			return nil, err
		}
		s.logger.Error("failed to update post",
			"error", err,
			"post_id", postID)
		return nil, err
	}

	s.logger.Info("post updated",
		"post_id", postID,
		"actor_id", actorID)

	return s.GetPost(ctx, postID)
}

// DeletePost removes the post after checking ownership
func (s *PostServiceImpl) DeletePost(ctx context.Context, actorID, postID int64) error {
	err := s.inTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.postStore.WithTx(tx)

		post, err := txStore.GetByID(ctx, postID)
		if err != nil {
			return err
		}

		if !policy.AllowsOn(policy.ActionDelete, policy.ResourcePost, actorID, post) {
			s.logger.Debug("post delete denied by policy",
				"post_id", postID,
				"actor_id", actorID,
				"owner_id", post.OwnerID())
			return ErrNotOwned
		}

		return txStore.Delete(ctx, postID)
	})

	if err != nil {
		if errors.Is(err, ErrNotOwned) || errors.Is(err, store.ErrPostNotFound) {
			return err
		}
		s.logger.Error("failed to delete post",
			"error", err,
			"post_id", postID)
		return err
	}

	s.logger.Info("post deleted",
		"post_id", postID,
		"actor_id", actorID)
	return nil
}
