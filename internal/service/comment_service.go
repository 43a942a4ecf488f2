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

// CommentService provides the comment operations exposed by the API.
// Mutations enforce the ownership policy; a denied mutation returns
// ErrNotOwned without touching the store.
type CommentService interface {
	// CreateComment adds a comment authored by authorID to the given post.
	// Returns store.ErrPostNotFound if the post does not exist.
	CreateComment(ctx context.Context, postID, authorID int64, body string) (*domain.Comment, error)

	// GetComment retrieves a comment with its author loaded, verifying that
	// it belongs to the given post. Returns store.ErrCommentNotFound if the
	// comment does not exist or belongs to a different post.
	GetComment(ctx context.Context, postID, commentID int64) (*domain.Comment, error)

	// ListComments retrieves one page of the post's comments in insertion
	// order. Returns store.ErrPostNotFound if the post does not exist.
	ListComments(ctx context.Context, postID int64, page store.PageRequest) (*store.Page[*domain.Comment], error)

	// UpdateComment replaces the comment's body. Only the comment's owner
	// may update it.
	UpdateComment(ctx context.Context, actorID, commentID int64, body string) (*domain.Comment, error)

	// DeleteComment removes the comment, leaving its post untouched. Only
	// the comment's owner may delete it.
	DeleteComment(ctx context.Context, actorID, commentID int64) error
}

// CommentServiceImpl implements the CommentService interface
type CommentServiceImpl struct {
	db           *sql.DB
	commentStore store.CommentStore
	postStore    store.PostStore
	logger       *slog.Logger
}

// NewCommentService creates a new CommentService
func NewCommentService(
	db *sql.DB,
	commentStore store.CommentStore,
	postStore store.PostStore,
	logger *slog.Logger,
) *CommentServiceImpl {
	return &CommentServiceImpl{
		db:           db,
		commentStore: commentStore,
		postStore:    postStore,
		logger:       logger.With(slog.String("component", "comment_service")),
	}
}

// Ensure CommentServiceImpl implements CommentService
var _ CommentService = (*CommentServiceImpl)(nil)

// inTx runs fn in a database transaction. A nil db runs fn directly,
// which the in-memory stores support.
func (s *CommentServiceImpl) inTx(ctx context.Context, fn store.TxFn) error {
	if s.db == nil {
		return fn(ctx, nil)
	}
	return store.RunInTransaction(ctx, s.db, fn)
}

// CreateComment adds a comment to the given post
func (s *CommentServiceImpl) CreateComment(
	ctx context.Context,
	postID, authorID int64,
	body string,
) (*domain.Comment, error) {
	// Surface a clean not-found before hitting the FK constraint.
	if _, err := s.postStore.GetByID(ctx, postID); err != nil {
		if errors.Is(err, store.ErrPostNotFound) {
			s.logger.Debug("comment create on missing post", "post_id", postID)
			return nil, err
		}
		s.logger.Error("failed to check post for comment",
			"error", err,
			"post_id", postID)
		return nil, fmt.Errorf("failed to check post: %w", err)
	}

	comment, err := domain.NewComment(postID, authorID, body)
	if err != nil {
		s.logger.Debug("invalid comment data", "error", err)
		return nil, err
	}

	if err := s.commentStore.Create(ctx, comment); err != nil {
		s.logger.Error("failed to create comment",
			"error", err,
			"post_id", postID,
			"user_id", authorID)
		return nil, err
	}

	return s.commentStore.GetByID(ctx, comment.ID)
}

// GetComment retrieves a comment, treating a post mismatch as not found
func (s *CommentServiceImpl) GetComment(
	ctx context.Context,
	postID, commentID int64,
) (*domain.Comment, error) {
	comment, err := s.commentStore.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, store.ErrCommentNotFound) {
			return nil, err
		}
		s.logger.Error("failed to retrieve comment",
			"error", err,
			"comment_id", commentID)
		return nil, fmt.Errorf("failed to retrieve comment: %w", err)
	}

	if comment.PostID != postID {
		s.logger.Debug("comment does not belong to post",
			"comment_id", commentID,
			"post_id", postID)
		return nil, store.ErrCommentNotFound
	}

	return comment, nil
}

// ListComments retrieves one page of the post's comments
func (s *CommentServiceImpl) ListComments(
	ctx context.Context,
	postID int64,
	page store.PageRequest,
) (*store.Page[*domain.Comment], error) {
	if _, err := s.postStore.GetByID(ctx, postID); err != nil {
		if errors.Is(err, store.ErrPostNotFound) {
			return nil, err
		}
		s.logger.Error("failed to check post for comment listing",
			"error", err,
			"post_id", postID)
		return nil, fmt.Errorf("failed to check post: %w", err)
	}

	result, err := s.commentStore.ListByPost(ctx, postID, page)
	if err != nil {
		s.logger.Error("failed to list comments",
			"error", err,
			"post_id", postID)
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	return result, nil
}

// UpdateComment replaces the comment body after checking ownership
func (s *CommentServiceImpl) UpdateComment(
	ctx context.Context,
	actorID, commentID int64,
	body string,
) (*domain.Comment, error) {
	err := s.inTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.commentStore.WithTx(tx)

		comment, err := txStore.GetByID(ctx, commentID)
		if err != nil {
			return err
		}

		if !policy.AllowsOn(policy.ActionUpdate, policy.ResourceComment, actorID, comment) {
			s.logger.Debug("comment update denied by policy",
				"comment_id", commentID,
				"actor_id", actorID,
				"owner_id", comment.OwnerID())
			return ErrNotOwned
		}

		return txStore.UpdateBody(ctx, commentID, body)
	})

	if err != nil {
		if errors.Is(err, ErrNotOwned) || errors.Is(err, store.ErrCommentNotFound) {
			return nil, err
		}
		s.logger.Error("failed to update comment",
			"error", err,
			"comment_id", commentID)
		return nil, err
	}

	s.logger.Info("comment updated",
		"comment_id", commentID,
		"actor_id", actorID)

	return s.commentStore.GetByID(ctx, commentID)
}

// DeleteComment removes the comment after checking ownership
func (s *CommentServiceImpl) DeleteComment(ctx context.Context, actorID, commentID int64) error {
	err := s.inTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.commentStore.WithTx(tx)

		comment, err := txStore.GetByID(ctx, commentID)
		if err != nil {
			return err
		}

		if !policy.AllowsOn(policy.ActionDelete, policy.ResourceComment, actorID, comment) {
			s.logger.Debug("comment delete denied by policy",
				"comment_id", commentID,
				"actor_id", actorID,
				"owner_id", comment.OwnerID())
			return ErrNotOwned
		}

		return txStore.Delete(ctx, commentID)
	})

	if err != nil {
		if errors.Is(err, ErrNotOwned) || errors.Is(err, store.ErrCommentNotFound) {
			return err
		}
		s.logger.Error("failed to delete comment",
			"error", err,
			"comment_id", commentID)
		return err
	}

	s.logger.Info("comment deleted",
		"comment_id", commentID,
		"actor_id", actorID)
	return nil
}
