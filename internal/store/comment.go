package store

import (
	"context"
	"database/sql"

	"github.com/scribehq/scribe-api/internal/domain"
)

// CommentStore defines the interface for comment data persistence.
type CommentStore interface {
	// Create saves a new comment to the store and assigns its ID.
	// Returns ErrInvalidEntity if the post or author does not exist
	// (foreign key violation).
	// Returns validation errors from the domain Comment if data is invalid.
	Create(ctx context.Context, comment *domain.Comment) error

	// GetByID retrieves a comment by its unique ID with its author eagerly
	// loaded. Returns ErrCommentNotFound if the comment does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Comment, error)

	// ListByPost retrieves one page of a post's comments in insertion order
	// with each comment's author eagerly loaded.
	ListByPost(ctx context.Context, postID int64, page PageRequest) (*Page[*domain.Comment], error)

	// UpdateBody replaces the comment's body and bumps its updated_at
	// timestamp. Returns ErrCommentNotFound if the comment does not exist.
	UpdateBody(ctx context.Context, id int64, body string) error

	// Delete removes a comment from the store. Deleting a comment never
	// affects its post. Returns ErrCommentNotFound if the comment does not
	// exist.
	Delete(ctx context.Context, id int64) error

	// WithTx returns a new CommentStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) CommentStore
}
