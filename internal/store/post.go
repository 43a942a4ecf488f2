package store

import (
	"context"
	"database/sql"

	"github.com/scribehq/scribe-api/internal/domain"
)

// PostInclude names a post relation that should be eagerly loaded alongside
// the post itself. Serializers treat a relation that was not requested as
// absent; they never trigger follow-up queries.
type PostInclude string

const (
	// IncludeAuthor loads the post's author.
	IncludeAuthor PostInclude = "author"

	// IncludeCategory loads the post's category.
	IncludeCategory PostInclude = "category"

	// IncludeComments loads the post's comments in creation order.
	IncludeComments PostInclude = "comments"

	// IncludeCommentAuthors loads the author of each loaded comment.
	// Implies IncludeComments.
	IncludeCommentAuthors PostInclude = "comments.author"
)

// PostUpdate carries the mutable post fields for an update operation.
// Nil fields are left unchanged. Ownership (UserID) is immutable and
// deliberately not representable here.
type PostUpdate struct {
	CategoryID *int64
	Title      *string
	Body       *string
}

// PostStore defines the interface for post data persistence.
type PostStore interface {
	// Create saves a new post to the store and assigns its ID.
	// Returns ErrInvalidEntity if the author or category does not exist
	// (foreign key violation).
	// Returns validation errors from the domain Post if data is invalid.
	Create(ctx context.Context, post *domain.Post) error

	// GetByID retrieves a post by its unique ID, eagerly loading the
	// requested relations. Returns ErrPostNotFound if the post does not exist.
	GetByID(ctx context.Context, id int64, includes ...PostInclude) (*domain.Post, error)

	// List retrieves one page of posts in insertion order with author,
	// category and comments eagerly loaded.
	List(ctx context.Context, page PageRequest) (*Page[*domain.Post], error)

	// Update applies the non-nil fields of upd to the post and bumps its
	// updated_at timestamp. Returns ErrPostNotFound if the post does not
	// exist and ErrInvalidEntity if the new category does not exist.
	Update(ctx context.Context, id int64, upd PostUpdate) error

	// Delete removes a post from the store. The schema cascades the delete
	// to the post's comments. Returns ErrPostNotFound if the post does not
	// exist.
	Delete(ctx context.Context, id int64) error

	// WithTx returns a new PostStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) PostStore
}
