package store

import (
	"context"
	"database/sql"

	"github.com/scribehq/scribe-api/internal/domain"
)

// CategoryStore defines the interface for category data persistence.
type CategoryStore interface {
	// Create saves a new category to the store and assigns its ID.
	// Returns validation errors from the domain Category if data is invalid.
	Create(ctx context.Context, category *domain.Category) error

	// GetByID retrieves a category by its unique ID.
	// Returns ErrCategoryNotFound if the category does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Category, error)

	// Exists reports whether a category with the given ID exists.
	// Used by post validation to reject references to missing categories
	// before any mutation happens.
	Exists(ctx context.Context, id int64) (bool, error)

	// List retrieves all categories in insertion order.
	List(ctx context.Context) ([]*domain.Category, error)

	// WithTx returns a new CategoryStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) CategoryStore
}
