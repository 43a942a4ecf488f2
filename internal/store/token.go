package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// AuthToken is a persisted record of an issued access token, keyed by the
// token's jti claim. A token is valid only while its row exists; logout
// deletes the row, logout-all deletes every row for the user.
type AuthToken struct {
	ID        uuid.UUID
	UserID    int64
	CreatedAt time.Time
	ExpiresAt time.Time
}

// TokenStore defines the interface for auth token persistence.
type TokenStore interface {
	// Create records a newly issued token.
	Create(ctx context.Context, token *AuthToken) error

	// Exists reports whether the token with the given jti is still active.
	Exists(ctx context.Context, id uuid.UUID) (bool, error)

	// Delete revokes a single token. Returns ErrTokenNotFound if the token
	// does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteForUser revokes every token issued to the given user.
	// Returns the number of tokens revoked.
	DeleteForUser(ctx context.Context, userID int64) (int64, error)

	// DeleteExpired removes tokens whose expiry has passed. Returns the
	// number of tokens removed.
	DeleteExpired(ctx context.Context) (int64, error)

	// WithTx returns a new TokenStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) TokenStore
}
