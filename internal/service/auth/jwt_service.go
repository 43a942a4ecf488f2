package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// JWTService defines operations for managing JWT authentication tokens.
type JWTService interface {
	// GenerateToken creates a signed JWT access token for the given user.
	// The returned IssuedToken carries the token's jti so the caller can
	// persist it for revocation checks.
	GenerateToken(ctx context.Context, userID int64) (*IssuedToken, error)

	// ValidateToken validates the provided token string and extracts the
	// claims. Returns an error if validation fails (expired, invalid
	// signature, malformed, etc.).
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// IssuedToken is a freshly signed access token together with the identity
// needed to persist and later revoke it.
type IssuedToken struct {
	// Token is the signed compact JWT string.
	Token string

	// ID is the token's jti claim.
	ID uuid.UUID

	// IssuedAt is when the token was signed.
	IssuedAt time.Time

	// ExpiresAt is when the token stops being valid.
	ExpiresAt time.Time
}

// Claims represents the validated contents of an access token.
type Claims struct {
	// UserID is the unique identifier of the user the token was issued for.
	UserID int64 `json:"uid,omitempty"`

	// Standard registered JWT claims
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`

	// ID is the token's jti claim, used for revocation.
	ID uuid.UUID `json:"jti,omitempty"`
}
