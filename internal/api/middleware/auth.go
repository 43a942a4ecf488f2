package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/scribehq/scribe-api/internal/api/shared"
	"github.com/scribehq/scribe-api/internal/service/auth"
	"github.com/scribehq/scribe-api/internal/store"
)

// UnauthenticatedMessage is the body of every 401 response. Expired, revoked,
// malformed and missing tokens are deliberately indistinguishable to clients.
const UnauthenticatedMessage = "Unauthenticated."

// AuthMiddleware guards routes with bearer token authentication. A token is
// accepted only if its signature and lifetime check out and its jti still
// exists in the token store, so logout takes effect immediately.
type AuthMiddleware struct {
	jwtService auth.JWTService
	tokenStore store.TokenStore
	logger     *slog.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(
	jwtService auth.JWTService,
	tokenStore store.TokenStore,
	logger *slog.Logger,
) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		tokenStore: tokenStore,
		logger:     logger.With(slog.String("component", "auth_middleware")),
	}
}

// Authenticate validates the Authorization header and, on success, stores the
// user ID and token jti in the request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			shared.RespondWithMessage(w, r, http.StatusUnauthorized, UnauthenticatedMessage)
			return
		}

		claims, err := m.jwtService.ValidateToken(r.Context(), token)
		if err != nil {
			if errors.Is(err, auth.ErrExpiredToken) ||
				errors.Is(err, auth.ErrInvalidToken) ||
				errors.Is(err, auth.ErrTokenNotYetValid) {
				m.logger.Debug("rejected token", "error", err)
				shared.RespondWithMessage(w, r, http.StatusUnauthorized, UnauthenticatedMessage)
				return
			}
			m.logger.Error("failed to validate token", "error", err)
			shared.RespondWithServerError(w, r, err)
			return
		}

		active, err := m.tokenStore.Exists(r.Context(), claims.ID)
		if err != nil {
			m.logger.Error("failed to check token revocation",
				"error", err,
				"token_id", claims.ID)
			shared.RespondWithServerError(w, r, err)
			return
		}
		if !active {
			m.logger.Debug("rejected revoked token",
				"token_id", claims.ID,
				"user_id", claims.UserID)
			shared.RespondWithMessage(w, r, http.StatusUnauthorized, UnauthenticatedMessage)
			return
		}

		ctx := shared.WithUserID(r.Context(), claims.UserID)
		ctx = shared.WithTokenID(ctx, claims.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bearerToken extracts the token from an "Authorization: Bearer ..." header.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
