package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/scribehq/scribe-api/internal/domain"
	"github.com/scribehq/scribe-api/internal/events"
	"github.com/scribehq/scribe-api/internal/service/auth"
	"github.com/scribehq/scribe-api/internal/store"
	"github.com/scribehq/scribe-api/internal/task"
)

// AuthResult is the outcome of a successful registration or login.
type AuthResult struct {
	User  *domain.User
	Token *auth.IssuedToken
}

// AuthService provides registration, login and token revocation.
type AuthService interface {
	// Register creates a new account, issues an access token, and requests
	// the welcome email. Returns store.ErrEmailExists if the email is taken.
	Register(ctx context.Context, name, email, password string) (*AuthResult, error)

	// Login verifies the credentials and issues an access token.
	// Returns ErrInvalidCredentials if the email is unknown or the password
	// is wrong.
	Login(ctx context.Context, email, password string) (*AuthResult, error)

	// Logout revokes the single token identified by its jti. Revoking an
	// already-revoked token is a no-op.
	Logout(ctx context.Context, tokenID uuid.UUID) error

	// LogoutAll revokes every token issued to the user.
	LogoutAll(ctx context.Context, userID int64) error
}

// AuthServiceImpl implements the AuthService interface
type AuthServiceImpl struct {
	db         *sql.DB
	userStore  store.UserStore
	tokenStore store.TokenStore
	jwtService auth.JWTService
	hasher     auth.PasswordHasher
	verifier   auth.PasswordVerifier
	emitter    events.EventEmitter
	logger     *slog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	db *sql.DB,
	userStore store.UserStore,
	tokenStore store.TokenStore,
	jwtService auth.JWTService,
	hasher auth.PasswordHasher,
	verifier auth.PasswordVerifier,
	emitter events.EventEmitter,
	logger *slog.Logger,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		db:         db,
		userStore:  userStore,
		tokenStore: tokenStore,
		jwtService: jwtService,
		hasher:     hasher,
		verifier:   verifier,
		emitter:    emitter,
		logger:     logger.With(slog.String("component", "auth_service")),
	}
}

// Ensure AuthServiceImpl implements AuthService
var _ AuthService = (*AuthServiceImpl)(nil)

// inTx runs fn in a database transaction. A nil db runs fn directly,
// which the in-memory stores support.
func (s *AuthServiceImpl) inTx(ctx context.Context, fn store.TxFn) error {
	if s.db == nil {
		return fn(ctx, nil)
	}
	return store.RunInTransaction(ctx, s.db, fn)
}

// Register creates the user and their first access token in one
// transaction, then requests the welcome email. A failed email request
// never fails the registration.
func (s *AuthServiceImpl) Register(
	ctx context.Context,
	name, email, password string,
) (*AuthResult, error) {
	hashed, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := domain.NewUser(name, email, hashed)
	if err != nil {
		s.logger.Debug("invalid user data during registration", "error", err)
		return nil, err
	}

	var issued *auth.IssuedToken
	err = s.inTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txUsers := s.userStore.WithTx(tx)
		if err := txUsers.Create(ctx, user); err != nil {
			return err
		}

		issued, err = s.jwtService.GenerateToken(ctx, user.ID)
		if err != nil {
			return fmt.Errorf("failed to generate token: %w", err)
		}

		txTokens := s.tokenStore.WithTx(tx)
		return txTokens.Create(ctx, &store.AuthToken{
			ID:        issued.ID,
			UserID:    user.ID,
			CreatedAt: issued.IssuedAt,
			ExpiresAt: issued.ExpiresAt,
		})
	})

	if err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			s.logger.Debug("attempted to register with existing email",
				"email", email)
		} else {
			s.logger.Error("failed to register user",
				"error", err,
				"email", email)
		}
		return nil, err
	}

	s.logger.Info("user registered successfully",
		"user_id", user.ID,
		"email", user.Email)

	s.requestWelcomeEmail(ctx, user.ID)

	return &AuthResult{User: user, Token: issued}, nil
}

// Login verifies the credentials and issues a fresh access token.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			s.logger.Debug("login attempt for unknown email")
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("failed to look up user for login", "error", err)
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		s.logger.Debug("login attempt with wrong password", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}

	issued, err := s.jwtService.GenerateToken(ctx, user.ID)
	if err != nil {
		s.logger.Error("failed to generate token for login",
			"error", err,
			"user_id", user.ID)
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	if err := s.tokenStore.Create(ctx, &store.AuthToken{
		ID:        issued.ID,
		UserID:    user.ID,
		CreatedAt: issued.IssuedAt,
		ExpiresAt: issued.ExpiresAt,
	}); err != nil {
		s.logger.Error("failed to persist token for login",
			"error", err,
			"user_id", user.ID)
		return nil, fmt.Errorf("failed to persist token: %w", err)
	}

	s.logger.Info("user logged in", "user_id", user.ID)

	return &AuthResult{User: user, Token: issued}, nil
}

// Logout revokes the token identified by its jti.
func (s *AuthServiceImpl) Logout(ctx context.Context, tokenID uuid.UUID) error {
	if err := s.tokenStore.Delete(ctx, tokenID); err != nil {
		if errors.Is(err, store.ErrTokenNotFound) {
			return nil
		}
		s.logger.Error("failed to revoke token",
			"error", err,
			"token_id", tokenID)
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// LogoutAll revokes every active token for the user.
func (s *AuthServiceImpl) LogoutAll(ctx context.Context, userID int64) error {
	count, err := s.tokenStore.DeleteForUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to revoke tokens for user",
			"error", err,
			"user_id", userID)
		return fmt.Errorf("failed to revoke tokens: %w", err)
	}

	s.logger.Info("revoked all tokens for user",
		"user_id", userID,
		"count", count)
	return nil
}

// requestWelcomeEmail emits the event that queues the welcome email task.
func (s *AuthServiceImpl) requestWelcomeEmail(ctx context.Context, userID int64) {
	event, err := events.NewTaskRequestEvent(task.TaskTypeWelcomeEmail, map[string]int64{
		"user_id": userID,
	})
	if err != nil {
		s.logger.Error("failed to build welcome email event",
			"error", err,
			"user_id", userID)
		return
	}

	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		s.logger.Error("failed to emit welcome email event",
			"error", err,
			"user_id", userID)
	}
}
