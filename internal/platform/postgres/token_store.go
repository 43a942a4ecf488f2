package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/scribehq/scribe-api/internal/platform/logger"
	"github.com/scribehq/scribe-api/internal/store"
)

// PostgresTokenStore implements the store.TokenStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTokenStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTokenStore creates a new PostgreSQL implementation of the
// TokenStore interface.
func NewPostgresTokenStore(db store.DBTX, logger *slog.Logger) *PostgresTokenStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTokenStore{
		db:     db,
		logger: logger.With(slog.String("component", "token_store")),
	}
}

// Ensure PostgresTokenStore implements store.TokenStore interface
var _ store.TokenStore = (*PostgresTokenStore)(nil)

// Create implements store.TokenStore.Create
func (s *PostgresTokenStore) Create(ctx context.Context, token *store.AuthToken) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO auth_tokens (id, user_id, created_at, expires_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := s.db.ExecContext(
		ctx,
		query,
		token.ID,
		token.UserID,
		token.CreatedAt,
		token.ExpiresAt,
	)

	if err != nil {
		log.Error("failed to create auth token",
			slog.String("error", err.Error()),
			slog.Int64("user_id", token.UserID))
		return err
	}

	log.Debug("auth token created",
		slog.String("token_id", token.ID.String()),
		slog.Int64("user_id", token.UserID))
	return nil
}

// Exists implements store.TokenStore.Exists
// A token counts as active only while it exists and has not expired.
func (s *PostgresTokenStore) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM auth_tokens WHERE id = $1 AND expires_at > $2
		)
	`

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, id, time.Now().UTC()).Scan(&exists); err != nil {
		log.Error("failed to check auth token existence",
			slog.String("error", err.Error()),
			slog.String("token_id", id.String()))
		return false, err
	}

	return exists, nil
}

// Delete implements store.TokenStore.Delete
// Returns store.ErrTokenNotFound if the token does not exist.
func (s *PostgresTokenStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM auth_tokens WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete auth token",
			slog.String("error", err.Error()),
			slog.String("token_id", id.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		log.Debug("auth token not found for delete",
			slog.String("token_id", id.String()))
		return store.ErrTokenNotFound
	}

	log.Debug("auth token deleted", slog.String("token_id", id.String()))
	return nil
}

// DeleteForUser implements store.TokenStore.DeleteForUser
func (s *PostgresTokenStore) DeleteForUser(ctx context.Context, userID int64) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM auth_tokens WHERE user_id = $1`, userID)
	if err != nil {
		log.Error("failed to delete auth tokens for user",
			slog.String("error", err.Error()),
			slog.Int64("user_id", userID))
		return 0, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	log.Info("auth tokens deleted for user",
		slog.Int64("user_id", userID),
		slog.Int64("count", rowsAffected))
	return rowsAffected, nil
}

// DeleteExpired implements store.TokenStore.DeleteExpired
func (s *PostgresTokenStore) DeleteExpired(ctx context.Context) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(
		ctx,
		`DELETE FROM auth_tokens WHERE expires_at <= $1`,
		time.Now().UTC(),
	)
	if err != nil {
		log.Error("failed to delete expired auth tokens",
			slog.String("error", err.Error()))
		return 0, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	if rowsAffected > 0 {
		log.Info("expired auth tokens deleted", slog.Int64("count", rowsAffected))
	}
	return rowsAffected, nil
}

// WithTx implements store.TokenStore.WithTx
func (s *PostgresTokenStore) WithTx(tx *sql.Tx) store.TokenStore {
	return &PostgresTokenStore{
		db:     tx,
		logger: s.logger,
	}
}
