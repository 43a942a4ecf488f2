package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/scribehq/scribe-api/internal/domain"
	"github.com/scribehq/scribe-api/internal/platform/logger"
	"github.com/scribehq/scribe-api/internal/store"
)

// PostgresCommentStore implements the store.CommentStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCommentStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCommentStore creates a new PostgreSQL implementation of the
// CommentStore interface.
func NewPostgresCommentStore(db store.DBTX, logger *slog.Logger) *PostgresCommentStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCommentStore{
		db:     db,
		logger: logger.With(slog.String("component", "comment_store")),
	}
}

// Ensure PostgresCommentStore implements store.CommentStore interface
var _ store.CommentStore = (*PostgresCommentStore)(nil)

// Create implements store.CommentStore.Create
// Returns store.ErrInvalidEntity if the post or author does not exist.
func (s *PostgresCommentStore) Create(ctx context.Context, comment *domain.Comment) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := comment.Validate(); err != nil {
		log.Warn("comment validation failed during create",
			slog.String("error", err.Error()))
		return err
	}

	query := `
		INSERT INTO comments (post_id, user_id, body, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := s.db.QueryRowContext(
		ctx,
		query,
		comment.PostID,
		comment.UserID,
		comment.Body,
		comment.CreatedAt,
		comment.UpdatedAt,
	).Scan(&comment.ID)

	if err != nil {
		if isForeignKeyViolation(err) {
			log.Warn("foreign key violation during comment creation",
				slog.Int64("post_id", comment.PostID),
				slog.Int64("user_id", comment.UserID))
			return fmt.Errorf("%w: referenced post or user not found",
				store.ErrInvalidEntity)
		}

		log.Error("failed to create comment",
			slog.String("error", err.Error()),
			slog.Int64("post_id", comment.PostID))
		return err
	}

	log.Info("comment created successfully",
		slog.Int64("comment_id", comment.ID),
		slog.Int64("post_id", comment.PostID))
	return nil
}

// GetByID implements store.CommentStore.GetByID
// The comment's author is eagerly loaded.
// Returns store.ErrCommentNotFound if the comment does not exist.
func (s *PostgresCommentStore) GetByID(ctx context.Context, id int64) (*domain.Comment, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT c.id, c.post_id, c.user_id, c.body, c.created_at, c.updated_at,
		       u.id, u.name, u.email, u.hashed_password, u.created_at, u.updated_at
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.id = $1
	`

	var comment domain.Comment
	var author domain.User
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&comment.ID,
		&comment.PostID,
		&comment.UserID,
		&comment.Body,
		&comment.CreatedAt,
		&comment.UpdatedAt,
		&author.ID,
		&author.Name,
		&author.Email,
		&author.HashedPassword,
		&author.CreatedAt,
		&author.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("comment not found", slog.Int64("comment_id", id))
			return nil, store.ErrCommentNotFound
		}
		log.Error("failed to get comment by ID",
			slog.String("error", err.Error()),
			slog.Int64("comment_id", id))
		return nil, err
	}

	comment.Author = &author
	return &comment, nil
}

// ListByPost implements store.CommentStore.ListByPost
// Comments are returned in insertion order with authors eagerly loaded.
func (s *PostgresCommentStore) ListByPost(
	ctx context.Context,
	postID int64,
	page store.PageRequest,
) (*store.Page[*domain.Comment], error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	page = page.Normalize()

	var total int64
	countQuery := `SELECT COUNT(*) FROM comments WHERE post_id = $1`
	if err := s.db.QueryRowContext(ctx, countQuery, postID).Scan(&total); err != nil {
		log.Error("failed to count comments",
			slog.String("error", err.Error()),
			slog.Int64("post_id", postID))
		return nil, err
	}

	query := `
		SELECT c.id, c.post_id, c.user_id, c.body, c.created_at, c.updated_at,
		       u.id, u.name, u.email, u.hashed_password, u.created_at, u.updated_at
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.post_id = $1
		ORDER BY c.id
		LIMIT $2 OFFSET $3
	`

	rows, err := s.db.QueryContext(ctx, query, postID, page.PerPage, page.Offset())
	if err != nil {
		log.Error("failed to list comments",
			slog.String("error", err.Error()),
			slog.Int64("post_id", postID))
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	comments := make([]*domain.Comment, 0, page.PerPage)
	for rows.Next() {
		var comment domain.Comment
		var author domain.User
		if err := rows.Scan(
			&comment.ID,
			&comment.PostID,
			&comment.UserID,
			&comment.Body,
			&comment.CreatedAt,
			&comment.UpdatedAt,
			&author.ID,
			&author.Name,
			&author.Email,
			&author.HashedPassword,
			&author.CreatedAt,
			&author.UpdatedAt,
		); err != nil {
			log.Error("failed to scan comment row", slog.String("error", err.Error()))
			return nil, err
		}
		comment.Author = &author
		comments = append(comments, &comment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &store.Page[*domain.Comment]{
		Items:   comments,
		Page:    page.Page,
		PerPage: page.PerPage,
		Total:   total,
	}, nil
}

// UpdateBody implements store.CommentStore.UpdateBody
// Returns store.ErrCommentNotFound if the comment does not exist.
func (s *PostgresCommentStore) UpdateBody(ctx context.Context, id int64, body string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE comments
		SET body = $1, updated_at = $2
		WHERE id = $3
	`

	result, err := s.db.ExecContext(ctx, query, body, time.Now().UTC(), id)
	if err != nil {
		log.Error("failed to update comment",
			slog.String("error", err.Error()),
			slog.Int64("comment_id", id))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		log.Debug("comment not found for update", slog.Int64("comment_id", id))
		return store.ErrCommentNotFound
	}

	log.Info("comment updated successfully", slog.Int64("comment_id", id))
	return nil
}

// Delete implements store.CommentStore.Delete
// Returns store.ErrCommentNotFound if the comment does not exist.
func (s *PostgresCommentStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete comment",
			slog.String("error", err.Error()),
			slog.Int64("comment_id", id))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		log.Debug("comment not found for delete", slog.Int64("comment_id", id))
		return store.ErrCommentNotFound
	}

	log.Info("comment deleted successfully", slog.Int64("comment_id", id))
	return nil
}

// WithTx implements store.CommentStore.WithTx
func (s *PostgresCommentStore) WithTx(tx *sql.Tx) store.CommentStore {
	return &PostgresCommentStore{
		db:     tx,
		logger: s.logger,
	}
}
