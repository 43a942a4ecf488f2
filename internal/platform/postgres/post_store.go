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

// PostgresPostStore implements the store.PostStore interface
// using a PostgreSQL database as the storage backend.
type PostgresPostStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresPostStore creates a new PostgreSQL implementation of the
// PostStore interface.
func NewPostgresPostStore(db store.DBTX, logger *slog.Logger) *PostgresPostStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresPostStore{
		db:     db,
		logger: logger.With(slog.String("component", "post_store")),
	}
}

// Ensure PostgresPostStore implements store.PostStore interface
var _ store.PostStore = (*PostgresPostStore)(nil)

// Create implements store.PostStore.Create
// Returns store.ErrInvalidEntity if the author or category does not exist.
func (s *PostgresPostStore) Create(ctx context.Context, post *domain.Post) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := post.Validate(); err != nil {
		log.Warn("post validation failed during create",
			slog.String("error", err.Error()))
		return err
	}

	query := `
		INSERT INTO posts (user_id, category_id, title, body, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := s.db.QueryRowContext(
		ctx,
		query,
		post.UserID,
		post.CategoryID,
		post.Title,
		post.Body,
		post.CreatedAt,
		post.UpdatedAt,
	).Scan(&post.ID)

	if err != nil {
		if isForeignKeyViolation(err) {
			log.Warn("foreign key violation during post creation",
				slog.Int64("user_id", post.UserID),
				slog.Int64("category_id", post.CategoryID))
			return fmt.Errorf("%w: referenced user or category not found",
				store.ErrInvalidEntity)
		}

		log.Error("failed to create post",
			slog.String("error", err.Error()),
			slog.Int64("user_id", post.UserID))
		return err
	}

	log.Info("post created successfully",
		slog.Int64("post_id", post.ID),
		slog.Int64("user_id", post.UserID))
	return nil
}

// GetByID implements store.PostStore.GetByID
// Returns store.ErrPostNotFound if the post does not exist.
func (s *PostgresPostStore) GetByID(
	ctx context.Context,
	id int64,
	includes ...store.PostInclude,
) (*domain.Post, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, category_id, title, body, created_at, updated_at
		FROM posts
		WHERE id = $1
	`

	var post domain.Post
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&post.ID,
		&post.UserID,
		&post.CategoryID,
		&post.Title,
		&post.Body,
		&post.CreatedAt,
		&post.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("post not found", slog.Int64("post_id", id))
			return nil, store.ErrPostNotFound
		}
		log.Error("failed to get post by ID",
			slog.String("error", err.Error()),
			slog.Int64("post_id", id))
		return nil, err
	}

	if err := s.loadRelations(ctx, []*domain.Post{&post}, includes); err != nil {
		return nil, err
	}

	return &post, nil
}

// List implements store.PostStore.List
// Posts are returned in insertion order with author, category and comments
// eagerly loaded.
func (s *PostgresPostStore) List(
	ctx context.Context,
	page store.PageRequest,
) (*store.Page[*domain.Post], error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	page = page.Normalize()

	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&total); err != nil {
		log.Error("failed to count posts", slog.String("error", err.Error()))
		return nil, err
	}

	query := `
		SELECT id, user_id, category_id, title, body, created_at, updated_at
		FROM posts
		ORDER BY id
		LIMIT $1 OFFSET $2
	`

	rows, err := s.db.QueryContext(ctx, query, page.PerPage, page.Offset())
	if err != nil {
		log.Error("failed to list posts", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	posts := make([]*domain.Post, 0, page.PerPage)
	for rows.Next() {
		var post domain.Post
		if err := rows.Scan(
			&post.ID,
			&post.UserID,
			&post.CategoryID,
			&post.Title,
			&post.Body,
			&post.CreatedAt,
			&post.UpdatedAt,
		); err != nil {
			log.Error("failed to scan post row", slog.String("error", err.Error()))
			return nil, err
		}
		posts = append(posts, &post)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	includes := []store.PostInclude{
		store.IncludeAuthor,
		store.IncludeCategory,
		store.IncludeComments,
	}
	if err := s.loadRelations(ctx, posts, includes); err != nil {
		return nil, err
	}

	return &store.Page[*domain.Post]{
		Items:   posts,
		Page:    page.Page,
		PerPage: page.PerPage,
		Total:   total,
	}, nil
}

// Update implements store.PostStore.Update
// Only the non-nil fields of upd are applied; ownership is never touched.
// Returns store.ErrPostNotFound if the post does not exist.
func (s *PostgresPostStore) Update(ctx context.Context, id int64, upd store.PostUpdate) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE posts
		SET category_id = COALESCE($1, category_id),
		    title = COALESCE($2, title),
		    body = COALESCE($3, body),
		    updated_at = $4
		WHERE id = $5
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		upd.CategoryID,
		upd.Title,
		upd.Body,
		time.Now().UTC(),
		id,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			log.Warn("foreign key violation during post update",
				slog.Int64("post_id", id))
			return fmt.Errorf("%w: referenced category not found",
				store.ErrInvalidEntity)
		}
		log.Error("failed to update post",
			slog.String("error", err.Error()),
			slog.Int64("post_id", id))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		log.Debug("post not found for update", slog.Int64("post_id", id))
		return store.ErrPostNotFound
	}

	log.Info("post updated successfully", slog.Int64("post_id", id))
	return nil
}

// Delete implements store.PostStore.Delete
// The comments table declares ON DELETE CASCADE on post_id, so the post's
// comments are removed in the same statement.
func (s *PostgresPostStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete post",
			slog.String("error", err.Error()),
			slog.Int64("post_id", id))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		log.Debug("post not found for delete", slog.Int64("post_id", id))
		return store.ErrPostNotFound
	}

	log.Info("post deleted successfully", slog.Int64("post_id", id))
	return nil
}

// WithTx implements store.PostStore.WithTx
func (s *PostgresPostStore) WithTx(tx *sql.Tx) store.PostStore {
	return &PostgresPostStore{
		db:     tx,
		logger: s.logger,
	}
}

// loadRelations eagerly loads the requested relations for the given posts
// in one query per relation. Relations that were not requested stay nil.
func (s *PostgresPostStore) loadRelations(
	ctx context.Context,
	posts []*domain.Post,
	includes []store.PostInclude,
) error {
	if len(posts) == 0 || len(includes) == 0 {
		return nil
	}

	want := make(map[store.PostInclude]bool, len(includes))
	for _, inc := range includes {
		want[inc] = true
	}
	// comments.author implies comments
	if want[store.IncludeCommentAuthors] {
		want[store.IncludeComments] = true
	}

	postIDs := make([]int64, 0, len(posts))
	byID := make(map[int64]*domain.Post, len(posts))
	for _, p := range posts {
		postIDs = append(postIDs, p.ID)
		byID[p.ID] = p
	}

	if want[store.IncludeAuthor] {
		if err := s.loadAuthors(ctx, posts); err != nil {
			return err
		}
	}

	if want[store.IncludeCategory] {
		if err := s.loadCategories(ctx, posts); err != nil {
			return err
		}
	}

	if want[store.IncludeComments] {
		if err := s.loadComments(ctx, postIDs, byID, want[store.IncludeCommentAuthors]); err != nil {
			return err
		}
	}

	return nil
}

// loadAuthors attaches each post's author.
func (s *PostgresPostStore) loadAuthors(ctx context.Context, posts []*domain.Post) error {
	userIDs := make([]int64, 0, len(posts))
	for _, p := range posts {
		userIDs = append(userIDs, p.UserID)
	}

	query := `
		SELECT id, name, email, hashed_password, created_at, updated_at
		FROM users
		WHERE id = ANY($1)
	`
	rows, err := s.db.QueryContext(ctx, query, userIDs)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	users := make(map[int64]*domain.User)
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(
			&user.ID,
			&user.Name,
			&user.Email,
			&user.HashedPassword,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			return err
		}
		users[user.ID] = &user
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, p := range posts {
		p.Author = users[p.UserID]
	}
	return nil
}

// loadCategories attaches each post's category.
func (s *PostgresPostStore) loadCategories(ctx context.Context, posts []*domain.Post) error {
	categoryIDs := make([]int64, 0, len(posts))
	for _, p := range posts {
		categoryIDs = append(categoryIDs, p.CategoryID)
	}

	query := `
		SELECT id, name, created_at, updated_at
		FROM categories
		WHERE id = ANY($1)
	`
	rows, err := s.db.QueryContext(ctx, query, categoryIDs)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	categories := make(map[int64]*domain.Category)
	for rows.Next() {
		var category domain.Category
		if err := rows.Scan(
			&category.ID,
			&category.Name,
			&category.CreatedAt,
			&category.UpdatedAt,
		); err != nil {
			return err
		}
		categories[category.ID] = &category
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, p := range posts {
		p.Category = categories[p.CategoryID]
	}
	return nil
}

// loadComments attaches each post's comments in creation order, optionally
// with each comment's author.
func (s *PostgresPostStore) loadComments(
	ctx context.Context,
	postIDs []int64,
	byID map[int64]*domain.Post,
	withAuthors bool,
) error {
	query := `
		SELECT id, post_id, user_id, body, created_at, updated_at
		FROM comments
		WHERE post_id = ANY($1)
		ORDER BY id
	`
	if withAuthors {
		query = `
			SELECT c.id, c.post_id, c.user_id, c.body, c.created_at, c.updated_at,
			       u.id, u.name, u.email, u.hashed_password, u.created_at, u.updated_at
			FROM comments c
			JOIN users u ON u.id = c.user_id
			WHERE c.post_id = ANY($1)
			ORDER BY c.id
		`
	}

	rows, err := s.db.QueryContext(ctx, query, postIDs)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	// A loaded-but-empty relation must serialize as [], not be treated as
	// unfetched, so give every post a non-nil slice up front.
	for _, p := range byID {
		p.Comments = make([]*domain.Comment, 0)
	}

	for rows.Next() {
		var comment domain.Comment
		if withAuthors {
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
				return err
			}
			comment.Author = &author
		} else {
			if err := rows.Scan(
				&comment.ID,
				&comment.PostID,
				&comment.UserID,
				&comment.Body,
				&comment.CreatedAt,
				&comment.UpdatedAt,
			); err != nil {
				return err
			}
		}

		if post, ok := byID[comment.PostID]; ok {
			post.Comments = append(post.Comments, &comment)
		}
	}

	return rows.Err()
}
