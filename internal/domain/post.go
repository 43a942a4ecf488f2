package domain

import (
	"errors"
	"time"
)

// MaxPostTitleLength is the maximum number of characters in a post title.
const MaxPostTitleLength = 255

// Common validation errors for Post
var (
	ErrEmptyPostTitle    = errors.New("post title cannot be empty")
	ErrPostTitleTooLong  = errors.New("post title cannot exceed 255 characters")
	ErrEmptyPostBody     = errors.New("post body cannot be empty")
	ErrEmptyPostAuthor   = errors.New("post author ID cannot be empty")
	ErrEmptyPostCategory = errors.New("post category ID cannot be empty")
)

// Post is an article written by a user in a category. The Author, Category
// and Comments fields are relations: they are nil unless the store was asked
// to load them, and serializers must treat a nil relation as absent rather
// than issuing a follow-up query.
type Post struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	CategoryID int64     `json:"category_id"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Loaded relations (nil when not fetched)
	Author   *User      `json:"author,omitempty"`
	Category *Category  `json:"category,omitempty"`
	Comments []*Comment `json:"comments,omitempty"`
}

// NewPost creates a new Post authored by userID in categoryID.
// The ID is assigned by the store on insert. Returns an error if validation
// fails.
func NewPost(userID, categoryID int64, title, body string) (*Post, error) {
	now := time.Now().UTC()
	post := &Post{
		UserID:     userID,
		CategoryID: categoryID,
		Title:      title,
		Body:       body,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := post.Validate(); err != nil {
		return nil, err
	}

	return post, nil
}

// Validate checks if the Post has valid data.
// Returns an error if any field fails validation.
func (p *Post) Validate() error {
	if p.UserID == 0 {
		return ErrEmptyPostAuthor
	}

	if p.CategoryID == 0 {
		return ErrEmptyPostCategory
	}

	if p.Title == "" {
		return ErrEmptyPostTitle
	}

	if len(p.Title) > MaxPostTitleLength {
		return ErrPostTitleTooLong
	}

	if p.Body == "" {
		return ErrEmptyPostBody
	}

	return nil
}

// OwnerID returns the ID of the user who owns the post.
// Ownership never changes after creation.
func (p *Post) OwnerID() int64 {
	return p.UserID
}
