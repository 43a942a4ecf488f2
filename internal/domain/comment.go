package domain

import (
	"errors"
	"time"
)

// MaxCommentBodyLength is the maximum number of characters in a comment body.
const MaxCommentBodyLength = 1000

// Common validation errors for Comment
var (
	ErrEmptyCommentBody   = errors.New("comment body cannot be empty")
	ErrCommentBodyTooLong = errors.New("comment body cannot exceed 1000 characters")
	ErrEmptyCommentAuthor = errors.New("comment author ID cannot be empty")
	ErrEmptyCommentPost   = errors.New("comment post ID cannot be empty")
)

// Comment is a user's remark on a post. Author is a relation: nil unless the
// store was asked to load it.
type Comment struct {
	ID        int64     `json:"id"`
	PostID    int64     `json:"post_id"`
	UserID    int64     `json:"user_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Loaded relation (nil when not fetched)
	Author *User `json:"author,omitempty"`
}

// NewComment creates a new Comment by userID on postID.
// The ID is assigned by the store on insert. Returns an error if validation
// fails.
func NewComment(postID, userID int64, body string) (*Comment, error) {
	now := time.Now().UTC()
	comment := &Comment{
		PostID:    postID,
		UserID:    userID,
		Body:      body,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := comment.Validate(); err != nil {
		return nil, err
	}

	return comment, nil
}

// Validate checks if the Comment has valid data.
// Returns an error if any field fails validation.
func (c *Comment) Validate() error {
	if c.PostID == 0 {
		return ErrEmptyCommentPost
	}

	if c.UserID == 0 {
		return ErrEmptyCommentAuthor
	}

	if c.Body == "" {
		return ErrEmptyCommentBody
	}

	if len(c.Body) > MaxCommentBodyLength {
		return ErrCommentBodyTooLong
	}

	return nil
}

// OwnerID returns the ID of the user who owns the comment.
// Ownership never changes after creation.
func (c *Comment) OwnerID() int64 {
	return c.UserID
}
