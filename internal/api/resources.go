package api

import (
	"time"

	"github.com/scribehq/scribe-api/internal/domain"
)

// timestampFormat is the fixed wire format for all resource timestamps.
const timestampFormat = "2006-01-02 15:04:05"

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampFormat)
}

// UserResource is the serialized form of a user. The password hash is never
// part of any resource.
type UserResource struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// NewUserResource serializes a user. Returns nil for a nil user so unloaded
// relations serialize as null.
func NewUserResource(u *domain.User) *UserResource {
	if u == nil {
		return nil
	}
	return &UserResource{ID: u.ID, Name: u.Name, Email: u.Email}
}

// CategoryResource is the serialized form of a category.
type CategoryResource struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// NewCategoryResource serializes a category, nil for nil.
func NewCategoryResource(c *domain.Category) *CategoryResource {
	if c == nil {
		return nil
	}
	return &CategoryResource{ID: c.ID, Name: c.Name}
}

// CommentResource is the serialized form of a comment. Author is null when
// the relation was not loaded; serializers never trigger follow-up queries.
type CommentResource struct {
	ID        int64         `json:"id"`
	Author    *UserResource `json:"author"`
	Body      string        `json:"body"`
	CreatedAt string        `json:"created_at"`
}

// NewCommentResource serializes a comment.
func NewCommentResource(c *domain.Comment) *CommentResource {
	return &CommentResource{
		ID:        c.ID,
		Author:    NewUserResource(c.Author),
		Body:      c.Body,
		CreatedAt: formatTimestamp(c.CreatedAt),
	}
}

// PostResource is the serialized form of a post. Author and Category are null
// when unloaded. Comments distinguishes unloaded (key omitted) from loaded
// but empty ([]); the pointer-to-slice makes an empty loaded list survive
// the omitempty check.
type PostResource struct {
	ID        int64               `json:"id"`
	Author    *UserResource       `json:"author"`
	Category  *CategoryResource   `json:"category"`
	Title     string              `json:"title"`
	Body      string              `json:"body"`
	Comments  *[]*CommentResource `json:"comments,omitempty"`
	CreatedAt string              `json:"created_at"`
	UpdatedAt string              `json:"updated_at"`
}

// NewPostResource serializes a post with whatever relations were loaded.
func NewPostResource(p *domain.Post) *PostResource {
	res := &PostResource{
		ID:        p.ID,
		Author:    NewUserResource(p.Author),
		Category:  NewCategoryResource(p.Category),
		Title:     p.Title,
		Body:      p.Body,
		CreatedAt: formatTimestamp(p.CreatedAt),
		UpdatedAt: formatTimestamp(p.UpdatedAt),
	}

	if p.Comments != nil {
		comments := make([]*CommentResource, 0, len(p.Comments))
		for _, c := range p.Comments {
			comments = append(comments, NewCommentResource(c))
		}
		res.Comments = &comments
	}

	return res
}
