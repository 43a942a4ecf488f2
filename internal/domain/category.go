package domain

import (
	"errors"
	"time"
)

// ErrEmptyCategoryName is returned when a category is created without a name.
var ErrEmptyCategoryName = errors.New("category name cannot be empty")

// Category is a named grouping for posts. Every post belongs to exactly one
// category.
type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCategory creates a new Category with the given name.
// Returns an error if validation fails.
func NewCategory(name string) (*Category, error) {
	now := time.Now().UTC()
	category := &Category{
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := category.Validate(); err != nil {
		return nil, err
	}

	return category, nil
}

// Validate checks if the Category has valid data.
func (c *Category) Validate() error {
	if c.Name == "" {
		return ErrEmptyCategoryName
	}
	return nil
}
