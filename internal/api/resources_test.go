package api_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scribehq/scribe-api/internal/api"
	"github.com/scribehq/scribe-api/internal/domain"
)

func TestPostResourceRelations(t *testing.T) {
	created := time.Date(2026, 8, 31, 9, 30, 0, 0, time.UTC)

	t.Run("unloaded relations are null and comments are omitted", func(t *testing.T) {
		post := &domain.Post{
			ID:        1,
			Title:     "First Post",
			Body:      "Hello world",
			CreatedAt: created,
			UpdatedAt: created,
		}

		encoded, err := json.Marshal(api.NewPostResource(post))
		require.NoError(t, err)

		var out map[string]interface{}
		require.NoError(t, json.Unmarshal(encoded, &out))

		assert.Nil(t, out["author"])
		assert.Nil(t, out["category"])
		assert.NotContains(t, out, "comments")
	})

	t.Run("loaded but empty comments serialize as an empty array", func(t *testing.T) {
		post := &domain.Post{
			ID:        1,
			Title:     "First Post",
			Body:      "Hello world",
			Comments:  []*domain.Comment{},
			CreatedAt: created,
			UpdatedAt: created,
		}

		encoded, err := json.Marshal(api.NewPostResource(post))
		require.NoError(t, err)
		assert.Contains(t, string(encoded), `"comments":[]`)
	})

	t.Run("timestamps use the fixed format in UTC", func(t *testing.T) {
		eastern := time.FixedZone("UTC+3", 3*60*60)
		post := &domain.Post{
			ID:        1,
			Title:     "First Post",
			Body:      "Hello world",
			CreatedAt: time.Date(2026, 8, 31, 12, 30, 0, 0, eastern),
			UpdatedAt: created,
		}

		res := api.NewPostResource(post)
		assert.Equal(t, "2026-08-31 09:30:00", res.CreatedAt)
	})
}

func TestCommentResourceAuthor(t *testing.T) {
	comment := &domain.Comment{ID: 1, PostID: 1, UserID: 2, Body: "Nice post"}

	encoded, err := json.Marshal(api.NewCommentResource(comment))
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(encoded, &out))

	// Unloaded author is null, never a follow-up query.
	assert.Contains(t, out, "author")
	assert.Nil(t, out["author"])
}
