package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scribehq/scribe-api/internal/domain"
	"github.com/scribehq/scribe-api/internal/mocks"
	"github.com/scribehq/scribe-api/internal/service"
	"github.com/scribehq/scribe-api/internal/store"
)

type contentFixture struct {
	users      *mocks.MemoryUserStore
	categories *mocks.MemoryCategoryStore
	comments   *mocks.MemoryCommentStore
	posts      *mocks.MemoryPostStore

	alice *domain.User
	bob   *domain.User
	tech  *domain.Category
}

func newContentFixture(t *testing.T) *contentFixture {
	t.Helper()
	users := mocks.NewMemoryUserStore()
	categories := mocks.NewMemoryCategoryStore()
	comments := mocks.NewMemoryCommentStore(users)
	posts := mocks.NewMemoryPostStore(users, categories, comments)

	return &contentFixture{
		users:      users,
		categories: categories,
		comments:   comments,
		posts:      posts,
		alice:      users.MustCreate("Alice", "alice@example.com", "$2a$10$hash"),
		bob:        users.MustCreate("Bob", "bob@example.com", "$2a$10$hash"),
		tech:       categories.MustCreate("Tech"),
	}
}

func (f *contentFixture) postService() service.PostService {
	return service.NewPostService(nil, f.posts, testLogger())
}

func TestPostServiceCreatePost(t *testing.T) {
	t.Run("creates and returns the post with relations", func(t *testing.T) {
		f := newContentFixture(t)
		svc := f.postService()

		post, err := svc.CreatePost(context.Background(), f.alice.ID, f.tech.ID, "First Post", "Hello world")
		require.NoError(t, err)

		assert.NotZero(t, post.ID)
		assert.Equal(t, f.alice.ID, post.UserID)
		require.NotNil(t, post.Author)
		assert.Equal(t, "Alice", post.Author.Name)
		require.NotNil(t, post.Category)
		assert.Equal(t, "Tech", post.Category.Name)
		assert.NotNil(t, post.Comments)
		assert.Empty(t, post.Comments)
	})

	t.Run("rejects missing category", func(t *testing.T) {
		f := newContentFixture(t)
		svc := f.postService()

		_, err := svc.CreatePost(context.Background(), f.alice.ID, 9999, "First Post", "Hello world")
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
	})

	t.Run("rejects invalid post data", func(t *testing.T) {
		f := newContentFixture(t)
		svc := f.postService()

		_, err := svc.CreatePost(context.Background(), f.alice.ID, f.tech.ID, "", "Hello world")
		assert.ErrorIs(t, err, domain.ErrEmptyPostTitle)
	})
}

func TestPostServiceGetPost(t *testing.T) {
	t.Run("loads comments with their authors", func(t *testing.T) {
		f := newContentFixture(t)
		created := f.posts.MustCreate(f.alice.ID, f.tech.ID, "First Post", "Hello world")
		f.comments.MustCreate(created.ID, f.bob.ID, "Nice post")

		post, err := f.postService().GetPost(context.Background(), created.ID)
		require.NoError(t, err)

		require.Len(t, post.Comments, 1)
		require.NotNil(t, post.Comments[0].Author)
		assert.Equal(t, "Bob", post.Comments[0].Author.Name)
	})

	t.Run("missing post", func(t *testing.T) {
		f := newContentFixture(t)

		_, err := f.postService().GetPost(context.Background(), 9999)
		assert.ErrorIs(t, err, store.ErrPostNotFound)
	})
}

func TestPostServiceListPosts(t *testing.T) {
	f := newContentFixture(t)
	for i := 0; i < 15; i++ {
		f.posts.MustCreate(f.alice.ID, f.tech.ID, "Post", "Body")
	}

	svc := f.postService()

	first, err := svc.ListPosts(context.Background(), store.PageRequest{Page: 1})
	require.NoError(t, err)
	assert.Len(t, first.Items, 10)
	assert.Equal(t, int64(15), first.Total)
	assert.Equal(t, 2, first.LastPage())

	second, err := svc.ListPosts(context.Background(), store.PageRequest{Page: 2})
	require.NoError(t, err)
	assert.Len(t, second.Items, 5)
	assert.Greater(t, second.Items[0].ID, first.Items[9].ID)
}

func TestPostServiceUpdatePost(t *testing.T) {
	newTitle := "Updated Title"

	t.Run("owner can update", func(t *testing.T) {
		f := newContentFixture(t)
		created := f.posts.MustCreate(f.alice.ID, f.tech.ID, "First Post", "Hello world")

		post, err := f.postService().UpdatePost(
			context.Background(), f.alice.ID, created.ID, store.PostUpdate{Title: &newTitle})
		require.NoError(t, err)
		assert.Equal(t, newTitle, post.Title)
		assert.Equal(t, "Hello world", post.Body)
	})

	t.Run("non-owner is denied", func(t *testing.T) {
		f := newContentFixture(t)
		created := f.posts.MustCreate(f.alice.ID, f.tech.ID, "First Post", "Hello world")

		_, err := f.postService().UpdatePost(
			context.Background(), f.bob.ID, created.ID, store.PostUpdate{Title: &newTitle})
		assert.ErrorIs(t, err, service.ErrNotOwned)

		unchanged, err := f.posts.GetByID(context.Background(), created.ID)
		require.NoError(t, err)
		assert.Equal(t, "First Post", unchanged.Title)
	})

	t.Run("ownership never changes on update", func(t *testing.T) {
		f := newContentFixture(t)
		created := f.posts.MustCreate(f.alice.ID, f.tech.ID, "First Post", "Hello world")

		post, err := f.postService().UpdatePost(
			context.Background(), f.alice.ID, created.ID, store.PostUpdate{Title: &newTitle})
		require.NoError(t, err)
		assert.Equal(t, f.alice.ID, post.UserID)
	})

	t.Run("missing post", func(t *testing.T) {
		f := newContentFixture(t)

		_, err := f.postService().UpdatePost(
			context.Background(), f.alice.ID, 9999, store.PostUpdate{Title: &newTitle})
		assert.ErrorIs(t, err, store.ErrPostNotFound)
	})
}

func TestPostServiceDeletePost(t *testing.T) {
	t.Run("owner delete cascades to comments", func(t *testing.T) {
		f := newContentFixture(t)
		created := f.posts.MustCreate(f.alice.ID, f.tech.ID, "First Post", "Hello world")
		comment := f.comments.MustCreate(created.ID, f.bob.ID, "Nice post")

		require.NoError(t, f.postService().DeletePost(context.Background(), f.alice.ID, created.ID))

		_, err := f.posts.GetByID(context.Background(), created.ID)
		assert.ErrorIs(t, err, store.ErrPostNotFound)
		_, err = f.comments.GetByID(context.Background(), comment.ID)
		assert.ErrorIs(t, err, store.ErrCommentNotFound)
	})

	t.Run("non-owner is denied", func(t *testing.T) {
		f := newContentFixture(t)
		created := f.posts.MustCreate(f.alice.ID, f.tech.ID, "First Post", "Hello world")

		err := f.postService().DeletePost(context.Background(), f.bob.ID, created.ID)
		assert.ErrorIs(t, err, service.ErrNotOwned)

		_, err = f.posts.GetByID(context.Background(), created.ID)
		assert.NoError(t, err)
	})
}
