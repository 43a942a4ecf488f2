package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scribehq/scribe-api/internal/domain"
	"github.com/scribehq/scribe-api/internal/service"
	"github.com/scribehq/scribe-api/internal/store"
)

func (f *contentFixture) commentService() service.CommentService {
	return service.NewCommentService(nil, f.comments, f.posts, testLogger())
}

func TestCommentServiceCreateComment(t *testing.T) {
	t.Run("creates a comment with its author loaded", func(t *testing.T) {
		f := newContentFixture(t)
		post := f.posts.MustCreate(f.alice.ID, f.tech.ID, "First Post", "Hello world")

		comment, err := f.commentService().CreateComment(context.Background(), post.ID, f.bob.ID, "Nice post")
		require.NoError(t, err)

		assert.NotZero(t, comment.ID)
		assert.Equal(t, post.ID, comment.PostID)
		require.NotNil(t, comment.Author)
		assert.Equal(t, "Bob", comment.Author.Name)
	})

	t.Run("missing post", func(t *testing.T) {
		f := newContentFixture(t)

		_, err := f.commentService().CreateComment(context.Background(), 9999, f.bob.ID, "Nice post")
		assert.ErrorIs(t, err, store.ErrPostNotFound)
	})

	t.Run("rejects invalid comment data", func(t *testing.T) {
		f := newContentFixture(t)
		post := f.posts.MustCreate(f.alice.ID, f.tech.ID, "First Post", "Hello world")

		_, err := f.commentService().CreateComment(context.Background(), post.ID, f.bob.ID, "")
		assert.ErrorIs(t, err, domain.ErrEmptyCommentBody)
	})
}

func TestCommentServiceGetComment(t *testing.T) {
	t.Run("returns the comment with its author", func(t *testing.T) {
		f := newContentFixture(t)
		post := f.posts.MustCreate(f.alice.ID, f.tech.ID, "First Post", "Hello world")
		comment := f.comments.MustCreate(post.ID, f.bob.ID, "Nice post")

		got, err := f.commentService().GetComment(context.Background(), post.ID, comment.ID)
		require.NoError(t, err)
		assert.Equal(t, comment.ID, got.ID)
		require.NotNil(t, got.Author)
		assert.Equal(t, "Bob", got.Author.Name)
	})

	t.Run("comment on a different post is not found", func(t *testing.T) {
		f := newContentFixture(t)
		first := f.posts.MustCreate(f.alice.ID, f.tech.ID, "First Post", "Hello world")
		second := f.posts.MustCreate(f.alice.ID, f.tech.ID, "Second Post", "Hello again")
		comment := f.comments.MustCreate(first.ID, f.bob.ID, "Nice post")

		_, err := f.commentService().GetComment(context.Background(), second.ID, comment.ID)
		assert.ErrorIs(t, err, store.ErrCommentNotFound)
	})

	t.Run("missing comment", func(t *testing.T) {
		f := newContentFixture(t)
		post := f.posts.MustCreate(f.alice.ID, f.tech.ID, "First Post", "Hello world")

		_, err := f.commentService().GetComment(context.Background(), post.ID, 9999)
		assert.ErrorIs(t, err, store.ErrCommentNotFound)
	})
}

func TestCommentServiceListComments(t *testing.T) {
	t.Run("pages comments in insertion order", func(t *testing.T) {
		f := newContentFixture(t)
		post := f.posts.MustCreate(f.alice.ID, f.tech.ID, "First Post", "Hello world")
		for i := 0; i < 12; i++ {
			f.comments.MustCreate(post.ID, f.bob.ID, "Comment body")
		}

		svc := f.commentService()

		first, err := svc.ListComments(context.Background(), post.ID, store.PageRequest{Page: 1})
		require.NoError(t, err)
		assert.Len(t, first.Items, 10)
		assert.Equal(t, int64(12), first.Total)

		second, err := svc.ListComments(context.Background(), post.ID, store.PageRequest{Page: 2})
		require.NoError(t, err)
		assert.Len(t, second.Items, 2)
	})

	t.Run("missing post", func(t *testing.T) {
		f := newContentFixture(t)

		_, err := f.commentService().ListComments(context.Background(), 9999, store.PageRequest{Page: 1})
		assert.ErrorIs(t, err, store.ErrPostNotFound)
	})
}

func TestCommentServiceUpdateComment(t *testing.T) {
	t.Run("owner can update", func(t *testing.T) {
		f := newContentFixture(t)
		post := f.posts.MustCreate(f.alice.ID, f.tech.ID, "First Post", "Hello world")
		comment := f.comments.MustCreate(post.ID, f.bob.ID, "Nice post")

		updated, err := f.commentService().UpdateComment(context.Background(), f.bob.ID, comment.ID, "Even nicer post")
		require.NoError(t, err)
		assert.Equal(t, "Even nicer post", updated.Body)
	})

	t.Run("non-owner is denied, including the post owner", func(t *testing.T) {
		f := newContentFixture(t)
		post := f.posts.MustCreate(f.alice.ID, f.tech.ID, "First Post", "Hello world")
		comment := f.comments.MustCreate(post.ID, f.bob.ID, "Nice post")

		_, err := f.commentService().UpdateComment(context.Background(), f.alice.ID, comment.ID, "Hijacked")
		assert.ErrorIs(t, err, service.ErrNotOwned)
	})

	t.Run("missing comment", func(t *testing.T) {
		f := newContentFixture(t)

		_, err := f.commentService().UpdateComment(context.Background(), f.bob.ID, 9999, "Body")
		assert.ErrorIs(t, err, store.ErrCommentNotFound)
	})
}

func TestCommentServiceDeleteComment(t *testing.T) {
	t.Run("owner delete leaves the post untouched", func(t *testing.T) {
		f := newContentFixture(t)
		post := f.posts.MustCreate(f.alice.ID, f.tech.ID, "First Post", "Hello world")
		comment := f.comments.MustCreate(post.ID, f.bob.ID, "Nice post")

		require.NoError(t, f.commentService().DeleteComment(context.Background(), f.bob.ID, comment.ID))

		_, err := f.comments.GetByID(context.Background(), comment.ID)
		assert.ErrorIs(t, err, store.ErrCommentNotFound)
		_, err = f.posts.GetByID(context.Background(), post.ID)
		assert.NoError(t, err)
	})

	t.Run("non-owner is denied", func(t *testing.T) {
		f := newContentFixture(t)
		post := f.posts.MustCreate(f.alice.ID, f.tech.ID, "First Post", "Hello world")
		comment := f.comments.MustCreate(post.ID, f.bob.ID, "Nice post")

		err := f.commentService().DeleteComment(context.Background(), f.alice.ID, comment.ID)
		assert.ErrorIs(t, err, service.ErrNotOwned)
	})
}
