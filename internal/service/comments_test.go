package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/penwellapp/penwell-server/internal/errors"
	"github.com/penwellapp/penwell-server/internal/policy"
)

func TestCommentService_CreateAndList(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()
	post := env.createPost(t, env.adminUser, "Discuss")

	first := env.comment(t, env.alice, post.ID, "  first  ")
	assert.Equal(t, "first", first.Content)
	assert.Equal(t, "Alice", first.UserName)
	env.comment(t, env.bob, post.ID, "second")

	comments, err := env.comments.ListForPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "second", comments[0].Content)

	empty := env.createPost(t, env.adminUser, "Quiet")
	comments, err = env.comments.ListForPost(ctx, empty.ID)
	require.NoError(t, err)
	assert.NotNil(t, comments)
	assert.Empty(t, comments)

	_, err = env.comments.ListForPost(ctx, 999)
	assertCode(t, err, domainerrors.ErrNotFound)
}

func TestCommentService_Get(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()
	post := env.createPost(t, env.adminUser, "Discuss")
	c := env.comment(t, env.alice, post.ID, "hello")

	got, err := env.comments.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Content)
	assert.Equal(t, "Alice", got.UserName)
	assert.Equal(t, post.ID, got.PostID)

	_, err = env.comments.Get(ctx, 999)
	assertCode(t, err, domainerrors.ErrNotFound)
}

func TestCommentService_Create_Errors(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()
	post := env.createPost(t, env.adminUser, "Discuss")

	_, err := env.comments.Create(ctx, policy.Anonymous(), post.ID, CommentRequest{Content: "hi"})
	assertCode(t, err, domainerrors.ErrForbidden)

	_, err = env.comments.Create(ctx, env.actor(env.alice), post.ID, CommentRequest{Content: " "})
	assertCode(t, err, domainerrors.ErrInvalidArgument)

	_, err = env.comments.Create(ctx, env.actor(env.alice), 999, CommentRequest{Content: "hi"})
	assertCode(t, err, domainerrors.ErrNotFound)
}

func TestCommentService_UpdatePermissions(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()
	env.promote(t, env.alice)
	post := env.createPost(t, env.alice, "Alice's post")
	c := env.comment(t, env.bob, post.ID, "bob says")

	// The post owner may delete but not edit someone else's comment.
	_, err := env.comments.Update(ctx, env.actor(env.alice), c.ID, CommentRequest{Content: "edited"})
	assertCode(t, err, domainerrors.ErrForbidden)

	edited, err := env.comments.Update(ctx, env.actor(env.bob), c.ID, CommentRequest{Content: "bob edits"})
	require.NoError(t, err)
	assert.Equal(t, "bob edits", edited.Content)
	assert.Equal(t, "Bob", edited.UserName)

	edited, err = env.comments.Update(ctx, env.actor(env.adminUser), c.ID, CommentRequest{Content: "moderated"})
	require.NoError(t, err)
	assert.Equal(t, "moderated", edited.Content)

	_, err = env.comments.Update(ctx, env.actor(env.bob), 999, CommentRequest{Content: "x"})
	assertCode(t, err, domainerrors.ErrNotFound)
}

func TestCommentService_DeletePermissions(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()
	env.promote(t, env.alice)
	post := env.createPost(t, env.alice, "Alice's post")

	tests := []struct {
		name    string
		author  func() policy.Actor
		deleter func() policy.Actor
		want    *domainerrors.Error
	}{
		{"author", func() policy.Actor { return env.actor(env.bob) }, func() policy.Actor { return env.actor(env.bob) }, nil},
		{"post owner", func() policy.Actor { return env.actor(env.bob) }, func() policy.Actor { return env.actor(env.alice) }, nil},
		{"admin", func() policy.Actor { return env.actor(env.bob) }, func() policy.Actor { return env.actor(env.adminUser) }, nil},
		{"stranger", func() policy.Actor { return env.actor(env.adminUser) }, func() policy.Actor { return env.actor(env.bob) }, domainerrors.ErrForbidden},
		{"anonymous", func() policy.Actor { return env.actor(env.bob) }, policy.Anonymous, domainerrors.ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := env.comments.Create(ctx, tt.author(), post.ID, CommentRequest{Content: tt.name})
			require.NoError(t, err)

			err = env.comments.Delete(ctx, tt.deleter(), c.ID)
			if tt.want != nil {
				assertCode(t, err, tt.want)
				return
			}
			require.NoError(t, err)
			_, err = env.store.GetComment(ctx, c.ID)
			assert.Error(t, err)
		})
	}
}
