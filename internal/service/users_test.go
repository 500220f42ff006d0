package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwellapp/penwell-server/internal/auth"
	"github.com/penwellapp/penwell-server/internal/domain"
	domainerrors "github.com/penwellapp/penwell-server/internal/errors"
	"github.com/penwellapp/penwell-server/internal/policy"
)

func ptr[T any](v T) *T { return &v }

func TestUserService_List(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()

	users, err := env.users.List(ctx, env.actor(env.adminUser))
	require.NoError(t, err)
	assert.Len(t, users, 3)

	_, err = env.users.List(ctx, env.actor(env.alice))
	assertCode(t, err, domainerrors.ErrForbidden)

	_, err = env.users.List(ctx, policy.Anonymous())
	assertCode(t, err, domainerrors.ErrForbidden)
}

func TestUserService_Update_Partial(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()

	updated, err := env.users.Update(ctx, env.actor(env.alice), env.alice.ID, UpdateUserRequest{Name: ptr("Alice Liddell")})
	require.NoError(t, err)
	assert.Equal(t, "Alice Liddell", updated.Name)
	assert.Equal(t, "alice@example.com", updated.Email, "omitted email is unchanged")

	stored, err := env.store.GetUser(ctx, env.alice.ID)
	require.NoError(t, err)
	assert.True(t, auth.VerifyPassword(stored.PasswordHash, "secret123"), "omitted password is unchanged")

	_, err = env.users.Update(ctx, env.actor(env.alice), env.alice.ID, UpdateUserRequest{
		Email:    ptr("Wonder@Example.com"),
		Password: ptr("new-secret"),
	})
	require.NoError(t, err)

	resp, err := env.auth.Login(ctx, LoginRequest{Email: "wonder@example.com", Password: "new-secret"})
	require.NoError(t, err)
	assert.Equal(t, env.alice.ID, resp.User.ID)
}

func TestUserService_Update_Role(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()
	admin := domain.RoleAdmin

	// A user asking for admin keeps their role; the rest of the update applies.
	updated, err := env.users.Update(ctx, env.actor(env.bob), env.bob.ID, UpdateUserRequest{Name: ptr("Robert"), Role: &admin})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, updated.Role)
	assert.Equal(t, "Robert", updated.Name)

	updated, err = env.users.Update(ctx, env.actor(env.adminUser), env.bob.ID, UpdateUserRequest{Role: &admin})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, updated.Role)

	_, err = env.users.Update(ctx, env.actor(env.adminUser), env.bob.ID, UpdateUserRequest{Role: ptr(domain.Role("root"))})
	assertCode(t, err, domainerrors.ErrInvalidArgument)
}

func TestUserService_Update_Errors(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()

	_, err := env.users.Update(ctx, env.actor(env.bob), env.alice.ID, UpdateUserRequest{Name: ptr("Mallory")})
	assertCode(t, err, domainerrors.ErrForbidden)

	_, err = env.users.Update(ctx, env.actor(env.bob), 999, UpdateUserRequest{Name: ptr("Ghost")})
	assertCode(t, err, domainerrors.ErrNotFound)

	_, err = env.users.Update(ctx, env.actor(env.bob), env.bob.ID, UpdateUserRequest{Email: ptr("alice@example.com")})
	assertCode(t, err, domainerrors.ErrConflict)

	_, err = env.users.Update(ctx, env.actor(env.bob), env.bob.ID, UpdateUserRequest{Password: ptr("123")})
	assertCode(t, err, domainerrors.ErrInvalidArgument)
}

func TestUserService_Delete(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()
	post := env.createPost(t, env.adminUser, "Hello")
	env.comment(t, env.bob, post.ID, "bye")

	err := env.users.Delete(ctx, env.actor(env.alice), env.bob.ID)
	assertCode(t, err, domainerrors.ErrForbidden)

	require.NoError(t, env.users.Delete(ctx, env.actor(env.bob), env.bob.ID))
	_, err = env.users.Get(ctx, env.bob.ID)
	assertCode(t, err, domainerrors.ErrNotFound)

	comments, err := env.comments.ListForPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)

	require.NoError(t, env.users.Delete(ctx, env.actor(env.adminUser), env.alice.ID))
}
