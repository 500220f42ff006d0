package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwellapp/penwell-server/internal/domain"
	"github.com/penwellapp/penwell-server/internal/service"
)

func TestRegister_FirstUserIsAdmin(t *testing.T) {
	ts := setupTestServer(t)

	_, first := ts.register(t, "Admin", "admin@example.com")
	_, second := ts.register(t, "Alice", "alice@example.com")

	assert.Equal(t, domain.RoleAdmin, first.Role)
	assert.Equal(t, domain.RoleUser, second.Role)
}

func TestRegister_ReturnsUsableToken(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"name":     "Alice",
		"email":    "Alice@Example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, resp.Code)

	env := decode[service.AuthResponse](t, resp)
	assert.True(t, env.Success)
	assert.Equal(t, 1, env.V)
	assert.Equal(t, "Bearer", env.Data.TokenType)
	assert.Positive(t, env.Data.ExpiresIn)
	assert.Equal(t, "alice@example.com", env.Data.User.Email)

	claims, err := ts.tokens.VerifyAccessToken(env.Data.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, env.Data.User.ID, claims.UserID)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	ts := setupTestServer(t)
	ts.register(t, "Alice", "alice@example.com")

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"name":     "Other Alice",
		"email":    "alice@example.com",
		"password": "secret123",
	})

	assert.Equal(t, http.StatusConflict, resp.Code)
	env := decode[any](t, resp)
	require.NotNil(t, env.Error)
	assert.Equal(t, "CONFLICT", env.Error.Code)
}

func TestRegister_ShortPassword(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "123",
	})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	env := decode[any](t, resp)
	require.NotNil(t, env.Error)
	assert.Equal(t, "INVALID_ARGUMENT", env.Error.Code)
}

func TestRegister_MissingFieldIsInvalidArgument(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":    "alice@example.com",
		"password": "secret123",
	})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	env := decode[any](t, resp)
	require.NotNil(t, env.Error)
	assert.Equal(t, "INVALID_ARGUMENT", env.Error.Code)
	assert.NotNil(t, env.Error.Details)
}

func TestLogin(t *testing.T) {
	ts := setupTestServer(t)
	ts.register(t, "Alice", "alice@example.com")

	t.Run("valid credentials", func(t *testing.T) {
		resp := ts.api.Post("/api/v1/auth/login", map[string]any{
			"email":    "alice@example.com",
			"password": "secret123",
		})
		require.Equal(t, http.StatusOK, resp.Code)
		env := decode[service.AuthResponse](t, resp)
		assert.NotEmpty(t, env.Data.AccessToken)
		assert.Equal(t, "Alice", env.Data.User.Name)
	})

	t.Run("wrong password", func(t *testing.T) {
		resp := ts.api.Post("/api/v1/auth/login", map[string]any{
			"email":    "alice@example.com",
			"password": "wrong-password",
		})
		assert.Equal(t, http.StatusUnauthorized, resp.Code)
		env := decode[any](t, resp)
		require.NotNil(t, env.Error)
		assert.Equal(t, "INVALID_CREDENTIALS", env.Error.Code)
	})

	t.Run("unknown email", func(t *testing.T) {
		resp := ts.api.Post("/api/v1/auth/login", map[string]any{
			"email":    "nobody@example.com",
			"password": "secret123",
		})
		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	})
}

func TestGetCurrentUser(t *testing.T) {
	ts := setupTestServer(t)
	token, user := ts.register(t, "Alice", "alice@example.com")

	t.Run("with token", func(t *testing.T) {
		resp := ts.api.Get("/api/v1/auth/me", bearer(token))
		require.Equal(t, http.StatusOK, resp.Code)
		env := decode[domain.User](t, resp)
		assert.Equal(t, user.ID, env.Data.ID)
		assert.NotContains(t, resp.Body.String(), "password")
	})

	t.Run("without token", func(t *testing.T) {
		resp := ts.api.Get("/api/v1/auth/me")
		assert.Equal(t, http.StatusUnauthorized, resp.Code)
		env := decode[any](t, resp)
		require.NotNil(t, env.Error)
		assert.Equal(t, "UNAUTHORIZED", env.Error.Code)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		resp := ts.api.Get("/api/v1/auth/me", "Authorization: Basic "+token)
		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		resp := ts.api.Get("/api/v1/auth/me", bearer("v4.local.garbage"))
		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	})
}
