package validation_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/penwellapp/penwell-server/internal/errors"
	"github.com/penwellapp/penwell-server/internal/validation"
)

type registerRequest struct {
	Name     string `json:"name" validate:"required,notblank,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=1024"`
}

type postRequest struct {
	Title       string  `json:"title" validate:"required,notblank"`
	CategoryIDs []int64 `json:"category_ids,omitempty" validate:"unique,dive,gt=0"`
}

func TestValidator_ValidateSuccess(t *testing.T) {
	v := validation.New()

	err := v.Validate(registerRequest{Name: "Ann", Email: "ann@example.com", Password: "password123"})
	assert.NoError(t, err)

	err = v.Validate(postRequest{Title: "Hello", CategoryIDs: []int64{1, 2}})
	assert.NoError(t, err)
}

func TestValidator_ValidateErrors(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name      string
		req       any
		wantField string
		wantMsg   string
	}{
		{"missing name", registerRequest{Email: "ann@example.com", Password: "password123"}, "name", "is required"},
		{"blank name", registerRequest{Name: "   ", Email: "ann@example.com", Password: "password123"}, "name", "must not be blank"},
		{"invalid email", registerRequest{Name: "Ann", Email: "nope", Password: "password123"}, "email", "must be a valid email address"},
		{"short password", registerRequest{Name: "Ann", Email: "ann@example.com", Password: "short"}, "password", "must be at least 8 characters"},
		{"duplicate categories", postRequest{Title: "x", CategoryIDs: []int64{3, 3}}, "category_ids", "must not contain duplicates"},
		{"non-positive category", postRequest{Title: "x", CategoryIDs: []int64{0}}, "category_ids[0]", "must be greater than 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.req)
			require.Error(t, err)

			var domainErr *domainerrors.Error
			require.True(t, errors.As(err, &domainErr))
			assert.Equal(t, http.StatusBadRequest, domainErr.HTTPStatus())
			assert.True(t, errors.Is(err, domainerrors.ErrInvalidArgument))

			details, ok := domainErr.Details.(map[string]string)
			require.True(t, ok)
			assert.Equal(t, tt.wantMsg, details[tt.wantField])
		})
	}
}

func TestValidator_NonStruct(t *testing.T) {
	err := validation.New().Validate("not a struct")
	require.Error(t, err)

	var domainErr *domainerrors.Error
	assert.False(t, errors.As(err, &domainErr), "non-validation errors pass through unchanged")
}
