package api

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwellapp/penwell-server/internal/domain"
)

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 200, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func (ts *testServer) uploadCover(t *testing.T, token string, postID int64, field string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile(field, "cover.png")
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return ts.api.Post(fmt.Sprintf("/api/v1/posts/%d/cover", postID),
		bearer(token),
		"Content-Type: "+writer.FormDataContentType(),
		&body,
	)
}

func TestUploadCover(t *testing.T) {
	ts := setupTestServer(t)
	admin, _ := ts.register(t, "Admin", "admin@example.com")
	post := ts.createPost(t, admin, "Illustrated")

	resp := ts.uploadCover(t, admin, post.ID, coverFormField, testPNG(t))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	updated := decode[domain.Post](t, resp).Data
	require.True(t, strings.HasPrefix(updated.CoverImage, "/uploads/"), updated.CoverImage)
	assert.True(t, strings.HasSuffix(updated.CoverImage, ".png"))

	file := ts.api.Get(updated.CoverImage)
	require.Equal(t, http.StatusOK, file.Code)
	assert.Equal(t, "image/png", file.Header().Get("Content-Type"))
	assert.Equal(t, "nosniff", file.Header().Get("X-Content-Type-Options"))

	// Replacing the cover removes the previous file.
	resp = ts.uploadCover(t, admin, post.ID, coverFormField, testPNG(t))
	require.Equal(t, http.StatusOK, resp.Code)
	replaced := decode[domain.Post](t, resp).Data
	assert.NotEqual(t, updated.CoverImage, replaced.CoverImage)
	assert.Equal(t, http.StatusNotFound, ts.api.Get(updated.CoverImage).Code)

	// Deleting the post removes its cover.
	resp = ts.api.Delete(fmt.Sprintf("/api/v1/posts/%d", post.ID), bearer(admin))
	require.Equal(t, http.StatusNoContent, resp.Code)
	assert.Equal(t, http.StatusNotFound, ts.api.Get(replaced.CoverImage).Code)
}

func TestUploadCover_Rejections(t *testing.T) {
	ts := setupTestServer(t)
	admin, _ := ts.register(t, "Admin", "admin@example.com")
	alice, _ := ts.register(t, "Alice", "alice@example.com")
	post := ts.createPost(t, admin, "Illustrated")

	t.Run("not an image", func(t *testing.T) {
		resp := ts.uploadCover(t, admin, post.ID, coverFormField, []byte("just some text"))
		assert.Equal(t, http.StatusBadRequest, resp.Code)
		env := decode[any](t, resp)
		require.NotNil(t, env.Error)
		assert.Equal(t, "INVALID_ARGUMENT", env.Error.Code)
	})

	t.Run("wrong field", func(t *testing.T) {
		resp := ts.uploadCover(t, admin, post.ID, "file", testPNG(t))
		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("too large", func(t *testing.T) {
		big := append(testPNG(t), make([]byte, 2<<20)...)
		resp := ts.uploadCover(t, admin, post.ID, coverFormField, big)
		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("not the owner", func(t *testing.T) {
		resp := ts.uploadCover(t, alice, post.ID, coverFormField, testPNG(t))
		assert.Equal(t, http.StatusForbidden, resp.Code)
	})

	t.Run("anonymous", func(t *testing.T) {
		resp := ts.uploadCover(t, "", post.ID, coverFormField, testPNG(t))
		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	})

	t.Run("missing post", func(t *testing.T) {
		resp := ts.uploadCover(t, admin, 9999, coverFormField, testPNG(t))
		assert.Equal(t, http.StatusNotFound, resp.Code)
	})
}

func TestServeUpload_RejectsUnknownNames(t *testing.T) {
	ts := setupTestServer(t)

	for _, path := range []string{"/uploads/missing.png", "/uploads/.hidden", "/uploads/..%2Ftest.db"} {
		resp := ts.api.Get(path)
		assert.Equal(t, http.StatusNotFound, resp.Code, path)
	}
}
