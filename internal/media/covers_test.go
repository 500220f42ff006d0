package media

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newTestStorage(t *testing.T, maxBytes int64) *CoverStorage {
	t.Helper()
	s, err := NewCoverStorage(filepath.Join(t.TempDir(), "uploads"), maxBytes)
	require.NoError(t, err)
	return s
}

func TestCoverStorage_SaveAndDelete(t *testing.T) {
	s := newTestStorage(t, 1<<20)
	data := pngBytes(t)

	url, err := s.Save(data)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, URLPrefix))
	assert.True(t, strings.HasSuffix(url, ".png"))
	assert.True(t, s.Exists(url))

	stored, err := os.ReadFile(filepath.Join(s.Dir(), strings.TrimPrefix(url, URLPrefix)))
	require.NoError(t, err)
	assert.Equal(t, data, stored)

	other, err := s.Save(data)
	require.NoError(t, err)
	assert.NotEqual(t, url, other, "every upload gets its own name")

	require.NoError(t, s.Delete(url))
	assert.False(t, s.Exists(url))
	assert.NoError(t, s.Delete(url), "deleting twice is fine")
}

func TestCoverStorage_Rejects(t *testing.T) {
	s := newTestStorage(t, 64)

	_, err := s.Save(nil)
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = s.Save([]byte("just some text, definitely not an image"))
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = s.Save(bytes.Repeat([]byte{0xff}, 65))
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestCoverStorage_DeleteIgnoresForeignPaths(t *testing.T) {
	s := newTestStorage(t, 1<<20)
	outside := filepath.Join(filepath.Dir(s.Dir()), "keep.txt")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o600))

	for _, url := range []string{"", "https://cdn.example.com/a.png", "/uploads/../keep.txt", "/uploads/", "/uploads/.hidden"} {
		assert.NoError(t, s.Delete(url), url)
		assert.False(t, s.Exists(url), url)
	}

	_, err := os.Stat(outside)
	assert.NoError(t, err)
}

func TestNewCoverStorage_Validation(t *testing.T) {
	_, err := NewCoverStorage("", 10)
	assert.Error(t, err)

	_, err = NewCoverStorage(t.TempDir(), 0)
	assert.Error(t, err)
}
