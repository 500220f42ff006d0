// Package media stores uploaded post cover images on disk.
package media

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// URLPrefix is where stored covers are served from.
const URLPrefix = "/uploads/"

var (
	// ErrEmpty is returned for a zero-length upload.
	ErrEmpty = errors.New("cover image is empty")
	// ErrTooLarge is returned when an upload exceeds the size cap.
	ErrTooLarge = errors.New("cover image is too large")
	// ErrUnsupportedType is returned for anything but jpeg, png, webp or gif.
	ErrUnsupportedType = errors.New("cover image must be jpeg, png, webp or gif")
)

// Allowed MIME types and the extension each is stored with.
var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// CoverStorage keeps cover files in one flat directory under random names.
// Safe for concurrent use.
type CoverStorage struct {
	dir      string
	maxBytes int64
	mu       sync.RWMutex
}

// NewCoverStorage creates the directory if needed.
func NewCoverStorage(dir string, maxBytes int64) (*CoverStorage, error) {
	if dir == "" {
		return nil, errors.New("uploads directory cannot be empty")
	}
	if maxBytes <= 0 {
		return nil, fmt.Errorf("max upload size must be positive, got %d", maxBytes)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory: %w", err)
	}
	return &CoverStorage{dir: dir, maxBytes: maxBytes}, nil
}

// Dir returns the directory covers are written to.
func (s *CoverStorage) Dir() string {
	return s.dir
}

// MaxBytes returns the upload size cap.
func (s *CoverStorage) MaxBytes() int64 {
	return s.maxBytes
}

// Save sniffs the image type from its content, writes it under a fresh name and
// returns the public URL path, e.g. /uploads/3f1c....png.
func (s *CoverStorage) Save(data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmpty
	}
	if int64(len(data)) > s.maxBytes {
		return "", ErrTooLarge
	}

	ext, ok := extensions[mimetype.Detect(data).String()]
	if !ok {
		return "", ErrUnsupportedType
	}
	name := uuid.NewString() + ext

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil { //nolint:gosec // public asset
		return "", fmt.Errorf("failed to write cover file: %w", err)
	}
	return URLPrefix + name, nil
}

// Delete removes the file behind a URL returned by Save. Unknown or foreign
// URLs and already-missing files are ignored.
func (s *CoverStorage) Delete(url string) error {
	name, ok := s.nameFromURL(url)
	if !ok {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete cover file: %w", err)
	}
	return nil
}

// Exists reports whether the file behind url is present.
func (s *CoverStorage) Exists(url string) bool {
	name, ok := s.nameFromURL(url)
	if !ok {
		return false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, err := os.Stat(filepath.Join(s.dir, name))
	return err == nil
}

func (s *CoverStorage) nameFromURL(url string) (string, bool) {
	name, ok := strings.CutPrefix(url, URLPrefix)
	if !ok || name == "" || name != path.Base(name) || strings.HasPrefix(name, ".") {
		return "", false
	}
	return name, true
}
