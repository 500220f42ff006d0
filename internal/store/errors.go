package store

import "errors"

// Sentinel errors returned by Store implementations. Services translate them
// into domain errors.
var (
	// ErrNotFound means the requested row does not exist.
	ErrNotFound = errors.New("store: not found")
	// ErrAlreadyExists means a unique column (email, slug, category name) is taken.
	ErrAlreadyExists = errors.New("store: already exists")
	// ErrInvalidReference means a foreign key points at a missing row.
	ErrInvalidReference = errors.New("store: invalid reference")
)
