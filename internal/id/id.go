// Package id generates short random identifiers for values that never touch
// the database, such as access token ids.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	size     = 20
)

// Generate returns prefix_ followed by 20 lowercase alphanumeric characters,
// e.g. "tok_4f0zq1m8c2k7x9b3n5pa".
func Generate(prefix string) (string, error) {
	s, err := gonanoid.Generate(alphabet, size)
	if err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}
	return prefix + "_" + s, nil
}
