package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// Caps hashing cost for absurdly long inputs.
const maxPasswordLength = 1024

const saltLength = 16

var (
	// ErrEmptyPassword is returned when hashing an empty password.
	ErrEmptyPassword = errors.New("password cannot be empty")

	errPasswordTooLong = errors.New("password exceeds maximum length")
	errMalformedHash   = errors.New("malformed argon2id hash")
)

// argonParams are the cost settings stored alongside every hash, so a hash
// stays verifiable after the defaults change.
type argonParams struct {
	memory  uint32
	time    uint32
	threads uint8
	keyLen  uint32
}

var defaultParams = argonParams{memory: 64 * 1024, time: 3, threads: 4, keyLen: 32}

func (p argonParams) key(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, p.time, p.memory, p.threads, p.keyLen)
}

// encode renders the PHC string: $argon2id$v=19$m=..,t=..,p=..$salt$hash
func (p argonParams) encode(salt, hash []byte) string {
	b64 := base64.RawStdEncoding
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.memory, p.time, p.threads,
		b64.EncodeToString(salt), b64.EncodeToString(hash))
}

// parseHash is the inverse of encode. keyLen comes from the stored hash.
func parseHash(encoded string) (p argonParams, salt, hash []byte, err error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return p, nil, nil, errMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return p, nil, nil, errMalformedHash
	}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.memory, &p.time, &p.threads); err != nil {
		return p, nil, nil, errMalformedHash
	}

	b64 := base64.RawStdEncoding
	if salt, err = b64.DecodeString(parts[4]); err != nil {
		return p, nil, nil, errMalformedHash
	}
	if hash, err = b64.DecodeString(parts[5]); err != nil || len(hash) == 0 {
		return p, nil, nil, errMalformedHash
	}

	//nolint:gosec // decoded hash is at most a few dozen bytes
	p.keyLen = uint32(len(hash))
	return p, salt, hash, nil
}

// HashPassword creates an Argon2id hash of the password in PHC string format.
func HashPassword(password string) (string, error) {
	switch {
	case password == "":
		return "", ErrEmptyPassword
	case len(password) > maxPasswordLength:
		return "", errPasswordTooLong
	}

	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	return defaultParams.encode(salt, defaultParams.key(password, salt)), nil
}

// VerifyPassword checks password against an Argon2id hash, or a bcrypt hash
// carried over from an imported database. Malformed hashes never match.
func VerifyPassword(encodedHash, password string) bool {
	if len(password) > maxPasswordLength {
		return false
	}
	if IsLegacyHash(encodedHash) {
		return bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password)) == nil
	}

	params, salt, want, err := parseHash(encodedHash)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(want, params.key(password, salt)) == 1
}

// IsLegacyHash reports whether the hash is bcrypt and should be upgraded to
// Argon2id after the next successful login.
func IsLegacyHash(encodedHash string) bool {
	for _, prefix := range []string{"$2a$", "$2b$", "$2y$"} {
		if strings.HasPrefix(encodedHash, prefix) {
			return true
		}
	}
	return false
}
