package auth

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/base64"

	"github.com/goliatone/go-errors"
	"golang.org/x/crypto/pbkdf2"
)

// PasswordHashIterations is fixed; changing it would invalidate every
// stored credential.
const PasswordHashIterations = 100_000

// PasswordHasher derives and verifies salted password hashes. The server
// wide password key is mixed into the KDF salt so a leaked table alone is
// not enough to mount an offline attack.
type PasswordHasher struct {
	key string
}

// NewPasswordHasher builds a hasher from the configured password key.
// A missing key is a startup error, not a per request condition.
func NewPasswordHasher(passwordKey string) (*PasswordHasher, error) {
	if passwordKey == "" {
		return nil, errors.New("password key is not configured", errors.CategoryInternal)
	}
	return &PasswordHasher{key: passwordKey}, nil
}

// GenerateSalt returns a fresh random salt. Salts are generated once per
// account at signup and never reused.
func (h *PasswordHasher) GenerateSalt() ([]byte, error) {
	salt := make([]byte, PasswordSaltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to generate password salt")
	}
	return salt, nil
}

// Hash derives a fixed length key from the password. The KDF salt input is
// the server password key concatenated with the base64 form of the per
// account salt, so the output depends on both.
func (h *PasswordHasher) Hash(password string, salt []byte) []byte {
	keyedSalt := h.key + base64.StdEncoding.EncodeToString(salt)
	return pbkdf2.Key(
		[]byte(password),
		[]byte(keyedSalt),
		PasswordHashIterations,
		PasswordHashLength,
		sha512.New,
	)
}

// Verify recomputes the hash for the candidate password and compares it in
// constant time, so response timing leaks nothing about hash prefixes.
func (h *PasswordHasher) Verify(password string, salt, expected []byte) bool {
	computed := h.Hash(password, salt)
	return subtle.ConstantTimeCompare(computed, expected) == 1
}
