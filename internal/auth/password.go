package auth

import (
	"crypto/subtle"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// ErrCredentialMismatch reports a deliberate verification failure: wrong
// password, or a stored value that does not look like a usable credential.
// Any other error from Verify is an internal comparison failure.
var ErrCredentialMismatch = errors.New("credential mismatch")

const minHashLength = 20

// CredentialVerifier checks a supplied plaintext against a stored credential.
// The two identity classes use intentionally different policies, so the
// selection is made per class and never unified.
type CredentialVerifier interface {
	Verify(plaintext, stored string) error
}

// HashedVerifier verifies staff credentials against a stored bcrypt hash.
type HashedVerifier struct{}

// Verify refuses stored values that do not look like a bcrypt hash, which
// guards against legacy plaintext rows being silently accepted. A refused
// shape is a mismatch, not an error.
func (HashedVerifier) Verify(plaintext, stored string) error {
	if !LooksLikeBcryptHash(stored) {
		return ErrCredentialMismatch
	}
	err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(plaintext))
	if err == nil {
		return nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrCredentialMismatch
	}
	return err
}

// PlaintextVerifier compares technician credentials by direct equality.
// No hashing, no normalization; kept as-is for stored-data compatibility.
type PlaintextVerifier struct{}

func (PlaintextVerifier) Verify(plaintext, stored string) error {
	if subtle.ConstantTimeCompare([]byte(plaintext), []byte(stored)) != 1 {
		return ErrCredentialMismatch
	}
	return nil
}

// LooksLikeBcryptHash reports whether the stored value matches the expected
// salted-hash shape: a $2a$/$2b$/$2y$ prefix and a plausible length.
func LooksLikeBcryptHash(stored string) bool {
	if len(stored) < minHashLength {
		return false
	}
	return strings.HasPrefix(stored, "$2a$") ||
		strings.HasPrefix(stored, "$2b$") ||
		strings.HasPrefix(stored, "$2y$")
}

// HashPassword hashes a plaintext password with the configured cost. Used by
// the user management flow when creating or updating staff accounts.
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
