package auth

import (
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func hashFor(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	return string(hash)
}

func TestHashedVerifier_Match(t *testing.T) {
	stored := hashFor(t, "secret1")

	if err := (HashedVerifier{}).Verify("secret1", stored); err != nil {
		t.Fatalf("Verify() error = %v, want nil", err)
	}
}

func TestHashedVerifier_Mismatch(t *testing.T) {
	stored := hashFor(t, "secret1")

	err := (HashedVerifier{}).Verify("wrong", stored)
	if !errors.Is(err, ErrCredentialMismatch) {
		t.Fatalf("Verify() error = %v, want ErrCredentialMismatch", err)
	}
}

func TestHashedVerifier_RefusesUnrecognizedHashShape(t *testing.T) {
	// A plaintext stored value must never authenticate, even when the
	// supplied password equals the raw stored string.
	cases := []string{
		"plaintext-password-value",
		"short",
		"",
		"$1$legacy$abcdefghijklmnopqrstuvwx",
	}
	for _, stored := range cases {
		err := (HashedVerifier{}).Verify(stored, stored)
		if !errors.Is(err, ErrCredentialMismatch) {
			t.Errorf("Verify(%q) error = %v, want ErrCredentialMismatch", stored, err)
		}
	}
}

func TestPlaintextVerifier_ExactEquality(t *testing.T) {
	verifier := PlaintextVerifier{}

	if err := verifier.Verify("Tech-Pass1", "Tech-Pass1"); err != nil {
		t.Fatalf("Verify() error = %v, want nil", err)
	}

	// Case-sensitive, no normalization.
	for _, supplied := range []string{"tech-pass1", "Tech-Pass1 ", " Tech-Pass1", "TECH-PASS1", ""} {
		err := verifier.Verify(supplied, "Tech-Pass1")
		if !errors.Is(err, ErrCredentialMismatch) {
			t.Errorf("Verify(%q) error = %v, want ErrCredentialMismatch", supplied, err)
		}
	}
}

func TestLooksLikeBcryptHash(t *testing.T) {
	cases := []struct {
		stored string
		want   bool
	}{
		{hashFor(t, "anything"), true},
		{"$2a$10$abcdefghijklmnopqrstuv", true},
		{"$2y$12$abcdefghijklmnopqrstuv", true},
		{"$2a$10$short", false},
		{"plaintext", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := LooksLikeBcryptHash(tc.stored); got != tc.want {
			t.Errorf("LooksLikeBcryptHash(%q) = %v, want %v", tc.stored, got, tc.want)
		}
	}
}

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("new-password", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if !LooksLikeBcryptHash(hash) {
		t.Fatalf("HashPassword() produced unrecognized shape %q", hash)
	}
	if err := (HashedVerifier{}).Verify("new-password", hash); err != nil {
		t.Fatalf("Verify() error = %v, want nil", err)
	}
}
