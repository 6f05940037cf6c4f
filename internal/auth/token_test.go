package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/Jow12560/bizlens-backend/internal/domain"
)

const testSecret = "this-is-a-test-secret-with-32-bytes!"

func testStaffUser() *domain.User {
	return &domain.User{
		ID:                  42,
		Email:               "a@b.com",
		Role:                "admin",
		AssignedDepartments: []string{"sales", "support"},
	}
}

func TestIssueStaffToken_ClaimsMatchRecord(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)
	user := testStaffUser()

	token, _, err := tm.IssueStaffToken(user)
	if err != nil {
		t.Fatalf("IssueStaffToken() error = %v", err)
	}

	claims, err := tm.ParseStaffToken(token)
	if err != nil {
		t.Fatalf("ParseStaffToken() error = %v", err)
	}
	if claims.UserID != user.ID {
		t.Errorf("UserID = %d, want %d", claims.UserID, user.ID)
	}
	if claims.Email != user.Email {
		t.Errorf("Email = %q, want %q", claims.Email, user.Email)
	}
	if claims.Role != user.Role {
		t.Errorf("Role = %q, want %q", claims.Role, user.Role)
	}
	if len(claims.AssignedDepartments) != 2 {
		t.Fatalf("AssignedDepartments = %v, want 2 entries", claims.AssignedDepartments)
	}
}

func TestIssueStaffToken_EmptyDepartmentsClaimPresent(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)
	user := testStaffUser()
	user.AssignedDepartments = nil

	token, _, err := tm.IssueStaffToken(user)
	if err != nil {
		t.Fatalf("IssueStaffToken() error = %v", err)
	}

	claims, err := tm.ParseStaffToken(token)
	if err != nil {
		t.Fatalf("ParseStaffToken() error = %v", err)
	}
	// Present-but-empty, never omitted, to keep the claim shape stable.
	if claims.AssignedDepartments == nil {
		t.Fatal("AssignedDepartments claim missing, want empty list")
	}
	if len(claims.AssignedDepartments) != 0 {
		t.Fatalf("AssignedDepartments = %v, want empty", claims.AssignedDepartments)
	}
}

func TestIssueStaffToken_ExpiryIsOneHourFromIssuance(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)

	token, expiresAt, err := tm.IssueStaffToken(testStaffUser())
	if err != nil {
		t.Fatalf("IssueStaffToken() error = %v", err)
	}

	claims, err := tm.ParseStaffToken(token)
	if err != nil {
		t.Fatalf("ParseStaffToken() error = %v", err)
	}
	if got := claims.ExpiresAt.Time.Sub(claims.IssuedAt.Time); got != time.Hour {
		t.Errorf("expiry - issuedAt = %v, want %v", got, time.Hour)
	}
	if !claims.ExpiresAt.Time.Equal(expiresAt.Truncate(time.Second)) {
		t.Errorf("claim expiry %v does not match returned expiry %v", claims.ExpiresAt.Time, expiresAt)
	}
}

func TestIssueStaffToken_DistinctTokensIdenticalClaims(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)
	user := testStaffUser()

	first, _, err := tm.IssueStaffToken(user)
	if err != nil {
		t.Fatalf("IssueStaffToken() error = %v", err)
	}
	// JWT timestamps have one-second resolution.
	time.Sleep(1100 * time.Millisecond)
	second, _, err := tm.IssueStaffToken(user)
	if err != nil {
		t.Fatalf("IssueStaffToken() error = %v", err)
	}

	if first == second {
		t.Fatal("two logins at different times produced identical tokens")
	}

	firstClaims, err := tm.ParseStaffToken(first)
	if err != nil {
		t.Fatalf("ParseStaffToken(first) error = %v", err)
	}
	secondClaims, err := tm.ParseStaffToken(second)
	if err != nil {
		t.Fatalf("ParseStaffToken(second) error = %v", err)
	}
	if firstClaims.UserID != secondClaims.UserID ||
		firstClaims.Email != secondClaims.Email ||
		firstClaims.Role != secondClaims.Role {
		t.Error("identity claims differ between tokens for the same record")
	}
}

func TestIssueTechnicianToken_Claims(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)
	tech := &domain.Technician{
		ID:                   7,
		Username:             "tech01",
		FullName:             "Somchai J.",
		IdentificationNumber: "1102003344556",
	}

	token, _, err := tm.IssueTechnicianToken(tech)
	if err != nil {
		t.Fatalf("IssueTechnicianToken() error = %v", err)
	}

	claims, err := tm.ParseTechnicianToken(token)
	if err != nil {
		t.Fatalf("ParseTechnicianToken() error = %v", err)
	}
	if claims.UserID != tech.ID {
		t.Errorf("UserID = %d, want %d", claims.UserID, tech.ID)
	}
	if claims.Username != tech.Username {
		t.Errorf("Username = %q, want %q", claims.Username, tech.Username)
	}
	if claims.Name != tech.FullName {
		t.Errorf("Name = %q, want %q", claims.Name, tech.FullName)
	}
	if claims.Identification != tech.IdentificationNumber {
		t.Errorf("Identification = %q, want %q", claims.Identification, tech.IdentificationNumber)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Nanosecond)

	token, _, err := tm.IssueStaffToken(testStaffUser())
	if err != nil {
		t.Fatalf("IssueStaffToken() error = %v", err)
	}

	time.Sleep(10 * time.Millisecond)
	if _, err := tm.ParseStaffToken(token); err == nil {
		t.Fatal("ParseStaffToken() accepted an expired token")
	}
}

func TestSign_MissingSecretIsFatalConfig(t *testing.T) {
	tm := NewTokenManager("", time.Hour)

	_, _, err := tm.IssueStaffToken(testStaffUser())
	if !errors.Is(err, ErrSecretNotConfigured) {
		t.Fatalf("IssueStaffToken() error = %v, want ErrSecretNotConfigured", err)
	}
}
