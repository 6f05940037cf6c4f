package auth

import (
	"errors"
	"strconv"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/Jow12560/bizlens-backend/internal/domain"
)

// ErrSecretNotConfigured signals a missing JWT secret, a fatal configuration
// error surfaced per request as an internal error rather than skipped.
var ErrSecretNotConfigured = errors.New("jwt secret not configured")

// TokenManager issues and validates signed tokens for both identity classes.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// StaffClaims is the claim set carried by staff tokens. assigned_departments
// is always present, empty rather than omitted, so the claim shape stays
// stable for downstream consumers.
type StaffClaims struct {
	UserID              int64    `json:"userId"`
	Email               string   `json:"email"`
	Role                string   `json:"role"`
	AssignedDepartments []string `json:"assigned_departments"`
	jwt.RegisteredClaims
}

// TechnicianClaims is the claim set carried by technician tokens.
type TechnicianClaims struct {
	UserID         int64  `json:"userId"`
	Username       string `json:"username"`
	Name           string `json:"name"`
	Identification string `json:"identification"`
	jwt.RegisteredClaims
}

// IssueStaffToken signs a token asserting the staff identity.
func (tm *TokenManager) IssueStaffToken(user *domain.User) (string, time.Time, error) {
	departments := user.AssignedDepartments
	if departments == nil {
		departments = []string{}
	}

	now := time.Now()
	expiresAt := now.Add(tm.ttl)
	claims := &StaffClaims{
		UserID:              user.ID,
		Email:               user.Email,
		Role:                user.Role,
		AssignedDepartments: departments,
		RegisteredClaims:    registeredClaims(user.ID, now, expiresAt),
	}
	token, err := tm.sign(claims)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// IssueTechnicianToken signs a token asserting the technician identity.
func (tm *TokenManager) IssueTechnicianToken(tech *domain.Technician) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(tm.ttl)
	claims := &TechnicianClaims{
		UserID:           tech.ID,
		Username:         tech.Username,
		Name:             tech.FullName,
		Identification:   tech.IdentificationNumber,
		RegisteredClaims: registeredClaims(tech.ID, now, expiresAt),
	}
	token, err := tm.sign(claims)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// ParseStaffToken validates a staff token and returns its claims.
func (tm *TokenManager) ParseStaffToken(tokenStr string) (*StaffClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &StaffClaims{}, tm.keyFunc)
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*StaffClaims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// ParseTechnicianToken validates a technician token and returns its claims.
func (tm *TokenManager) ParseTechnicianToken(tokenStr string) (*TechnicianClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &TechnicianClaims{}, tm.keyFunc)
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*TechnicianClaims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// registeredClaims derives issued-at and expiry from the same clock reading
// so exp-iat always equals the configured ttl.
func registeredClaims(subjectID int64, issuedAt, expiresAt time.Time) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(subjectID, 10),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(issuedAt),
	}
}

func (tm *TokenManager) sign(claims jwt.Claims) (string, error) {
	if len(tm.secret) == 0 {
		return "", ErrSecretNotConfigured
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tm.secret)
}

func (tm *TokenManager) keyFunc(token *jwt.Token) (interface{}, error) {
	if token.Method != jwt.SigningMethodHS256 {
		return nil, errors.New("unexpected signing method")
	}
	if len(tm.secret) == 0 {
		return nil, ErrSecretNotConfigured
	}
	return tm.secret, nil
}
