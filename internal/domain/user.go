package domain

import "time"

// User models a back-office staff account. The stored password is expected to
// be a bcrypt hash; rows carrying anything else are unverifiable at login.
type User struct {
	ID                  int64
	FullName            string
	Email               string
	PasswordHash        string
	Role                string
	AssignedDepartments []string
	AvatarPath          *string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
