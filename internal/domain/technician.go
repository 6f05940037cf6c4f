package domain

import "time"

// Technician models a field technician account. Unlike staff, the stored
// password is plaintext and compared by direct equality; the scheme is kept
// as-is for compatibility with existing rows.
type Technician struct {
	ID                   int64
	Username             string
	Password             string
	FullName             string
	IdentificationNumber string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
