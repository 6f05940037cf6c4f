package dto

import "time"

// UserCreateRequest is the POST /user payload.
type UserCreateRequest struct {
	FullName            string   `json:"full_name" validate:"required"`
	Email               string   `json:"email" validate:"required,email"`
	Password            string   `json:"password" validate:"required"`
	Role                string   `json:"role" validate:"required"`
	AssignedDepartments []string `json:"assigned_departments"`
}

// UserUpdateRequest is the PATCH /user/:id payload; nil fields are untouched.
type UserUpdateRequest struct {
	FullName            *string  `json:"full_name" validate:"omitempty"`
	Email               *string  `json:"email" validate:"omitempty,email"`
	Password            *string  `json:"password" validate:"omitempty,min=1"`
	Role                *string  `json:"role" validate:"omitempty"`
	AssignedDepartments []string `json:"assigned_departments"`
}

// UserResponse is the public shape of a staff account; the stored password
// is never serialized.
type UserResponse struct {
	ID                  int64     `json:"id"`
	FullName            string    `json:"full_name"`
	Email               string    `json:"email"`
	Role                string    `json:"role"`
	AssignedDepartments []string  `json:"assigned_departments"`
	AvatarPath          *string   `json:"avatar_path,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}
