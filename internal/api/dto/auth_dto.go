package dto

// StaffLoginRequest is the POST /login payload.
type StaffLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TechnicianLoginRequest is the POST /login/tech payload.
type TechnicianLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is returned on successful login.
type LoginResponse struct {
	Token   string `json:"token"`
	Message string `json:"message"`
}
