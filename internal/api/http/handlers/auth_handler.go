package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Jow12560/bizlens-backend/internal/api/dto"
	"github.com/Jow12560/bizlens-backend/internal/service"
	"github.com/Jow12560/bizlens-backend/pkg/util"
)

// AuthHandler exposes the two login endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// LoginStaff handles POST /login.
func (h *AuthHandler) LoginStaff(c *fiber.Ctx) error {
	var req dto.StaffLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewBadRequest("invalid payload")
	}
	if fields := dto.Validate(req); fields != nil {
		return util.NewValidationFailed(fields)
	}

	result, err := h.auth.LoginStaff(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(dto.LoginResponse{Token: result.Token, Message: result.Message})
}

// LoginTechnician handles POST /login/tech.
func (h *AuthHandler) LoginTechnician(c *fiber.Ctx) error {
	var req dto.TechnicianLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewBadRequest("invalid payload")
	}
	if fields := dto.Validate(req); fields != nil {
		return util.NewValidationFailed(fields)
	}

	result, err := h.auth.LoginTechnician(c.Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(dto.LoginResponse{Token: result.Token, Message: result.Message})
}
