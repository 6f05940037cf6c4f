package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Jow12560/bizlens-backend/internal/api/dto"
	"github.com/Jow12560/bizlens-backend/internal/domain"
	"github.com/Jow12560/bizlens-backend/internal/service"
	"github.com/Jow12560/bizlens-backend/pkg/util"
)

const maxAvatarSize = 10 << 20 // 10MB

// UsersHandler exposes staff account CRUD for the back-office frontend.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{users: userService}
}

// List handles GET /user.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	users, err := h.users.List(c.Context())
	if err != nil {
		return err
	}
	if len(users) == 0 {
		return util.NewNotFound("No user records found")
	}

	records := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		records = append(records, userResponse(&users[i]))
	}
	return c.JSON(fiber.Map{"records": records})
}

// Create handles POST /user.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	var req dto.UserCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewBadRequest("invalid payload")
	}
	if fields := dto.Validate(req); fields != nil {
		return util.NewValidationFailed(fields)
	}

	user, err := h.users.Create(c.Context(), service.CreateUserParams{
		FullName:            req.FullName,
		Email:               req.Email,
		Password:            req.Password,
		Role:                req.Role,
		AssignedDepartments: req.AssignedDepartments,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message":   "User created successfully",
		"newRecord": userResponse(user),
	})
}

// Update handles PATCH /user/:id.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req dto.UserUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewBadRequest("invalid payload")
	}
	if fields := dto.Validate(req); fields != nil {
		return util.NewValidationFailed(fields)
	}

	user, err := h.users.Update(c.Context(), id, service.UpdateUserParams{
		FullName:            req.FullName,
		Email:               req.Email,
		Password:            req.Password,
		Role:                req.Role,
		AssignedDepartments: req.AssignedDepartments,
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message":       "User updated successfully",
		"updatedRecord": userResponse(user),
	})
}

// Delete handles DELETE /user/:id.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	user, err := h.users.Delete(c.Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message":       "User deleted successfully",
		"deletedRecord": userResponse(user),
	})
}

// UploadAvatar handles POST /user/:id/avatar (multipart field "file").
func (h *UsersHandler) UploadAvatar(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return util.NewBadRequest("file is required")
	}
	if fileHeader.Size > maxAvatarSize {
		return util.NewBadRequest("file exceeds the 10MB limit")
	}
	if !isImageFilename(fileHeader.Filename) {
		return util.NewBadRequest("only image files are allowed")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return util.NewInternalError(err)
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key, err := h.users.UploadAvatar(c.Context(), id, fileHeader.Filename, contentType, file, fileHeader.Size)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message":    "Image uploaded successfully",
		"avatarPath": key,
	})
}

func parseID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return 0, util.NewBadRequest("invalid id")
	}
	return id, nil
}

func isImageFilename(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range []string{".jpg", ".jpeg", ".png", ".gif"} {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

func userResponse(user *domain.User) dto.UserResponse {
	departments := user.AssignedDepartments
	if departments == nil {
		departments = []string{}
	}
	return dto.UserResponse{
		ID:                  user.ID,
		FullName:            user.FullName,
		Email:               user.Email,
		Role:                user.Role,
		AssignedDepartments: departments,
		AvatarPath:          user.AvatarPath,
		CreatedAt:           user.CreatedAt,
		UpdatedAt:           user.UpdatedAt,
	}
}
