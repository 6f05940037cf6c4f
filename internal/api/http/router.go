package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Jow12560/bizlens-backend/internal/api/http/handlers"
	"github.com/Jow12560/bizlens-backend/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	AuthMiddleware *auth.Middleware
	APIKey         string
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	login := app.Group("/login")
	login.Post("/", cfg.Auth.LoginStaff)
	login.Post("/tech", cfg.Auth.LoginTechnician)

	user := app.Group("/user", auth.RequireAPIKey(cfg.APIKey), cfg.AuthMiddleware.Handle)
	user.Get("/", cfg.Users.List)
	user.Post("/", cfg.Users.Create)
	user.Patch("/:id", cfg.Users.Update)
	user.Delete("/:id", cfg.Users.Delete)
	user.Post("/:id/avatar", cfg.Users.UploadAvatar)
}
