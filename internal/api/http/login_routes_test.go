package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/Jow12560/bizlens-backend/internal/api/http/handlers"
	"github.com/Jow12560/bizlens-backend/internal/auth"
	"github.com/Jow12560/bizlens-backend/internal/config"
	"github.com/Jow12560/bizlens-backend/internal/domain"
	"github.com/Jow12560/bizlens-backend/internal/observability"
	"github.com/Jow12560/bizlens-backend/internal/repository"
	"github.com/Jow12560/bizlens-backend/internal/service"
	"go.uber.org/zap"
)

const testSecret = "this-is-a-test-secret-with-32-bytes!"

type stubUserRepository struct {
	findByEmailFunc func(ctx context.Context, email string) ([]domain.User, error)
}

func (s *stubUserRepository) FindByEmail(ctx context.Context, email string) ([]domain.User, error) {
	if s.findByEmailFunc != nil {
		return s.findByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (s *stubUserRepository) FindByEmailFold(ctx context.Context, email string) ([]domain.User, error) {
	return nil, nil
}

func (s *stubUserRepository) FindByEmailPrefix(ctx context.Context, email string) ([]domain.User, error) {
	return nil, nil
}

func (s *stubUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return nil, errors.New("not implemented")
}

func (s *stubUserRepository) List(ctx context.Context) ([]domain.User, error) {
	return nil, errors.New("not implemented")
}

func (s *stubUserRepository) Create(ctx context.Context, user *domain.User) error {
	return errors.New("not implemented")
}

func (s *stubUserRepository) Update(ctx context.Context, id int64, patch repository.UserPatch) (*domain.User, error) {
	return nil, errors.New("not implemented")
}

func (s *stubUserRepository) Delete(ctx context.Context, id int64) (*domain.User, error) {
	return nil, errors.New("not implemented")
}

type stubTechnicianRepository struct {
	findByUsernameFunc func(ctx context.Context, username string) ([]domain.Technician, error)
}

func (s *stubTechnicianRepository) FindByUsername(ctx context.Context, username string) ([]domain.Technician, error) {
	if s.findByUsernameFunc != nil {
		return s.findByUsernameFunc(ctx, username)
	}
	return nil, nil
}

func (s *stubTechnicianRepository) GetByID(ctx context.Context, id int64) (*domain.Technician, error) {
	return nil, errors.New("not implemented")
}

func setupTestApp(t *testing.T, userRepo *stubUserRepository, techRepo *stubTechnicianRepository) *fiber.App {
	t.Helper()

	cfg := &config.Config{
		App:  config.AppConfig{Name: "test"},
		Auth: config.AuthConfig{JWTSecret: testSecret, TokenTTLMinutes: 60, BcryptCost: bcrypt.MinCost},
		Cors: config.CorsConfig{AllowOrigins: "http://localhost:5173"},
	}

	logger := zap.NewNop()
	metrics := observability.NewMetrics()

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:       userRepo,
		TechnicianRepo: techRepo,
		Metrics:        metrics,
		Logger:         logger,
	})
	userService := service.NewUserService(*cfg, service.UserDependencies{
		UserRepo: userRepo,
		Logger:   logger,
	})

	app := fiber.New()
	RegisterMiddlewares(app, logger, metrics, cfg)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("test", "dev", nil, nil, nil),
		Auth:           handlers.NewAuthHandler(authService),
		Users:          handlers.NewUsersHandler(userService),
		AuthMiddleware: auth.NewMiddleware(authService.TokenManager(), userRepo),
	})
	return app
}

func postJSON(t *testing.T, app *fiber.App, path, body string) (*http.Response, map[string]any) {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, path, strings.NewReader(body))
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("response is not JSON: %v (%s)", err, raw)
	}
	return resp, decoded
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash: %v", err)
	}
	return string(hash)
}

func TestPostLogin_Success(t *testing.T) {
	userRepo := &stubUserRepository{
		findByEmailFunc: func(ctx context.Context, email string) ([]domain.User, error) {
			return []domain.User{{ID: 1, Email: "a@b.com", PasswordHash: hashOf(t, "secret1"), Role: "admin"}}, nil
		},
	}
	app := setupTestApp(t, userRepo, &stubTechnicianRepository{})

	resp, body := postJSON(t, app, "/login", `{"email":"a@b.com","password":"secret1"}`)
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if body["message"] != "Login successful" {
		t.Errorf("message = %v, want Login successful", body["message"])
	}
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatal("token missing from response")
	}
	if parts := strings.Split(token, "."); len(parts) != 3 {
		t.Errorf("token is not header.payload.signature shaped: %q", token)
	}
}

func TestPostLogin_ValidationErrors(t *testing.T) {
	app := setupTestApp(t, &stubUserRepository{}, &stubTechnicianRepository{})

	resp, body := postJSON(t, app, "/login", `{"email":"not-an-email"}`)
	if resp.StatusCode != 400 {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	errorsList, ok := body["errors"].([]any)
	if !ok || len(errorsList) != 2 {
		t.Fatalf("errors = %v, want two field errors", body["errors"])
	}
	first, _ := errorsList[0].(map[string]any)
	if first["field"] != "email" || first["message"] == "" {
		t.Errorf("first error = %v, want {field: email, message: ...}", first)
	}
}

func TestPostLogin_InvalidCredentialsShape(t *testing.T) {
	userRepo := &stubUserRepository{
		findByEmailFunc: func(ctx context.Context, email string) ([]domain.User, error) {
			return nil, nil
		},
	}
	app := setupTestApp(t, userRepo, &stubTechnicianRepository{})

	resp, body := postJSON(t, app, "/login", `{"email":"nobody@b.com","password":"whatever"}`)
	if resp.StatusCode != 400 {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if body["message"] != "Invalid email or password" {
		t.Errorf("message = %v, want Invalid email or password", body["message"])
	}
	if _, hasToken := body["token"]; hasToken {
		t.Error("failed login must not include a token")
	}
}

func TestPostLogin_StoreErrorIs500(t *testing.T) {
	userRepo := &stubUserRepository{
		findByEmailFunc: func(ctx context.Context, email string) ([]domain.User, error) {
			return nil, errors.New("connection refused")
		},
	}
	app := setupTestApp(t, userRepo, &stubTechnicianRepository{})

	resp, body := postJSON(t, app, "/login", `{"email":"a@b.com","password":"secret1"}`)
	if resp.StatusCode != 500 {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}
	if body["message"] != "Internal server error" {
		t.Errorf("message = %v, want Internal server error", body["message"])
	}
	if _, hasToken := body["token"]; hasToken {
		t.Error("store failure must not issue a token")
	}
}

func TestPostLoginTech_Success(t *testing.T) {
	techRepo := &stubTechnicianRepository{
		findByUsernameFunc: func(ctx context.Context, username string) ([]domain.Technician, error) {
			return []domain.Technician{{ID: 7, Username: "tech01", Password: "plain-pass", FullName: "Somchai J."}}, nil
		},
	}
	app := setupTestApp(t, &stubUserRepository{}, techRepo)

	resp, body := postJSON(t, app, "/login/tech", `{"username":"tech01","password":"plain-pass"}`)
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if body["message"] != "Login successful" {
		t.Errorf("message = %v, want Login successful", body["message"])
	}
}

func TestPostLoginTech_InvalidCredentialsMessage(t *testing.T) {
	techRepo := &stubTechnicianRepository{
		findByUsernameFunc: func(ctx context.Context, username string) ([]domain.Technician, error) {
			return []domain.Technician{{ID: 7, Username: "tech01", Password: "plain-pass"}}, nil
		},
	}
	app := setupTestApp(t, &stubUserRepository{}, techRepo)

	resp, body := postJSON(t, app, "/login/tech", `{"username":"tech01","password":"wrong"}`)
	if resp.StatusCode != 400 {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if body["message"] != "Invalid username or password" {
		t.Errorf("message = %v, want Invalid username or password", body["message"])
	}
}

func TestUserRoutes_RequireAPIKeyWhenConfigured(t *testing.T) {
	userRepo := &stubUserRepository{}
	techRepo := &stubTechnicianRepository{}

	cfg := &config.Config{
		App:  config.AppConfig{Name: "test", APIKey: "sekrit"},
		Auth: config.AuthConfig{JWTSecret: testSecret, TokenTTLMinutes: 60, BcryptCost: bcrypt.MinCost},
		Cors: config.CorsConfig{AllowOrigins: "http://localhost:5173"},
	}
	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo: userRepo, TechnicianRepo: techRepo, Metrics: metrics, Logger: logger,
	})
	userService := service.NewUserService(*cfg, service.UserDependencies{UserRepo: userRepo, Logger: logger})

	app := fiber.New()
	RegisterMiddlewares(app, logger, metrics, cfg)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("test", "dev", nil, nil, nil),
		Auth:           handlers.NewAuthHandler(authService),
		Users:          handlers.NewUsersHandler(userService),
		AuthMiddleware: auth.NewMiddleware(authService.TokenManager(), userRepo),
		APIKey:         cfg.App.APIKey,
	})

	req, _ := http.NewRequest(http.MethodGet, "/user/", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if resp.StatusCode != 401 {
		t.Fatalf("status without api key = %d, want 401", resp.StatusCode)
	}
}
