package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/Jow12560/bizlens-backend/internal/api/http"
	"github.com/Jow12560/bizlens-backend/internal/api/http/handlers"
	"github.com/Jow12560/bizlens-backend/internal/auth"
	"github.com/Jow12560/bizlens-backend/internal/config"
	"github.com/Jow12560/bizlens-backend/internal/events"
	"github.com/Jow12560/bizlens-backend/internal/observability"
	"github.com/Jow12560/bizlens-backend/internal/persistence"
	"github.com/Jow12560/bizlens-backend/internal/repository"
	"github.com/Jow12560/bizlens-backend/internal/service"
	"github.com/Jow12560/bizlens-backend/internal/storage"
	"github.com/Jow12560/bizlens-backend/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	if cfg.Auth.JWTSecret == "" {
		logger.Warn("JWT_SECRET not set; logins will fail with an internal error until configured")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	store, err := storage.NewMinioStore(cfg.Storage, logger)
	if err != nil {
		logger.Fatal("failed to init object storage", zap.Error(err))
	}
	if store != nil {
		if err := store.EnsureBucket(ctx); err != nil {
			logger.Warn("failed to ensure storage bucket", zap.Error(err))
		}
	}

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	technicianRepo := repository.NewTechnicianRepository(pool)

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	attempts := service.NewAttemptRecorder(redis.Client, logger)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:       userRepo,
		TechnicianRepo: technicianRepo,
		Attempts:       attempts,
		Dispatcher:     dispatcher,
		Metrics:        metrics,
		Logger:         logger,
	})

	var objectStore storage.ObjectStore
	if store != nil {
		objectStore = store
	}
	userService := service.NewUserService(*cfg, service.UserDependencies{
		UserRepo:   userRepo,
		Store:      objectStore,
		Dispatcher: dispatcher,
		Logger:     logger,
	})

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewMiddleware(authService.TokenManager(), userRepo)

	app := fiber.New(fiber.Config{
		AppName:   cfg.App.Name,
		BodyLimit: 50 << 20,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, objectStore),
		Auth:           handlers.NewAuthHandler(authService),
		Users:          handlers.NewUsersHandler(userService),
		AuthMiddleware: authMiddleware,
		APIKey:         cfg.App.APIKey,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
