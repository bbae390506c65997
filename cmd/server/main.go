package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/filevault/backend/internal/config"
	"github.com/filevault/backend/internal/database"
	"github.com/filevault/backend/internal/handlers"
	"github.com/filevault/backend/internal/metrics"
	"github.com/filevault/backend/internal/middleware"
	"github.com/filevault/backend/internal/repository"
	"github.com/filevault/backend/internal/services"
	"github.com/filevault/backend/internal/storage"
	"github.com/filevault/backend/pkg/logger"
	"github.com/filevault/backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("failed loading .env: %v", err)
	}

	cfg := config.Load()
	if err := logger.Configure(cfg.Log.Level, cfg.Log.Encoding); err != nil {
		log.Fatalf("logger initialization failed: %v", err)
	}
	defer logger.Sync()

	db, err := database.Connect(cfg.DB)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	if cfg.SeedDemoUser {
		if err := database.SeedDemoUser(db); err != nil {
			log.Fatalf("failed seeding demo user: %v", err)
		}
	}

	ctx := context.Background()
	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("object storage initialization failed: %v", err)
	}
	if err := store.EnsureBucket(ctx); err != nil {
		log.Fatalf("failed ensuring storage bucket: %v", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	tokens := utils.NewTokenManager(cfg.JWT.Secret, cfg.JWT.TTL())

	userRepo := repository.NewUserRepository(db)
	folderRepo := repository.NewFolderRepository(db)
	fileRepo := repository.NewFileRepository(db)

	authService := services.NewAuthService(userRepo, tokens, m)
	userService := services.NewUserService(userRepo, tokens, m)
	folderService := services.NewFolderService(folderRepo, store, m)
	fileService := services.NewFileService(fileRepo, folderRepo, store, m, cfg.Storage.PresignTTL)

	authMiddleware := middleware.NewAuthMiddleware(authService)

	app := fiber.New(fiber.Config{BodyLimit: cfg.Upload.MaxBytes})
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(middleware.CORS(cfg.Server.CORSOrigins))
	app.Use(middleware.Metrics(m))
	app.Use(middleware.RequestLogger())
	app.Use(middleware.SecurityLogger())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	handlers.RegisterRoutes(app, &handlers.Handlers{
		Auth:    handlers.NewAuthHandler(authService),
		Users:   handlers.NewUsersHandler(userService),
		Folders: handlers.NewFoldersHandler(folderService),
		Files:   handlers.NewFilesHandler(fileService),
	}, authMiddleware.RequireAuth)

	listenAddr := fmt.Sprintf(":%s", cfg.Server.Port)

	logger.Info("server_starting", map[string]interface{}{
		"port":           cfg.Server.Port,
		"address":        listenAddr,
		"body_limit":     cfg.Upload.MaxBytes,
		"db_driver":      cfg.DB.Driver,
		"storage_driver": cfg.Storage.Driver,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(listenAddr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("server_shutdown", map[string]interface{}{"signal": sig.String()})
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Error("server_shutdown_failed", err, nil)
		}
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	case err := <-errCh:
		if err != nil {
			log.Fatalf("server error: %v", err)
		}
	}
}
