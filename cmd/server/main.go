package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dukkan-shop/dukkan-backend/config"
	"github.com/dukkan-shop/dukkan-backend/internal/app/controller"
	"github.com/dukkan-shop/dukkan-backend/internal/app/repository"
	"github.com/dukkan-shop/dukkan-backend/internal/app/service"
	"github.com/dukkan-shop/dukkan-backend/internal/db"
	"github.com/dukkan-shop/dukkan-backend/internal/form"
	"github.com/dukkan-shop/dukkan-backend/internal/middleware"
	"github.com/dukkan-shop/dukkan-backend/internal/router"
	"github.com/dukkan-shop/dukkan-backend/internal/scheduler"
	"github.com/dukkan-shop/dukkan-backend/internal/storage"
	"github.com/dukkan-shop/dukkan-backend/internal/websocket"
	"github.com/dukkan-shop/dukkan-backend/pkg/logger"
	"github.com/dukkan-shop/dukkan-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting DUKKAN Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Seed database (optional)
	if err := db.Seed(); err != nil {
		logger.Warn("Failed to seed database", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Redis is optional; schema resolution falls back to the database
	// when the cache is down.
	if cfg.Redis.Enabled {
		if err := redis.Init(&cfg.Redis); err != nil {
			logger.Warn("Redis unavailable, schema caching disabled", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			defer redis.Close()
		}
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	categoryRepo := repository.NewCategoryRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())
	brandRepo := repository.NewBrandRepository(db.GetDB())
	alertRepo := repository.NewStockAlertRepository(db.GetDB())

	// WebSocket hub for dashboard notifications
	hub := websocket.NewHub()
	go hub.Run()

	// Initialize services
	authService := service.NewAuthService(
		userRepo,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	categoryService := service.NewCategoryService(categoryRepo)
	productService := service.NewProductService(productRepo, categoryRepo)
	brandService := service.NewBrandService(brandRepo)
	dashboardService := service.NewDashboardService(productRepo, alertRepo)
	inventoryService := service.NewInventoryService(productRepo, alertRepo, hub)

	// Object storage and the product form engine
	s3Storage := storage.NewS3Storage(&cfg.S3)
	newMedia := func() *form.MediaManager {
		return form.NewMediaManager(cfg.Upload.StagingDir, cfg.Upload.MaxFileSize)
	}
	sessionStore := form.NewSessionStore(cfg.Upload.SessionTTL, categoryService.SchemaSource(), newMedia)
	defer sessionStore.Stop()

	// Initialize controllers
	authController := controller.NewAuthController(authService)
	categoryController := controller.NewCategoryController(categoryService)
	productController := controller.NewProductController(productService)
	brandController := controller.NewBrandController(brandService, s3Storage)
	uploadController := controller.NewUploadController(s3Storage, newMedia)
	formController := controller.NewFormController(sessionStore, productService, s3Storage)
	dashboardController := controller.NewDashboardController(dashboardService, inventoryService)
	notificationController := controller.NewNotificationController(hub)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Low-stock scan scheduler
	inventoryScheduler := scheduler.NewInventoryScheduler(inventoryService)
	if err := inventoryScheduler.Start(); err != nil {
		logger.Error("Failed to start inventory scheduler", err)
	}
	defer inventoryScheduler.Stop()

	// Setup router
	r := router.NewRouter(
		authController,
		categoryController,
		productController,
		brandController,
		uploadController,
		formController,
		dashboardController,
		notificationController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
