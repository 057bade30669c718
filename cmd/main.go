package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"

	"basetrack/internal/caching"
	"basetrack/internal/handlers"
	"basetrack/internal/jobs/background"
	"basetrack/internal/middleware"
	"basetrack/internal/models"
	"basetrack/internal/repositories"
	"basetrack/internal/services"
	"basetrack/pkg/database"
)

const version = "1.0.0"

func main() {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := database.NewPool(context.Background(), databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = random.String(32)
		log.Printf("WARNING: JWT_SECRET not set, using a generated secret; sessions will not survive restarts")
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if redisDBStr := os.Getenv("REDIS_DB"); redisDBStr != "" {
		if db, err := strconv.Atoi(redisDBStr); err == nil {
			redisDB = db
		}
	}

	minioEndpoint := os.Getenv("MINIO_ENDPOINT")
	if minioEndpoint == "" {
		minioEndpoint = "localhost:9000"
	}
	minioAccessKey := os.Getenv("MINIO_ACCESS_KEY")
	if minioAccessKey == "" {
		minioAccessKey = "minioadmin"
	}
	minioSecretKey := os.Getenv("MINIO_SECRET_KEY")
	if minioSecretKey == "" {
		minioSecretKey = "minioadmin"
	}
	useSSL := os.Getenv("MINIO_USE_SSL") == "true"

	minioSvc, err := services.NewMinioService(minioEndpoint, minioAccessKey, minioSecretKey, useSSL)
	if err != nil {
		log.Fatalf("Failed to initialize MinIO service: %v", err)
	}

	// Repositories
	userRepo := repositories.NewUserRepository(pool)
	itemRepo := repositories.NewItemRepository(pool)
	requestRepo := repositories.NewRequestRepository(pool)
	auditRepo := repositories.NewAuditRepository(pool)

	// Services
	cacheSvc := caching.NewRedisCacheService(redisAddr, redisPassword, redisDB)
	auditSvc := services.NewAuditService(auditRepo)
	accessSvc := services.NewAccessService()
	authSvc := services.NewAuthService(userRepo, cacheSvc, jwtSecret, 1*time.Hour, 7*24*time.Hour)
	statsSvc := services.NewStatsService(itemRepo, cacheSvc)
	requestSvc := services.NewRequestService(requestRepo, itemRepo, auditSvc, cacheSvc)
	inventorySvc := services.NewInventoryService(itemRepo, accessSvc, auditSvc, cacheSvc, minioSvc)
	formSvc := services.NewFormService()

	// Handlers
	authHandlers := handlers.NewAuthHandlers(authSvc)
	userHandlers := handlers.NewUserHandlers(userRepo, authSvc)
	inventoryHandlers := handlers.NewInventoryHandlers(inventorySvc, requestSvc)
	requestHandlers := handlers.NewRequestHandlers(requestSvc, accessSvc, formSvc, userRepo, minioSvc)
	statsHandlers := handlers.NewStatsHandlers(statsSvc)

	// Background jobs
	scheduler, err := background.NewJobScheduler(statsSvc)
	if err != nil {
		log.Fatalf("Failed to create job scheduler: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	e := echo.New()

	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	e.GET("/health", handlers.HealthCheck)
	e.GET("/health/ready", handlers.ReadinessCheck(pool))

	v1 := e.Group("/v1")

	auth := v1.Group("/auth")
	auth.POST("/login", authHandlers.Login)
	auth.POST("/refresh", authHandlers.Refresh)
	auth.POST("/logout", authHandlers.Logout)

	protected := v1.Group("")
	protected.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(jwtSecret),
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(401, "Invalid token")
		},
	}))
	protected.Use(middleware.LoadUser(userRepo))

	protected.GET("/me", authHandlers.Me)

	// User administration
	adminOnly := middleware.RequireRole(models.RoleAdmin)
	protected.GET("/users", userHandlers.ListUsers, adminOnly)
	protected.POST("/users", userHandlers.CreateUser, adminOnly)

	// Inventory
	protected.GET("/items", inventoryHandlers.ListItems)
	protected.GET("/items/:id", inventoryHandlers.GetItem)
	protected.POST("/items", inventoryHandlers.CreateItem, middleware.RequireRole(models.RoleAdmin, models.RoleStorekeeper))
	protected.PUT("/items/:id", inventoryHandlers.UpdateItem)
	protected.POST("/items/import", inventoryHandlers.ImportSheet, middleware.RequireRole(models.RoleAdmin, models.RoleStorekeeper))
	protected.GET("/items/export", inventoryHandlers.ExportSheet)
	protected.DELETE("/items", inventoryHandlers.ClearInventory, adminOnly)

	// Movement requests
	protected.POST("/requests", requestHandlers.CreateRequest)
	protected.GET("/requests", requestHandlers.ListRequests)
	protected.GET("/requests/pending", requestHandlers.PendingRequests, middleware.RequireRole(models.RoleStorekeeper, models.RoleBaseManager))
	protected.POST("/requests/:id/process", requestHandlers.ProcessRequest, middleware.RequireRole(models.RoleStorekeeper, models.RoleBaseManager))
	protected.GET("/requests/:id/form", requestHandlers.DownloadForm)

	// Dashboard
	protected.GET("/stats", statsHandlers.Dashboard)

	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		log.Fatalf("Invalid port %s: %v", portStr, err)
	}

	log.Printf("Basetrack server v%s starting on port %d", version, port)
	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", port)))
}
