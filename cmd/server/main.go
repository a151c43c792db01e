package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/complytrack/compliance-tracker-api/internal/access"
	"github.com/complytrack/compliance-tracker-api/internal/auth"
	"github.com/complytrack/compliance-tracker-api/internal/config"
	"github.com/complytrack/compliance-tracker-api/internal/database"
	"github.com/complytrack/compliance-tracker-api/internal/handlers"
	"github.com/complytrack/compliance-tracker-api/internal/logger"
	"github.com/complytrack/compliance-tracker-api/internal/middleware"
	"github.com/complytrack/compliance-tracker-api/internal/observability/metrics"
	"github.com/complytrack/compliance-tracker-api/internal/observability/tracing"
	"github.com/complytrack/compliance-tracker-api/internal/repository"
	"github.com/complytrack/compliance-tracker-api/internal/services"
	"github.com/complytrack/compliance-tracker-api/internal/storage"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	shutdownTracing, err := tracing.Init(context.Background(), log, "compliance-tracker-api", cfg.GinMode)
	if err != nil {
		log.Error("failed to initialize tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Warn("tracing shutdown failed", slog.String("error", err.Error()))
		}
	}()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	db, err := database.Connect(cfg, log)
	if err != nil {
		log.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Run migrations
	if err := database.Migrate(db, log); err != nil {
		log.Error("failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := database.Seed(db, database.SeedOptions{
		AdminEmail:    cfg.SeedAdminEmail,
		AdminPassword: cfg.SeedAdminPassword,
		DemoData:      cfg.SeedDemoData,
	}, log); err != nil {
		log.Error("failed to seed database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Token revocation lives in Redis when configured, otherwise in process
	var revoker auth.Revoker
	if cfg.RedisURL != "" {
		redisRevoker, err := auth.NewRedisRevoker(cfg.RedisURL)
		if err != nil {
			log.Error("failed to connect to Redis", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer redisRevoker.Close()
		revoker = redisRevoker
	} else {
		log.Warn("REDIS_URL not set: token revocation is kept in memory")
		revoker = auth.NewMemoryRevoker()
	}

	store, err := storage.NewLocalStore(cfg.UploadsDir)
	if err != nil {
		log.Error("failed to prepare uploads directory", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	grantRepo := repository.NewGrantRepository(db)
	companyRepo := repository.NewCompanyRepository(db)
	functionRepo := repository.NewFunctionRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	fileRepo := repository.NewTaskFileRepository(db)

	// Services
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTExpiry)
	authService := services.NewAuthService(userRepo, grantRepo, tokens, revoker, log)
	taskService := services.NewTaskService(taskRepo, companyRepo, functionRepo, userRepo, store, log)
	fileService := services.NewFileService(taskService, fileRepo, store, log)

	routes := handlers.Routes{
		Auth:              handlers.NewAuthHandler(authService, log),
		Companies:         handlers.NewCompanyHandler(services.NewCompanyService(companyRepo), log),
		Functions:         handlers.NewFunctionHandler(services.NewFunctionService(functionRepo), log),
		Tasks:             handlers.NewTaskHandler(taskService, log),
		Files:             handlers.NewFileHandler(fileService, cfg.MaxUploadBytes, cfg.FilesPublicRead, log),
		Dashboard:         handlers.NewDashboardHandler(services.NewDashboardService(taskRepo), log),
		Users:             handlers.NewUserHandler(services.NewUserService(userRepo, grantRepo, companyRepo, functionRepo), log),
		RequireAuth:       middleware.RequireAuth(authService, access.NewLoader(userRepo, grantRepo), log),
		UsersRequireAdmin: cfg.UsersRequireAdmin,
	}

	// Initialize Gin router
	r := gin.New()
	r.MaxMultipartMemory = cfg.MaxUploadBytes
	r.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(log),
		metrics.GinMiddleware(),
		cors.New(cors.Config{
			AllowOrigins:     cfg.CORSAllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
			ExposeHeaders:    []string{"Content-Disposition", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
	)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "message": "database unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Compliance Tracker API is running",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	routes.Register(r)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           otelhttp.NewHandler(r, "compliance-tracker-api"),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Info("server starting",
		slog.Int("port", cfg.ServerPort),
		slog.String("db_driver", cfg.DBDriver),
		slog.Bool("files_public_read", cfg.FilesPublicRead),
	)

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	<-sigChan
	log.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", slog.String("error", err.Error()))
	}
	log.Info("server stopped")
}
