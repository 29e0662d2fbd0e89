// @title           Torisetsu Backend API
// @version         1.0.0
// @description     Backend API for managing projects, torisetsu, and manuals, with AI-powered manual generation from screen-recording videos.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

package main

import (
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"torisetsu-backend/internal/auth"
	"torisetsu-backend/internal/config"
	"torisetsu-backend/internal/database"
	"torisetsu-backend/internal/gemini"
	"torisetsu-backend/internal/handlers"
	"torisetsu-backend/internal/identity"
	"torisetsu-backend/internal/middleware"
	"torisetsu-backend/internal/realtime"
	"torisetsu-backend/internal/services"
	"torisetsu-backend/internal/storage"
	"torisetsu-backend/pkg/logging"
)

func main() {
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	dbClient, err := database.NewClient(cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to initialize database client", "error", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	migrator, err := database.NewMigrator(cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to initialize migrator", "error", err)
		os.Exit(1)
	}
	if err := migrator.Run(); err != nil {
		migrator.Close()
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}
	migrator.Close()

	geminiClient := gemini.NewClient(cfg.GeminiAPIBaseURL, cfg.GeminiAPIKey, cfg.GeminiModel)
	fileStore := storage.NewSupabaseStore(cfg.SupabaseURL, cfg.SupabasePublishableKey, cfg.SupabaseStorageBucket)

	publisher, err := realtime.NewPublisher(cfg.SupabaseURL, cfg.SupabasePublishableKey)
	if err != nil {
		slog.Error("failed to initialize realtime publisher", "error", err)
		os.Exit(1)
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, time.Duration(cfg.TokenExpireMinutes)*time.Minute)

	accessService := services.NewAccessService(dbClient)
	generationService := services.NewGenerationService(dbClient, accessService, fileStore, geminiClient, publisher)
	enhanceService := services.NewEnhanceService(dbClient, accessService, geminiClient)
	shareService := services.NewShareService(dbClient, accessService)

	authHandler := handlers.NewAuthHandler(dbClient, tokens, identity.NewGoogleProvider())
	projectsHandler := handlers.NewProjectsHandler(dbClient, accessService)
	torisetsuHandler := handlers.NewTorisetsuHandler(dbClient, accessService)
	manualsHandler := handlers.NewManualsHandler(dbClient, accessService, generationService, enhanceService, shareService, cfg.BaseURL)
	uploadHandler := handlers.NewUploadHandler(fileStore, cfg.MaxVideoBytes, cfg.MaxAudioBytes)
	networkHealthHandler := handlers.NewNetworkHealthHandler(geminiClient, net.DefaultResolver)

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())

	// Public routes
	router.GET("/health", handlers.HealthHandler)
	router.GET("/health/network", networkHealthHandler.Check)
	router.GET("/share/:token", manualsHandler.GetSharedManual)

	authGroup := router.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/google", authHandler.GoogleLogin)
	authGroup.GET("/me", middleware.AuthMiddleware(tokens), authHandler.Me)

	// Authenticated API
	api := router.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(tokens))

	api.POST("/projects", projectsHandler.CreateProject)
	api.GET("/projects", projectsHandler.ListProjects)
	api.GET("/projects/:project_id", projectsHandler.GetProject)
	api.PUT("/projects/:project_id", projectsHandler.UpdateProject)
	api.DELETE("/projects/:project_id", projectsHandler.DeleteProject)
	api.GET("/projects/:project_id/torisetsu", torisetsuHandler.ListTorisetsu)

	api.POST("/torisetsu", torisetsuHandler.CreateTorisetsu)
	api.GET("/torisetsu/:torisetsu_id", torisetsuHandler.GetTorisetsu)
	api.PUT("/torisetsu/:torisetsu_id", torisetsuHandler.UpdateTorisetsu)
	api.DELETE("/torisetsu/:torisetsu_id", torisetsuHandler.DeleteTorisetsu)
	api.GET("/torisetsu/:torisetsu_id/manuals", manualsHandler.ListManuals)

	api.POST("/manuals", manualsHandler.CreateManual)
	api.GET("/manuals/:manual_id", manualsHandler.GetManual)
	api.PUT("/manuals/:manual_id", manualsHandler.UpdateManual)
	api.DELETE("/manuals/:manual_id", manualsHandler.DeleteManual)
	api.POST("/manuals/:manual_id/generate", manualsHandler.GenerateManual)
	api.GET("/manuals/:manual_id/status", manualsHandler.GetManualStatus)
	api.POST("/manuals/:manual_id/enhance", manualsHandler.EnhanceManual)
	api.POST("/manuals/:manual_id/share", manualsHandler.CreateShareLink)
	api.DELETE("/manuals/:manual_id/share", manualsHandler.DisableShareLink)

	api.POST("/upload/video", uploadHandler.UploadVideo)
	api.POST("/upload/audio", uploadHandler.UploadAudio)

	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	slog.Info("server starting", "port", port, "model", cfg.GeminiModel)
	if err := http.ListenAndServe(":"+port, router); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
