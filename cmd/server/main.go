package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"decorize-backend/internal/config"
	"decorize-backend/internal/database"
	"decorize-backend/internal/gemini"
	"decorize-backend/internal/handlers"
	"decorize-backend/internal/middleware"
	"decorize-backend/internal/services"
	"decorize-backend/internal/supabase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required: set it to your Supabase PostgreSQL connection string")
	}

	dbClient, err := supabase.NewDatabaseClient(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize database client: %v", err)
	}
	defer dbClient.Close()

	migrator, err := database.NewMigrator(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize migrator: %v", err)
	}
	if err := migrator.Run(); err != nil {
		migrator.Close()
		log.Fatalf("Migration failed: %v", err)
	}
	migrator.Close()

	storageClient, err := supabase.NewStorageClient(cfg.SupabaseURL, cfg.SupabasePublishableKey, cfg.SupabaseStorageBucket)
	if err != nil {
		log.Fatalf("Failed to initialize storage client: %v", err)
	}

	geminiClient := gemini.NewClient(cfg.GeminiAPIBaseURL, cfg.GeminiAPIKey)

	generationService := services.NewGenerationService(dbClient, storageClient, geminiClient)
	statusNotifier := services.NewStatusNotifier(dbClient, cfg.StatusPollInterval)

	projectsHandler := handlers.NewProjectsHandler(dbClient, storageClient)
	previewsHandler := handlers.NewPreviewsHandler(dbClient, generationService)
	updatesHandler := handlers.NewUpdatesHandler(dbClient, statusNotifier)
	catalogHandler := handlers.NewCatalogHandler()

	router := gin.Default()

	// Health check (no auth)
	router.GET("/health", handlers.HealthHandler)

	api := router.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(cfg))

	// Projects
	api.POST("/projects", projectsHandler.CreateProject)
	api.GET("/projects", projectsHandler.ListProjects)
	api.GET("/projects/:project_id", projectsHandler.GetProject)
	api.DELETE("/projects/:project_id", projectsHandler.DeleteProject)

	// Generation
	api.POST("/previews", previewsHandler.GeneratePreview)
	api.POST("/projects/:project_id/previews/batch", previewsHandler.BatchGenerate)

	// Live updates
	api.GET("/projects/:project_id/updates", updatesHandler.StreamUpdates)

	// Catalog
	api.GET("/styles", catalogHandler.GetStyles)
	api.GET("/places", catalogHandler.GetPlaces)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
