package main

import (
	"context"
	"fmt"
	"os"

	"github.com/yarnscape/yarnscape-backend/internal/clients/gcp"
	redisclient "github.com/yarnscape/yarnscape-backend/internal/clients/redis"
	"github.com/yarnscape/yarnscape-backend/internal/db"
	"github.com/yarnscape/yarnscape-backend/internal/handlers"
	"github.com/yarnscape/yarnscape-backend/internal/logger"
	"github.com/yarnscape/yarnscape-backend/internal/repos"
	"github.com/yarnscape/yarnscape-backend/internal/server"
	"github.com/yarnscape/yarnscape-backend/internal/services"
	"github.com/yarnscape/yarnscape-backend/internal/sse"
	"github.com/yarnscape/yarnscape-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "", log)
	if jwtSecretKey == "" {
		log.Fatal("JWT_SECRET_KEY is required")
	}
	accessTTLMinutes := utils.GetEnvAsInt("ACCESS_TOKEN_TTL_MINUTES", 60, log)
	refreshTTLHours := utils.GetEnvAsInt("REFRESH_TOKEN_TTL_HOURS", 24*7, log)
	port := utils.GetEnv("PORT", "8080", log)

	// Database
	dbService, err := db.NewDatabaseService(log)
	if err != nil {
		log.Fatal("Database init failed", "error", err)
	}
	if err := dbService.AutoMigrateAll(); err != nil {
		log.Fatal("Database auto migration failed", "error", err)
	}
	gdb := dbService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(gdb, log)
	userTokenRepo := repos.NewUserTokenRepo(gdb, log)
	patternRepo := repos.NewPatternRepo(gdb, log)
	publishedRepo := repos.NewPublishedPatternRepo(gdb, log)
	savedRepo := repos.NewSavedPatternRepo(gdb, log)
	trackingRepo := repos.NewTrackingProjectRepo(gdb, log)
	badgeRepo := repos.NewUserBadgeRepo(gdb, log)

	// SSE
	log.Info("Setting up SSE hub now...")
	sseHub := sse.NewHub(log)

	var bus redisclient.EventBus
	if os.Getenv("REDIS_ADDR") != "" {
		bus, err = redisclient.NewEventBus(log)
		if err != nil {
			log.Fatal("Redis init failed", "error", err)
		}
		defer bus.Close()
		if err := bus.StartForwarder(context.Background(), sseHub.Broadcast); err != nil {
			log.Fatal("Redis forwarder failed to start", "error", err)
		}
	}

	// Services
	log.Info("Setting up Services from main...")
	notifier := services.NewNotifier(log, sseHub, bus)
	authService := services.NewAuthService(gdb, log, userRepo, userTokenRepo, jwtSecretKey, accessTTLMinutes, refreshTTLHours)
	userService := services.NewUserService(gdb, log, userRepo)
	badgeService := services.NewBadgeService(gdb, log, badgeRepo, notifier)
	patternService := services.NewPatternService(gdb, log, patternRepo, publishedRepo, savedRepo, badgeService, notifier)
	trackingService := services.NewTrackingService(gdb, log, trackingRepo, publishedRepo, badgeService, notifier)
	libraryService := services.NewLibraryService(log, publishedRepo, savedRepo)

	bucketService, err := gcp.NewBucketService(log)
	if err != nil {
		log.Fatal("Bucket init failed", "error", err)
	}
	mediaService := services.NewMediaService(log, bucketService)

	// Handlers
	log.Info("Setting up Handlers from main...")
	router := server.NewRouter(server.RouterConfig{
		AuthService:        authService,
		HealthcheckHandler: handlers.NewHealthcheckHandler(),
		AuthHandler:        handlers.NewAuthHandler(authService),
		UserHandler:        handlers.NewUserHandler(userService),
		PatternHandler:     handlers.NewPatternHandler(patternService),
		TrackingHandler:    handlers.NewTrackingHandler(trackingService),
		BadgeHandler:       handlers.NewBadgeHandler(badgeService),
		LibraryHandler:     handlers.NewLibraryHandler(libraryService),
		UploadHandler:      handlers.NewUploadHandler(mediaService),
		SSEHandler:         handlers.NewSSEHandler(sseHub),
	})

	log.Info("Starting server", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Server exited", "error", err)
	}
}
