package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yarnscape/yarnscape-backend/internal/handlers"
	"github.com/yarnscape/yarnscape-backend/internal/middleware"
	"github.com/yarnscape/yarnscape-backend/internal/services"
	"github.com/yarnscape/yarnscape-backend/internal/utils"
)

type RouterConfig struct {
	AuthService        services.AuthService
	HealthcheckHandler *handlers.HealthcheckHandler
	AuthHandler        *handlers.AuthHandler
	UserHandler        *handlers.UserHandler
	PatternHandler     *handlers.PatternHandler
	TrackingHandler    *handlers.TrackingHandler
	BadgeHandler       *handlers.BadgeHandler
	LibraryHandler     *handlers.LibraryHandler
	UploadHandler      *handlers.UploadHandler
	SSEHandler         *handlers.SSEHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     utils.GetEnvAsSlice("CORS_ALLOW_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/healthcheck", cfg.HealthcheckHandler.Healthcheck)
	router.POST("/register", cfg.AuthHandler.Register)
	router.POST("/login", cfg.AuthHandler.Login)
	router.POST("/refresh", cfg.AuthHandler.Refresh)

	// Protected
	protected := router.Group("/")
	protected.Use(middleware.Auth(cfg.AuthService))

	protected.POST("/logout", cfg.AuthHandler.Logout)

	api := protected.Group("/api")
	{
		// User
		api.GET("/user", cfg.UserHandler.GetMe)
		api.PUT("/user/preferences", cfg.UserHandler.UpdatePreferences)

		// Drafts
		api.POST("/patterns", cfg.PatternHandler.Create)
		api.GET("/patterns", cfg.PatternHandler.List)
		api.GET("/patterns/:id", cfg.PatternHandler.Get)
		api.PUT("/patterns/:id", cfg.PatternHandler.Update)
		api.DELETE("/patterns/:id", cfg.PatternHandler.Delete)
		api.POST("/patterns/:id/publish", cfg.PatternHandler.Publish)
		api.POST("/patterns/:id/unpublish", cfg.PatternHandler.Unpublish)

		// Library and bookmarks
		api.GET("/library", cfg.LibraryHandler.List)
		api.GET("/library/:id", cfg.LibraryHandler.Get)
		api.POST("/library/:id/save", cfg.PatternHandler.Save)
		api.DELETE("/library/:id/save", cfg.PatternHandler.Unsave)
		api.GET("/saved", cfg.PatternHandler.ListSaved)

		// Tracking
		api.POST("/tracking", cfg.TrackingHandler.Start)
		api.GET("/tracking", cfg.TrackingHandler.List)
		api.GET("/tracking/:id", cfg.TrackingHandler.Get)
		api.PUT("/tracking/:id", cfg.TrackingHandler.SaveProgress)
		api.POST("/tracking/:id/complete", cfg.TrackingHandler.Complete)

		// Badges
		api.GET("/badges", cfg.BadgeHandler.List)

		// Media
		api.POST("/uploads", cfg.UploadHandler.Upload)
	}

	// SSE
	protected.GET("/sse/stream", cfg.SSEHandler.Stream)

	return router
}
