package http

import (
	"github.com/gin-gonic/gin"
	"github.com/macrolens/datahunter/config"
	"go.uber.org/zap"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, logger *zap.Logger) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware(logger))
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// Only the search routes are rate limited
	limited := RateLimitMiddleware(cfg.RateLimit.PerIP)

	// Unversioned route
	router.GET("/api/search", limited, handler.Search)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.GET("/search", limited, handler.SearchV1)
		v1.GET("/markets", handler.Markets)
	}

	return router
}
