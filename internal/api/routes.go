package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Joshthejuggler/Conversion-Lead-Tracker/internal/middleware"
)

// SetupRoutes configures all API routes.
// Health routes are registered by the server builder.
func SetupRoutes(
	router *gin.Engine,
	handlers Handlers,
	maxEventsPerMin int,
	rateLimitWindow time.Duration,
	done <-chan struct{},
) {
	// Public tracking endpoints, rate limited per visitor.
	track := router.Group("/track")
	track.Use(middleware.RateLimiter(maxEventsPerMin, rateLimitWindow, done))
	track.GET("/bootstrap", handlers.Bootstrap.HandleBootstrap)
	track.POST("/record", handlers.Record.HandleRecord)

	// Reporting API.
	v1 := router.Group("/api/v1")
	v1.GET("/stats", handlers.Stats.HandleStats)
	v1.GET("/events", handlers.Events.HandleEvents)
	v1.POST("/reports/digest/test", handlers.Reports.HandleTestDigest)
	v1.POST("/reports/notification/test", handlers.Reports.HandleTestNotification)
}
