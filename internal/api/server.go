// Package api assembles the HTTP server for the collector and reporting
// endpoints.
package api

import (
	"database/sql"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Joshthejuggler/Conversion-Lead-Tracker/internal/config"
	"github.com/Joshthejuggler/Conversion-Lead-Tracker/internal/handler"
	infragin "github.com/Joshthejuggler/Conversion-Lead-Tracker/internal/infra/gin"
	"github.com/Joshthejuggler/Conversion-Lead-Tracker/internal/infra/logger"
)

const (
	defaultReadTimeout  = 10 * time.Second
	defaultWriteTimeout = 10 * time.Second
	defaultIdleTimeout  = 60 * time.Second
)

// Handlers bundles the route handlers the server exposes.
type Handlers struct {
	Record    *handler.RecordHandler
	Bootstrap *handler.BootstrapHandler
	Stats     *handler.StatsHandler
	Events    *handler.EventsHandler
	Reports   *handler.ReportsHandler
}

// NewServer creates a new HTTP server.
func NewServer(
	handlers Handlers,
	db *sql.DB,
	cfg *config.Config,
	log logger.Logger,
	done <-chan struct{},
) *infragin.Server {
	rateLimitWindow := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second

	return infragin.NewServerBuilder(cfg.Service.Name, cfg.Service.Port).
		WithLogger(log).
		WithDebug(cfg.Service.Debug).
		WithVersion(cfg.Service.Version).
		WithCORSOrigins(cfg.Service.CORSOrigins).
		WithTimeouts(defaultReadTimeout, defaultWriteTimeout, defaultIdleTimeout).
		WithDatabaseHealthCheck(db.Ping).
		WithRoutes(func(router *gin.Engine) {
			SetupRoutes(router, handlers, cfg.RateLimit.MaxEventsPerMinute, rateLimitWindow, done)
		}).
		Build()
}
