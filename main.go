package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/Joshthejuggler/Conversion-Lead-Tracker/internal/api"
	"github.com/Joshthejuggler/Conversion-Lead-Tracker/internal/config"
	"github.com/Joshthejuggler/Conversion-Lead-Tracker/internal/handler"
	infraconfig "github.com/Joshthejuggler/Conversion-Lead-Tracker/internal/infra/config"
	"github.com/Joshthejuggler/Conversion-Lead-Tracker/internal/infra/logger"
	"github.com/Joshthejuggler/Conversion-Lead-Tracker/internal/nonce"
	"github.com/Joshthejuggler/Conversion-Lead-Tracker/internal/report"
	"github.com/Joshthejuggler/Conversion-Lead-Tracker/internal/storage"

	_ "github.com/lib/pq"
)

// Database connection timeout.
const dbPingTimeout = 5 * time.Second

func main() {
	os.Exit(run())
}

func run() int {
	// Load configuration
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	// Initialize logger
	log, err := createLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	// Connect to database
	db, err := connectDatabase(cfg, log)
	if err != nil {
		log.Error("Failed to connect to database", logger.Error(err))
		return 1
	}
	defer func() { _ = db.Close() }()

	// Run server
	return runServer(cfg, log, db)
}

// loadConfig loads and validates configuration.
func loadConfig() (*config.Config, error) {
	configPath := infraconfig.GetConfigPath("config.yml")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if validationErr := cfg.Validate(); validationErr != nil {
		return nil, fmt.Errorf("validate config: %w", validationErr)
	}
	return cfg, nil
}

// createLogger creates a logger instance from configuration.
func createLogger(cfg *config.Config) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Development: cfg.Service.Debug,
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return log.With(logger.String("service", "lead-tracker")), nil
}

// connectDatabase opens and verifies a database connection.
func connectDatabase(cfg *config.Config, log logger.Logger) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), dbPingTimeout)
	defer cancel()

	if pingErr := db.PingContext(ctx); pingErr != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", pingErr)
	}

	log.Info("Database connected",
		logger.String("host", cfg.Database.Host),
		logger.Int("port", cfg.Database.Port),
		logger.String("database", cfg.Database.Database),
	)

	return db, nil
}

// runServer creates all dependencies and starts the HTTP server.
func runServer(cfg *config.Config, log logger.Logger, db *sql.DB) int {
	// Create nonce signer
	signer := nonce.NewSignerWithMaxAge(cfg.Service.NonceSecret, cfg.Service.NonceMaxAge)

	// Create event buffer and write-side store
	buf := storage.NewBuffer(cfg.Service.BufferSize)
	store := storage.NewStore(db, buf, log, cfg.Service.FlushInterval, cfg.Service.FlushThreshold)
	store.Start()
	defer store.Stop()

	// Read-side store for stats, listings, and reports
	reports := storage.NewReportStore(db, log)

	// Email reporting
	mailer := report.NewSMTPMailer(cfg.Report.SMTP)
	notifier := report.NewNotifier(cfg.Report, mailer, log)

	scheduler := report.NewScheduler(cfg.Report, reports, mailer, log)
	if err := scheduler.Start(); err != nil {
		log.Error("Failed to start digest scheduler", logger.Error(err))
		return 1
	}
	defer scheduler.Stop()

	// Create handlers
	handlers := api.Handlers{
		Record:    handler.NewRecordHandler(signer, buf, notifier, log),
		Bootstrap: handler.NewBootstrapHandler(signer),
		Stats:     handler.NewStatsHandler(reports, log),
		Events:    handler.NewEventsHandler(reports, log),
		Reports:   handler.NewReportsHandler(scheduler, notifier, log),
	}

	// done channel signals background goroutines (rate limiter) on shutdown
	done := make(chan struct{})
	defer close(done)

	// Create and run server
	server := api.NewServer(handlers, db, cfg, log, done)

	log.Info("Lead-tracker starting",
		logger.Int("port", cfg.Service.Port),
	)

	if err := server.Run(); err != nil {
		log.Error("Server error", logger.Error(err))
		return 1
	}

	log.Info("Lead-tracker exited cleanly")
	return 0
}
