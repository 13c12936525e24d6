package config

import (
	"fmt"
	"time"

	infraconfig "github.com/Joshthejuggler/Conversion-Lead-Tracker/internal/infra/config"
)

// Default configuration values.
const (
	defaultServiceName  = "lead-tracker"
	defaultServicePort  = 8095
	defaultVersion      = "0.1.0"
	defaultBufferSize   = 1000
	defaultFlushThresh  = 100
	defaultLoggingLevel = "info"
	defaultLoggingFmt   = "json"
	defaultDBHost       = "localhost"
	defaultDBPort       = 5432
	defaultDBName       = "lead_tracker"
	defaultDBUser       = "postgres"
	defaultDBSSLMode    = "disable"

	defaultMaxEventsPerMinute = 30
	defaultWindowSeconds      = 60

	defaultNonceMaxAgeH   = 12
	defaultFlushIntervalS = 1

	defaultSiteName       = "Lead Tracker"
	defaultDigestSchedule = "0 0 1 * *"
	defaultSMTPPort       = 587
)

// Config holds the application configuration.
type Config struct {
	Service   ServiceConfig   `yaml:"service"`
	Database  DatabaseConfig  `yaml:"database"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Report    ReportConfig    `yaml:"report"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name           string        `yaml:"name"`
	Version        string        `yaml:"version"`
	Port           int           `env:"LEAD_TRACKER_PORT"   yaml:"port"`
	Debug          bool          `env:"APP_DEBUG"           yaml:"debug"`
	NonceSecret    string        `env:"LEAD_TRACKER_SECRET" yaml:"nonce_secret"`
	NonceMaxAge    time.Duration `yaml:"nonce_max_age"`
	BufferSize     int           `yaml:"buffer_size"`
	FlushInterval  time.Duration `yaml:"flush_interval"`
	FlushThreshold int           `yaml:"flush_threshold"`
	CORSOrigins    []string      `env:"LEAD_TRACKER_CORS_ORIGINS" yaml:"cors_origins"`
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host     string `env:"POSTGRES_LEAD_TRACKER_HOST"     yaml:"host"`
	Port     int    `env:"POSTGRES_LEAD_TRACKER_PORT"     yaml:"port"`
	User     string `env:"POSTGRES_LEAD_TRACKER_USER"     yaml:"user"`
	Password string `env:"POSTGRES_LEAD_TRACKER_PASSWORD" yaml:"password"`
	Database string `env:"POSTGRES_LEAD_TRACKER_DB"       yaml:"database"`
	SSLMode  string `env:"POSTGRES_LEAD_TRACKER_SSLMODE"  yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode,
	)
}

// RateLimitConfig holds rate limiting configuration for the record endpoint.
type RateLimitConfig struct {
	MaxEventsPerMinute int `yaml:"max_events_per_minute"`
	WindowSeconds      int `yaml:"window_seconds"`
}

// ReportConfig holds email reporting configuration: the monthly digest and
// the instant lead notifications.
type ReportConfig struct {
	SiteName          string     `yaml:"site_name"`
	LogoURL           string     `yaml:"logo_url"`
	DigestEnabled     bool       `yaml:"digest_enabled"`
	DigestRecipients  []string   `env:"LEAD_TRACKER_DIGEST_RECIPIENTS" yaml:"digest_recipients"`
	DigestSchedule    string     `yaml:"digest_schedule"`
	InstantEnabled    bool       `yaml:"instant_enabled"`
	InstantRecipients []string   `env:"LEAD_TRACKER_INSTANT_RECIPIENTS" yaml:"instant_recipients"`
	SMTP              SMTPConfig `yaml:"smtp"`
}

// SMTPConfig holds the mail relay connection settings.
type SMTPConfig struct {
	Host     string `env:"LEAD_TRACKER_SMTP_HOST"     yaml:"host"`
	Port     int    `env:"LEAD_TRACKER_SMTP_PORT"     yaml:"port"`
	Username string `env:"LEAD_TRACKER_SMTP_USER"     yaml:"username"`
	Password string `env:"LEAD_TRACKER_SMTP_PASSWORD" yaml:"password"`
	From     string `env:"LEAD_TRACKER_SMTP_FROM"     yaml:"from"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL"  yaml:"level"`
	Format string `env:"LOG_FORMAT" yaml:"format"`
}

// Load loads configuration from the specified path.
func Load(path string) (*Config, error) {
	return infraconfig.LoadWithDefaults[Config](path, setDefaults)
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	setServiceDefaults(&cfg.Service)
	setDatabaseDefaults(&cfg.Database)
	setRateLimitDefaults(&cfg.RateLimit)
	setReportDefaults(&cfg.Report)
	setLoggingDefaults(&cfg.Logging)
}

// setServiceDefaults applies default values to ServiceConfig.
func setServiceDefaults(svc *ServiceConfig) {
	if svc.Name == "" {
		svc.Name = defaultServiceName
	}
	if svc.Version == "" {
		svc.Version = defaultVersion
	}
	if svc.Port == 0 {
		svc.Port = defaultServicePort
	}
	if svc.NonceMaxAge == 0 {
		svc.NonceMaxAge = defaultNonceMaxAgeH * time.Hour
	}
	if svc.BufferSize == 0 {
		svc.BufferSize = defaultBufferSize
	}
	if svc.FlushInterval == 0 {
		svc.FlushInterval = defaultFlushIntervalS * time.Second
	}
	if svc.FlushThreshold == 0 {
		svc.FlushThreshold = defaultFlushThresh
	}
}

// setDatabaseDefaults applies default values to DatabaseConfig.
func setDatabaseDefaults(db *DatabaseConfig) {
	if db.Host == "" {
		db.Host = defaultDBHost
	}
	if db.Port == 0 {
		db.Port = defaultDBPort
	}
	if db.User == "" {
		db.User = defaultDBUser
	}
	if db.Database == "" {
		db.Database = defaultDBName
	}
	if db.SSLMode == "" {
		db.SSLMode = defaultDBSSLMode
	}
}

// setRateLimitDefaults applies default values to RateLimitConfig.
func setRateLimitDefaults(rl *RateLimitConfig) {
	if rl.MaxEventsPerMinute == 0 {
		rl.MaxEventsPerMinute = defaultMaxEventsPerMinute
	}
	if rl.WindowSeconds == 0 {
		rl.WindowSeconds = defaultWindowSeconds
	}
}

// setReportDefaults applies default values to ReportConfig.
func setReportDefaults(rep *ReportConfig) {
	if rep.SiteName == "" {
		rep.SiteName = defaultSiteName
	}
	if rep.DigestSchedule == "" {
		rep.DigestSchedule = defaultDigestSchedule
	}
	if rep.SMTP.Port == 0 {
		rep.SMTP.Port = defaultSMTPPort
	}
}

// setLoggingDefaults applies default values to LoggingConfig.
func setLoggingDefaults(log *LoggingConfig) {
	if log.Level == "" {
		log.Level = defaultLoggingLevel
	}
	if log.Format == "" {
		log.Format = defaultLoggingFmt
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := infraconfig.ValidatePort("service.port", c.Service.Port); err != nil {
		return err
	}
	if c.Service.NonceSecret == "" {
		return &infraconfig.ValidationError{
			Field:   "service.nonce_secret",
			Message: "is required",
		}
	}
	if err := infraconfig.ValidateLogLevel("logging.level", c.Logging.Level); err != nil {
		return err
	}
	if c.Report.DigestEnabled || c.Report.InstantEnabled {
		if c.Report.SMTP.Host == "" {
			return &infraconfig.ValidationError{
				Field:   "report.smtp.host",
				Message: "is required when email reporting is enabled",
			}
		}
		if c.Report.SMTP.From == "" {
			return &infraconfig.ValidationError{
				Field:   "report.smtp.from",
				Message: "is required when email reporting is enabled",
			}
		}
	}
	return nil
}
