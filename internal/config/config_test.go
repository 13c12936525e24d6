package config

import (
	"testing"
	"time"
)

func TestSetDefaults(t *testing.T) {
	t.Helper()

	cfg := &Config{}
	setDefaults(cfg)

	assertStringEqual(t, "service.name", defaultServiceName, cfg.Service.Name)
	assertStringEqual(t, "service.version", defaultVersion, cfg.Service.Version)
	assertIntEqual(t, "service.port", defaultServicePort, cfg.Service.Port)
	assertIntEqual(t, "service.buffer_size", defaultBufferSize, cfg.Service.BufferSize)
	assertIntEqual(t, "service.flush_threshold", defaultFlushThresh, cfg.Service.FlushThreshold)

	expectedMaxAge := defaultNonceMaxAgeH * time.Hour
	if cfg.Service.NonceMaxAge != expectedMaxAge {
		t.Errorf("service.nonce_max_age: got %v, want %v",
			cfg.Service.NonceMaxAge, expectedMaxAge)
	}

	expectedFlushInterval := defaultFlushIntervalS * time.Second
	if cfg.Service.FlushInterval != expectedFlushInterval {
		t.Errorf("service.flush_interval: got %v, want %v",
			cfg.Service.FlushInterval, expectedFlushInterval)
	}

	assertStringEqual(t, "database.host", defaultDBHost, cfg.Database.Host)
	assertIntEqual(t, "database.port", defaultDBPort, cfg.Database.Port)
	assertStringEqual(t, "database.user", defaultDBUser, cfg.Database.User)
	assertStringEqual(t, "database.database", defaultDBName, cfg.Database.Database)
	assertStringEqual(t, "database.sslmode", defaultDBSSLMode, cfg.Database.SSLMode)

	assertIntEqual(t, "rate_limit.max_events_per_minute",
		defaultMaxEventsPerMinute, cfg.RateLimit.MaxEventsPerMinute)
	assertIntEqual(t, "rate_limit.window_seconds",
		defaultWindowSeconds, cfg.RateLimit.WindowSeconds)

	assertStringEqual(t, "report.site_name", defaultSiteName, cfg.Report.SiteName)
	assertStringEqual(t, "report.digest_schedule", defaultDigestSchedule, cfg.Report.DigestSchedule)
	assertIntEqual(t, "report.smtp.port", defaultSMTPPort, cfg.Report.SMTP.Port)

	assertStringEqual(t, "logging.level", defaultLoggingLevel, cfg.Logging.Level)
	assertStringEqual(t, "logging.format", defaultLoggingFmt, cfg.Logging.Format)
}

func TestValidate_MissingSecret(t *testing.T) {
	t.Helper()

	cfg := &Config{}
	setDefaults(cfg)
	cfg.Service.NonceSecret = ""

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error for missing nonce secret, got nil")
	}

	expected := "service.nonce_secret: is required"
	if err.Error() != expected {
		t.Errorf("error message: got %q, want %q", err.Error(), expected)
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	t.Helper()

	cfg := &Config{}
	setDefaults(cfg)
	cfg.Service.NonceSecret = "test-secret-key"

	err := cfg.Validate()
	if err != nil {
		t.Fatalf("expected no validation error, got: %v", err)
	}
}

func TestValidate_ReportingNeedsSMTP(t *testing.T) {
	t.Helper()

	cfg := &Config{}
	setDefaults(cfg)
	cfg.Service.NonceSecret = "test-secret-key"
	cfg.Report.DigestEnabled = true

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error for missing SMTP host, got nil")
	}

	cfg.Report.SMTP.Host = "smtp.example.com"
	cfg.Report.SMTP.From = "reports@example.com"

	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected no validation error with SMTP configured, got: %v", err)
	}
}

func TestDSN(t *testing.T) {
	t.Helper()

	db := &DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "secret",
		Database: "lead_tracker",
		SSLMode:  "disable",
	}

	expected := "host=localhost port=5432 user=postgres password=secret dbname=lead_tracker sslmode=disable"
	got := db.DSN()

	if got != expected {
		t.Errorf("DSN:\ngot:  %q\nwant: %q", got, expected)
	}
}

// assertStringEqual is a test helper that checks string equality.
func assertStringEqual(t *testing.T, field, want, got string) {
	t.Helper()

	if got != want {
		t.Errorf("%s: got %q, want %q", field, got, want)
	}
}

// assertIntEqual is a test helper that checks int equality.
func assertIntEqual(t *testing.T, field string, want, got int) {
	t.Helper()

	if got != want {
		t.Errorf("%s: got %d, want %d", field, got, want)
	}
}
