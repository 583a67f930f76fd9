package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	DatabaseURL          string
	HTTPAddr             string
	LogLevel             string
	Environment          string
	GraphTenantID        string
	GraphClientID        string
	GraphClientSecret    string
	MailSender           string
	CronSpecVendorDigest string
	JobLockTTL           time.Duration
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	cfg.GraphTenantID = os.Getenv("GRAPH_TENANT_ID")
	if cfg.GraphTenantID == "" {
		return nil, fmt.Errorf("GRAPH_TENANT_ID is not set")
	}
	cfg.GraphClientID = os.Getenv("GRAPH_CLIENT_ID")
	if cfg.GraphClientID == "" {
		return nil, fmt.Errorf("GRAPH_CLIENT_ID is not set")
	}
	cfg.GraphClientSecret = os.Getenv("GRAPH_CLIENT_SECRET")
	if cfg.GraphClientSecret == "" {
		return nil, fmt.Errorf("GRAPH_CLIENT_SECRET is not set")
	}
	cfg.MailSender = os.Getenv("MAIL_SENDER")
	if cfg.MailSender == "" {
		return nil, fmt.Errorf("MAIL_SENDER is not set")
	}

	cfg.HTTPAddr = os.Getenv("HTTP_ADDR")
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	// The digest job is safe to trigger more often than any vendor's real
	// cadence; the evaluator dedupes within a window.
	cfg.CronSpecVendorDigest = os.Getenv("CRON_SPEC_VENDOR_DIGEST")
	if cfg.CronSpecVendorDigest == "" {
		cfg.CronSpecVendorDigest = "0 * * * *" // Default: hourly
	}

	ttlStr := os.Getenv("JOB_LOCK_TTL")
	if ttlStr == "" {
		cfg.JobLockTTL = 15 * time.Minute
	} else {
		ttl, err := time.ParseDuration(ttlStr)
		if err != nil || ttl <= 0 {
			return nil, fmt.Errorf("invalid JOB_LOCK_TTL %q", ttlStr)
		}
		cfg.JobLockTTL = ttl
	}

	return cfg, nil
}
