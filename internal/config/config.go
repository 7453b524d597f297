package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config keeps runtime settings for the scheduler daemon.
type Config struct {
	// Database connection. DATABASE_URL wins; otherwise the discrete
	// DB_* variables are assembled into a postgres DSN.
	DatabaseURL string
	DBHost      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBPort      string
	DBSSLMode   string

	// Outbound email transport.
	SendGridAPIKey string
	FromEmail      string
	FromName       string

	// Scheduler tuning.
	ScanInterval time.Duration

	// Ops HTTP surface.
	HTTPAddr string

	LogLevel string
}

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	cfg := Config{
		DatabaseURL:    strings.TrimSpace(os.Getenv("DATABASE_URL")),
		DBHost:         strings.TrimSpace(os.Getenv("DB_HOST")),
		DBUser:         strings.TrimSpace(os.Getenv("DB_USER")),
		DBPassword:     os.Getenv("DB_PASSWORD"),
		DBName:         strings.TrimSpace(os.Getenv("DB_NAME")),
		DBPort:         strings.TrimSpace(os.Getenv("DB_PORT")),
		DBSSLMode:      strings.TrimSpace(os.Getenv("DB_SSL_MODE")),
		SendGridAPIKey: strings.TrimSpace(os.Getenv("SENDGRID_API_KEY")),
		FromEmail:      strings.TrimSpace(os.Getenv("SENDGRID_FROM_EMAIL")),
		FromName:       strings.TrimSpace(os.Getenv("SENDGRID_FROM_NAME")),
		ScanInterval:   parseMinutes(os.Getenv("SCAN_INTERVAL_MINUTES")),
		HTTPAddr:       strings.TrimSpace(os.Getenv("HTTP_ADDR")),
		LogLevel:       strings.TrimSpace(os.Getenv("LOG_LEVEL")),
	}

	if cfg.DBSSLMode == "" {
		cfg.DBSSLMode = "disable" // Default to disable for local development
	}
	if cfg.ScanInterval == 0 {
		cfg.ScanInterval = 15 * time.Minute
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}
	if cfg.FromName == "" {
		cfg.FromName = "Reminders"
	}

	if cfg.DatabaseURL == "" && cfg.DBHost == "" {
		return cfg, fmt.Errorf("either DATABASE_URL or DB_HOST must be set")
	}
	if cfg.SendGridAPIKey == "" {
		return cfg, fmt.Errorf("SENDGRID_API_KEY is required")
	}
	if cfg.FromEmail == "" {
		return cfg, fmt.Errorf("SENDGRID_FROM_EMAIL is required")
	}

	return cfg, nil
}

// DSN returns the postgres connection string built from the config.
func (c Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC connect_timeout=10",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode)
}

func parseMinutes(raw string) time.Duration {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	minutes, err := strconv.Atoi(raw)
	if err != nil || minutes <= 0 {
		return 0
	}
	return time.Duration(minutes) * time.Minute
}
