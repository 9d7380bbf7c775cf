package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	ServerPort     int
	DatabasePath   string
	RedisURL       string
	SessionTTL     time.Duration // inactivity window before a session expires
	AuditRetention time.Duration // how long auth events are kept
	Environment    string        // "development" or "production"
	FrontendOrigin string
	LogLevel       string
}

// Load loads configuration from a .env file (if present) and environment
// variables, falling back to defaults.
func Load() (*Config, error) {
	// Missing .env is fine; real environments set variables directly.
	_ = godotenv.Load()

	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil {
		return nil, err
	}

	sessionTTL, err := time.ParseDuration(getEnv("SESSION_TTL", "24h"))
	if err != nil {
		return nil, err
	}

	auditRetention, err := time.ParseDuration(getEnv("AUDIT_RETENTION", "720h"))
	if err != nil {
		return nil, err
	}

	return &Config{
		ServerPort:     port,
		DatabasePath:   getEnv("DATABASE_PATH", "./memberhub.db"),
		RedisURL:       getEnv("REDIS_URL", "redis://localhost:6379/0"),
		SessionTTL:     sessionTTL,
		AuditRetention: auditRetention,
		Environment:    getEnv("APP_ENV", "development"),
		FrontendOrigin: getEnv("FRONTEND_ORIGIN", "http://localhost:3000"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}, nil
}

// IsProduction reports whether the app runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
