package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	ServerPort    int
	DatabasePath  string
	SessionSecret string        // Signs the session cookie
	SessionTTL    time.Duration // Server-side session row lifetime
	IsProd        bool
}

// Load loads configuration from the environment (and an optional .env file) or
// sets defaults.
func Load() (*Config, error) {
	_ = godotenv.Load()

	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, err
	}

	ttlHoursStr := getEnv("SESSION_TTL_HOURS", "24")
	ttlHours, err := strconv.Atoi(ttlHoursStr)
	if err != nil {
		return nil, err
	}

	return &Config{
		ServerPort:    port,
		DatabasePath:  getEnv("DATABASE_PATH", "./snapfeed.db"),
		SessionSecret: getEnv("SESSION_SECRET", "dev-secret-change-me"),
		SessionTTL:    time.Duration(ttlHours) * time.Hour,
		IsProd:        os.Getenv("APP_ENV") == "production",
	}, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
