// Package config loads application configuration from the environment,
// reading a .env file first when one is present.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/spendwise-app/spendwise/internal/gemini"
)

// Config holds application configuration
type Config struct {
	// Server
	Port string

	// Storage
	DBPath string

	// Gemini. An empty API key is tolerated at load time; extraction and
	// insight calls report it as Misconfigured when actually invoked.
	GeminiAPIKey  string
	GeminiModel   string
	GeminiTimeout time.Duration
}

// Load loads configuration from environment variables. It runs before the
// logger exists (LOG_LEVEL may come from the .env file it reads), so
// non-fatal problems come back as warnings for the caller to log.
func Load() (*Config, []string) {
	var warnings []string

	if err := godotenv.Load(); err != nil {
		warnings = append(warnings, "no .env file found, using environment variables")
	}

	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		DBPath:       getEnv("DB_PATH", "data/spendwise.db"),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.0-flash-exp"),
	}

	timeoutStr := getEnv("GEMINI_TIMEOUT", "30s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("invalid GEMINI_TIMEOUT value %q, falling back to %s", timeoutStr, gemini.DefaultTimeout))
		timeout = gemini.DefaultTimeout
	}
	cfg.GeminiTimeout = timeout

	return cfg, warnings
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
