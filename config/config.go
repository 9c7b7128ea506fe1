// Package config reads server configuration from the environment.
package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// Addr is the HTTP listen address, e.g. ":8080".
	Addr string
	// DBPath is the SQLite database path for the groups store.
	// Empty means the in-memory store.
	DBPath string
	// Currency is the ISO 4217 code used for money display.
	Currency string
}

// Load reads configuration from a .env file (if present) and the
// environment. Call it before logging.FromEnv so LOG_LEVEL set in .env
// is visible there too.
func Load() *Config {
	// A missing .env file is fine; the environment still applies.
	_ = godotenv.Load()

	return &Config{
		Addr:     getEnv("BILLSPLIT_ADDR", ":8080"),
		DBPath:   getEnv("BILLSPLIT_DB", ""),
		Currency: getEnv("BILLSPLIT_CURRENCY", "USD"),
	}
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
