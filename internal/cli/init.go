// Package cli provides common binary initialization utilities shared
// by cmd/tally and cmd/tally-worker.
package cli

import (
	"os"

	"github.com/joho/godotenv"

	"tally/internal/config"
	applog "tally/internal/log"
	"tally/internal/storage"
)

// SetupLogger initializes structured logging with default settings and
// sets it as the process default.
func SetupLogger() *applog.Logger {
	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on failure.
func LoadAndValidateConfig(logger *applog.Logger) *config.Config {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Configuration loading failed", applog.FieldError, err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// OpenRepository opens the SQLite store, running migrations, or exits
// the process on failure.
func OpenRepository(logger *applog.Logger, cfg *config.Config) *storage.Repository {
	repo, err := storage.NewRepository(cfg.DBPath)
	if err != nil {
		logger.Error("Failed to open repository", applog.FieldError, err, "path", cfg.DBPath)
		os.Exit(1)
	}
	return repo
}
