// Package cli provides common CLI initialization utilities shared by the
// spendbook subcommands.
package cli

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"spendbook/internal/config"
	"spendbook/internal/ledger"
	"spendbook/internal/ledger/memory"
	"spendbook/internal/ledger/workbook"
)

// SetupLogger initializes structured logging with default settings.
// Returns the configured logger and sets it as the default logger.
func SetupLogger() *slog.Logger {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as the file is optional.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *slog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// OpenStore opens the ledger store selected by the configuration.
// Returns the store or exits the process on failure.
func OpenStore(logger *slog.Logger, cfg *config.Config) ledger.Store {
	switch cfg.Backend {
	case "memory":
		return memory.New()
	default:
		store, err := workbook.Open(cfg.DataFile)
		if err != nil {
			logger.Error("Failed to open workbook", "error", err, "path", cfg.DataFile)
			os.Exit(1)
		}
		return store
	}
}
