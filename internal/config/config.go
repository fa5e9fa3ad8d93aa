package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type Config struct {
	// Data files
	DataFile     string
	BackupDir    string
	SettingsFile string

	// Reports
	ReportDir  string
	ReportFont string

	// Backend selection
	Backend string

	// Watch mode
	AlertInterval   time.Duration
	RefreshInterval time.Duration
}

func Load() *Config {
	cfg := &Config{
		DataFile:     getEnv("SPENDBOOK_DATA_FILE", "./data/expenses.xlsx"),
		BackupDir:    getEnv("SPENDBOOK_BACKUP_DIR", "./data/backups"),
		SettingsFile: getEnv("SPENDBOOK_SETTINGS_FILE", "./data/settings.txt"),

		ReportDir:  getEnv("SPENDBOOK_REPORT_DIR", "./reports"),
		ReportFont: getEnv("SPENDBOOK_REPORT_FONT", ""),

		Backend: getEnv("SPENDBOOK_BACKEND", "workbook"),

		AlertInterval:   getEnvDuration("SPENDBOOK_ALERT_INTERVAL", time.Hour),
		RefreshInterval: getEnvDuration("SPENDBOOK_REFRESH_INTERVAL", time.Hour),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	validBackends := []string{"workbook", "memory"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.Backend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid backend '%s': must be one of %v", c.Backend, validBackends))
	}

	if c.Backend == "workbook" {
		if c.DataFile == "" {
			errors = append(errors, "data file path cannot be empty when using workbook backend")
		} else if ext := strings.ToLower(filepath.Ext(c.DataFile)); ext != ".xlsx" {
			errors = append(errors, fmt.Sprintf("invalid data file '%s': must have a .xlsx extension", c.DataFile))
		}
	}

	if c.BackupDir == "" {
		errors = append(errors, "backup directory cannot be empty")
	}
	if c.SettingsFile == "" {
		errors = append(errors, "settings file path cannot be empty")
	}

	if c.ReportFont != "" {
		if _, err := os.Stat(c.ReportFont); os.IsNotExist(err) {
			errors = append(errors, fmt.Sprintf("report font file does not exist: %s", c.ReportFont))
		}
	}

	for name, interval := range map[string]time.Duration{
		"alert interval":   c.AlertInterval,
		"refresh interval": c.RefreshInterval,
	} {
		if interval < time.Second {
			errors = append(errors, fmt.Sprintf("invalid %s %v: must be at least 1 second", name, interval))
		} else if interval > 24*time.Hour {
			errors = append(errors, fmt.Sprintf("invalid %s %v: must be at most 24 hours", name, interval))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
