// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	BackendURL     string        // Base URL of the portfolio backend; the only place it is defined
	BackendTimeout time.Duration // Upper bound for a single backend call
	DataDir        string        // Directory holding client.db (always absolute)
	LogLevel       string
	Port           int
	DevMode        bool
	FlashTTL       time.Duration // How long transient success messages stay visible

	// Cron schedules for maintenance jobs (empty disables the job)
	HealthProbeSchedule    string
	WALCheckpointSchedule  string
	IntegrityCheckSchedule string
}

// Defaults used when the environment does not override them.
const (
	DefaultBackendURL = "http://localhost:8000"
	DefaultPort       = 3000
	DefaultFlashTTL   = 3 * time.Second
)

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir := getEnv("DATA_DIR", "./data")
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		BackendURL:             strings.TrimRight(getEnv("BACKEND_URL", DefaultBackendURL), "/"),
		BackendTimeout:         getEnvAsDuration("BACKEND_TIMEOUT", 10*time.Second),
		DataDir:                absDataDir,
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		Port:                   getEnvAsInt("PORT", DefaultPort),
		DevMode:                getEnvAsBool("DEV_MODE", false),
		FlashTTL:               getEnvAsDuration("FLASH_TTL", DefaultFlashTTL),
		HealthProbeSchedule:    getEnv("HEALTH_PROBE_SCHEDULE", "@every 1m"),
		WALCheckpointSchedule:  getEnv("WAL_CHECKPOINT_SCHEDULE", "@hourly"),
		IntegrityCheckSchedule: getEnv("INTEGRITY_CHECK_SCHEDULE", "@daily"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	u, err := url.Parse(c.BackendURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid BACKEND_URL %q", c.BackendURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("BACKEND_URL must use http or https, got %q", u.Scheme)
	}
	if c.BackendTimeout <= 0 {
		return fmt.Errorf("BACKEND_TIMEOUT must be positive")
	}
	if c.FlashTTL <= 0 {
		return fmt.Errorf("FLASH_TTL must be positive")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.Port)
	}
	return nil
}

// DatabasePath returns the location of the client storage database.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "client.db")
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
