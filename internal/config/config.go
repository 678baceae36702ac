// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DataDir  string // Base directory for the history database and reports (always absolute)
	LogLevel string
	Port     int
	DevMode  bool

	RedisAddr string        // Empty selects the in-memory cache
	CacheTTL  time.Duration // Lifetime of cached simulation results

	SensitivityWorkers      int // 0 uses the pool default
	RecommendationThreshold int // Break-even year separating the recommendations

	RunRetentionDays int    // 0 keeps run history forever
	CleanupSchedule  string // Cron schedule of the run history prune job

	ReportPath string
	Archive    ArchiveConfig
}

// ArchiveConfig holds the optional S3-compatible report archive settings
type ArchiveConfig struct {
	Endpoint        string
	Bucket          string // Empty disables archiving
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// HistoryDBPath returns the path of the run history database
func (c *Config) HistoryDBPath() string {
	return filepath.Join(c.DataDir, "history.db")
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir := getEnv("BREAKEVEN_DATA_DIR", "./data")
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:                 absDataDir,
		Port:                    getEnvAsInt("GO_PORT", 8001),
		DevMode:                 getEnvAsBool("DEV_MODE", false),
		LogLevel:                getEnv("LOG_LEVEL", "info"),
		RedisAddr:               getEnv("REDIS_ADDR", ""),
		CacheTTL:                time.Duration(getEnvAsInt("CACHE_TTL_MINUTES", 60)) * time.Minute,
		SensitivityWorkers:      getEnvAsInt("SENSITIVITY_WORKERS", 0),
		RecommendationThreshold: getEnvAsInt("RECOMMENDATION_THRESHOLD_YEARS", 5),
		RunRetentionDays:        getEnvAsInt("RUN_RETENTION_DAYS", 30),
		CleanupSchedule:         getEnv("CLEANUP_SCHEDULE", "@hourly"),
		ReportPath:              getEnv("REPORT_PATH", filepath.Join(absDataDir, "investment_report.txt")),
		Archive: ArchiveConfig{
			Endpoint:        getEnv("ARCHIVE_ENDPOINT", ""),
			Bucket:          getEnv("ARCHIVE_BUCKET", ""),
			Region:          getEnv("ARCHIVE_REGION", "us-east-1"),
			AccessKeyID:     getEnv("ARCHIVE_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("ARCHIVE_SECRET_ACCESS_KEY", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the configured values are usable
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("GO_PORT must be between 1 and 65535, got %d", c.Port)
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("CACHE_TTL_MINUTES must not be negative")
	}
	if c.SensitivityWorkers < 0 {
		return fmt.Errorf("SENSITIVITY_WORKERS must not be negative, got %d", c.SensitivityWorkers)
	}
	if c.RecommendationThreshold < 1 {
		return fmt.Errorf("RECOMMENDATION_THRESHOLD_YEARS must be at least 1, got %d", c.RecommendationThreshold)
	}
	if c.RunRetentionDays < 0 {
		return fmt.Errorf("RUN_RETENTION_DAYS must not be negative, got %d", c.RunRetentionDays)
	}
	if c.Archive.Bucket != "" && (c.Archive.AccessKeyID == "") != (c.Archive.SecretAccessKey == "") {
		return fmt.Errorf("ARCHIVE_ACCESS_KEY_ID and ARCHIVE_SECRET_ACCESS_KEY must be set together")
	}
	return nil
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
