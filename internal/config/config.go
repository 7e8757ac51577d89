package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Storage backend selection
	DataBackend  string
	BoltDBPath   string
	SQLiteDBPath string

	// Attachment uploads
	UploadDir string

	// Chart data
	ChartMonths   int
	TrendPoints   int
	ChartCacheTTL time.Duration
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8081"),

		DataBackend:  getEnv("DATA_BACKEND", "bolt"),
		BoltDBPath:   getEnv("BOLT_DB_PATH", "./data/carteira.db"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/carteira.sqlite"),

		UploadDir: getEnv("UPLOAD_DIR", "./data/uploads"),

		ChartMonths:   getEnvInt("CHART_MONTHS", 6),
		TrendPoints:   getEnvInt("TREND_POINTS", 30),
		ChartCacheTTL: getEnvDuration("CHART_CACHE_TTL", 5*time.Minute),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.DataBackend {
	case "bolt":
		if c.BoltDBPath == "" {
			errors = append(errors, "bolt database path cannot be empty when using bolt backend")
		} else if err := ensureDir(filepath.Dir(c.BoltDBPath)); err != nil {
			errors = append(errors, fmt.Sprintf("cannot create bolt database directory: %v", err))
		}
	case "sqlite":
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else if err := ensureDir(filepath.Dir(c.SQLiteDBPath)); err != nil {
			errors = append(errors, fmt.Sprintf("cannot create SQLite database directory: %v", err))
		}
	case "memory":
	default:
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of [bolt sqlite memory]", c.DataBackend))
	}

	if c.UploadDir == "" {
		errors = append(errors, "upload directory cannot be empty")
	} else if err := ensureDir(c.UploadDir); err != nil {
		errors = append(errors, fmt.Sprintf("cannot create upload directory '%s': %v", c.UploadDir, err))
	}

	if c.ChartMonths < 1 || c.ChartMonths > 60 {
		errors = append(errors, fmt.Sprintf("invalid chart months %d: must be between 1 and 60", c.ChartMonths))
	}
	if c.TrendPoints < 0 || c.TrendPoints > 1000 {
		errors = append(errors, fmt.Sprintf("invalid trend points %d: must be between 0 and 1000", c.TrendPoints))
	}
	if c.ChartCacheTTL < time.Second {
		errors = append(errors, fmt.Sprintf("invalid chart cache TTL %v: must be at least 1 second", c.ChartCacheTTL))
	} else if c.ChartCacheTTL > time.Hour {
		errors = append(errors, fmt.Sprintf("invalid chart cache TTL %v: must be at most 1 hour", c.ChartCacheTTL))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func ensureDir(dir string) error {
	if dir == "." || dir == "" {
		return nil
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return os.MkdirAll(dir, 0755)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
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
