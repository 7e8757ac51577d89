package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig(t *testing.T) Config {
	t.Helper()
	dir := t.TempDir()
	return Config{
		Port:          "8081",
		DataBackend:   "bolt",
		BoltDBPath:    filepath.Join(dir, "carteira.db"),
		SQLiteDBPath:  filepath.Join(dir, "carteira.sqlite"),
		UploadDir:     filepath.Join(dir, "uploads"),
		ChartMonths:   6,
		TrendPoints:   30,
		ChartCacheTTL: 5 * time.Minute,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		wantErr     bool
		errorString string
	}{
		{
			name:   "valid bolt backend config",
			mutate: func(c *Config) {},
		},
		{
			name:   "valid sqlite backend config",
			mutate: func(c *Config) { c.DataBackend = "sqlite" },
		},
		{
			name:   "valid memory backend config",
			mutate: func(c *Config) { c.DataBackend = "memory" },
		},
		{
			name:        "invalid port - non-numeric",
			mutate:      func(c *Config) { c.Port = "abc" },
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name:        "invalid port - out of range",
			mutate:      func(c *Config) { c.Port = "70000" },
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:        "invalid backend",
			mutate:      func(c *Config) { c.DataBackend = "redis" },
			wantErr:     true,
			errorString: "invalid data backend 'redis'",
		},
		{
			name: "empty bolt path with bolt backend",
			mutate: func(c *Config) {
				c.DataBackend = "bolt"
				c.BoltDBPath = ""
			},
			wantErr:     true,
			errorString: "bolt database path cannot be empty",
		},
		{
			name: "empty sqlite path with sqlite backend",
			mutate: func(c *Config) {
				c.DataBackend = "sqlite"
				c.SQLiteDBPath = ""
			},
			wantErr:     true,
			errorString: "SQLite database path cannot be empty",
		},
		{
			name:        "empty upload dir",
			mutate:      func(c *Config) { c.UploadDir = "" },
			wantErr:     true,
			errorString: "upload directory cannot be empty",
		},
		{
			name:        "chart months too high",
			mutate:      func(c *Config) { c.ChartMonths = 100 },
			wantErr:     true,
			errorString: "invalid chart months 100",
		},
		{
			name:        "cache TTL too low",
			mutate:      func(c *Config) { c.ChartCacheTTL = 100 * time.Millisecond },
			wantErr:     true,
			errorString: "must be at least 1 second",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected validation error, got nil")
				}
				if tt.errorString != "" && !strings.Contains(err.Error(), tt.errorString) {
					t.Fatalf("error %q does not contain %q", err.Error(), tt.errorString)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestValidateCreatesDirectories(t *testing.T) {
	cfg := validConfig(t)
	cfg.BoltDBPath = filepath.Join(t.TempDir(), "nested", "deep", "carteira.db")
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if _, err := os.Stat(filepath.Dir(cfg.BoltDBPath)); err != nil {
		t.Fatalf("db directory not created: %v", err)
	}
	if _, err := os.Stat(cfg.UploadDir); err != nil {
		t.Fatalf("upload directory not created: %v", err)
	}
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DATA_BACKEND", "BOLT_DB_PATH", "UPLOAD_DIR", "CHART_MONTHS", "CHART_CACHE_TTL"} {
		os.Unsetenv(key)
	}
	cfg := Load()
	if cfg.Port != "8081" {
		t.Fatalf("default port = %s", cfg.Port)
	}
	if cfg.DataBackend != "bolt" {
		t.Fatalf("default backend = %s", cfg.DataBackend)
	}
	if cfg.ChartMonths != 6 || cfg.ChartCacheTTL != 5*time.Minute {
		t.Fatalf("default chart settings: %d, %v", cfg.ChartMonths, cfg.ChartCacheTTL)
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATA_BACKEND", "sqlite")
	t.Setenv("CHART_MONTHS", "12")
	t.Setenv("CHART_CACHE_TTL", "30s")
	cfg := Load()
	if cfg.Port != "9090" || cfg.DataBackend != "sqlite" {
		t.Fatalf("env not honored: %+v", cfg)
	}
	if cfg.ChartMonths != 12 || cfg.ChartCacheTTL != 30*time.Second {
		t.Fatalf("env chart settings: %d, %v", cfg.ChartMonths, cfg.ChartCacheTTL)
	}
}
