package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config captures runtime configuration sourced from environment variables.
type Config struct {
	Environment    string
	HTTPPort       string
	DatabasePath   string
	FrontendDir    string
	JWTSecret      string
	CommandTimeout time.Duration
}

// Load reads env vars and falls back to defaults so the server can boot with zero configuration.
func Load() (Config, error) {
	cfg := Config{
		Environment:  getEnv("NGA_ENV", "development"),
		HTTPPort:     getEnv("NGA_HTTP_PORT", "8080"),
		DatabasePath: getEnv("NGA_DB_PATH", filepath.Join("data", "nginxadmin.db")),
		FrontendDir:  getEnv("NGA_FRONTEND_DIR", filepath.Clean(filepath.Join("..", "frontend", "dist"))),
		JWTSecret:    getEnv("NGA_JWT_SECRET", ""),
	}

	timeout := getEnv("NGA_COMMAND_TIMEOUT", "30s")
	d, err := time.ParseDuration(timeout)
	if err != nil {
		return Config{}, fmt.Errorf("parse NGA_COMMAND_TIMEOUT: %w", err)
	}
	cfg.CommandTimeout = d

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o755); err != nil {
		return Config{}, fmt.Errorf("ensure data directory: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return fallback
}
