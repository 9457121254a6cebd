// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Content backends.
const (
	BackendJSON     = "json"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host     string
	Port     string
	Env      string // "development", "production", "testing"
	LogLevel string
	SiteName string

	// Content sources
	DataDir       string // root of the per-vertical JSON files
	VerticalsFile string // optional YAML vertical definitions
	Backend       string // "json", "postgres", "sqlite"
	SQLitePath    string

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible cache)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string
	CacheEnabled   bool
	CacheTTL       time.Duration

	// API requests allowed per client per minute.
	APIRateLimit int
	// Origins allowed to call the API from browsers; empty allows any.
	CORSOrigins []string
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if critical values
// are missing or malformed.
func Load() (*Config, error) {
	cfg := &Config{
		Host:     envOrDefault("APP_HOST", "0.0.0.0"),
		Port:     envOrDefault("APP_PORT", "8080"),
		Env:      envOrDefault("APP_ENV", "development"),
		LogLevel: envOrDefault("LOG_LEVEL", "debug"),
		SiteName: envOrDefault("SITE_NAME", "folio"),

		DataDir:       envOrDefault("DATA_DIR", "data"),
		VerticalsFile: os.Getenv("VERTICALS_FILE"),
		Backend:       strings.ToLower(envOrDefault("CONTENT_BACKEND", BackendJSON)),
		SQLitePath:    envOrDefault("SQLITE_PATH", "folio.db"),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "folio"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "folio"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		CORSOrigins: splitList(os.Getenv("API_CORS_ORIGINS")),
	}

	var err error
	if cfg.CacheEnabled, err = strconv.ParseBool(envOrDefault("CACHE_ENABLED", "true")); err != nil {
		return nil, fmt.Errorf("CACHE_ENABLED: %w", err)
	}
	if cfg.CacheTTL, err = time.ParseDuration(envOrDefault("CACHE_TTL", "5m")); err != nil {
		return nil, fmt.Errorf("CACHE_TTL: %w", err)
	}
	if cfg.APIRateLimit, err = strconv.Atoi(envOrDefault("API_RATE_LIMIT", "120")); err != nil {
		return nil, fmt.Errorf("API_RATE_LIMIT: %w", err)
	}

	switch cfg.Backend {
	case BackendJSON, BackendPostgres, BackendSQLite:
	default:
		return nil, fmt.Errorf("CONTENT_BACKEND must be one of json, postgres, sqlite (got %q)", cfg.Backend)
	}

	if cfg.Env == "production" && cfg.Backend == BackendPostgres {
		if cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// SQLiteDSN returns the SQLite connection string with a busy timeout so the
// import command and the server can share the file.
func (c *Config) SQLiteDSN() string {
	return "file:" + c.SQLitePath + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// UsesSQL reports whether content is read from a relational store.
func (c *Config) UsesSQL() bool {
	return c.Backend == BackendPostgres || c.Backend == BackendSQLite
}

// SlogLevel maps LogLevel to a slog.Level, defaulting to debug.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "error":
		return slog.LevelError
	case "warn", "warning":
		return slog.LevelWarn
	case "info":
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}

// splitList splits a comma-separated value, dropping empty entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
