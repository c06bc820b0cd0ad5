// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

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
	ValkeyDB       int

	// AdminTokenHash is the bcrypt hash of the admin API bearer token.
	// Admin routes answer 503 while it is empty.
	AdminTokenHash string

	// ScriptBaseURL is where Connext.js and Connext.min.js are served from.
	ScriptBaseURL string

	// Comma-separated lists, parsed by the accessor methods below.
	OverridePostTypesRaw string
	TaxonomiesRaw        string

	SettingsCacheTTL time.Duration
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if critical values
// are missing in production mode.
func Load() (*Config, error) {
	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "connext"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "connext"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		AdminTokenHash: os.Getenv("ADMIN_TOKEN_HASH"),
		ScriptBaseURL:  strings.TrimRight(os.Getenv("CONNEXT_SCRIPT_BASE_URL"), "/"),

		OverridePostTypesRaw: envOrDefault("CONNEXT_OVERRIDE_POST_TYPES", "post,page"),
		TaxonomiesRaw:        os.Getenv("CONNEXT_TAXONOMIES"),
	}

	db, err := strconv.Atoi(envOrDefault("VALKEY_DB", "0"))
	if err != nil || db < 0 {
		return nil, fmt.Errorf("VALKEY_DB must be a non-negative integer")
	}
	cfg.ValkeyDB = db

	ttl, err := time.ParseDuration(envOrDefault("SETTINGS_CACHE_TTL", "5m"))
	if err != nil || ttl <= 0 {
		return nil, fmt.Errorf("SETTINGS_CACHE_TTL must be a positive duration")
	}
	cfg.SettingsCacheTTL = ttl

	if cfg.Env == "production" {
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

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// OverridePostTypes returns the post types whose editors may set a
// per-post display override.
func (c *Config) OverridePostTypes() []string {
	return splitList(c.OverridePostTypesRaw)
}

// AllowsOverride reports whether posts of the given type accept an override.
func (c *Config) AllowsOverride(postType string) bool {
	return slices.Contains(c.OverridePostTypes(), postType)
}

// TaxonomyAllowList returns the taxonomies offered as display rules.
// Empty means every public taxonomy.
func (c *Config) TaxonomyAllowList() []string {
	return splitList(c.TaxonomiesRaw)
}

// LogHandler returns the slog handler for the environment: text in
// development, JSON everywhere else.
func (c *Config) LogHandler(w io.Writer) slog.Handler {
	if c.IsDev() {
		return slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
