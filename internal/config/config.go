// Package config loads process configuration from the environment. The
// resulting Config is built once in main and passed explicitly to the
// services that need it.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds runtime settings for the secrets server.
type Config struct {
	// Port is the HTTP listen port.
	Port string

	// DatabasePath is the path to the SQLite database file.
	DatabasePath string

	// SecretKey signs session cookies (HS256). Minimum 32 bytes.
	SecretKey string

	// SessionTTL is how long an issued session stays valid.
	SessionTTL time.Duration

	// CookieSecure marks auth cookies Secure. Disable only for local
	// development over plain HTTP.
	CookieSecure bool

	// BcryptCost is the work factor for password hashing.
	BcryptCost int

	// GoogleClientID / GoogleClientSecret / GoogleCallbackURL configure
	// the Google sign-in flow. Leaving them empty disables Google routes.
	GoogleClientID     string
	GoogleClientSecret string
	GoogleCallbackURL  string
}

// Load reads configuration from environment variables, applying development
// defaults for everything except SECRET_KEY, which is required.
func Load() (*Config, error) {
	cfg := &Config{
		Port:               envOrDefault("PORT", "3000"),
		DatabasePath:       envOrDefault("DATABASE_PATH", "secrets.db"),
		SecretKey:          os.Getenv("SECRET_KEY"),
		SessionTTL:         24 * time.Hour,
		CookieSecure:       os.Getenv("COOKIE_SECURE") != "false",
		BcryptCost:         12,
		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleCallbackURL:  envOrDefault("GOOGLE_CALLBACK_URL", "http://localhost:3000/auth/google/secrets"),
	}

	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("SECRET_KEY environment variable is required")
	}
	if len(cfg.SecretKey) < 32 {
		return nil, fmt.Errorf("SECRET_KEY must be at least 32 characters for HMAC-SHA256 security")
	}

	if v := os.Getenv("SESSION_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
		}
		if ttl <= 0 {
			return nil, fmt.Errorf("SESSION_TTL must be positive")
		}
		cfg.SessionTTL = ttl
	}

	if v := os.Getenv("BCRYPT_COST"); v != "" {
		cost, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid BCRYPT_COST: %w", err)
		}
		if cost < 4 || cost > 14 {
			return nil, fmt.Errorf("BCRYPT_COST must be between 4 and 14, got %d", cost)
		}
		cfg.BcryptCost = cost
	}

	return cfg, nil
}

// GoogleEnabled reports whether Google sign-in is configured.
func (c *Config) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

func envOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
