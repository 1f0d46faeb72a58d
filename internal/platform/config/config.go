// Package config loads service configuration from the environment so main
// stays lean.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config captures everything cmd/server needs to wire the service.
type Config struct {
	Addr          string
	BusinessName  string
	DatabaseURL   string
	JWTSigningKey string

	SMTP  SMTPConfig
	Draft DraftConfig
	Redis RedisConfig

	// PublicRateLimit caps public-form submissions per client IP per window.
	PublicRateLimit  int
	PublicRateWindow time.Duration
}

// SMTPConfig configures the outbound reply-email sender. Sending is disabled
// when Host or User is empty.
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// DraftConfig configures the Gemini draft generator. Drafting is disabled
// when APIKey is empty.
type DraftConfig struct {
	APIKey string
	Model  string
}

// RedisConfig configures the optional Redis backend for the public-form rate
// limiter. The limiter falls back to in-process counters when URL is empty.
type RedisConfig struct {
	URL string
}

// FromEnv builds a Config from environment variables with development
// defaults.
func FromEnv() Config {
	cfg := Config{
		Addr:          envOr("DONATIONDESK_ADDR", ":8080"),
		BusinessName:  envOr("DONATIONDESK_BUSINESS_NAME", "Hometown Coffee"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		JWTSigningKey: envOr("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     envIntOr("SMTP_PORT", 587),
			User:     os.Getenv("SMTP_USER"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     os.Getenv("SMTP_FROM"),
		},
		Draft: DraftConfig{
			APIKey: os.Getenv("GEMINI_API_KEY"),
			Model:  envOr("GEMINI_MODEL", "gemini-2.0-flash"),
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		PublicRateLimit:  envIntOr("PUBLIC_RATE_LIMIT", 10),
		PublicRateWindow: envDurationOr("PUBLIC_RATE_WINDOW", time.Minute),
	}
	if cfg.SMTP.From == "" {
		cfg.SMTP.From = cfg.SMTP.User
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
