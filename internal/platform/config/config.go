package config

import (
	"fmt"
	"os"
	"time"
)

// Config captures process-level configuration, loaded once at startup.
type Config struct {
	Addr          string
	JWTSigningKey string
	TokenTTL      time.Duration
	DatabaseURL   string
	RedisURL      string
	OTLPEndpoint  string

	// Bootstrap admin seeded at startup when both values are present and
	// no user with the email exists yet.
	BootstrapAdminEmail    string
	BootstrapAdminPassword string
}

// FromEnv builds a Config from environment variables so main stays lean.
// The database connection string is mandatory; everything else has a
// development default or is optional.
func FromEnv() (Config, error) {
	addr := os.Getenv("CONDOGATE_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SECRET")
	if jwtSigningKey == "" {
		// Development default - must be overridden in production.
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	ttl := 7 * 24 * time.Hour
	if raw := os.Getenv("TOKEN_TTL"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("parse TOKEN_TTL: %w", err)
		}
		ttl = parsed
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required")
	}

	return Config{
		Addr:                   addr,
		JWTSigningKey:          jwtSigningKey,
		TokenTTL:               ttl,
		DatabaseURL:            databaseURL,
		RedisURL:               os.Getenv("REDIS_URL"),
		OTLPEndpoint:           os.Getenv("OTLP_ENDPOINT"),
		BootstrapAdminEmail:    os.Getenv("BOOTSTRAP_ADMIN_EMAIL"),
		BootstrapAdminPassword: os.Getenv("BOOTSTRAP_ADMIN_PASSWORD"),
	}, nil
}
