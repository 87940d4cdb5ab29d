package config

import (
	"fmt"
	"os"
	"time"
)

// Config captures process-level configuration so main stays lean.
type Config struct {
	Addr          string
	DatabaseURL   string
	JWTSigningKey string
	RedisURL      string
	TokenTTL      time.Duration
	AdminUsername string
	AdminPassword string
}

// FromEnv builds a Config from environment variables. The database URL and
// the token signing key have no usable defaults; missing values are a fatal
// startup condition for the caller.
func FromEnv() (Config, error) {
	addr := os.Getenv("MATADAN_ADDR")
	if addr == "" {
		addr = ":5000"
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required")
	}

	signingKey := os.Getenv("JWT_SIGNING_KEY")
	if signingKey == "" {
		return Config{}, fmt.Errorf("JWT_SIGNING_KEY is required")
	}

	adminUser := os.Getenv("ADMIN_USERNAME")
	if adminUser == "" {
		adminUser = "admin"
	}
	adminPass := os.Getenv("ADMIN_PASSWORD")
	if adminPass == "" {
		adminPass = "admin123"
	}

	return Config{
		Addr:          addr,
		DatabaseURL:   dbURL,
		JWTSigningKey: signingKey,
		RedisURL:      os.Getenv("REDIS_URL"),
		TokenTTL:      24 * time.Hour,
		AdminUsername: adminUser,
		AdminPassword: adminPass,
	}, nil
}
