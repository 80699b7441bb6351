// Package config loads application configuration from the environment.
//
// Everything tunable lives here, read once at startup. The session signing
// secret in particular is deliberately configuration, not a constant in
// code: rotate it by restarting with a new SESSION_SECRET (which logs every
// browser out, since existing tokens stop verifying).
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every runtime setting. Fields map 1:1 to environment
// variables; defaults suit local development.
type Config struct {
	Port        int    `env:"PORT"         envDefault:"8080"`
	DBPath      string `env:"DB_PATH"      envDefault:"data/tracker.db"`
	TemplateDir string `env:"TEMPLATE_DIR" envDefault:"web/templates"`
	StaticDir   string `env:"STATIC_DIR"   envDefault:"web/static"`

	// SessionSecret signs session tokens. Required when auth is configured.
	// Generate with: openssl rand -hex 32
	SessionSecret string        `env:"SESSION_SECRET"`
	SessionTTL    time.Duration `env:"SESSION_TTL"   envDefault:"24h"`

	// StoreTimeout bounds each database round-trip made while resolving a
	// session or identity, so a hung store cannot hang requests indefinitely.
	StoreTimeout time.Duration `env:"STORE_TIMEOUT" envDefault:"5s"`

	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	GoogleCallbackURL  string `env:"GOOGLE_CALLBACK_URL"`

	// RedisAddr switches the session store from SQLite to Redis when set
	// (e.g. "localhost:6379"). Needed only for multi-instance deployments.
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
}

// Load reads .env (if present) and then the process environment.
func Load() (Config, error) {
	// A missing .env file is fine — production sets real env vars.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing environment: %w", err)
	}

	if cfg.GoogleCallbackURL == "" {
		cfg.GoogleCallbackURL = fmt.Sprintf("http://localhost:%d/auth/google/callback", cfg.Port)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// AuthConfigured reports whether Google OAuth credentials are present.
// Without them the server still runs, read-only and logged out.
func (c Config) AuthConfigured() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

func (c Config) validate() error {
	if c.AuthConfigured() {
		if c.SessionSecret == "" {
			return errors.New("config: SESSION_SECRET is required when Google OAuth is configured")
		}
		if len(c.SessionSecret) < 16 {
			return errors.New("config: SESSION_SECRET must be at least 16 characters")
		}
	}
	if c.SessionTTL <= 0 {
		return errors.New("config: SESSION_TTL must be positive")
	}
	if c.StoreTimeout <= 0 {
		return errors.New("config: STORE_TIMEOUT must be positive")
	}
	return nil
}
