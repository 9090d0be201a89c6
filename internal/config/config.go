// Package config loads process configuration once at startup. Components
// receive the resulting value by reference and never read the environment
// themselves.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	envInternalAPIKey = "FILMGATE_INTERNAL_API_KEY"
	envAccessSecret   = "FILMGATE_JWT_ACCESS_SECRET"
	envRefreshSecret  = "FILMGATE_JWT_REFRESH_SECRET"
	envAccessTTL      = "FILMGATE_JWT_ACCESS_TTL"
	envRefreshTTL     = "FILMGATE_JWT_REFRESH_TTL"
	envAddr           = "FILMGATE_ADDR"
	envPGDSN          = "FILMGATE_PG_DSN"

	defaultAddr       = ":8080"
	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 7 * 24 * time.Hour
)

// Config carries every secret and knob the service needs. Built once by
// Load and treated as immutable afterwards.
type Config struct {
	// InternalAPIKey is the shared secret for trusted first-party callers,
	// compared by exact match. Rotated out-of-band.
	InternalAPIKey string

	// Access and refresh tokens are signed with two distinct secrets and
	// carry two distinct lifetimes.
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration

	Addr  string
	PGDSN string
}

// Load reads configuration from the environment. If a .env file exists in
// the working directory it is loaded first; real environment variables win.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load()
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from the supplied lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		InternalAPIKey: strings.TrimSpace(getenv(envInternalAPIKey)),
		AccessSecret:   []byte(strings.TrimSpace(getenv(envAccessSecret))),
		RefreshSecret:  []byte(strings.TrimSpace(getenv(envRefreshSecret))),
		AccessTTL:      defaultAccessTTL,
		RefreshTTL:     defaultRefreshTTL,
		Addr:           defaultAddr,
		PGDSN:          strings.TrimSpace(getenv(envPGDSN)),
	}
	if addr := strings.TrimSpace(getenv(envAddr)); addr != "" {
		cfg.Addr = addr
	}
	if raw := strings.TrimSpace(getenv(envAccessTTL)); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", envAccessTTL, err)
		}
		cfg.AccessTTL = ttl
	}
	if raw := strings.TrimSpace(getenv(envRefreshTTL)); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", envRefreshTTL, err)
		}
		cfg.RefreshTTL = ttl
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if len(c.AccessSecret) == 0 {
		return fmt.Errorf("missing %s", envAccessSecret)
	}
	if len(c.RefreshSecret) == 0 {
		return fmt.Errorf("missing %s", envRefreshSecret)
	}
	if string(c.AccessSecret) == string(c.RefreshSecret) {
		return errors.New("access and refresh secrets must differ")
	}
	if c.AccessTTL <= 0 || c.RefreshTTL <= 0 {
		return errors.New("token lifetimes must be positive")
	}
	if c.AccessTTL >= c.RefreshTTL {
		return errors.New("access token lifetime must be shorter than refresh")
	}
	return nil
}
