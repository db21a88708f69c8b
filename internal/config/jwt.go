package config

import (
	"fmt"
	"os"
	"strconv"
)

// JWTConfig holds the admin session token settings.
type JWTConfig struct {
	Secret          string
	ExpirationHours int
}

// LoadJWT reads session token settings from the environment, applying
// defaults. JWT_SECRET is required; JWT_EXPIRATION_HOURS defaults to 24.
func LoadJWT() (*JWTConfig, error) {
	cfg := &JWTConfig{ExpirationHours: 24}

	cfg.Secret = os.Getenv("JWT_SECRET")
	if cfg.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	if hours := os.Getenv("JWT_EXPIRATION_HOURS"); hours != "" {
		n, err := strconv.Atoi(hours)
		if err != nil {
			return nil, fmt.Errorf("invalid JWT_EXPIRATION_HOURS: %w", err)
		}
		cfg.ExpirationHours = n
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *JWTConfig) Validate() error {
	if c.Secret == "" {
		return fmt.Errorf("session secret is empty")
	}
	if c.ExpirationHours < 1 {
		return fmt.Errorf("session expiration must be at least 1 hour, got %d", c.ExpirationHours)
	}
	return nil
}
