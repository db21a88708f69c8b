package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/jobboard")
	t.Setenv("PORT", "")
	t.Setenv("RESUME_DIR", "")
	t.Setenv("PAGE_SIZE", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("ADMIN_EMAIL", "")
	t.Setenv("ADMIN_PASSWORD", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "resumes", cfg.ResumeDir)
	assert.Equal(t, 9, cfg.PageSize)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/jobboard")
	t.Setenv("PORT", "9090")
	t.Setenv("RESUME_DIR", "/var/resumes")
	t.Setenv("PAGE_SIZE", "12")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "/var/resumes", cfg.ResumeDir)
	assert.Equal(t, 12, cfg.PageSize)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/jobboard")
	t.Setenv("PORT", "not-a-number")

	_, err := Load()
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Port:        8080,
			DatabaseURL: "postgres://localhost/jobboard",
			ResumeDir:   "resumes",
			PageSize:    9,
			LogLevel:    "info",
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid config",
			mutate: func(*Config) {},
		},
		{
			name:    "port too low",
			mutate:  func(c *Config) { c.Port = 0 },
			wantErr: "port out of range",
		},
		{
			name:    "port too high",
			mutate:  func(c *Config) { c.Port = 70000 },
			wantErr: "port out of range",
		},
		{
			name:    "page size zero",
			mutate:  func(c *Config) { c.PageSize = 0 },
			wantErr: "page size",
		},
		{
			name:    "page size too large",
			mutate:  func(c *Config) { c.PageSize = 200 },
			wantErr: "page size",
		},
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.LogLevel = "verbose" },
			wantErr: "invalid log level",
		},
		{
			name:    "admin email without password",
			mutate:  func(c *Config) { c.AdminEmail = "admin@example.com" },
			wantErr: "must be set together",
		},
		{
			name:    "admin password without email",
			mutate:  func(c *Config) { c.AdminPassword = "secret" },
			wantErr: "must be set together",
		},
		{
			name: "admin pair accepted",
			mutate: func(c *Config) {
				c.AdminEmail = "admin@example.com"
				c.AdminPassword = "secret"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestLoadJWT(t *testing.T) {
	t.Run("requires secret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")

		_, err := LoadJWT()
		assert.Error(t, err)
	})

	t.Run("defaults expiration", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "test-secret")
		t.Setenv("JWT_EXPIRATION_HOURS", "")

		cfg, err := LoadJWT()
		require.NoError(t, err)
		assert.Equal(t, 24, cfg.ExpirationHours)
	})

	t.Run("rejects non-positive expiration", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "test-secret")
		t.Setenv("JWT_EXPIRATION_HOURS", "0")

		_, err := LoadJWT()
		assert.Error(t, err)
	})
}

func TestPasswordConfig(t *testing.T) {
	t.Run("hash and verify round trip", func(t *testing.T) {
		cfg := &PasswordConfig{BcryptCost: 10}

		hash, err := cfg.HashPassword("correct horse battery staple")
		require.NoError(t, err)

		assert.True(t, cfg.VerifyPassword("correct horse battery staple", hash))
		assert.False(t, cfg.VerifyPassword("wrong password", hash))
	})

	t.Run("pepper changes verification", func(t *testing.T) {
		peppered := &PasswordConfig{BcryptCost: 10, Pepper: "pepper"}
		plain := &PasswordConfig{BcryptCost: 10}

		hash, err := peppered.HashPassword("password123")
		require.NoError(t, err)

		assert.True(t, peppered.VerifyPassword("password123", hash))
		assert.False(t, plain.VerifyPassword("password123", hash))
	})

	t.Run("load defaults cost", func(t *testing.T) {
		t.Setenv("BCRYPT_COST", "")
		t.Setenv("PASSWORD_PEPPER", "")

		cfg, err := LoadPassword()
		require.NoError(t, err)
		assert.Equal(t, 12, cfg.BcryptCost)
	})

	t.Run("rejects out of range cost", func(t *testing.T) {
		t.Setenv("BCRYPT_COST", "20")

		_, err := LoadPassword()
		assert.Error(t, err)
	})
}
