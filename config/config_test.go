package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/platefinder")
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3003", cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 10, cfg.Database.MaxOpenConns)
	assert.Equal(t, "user-events", cfg.Events.Topic)
	assert.Equal(t, LimitsConfig{Listing: 20, Cuisine: 50, TopRated: 6, TopPerCuisine: 3}, cfg.Limits)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "file::memory:")
	t.Setenv("DATABASE_DRIVER", "sqlite3")
	t.Setenv("PORT", "8080")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("LISTING_DEFAULT_LIMIT", "12")
	t.Setenv("SERVER_WRITE_TIMEOUT", "5s")
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite3", cfg.Database.Driver)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 12, cfg.Limits.Listing)
	assert.Equal(t, 5*time.Second, cfg.Server.WriteTimeout)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
database:
  url: postgres://db/platefinder
logging:
  level: debug
limits:
  cuisine: 25
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres://db/platefinder", cfg.Database.URL)
	assert.Equal(t, "warn", cfg.Logging.Level, "environment wins over file")
	assert.Equal(t, 25, cfg.Limits.Cuisine)
	assert.Equal(t, 20, cfg.Limits.Listing)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing database url", func(c *Config) { c.Database.URL = "" }},
		{"unknown driver", func(c *Config) { c.Database.Driver = "mysql" }},
		{"zero listing limit", func(c *Config) { c.Limits.Listing = 0 }},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }},
		{"non numeric port", func(c *Config) { c.Server.Port = "http" }},
		{"empty topic", func(c *Config) { c.Events.Topic = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			cfg.Database.URL = "postgres://localhost/platefinder"
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	cfg := defaultConfig()
	cfg.Database.URL = "postgres://localhost/platefinder"
	assert.NoError(t, cfg.Validate())
}
