// Package config loads service configuration from built-in defaults, an
// optional YAML file and the environment, in increasing priority.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPaths are searched in order when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{"config.yaml", "config.yml"}

type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Logging  LoggingConfig  `koanf:"logging"`
	Events   EventsConfig   `koanf:"events"`
	Limits   LimitsConfig   `koanf:"limits"`
}

type ServerConfig struct {
	Port               string        `koanf:"port" validate:"required,numeric"`
	CORSOrigins        []string      `koanf:"cors_origins"`
	RateLimitPerMinute int           `koanf:"rate_limit_per_minute" validate:"gte=0"`
	ReadTimeout        time.Duration `koanf:"read_timeout"`
	WriteTimeout       time.Duration `koanf:"write_timeout"`
}

type DatabaseConfig struct {
	URL          string `koanf:"url" validate:"required"`
	Driver       string `koanf:"driver" validate:"oneof=postgres sqlite3"`
	MaxOpenConns int    `koanf:"max_open_conns" validate:"gt=0"`
	MaxIdleConns int    `koanf:"max_idle_conns" validate:"gte=0"`
}

type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

// EventsConfig selects the broker for user events. An empty NATSURL keeps
// events in process.
type EventsConfig struct {
	NATSURL string `koanf:"nats_url"`
	Topic   string `koanf:"topic" validate:"required"`
}

// LimitsConfig holds the per-endpoint result caps used when a request does
// not carry a positive limit.
type LimitsConfig struct {
	Listing       int `koanf:"listing" validate:"gt=0"`
	Cuisine       int `koanf:"cuisine" validate:"gt=0"`
	TopRated      int `koanf:"top_rated" validate:"gt=0"`
	TopPerCuisine int `koanf:"top_per_cuisine" validate:"gt=0"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:               "3003",
			CORSOrigins:        []string{"http://localhost:3000", "http://localhost:5173"},
			RateLimitPerMinute: 600,
			ReadTimeout:        15 * time.Second,
			WriteTimeout:       30 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:       "postgres",
			MaxOpenConns: 10,
			MaxIdleConns: 0,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Events: EventsConfig{
			Topic: "user-events",
		},
		Limits: LimitsConfig{
			Listing:       20,
			Cuisine:       50,
			TopRated:      6,
			TopPerCuisine: 3,
		},
	}
}

// envMappings maps the environment variables the service has always read
// onto koanf paths. Unlisted variables are ignored.
var envMappings = map[string]string{
	"PORT":                          "server.port",
	"CORS_ORIGINS":                  "server.cors_origins",
	"RATE_LIMIT_PER_MINUTE":         "server.rate_limit_per_minute",
	"SERVER_READ_TIMEOUT":           "server.read_timeout",
	"SERVER_WRITE_TIMEOUT":          "server.write_timeout",
	"DATABASE_URL":                  "database.url",
	"DATABASE_DRIVER":               "database.driver",
	"DATABASE_MAX_OPEN_CONNS":       "database.max_open_conns",
	"DATABASE_MAX_IDLE_CONNS":       "database.max_idle_conns",
	"LOG_LEVEL":                     "logging.level",
	"LOG_FORMAT":                    "logging.format",
	"NATS_URL":                      "events.nats_url",
	"EVENTS_TOPIC":                  "events.topic",
	"LISTING_DEFAULT_LIMIT":         "limits.listing",
	"CUISINE_DEFAULT_LIMIT":         "limits.cuisine",
	"TOP_RATED_DEFAULT_LIMIT":       "limits.top_rated",
	"TOP_PER_CUISINE_DEFAULT_LIMIT": "limits.top_per_cuisine",
}

func envTransform(key string) string {
	return envMappings[key]
}

var sliceConfigPaths = []string{"server.cors_origins"}

// Load builds the configuration and validates it.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks required settings and value ranges.
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL environment variable not set")
	}
	return validate.Struct(c)
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// processSliceFields splits comma-separated env values for slice settings.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		s, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		var parts []string
		for _, p := range strings.Split(s, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		if err := k.Set(path, parts); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}
