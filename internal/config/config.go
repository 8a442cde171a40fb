// Package config loads the service configuration from TOML files and FORECOURT_
// environment variables.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/forecourt/internal/extraction"
	"github.com/JaimeStill/forecourt/internal/intake"
	"github.com/JaimeStill/forecourt/pkg/database"
	"github.com/JaimeStill/forecourt/pkg/envvar"
	"github.com/JaimeStill/forecourt/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvForecourtEnv             = "FORECOURT_ENV"
	EnvForecourtShutdownTimeout = "FORECOURT_SHUTDOWN_TIMEOUT"
	EnvForecourtVersion         = "FORECOURT_VERSION"
)

// DatabaseEnv names the FORECOURT_DB_ environment variables.
var DatabaseEnv = &database.Env{
	URL:             "FORECOURT_DB_URL",
	Host:            "FORECOURT_DB_HOST",
	Port:            "FORECOURT_DB_PORT",
	Name:            "FORECOURT_DB_NAME",
	User:            "FORECOURT_DB_USER",
	Password:        "FORECOURT_DB_PASSWORD",
	SSLMode:         "FORECOURT_DB_SSL_MODE",
	MaxOpenConns:    "FORECOURT_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "FORECOURT_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "FORECOURT_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "FORECOURT_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	Provider:         "FORECOURT_STORAGE_PROVIDER",
	ContainerName:    "FORECOURT_STORAGE_CONTAINER_NAME",
	ConnectionString: "FORECOURT_STORAGE_CONNECTION_STRING",
	AccountURL:       "FORECOURT_STORAGE_ACCOUNT_URL",
	MaxUploadSize:    "FORECOURT_STORAGE_MAX_UPLOAD_SIZE",
}

var intakeEnv = &intake.Env{
	Window:  "FORECOURT_INTAKE_WINDOW",
	MaxWait: "FORECOURT_INTAKE_MAX_WAIT",
	Workers: "FORECOURT_INTAKE_WORKERS",
}

var extractionEnv = &extraction.Env{
	BaseURL:      "FORECOURT_EXTRACTION_BASE_URL",
	APIKey:       "FORECOURT_EXTRACTION_API_KEY",
	Model:        "FORECOURT_EXTRACTION_MODEL",
	MaxTokens:    "FORECOURT_EXTRACTION_MAX_TOKENS",
	Timeout:      "FORECOURT_EXTRACTION_TIMEOUT",
	Instructions: "FORECOURT_EXTRACTION_INSTRUCTIONS",
}

// Config is the root configuration for the forecourt service.
type Config struct {
	Server          ServerConfig      `toml:"server"`
	Logging         LoggingConfig     `toml:"logging"`
	Database        database.Config   `toml:"database"`
	Storage         storage.Config    `toml:"storage"`
	API             APIConfig         `toml:"api"`
	Intake          intake.Config     `toml:"intake"`
	Extraction      extraction.Config `toml:"extraction"`
	ShutdownTimeout string            `toml:"shutdown_timeout"`
	Version         string            `toml:"version"`
}

// Env returns the FORECOURT_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvForecourtEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Logging.Merge(&overlay.Logging)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.API.Merge(&overlay.API)
	c.Intake.Merge(&overlay.Intake)
	c.Extraction.Merge(&overlay.Extraction)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv(envvar.OS)

	if err := c.validate(); err != nil {
		return err
	}

	sections := []struct {
		name     string
		finalize func() error
	}{
		{"server", c.Server.Finalize},
		{"logging", c.Logging.Finalize},
		{"database", func() error { return c.Database.Finalize(DatabaseEnv) }},
		{"storage", func() error { return c.Storage.Finalize(storageEnv) }},
		{"api", c.API.Finalize},
		{"intake", func() error { return c.Intake.Finalize(intakeEnv) }},
		{"extraction", func() error { return c.Extraction.Finalize(extractionEnv) }},
	}
	for _, s := range sections {
		if err := s.finalize(); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv(src envvar.Source) {
	src.String(EnvForecourtShutdownTimeout, &c.ShutdownTimeout)
	src.String(EnvForecourtVersion, &c.Version)
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvForecourtEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
