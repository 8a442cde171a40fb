package openapi

import "github.com/JaimeStill/forecourt/pkg/envvar"

// Config holds OpenAPI metadata for spec generation.
type Config struct {
	Title       string `toml:"title"`
	Description string `toml:"description"`
}

// ConfigEnv maps config fields to environment variable names for override injection.
type ConfigEnv struct {
	Title       string
	Description string
}

// Finalize applies defaults and environment variable overrides.
func (c *Config) Finalize(env *ConfigEnv) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(envvar.OS, env)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Title != "" {
		c.Title = overlay.Title
	}
	if overlay.Description != "" {
		c.Description = overlay.Description
	}
}

func (c *Config) loadDefaults() {
	if c.Title == "" {
		c.Title = "Forecourt API"
	}
	if c.Description == "" {
		c.Description = "Dealership inventory and chat-driven car identification service."
	}
}

func (c *Config) loadEnv(src envvar.Source, env *ConfigEnv) {
	src.String(env.Title, &c.Title)
	src.String(env.Description, &c.Description)
}
