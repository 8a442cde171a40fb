package extraction

import (
	"fmt"
	"time"

	"github.com/JaimeStill/forecourt/pkg/envvar"
)

// Config holds the settings of the chat completion endpoint used for extraction.
// An empty APIKey disables extraction. Instructions replaces DefaultInstructions; an
// active prompt override replaces both.
type Config struct {
	BaseURL      string  `toml:"base_url"`
	APIKey       string  `toml:"api_key"`
	Model        string  `toml:"model"`
	Temperature  float32 `toml:"temperature"`
	MaxTokens    int     `toml:"max_tokens"`
	Timeout      string  `toml:"timeout"`
	Instructions string  `toml:"instructions"`
}

// Env names the environment variables that override Config fields.
type Env struct {
	BaseURL      string
	APIKey       string
	Model        string
	MaxTokens    string
	Timeout      string
	Instructions string
}

// Enabled reports whether an API key is configured.
func (c *Config) Enabled() bool {
	return c.APIKey != ""
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(envvar.OS, env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.APIKey != "" {
		c.APIKey = overlay.APIKey
	}
	if overlay.Model != "" {
		c.Model = overlay.Model
	}
	if overlay.Temperature != 0 {
		c.Temperature = overlay.Temperature
	}
	if overlay.MaxTokens != 0 {
		c.MaxTokens = overlay.MaxTokens
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.Instructions != "" {
		c.Instructions = overlay.Instructions
	}
}

func (c *Config) loadDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "https://api.openai.com/v1"
	}
	if c.Model == "" {
		c.Model = "gpt-4o-mini"
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = 1024
	}
	if c.Timeout == "" {
		c.Timeout = "30s"
	}
}

func (c *Config) loadEnv(src envvar.Source, env *Env) {
	src.String(env.BaseURL, &c.BaseURL)
	src.String(env.APIKey, &c.APIKey)
	src.String(env.Model, &c.Model)
	src.Int(env.MaxTokens, &c.MaxTokens)
	src.String(env.Timeout, &c.Timeout)
	src.String(env.Instructions, &c.Instructions)
}

func (c *Config) validate() error {
	if d, err := time.ParseDuration(c.Timeout); err != nil || d <= 0 {
		return fmt.Errorf("invalid timeout %q", c.Timeout)
	}
	if c.MaxTokens < 1 {
		return fmt.Errorf("max_tokens must be >= 1, got %d", c.MaxTokens)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2, got %g", c.Temperature)
	}
	return nil
}
