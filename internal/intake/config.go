package intake

import (
	"fmt"
	"time"

	"github.com/JaimeStill/forecourt/pkg/envvar"
)

// Config controls message batching.
type Config struct {
	// Window is the quiet period after the last message of a chat before its batch flushes.
	Window string `toml:"window"`
	// MaxWait caps how long a busy chat can hold a batch open.
	MaxWait string `toml:"max_wait"`
	// Workers bounds concurrent batch flushes. Extraction runs in parallel; descriptor
	// processing is serialized by the Processor.
	Workers int `toml:"workers"`
}

// Env names the environment variables that override Config fields.
type Env struct {
	Window  string
	MaxWait string
	Workers string
}

// WindowDuration returns Window as a time.Duration.
func (c *Config) WindowDuration() time.Duration {
	d, _ := time.ParseDuration(c.Window)
	return d
}

// MaxWaitDuration returns MaxWait as a time.Duration.
func (c *Config) MaxWaitDuration() time.Duration {
	d, _ := time.ParseDuration(c.MaxWait)
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
	if overlay.Window != "" {
		c.Window = overlay.Window
	}
	if overlay.MaxWait != "" {
		c.MaxWait = overlay.MaxWait
	}
	if overlay.Workers != 0 {
		c.Workers = overlay.Workers
	}
}

func (c *Config) loadDefaults() {
	if c.Window == "" {
		c.Window = "3s"
	}
	if c.MaxWait == "" {
		c.MaxWait = "30s"
	}
	if c.Workers == 0 {
		c.Workers = 4
	}
}

func (c *Config) loadEnv(src envvar.Source, env *Env) {
	src.String(env.Window, &c.Window)
	src.String(env.MaxWait, &c.MaxWait)
	src.Int(env.Workers, &c.Workers)
}

func (c *Config) validate() error {
	window, err := time.ParseDuration(c.Window)
	if err != nil || window <= 0 {
		return fmt.Errorf("invalid window %q", c.Window)
	}
	maxWait, err := time.ParseDuration(c.MaxWait)
	if err != nil || maxWait < window {
		return fmt.Errorf("max_wait %q must be a duration no shorter than window", c.MaxWait)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be >= 1, got %d", c.Workers)
	}
	return nil
}
