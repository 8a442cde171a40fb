package storage

import (
	"errors"
	"fmt"

	"github.com/JaimeStill/forecourt/pkg/envvar"
	"github.com/JaimeStill/forecourt/pkg/formatting"
)

// Providers supported by New.
const (
	ProviderAzure  = "azure"
	ProviderMemory = "memory"
)

// Config holds blob storage settings. The azure provider authenticates with
// ConnectionString when set and otherwise with AccountURL and the default Azure credential chain.
type Config struct {
	Provider         string `toml:"provider"`
	ContainerName    string `toml:"container_name"`
	ConnectionString string `toml:"connection_string"`
	AccountURL       string `toml:"account_url"`
	MaxUploadSize    string `toml:"max_upload_size"`
}

// Env names the environment variables that override Config fields.
type Env struct {
	Provider         string
	ContainerName    string
	ConnectionString string
	AccountURL       string
	MaxUploadSize    string
}

// MaxUploadBytes returns MaxUploadSize in bytes.
func (c *Config) MaxUploadBytes() int64 {
	n, _ := formatting.ParseBytes(c.MaxUploadSize)
	return n
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		src := envvar.OS
		src.String(env.Provider, &c.Provider)
		src.String(env.ContainerName, &c.ContainerName)
		src.String(env.ConnectionString, &c.ConnectionString)
		src.String(env.AccountURL, &c.AccountURL)
		src.String(env.MaxUploadSize, &c.MaxUploadSize)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Provider != "" {
		c.Provider = overlay.Provider
	}
	if overlay.ContainerName != "" {
		c.ContainerName = overlay.ContainerName
	}
	if overlay.ConnectionString != "" {
		c.ConnectionString = overlay.ConnectionString
	}
	if overlay.AccountURL != "" {
		c.AccountURL = overlay.AccountURL
	}
	if overlay.MaxUploadSize != "" {
		c.MaxUploadSize = overlay.MaxUploadSize
	}
}

func (c *Config) loadDefaults() {
	if c.Provider == "" {
		c.Provider = ProviderAzure
	}
	if c.ContainerName == "" {
		c.ContainerName = "car-photos"
	}
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "10MB"
	}
}

func (c *Config) validate() error {
	if n, err := formatting.ParseBytes(c.MaxUploadSize); err != nil || n <= 0 {
		return fmt.Errorf("invalid max_upload_size %q", c.MaxUploadSize)
	}

	switch c.Provider {
	case ProviderMemory:
		return nil
	case ProviderAzure:
		if c.ContainerName == "" {
			return errors.New("container_name required")
		}
		if c.ConnectionString == "" && c.AccountURL == "" {
			return errors.New("connection_string or account_url required")
		}
		return nil
	default:
		return fmt.Errorf("unknown storage provider %q", c.Provider)
	}
}
