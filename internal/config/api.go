package config

import (
	"fmt"

	"github.com/JaimeStill/forecourt/pkg/envvar"
	"github.com/JaimeStill/forecourt/pkg/formatting"
	"github.com/JaimeStill/forecourt/pkg/middleware"
	"github.com/JaimeStill/forecourt/pkg/openapi"
	"github.com/JaimeStill/forecourt/pkg/pagination"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "FORECOURT_CORS_ENABLED",
	Origins:          "FORECOURT_CORS_ORIGINS",
	AllowedMethods:   "FORECOURT_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "FORECOURT_CORS_ALLOWED_HEADERS",
	AllowCredentials: "FORECOURT_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "FORECOURT_CORS_MAX_AGE",
}

var authEnv = &middleware.AuthEnv{
	Enabled:  "FORECOURT_AUTH_ENABLED",
	Issuer:   "FORECOURT_AUTH_ISSUER",
	JWKSURL:  "FORECOURT_AUTH_JWKS_URL",
	Audience: "FORECOURT_AUTH_AUDIENCE",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "FORECOURT_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "FORECOURT_PAGINATION_MAX_PAGE_SIZE",
}

var openAPIEnv = &openapi.ConfigEnv{
	Title:       "FORECOURT_OPENAPI_TITLE",
	Description: "FORECOURT_OPENAPI_DESCRIPTION",
}

// APIConfig holds API routing, body limits, CORS, auth, pagination, and OpenAPI settings.
type APIConfig struct {
	BasePath    string                `toml:"base_path"`
	MaxBodySize string                `toml:"max_body_size"`
	CORS        middleware.CORSConfig `toml:"cors"`
	Auth        middleware.AuthConfig `toml:"auth"`
	Pagination  pagination.Config     `toml:"pagination"`
	OpenAPI     openapi.Config        `toml:"openapi"`
}

// MaxBodySizeBytes returns the JSON request body limit in bytes.
func (c *APIConfig) MaxBodySizeBytes() int64 {
	n, _ := formatting.ParseBytes(c.MaxBodySize)
	return n
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv(envvar.OS)

	if n, err := formatting.ParseBytes(c.MaxBodySize); err != nil || n <= 0 {
		return fmt.Errorf("invalid max_body_size %q", c.MaxBodySize)
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Auth.Finalize(authEnv); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	if err := c.OpenAPI.Finalize(openAPIEnv); err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxBodySize != "" {
		c.MaxBodySize = overlay.MaxBodySize
	}

	c.CORS.Merge(&overlay.CORS)
	c.Auth.Merge(&overlay.Auth)
	c.Pagination.Merge(&overlay.Pagination)
	c.OpenAPI.Merge(&overlay.OpenAPI)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxBodySize == "" {
		c.MaxBodySize = "1MB"
	}
}

func (c *APIConfig) loadEnv(src envvar.Source) {
	src.String("FORECOURT_API_BASE_PATH", &c.BasePath)
	src.String("FORECOURT_API_MAX_BODY_SIZE", &c.MaxBodySize)
}
