package middleware

import (
	"errors"
	"strings"

	"github.com/JaimeStill/forecourt/pkg/envvar"
)

// CORSConfig holds CORS policy settings.
type CORSConfig struct {
	Enabled          bool     `toml:"enabled"`
	Origins          []string `toml:"origins"`
	AllowedMethods   []string `toml:"allowed_methods"`
	AllowedHeaders   []string `toml:"allowed_headers"`
	AllowCredentials bool     `toml:"allow_credentials"`
	MaxAge           int      `toml:"max_age"`
}

// CORSEnv names the environment variables that override CORSConfig fields.
type CORSEnv struct {
	Enabled          string
	Origins          string
	AllowedMethods   string
	AllowedHeaders   string
	AllowCredentials string
	MaxAge           string
}

// Finalize applies defaults and environment variable overrides.
func (c *CORSConfig) Finalize(env *CORSEnv) error {
	c.loadDefaults()
	if env != nil {
		src := envvar.OS
		src.Bool(env.Enabled, &c.Enabled)
		src.List(env.Origins, &c.Origins)
		src.List(env.AllowedMethods, &c.AllowedMethods)
		src.List(env.AllowedHeaders, &c.AllowedHeaders)
		src.Bool(env.AllowCredentials, &c.AllowCredentials)
		src.Int(env.MaxAge, &c.MaxAge)
	}
	return nil
}

// Merge overwrites fields from overlay. Boolean fields always apply; slice and int
// fields only apply when set.
func (c *CORSConfig) Merge(overlay *CORSConfig) {
	c.Enabled = overlay.Enabled
	c.AllowCredentials = overlay.AllowCredentials

	if overlay.Origins != nil {
		c.Origins = overlay.Origins
	}
	if overlay.AllowedMethods != nil {
		c.AllowedMethods = overlay.AllowedMethods
	}
	if overlay.AllowedHeaders != nil {
		c.AllowedHeaders = overlay.AllowedHeaders
	}
	if overlay.MaxAge > 0 {
		c.MaxAge = overlay.MaxAge
	}
}

func (c *CORSConfig) loadDefaults() {
	if len(c.AllowedMethods) == 0 {
		c.AllowedMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	}
	if len(c.AllowedHeaders) == 0 {
		c.AllowedHeaders = []string{"Content-Type", "Authorization"}
	}
	if c.MaxAge <= 0 {
		c.MaxAge = 3600
	}
}

// AuthConfig configures OIDC bearer token verification.
// JWKSURL defaults to the issuer's /.well-known/jwks.json when empty.
type AuthConfig struct {
	Enabled  bool     `toml:"enabled"`
	Issuer   string   `toml:"issuer"`
	JWKSURL  string   `toml:"jwks_url"`
	Audience string   `toml:"audience"`
	Public   []string `toml:"public"`
}

// AuthEnv names the environment variables that override AuthConfig fields.
type AuthEnv struct {
	Enabled  string
	Issuer   string
	JWKSURL  string
	Audience string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *AuthConfig) Finalize(env *AuthEnv) error {
	if env != nil {
		src := envvar.OS
		src.Bool(env.Enabled, &c.Enabled)
		src.String(env.Issuer, &c.Issuer)
		src.String(env.JWKSURL, &c.JWKSURL)
		src.String(env.Audience, &c.Audience)
	}

	if !c.Enabled {
		return nil
	}
	if c.Issuer == "" {
		return errors.New("issuer required when auth is enabled")
	}
	if c.JWKSURL == "" {
		c.JWKSURL = strings.TrimSuffix(c.Issuer, "/") + "/.well-known/jwks.json"
	}
	return nil
}

// Merge overwrites fields from overlay. Enabled always applies.
func (c *AuthConfig) Merge(overlay *AuthConfig) {
	c.Enabled = overlay.Enabled
	if overlay.Issuer != "" {
		c.Issuer = overlay.Issuer
	}
	if overlay.JWKSURL != "" {
		c.JWKSURL = overlay.JWKSURL
	}
	if overlay.Audience != "" {
		c.Audience = overlay.Audience
	}
	if overlay.Public != nil {
		c.Public = overlay.Public
	}
}
