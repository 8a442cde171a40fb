// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"net/http"
	"slices"

	"github.com/JaimeStill/forecourt/internal/config"
	"github.com/JaimeStill/forecourt/internal/infrastructure"
	"github.com/JaimeStill/forecourt/pkg/middleware"
	"github.com/JaimeStill/forecourt/pkg/module"
	"github.com/JaimeStill/forecourt/pkg/openapi"
	"github.com/JaimeStill/forecourt/pkg/routes"
)

// NewModule creates the API module with all domain handlers and middleware, serves the
// generated OpenAPI document, and registers the intake batcher with the lifecycle.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(cfg, runtime)
	domain.Intake.Start(infra.Lifecycle)

	groups := routeGroups(domain, runtime)
	mux := http.NewServeMux()
	patterns := routes.Register(mux, groups...)
	runtime.Logger.Debug("routes registered", "count", len(patterns))

	spec, err := buildSpec(cfg, groups)
	if err != nil {
		return nil, err
	}
	mux.HandleFunc("GET "+specPath, openapi.ServeSpec(spec))

	m := module.New(cfg.API.BasePath, mux)
	m.Use(
		middleware.Recover(runtime.Logger),
		middleware.Logger(runtime.Logger),
		middleware.CORS(&cfg.API.CORS),
	)

	if cfg.API.Auth.Enabled {
		verifier := middleware.NewOIDCVerifier(infra.Lifecycle.Context(), &cfg.API.Auth)
		public := append(slices.Clone(cfg.API.Auth.Public), specPath)
		m.Use(middleware.Auth(verifier, runtime.Logger, public...))
	}

	m.Use(middleware.MaxBytes(max(cfg.API.MaxBodySizeBytes(), runtime.MaxUploadSize)))
	return m, nil
}
