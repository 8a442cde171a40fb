package api

import (
	"fmt"

	"github.com/JaimeStill/forecourt/internal/config"
	"github.com/JaimeStill/forecourt/internal/identify"
	"github.com/JaimeStill/forecourt/pkg/openapi"
	"github.com/JaimeStill/forecourt/pkg/routes"
)

// specPath is the module-relative path of the generated OpenAPI document.
const specPath = "/openapi.json"

func routeGroups(domain *Domain, runtime *Runtime) []routes.Group {
	return []routes.Group{
		domain.Cars.Handler().Routes(),
		domain.Verifications.Handler().Routes(),
		domain.Audit.Handler().Routes(),
		domain.Intake.Handler().Routes(),
		domain.Prompts.Handler().Routes(),
		newPhotoHandler(runtime.Storage, runtime.Logger).routes(),
	}
}

// buildSpec documents every route of the API module.
func buildSpec(cfg *config.Config, groups []routes.Group) ([]byte, error) {
	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.API.BasePath)
	spec.Components.AddSchemas(identify.Schemas())

	routes.Describe(spec, groups...)

	data, err := openapi.MarshalJSON(spec)
	if err != nil {
		return nil, fmt.Errorf("marshal openapi: %w", err)
	}
	return data, nil
}
