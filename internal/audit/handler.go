package audit

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/forecourt/pkg/handlers"
	"github.com/JaimeStill/forecourt/pkg/openapi"
	"github.com/JaimeStill/forecourt/pkg/pagination"
	"github.com/JaimeStill/forecourt/pkg/routes"
)

// Handler exposes the identification log read-only.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// NewHandler creates a Handler with the given system, logger, and pagination config.
func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "audit"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for the identification log.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/identifications",
		Tags:   []string{"Identifications"},
		Schemas: map[string]*openapi.Schema{
			"Identification": {
				Type: "object",
				Properties: map[string]*openapi.Schema{
					"id":         {Type: "string", Format: "uuid"},
					"source":     {Type: "string"},
					"descriptor": openapi.SchemaRef("Descriptor"),
					"status":     {Type: "string", Enum: []any{"not_found", "found", "multiple_found"}},
					"stage":      {Type: "string"},
					"car_id":     {Type: "string", Format: "uuid"},
					"trace":      openapi.ArrayOf("Step"),
					"created_at": {Type: "string", Format: "date-time"},
				},
			},
		},
		Routes: []routes.Route{
			{
				Method:  "GET",
				Pattern: "",
				Handler: h.List,
				OpenAPI: &openapi.Operation{
					Summary: "List recorded identifications, newest first",
					Parameters: append(openapi.PageParams(),
						openapi.QueryParam("source", "string", "Chat the descriptor came from", false),
						openapi.QueryParam("status", "string", "not_found, found, or multiple_found", false),
						openapi.QueryParam("stage", "string", "Deciding stage", false),
						openapi.QueryParam("car_id", "string", "Resolved car", false),
					),
					Responses: map[int]*openapi.Response{
						http.StatusOK: openapi.ResponseJSON("Page of identifications", "PageResult"),
					},
				},
			},
		},
	}
}

// List returns a page of identifications, newest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)

	result, err := h.sys.List(r.Context(), page, FiltersFromQuery(r.URL.Query()))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
