package verifications

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/forecourt/pkg/handlers"
	"github.com/JaimeStill/forecourt/pkg/middleware"
	"github.com/JaimeStill/forecourt/pkg/pagination"
	"github.com/JaimeStill/forecourt/pkg/routes"
)

// Handler provides HTTP endpoints for the verification queue.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// NewHandler creates a Handler with the given system, logger, and pagination config.
func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "verifications"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for verification endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:  "/verifications",
		Tags:    []string{"Verifications"},
		Schemas: schemas(),
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List, OpenAPI: apiDocs.List},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find, OpenAPI: apiDocs.Find},
			{Method: "POST", Pattern: "/{id}/resolve", Handler: h.Resolve, OpenAPI: apiDocs.Resolve},
			{Method: "POST", Pattern: "/{id}/dismiss", Handler: h.Dismiss, OpenAPI: apiDocs.Dismiss},
		},
	}
}

// List returns a page of queue entries, filtered by status, reason, or source.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)

	result, err := h.sys.List(r.Context(), page, FiltersFromQuery(r.URL.Query()))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find returns a single queue entry.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalid)
		return
	}

	v, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, v)
}

// Resolve links a pending entry to the car in the request body.
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalid)
		return
	}

	cmd, err := handlers.DecodeJSON[ResolveCommand](r)
	if err != nil {
		handlers.RespondError(w, h.logger, handlers.DecodeStatus(err), err)
		return
	}
	cmd.By = reviewer(r, cmd.By)

	v, err := h.sys.Resolve(r.Context(), id, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, v)
}

// Dismiss closes a pending entry. The body is optional.
func (h *Handler) Dismiss(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalid)
		return
	}

	var cmd DismissCommand
	if r.ContentLength > 0 {
		if cmd, err = handlers.DecodeJSON[DismissCommand](r); err != nil {
			handlers.RespondError(w, h.logger, handlers.DecodeStatus(err), err)
			return
		}
	}
	cmd.By = reviewer(r, cmd.By)

	v, err := h.sys.Dismiss(r.Context(), id, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, v)
}

// reviewer prefers the authenticated subject over a name supplied in the body.
func reviewer(r *http.Request, claimed string) string {
	if p, ok := middleware.PrincipalFrom(r.Context()); ok {
		if p.Email != "" {
			return p.Email
		}
		return p.Subject
	}
	if claimed != "" {
		return claimed
	}
	return "anonymous"
}
