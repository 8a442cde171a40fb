package intake

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/forecourt/internal/extraction"
	"github.com/JaimeStill/forecourt/internal/identify"
	"github.com/JaimeStill/forecourt/pkg/handlers"
	"github.com/JaimeStill/forecourt/pkg/routes"
)

// Handler provides HTTP endpoints for message intake and dry-run identification.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "intake"),
	}
}

// DescriptorsRequest carries pre-extracted descriptors of one source.
type DescriptorsRequest struct {
	Source      string                `json:"source"`
	Descriptors []identify.Descriptor `json:"descriptors"`
}

// IdentifyResponse is a dry-run outcome with its rendered trace.
type IdentifyResponse struct {
	identify.Outcome
	Explanation string `json:"explanation"`
}

// Routes returns the route group definition for intake endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Tags:    []string{"Identification"},
		Schemas: schemas(),
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/identify", Handler: h.Identify, OpenAPI: apiDocs.Identify},
		},
		Children: []routes.Group{
			{
				Prefix: "/intake",
				Tags:   []string{"Intake"},
				Routes: []routes.Route{
					{Method: "POST", Pattern: "/messages", Handler: h.Submit, OpenAPI: apiDocs.Submit},
					{Method: "POST", Pattern: "/descriptors", Handler: h.ProcessDescriptors, OpenAPI: apiDocs.ProcessDescriptors},
				},
			},
		},
	}
}

// Submit queues a chat message and returns immediately.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	msg, err := handlers.DecodeJSON[extraction.Message](r)
	if err != nil {
		handlers.RespondError(w, h.logger, handlers.DecodeStatus(err), err)
		return
	}

	if err := h.sys.Submit(msg); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusAccepted, map[string]string{
		"status": "queued",
		"source": msg.Source,
	})
}

// ProcessDescriptors identifies and applies descriptors synchronously.
func (h *Handler) ProcessDescriptors(w http.ResponseWriter, r *http.Request) {
	req, err := handlers.DecodeJSON[DescriptorsRequest](r)
	if err != nil {
		handlers.RespondError(w, h.logger, handlers.DecodeStatus(err), err)
		return
	}

	results, err := h.sys.ProcessDescriptors(r.Context(), req.Source, req.Descriptors)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, results)
}

// Identify runs the identification cascade for a descriptor without recording it.
func (h *Handler) Identify(w http.ResponseWriter, r *http.Request) {
	d, err := handlers.DecodeJSON[identify.Descriptor](r)
	if err != nil {
		handlers.RespondError(w, h.logger, handlers.DecodeStatus(err), err)
		return
	}

	outcome, err := h.sys.Identify(r.Context(), d)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, IdentifyResponse{
		Outcome:     outcome,
		Explanation: outcome.Trace.String(),
	})
}
