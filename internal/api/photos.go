package api

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path"

	"github.com/JaimeStill/forecourt/pkg/handlers"
	"github.com/JaimeStill/forecourt/pkg/openapi"
	"github.com/JaimeStill/forecourt/pkg/routes"
	"github.com/JaimeStill/forecourt/pkg/storage"
)

type photoHandler struct {
	store  storage.System
	logger *slog.Logger
}

func newPhotoHandler(store storage.System, logger *slog.Logger) *photoHandler {
	return &photoHandler{
		store:  store,
		logger: logger.With("handler", "photos"),
	}
}

func (h *photoHandler) routes() routes.Group {
	return routes.Group{
		Prefix: "/photos",
		Tags:   []string{"Photos"},
		Routes: []routes.Route{
			{
				Method:  "GET",
				Pattern: "/{key...}",
				Handler: h.download,
				OpenAPI: &openapi.Operation{
					Summary: "Download a car photo by storage key",
					Parameters: []*openapi.Parameter{
						openapi.KeyParam("key", "Blob storage key of the photo"),
					},
					Responses: map[int]*openapi.Response{
						http.StatusOK:       {Description: "Photo bytes"},
						http.StatusNotFound: openapi.ResponseRef("NotFound"),
					},
				},
			},
		},
	}
}

// download streams a stored car photo. The content type comes from the key's
// extension and falls back to sniffing the first bytes.
func (h *photoHandler) download(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	body, err := h.store.Download(r.Context(), key)
	if err != nil {
		handlers.RespondError(w, h.logger, storage.MapHTTPStatus(err), err)
		return
	}
	defer body.Close()

	br := bufio.NewReaderSize(body, 512)
	contentType := mime.TypeByExtension(path.Ext(key))
	if contentType == "" {
		head, _ := br.Peek(512)
		contentType = http.DetectContentType(head)
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", path.Base(key)))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, br); err != nil {
		h.logger.Warn("photo stream interrupted", "key", key, "error", err)
	}
}
