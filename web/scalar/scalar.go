// Package scalar serves the Scalar API reference UI for the generated OpenAPI document.
package scalar

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/forecourt/pkg/module"
)

//go:embed index.html
var staticFS embed.FS

var page = template.Must(template.ParseFS(staticFS, "index.html"))

// NewModule creates a module that serves the reference UI at basePath for the
// OpenAPI document found at specURL.
func NewModule(basePath, title, specURL string, logger *slog.Logger) *module.Module {
	return module.New(basePath, buildRouter(title, specURL, logger))
}

func buildRouter(title, specURL string, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	data := map[string]string{"Title": title, "SpecURL": specURL}
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := page.Execute(w, data); err != nil {
			logger.Error("render api reference", "error", err)
		}
	})

	return mux
}
