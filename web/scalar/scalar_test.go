package scalar_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/forecourt/web/scalar"
)

func TestModuleServesReference(t *testing.T) {
	m := scalar.NewModule("/scalar", "Forecourt API", "/api/openapi.json", slog.New(slog.NewTextHandler(io.Discard, nil)))

	rec := httptest.NewRecorder()
	m.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/scalar/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	require.Contains(t, rec.Body.String(), `data-url="/api/openapi.json"`)
	require.Contains(t, rec.Body.String(), "<title>Forecourt API</title>")

	rec = httptest.NewRecorder()
	m.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/scalar/missing.js", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}
