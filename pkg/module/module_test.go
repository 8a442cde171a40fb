package module_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/forecourt/pkg/module"
)

func echoPath(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte(r.URL.Path))
}

func TestNewPanicsOnBadPrefix(t *testing.T) {
	for _, prefix := range []string{"", "api", "/api/v1"} {
		require.Panics(t, func() { module.New(prefix, http.HandlerFunc(echoPath)) }, prefix)
	}
}

func TestRouterDispatch(t *testing.T) {
	router := module.NewRouter()

	api := module.New("/api", http.HandlerFunc(echoPath))
	api.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Module", "api")
			next.ServeHTTP(w, r)
		})
	})
	router.Mount(api)
	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})

	tests := []struct {
		path       string
		wantBody   string
		wantModule string
	}{
		{"/api/cars/abc", "/cars/abc", "api"},
		{"/api", "/", "api"},
		{"/api/cars/", "/cars", "api"},
		{"/healthz", "ok", ""},
		{"/apiary", "404 page not found\n", ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			require.Equal(t, tt.wantBody, rec.Body.String())
			require.Equal(t, tt.wantModule, rec.Header().Get("X-Module"))
		})
	}
}
