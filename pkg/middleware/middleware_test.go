package middleware_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/forecourt/pkg/middleware"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func okHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestStackOrder(t *testing.T) {
	var order []string
	layer := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	var s middleware.Stack
	s.Use(layer("first"), layer("second"))
	s.Use(layer("third"))
	require.Equal(t, 3, s.Len())

	s.Apply(http.HandlerFunc(okHandler)).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, []string{"first", "second", "third"}, order)
}

func TestCORS(t *testing.T) {
	cfg := &middleware.CORSConfig{Enabled: true, Origins: []string{"http://yard.local"}}
	require.NoError(t, cfg.Finalize(nil))
	h := middleware.CORS(cfg)(http.HandlerFunc(okHandler))

	t.Run("allowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "http://yard.local")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, "http://yard.local", rec.Header().Get("Access-Control-Allow-Origin"))
		require.Equal(t, "3600", rec.Header().Get("Access-Control-Max-Age"))
	})

	t.Run("unknown origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "http://elsewhere")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/", nil)
		req.Header.Set("Origin", "http://yard.local")
		req.Header.Set("Access-Control-Request-Method", "POST")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestLoggerRecordsStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	h := middleware.Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/cars?page=2", nil))

	out := buf.String()
	require.Contains(t, out, "level=WARN")
	require.Contains(t, out, "status=418")
	require.Contains(t, out, "uri=\"/cars?page=2\"")
}

func TestRecover(t *testing.T) {
	h := middleware.Recover(discard())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	require.NotPanics(t, func() {
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestMaxBytes(t *testing.T) {
	h := middleware.MaxBytes(4)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := io.ReadAll(r.Body); err != nil {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte("too long"))))
	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

type stubVerifier struct{}

func (stubVerifier) Verify(_ context.Context, raw string) (middleware.Principal, error) {
	if raw != "good" {
		return middleware.Principal{}, errors.New("bad token")
	}
	return middleware.Principal{Subject: "user-1", Email: "sales@yard.local"}, nil
}

func TestAuth(t *testing.T) {
	var seen middleware.Principal
	h := middleware.Auth(stubVerifier{}, discard(), "/healthz")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = middleware.PrincipalFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"missing header", "/cars", "", http.StatusUnauthorized},
		{"wrong scheme", "/cars", "Basic abc", http.StatusUnauthorized},
		{"bad token", "/cars", "Bearer nope", http.StatusUnauthorized},
		{"good token", "/cars", "Bearer good", http.StatusOK},
		{"public path", "/healthz", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			require.Equal(t, tt.want, rec.Code)
		})
	}

	require.Equal(t, "user-1", seen.Subject)
}

func TestAuthConfigFinalize(t *testing.T) {
	disabled := middleware.AuthConfig{}
	require.NoError(t, disabled.Finalize(nil))

	missing := middleware.AuthConfig{Enabled: true}
	require.Error(t, missing.Finalize(nil))

	cfg := middleware.AuthConfig{Enabled: true, Issuer: "https://login.yard.local/"}
	require.NoError(t, cfg.Finalize(nil))
	require.Equal(t, "https://login.yard.local/.well-known/jwks.json", cfg.JWKSURL)
}

func TestNewOIDCVerifierRejectsGarbage(t *testing.T) {
	cfg := &middleware.AuthConfig{Enabled: true, Issuer: "https://login.yard.local", JWKSURL: "http://127.0.0.1:0/jwks"}
	v := middleware.NewOIDCVerifier(context.Background(), cfg)

	_, err := v.Verify(context.Background(), "not-a-jwt")
	require.Error(t, err)
}
