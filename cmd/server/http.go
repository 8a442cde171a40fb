package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"

	"github.com/JaimeStill/forecourt/internal/config"
	"github.com/JaimeStill/forecourt/pkg/lifecycle"
)

type httpServer struct {
	http   *http.Server
	logger *slog.Logger
}

func newHTTPServer(cfg *config.ServerConfig, handler http.Handler, logger *slog.Logger) *httpServer {
	return &httpServer{
		http: &http.Server{
			Addr:         cfg.Addr(),
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeoutDuration(),
			WriteTimeout: cfg.WriteTimeoutDuration(),
		},
		logger: logger.With("system", "http"),
	}
}

// Start binds the listener as a startup hook so a port conflict fails startup,
// then serves in the background until shutdown.
func (s *httpServer) Start(lc *lifecycle.Coordinator) {
	lc.OnStartup("http", func(context.Context) error {
		ln, err := net.Listen("tcp", s.http.Addr)
		if err != nil {
			return err
		}

		go func() {
			s.logger.Info("server listening", "addr", ln.Addr().String())
			if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				s.logger.Error("server error", "error", err)
			}
		}()
		return nil
	})

	lc.OnShutdown("http", func(ctx context.Context) error {
		s.logger.Info("shutting down server")
		if err := s.http.Shutdown(ctx); err != nil {
			return err
		}
		s.logger.Info("server shutdown complete")
		return nil
	})
}
