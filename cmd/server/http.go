package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/triagekit/triage/internal/config"
	"github.com/triagekit/triage/pkg/lifecycle"
)

type httpServer struct {
	server          *http.Server
	logger          *slog.Logger
	shutdownTimeout time.Duration
}

func newHTTPServer(cfg *config.ServerConfig, handler http.Handler, logger *slog.Logger) *httpServer {
	return &httpServer{
		server: &http.Server{
			Addr:         cfg.Addr(),
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeoutDuration(),
			WriteTimeout: cfg.WriteTimeoutDuration(),
		},
		logger:          logger.With("system", "http"),
		shutdownTimeout: cfg.ShutdownTimeoutDuration(),
	}
}

// Start begins serving and registers graceful shutdown with the lifecycle
// coordinator. Listen errors other than a clean close are logged, not
// returned, since the listener runs past this call.
func (s *httpServer) Start(lc *lifecycle.Coordinator) {
	go func() {
		s.logger.Info("listening", "addr", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("listener failed", "error", err)
		}
	}()

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		s.stop()
	})
}

func (s *httpServer) stop() {
	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		s.logger.Error("shutdown failed", "error", err)
		return
	}
	s.logger.Info("shutdown complete")
}
