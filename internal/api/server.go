package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/niveshquant/quantfolio/pkg/config"
	"github.com/niveshquant/quantfolio/pkg/logger"
)

const (
	readTimeout = 15 * time.Second
	idleTimeout = time.Minute
	// writeTimeout is generous because POST /api/v1/analyze runs the
	// full pipeline inside the request.
	writeTimeout = 5 * time.Minute
)

// Server owns the http.Server lifecycle; routing lives in NewRouter.
type Server struct {
	srv    *http.Server
	logger *logger.Logger
}

// New builds the server on the configured port.
func New(cfg *config.Config, log *logger.Logger, router http.Handler) *Server {
	return &Server{
		srv: &http.Server{
			Addr:         ":" + cfg.Port,
			Handler:      router,
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
			IdleTimeout:  idleTimeout,
		},
		logger: log.WithField("addr", ":"+cfg.Port),
	}
}

// Start blocks serving requests until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("Starting API server")

	err := s.srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down API server")

	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}
