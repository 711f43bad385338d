package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/laborguard/complaint-service/internal/config"
	"github.com/laborguard/complaint-service/internal/infrastructure/monitoring/logging"
	"github.com/laborguard/complaint-service/pkg/errors"
)

// Server wraps http.Server with the configured timeouts and a graceful
// shutdown path.
type Server struct {
	srv             *http.Server
	cfg config.ServerConfig
	log             logging.Logger
}

// NewServer builds the server around the route tree.
func NewServer(cfg config.ServerConfig, handler http.Handler, log logging.Logger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		cfg: cfg,
		log:             log,
	}
}

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.log.Info("http server listening", logging.String("addr", s.srv.Addr))
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return errors.Wrap(err, errors.ErrCodeInternal, "http server failed")
	}
	return nil
}

// Shutdown drains in-flight requests within the configured timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
	defer cancel()

	s.log.Info("http server shutting down")
	if err := s.srv.Shutdown(ctx); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "http server shutdown failed")
	}
	return nil
}
