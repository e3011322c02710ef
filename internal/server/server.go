// Package server exposes the mentor over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/abhisek/coursementor/internal/config"
	"github.com/abhisek/coursementor/internal/logger"
)

type Server struct {
	http *http.Server
	cfg  config.HTTPConfig
	log  *logger.Logger
}

func New(cfg config.HTTPConfig, svc MentorService, log *logger.Logger) *Server {
	log = log.With("service", "http")
	return &Server{
		http: &http.Server{
			Addr:         cfg.Addr,
			Handler:      NewRouter(NewMentorHandler(svc), log),
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		cfg: cfg,
		log: log,
	}
}

func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", s.cfg.Addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	s.log.Info("shutting down")
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
