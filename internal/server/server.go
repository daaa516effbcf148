package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/phuslu/log"

	"cpgrag/internal/usecase"
)

// Server exposes the answer-composition flow over HTTP.
type Server struct {
	answer *usecase.AnswerUseCase
	logger *log.Logger
	server *http.Server
}

// New creates an HTTP server bound to host:port. The corpus must already be
// loaded by the caller; a missing artifact aborts startup long before the
// listener opens.
func New(host string, port int, answer *usecase.AnswerUseCase, logger *log.Logger) *Server {
	s := &Server{
		answer: answer,
		logger: logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/ask", s.handleAsk)
	mux.HandleFunc("/healthz", s.handleHealth)

	s.server = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", host, port),
		Handler: mux,
		// The write timeout must outlive the single generation attempt so a
		// slow upstream degrades into the excerpt fallback, not a cut
		// connection.
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.logger.Info().Str("address", s.server.Addr).Msg("http server starting")

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down http server")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}
