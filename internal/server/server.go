// Package server runs the bridge's HTTP server.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/brizzai/cms-oauth-bridge/internal/config"
	"github.com/brizzai/cms-oauth-bridge/internal/logger"
	"github.com/brizzai/cms-oauth-bridge/internal/server/handler"
	"go.uber.org/zap"
)

const (
	// defaultShutdownTimeout is the maximum time to wait for server shutdown
	defaultShutdownTimeout = 5 * time.Second
)

// ErrAlreadyStarted is returned when Listen is called twice.
var ErrAlreadyStarted = errors.New("server already started")

// Server owns the HTTP listener serving the bridge routes.
type Server struct {
	config     *config.ServerConfig
	httpServer *http.Server

	mu       sync.Mutex
	listener net.Listener
	errChan  chan error
}

// NewServer creates a server for the routes built by h.
func NewServer(cfg *config.ServerConfig, h *handler.Handler) *Server {
	return &Server{
		config: cfg,
		httpServer: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           h.CreateHTTPHandler(),
			ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		},
		errChan: make(chan error, 1),
	}
}

// Listen binds the listen address and serves in the background.
func (s *Server) Listen() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return ErrAlreadyStarted
	}

	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	s.listener = ln

	go func() {
		logger.Info("Starting server", zap.String("address", ln.Addr().String()))

		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", zap.Error(err))
			s.errChan <- fmt.Errorf("server error: %w", err)
		}
	}()
	return nil
}

// Addr returns the bound address, or the configured one before Listen.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.httpServer.Addr
}

// Errors delivers a Serve failure that happens after Listen returned.
func (s *Server) Errors() <-chan error {
	return s.errChan
}

func (s *Server) shutdownTimeout() time.Duration {
	if s.config.ShutdownTimeout > 0 {
		return s.config.ShutdownTimeout
	}
	return defaultShutdownTimeout
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Info("Shutting down server")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	return nil
}

// Start serves until ctx is cancelled or the server fails.
func (s *Server) Start(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}

	// Wait for context cancellation or server error
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout())
		defer cancel()

		return s.Shutdown(shutdownCtx)

	case err := <-s.errChan:
		return err
	}
}
