package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// Server manages the HTTP server lifecycle.
type Server struct {
	config *Config
	server *http.Server
	logger *slog.Logger
}

// New creates a server serving handler.
func New(config *Config, handler http.Handler, logger *slog.Logger) *Server {
	return &Server{
		config: config,
		server: &http.Server{
			Addr:           config.Addr(),
			Handler:        handler,
			ReadTimeout:    config.ReadTimeout,
			WriteTimeout:   config.WriteTimeout,
			IdleTimeout:    config.IdleTimeout,
			MaxHeaderBytes: config.MaxHeaderBytes,
			ErrorLog:       slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
		},
		logger: logger,
	}
}

// Serve accepts connections on l until the server is shut down.
// Returns nil after a graceful shutdown.
func (s *Server) Serve(l net.Listener) error {
	s.logger.Debug("Starting HTTP server", "addr", l.Addr().String())
	if err := s.server.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown waits for active connections to finish, up to the deadline of ctx.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Debug("Shutting down server")
	if err := s.server.Shutdown(ctx); err != nil {
		s.logger.Error("Server forced to shutdown", "error", err)
		return err
	}
	s.logger.Debug("Server stopped gracefully")
	return nil
}

// Run listens on the configured port and serves until ctx is cancelled,
// then runs cleanup and shuts down within timeout. Listen and serve
// errors are returned.
func (s *Server) Run(ctx context.Context, timeout time.Duration, cleanup func()) error {
	l, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on port %s: %w", s.config.Port, err)
	}
	return s.RunListener(ctx, l, timeout, cleanup)
}

// RunListener is Run on an existing listener.
func (s *Server) RunListener(ctx context.Context, l net.Listener, timeout time.Duration, cleanup func()) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Serve(l)
	}()

	select {
	case err := <-errCh:
		if cleanup != nil {
			cleanup()
		}
		if err != nil {
			return fmt.Errorf("HTTP server error on port %s: %w", s.config.Port, err)
		}
		return nil
	case <-ctx.Done():
		s.logger.Debug("Shutdown requested", "cause", context.Cause(ctx))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	err := s.Shutdown(shutdownCtx)
	<-errCh

	// Cleanup runs after in-flight requests finished so their counts are saved.
	if cleanup != nil {
		cleanup()
	}
	return err
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
