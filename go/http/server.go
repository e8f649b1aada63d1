// Package http runs the HTTP server of the binaries.
package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// Opts holds HTTP server options.
type Opts struct {
	Port                int           `long:"port" env:"PORT" description:"Port to serve HTTP on" default:"8080"`
	ReadTimeout         time.Duration `long:"read-timeout" env:"READ_TIMEOUT" description:"HTTP read timeout" default:"30s"`
	WriteTimeout        time.Duration `long:"write-timeout" env:"WRITE_TIMEOUT" description:"HTTP write timeout" default:"30s"`
	IdleTimeout         time.Duration `long:"idle-timeout" env:"IDLE_TIMEOUT"  description:"HTTP idle timeout" default:"120s"`
	GracefulStopTimeout int           `long:"graceful-stop-timeout" env:"GRACEFUL_STOP_TIMEOUT" description:"How many seconds to wait for graceful stop." default:"30"`
}

// Server holds the HTTP server state.
type Server struct {
	opts *Opts
	log  *slog.Logger
	mux  *http.ServeMux

	// Protects httpServer and stopped.
	mutex      sync.Mutex
	httpServer *http.Server
	stopped    bool

	register   func(*Server) error
	patternSet map[string]struct{}
}

// NewServer creates a new HTTP server. register is called once, before serving, to register the routes.
func NewServer(opts *Opts, register func(*Server) error) *Server {
	return &Server{
		opts:       opts,
		log:        slog.Default(),
		mux:        http.NewServeMux(),
		register:   register,
		patternSet: map[string]struct{}{},
	}
}

func (s *Server) WithLogger(logger *slog.Logger) *Server {
	s.log = logger
	return s
}

// RegisterRoute serves pattern, in http.ServeMux syntax, with handler.
func (s *Server) RegisterRoute(pattern string, handler http.HandlerFunc) error {
	if _, ok := s.patternSet[pattern]; ok {
		return fmt.Errorf("duplicate pattern registered [%s]", pattern)
	}
	s.patternSet[pattern] = struct{}{}
	s.mux.HandleFunc(pattern, handler)
	return nil
}

// Handler registers the routes and returns the handler serving them, with access logs.
func (s *Server) Handler() (http.Handler, error) {
	if err := s.register(s); err != nil {
		return nil, fmt.Errorf("registering routes: %w", err)
	}
	return s.logRequests(s.mux), nil
}

// Serve the HTTP server. It blocks until the server is stopped.
func (s *Server) Serve(ctx context.Context) error {
	handler, err := s.Handler()
	if err != nil {
		return err
	}
	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.opts.Port),
		Handler:      handler,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
		IdleTimeout:  s.opts.IdleTimeout,
	}
	s.mutex.Lock()
	if s.stopped {
		s.mutex.Unlock()
		return nil
	}
	s.httpServer = httpServer
	s.mutex.Unlock()

	s.log.InfoContext(ctx, "starting HTTP server", "port", s.opts.Port)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server exited unexpectedly: %w", err)
	}
	return nil
}

// stop marks the server stopped and returns the running server, if any.
func (s *Server) stop() *http.Server {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.stopped = true
	return s.httpServer
}

// Stop immediately stops the server. A server stopped before Serve never serves.
func (s *Server) Stop() error {
	httpServer := s.stop()
	if httpServer == nil {
		return nil
	}
	s.log.Info("stopping HTTP server")
	return httpServer.Close()
}

// GracefulStop gracefully stops the server, closing it if connections are still open after the timeout.
func (s *Server) GracefulStop() error {
	httpServer := s.stop()
	if httpServer == nil {
		return nil
	}
	s.log.Info("gracefully stopping HTTP server")
	duration := time.Duration(s.opts.GracefulStopTimeout) * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), duration)
	defer cancel()

	err := httpServer.Shutdown(ctx)
	if errors.Is(err, context.DeadlineExceeded) {
		s.log.Warn("graceful shutdown timed out")
		return s.Stop()
	}
	return err
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		s.log.DebugContext(r.Context(), "served request",
			"method", r.Method, "path", r.URL.Path, "status", recorder.status, "duration", time.Since(start))
	})
}
