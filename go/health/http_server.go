package health

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-json-experiment/json"
)

// Opts holds health opts.
type Opts struct {
	Disable      bool          `long:"disable" env:"DISABLE" description:"Set to true to disable health check"`
	Port         int           `long:"port" env:"PORT" description:"Port to serve Health on" default:"4040"`
	CheckTimeout time.Duration `long:"check-timeout" env:"CHECK_TIMEOUT" description:"Timeout of readiness checks" default:"5s"`
}

// Status is the body of readiness responses.
type Status struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

const (
	statusServing    = "SERVING"
	statusNotServing = "NOT_SERVING"
)

// Server serves the liveness and readiness probes.
type Server struct {
	opts       *Opts
	log        *slog.Logger
	check      Check
	ready      bool
	mutex      sync.RWMutex
	httpServer *http.Server
	stopped    bool
}

// NewServer creates a new health check server running checks on readiness probes.
func NewServer(opts *Opts, checks ...Check) *Server {
	return &Server{
		opts:  opts,
		log:   slog.Default(),
		check: CombineChecks(checks...),
	}
}

func (s *Server) WithLogger(logger *slog.Logger) *Server {
	s.log = logger
	return s
}

func (s *Server) isReady() bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.ready
}

// MarkReady marks the server as ready to serve traffic.
// This should be called when your application has finished initialization.
func (s *Server) MarkReady() {
	s.mutex.Lock()
	s.ready = true
	s.mutex.Unlock()
	s.log.Info("health server marked as ready")
}

// Handler returns the probe handlers.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /liveness", func(w http.ResponseWriter, r *http.Request) {
		if !s.isReady() {
			http.Error(w, "server not ready", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /readiness", func(w http.ResponseWriter, r *http.Request) {
		status, code := &Status{Status: statusServing}, http.StatusOK
		if !s.isReady() {
			status, code = &Status{Status: statusNotServing, Error: "server not ready"}, http.StatusServiceUnavailable
		} else if err := s.runCheck(r.Context()); err != nil {
			s.log.DebugContext(r.Context(), "readiness check failed", "error", err)
			status, code = &Status{Status: statusNotServing, Error: err.Error()}, http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		if err := json.MarshalWrite(w, status); err != nil {
			s.log.WarnContext(r.Context(), "writing readiness response", "error", err)
		}
	})
	return mux
}

func (s *Server) runCheck(ctx context.Context) error {
	if s.opts.CheckTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.CheckTimeout)
		defer cancel()
	}
	return s.check(ctx)
}

// Serve starts the HTTP health check server. It blocks until the server is stopped.
func (s *Server) Serve(ctx context.Context) {
	if s.opts.Disable {
		return
	}
	httpServer := &http.Server{
		Addr:        fmt.Sprintf(":%d", s.opts.Port),
		Handler:     s.Handler(),
		BaseContext: func(net.Listener) context.Context { return ctx },
	}
	s.mutex.Lock()
	if s.stopped {
		s.mutex.Unlock()
		return
	}
	s.httpServer = httpServer
	s.mutex.Unlock()

	s.log.InfoContext(ctx, "serving health check", "port", s.opts.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.log.WarnContext(ctx, "health server shutdown unexpectedly", "error", err)
	}
}

// Stop stops the health check server. A server stopped before Serve never serves.
func (s *Server) Stop(ctx context.Context) error {
	s.mutex.Lock()
	s.stopped = true
	httpServer := s.httpServer
	s.mutex.Unlock()
	if httpServer == nil {
		return nil
	}
	s.log.Info("stopping health server")
	return httpServer.Shutdown(ctx)
}
