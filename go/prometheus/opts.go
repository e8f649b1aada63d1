// Package prometheus serves the metrics registered with the default prometheus registry.
package prometheus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Opts holds prometheus opts.
type Opts struct {
	Disable bool `long:"disable" env:"DISABLE" description:"Set to true to disable prometheus metrics"`
	Port    int  `long:"port" env:"PORT" description:"Port to serve Prometheus metrics on" default:"13434"`
}

func (o *Opts) Enabled() bool {
	return o != nil && !o.Disable
}

type Server struct {
	opts     *Opts
	log      *slog.Logger
	gatherer prometheus.Gatherer

	mutex   sync.Mutex
	server  *http.Server
	stopped bool
}

func NewServer(opts *Opts) *Server {
	return &Server{
		opts:     opts,
		log:      slog.Default(),
		gatherer: prometheus.DefaultGatherer,
	}
}

func (s *Server) WithLogger(logger *slog.Logger) *Server {
	s.log = logger
	return s
}

// WithGatherer serves the metrics of gatherer instead of the default registry.
func (s *Server) WithGatherer(gatherer prometheus.Gatherer) *Server {
	s.gatherer = gatherer
	return s
}

// Handler returns the /metrics handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	return mux
}

// Start serves the metrics until Stop is called. It returns immediately when metrics are disabled.
func (s *Server) Start(ctx context.Context) {
	if !s.opts.Enabled() {
		return
	}
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.opts.Port),
		Handler: s.Handler(),
	}
	s.mutex.Lock()
	if s.stopped {
		s.mutex.Unlock()
		return
	}
	s.server = server
	s.mutex.Unlock()

	s.log.InfoContext(ctx, "serving Prometheus metrics", "port", s.opts.Port, "endpoint", "/metrics")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.log.WarnContext(ctx, "prometheus server shutdown unexpectedly", "error", err)
	}
}

func (s *Server) Stop(ctx context.Context) error {
	s.mutex.Lock()
	s.stopped = true
	server := s.server
	s.mutex.Unlock()
	if server == nil {
		return nil
	}
	s.log.Info("stopping Prometheus server")
	if err := server.Shutdown(ctx); err != nil {
		s.log.Error("Prometheus server forced to shutdown", "error", err)
		return err
	}
	return nil
}
