package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestServerHandler(t *testing.T) {
	server := NewServer(&Opts{}, func(s *Server) error {
		return s.RegisterRoute("GET /ping", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		})
	})
	handler, err := server.Handler()
	require.NoError(t, err)

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusTeapot, recorder.Code)

	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/missing", nil))
	require.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestDuplicateRoute(t *testing.T) {
	server := NewServer(&Opts{}, func(s *Server) error {
		noop := func(http.ResponseWriter, *http.Request) {}
		if err := s.RegisterRoute("GET /ping", noop); err != nil {
			return err
		}
		return s.RegisterRoute("GET /ping", noop)
	})
	_, err := server.Handler()
	require.ErrorContains(t, err, "duplicate pattern registered [GET /ping]")
}

func TestStopBeforeServe(t *testing.T) {
	server := NewServer(&Opts{}, func(*Server) error { return nil })
	require.NoError(t, server.Stop())
	require.NoError(t, server.GracefulStop())
}
