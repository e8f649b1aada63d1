package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-json-experiment/json"
	"github.com/stretchr/testify/require"
)

func TestCombineChecks(t *testing.T) {
	require.NoError(t, CombineChecks()(context.Background()))

	ok := func(context.Context) error { return nil }
	failing := func(context.Context) error { return errors.New("catalog empty") }
	require.NoError(t, CombineChecks(ok, ok)(context.Background()))
	require.EqualError(t, CombineChecks(ok, failing)(context.Background()), "catalog empty")
}

func TestServerHandler(t *testing.T) {
	var checkErr error
	server := NewServer(&Opts{}, func(context.Context) error { return checkErr })
	handler := server.Handler()

	get := func(t *testing.T, path string) (*httptest.ResponseRecorder, *Status) {
		t.Helper()
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, path, nil))
		if path != "/readiness" {
			return recorder, nil
		}
		status := &Status{}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), status))
		return recorder, status
	}

	recorder, _ := get(t, "/liveness")
	require.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	recorder, status := get(t, "/readiness")
	require.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	require.Equal(t, statusNotServing, status.Status)

	server.MarkReady()
	recorder, _ = get(t, "/liveness")
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Equal(t, "ok", recorder.Body.String())
	recorder, status = get(t, "/readiness")
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Equal(t, &Status{Status: statusServing}, status)

	checkErr = errors.New("catalog empty")
	recorder, status = get(t, "/readiness")
	require.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	require.Equal(t, &Status{Status: statusNotServing, Error: "catalog empty"}, status)
}

func TestStopBeforeServe(t *testing.T) {
	require.NoError(t, NewServer(&Opts{}).Stop(context.Background()))
}
