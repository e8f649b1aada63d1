package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/malonaz/libphonenumber/go/flags"
)

func TestNewHandler(t *testing.T) {
	opts := &Opts{}
	_, err := flags.ParseArgs(opts, []string{"--out-of-country", "GB", "--max-batch-size", "1"})
	require.NoError(t, err)
	handler, engine, err := newHandler(opts)
	require.NoError(t, err)
	require.NoError(t, catalogCheck(engine)(context.Background()))

	recorder := httptest.NewRecorder()
	handler.ServeMux().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/v1/number?number=%2B16502530000", nil))
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Contains(t, recorder.Body.String(), `"GB":"00 1 650-253-0000"`)
}

func TestNewHandlerWithMissingCatalog(t *testing.T) {
	opts := &Opts{}
	_, err := flags.ParseArgs(opts, []string{"--engine.metadata-file", "/does/not/exist.yaml"})
	require.NoError(t, err)
	_, _, err = newHandler(opts)
	require.Error(t, err)
}
