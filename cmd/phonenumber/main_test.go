package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/go-json-experiment/json"
	"github.com/stretchr/testify/require"

	"github.com/malonaz/libphonenumber/go/flags"
	"github.com/malonaz/libphonenumber/go/numberreport"
	"github.com/malonaz/libphonenumber/go/phonenumber/metadata"
)

func parseOpts(t *testing.T, args ...string) *Opts {
	t.Helper()
	opts := &Opts{}
	_, err := flags.ParseArgs(opts, args)
	require.NoError(t, err)
	return opts
}

func TestRunNumber(t *testing.T) {
	var stdout bytes.Buffer
	opts := parseOpts(t, "--number", "02 3661 8300", "--region", "IT", "--language", "de")
	require.NoError(t, run(context.Background(), opts, nil, &stdout))

	report := &numberreport.Report{}
	require.NoError(t, json.Unmarshal(stdout.Bytes(), report))
	require.Equal(t, "+390236618300", report.Formats.E164)
	require.Equal(t, "011 39 02 3661 8300", report.Formats.OutOfCountry["US"])
	require.Equal(t, "Mailand", report.Location)
}

func TestRunBatch(t *testing.T) {
	var stdout bytes.Buffer
	opts := parseOpts(t, "--batch-file", "-", "--region", "GB")
	require.NoError(t, run(context.Background(), opts, strings.NewReader("020 7946 0958,abc\n"), &stdout))

	response := &numberreport.BatchResponse{}
	require.NoError(t, json.Unmarshal(stdout.Bytes(), response))
	require.Len(t, response.Rows, 2)
	require.Equal(t, "+44 20 7946 0958", response.Rows[0].International)
	require.Equal(t, "NOT_A_NUMBER", response.Rows[1].ErrorType)
}

func TestRunDumpCatalog(t *testing.T) {
	var stdout bytes.Buffer
	require.NoError(t, run(context.Background(), parseOpts(t, "--dump-catalog"), nil, &stdout))

	regions, err := metadata.DecodeYAML(&stdout)
	require.NoError(t, err)
	_, err = metadata.NewRepository(regions)
	require.NoError(t, err)
}

func TestRunErrors(t *testing.T) {
	err := run(context.Background(), parseOpts(t), nil, &bytes.Buffer{})
	require.ErrorIs(t, err, errNothingToDo)

	err = run(context.Background(), parseOpts(t, "--number", "abc"), nil, &bytes.Buffer{})
	require.Error(t, err)

	err = run(context.Background(), parseOpts(t, "--engine.metadata-file", "/does/not/exist.yaml", "--number", "1"), nil, &bytes.Buffer{})
	require.Error(t, err)
}
