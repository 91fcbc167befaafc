package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	date, err := parseDate("2020-05-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2020, 5, 1, 0, 0, 0, 0, time.Local), date)

	_, err = parseDate("01/05/2020")
	assert.ErrorContains(t, err, "YYYY-MM-DD")
}

func TestPrintErrorRendersCauseChain(t *testing.T) {
	root := errors.New("connection reset by peer")
	err := fmt.Errorf("sort parcels: %w", fmt.Errorf("sync depot Leeds: %w", root))

	var buf bytes.Buffer
	printError(&buf, "Sorting run failed.", err)

	out := buf.String()
	assert.Contains(t, out, "Sorting run failed.")
	assert.Contains(t, out, "error: sort parcels: sync depot Leeds: connection reset by peer")
	assert.Contains(t, out, "caused by: sync depot Leeds: connection reset by peer")
	assert.Contains(t, out, "caused by: connection reset by peer")
}

func setEnv(t *testing.T, routeURL, outDir string) {
	t.Helper()
	t.Setenv("ROUTE_SERVICE_URL", routeURL)
	t.Setenv("ROUTE_SERVICE_TOKEN", "token")
	t.Setenv("ROUTE_BACKOFF", "1ms")
	t.Setenv("OUTPUT_DIR", outDir)
	t.Setenv("STORE", "file")
	t.Setenv("SCHEDULE", "")
	t.Setenv("METRICS_ADDR", "")
	t.Setenv("DEPOTS_FILE", "")
	t.Setenv("LOG_LEVEL", "error")
}

func TestRun(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"eta":"2020-01-01T10:00:00Z","route":"R1"}`)
	}))
	defer srv.Close()

	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")
	setEnv(t, srv.URL, outDir)

	csvPath := filepath.Join(dir, "parcels.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("number,deliveryDate,postcode\r\n1,2020-05-01,B12 3CD\r\n"), 0o600))

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{csvPath, "2020-05-01"}, &stdout, &stderr)

	require.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stdout.String(), filepath.Join(outDir, "Birmingham.json"))

	data, err := os.ReadFile(filepath.Join(outDir, "Birmingham.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"route":"R1"`)
}

func TestRunFailuresExitNonZero(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	dir := t.TempDir()
	setEnv(t, srv.URL, dir)

	csvPath := filepath.Join(dir, "parcels.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("number,deliveryDate,postcode\n1,2020-05-01,B12 3CD\n"), 0o600))

	var stdout, stderr bytes.Buffer
	assert.Equal(t, 2, run(context.Background(), []string{csvPath}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "usage")

	stderr.Reset()
	assert.Equal(t, 2, run(context.Background(), []string{csvPath, "May"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "YYYY-MM-DD")

	stderr.Reset()
	assert.Equal(t, 1, run(context.Background(), []string{csvPath, "2020-05-01"}, &stdout, &stderr))
	assert.True(t, strings.Contains(stderr.String(), "caused by"), stderr.String())
	assert.Contains(t, stderr.String(), "status 404")
}
