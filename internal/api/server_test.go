// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grimm.is/dnswatch/internal/aggregate"
	"grimm.is/dnswatch/internal/category"
	"grimm.is/dnswatch/internal/config"
	"grimm.is/dnswatch/internal/devices"
	"grimm.is/dnswatch/internal/health"
	"grimm.is/dnswatch/internal/logging"
	"grimm.is/dnswatch/internal/metrics"
	"grimm.is/dnswatch/internal/querylog"
)

type staticScanner struct {
	records []querylog.Record
}

func (s *staticScanner) Scan(from, to time.Time) ([]querylog.Record, error) {
	return s.records, nil
}

func newTestServer(t *testing.T, records []querylog.Record) *Server {
	t.Helper()
	logger := logging.New(logging.DefaultConfig())

	cfg := config.Default()
	cfg.DataDir = t.TempDir()

	cats := category.NewStore([]category.Category{
		category.NewCategory("ads", []string{"doubleclick.net"}),
	})
	dir := devices.Load(cfg.DevicesFile(), cfg.DefaultDevices, logger)
	agg := aggregate.New(&staticScanner{records: records}, cats, dir, logger, nil)
	checker := health.NewChecker(cfg, logger)

	return NewServer(cfg, agg, checker, logger, metrics.NewRegistry())
}

func TestHandleSummary(t *testing.T) {
	now := time.Now().Unix()
	srv := newTestServer(t, []querylog.Record{
		{Client: "192.168.1.10", Domain: "doubleclick.net", Timestamp: now, Status: querylog.StatusBlockedGravity},
		{Client: "192.168.1.10", Domain: "ok.example", Timestamp: now, Status: querylog.StatusAllowed},
	})

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/summary?days=1", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var s aggregate.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
	assert.Equal(t, 2, s.TotalQueries)
	assert.Equal(t, 1, s.BlockedQueries)
}

func TestHandleSummary_BadDays(t *testing.T) {
	srv := newTestServer(t, nil)

	for _, q := range []string{"days=0", "days=abc", "days=9999"} {
		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/summary?"+q, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, "query %s", q)
	}
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var st health.Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	assert.False(t, st.QueryLogAccessible, "default db path does not exist in tests")
}

func TestHandleMetadata_NoneYet(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/metadata", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "dnswatch_update_runs_total")
}
