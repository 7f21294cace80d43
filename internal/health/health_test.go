// SPDX-License-Identifier: MIT

package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/ManuGH/streamplayer/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockChecker struct {
	name   string
	status Status
}

func (m *mockChecker) Name() string { return m.name }

func (m *mockChecker) Check(context.Context) CheckResult {
	return CheckResult{Status: m.status}
}

type brokenWriter struct {
	header http.Header
	code   int
}

func (w *brokenWriter) Header() http.Header { return w.header }
func (w *brokenWriter) Write([]byte) (int, error) {
	return 0, errors.New("broken pipe")
}
func (w *brokenWriter) WriteHeader(code int) { w.code = code }

func TestManager_Health(t *testing.T) {
	m := NewManager("v1.0.0")
	m.RegisterChecker(&mockChecker{name: "healthy", status: StatusHealthy})
	m.RegisterChecker(&mockChecker{name: "degraded", status: StatusDegraded})

	resp := m.Health(context.Background(), false)
	assert.Equal(t, StatusHealthy, resp.Status)
	assert.Equal(t, "v1.0.0", resp.Version)
	assert.GreaterOrEqual(t, resp.Uptime, int64(0))
	assert.Nil(t, resp.Checks, "non-verbose liveness skips component checks")

	resp = m.Health(context.Background(), true)
	assert.Equal(t, StatusDegraded, resp.Status)
	assert.Len(t, resp.Checks, 2)
}

func TestManager_Ready(t *testing.T) {
	tests := []struct {
		name       string
		checkers   []Checker
		wantReady  bool
		wantStatus Status
	}{
		{name: "no checkers", wantReady: true, wantStatus: StatusHealthy},
		{
			name:       "degraded is still ready",
			checkers:   []Checker{&mockChecker{name: "a", status: StatusHealthy}, &mockChecker{name: "b", status: StatusDegraded}},
			wantReady:  true,
			wantStatus: StatusDegraded,
		},
		{
			name:       "unhealthy wins over degraded",
			checkers:   []Checker{&mockChecker{name: "a", status: StatusUnhealthy}, &mockChecker{name: "b", status: StatusDegraded}},
			wantReady:  false,
			wantStatus: StatusUnhealthy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager("v1")
			for _, c := range tt.checkers {
				m.RegisterChecker(c)
			}
			resp := m.Ready(context.Background())
			assert.Equal(t, tt.wantReady, resp.Ready)
			assert.Equal(t, tt.wantStatus, resp.Status)
		})
	}
}

func TestManager_ServeHealth(t *testing.T) {
	m := NewManager("v1.0.0")
	m.RegisterChecker(&mockChecker{name: "test", status: StatusUnhealthy})

	w := httptest.NewRecorder()
	m.ServeHealth(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	w = httptest.NewRecorder()
	m.ServeHealth(w, httptest.NewRequest(http.MethodGet, "/healthz?verbose=true", nil))
	assert.Equal(t, http.StatusOK, w.Code, "liveness is 200 even with unhealthy components")

	var resp HealthResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, StatusUnhealthy, resp.Status)
	assert.Len(t, resp.Checks, 1)
}

func TestManager_ServeReady(t *testing.T) {
	m := NewManager("v1.0.0")
	drain := NewDrainChecker()
	m.RegisterChecker(drain)

	w := httptest.NewRecorder()
	m.ServeReady(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	drain.Drain()

	w = httptest.NewRecorder()
	m.ServeReady(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var resp ReadinessResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.False(t, resp.Ready)
	assert.Equal(t, "draining", resp.Checks["shutdown"].Message)
}

func TestManager_ServeEncodingError(t *testing.T) {
	m := NewManager("v1.0.0")

	w := &brokenWriter{header: make(http.Header)}
	assert.NotPanics(t, func() {
		m.ServeHealth(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		m.ServeReady(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	})
	assert.Equal(t, http.StatusOK, w.code)
}

func TestMediaChecker(t *testing.T) {
	dir := t.TempDir()
	full := filepath.Join(dir, "video.mp4")
	require.NoError(t, os.WriteFile(full, []byte("moov"), 0o600))
	empty := filepath.Join(dir, "empty.mp4")
	require.NoError(t, os.WriteFile(empty, nil, 0o600))

	tests := []struct {
		name       string
		path       string
		wantStatus Status
	}{
		{name: "readable", path: full, wantStatus: StatusHealthy},
		{name: "empty", path: empty, wantStatus: StatusDegraded},
		{name: "missing", path: filepath.Join(dir, "missing.mp4"), wantStatus: StatusUnhealthy},
		{name: "directory", path: dir, wantStatus: StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewMediaChecker(func() (string, string) { return tt.path, "video/mp4" })
			assert.Equal(t, "media", c.Name())
			assert.Equal(t, tt.wantStatus, c.Check(context.Background()).Status)
		})
	}
}

func TestPerformStartupChecks(t *testing.T) {
	cfg := config.Defaults()
	cfg.Media.Path = filepath.Join(t.TempDir(), "missing.mp4")
	assert.NoError(t, PerformStartupChecks(context.Background(), cfg), "missing media only warns")

	cfg.API.ListenAddr = ":9090"
	cfg.Metrics.ListenAddr = "127.0.0.1:9090"
	assert.Error(t, PerformStartupChecks(context.Background(), cfg))

	cfg.Metrics.ListenAddr = ""
	assert.NoError(t, PerformStartupChecks(context.Background(), cfg))
}
