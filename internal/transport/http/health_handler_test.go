package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"olympicstats/internal/services"
)

type staticState struct {
	done bool
	err  error
}

func (s staticState) Loaded() (bool, error) { return s.done, s.err }

func TestHealthHandler_Routes(t *testing.T) {
	tests := []struct {
		name       string
		state      staticState
		target     string
		wantCode   int
		wantStatus string
	}{
		{"health", staticState{}, "/", http.StatusOK, "ok"},
		{"live", staticState{}, "/live", http.StatusOK, "alive"},
		{"ready", staticState{done: true}, "/ready", http.StatusOK, "ready"},
		{"not ready while loading", staticState{}, "/ready", http.StatusServiceUnavailable, "not_ready"},
		{"not ready after failure", staticState{done: true, err: errors.New("cannot read data source")}, "/ready", http.StatusServiceUnavailable, "not_ready"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(services.NewHealthService("1.0.0", "", "", nil, tt.state, nil), nil)
			rec, body := doGet(t, h.Routes(), tt.target)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantStatus, body["status"])
		})
	}
}

func TestHealthHandler_Version(t *testing.T) {
	h := NewHealthHandler(services.NewHealthService("1.0.0", "", "abc123", nil, nil, nil), nil)
	rec, body := doGet(t, http.HandlerFunc(h.Version), "/api/version")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1.0.0", body["version"])
	assert.Equal(t, "abc123", body["git_commit"])
	assert.Equal(t, false, body["prerelease"])
}

func TestHealthHandler_Detailed(t *testing.T) {
	h := NewHealthHandler(services.NewHealthService("1.0.0", "", "", nil, staticState{done: true}, nil), nil)
	rec, body := doGet(t, h.Routes(), "/detailed")
	require.Equal(t, http.StatusOK, rec.Code)
	for _, key := range []string{"health", "readiness", "liveness", "stats"} {
		assert.Contains(t, body, key)
	}
	readiness, ok := body["readiness"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "ready", readiness["status"])
}

func TestMetricsHandler(t *testing.T) {
	disabled := httptest.NewRecorder()
	NewMetricsHandler(nil).ServeHTTP(disabled, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, disabled.Code)

	prom := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("# HELP aggregations_total Aggregations computed\n"))
	})
	enabled := httptest.NewRecorder()
	NewMetricsHandler(prom).ServeHTTP(enabled, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, enabled.Code)
	assert.Contains(t, enabled.Body.String(), "aggregations_total")
}
