package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"olympicstats/internal/config"
)

// MockDatasetState is a mock for the DatasetState interface
type MockDatasetState struct {
	mock.Mock
}

func (m *MockDatasetState) Loaded() (bool, error) {
	args := m.Called()
	return args.Bool(0), args.Error(1)
}

func TestHealthService_HealthCheck(t *testing.T) {
	hs := NewHealthService("1.2.3", "", "", nil, nil, nil)

	status := hs.HealthCheck(context.Background())
	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, "1.2.3", status.Version)
	assert.False(t, status.Timestamp.IsZero())
}

func TestHealthService_ReadinessCheck(t *testing.T) {
	paths, err := config.NewPaths(t.TempDir())
	require.NoError(t, err)

	tests := []struct {
		name          string
		loaded        bool
		loadErr       error
		wantStatus    string
		datasetStatus string
	}{
		{"loaded", true, nil, "ready", "ready"},
		{"still loading", false, nil, "not_ready", "not_ready"},
		{"load failed", true, errors.New("open data/athlete_events.csv: no such file"), "not_ready", "failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := new(MockDatasetState)
			state.On("Loaded").Return(tt.loaded, tt.loadErr)

			hs := NewHealthService("1.0.0", "", "", paths, state, nil)
			status := hs.ReadinessCheck(context.Background())

			assert.Equal(t, tt.wantStatus, status.Status)
			dataset := status.Services["dataset"].(ServiceHealth)
			assert.Equal(t, tt.datasetStatus, dataset.Status)
			if tt.loadErr != nil {
				assert.Equal(t, tt.loadErr.Error(), dataset.Message)
			}
			assert.Equal(t, "ready", status.Services["output"].(ServiceHealth).Status)
			state.AssertExpectations(t)
		})
	}
}

func TestHealthService_ReadinessWithoutDataset(t *testing.T) {
	hs := NewHealthService("1.0.0", "", "", nil, nil, nil)
	status := hs.ReadinessCheck(context.Background())
	assert.Equal(t, "not_ready", status.Status)
}

func TestHealthService_LivenessAndVersion(t *testing.T) {
	hs := NewHealthService("1.0.0", "2024-07-26", "abc123", nil, nil, nil)

	live := hs.LivenessCheck(context.Background())
	assert.Equal(t, "alive", live.Status)
	assert.Contains(t, live.Runtime, "goroutines")

	version := hs.Version()
	assert.Equal(t, "1.0.0", version["version"])
	assert.Equal(t, "2024-07-26", version["build_time"])
	assert.Equal(t, "abc123", version["git_commit"])

	bare := NewHealthService("1.0.0", "", "", nil, nil, nil).Version()
	assert.NotContains(t, bare, "build_time")
}

func TestHealthService_SystemStats(t *testing.T) {
	paths, err := config.NewPaths(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, paths.EnsureDirectories())
	require.NoError(t, os.WriteFile(filepath.Join(paths.CSVDataDir, "medal_tally.csv"), []byte("NOC\nFRA\n"), 0644))

	state := new(MockDatasetState)
	state.On("Loaded").Return(true, nil)

	stats := NewHealthService("1.0.0", "", "", paths, state, nil).SystemStats(context.Background())
	assert.Equal(t, 1, stats.OutputFiles)
	assert.Equal(t, int64(8), stats.OutputBytes)
	assert.True(t, stats.DatasetLoaded)
	assert.Empty(t, stats.DatasetFailure)

	detailed := NewHealthService("1.0.0", "", "", paths, state, nil).GetDetailedHealth(context.Background())
	assert.Contains(t, detailed, "readiness")
	assert.Contains(t, detailed, "stats")
}
