package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"olympicstats/internal/config"
	"olympicstats/pkg/contracts"
)

// DatasetState reports the progress of the one-time dataset load
type DatasetState interface {
	Loaded() (done bool, err error)
}

// HealthService provides health check functionality
type HealthService struct {
	version   string
	buildTime string
	gitCommit string
	paths     *config.Paths
	dataset   DatasetState
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Services  map[string]interface{} `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Uptime  string `json:"uptime,omitempty"`
}

// SystemStats represents system statistics
type SystemStats struct {
	UptimeSeconds  float64 `json:"uptime_seconds"`
	OutputFiles    int     `json:"output_files"`
	OutputBytes    int64   `json:"output_bytes"`
	GoVersion      string  `json:"go_version"`
	OS             string  `json:"os"`
	Arch           string  `json:"arch"`
	NumGoroutine   int     `json:"goroutines"`
	DatasetLoaded  bool    `json:"dataset_loaded"`
	DatasetFailure string  `json:"dataset_failure,omitempty"`
}

// NewHealthService creates a health service. paths and dataset may be nil.
func NewHealthService(version, buildTime, gitCommit string, paths *config.Paths, dataset DatasetState, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("HealthService initialized",
		slog.String("version", version),
		slog.String("build_time", buildTime),
		slog.String("git_commit", gitCommit))

	return &HealthService{
		version:   version,
		buildTime: buildTime,
		gitCommit: gitCommit,
		paths:     paths,
		dataset:   dataset,
		startTime: time.Now(),
		logger:    logger.With(slog.String("component", "health_service")),
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	hs.logger.DebugContext(ctx, "HealthCheck: performing health check",
		slog.String("uptime", time.Since(hs.startTime).String()))

	return HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   hs.version,
	}
}

// ReadinessCheck reports ready once the dataset is loaded and the output
// directory is writable
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   hs.version,
		Services: map[string]interface{}{
			"dataset": hs.checkDatasetHealth(),
			"output":  hs.checkOutputHealth(),
		},
	}

	for _, service := range status.Services {
		if sh, ok := service.(ServiceHealth); ok && sh.Status != "ready" {
			status.Status = "not_ready"
			break
		}
	}
	return status
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime: map[string]interface{}{
			"uptime":     time.Since(hs.startTime).Seconds(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
}

// Version returns version information
func (hs *HealthService) Version() map[string]interface{} {
	result := map[string]interface{}{
		"version":      hs.version,
		"prerelease":   contracts.IsPrerelease(),
		"go_version":   runtime.Version(),
		"os":           runtime.GOOS,
		"arch":         runtime.GOARCH,
		"uptime":       time.Since(hs.startTime).Seconds(),
		"start_time":   hs.startTime.Format(time.RFC3339),
		"current_time": time.Now().Format(time.RFC3339),
	}
	if hs.buildTime != "" {
		result["build_time"] = hs.buildTime
	}
	if hs.gitCommit != "" {
		result["git_commit"] = hs.gitCommit
	}
	return result
}

// SystemStats returns system statistics
func (hs *HealthService) SystemStats(ctx context.Context) SystemStats {
	stats := SystemStats{
		UptimeSeconds: time.Since(hs.startTime).Seconds(),
		GoVersion:     runtime.Version(),
		OS:            runtime.GOOS,
		Arch:          runtime.GOARCH,
		NumGoroutine:  runtime.NumGoroutine(),
	}

	if hs.paths != nil {
		_ = filepath.Walk(hs.paths.RootDir, func(path string, info os.FileInfo, err error) error {
			if err == nil && !info.IsDir() {
				stats.OutputFiles++
				stats.OutputBytes += info.Size()
			}
			return nil
		})
	}

	if hs.dataset != nil {
		done, err := hs.dataset.Loaded()
		stats.DatasetLoaded = done && err == nil
		if err != nil {
			stats.DatasetFailure = err.Error()
		}
	}
	return stats
}

// checkDatasetHealth reports the dataset load. A failed load keeps its reason.
func (hs *HealthService) checkDatasetHealth() ServiceHealth {
	if hs.dataset == nil {
		return ServiceHealth{Status: "not_ready", Message: "analysis service not initialized"}
	}
	done, err := hs.dataset.Loaded()
	switch {
	case err != nil:
		return ServiceHealth{Status: "failed", Message: err.Error()}
	case !done:
		return ServiceHealth{Status: "not_ready", Message: "dataset not loaded yet"}
	}
	return ServiceHealth{
		Status:  "ready",
		Message: "dataset loaded",
		Uptime:  time.Since(hs.startTime).String(),
	}
}

// checkOutputHealth checks the output directory is writable
func (hs *HealthService) checkOutputHealth() ServiceHealth {
	if hs.paths == nil {
		return ServiceHealth{Status: "ready", Message: "no output directory configured"}
	}
	if err := hs.paths.EnsureDirectories(); err != nil {
		return ServiceHealth{
			Status:  "not_ready",
			Message: fmt.Sprintf("Cannot write to output directory: %v", err),
		}
	}
	return ServiceHealth{Status: "ready", Message: "output directory is writable"}
}

// GetDetailedHealth returns comprehensive health information
func (hs *HealthService) GetDetailedHealth(ctx context.Context) map[string]interface{} {
	return map[string]interface{}{
		"health":    hs.HealthCheck(ctx),
		"readiness": hs.ReadinessCheck(ctx),
		"liveness":  hs.LivenessCheck(ctx),
		"stats":     hs.SystemStats(ctx),
	}
}
