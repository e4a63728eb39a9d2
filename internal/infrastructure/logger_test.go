package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"olympicstats/internal/config"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"nonsense", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLogLevel(tt.in))
		})
	}
}

func TestNewLogger_ConsoleJSONWithTraceID(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(config.LoggingConfig{Level: "info", Format: "json", Output: "console"}, &buf)
	require.NoError(t, err)

	ctx := WithTraceID(context.Background(), "trace-42")
	logger.DebugContext(ctx, "hidden")
	logger.InfoContext(ctx, "cleaned table ready", "rows", 3)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "cleaned table ready", entry["msg"])
	assert.Equal(t, "trace-42", entry["trace_id"])
	assert.Equal(t, float64(3), entry["rows"])
}

func TestNewLogger_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(config.LoggingConfig{Level: "debug", Format: "text", Output: "console"}, &buf)
	require.NoError(t, err)

	WithComponent(logger, "loader").Debug("reading source")
	assert.Contains(t, buf.String(), "component=loader")
	assert.Contains(t, buf.String(), "msg=\"reading source\"")
}

func TestNewLogger_FileOutput(t *testing.T) {
	t.Cleanup(func() { _ = CloseLogFile() })

	path := filepath.Join(t.TempDir(), "nested", "olympics.log")
	var console bytes.Buffer
	logger, err := NewLogger(config.LoggingConfig{Level: "info", Format: "json", Output: "both", FilePath: path}, &console)
	require.NoError(t, err)

	logger.Info("report written")
	require.NoError(t, CloseLogFile())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "report written")
	assert.Contains(t, console.String(), "report written")
}

func TestTraceIDHelpers(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetTraceID(ctx))

	ctx = EnsureTraceID(ctx)
	id := GetTraceID(ctx)
	assert.Len(t, id, 36)
	assert.Equal(t, id, GetTraceID(EnsureTraceID(ctx)))
}

func TestInitializeLogger_InstallsGlobal(t *testing.T) {
	ResetLoggerForTesting()
	t.Cleanup(ResetLoggerForTesting)
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	var buf bytes.Buffer
	logger, err := InitializeLogger(config.LoggingConfig{Level: "info", Format: "json", Output: "console"}, &buf)
	require.NoError(t, err)
	assert.Same(t, logger, GetLogger())

	ctx := WithTraceID(context.Background(), "trace-7")
	LoggerFromContext(ctx).InfoContext(ctx, "dataset ready")
	slog.Info("via default")

	assert.Contains(t, buf.String(), `"trace_id":"trace-7"`)
	assert.Contains(t, buf.String(), "via default")
}
