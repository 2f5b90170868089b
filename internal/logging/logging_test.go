package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restoreDefault(t *testing.T) {
	t.Helper()
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{" warn ", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSetup_JSON(t *testing.T) {
	restoreDefault(t)
	var buf bytes.Buffer

	_, err := Setup("warn", FormatJSON, false, &buf)
	require.NoError(t, err)

	slog.Info("hidden")
	slog.Warn("skipping row", "line", 3)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "skipping row", rec["msg"])
	assert.Equal(t, float64(3), rec["line"])
}

func TestSetup_DebugOverridesLevel(t *testing.T) {
	restoreDefault(t)
	var buf bytes.Buffer

	logger, err := Setup("error", FormatText, true, &buf)
	require.NoError(t, err)
	assert.True(t, logger.Enabled(context.Background(), slog.LevelDebug))

	slog.Debug("details")
	assert.Contains(t, buf.String(), "msg=details")
}

func TestSetup_Errors(t *testing.T) {
	restoreDefault(t)
	_, err := Setup("info", "xml", false, &bytes.Buffer{})
	assert.ErrorContains(t, err, "unknown log format")

	_, err = Setup("loud", FormatText, false, &bytes.Buffer{})
	assert.ErrorContains(t, err, "unknown log level")
}
