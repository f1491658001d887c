package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		level     string
		wantDebug bool
		wantInfo  bool
		wantWarn  bool
	}{
		{"debug", true, true, true},
		{"info", false, true, true},
		{"warn", false, false, true},
		{"error", false, false, false},
	}

	ctx := context.Background()
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			log, err := New(tt.level, "text", &bytes.Buffer{})
			require.NoError(t, err)

			assert.Equal(t, tt.wantDebug, log.Enabled(ctx, slog.LevelDebug))
			assert.Equal(t, tt.wantInfo, log.Enabled(ctx, slog.LevelInfo))
			assert.Equal(t, tt.wantWarn, log.Enabled(ctx, slog.LevelWarn))
		})
	}
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := New("info", "json", &buf)
	require.NoError(t, err)

	log.Info("credential created", "id", 7)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "credential created", line["msg"])
	assert.EqualValues(t, 7, line["id"])
}

func TestNew_Errors(t *testing.T) {
	_, err := New("loud", "text", &bytes.Buffer{})
	assert.Error(t, err)

	_, err = New("info", "xml", &bytes.Buffer{})
	assert.Error(t, err)
}
