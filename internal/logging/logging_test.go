package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		format    string
		wantLevel logrus.Level
		wantErr   bool
	}{
		{name: "defaults", wantLevel: logrus.InfoLevel},
		{name: "debug json", level: "debug", format: "json", wantLevel: logrus.DebugLevel},
		{name: "upper case format", level: "warn", format: "TEXT", wantLevel: logrus.WarnLevel},
		{name: "bad level", level: "loud", wantErr: true},
		{name: "bad format", format: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.level, tt.format, &bytes.Buffer{})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLevel, logger.GetLevel())
		})
	}
}

func TestNew_UnknownFormatSentinel(t *testing.T) {
	_, err := New("info", "xml", &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestLogError(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New("info", FormatJSON, &buf)
	require.NoError(t, err)

	LogError(logger, "web", "handleSell", "selling product", map[string]int{"id": 3}, errors.New("disk unavailable"))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "error", rec["level"])
	assert.Equal(t, "disk unavailable", rec["msg"])
	assert.Equal(t, "web", rec["module"])
	assert.Equal(t, "handleSell", rec["funcName"])
	assert.Equal(t, "selling product", rec["context"])
	assert.Equal(t, map[string]any{"id": float64(3)}, rec["data"])
}

func TestLogError_NoData(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New("info", FormatJSON, &buf)
	require.NoError(t, err)

	LogError(logger, "cmd", "serve", "listening", nil, errors.New("port in use"))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	_, ok := rec["data"]
	assert.False(t, ok)
}
