package logger_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/k1networth/servicedesk-cli/internal/shared/logger"
)

func TestNewWritesJSONWithAppAndEnv(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New("servicedesk-cli", "test", slog.LevelInfo, &buf)

	log.Debug("hidden")
	log.Info("ticket_created", slog.Int("id", 1))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "ticket_created", line["msg"])
	assert.Equal(t, "servicedesk-cli", line["app"])
	assert.Equal(t, "test", line["env"])
	assert.EqualValues(t, 1, line["id"])
}

func TestOpenFileAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	for i := 0; i < 2; i++ {
		f, err := logger.OpenFile(path)
		require.NoError(t, err)
		logger.New("servicedesk-cli", "test", slog.LevelInfo, f).Info("line")
		require.NoError(t, f.Close())
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, bytes.Count(data, []byte("\n")))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
