package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestL_DiscardsBeforeInit(t *testing.T) {
	require.NotNil(t, L())
	Info("nobody hears this")
}

func TestInit_WritesToRotatingFile(t *testing.T) {
	dir := t.TempDir()

	l, err := Init(Config{ConfigDir: dir})
	require.NoError(t, err)
	assert.Same(t, l, L())
	assert.Equal(t, log.InfoLevel, l.GetLevel())

	Debug("hidden")
	Info("schedule saved", "date", "2026-03-01")

	data, err := os.ReadFile(filepath.Join(dir, "logs", FileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "schedule saved")
	assert.Contains(t, string(data), "date=2026-03-01")
	assert.NotContains(t, string(data), "hidden")
}

func TestInit_DebugAlsoWritesStderr(t *testing.T) {
	var stderr bytes.Buffer

	l, err := Init(Config{ConfigDir: t.TempDir(), Debug: true, Stderr: &stderr})
	require.NoError(t, err)
	assert.Equal(t, log.DebugLevel, l.GetLevel())

	Debug("engine rejected move", "reason", "OVERLAP")
	Warn("careful")
	Error("boom")

	assert.Contains(t, stderr.String(), "engine rejected move")
	assert.Contains(t, stderr.String(), "timebox")
}
