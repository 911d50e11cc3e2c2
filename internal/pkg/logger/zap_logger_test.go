package logger

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewFromZapRecordsModuleAndDetails(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewFromZap(zap.New(core))

	l.Warn("NOTEBOOK", "ignored steps", map[string]interface{}{"notebook_id": "nb-1"})
	l.Info("NOTEBOOK", "nil details", nil)

	entries := logs.All()
	require.Len(t, entries, 2)

	first := entries[0]
	assert.Equal(t, zapcore.WarnLevel, first.Level)
	assert.Equal(t, "ignored steps", first.Message)
	fields := first.ContextMap()
	assert.Equal(t, "NOTEBOOK", fields["module"])
	assert.Equal(t, map[string]interface{}{"notebook_id": "nb-1"}, fields["details"])

	assert.Equal(t, map[string]interface{}{}, entries[1].ContextMap()["details"])
}

func TestErrorAddsErrorRef(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewFromZap(zap.New(core))

	l.Error("NOTEBOOK", "commit failed", map[string]interface{}{"error": "deadlock"})

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "deadlock", logs.All()[0].ContextMap()["error_ref"])
}

func TestNewZapLoggerWritesJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	l := NewZapLogger(path, true)

	l.Debug("TEST", "below file level", nil)
	l.Info("TEST", "written", map[string]interface{}{"k": "v"})
	_ = l.Sync()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines []map[string]interface{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
		lines = append(lines, entry)
	}

	require.Len(t, lines, 1)
	assert.Equal(t, "INFO", lines[0]["level"])
	assert.Equal(t, "written", lines[0]["message"])
	assert.Equal(t, "TEST", lines[0]["module"])
	assert.Contains(t, lines[0], "timestamp")
}

func TestNopLogger(t *testing.T) {
	l := NewNopLogger()
	assert.NotPanics(t, func() {
		l.Error("TEST", "nothing", nil)
		_ = l.Sync()
	})
}
