package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLoggerFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewFromZap(zap.New(core))

	l.Info("ingest", "upload parsed", map[string]interface{}{"records": 3})
	l.Error("ingest", "upload rejected", map[string]interface{}{"error": errors.New("bad csv")})
	l.Debug("session", "no details", nil)

	entries := logs.AllUntimed()
	require.Len(t, entries, 3)

	first := entries[0].ContextMap()
	assert.Equal(t, "ingest", first["module"])
	assert.Equal(t, map[string]interface{}{"records": 3}, first["details"])

	second := entries[1].ContextMap()
	assert.Equal(t, "bad csv", second["error"])
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)

	assert.Equal(t, "session", entries[2].ContextMap()["module"])
}

func TestNopLogger(t *testing.T) {
	l := NewNop()
	l.Warn("any", "dropped", nil)
	assert.NoError(t, l.Sync())
}
