package logging

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerEmitsFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewLoggerFromCore(core)

	log.Info("risk assessment finished",
		String("assessment_id", "ra-001"),
		Int("total_risks", 3),
		Float64("top_score", 12.5),
		Bool("degraded", false),
		Duration("elapsed", 120*time.Millisecond),
	)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "risk assessment finished", entry.Message)
	fields := entry.ContextMap()
	assert.Equal(t, "ra-001", fields["assessment_id"])
	assert.EqualValues(t, 3, fields["total_risks"])
	assert.Equal(t, false, fields["degraded"])
}

func TestErrField(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewLoggerFromCore(core)

	log.Warn("embedding backend unavailable", Err(errors.New("connection refused")))
	log.Warn("nil error", Err(nil))

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "connection refused", logs.All()[0].ContextMap()["error"])
	assert.Equal(t, "<nil>", logs.All()[1].ContextMap()["error"])
}

func TestWithAndNamed(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewLoggerFromCore(core).Named("engine").With(String("component", "match"))

	log.Debug("lexical fallback selected")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "engine", entry.LoggerName)
	assert.Equal(t, "match", entry.ContextMap()["component"])
}

func TestParseLevelDefaults(t *testing.T) {
	assert.Equal(t, zapcore.InfoLevel, parseLevel(""))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("nonsense"))
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("ERROR"))
}

func TestDefaultLoggerIsSwappable(t *testing.T) {
	orig := Default()
	t.Cleanup(func() { SetDefault(orig) })

	core, logs := observer.New(zapcore.InfoLevel)
	SetDefault(NewLoggerFromCore(core))
	Default().Info("hello")
	assert.Equal(t, 1, logs.Len())

	// Setting nil is a no-op.
	SetDefault(nil)
	assert.NotNil(t, Default())
}

func TestNewLoggerBuilds(t *testing.T) {
	log, err := NewLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, log)
}
