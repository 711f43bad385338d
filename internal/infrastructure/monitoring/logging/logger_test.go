package logging

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest/observer"
	"go.uber.org/zap/zapcore"
)

func newObservedLogger(level zapcore.Level) (Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return NewLoggerFromCore(core), logs
}

func TestLogger_EmitsFields(t *testing.T) {
	log, logs := newObservedLogger(zapcore.InfoLevel)

	log.Info("complaint filed",
		String("complaint_id", "c1"),
		Int("attachments", 2),
		Bool("anonymous", false),
	)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "complaint filed", entry.Message)

	fields := entry.ContextMap()
	assert.Equal(t, "c1", fields["complaint_id"])
	assert.EqualValues(t, 2, fields["attachments"])
	assert.Equal(t, false, fields["anonymous"])
}

func TestLogger_LevelFiltering(t *testing.T) {
	log, logs := newObservedLogger(zapcore.WarnLevel)

	log.Debug("dropped")
	log.Info("dropped")
	log.Warn("kept")
	log.Error("kept")

	assert.Equal(t, 2, logs.Len())
}

func TestLogger_With(t *testing.T) {
	log, logs := newObservedLogger(zapcore.InfoLevel)

	child := log.With(String("service", "complaint"))
	child.Info("first")
	child.Info("second")

	require.Equal(t, 2, logs.Len())
	for _, entry := range logs.All() {
		assert.Equal(t, "complaint", entry.ContextMap()["service"])
	}
	// Parent is not mutated.
	log.Info("parent")
	assert.NotContains(t, logs.All()[2].ContextMap(), "service")
}

func TestErrField(t *testing.T) {
	f := Err(errors.New("boom"))
	assert.Equal(t, "error", f.Key)
	assert.Equal(t, "boom", f.Value)

	f = Err(nil)
	assert.Equal(t, "<nil>", f.Value)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("WARN"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel(""))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("bogus"))
}

func TestDurationField(t *testing.T) {
	log, logs := newObservedLogger(zapcore.InfoLevel)
	log.Info("timed", Duration("elapsed", 250*time.Millisecond))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, 250*time.Millisecond, logs.All()[0].ContextMap()["elapsed"])
}
