package logging

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/rxlens/rxlens/internal/config"
)

func TestNewBuildsLogger(t *testing.T) {
	l, err := New(config.LogConfig{Level: "debug", Format: "json"})
	require.NoError(t, err)
	require.NotNil(t, l)
}

func TestNewTextFormat(t *testing.T) {
	l, err := New(config.LogConfig{Level: "info", Format: "text"})
	require.NoError(t, err)
	require.NotNil(t, l)
}

func TestFieldsReachSink(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	l := NewFromCore(core)

	l.Info("analysis stored",
		String("analysis_id", "a1"),
		Int("medication_count", 3),
		Float64("confidence", 91.5),
		Bool("cache_hit", false),
		Duration("elapsed", 2*time.Second),
		Err(errors.New("partial failure")),
	)

	entries := observed.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "analysis stored", entries[0].Message)

	fields := entries[0].ContextMap()
	assert.Equal(t, "a1", fields["analysis_id"])
	assert.Equal(t, int64(3), fields["medication_count"])
	assert.Equal(t, 91.5, fields["confidence"])
	assert.Equal(t, false, fields["cache_hit"])
	assert.Equal(t, "partial failure", fields["error"])
}

func TestWithAttachesFields(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	l := NewFromCore(core).With(String("component", "ocr"))

	l.Warn("provider failed")

	entries := observed.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "ocr", entries[0].ContextMap()["component"])
}

func TestNamedAppendsName(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	l := NewFromCore(core).Named("rxlens").Named("http")

	l.Info("listening")

	entries := observed.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "rxlens.http", entries[0].LoggerName)
}

func TestErrNil(t *testing.T) {
	f := Err(nil)
	assert.Equal(t, "error", f.Key)
	assert.Equal(t, "<nil>", f.Value)
}

func TestDefaultLogger(t *testing.T) {
	orig := Default()
	defer SetDefault(orig)

	assert.NotNil(t, Default())

	core, observed := observer.New(zapcore.DebugLevel)
	SetDefault(NewFromCore(core))
	Default().Info("via default")
	require.Len(t, observed.All(), 1)

	// nil must not clobber the default.
	SetDefault(nil)
	assert.NotNil(t, Default())
}
