package eventlog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/shipkraft/shipkraft/internal/adapters/outbound/eventlog"
	"github.com/shipkraft/shipkraft/internal/domain"
)

func TestEmit_LevelsByKind(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	sink := eventlog.New(zap.New(core))

	sink.Emit(domain.Event{Stage: domain.StageSource, Kind: domain.EventFetchFailed, Message: "boom"})
	sink.Emit(domain.Event{Stage: domain.StageTest, Kind: domain.EventStarted, Message: "running"})

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "boom", entries[0].Message)
	assert.Equal(t, zapcore.DebugLevel, entries[1].Level)
}

func TestEmit_CarriesStageKindAndFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	sink := eventlog.New(zap.New(core))

	sink.Emit(domain.Event{
		Stage:   domain.StageTest,
		Kind:    domain.EventParseFailed,
		Message: "unexpected token",
		Fields:  map[string]string{"file": "a.js", "line": "3"},
	})

	require.Equal(t, 1, logs.Len())
	ctx := logs.All()[0].ContextMap()
	assert.Equal(t, domain.StageTest, ctx["stage"])
	assert.Equal(t, domain.EventParseFailed, ctx["kind"])
	assert.Equal(t, "a.js", ctx["file"])
	assert.Equal(t, "3", ctx["line"])
}

func TestEmit_WarnLevelHidesProgress(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	sink := eventlog.New(zap.New(core))

	sink.Emit(domain.Event{Stage: domain.StageFix, Kind: domain.EventFixApplied})
	sink.Emit(domain.Event{Stage: domain.StageGenerate, Kind: domain.EventEnrichmentUnavailable})

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, domain.EventEnrichmentUnavailable, logs.All()[0].ContextMap()["kind"])
}

func TestNew_NilLogger(t *testing.T) {
	assert.NotPanics(t, func() {
		eventlog.New(nil).Emit(domain.Event{Kind: domain.EventSuiteCrashed})
	})
}

func TestNewZap(t *testing.T) {
	log, err := eventlog.NewZap("info", false)
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, log.Core().Enabled(zapcore.DebugLevel))

	log, err = eventlog.NewZap("error", true)
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))

	log, err = eventlog.NewZap("", false)
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.WarnLevel))
	assert.False(t, log.Core().Enabled(zapcore.InfoLevel))

	_, err = eventlog.NewZap("loud", false)
	assert.Error(t, err)
}
