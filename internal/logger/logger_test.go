package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_Levels(t *testing.T) {
	l, err := New(true, false)
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))

	l, err = New(false, true)
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, OrNop(nil))

	core, observed := observer.New(zapcore.InfoLevel)
	l := zap.New(core)
	OrNop(l).Info("kept")
	assert.Equal(t, 1, observed.Len())
}

func TestCandidateFields(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	l := zap.New(core)

	l.Info("scored", CandidateFields("cand_001", "abc123")...)
	l.Info("scored", CandidateFields("", "")...)

	entries := observed.All()
	require.Len(t, entries, 2)
	assert.Equal(t, map[string]interface{}{"candidate_id": "cand_001", "criteria_key": "abc123"}, entries[0].ContextMap())
	assert.Empty(t, entries[1].ContextMap())
}
