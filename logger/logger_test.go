package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewLevel(t *testing.T) {
	lggr, err := New("debug")
	require.NoError(t, err)
	assert.True(t, lggr.Desugar().Core().Enabled(zapcore.DebugLevel))

	lggr, err = New("nonsense")
	require.NoError(t, err)
	assert.False(t, lggr.Desugar().Core().Enabled(zapcore.DebugLevel))
	assert.True(t, lggr.Desugar().Core().Enabled(zapcore.InfoLevel))
}

func TestNewWithBadConfig(t *testing.T) {
	_, err := NewWith(func(cfg *zap.Config) { cfg.Encoding = "yaml" })
	assert.ErrorContains(t, err, "build logger")
}
