package logger

import (
	"testing"

	"edututor/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestInitialize(t *testing.T) {
	require.NoError(t, Initialize(config.LoggerConfig{Env: "production", Level: "debug"}))
	assert.True(t, Get().Core().Enabled(zapcore.DebugLevel))

	require.NoError(t, Initialize(config.LoggerConfig{Env: "development", Level: "warn"}))
	assert.False(t, Get().Core().Enabled(zapcore.InfoLevel))
	assert.True(t, Get().Core().Enabled(zapcore.WarnLevel))
}

func TestInitialize_InvalidLevel(t *testing.T) {
	assert.Error(t, Initialize(config.LoggerConfig{Level: "loud"}))
}
