package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		level, mode string
		enabled     zapcore.Level
		disabled    zapcore.Level
	}{
		{"info", "development", zapcore.InfoLevel, zapcore.DebugLevel},
		{"debug", "production", zapcore.DebugLevel, zapcore.DebugLevel - 1},
		{"warn", "release", zapcore.WarnLevel, zapcore.InfoLevel},
		{"ERROR", "", zapcore.ErrorLevel, zapcore.WarnLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level+"/"+tt.mode, func(t *testing.T) {
			logger, err := New(tt.level, tt.mode)
			require.NoError(t, err)
			defer Sync(logger)

			assert.True(t, logger.Core().Enabled(tt.enabled))
			assert.False(t, logger.Core().Enabled(tt.disabled))
		})
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New("chatty", "development")
	assert.Error(t, err)
}

func TestIsProduction(t *testing.T) {
	assert.True(t, IsProduction("production"))
	assert.True(t, IsProduction("release"))
	assert.False(t, IsProduction("development"))
	assert.False(t, IsProduction(""))
}

func TestSync_Nil(t *testing.T) {
	assert.NotPanics(t, func() { Sync(nil) })
}
