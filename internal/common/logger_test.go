package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/berrythewa/clipqr/internal/config"
)

func TestNewLoggerLevels(t *testing.T) {
	cfg := &config.Config{Log: config.LogConfig{Level: "info"}}

	logger, err := NewLogger(cfg, LoggerOptions{})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))

	logger, err = NewLogger(cfg, LoggerOptions{Verbose: true})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	logger, err = NewLogger(cfg, LoggerOptions{Quiet: true})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))
}

func TestNewLoggerUnknownLevelFallsBackToInfo(t *testing.T) {
	cfg := &config.Config{Log: config.LogConfig{Level: "chatty", Format: "json"}}

	logger, err := NewLogger(cfg, LoggerOptions{})

	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestNewLoggerWritesFile(t *testing.T) {
	logDir := filepath.Join(t.TempDir(), "logs")
	cfg := &config.Config{
		Log:         config.LogConfig{Level: "info", EnableFileLogging: true},
		SystemPaths: config.ConfigPaths{LogDir: logDir},
	}

	logger, err := NewLogger(cfg, LoggerOptions{})
	require.NoError(t, err)
	logger.Info("Logger ready")
	_ = logger.Sync()

	data, err := os.ReadFile(filepath.Join(logDir, "clipqr.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Logger ready")
}
