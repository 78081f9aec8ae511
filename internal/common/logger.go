package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/berrythewa/clipqr/internal/config"
)

// LoggerOptions are the command-line overrides applied on top of LogConfig
type LoggerOptions struct {
	Verbose bool
	Quiet   bool
	// Stderr keeps console output even when file logging is enabled
	Stderr bool
}

// NewLogger creates a new logger instance from the log section of cfg
func NewLogger(cfg *config.Config, opts LoggerOptions) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zc zap.Config
	switch {
	case opts.Verbose:
		zc = zap.NewDevelopmentConfig()
		level = zapcore.DebugLevel
	case strings.EqualFold(cfg.Log.Format, "json"):
		zc = zap.NewProductionConfig()
	default:
		zc = zap.NewProductionConfig()
		zc.Encoding = "console"
		zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	if opts.Quiet && level < zapcore.WarnLevel {
		level = zapcore.WarnLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.Sampling = nil

	zc.OutputPaths = []string{"stderr"}
	if cfg.Log.EnableFileLogging && cfg.SystemPaths.LogDir != "" {
		if err := os.MkdirAll(cfg.SystemPaths.LogDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		logFile := filepath.Join(cfg.SystemPaths.LogDir, "clipqr.log")
		zc.OutputPaths = []string{logFile}
		if opts.Stderr || opts.Verbose {
			zc.OutputPaths = append(zc.OutputPaths, "stderr")
		}
	}

	return zc.Build()
}
