package cmd

import (
	"fmt"

	"github.com/berrythewa/clipqr/internal/common"
	"go.uber.org/zap"
)

// SetupLogger creates the zap logger from the loaded config and the
// --verbose/--quiet flags
func SetupLogger() (*zap.Logger, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}
	logger, err := common.NewLogger(cfg, common.LoggerOptions{
		Verbose: verbose,
		Quiet:   quiet,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}
	return logger, nil
}
