// ABOUTME: Default implementations for library dependencies
// ABOUTME: Provides factory functions for loggers used by the client

package richview

import (
	"os"

	"v2ex-richview/core/interfaces"
	"v2ex-richview/infrastructure/logger/structured"
	"v2ex-richview/pkg/config"
)

// DefaultLogger creates a text logger on stderr at info level
func DefaultLogger() interfaces.Logger {
	logger, err := structured.NewWithWriter(config.LogConfig{Level: "info", Format: "text"}, os.Stderr)
	if err != nil {
		return QuietLogger()
	}
	return logger
}

// QuietLogger creates a logger that discards all output
func QuietLogger() interfaces.Logger {
	return interfaces.NopLogger{}
}
