package interfaces

// Logger defines the interface for logging throughout the pipeline.
// This abstraction keeps the core independent of the logging backend.
//
// Example usage:
//
//	logger.Warn("Unsupported tag degraded to text", map[string]interface{}{
//		"tag":     "video",
//		"context": "<video src=...>",
//	})
type Logger interface {
	// Debug logs a debug level message with optional structured fields.
	Debug(msg string, fields map[string]interface{})

	// Info logs an info level message with optional structured fields.
	Info(msg string, fields map[string]interface{})

	// Warn logs a warning level message with optional structured fields.
	Warn(msg string, fields map[string]interface{})

	// Error logs an error level message with optional structured fields.
	Error(msg string, fields map[string]interface{})
}

// NopLogger discards everything. Components fall back to it when no
// logger is injected.
type NopLogger struct{}

func (NopLogger) Debug(string, map[string]interface{}) {}
func (NopLogger) Info(string, map[string]interface{})  {}
func (NopLogger) Warn(string, map[string]interface{})  {}
func (NopLogger) Error(string, map[string]interface{}) {}
