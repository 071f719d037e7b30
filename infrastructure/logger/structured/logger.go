// ABOUTME: Structured logger backed by logrus implementing interfaces.Logger
// ABOUTME: Supports JSON or text output, level filtering and rotating log files

package structured

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"v2ex-richview/pkg/config"
)

// Rotation limits for file output
const (
	maxFileSizeMB = 500
	maxBackups    = 3
	maxAgeDays    = 28
)

// Logger implements the Logger interface on top of a logrus.Logger
type Logger struct {
	entry *logrus.Entry
}

// New creates a logger from the log configuration. Output goes to stderr
// unless File is set, in which case it goes to a rotating file.
func New(cfg config.LogConfig) (*Logger, error) {
	var out io.Writer = os.Stderr
	if cfg.File != "" {
		out = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    maxFileSizeMB,
			MaxBackups: maxBackups,
			MaxAge:     maxAgeDays,
			Compress:   true,
		}
	}
	return NewWithWriter(cfg, out)
}

// NewWithWriter creates a logger that writes to out
func NewWithWriter(cfg config.LogConfig, out io.Writer) (*Logger, error) {
	level := logrus.InfoLevel
	if cfg.Level != "" {
		parsed, err := logrus.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		level = parsed
	}

	base := logrus.New()
	base.SetOutput(out)
	base.SetLevel(level)
	switch cfg.Format {
	case "", "text":
		base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		base.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("invalid log format %q", cfg.Format)
	}

	return &Logger{entry: logrus.NewEntry(base)}, nil
}

// With returns a logger that adds fields to every entry
func (l *Logger) With(fields map[string]interface{}) *Logger {
	return &Logger{entry: l.entry.WithFields(logrus.Fields(fields))}
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, fields map[string]interface{}) {
	l.entry.WithFields(logrus.Fields(fields)).Debug(msg)
}

// Info logs an info message
func (l *Logger) Info(msg string, fields map[string]interface{}) {
	l.entry.WithFields(logrus.Fields(fields)).Info(msg)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, fields map[string]interface{}) {
	l.entry.WithFields(logrus.Fields(fields)).Warn(msg)
}

// Error logs an error message
func (l *Logger) Error(msg string, fields map[string]interface{}) {
	l.entry.WithFields(logrus.Fields(fields)).Error(msg)
}
