// Package logging provides structured logging with file output support.
// It uses environment variables for configuration.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// LoggerCloser wraps a logger and provides a Close method for cleanup
type LoggerCloser struct {
	*log.Logger
	closer io.Closer
}

// Close closes the underlying writer if it's closeable
func (lc *LoggerCloser) Close() error {
	if lc.closer != nil {
		return lc.closer.Close()
	}
	return nil
}

// LevelFromEnv returns the level named by SBPF_LOG_LEVEL, or fallback.
func LevelFromEnv(fallback log.Level) log.Level {
	switch os.Getenv("SBPF_LOG_LEVEL") {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	}
	return fallback
}

// NewLoggerWithWriter creates a new logger with the provided writer
func NewLoggerWithWriter(w io.Writer, level log.Level) *LoggerCloser {
	lg := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Level:           level,
	})

	prefix := os.Getenv("SBPF_LOG_PREFIX")
	if prefix == "" {
		prefix = "sbpf "
	}

	var closer io.Closer
	if c, ok := w.(io.Closer); ok && w != os.Stderr {
		closer = c
	}

	return &LoggerCloser{
		Logger: lg.WithPrefix(prefix),
		closer: closer,
	}
}

// NewLogger creates a new logger based on environment variables
// SBPF_LOG_LEVEL: debug, info, warn, error (overrides level)
// SBPF_LOG_PREFIX: prefix for log messages (default: "sbpf ")
// SBPF_LOG_TO_FILE: when set to "1", logs to a timestamped file instead of stderr
func NewLogger(level log.Level) *LoggerCloser {
	output := io.Writer(os.Stderr)

	if os.Getenv("SBPF_LOG_TO_FILE") == "1" {
		timestamp := time.Now().Format("20060102-150405")
		logFile := fmt.Sprintf("sbpf-%s-debug.log", timestamp)

		f, err := os.OpenFile(logFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
		if err == nil {
			output = f
		}
		// If file creation fails, fall back to stderr
	}

	return NewLoggerWithWriter(output, LevelFromEnv(level))
}

// IsDebug returns true if debug logging is enabled
func IsDebug() bool {
	return os.Getenv("SBPF_LOG_LEVEL") == "debug"
}
