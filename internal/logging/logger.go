// Package logging sets up the hclog logger used for diagnostic output and
// the Printer used for user-facing messages.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-hclog"
)

const (
	// EnvLogLevel selects the console log level.
	EnvLogLevel = "P4STUDIO_LOG_LEVEL"
	// EnvJSONLog switches console logging to JSON when set to "1".
	EnvJSONLog = "P4STUDIO_JSON_LOG"
)

// Levels lists the accepted --log-level values.
var Levels = []string{"trace", "debug", "info", "warn", "error"}

// NewLogger creates a logger writing to output (stderr when nil). Extra
// destinations such as a log file are attached with AttachFile.
func NewLogger(name string, level string, output io.Writer) hclog.InterceptLogger {
	if output == nil {
		output = os.Stderr
	}
	return hclog.NewInterceptLogger(&hclog.LoggerOptions{
		Name:       name,
		Level:      hclog.LevelFromString(level),
		JSONFormat: os.Getenv(EnvJSONLog) == "1",
		Output:     output,
		TimeFormat: "2006-01-02T15:04:05Z",
		TimeFn: func() time.Time {
			return time.Now().UTC()
		},
	})
}

// GetLogLevel returns the configured log level from environment.
func GetLogLevel() string {
	level := os.Getenv(EnvLogLevel)
	if level == "" {
		level = "info"
	}
	return level
}

// ValidLevel reports whether level names an hclog level.
func ValidLevel(level string) bool {
	return hclog.LevelFromString(level) != hclog.NoLevel
}

// OpenLogFile creates path, and its directory, for appending.
func OpenLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

// AttachFile copies every record at debug level or above to w, whatever
// the console level is.
func AttachFile(logger hclog.InterceptLogger, w io.Writer) hclog.SinkAdapter {
	sink := hclog.NewSinkAdapter(&hclog.LoggerOptions{
		Level:      hclog.Debug,
		Output:     w,
		TimeFormat: "2006-01-02 15:04:05",
	})
	logger.RegisterSink(sink)
	return sink
}
