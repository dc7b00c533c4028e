package logging

import (
	"log/slog"
	"os"
	"strings"

	"github.com/sentinel-labs/sentinel-core/internal/infrastructure/config"
)

// serviceName identifies this service in structured log output.
const serviceName = "sentinel"

// Logger wraps slog.Logger with service-specific conveniences.
type Logger struct {
	*slog.Logger
}

// New creates a Logger from the logging configuration.
//
// The format field selects between human-readable text output (for
// development) and JSON output (for log aggregation). Unknown values
// fall back to JSON.
//
// Parameters:
//   - cfg: Logging configuration (level, format, output)
//   - version: Application version string attached to every record
//
// Returns:
//   - *Logger: Configured logger writing to stdout or stderr
func New(cfg config.LoggingConfig, version string) *Logger {
	level := parseLevel(cfg.Level)

	opts := &slog.HandlerOptions{
		Level: level,
	}

	output := os.Stdout
	if cfg.Output == "stderr" {
		output = os.Stderr
	}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "text":
		handler = slog.NewTextHandler(output, opts)
	default:
		handler = slog.NewJSONHandler(output, opts)
	}

	logger := slog.New(handler).With(
		slog.String("service", serviceName),
		slog.String("version", version),
	)

	return &Logger{Logger: logger}
}

// Default returns a text logger at info level, for use before the
// configuration file has been loaded.
func Default() *Logger {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})

	return &Logger{Logger: slog.New(handler).With(slog.String("service", serviceName))}
}

// With returns a Logger that includes the given attributes in every record.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}

// parseLevel converts a level string to a slog.Level.
// Unknown strings default to info.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
