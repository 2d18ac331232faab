// Package logging provides structured logging for deskpilot.
// It wraps zerolog with per-component child loggers and supports JSON
// and console output formats.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logging configuration.
type Config struct {
	// Level is the minimum level to emit: debug, info, warn, error.
	Level string
	// Format selects the output format: json or console.
	Format string
	// Out overrides the output writer. Defaults to stderr.
	Out io.Writer
}

// DefaultConfig returns the default logging configuration.
func DefaultConfig() Config {
	return Config{Level: "info", Format: "console"}
}

// New creates a root logger from the given configuration.
func New(cfg Config) (zerolog.Logger, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), err
	}

	out := cfg.Out
	if out == nil {
		out = os.Stderr
	}
	if strings.EqualFold(cfg.Format, "console") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}

	logger := zerolog.New(out).Level(level).With().Timestamp().Logger()
	return logger, nil
}

// Component returns a child logger tagged with a component name.
func Component(logger zerolog.Logger, name string) zerolog.Logger {
	return logger.With().Str("component", name).Logger()
}

func parseLevel(s string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return zerolog.InfoLevel, nil
	case "debug":
		return zerolog.DebugLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	default:
		return zerolog.InfoLevel, fmt.Errorf("unknown log level %q", s)
	}
}
