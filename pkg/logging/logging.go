// Package logging configures the process-wide structured logger. Commands
// call SetDefaultStructuredLogger once before dispatch; everything else logs
// through the slog default.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Format selects the log output encoding.
type Format string

const (
	// FormatText renders key=value lines for terminals.
	FormatText Format = "text"

	// FormatJSON renders one JSON object per line.
	FormatJSON Format = "json"
)

// Option adjusts the logger setup.
type Option func(*config)

type config struct {
	level  slog.Level
	format Format
	out    io.Writer
}

// WithLevel sets the minimum level, default info.
func WithLevel(level slog.Level) Option {
	return func(c *config) { c.level = level }
}

// WithFormat selects text or json output, default text.
func WithFormat(format Format) Option {
	return func(c *config) { c.format = format }
}

// WithOutput redirects log output, default stderr.
func WithOutput(out io.Writer) Option {
	return func(c *config) { c.out = out }
}

// SetDefaultStructuredLogger installs the default slog logger with the tool
// name and version attached to every record.
func SetDefaultStructuredLogger(name, version string, opts ...Option) {
	c := &config{
		level:  slog.LevelInfo,
		format: FormatText,
		out:    os.Stderr,
	}
	for _, opt := range opts {
		opt(c)
	}

	handlerOpts := &slog.HandlerOptions{Level: c.level}
	var handler slog.Handler
	if c.format == FormatJSON {
		handler = slog.NewJSONHandler(c.out, handlerOpts)
	} else {
		handler = slog.NewTextHandler(c.out, handlerOpts)
	}

	slog.SetDefault(slog.New(handler).With("name", name, "version", version))
}

// ParseLevel converts a level name to a slog.Level, defaulting to info for
// anything it does not recognize.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ParseFormat converts a format name to a Format, defaulting to text.
func ParseFormat(format string) Format {
	if strings.EqualFold(format, string(FormatJSON)) {
		return FormatJSON
	}
	return FormatText
}
