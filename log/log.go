package log

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	charmlog "charm.land/log/v2"
)

// Level is a log severity name.
type Level string

// Log levels.
const (
	LevelError Level = "error"
	LevelWarn  Level = "warn"
	LevelInfo  Level = "info"
	LevelDebug Level = "debug"
)

// Format represents the log output format.
type Format string

const (
	// FormatJSON outputs logs as JSON objects.
	FormatJSON Format = "json"
	// FormatLogfmt outputs logs in logfmt format.
	FormatLogfmt Format = "logfmt"
	// FormatText outputs human-readable, optionally colored lines.
	FormatText Format = "text"
)

var (
	// ErrInvalidArgument indicates an invalid argument was provided.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnknownLogLevel indicates an unrecognized log level string.
	ErrUnknownLogLevel = errors.New("unknown log level")
	// ErrUnknownLogFormat indicates an unrecognized log format string.
	ErrUnknownLogFormat = errors.New("unknown log format")
)

var (
	levels  = []Level{LevelError, LevelWarn, LevelInfo, LevelDebug}
	formats = []Format{FormatText, FormatJSON, FormatLogfmt}
)

// GetAllLevelStrings returns every level name.
func GetAllLevelStrings() []string {
	out := make([]string, len(levels))
	for i, l := range levels {
		out[i] = string(l)
	}

	return out
}

// GetAllFormatStrings returns every format name.
func GetAllFormatStrings() []string {
	out := make([]string, len(formats))
	for i, f := range formats {
		out[i] = string(f)
	}

	return out
}

// ParseLevel parses a level name, case-insensitively. "warning" is
// accepted as an alias of [LevelWarn].
func ParseLevel(s string) (Level, error) {
	switch l := Level(strings.ToLower(strings.TrimSpace(s))); l {
	case LevelError, LevelWarn, LevelInfo, LevelDebug:
		return l, nil
	case "warning":
		return LevelWarn, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownLogLevel, s)
}

// ParseFormat parses a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatLogfmt:
		return f, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownLogFormat, s)
}

// SlogLevel returns the [slog.Level] of l. Unknown levels map to info.
func (l Level) SlogLevel() slog.Level {
	switch l {
	case LevelError:
		return slog.LevelError
	case LevelWarn:
		return slog.LevelWarn
	case LevelDebug:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

func (l Level) charmLevel() charmlog.Level {
	switch l {
	case LevelError:
		return charmlog.ErrorLevel
	case LevelWarn:
		return charmlog.WarnLevel
	case LevelDebug:
		return charmlog.DebugLevel
	default:
		return charmlog.InfoLevel
	}
}

// NewHandlerFromStrings creates a [slog.Handler] from level and format
// names.
func NewHandlerFromStrings(w io.Writer, level, format string) (slog.Handler, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	f, err := ParseFormat(format)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	return NewHandler(w, lvl, f), nil
}

// NewHandler creates a [slog.Handler] with the specified level and format.
// Unknown formats fall back to [FormatText].
func NewHandler(w io.Writer, level Level, format Format) slog.Handler {
	switch format {
	case FormatJSON:
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level.SlogLevel()})

	case FormatLogfmt:
		return slog.NewTextHandler(w, &slog.HandlerOptions{Level: level.SlogLevel()})
	}

	return charmlog.NewWithOptions(w, charmlog.Options{
		Level:           level.charmLevel(),
		ReportTimestamp: false,
	})
}
