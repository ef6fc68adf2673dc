// Package logger builds the process-wide slog.Logger for pinsetter binaries.
//
// Two formats are supported: "json" writes one structured record per line
// through slog's JSON handler (the daemon default), and "text" routes records
// through charmbracelet/log for a coloured console view. Either way callers
// log through the standard log/slog API.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"

	"github.com/pinsetter/pinsetter/internal/config"
)

// Logger is a slog.Logger whose level can be changed after construction.
type Logger struct {
	*slog.Logger

	level *slog.LevelVar
	charm *log.Logger // nil for the json format
}

// New returns a Logger writing to w in the format named by cfg.
func New(w io.Writer, cfg config.LogConfig) (*Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	l := &Logger{level: new(slog.LevelVar)}
	l.level.Set(level)

	switch cfg.Format {
	case "", "json":
		l.Logger = slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: l.level}))
	case "text":
		l.charm = log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			Prefix:          "pinsetter",
			Level:           log.Level(level),
		})
		l.charm.SetColorProfile(termenv.ANSI256)
		if cfg.NoColor {
			l.charm.SetColorProfile(termenv.Ascii)
		}
		l.Logger = slog.New(l.charm)
	default:
		return nil, fmt.Errorf("logger: unknown format %q", cfg.Format)
	}
	return l, nil
}

// SetLevel changes the minimum level for subsequent records.
func (l *Logger) SetLevel(level slog.Level) {
	l.level.Set(level)
	if l.charm != nil {
		l.charm.SetLevel(log.Level(level))
	}
}

// Level returns the current minimum level.
func (l *Logger) Level() slog.Level { return l.level.Level() }

// ParseLevel maps debug, info, warn and error (any case) to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("logger: unknown level %q", s)
	}
}
