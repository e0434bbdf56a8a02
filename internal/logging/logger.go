// Package logging adapts log/slog to the component-tagged Infof/Errorf shape
// the rest of the player logs through.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Logger emits printf-style messages tagged with a component attribute.
type Logger struct {
	slog *slog.Logger
}

func New(w io.Writer, level slog.Level, format string) *Logger {
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return &Logger{slog: slog.New(handler)}
}

// Discard drops everything.
func Discard() *Logger {
	return New(io.Discard, slog.LevelError+1, "text")
}

// ParseLevel maps debug|info|warn|error to a slog level.
func ParseLevel(value string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warning", "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level %q (expected debug|info|warn|error)", value)
	}
}

func (l *Logger) Slog() *slog.Logger { return l.slog }

func (l *Logger) Debugf(component string, format string, args ...interface{}) {
	l.log(slog.LevelDebug, component, format, args...)
}

func (l *Logger) Infof(component string, format string, args ...interface{}) {
	l.log(slog.LevelInfo, component, format, args...)
}

func (l *Logger) Errorf(component string, format string, args ...interface{}) {
	l.log(slog.LevelError, component, format, args...)
}

func (l *Logger) log(level slog.Level, component, format string, args ...interface{}) {
	if l == nil || l.slog == nil {
		return
	}
	l.slog.Log(context.Background(), level, fmt.Sprintf(format, args...), slog.String("component", component))
}
