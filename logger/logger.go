// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package logger provides a context-aware logger built on [slog].
package logger

import (
	"context"
	"io"
	"log/slog"

	"github.com/lmittmann/tint"
)

type ctxKey string

const loggerKey ctxKey = "logger"

// Logger encapsulates an [slog.Logger] together with the [slog.LevelVar]
// controlling its handler.
type Logger struct {
	*slog.Logger
	Level *slog.LevelVar
}

// Options configure a [Logger] created by [New].
type Options struct {
	// Level is the minimum level to log. If nil, LevelInfo is used.
	Level *slog.LevelVar
	// NoColor disables ANSI colors in the output.
	NoColor bool
}

// New creates a new Logger that writes human-readable records to w.
// Timestamps are omitted: the output is meant for a terminal or CI log,
// which carry their own.
func New(w io.Writer, opts Options) *Logger {
	level := opts.Level
	if level == nil {
		level = new(slog.LevelVar)
		level.Set(slog.LevelInfo)
	}
	h := tint.NewHandler(w, &tint.Options{
		Level:   level,
		NoColor: opts.NoColor,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{}
			}
			return a
		},
	})
	return &Logger{
		Logger: slog.New(h),
		Level:  level,
	}
}

var defaultLogger = New(io.Discard, Options{NoColor: true})

// Put returns a new context with the provided [Logger].
func Put(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// Get retrieves the [Logger] from the context.
//
// If the context has no [Logger], it returns a default [Logger] that discards all
// messages.
func Get(ctx context.Context) *Logger {
	if l, ok := ctx.Value(loggerKey).(*Logger); ok {
		return l
	}
	return defaultLogger
}

// IsDefault returns true if l is the default [Logger].
func IsDefault(l *Logger) bool { return l == defaultLogger }

// Debug logs a debug message.
func Debug(ctx context.Context, msg string, attrs ...slog.Attr) {
	Get(ctx).LogAttrs(ctx, slog.LevelDebug, msg, attrs...)
}

// Info logs an info message.
func Info(ctx context.Context, msg string, attrs ...slog.Attr) {
	Get(ctx).LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

// Warn logs a warning message.
func Warn(ctx context.Context, msg string, attrs ...slog.Attr) {
	Get(ctx).LogAttrs(ctx, slog.LevelWarn, msg, attrs...)
}

// Error logs an error message.
func Error(ctx context.Context, msg string, attrs ...slog.Attr) {
	Get(ctx).LogAttrs(ctx, slog.LevelError, msg, attrs...)
}
