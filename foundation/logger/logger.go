// Package logger provides structured logging support built on zerolog.
package logger

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger wraps a zerolog logger with variadic key/value helpers whose
// signature matches what the engine expects for its log function.
type Logger struct {
	z zerolog.Logger
}

// New constructs a logger writing to w. Format "json" emits machine-readable
// output; anything else uses the console writer.
func New(w io.Writer, level string, format string) *Logger {
	zerolog.SetGlobalLevel(parseLevel(level))

	var z zerolog.Logger

	switch strings.ToLower(format) {
	case "json":
		z = zerolog.New(w).With().Timestamp().Logger()
	default:
		output := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
		z = zerolog.New(output).With().Timestamp().Logger()
	}

	return &Logger{z: z}
}

// Debug logs at debug level with key/value pairs.
func (l *Logger) Debug(ctx context.Context, msg string, args ...any) {
	e := l.z.Debug()
	addFields(e, args...)
	e.Msg(msg)
}

// Info logs at info level with key/value pairs.
func (l *Logger) Info(ctx context.Context, msg string, args ...any) {
	e := l.z.Info()
	addFields(e, args...)
	e.Msg(msg)
}

// Warn logs at warn level with key/value pairs.
func (l *Logger) Warn(ctx context.Context, msg string, args ...any) {
	e := l.z.Warn()
	addFields(e, args...)
	e.Msg(msg)
}

// Error logs at error level with key/value pairs.
func (l *Logger) Error(ctx context.Context, msg string, args ...any) {
	e := l.z.Error()
	addFields(e, args...)
	e.Msg(msg)
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return zerolog.DebugLevel
	case "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func addFields(e *zerolog.Event, args ...any) {
	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			continue
		}
		e.Interface(key, args[i+1])
	}
}
