package poolgo

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with poolgo-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// LogGrow logs a segment allocation on the growth slow path.
func (l *Logger) LogGrow(ctx context.Context, segments, slotsPerSegment int, segmentBytes int64) {
	if l == nil {
		return
	}
	l.DebugContext(ctx, "segment allocated",
		"segments", segments,
		"slots_per_segment", slotsPerSegment,
		"segment_bytes", segmentBytes,
	)
}

// LogGrowFailed logs a rejected segment allocation.
func (l *Logger) LogGrowFailed(ctx context.Context, err error) {
	if l == nil {
		return
	}
	l.ErrorContext(ctx, "segment allocation failed",
		"error", err,
	)
}

// LogClose logs a pool teardown.
func (l *Logger) LogClose(segments int, bytesReleased int64) {
	if l == nil {
		return
	}
	l.Debug("pool closed",
		"segments", segments,
		"bytes_released", bytesReleased,
	)
}

// LogLeakRefused logs a Close refused because handles are still live.
func (l *Logger) LogLeakRefused(live int64) {
	if l == nil {
		return
	}
	l.Warn("close refused, handles still outstanding",
		"live", live,
	)
}
