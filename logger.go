package cleora

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with cleora-specific context.
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

// NewJSONLogger creates a Logger that writes JSON records to w.
// A nil w means stderr.
func NewJSONLogger(w io.Writer, level slog.Level) *Logger {
	if w == nil {
		w = os.Stderr
	}
	return NewLogger(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewTextLogger creates a Logger that writes human-readable records to w.
// A nil w means stderr.
func NewTextLogger(w io.Writer, level slog.Level) *Logger {
	if w == nil {
		w = os.Stderr
	}
	return NewLogger(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithStrategy adds a strategy field to the logger.
func (l *Logger) WithStrategy(s Strategy) *Logger {
	return &Logger{
		Logger: l.Logger.With("strategy", s.String()),
	}
}

// WithGraph adds the graph identifier to the logger.
func (l *Logger) WithGraph(id string) *Logger {
	return &Logger{
		Logger: l.Logger.With("graph", id),
	}
}

// LogRun logs the outcome of an Embed call.
func (l *Logger) LogRun(ctx context.Context, res Result, err error) {
	if err != nil {
		l.ErrorContext(ctx, "embedding failed",
			"iterations", res.Iterations,
			"duration", res.Duration,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "embedding completed",
		"entities", res.Entities,
		"emitted", res.Emitted,
		"zero_vectors", res.ZeroVectors,
		"iterations", res.Iterations,
		"duration", res.Duration,
	)
}
