package nkit

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with table-engine specific helpers.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, a text handler writing to stderr at info level is used.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewJSONLogger creates a Logger that writes JSON records to stderr.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NewTextLogger creates a Logger that writes text records to stderr.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NoopLogger creates a Logger that discards all output.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000),
	}))
}

// WithTable tags records with a table definition.
func (l *Logger) WithTable(def string) *Logger {
	return &Logger{Logger: l.Logger.With("table", def)}
}

// LogRowMutation logs a row level table mutation.
func (l *Logger) LogRowMutation(op string, row int, err error) {
	if err != nil {
		l.Error("row mutation failed",
			"op", op,
			"row", row,
			"error", err,
		)
		return
	}
	l.Debug("row mutation completed",
		"op", op,
		"row", row,
	)
}

// LogIndexBuild logs an index creation.
func (l *Logger) LogIndexBuild(def string, buckets int, err error) {
	if err != nil {
		l.Error("index build failed",
			"definition", def,
			"error", err,
		)
		return
	}
	l.Debug("index built",
		"definition", def,
		"buckets", buckets,
	)
}

// LogGroup logs a grouping run.
func (l *Logger) LogGroup(columns, aggregators string, groups int, err error) {
	if err != nil {
		l.Error("group failed",
			"columns", columns,
			"aggregators", aggregators,
			"error", err,
		)
		return
	}
	l.Debug("group completed",
		"columns", columns,
		"aggregators", aggregators,
		"groups", groups,
	)
}
