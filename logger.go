package pcago

import (
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with pcago-specific context.
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

// WithRows adds an observation-count field to the logger.
func (l *Logger) WithRows(n int) *Logger {
	return &Logger{
		Logger: l.Logger.With("rows", n),
	}
}

// WithFeatures adds a feature-count field to the logger.
func (l *Logger) WithFeatures(p int) *Logger {
	return &Logger{
		Logger: l.Logger.With("features", p),
	}
}

// WithSolver adds a solver field to the logger.
func (l *Logger) WithSolver(s Solver) *Logger {
	return &Logger{
		Logger: l.Logger.With("solver", s.String()),
	}
}

// LogFit logs the outcome of a Fit call.
func (l *Logger) LogFit(rows, features, components int, solver Solver, elapsed time.Duration, err error) {
	if err != nil {
		l.Error("fit failed",
			"rows", rows,
			"features", features,
			"solver", solver.String(),
			"error", err,
		)
	} else {
		l.Debug("fit completed",
			"rows", rows,
			"features", features,
			"components", components,
			"solver", solver.String(),
			"elapsed", elapsed,
		)
	}
}
