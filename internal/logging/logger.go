package logging

import (
	"fmt"
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger provides a thin wrapper around logr.Logger with convenience helpers.
type Logger struct {
	log logr.Logger
}

// New returns a Logger based on the provided logr.Logger. When the base logger
// is uninitialized it falls back to the module default.
func New(base logr.Logger) Logger {
	if base.GetSink() == nil {
		base = DefaultLogger()
	}
	return Logger{log: base}
}

// DefaultLogger returns the module's default structured logger.
func DefaultLogger() logr.Logger {
	zapLogger, err := zap.NewDevelopment()
	if err != nil {
		zapLogger = zap.NewNop()
	}
	return zapr.NewLogger(zapLogger)
}

// NewForLevel builds a development zap logger that emits at or above level.
// Accepted levels are debug, info, warn and error.
func NewForLevel(level string) (Logger, error) {
	return newForLevel(level, []string{"stderr"})
}

func newForLevel(level string, outputPaths []string) (Logger, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return Logger{}, err
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.DisableStacktrace = true
	cfg.OutputPaths = outputPaths
	// One extra frame for the Logger methods wrapping logr.
	zapLogger, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return Logger{}, fmt.Errorf("build logger: %w", err)
	}
	return Logger{log: zapr.NewLogger(zapLogger)}, nil
}

func parseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel, nil
	case "", "info":
		return zapcore.InfoLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", level)
	}
}

// WithValues returns a new Logger with additional key-value pairs attached.
func (l Logger) WithValues(keysAndValues ...any) Logger {
	return Logger{log: l.log.WithValues(keysAndValues...)}
}

// WithName scopes the logger with the supplied name.
func (l Logger) WithName(name string) Logger {
	return Logger{log: l.log.WithName(name)}
}

// Info logs an informational message.
func (l Logger) Info(msg string, keysAndValues ...any) {
	l.log.Info(msg, keysAndValues...)
}

// Debug logs a verbose message when V(1) is enabled on the underlying logger.
func (l Logger) Debug(msg string, keysAndValues ...any) {
	if l.log.V(1).Enabled() {
		l.log.V(1).Info(msg, keysAndValues...)
	}
}

// Warn logs a message that needs operator attention but does not stop the run.
// logr has no warn level, so zap-backed loggers write through zap directly;
// other sinks get an info line tagged warning=true.
func (l Logger) Warn(msg string, keysAndValues ...any) {
	if u, ok := l.log.GetSink().(zapr.Underlier); ok {
		// zapr's underlying logger already skips the logr frame we bypass here.
		u.GetUnderlying().WithOptions(zap.AddCallerSkip(-1)).Sugar().Warnw(msg, keysAndValues...)
		return
	}
	l.log.Info(msg, append([]any{"warning", true}, keysAndValues...)...)
}

// Error logs an error message.
func (l Logger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error(err, msg, keysAndValues...)
}

// Logr exposes the underlying logr.Logger.
func (l Logger) Logr() logr.Logger {
	return l.log
}
