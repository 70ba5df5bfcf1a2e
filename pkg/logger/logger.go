// Package logger provides context-aware structured logging on top of zap.
// A process-wide default logger is configured once with Setup; request scoped
// fields are attached to a context with WithFields and picked up by the
// package level helpers.
package logger

import (
	"context"
	"log/slog"

	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"
)

const (
	// DevelopmentEnvironment configures a verbose, human readable logger.
	DevelopmentEnvironment = "development"

	// ProductionEnvironment configures a JSON logger at info level.
	ProductionEnvironment = "production"
)

// defaultLogger is used when no logger is found in context. It stays a no-op
// logger until Setup is called.
var defaultLogger = zap.NewNop() //nolint: gochecknoglobals

// Setup initializes the default logger for the given environment. Unknown
// environments get the development configuration.
func Setup(environment string) {
	var (
		l   *zap.Logger
		err error
	)
	if environment == ProductionEnvironment {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		return
	}

	defaultLogger = l
}

type key struct{}

// Get retrieves the logger stored in ctx, falling back to the default logger.
func Get(ctx context.Context) *zap.Logger {
	if logger, _ := ctx.Value(key{}).(*zap.Logger); logger != nil {
		return logger
	}

	return defaultLogger
}

// WithLogger returns a copy of ctx carrying logger.
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, key{}, logger)
}

// WithFields returns a copy of ctx whose logger has fields attached.
func WithFields(ctx context.Context, fields ...zapcore.Field) context.Context {
	return WithLogger(ctx, Get(ctx).With(fields...))
}

// SlogHandler exposes the context logger as a log/slog handler, for libraries
// that only accept slog or the standard log package.
func SlogHandler(ctx context.Context) slog.Handler {
	return zapslog.NewHandler(Get(ctx).Core())
}

// Sync flushes any buffered entries of the context logger.
func Sync(ctx context.Context) {
	_ = Get(ctx).Sync()
}

// IsDebug reports whether the context logger emits debug entries.
func IsDebug(ctx context.Context) bool {
	return Get(ctx).Core().Enabled(zap.DebugLevel)
}

// Debug logs a message at debug level with the given fields.
func Debug(ctx context.Context, msg string, fields ...zapcore.Field) {
	Get(ctx).Debug(msg, fields...)
}

// Info logs a message at info level with the given fields.
func Info(ctx context.Context, msg string, fields ...zapcore.Field) {
	Get(ctx).Info(msg, fields...)
}

// Warn logs a message at warn level with the given fields.
func Warn(ctx context.Context, msg string, fields ...zapcore.Field) {
	Get(ctx).Warn(msg, fields...)
}

// Error logs a message at error level with the given fields.
func Error(ctx context.Context, msg string, fields ...zapcore.Field) {
	Get(ctx).Error(msg, fields...)
}

// Fatal logs a message at fatal level with the given fields, then exits.
func Fatal(ctx context.Context, msg string, fields ...zapcore.Field) {
	Get(ctx).Fatal(msg, fields...)
}
