package log

import (
	"context"
	"log/slog"
	"net/http"
)

// ContextKey type for context keys
type ContextKey string

const (
	// LoggerContextKey is the context key for the logger
	LoggerContextKey ContextKey = "logger"
)

// Middleware creates HTTP middleware that adds a logger to the request context
func Middleware(logger *Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := WithLogger(r.Context(), logger)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithLogger stores logger in ctx.
func WithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, LoggerContextKey, logger)
}

// FromContext extracts a logger from the request context
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(LoggerContextKey).(*Logger); ok {
		return logger
	}
	return &Logger{
		Logger:    slog.Default(),
		component: "unknown",
	}
}

// RequestIDMiddleware adds request ID to logger context
func RequestIDMiddleware(extractRequestID func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := extractRequestID(r)
			logger := FromContext(r.Context()).With(FieldRequestID, requestID)
			next.ServeHTTP(w, r.WithContext(WithLogger(r.Context(), logger)))
		})
	}
}

// StructuredLogger provides structured logging methods with context awareness
type StructuredLogger struct {
	logger *Logger
}

// NewStructuredLogger creates a new structured logger
func NewStructuredLogger(logger *Logger) *StructuredLogger {
	return &StructuredLogger{
		logger: logger,
	}
}

// LogAction logs a completed form action on a page
func (sl *StructuredLogger) LogAction(ctx context.Context, op, page string, rows int) {
	fields := NewFields().
		WithPage(page, rows).
		WithOperation(op).
		WithComponent(ComponentForm)

	sl.logger.Logger.DebugContext(ctx, "Form action applied", fields.ToSlice()...)
}

// LogCalculated logs a successful calculation
func (sl *StructuredLogger) LogCalculated(ctx context.Context, page string, rows int, total, period string) {
	fields := NewFields().
		WithPage(page, rows).
		WithTotal(total, period).
		WithOperation(OpSubmit).
		WithComponent(ComponentForm)

	sl.logger.Logger.InfoContext(ctx, "Fees calculated", fields.ToSlice()...)
}

// LogValidationFailed logs a rejected submission
func (sl *StructuredLogger) LogValidationFailed(ctx context.Context, page string, rows, invalid int) {
	fields := NewFields().
		WithPage(page, rows).
		WithOperation(OpSubmit).
		WithComponent(ComponentForm)
	fields[FieldInvalidRows] = invalid

	sl.logger.Logger.InfoContext(ctx, "Fee submission rejected", fields.ToSlice()...)
}

// LogError logs an error with structured context
func (sl *StructuredLogger) LogError(ctx context.Context, msg string, err error, component string, operation string, fields LogFields) {
	if fields == nil {
		fields = NewFields()
	}
	allFields := fields.
		WithError(err).
		WithOperation(operation).
		WithComponent(component)

	sl.logger.Logger.ErrorContext(ctx, msg, allFields.ToSlice()...)
}
