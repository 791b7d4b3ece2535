package log

import (
	"context"
	"log/slog"
	"net/http"
)

type contextKey string

const loggerContextKey contextKey = "logger"

// WithLogger returns a context carrying logger.
func WithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, loggerContextKey, logger)
}

// FromContext extracts the logger from ctx, falling back to the default logger.
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(loggerContextKey).(*Logger); ok {
		return logger
	}
	return &Logger{Logger: slog.Default(), component: "unknown"}
}

// Middleware creates HTTP middleware that adds a logger to the request context
func Middleware(logger *Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(WithLogger(r.Context(), logger)))
		})
	}
}

// StructuredLogger provides the application's recurring log events.
type StructuredLogger struct {
	logger *Logger
}

func NewStructuredLogger(logger *Logger) *StructuredLogger {
	return &StructuredLogger{logger: logger}
}

// LogHTTPEnd logs a finished request, at warn for 4xx and error for 5xx.
func (sl *StructuredLogger) LogHTTPEnd(ctx context.Context, r *http.Request, requestID string, statusCode int, durationMs int64, clientIP string) {
	level := slog.LevelInfo
	if statusCode >= 400 && statusCode < 500 {
		level = slog.LevelWarn
	} else if statusCode >= 500 {
		level = slog.LevelError
	}

	fields := NewFields().
		WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery, r.Header.Get("User-Agent")).
		WithHTTPResponse(statusCode, durationMs).
		WithRequestID(requestID).
		WithClientIP(clientIP)

	sl.logger.WithComponent(ComponentHTTP).log(ctx, level, "HTTP request completed", fields.ToSlice())
}

// LogExpenseRecorded logs a successful append.
func (sl *StructuredLogger) LogExpenseRecorded(ctx context.Context, item, amount, category, ref string) {
	fields := NewFields().
		WithExpense(item, amount, category).
		WithOperation(OpRecord).
		ToSlice()

	fields = append(fields, FieldRowRef, ref)

	sl.logger.WithComponent(ComponentExpense).InfoContext(ctx, "Expense recorded", fields...)
}

// LogCommand logs one handled chat message.
func (sl *StructuredLogger) LogCommand(ctx context.Context, chatID int64, command string, err error) {
	fields := NewFields().WithChat(chatID, command).WithError(err)
	l := sl.logger.WithComponent(ComponentBot)
	if err != nil {
		l.WarnContext(ctx, "Chat message failed", fields.ToSlice()...)
		return
	}
	l.InfoContext(ctx, "Chat message handled", fields.ToSlice()...)
}

// LogError logs an error with structured context
func (sl *StructuredLogger) LogError(ctx context.Context, msg string, err error, component string, operation string, fields LogFields) {
	if fields == nil {
		fields = NewFields()
	}
	all := fields.WithError(err)
	if operation != "" {
		all = all.WithOperation(operation)
	}
	sl.logger.WithComponent(component).ErrorContext(ctx, msg, all.ToSlice()...)
}
