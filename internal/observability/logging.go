// Package observability provides logging, metrics, and tracing.
package observability

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

// Logger wraps slog.Logger to provide specialized logging methods.
type Logger struct {
	*slog.Logger
}

// GlobalLogger is the default logger instance for the application.
var GlobalLogger *Logger

func init() {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	GlobalLogger = &Logger{Logger: slog.New(handler)}
}

// SetLevel reconfigures the global logger with the given level name.
func SetLevel(level string) {
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: l})
	GlobalLogger = &Logger{Logger: slog.New(handler)}
}

// LogContextKey is a type for context keys used by the logging package.
type LogContextKey string

// CorrelationID is the context key carrying the per-request correlation ID.
const CorrelationID LogContextKey = "correlation_id"

// WithCorrelationID returns a new context with the given correlation ID.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, CorrelationID, id)
}

// ExtractCorrelationID retrieves the correlation ID from the context.
func ExtractCorrelationID(ctx context.Context) string {
	if id := ctx.Value(CorrelationID); id != nil {
		return id.(string)
	}
	return ""
}

// HTTPLogger provides structured logging for outgoing HTTP operations.
type HTTPLogger struct {
	component string
	logger    *Logger
}

// NewHTTPLogger creates a new HTTPLogger for the given component.
func NewHTTPLogger(component string) *HTTPLogger {
	return &HTTPLogger{
		component: component,
		logger:    GlobalLogger,
	}
}

// LogRequest logs an outgoing HTTP request.
func (l *HTTPLogger) LogRequest(ctx context.Context, method, path string) {
	l.logger.DebugContext(ctx, "http request",
		slog.String("component", l.component),
		slog.String("method", method),
		slog.String("path", path),
		slog.String("correlation_id", ExtractCorrelationID(ctx)),
	)
}

// LogResponse logs a completed HTTP request with its status and duration.
func (l *HTTPLogger) LogResponse(ctx context.Context, method, path string, status int, durationMS int64) {
	l.logger.InfoContext(ctx, "http response",
		slog.String("component", l.component),
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.Int64("duration_ms", durationMS),
		slog.String("correlation_id", ExtractCorrelationID(ctx)),
	)
}

// LogError logs a failed HTTP request.
func (l *HTTPLogger) LogError(ctx context.Context, method, path string, err error) {
	l.logger.ErrorContext(ctx, "http error",
		slog.String("component", l.component),
		slog.String("method", method),
		slog.String("path", path),
		slog.String("error", err.Error()),
		slog.String("correlation_id", ExtractCorrelationID(ctx)),
	)
}

// StoreLogger provides structured logging for key-value store operations.
type StoreLogger struct {
	driver string
	logger *Logger
}

// NewStoreLogger creates a new StoreLogger for the given driver.
func NewStoreLogger(driver string) *StoreLogger {
	return &StoreLogger{
		driver: driver,
		logger: GlobalLogger,
	}
}

// LogError logs a store error. Store failures are degraded, not fatal,
// so this is the only level the store logs at.
func (l *StoreLogger) LogError(ctx context.Context, operation, key string, err error) {
	l.logger.ErrorContext(ctx, "store error",
		slog.String("driver", l.driver),
		slog.String("operation", operation),
		slog.String("key", key),
		slog.String("error", err.Error()),
	)
}
