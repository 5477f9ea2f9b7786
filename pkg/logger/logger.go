package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger wraps slog.Logger with additional functionality
type Logger struct {
	*slog.Logger
}

// New creates a new logger instance
func New() *Logger {
	level := getLogLevel(os.Getenv("LOG_LEVEL"))

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	// Text handler for development, JSON for production
	var handler slog.Handler
	if gin.Mode() == gin.DebugMode {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// getLogLevel converts string to slog.Level
func getLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithRequestID adds request ID to logger context
func (l *Logger) WithRequestID(requestID string) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("request_id", requestID)),
	}
}

// WithHolderID adds holder ID to logger context
func (l *Logger) WithHolderID(holderID string) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("holder_id", holderID)),
	}
}

// WithError adds error to logger context
func (l *Logger) WithError(err error) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("error", err.Error())),
	}
}

// WithFields adds multiple fields to logger context
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, slog.Any(k, v))
	}
	return &Logger{
		Logger: l.Logger.With(args...),
	}
}

// HTTP logging methods

// LogHTTPRequest logs an HTTP request
func (l *Logger) LogHTTPRequest(c *gin.Context, duration time.Duration) {
	l.Logger.InfoContext(c.Request.Context(),
		"HTTP Request",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("query", c.Request.URL.RawQuery),
		slog.Int("status", c.Writer.Status()),
		slog.Duration("duration", duration),
		slog.String("ip", c.ClientIP()),
		slog.Int("size", c.Writer.Size()),
	)
}

// LogHTTPError logs an HTTP error
func (l *Logger) LogHTTPError(c *gin.Context, err error, statusCode int) {
	l.Logger.ErrorContext(c.Request.Context(),
		"HTTP Error",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.Int("status", statusCode),
		slog.String("error", err.Error()),
		slog.String("ip", c.ClientIP()),
	)
}

// Seat lifecycle logging methods

// LogSeatsHeld logs the outcome of a hold request
func (l *Logger) LogSeatsHeld(ctx context.Context, eventID, holderID string, granted, denied int, ttl time.Duration) {
	l.Logger.InfoContext(ctx,
		"Seats Held",
		slog.String("event_id", eventID),
		slog.String("holder_id", holderID),
		slog.Int("granted", granted),
		slog.Int("denied", denied),
		slog.Duration("ttl", ttl),
	)
}

// LogSeatsReleased logs the outcome of a release request
func (l *Logger) LogSeatsReleased(ctx context.Context, eventID, holderID string, released, skipped int) {
	l.Logger.InfoContext(ctx,
		"Seats Released",
		slog.String("event_id", eventID),
		slog.String("holder_id", holderID),
		slog.Int("released", released),
		slog.Int("skipped", skipped),
	)
}

// LogBookingConfirmed logs the outcome of a confirm request
func (l *Logger) LogBookingConfirmed(ctx context.Context, eventID, holderID string, booked, failed int) {
	l.Logger.InfoContext(ctx,
		"Booking Confirmed",
		slog.String("event_id", eventID),
		slog.String("holder_id", holderID),
		slog.Int("booked", booked),
		slog.Int("failed", failed),
	)
}

// LogHoldsExpired logs a sweep pass that reverted stale holds
func (l *Logger) LogHoldsExpired(ctx context.Context, expired int, took time.Duration) {
	l.Logger.InfoContext(ctx,
		"Stale Holds Expired",
		slog.Int("expired", expired),
		slog.Duration("took", took),
	)
}

// LogFloorPlanGenerated logs seat catalog generation for an event
func (l *Logger) LogFloorPlanGenerated(ctx context.Context, eventID, planHash string, seatCount int) {
	l.Logger.InfoContext(ctx,
		"Floor Plan Generated",
		slog.String("event_id", eventID),
		slog.String("plan_hash", planHash),
		slog.Int("seat_count", seatCount),
	)
}

// Performance logging methods

// LogSlowQuery logs slow database queries
func (l *Logger) LogSlowQuery(ctx context.Context, query string, duration time.Duration) {
	l.Logger.WarnContext(ctx,
		"Slow Database Query",
		slog.String("query", query),
		slog.Duration("duration", duration),
	)
}

// Helper methods for common patterns

// InfoWithContext logs an info message with context
func (l *Logger) InfoWithContext(ctx context.Context, msg string, fields map[string]interface{}) {
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, slog.Any(k, v))
	}
	l.Logger.InfoContext(ctx, msg, args...)
}

// ErrorWithContext logs an error message with context
func (l *Logger) ErrorWithContext(ctx context.Context, msg string, err error, fields map[string]interface{}) {
	args := make([]interface{}, 0, len(fields)*2+2)
	args = append(args, slog.String("error", err.Error()))
	for k, v := range fields {
		args = append(args, slog.Any(k, v))
	}
	l.Logger.ErrorContext(ctx, msg, args...)
}

// DebugWithContext logs a debug message with context
func (l *Logger) DebugWithContext(ctx context.Context, msg string, fields map[string]interface{}) {
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, slog.Any(k, v))
	}
	l.Logger.DebugContext(ctx, msg, args...)
}

// Global logger instance (can be replaced with dependency injection)
var defaultLogger = New()

// GetDefault returns the default logger instance
func GetDefault() *Logger {
	return defaultLogger
}

// SetDefault sets the default logger instance
func SetDefault(logger *Logger) {
	defaultLogger = logger
}
