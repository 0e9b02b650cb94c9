package service

import (
	"context"
	"log"
	"strings"
	"sync/atomic"

	"github.com/GoSim-25-26J-441/tee-designer/internal/api/http/middleware"
)

const (
	levelDebug int32 = iota
	levelInfo
	levelWarn
	levelError
)

var minLevel atomic.Int32

func init() {
	minLevel.Store(levelInfo)
}

// SetLogLevel sets the minimum level written by Logger (debug, info, warn, error).
func SetLogLevel(level string) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		minLevel.Store(levelDebug)
	case "warn", "warning":
		minLevel.Store(levelWarn)
	case "error":
		minLevel.Store(levelError)
	default:
		minLevel.Store(levelInfo)
	}
}

// Logger provides structured logging for services
type Logger struct {
	requestID string
	session   string
}

// NewLogger creates a logger with request context
func NewLogger(ctx context.Context) *Logger {
	requestID := "unknown"
	if ctx != nil {
		if rid := middleware.GetRequestID(ctx); rid != "" {
			requestID = rid
		}
	}
	return &Logger{requestID: requestID}
}

// WithSession returns a copy tagged with a designer session id
func (l *Logger) WithSession(session string) *Logger {
	cp := *l
	cp.session = session
	return &cp
}

func (l *Logger) printf(level int32, tag, operation, format string, args ...interface{}) {
	if level < minLevel.Load() {
		return
	}
	log.Printf("[%s] request_id=%s session=%s operation=%s "+format,
		append([]interface{}{tag, l.requestID, l.session, operation}, args...)...)
}

// LogError logs an error with context
func (l *Logger) LogError(operation string, err error) {
	l.printf(levelError, "error", operation, "error=%v", err)
}

// LogInfof logs a formatted info message with context
func (l *Logger) LogInfof(operation string, format string, args ...interface{}) {
	l.printf(levelInfo, "info", operation, format, args...)
}

// LogWarnf logs a formatted warning with context
func (l *Logger) LogWarnf(operation string, format string, args ...interface{}) {
	l.printf(levelWarn, "warn", operation, format, args...)
}

// LogDebugf logs a formatted debug message with context
func (l *Logger) LogDebugf(operation string, format string, args ...interface{}) {
	l.printf(levelDebug, "debug", operation, format, args...)
}
