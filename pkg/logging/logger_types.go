package logging

import (
	"io"
	"strings"
	"sync"
	"time"
)

// Level represents a log level
type Level int

const (
	// DebugLevel carries per-turn detail and is off by default
	DebugLevel Level = iota
	// InfoLevel is the default: run start, run end, plan summary
	InfoLevel
	// WarnLevel flags recoverable oddities such as an ignored setting
	WarnLevel
	// ErrorLevel is reserved for failed runs (deadlock, broken invariant)
	ErrorLevel
)

// String returns the string representation of a log level
func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a string to a Level, defaulting to InfoLevel
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DebugLevel
	case "info":
		return InfoLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// Format selects the line encoding.
type Format int

const (
	// JSONFormat writes one JSON object per line
	JSONFormat Format = iota
	// TextFormat writes "time LEVEL msg key=value ..." lines
	TextFormat
)

// ParseFormat converts "json" or "text"; anything else is JSON.
func ParseFormat(s string) Format {
	if strings.EqualFold(strings.TrimSpace(s), "text") {
		return TextFormat
	}
	return JSONFormat
}

// Field represents a key-value pair for structured logging
type Field struct {
	Key   string
	Value any
}

// Logger is the interface for structured logging
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	// With creates a child logger with the given fields pre-set
	With(fields ...Field) Logger
	SetLevel(level Level)
	GetLevel() Level
}

// StreamLogger implements Logger over an io.Writer in JSON or text form.
// Child loggers created by With share the writer, its lock and the level.
type StreamLogger struct {
	out    *sink
	format Format
	fields []Field
}

// sink is the state shared between a logger and its children.
type sink struct {
	mu     sync.Mutex
	writer io.Writer
	level  Level
	now    func() time.Time
}

// LogEntry represents a single log entry in JSON format
type LogEntry struct {
	Time    string         `json:"time"`
	Level   string         `json:"level"`
	Message string         `json:"msg"`
	Fields  map[string]any `json:"fields,omitempty"`
}

// NopLogger is a logger that does nothing (useful for testing)
type NopLogger struct{}

func (NopLogger) Debug(msg string, fields ...Field) {}
func (NopLogger) Info(msg string, fields ...Field)  {}
func (NopLogger) Warn(msg string, fields ...Field)  {}
func (NopLogger) Error(msg string, fields ...Field) {}
func (n NopLogger) With(fields ...Field) Logger     { return n }
func (NopLogger) SetLevel(level Level)              {}
func (NopLogger) GetLevel() Level                   { return ErrorLevel + 1 }

// NewNopLogger creates a logger that discards all output
func NewNopLogger() Logger {
	return NopLogger{}
}

// TimedOperation measures how long an operation took
type TimedOperation struct {
	logger Logger
	msg    string
	start  time.Time
	fields []Field
}
