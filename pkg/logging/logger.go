package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// New creates a logger writing to w at the given level and format.
func New(w io.Writer, level Level, format Format) *StreamLogger {
	return &StreamLogger{
		out:    &sink{writer: w, level: level, now: time.Now},
		format: format,
	}
}

// NewJSONLogger creates a JSON logger
func NewJSONLogger(w io.Writer, level Level) *StreamLogger {
	return New(w, level, JSONFormat)
}

// NewTextLogger creates a key=value logger, used by the CLI on stderr
func NewTextLogger(w io.Writer, level Level) *StreamLogger {
	return New(w, level, TextFormat)
}

func (l *StreamLogger) log(level Level, msg string, fields ...Field) {
	l.out.mu.Lock()
	defer l.out.mu.Unlock()

	if level < l.out.level {
		return
	}

	all := make([]Field, 0, len(l.fields)+len(fields))
	all = append(all, l.fields...)
	all = append(all, fields...)
	ts := l.out.now().Format(time.RFC3339Nano)

	var line []byte
	switch l.format {
	case TextFormat:
		line = encodeText(ts, level, msg, all)
	default:
		var err error
		line, err = encodeJSON(ts, level, msg, all)
		if err != nil {
			fmt.Fprintf(l.out.writer, "[ERROR] Failed to marshal log entry: %v\n", err)
			return
		}
	}

	l.out.writer.Write(line)
	l.out.writer.Write([]byte("\n"))
}

func encodeJSON(ts string, level Level, msg string, fields []Field) ([]byte, error) {
	entry := LogEntry{
		Time:    ts,
		Level:   level.String(),
		Message: msg,
	}
	if len(fields) > 0 {
		entry.Fields = make(map[string]any, len(fields))
		for _, f := range fields {
			entry.Fields[f.Key] = f.Value
		}
	}
	return json.Marshal(entry)
}

// encodeText writes fields in call order; later duplicates win.
func encodeText(ts string, level Level, msg string, fields []Field) []byte {
	var b strings.Builder
	b.WriteString(ts)
	b.WriteByte(' ')
	b.WriteString(level.String())
	b.WriteByte(' ')
	b.WriteString(msg)

	last := make(map[string]int, len(fields))
	for i, f := range fields {
		last[f.Key] = i
	}
	order := make([]int, 0, len(last))
	for _, i := range last {
		order = append(order, i)
	}
	sort.Ints(order)

	for _, i := range order {
		f := fields[i]
		value := fmt.Sprint(f.Value)
		if strings.ContainsAny(value, " \t\"=") {
			value = fmt.Sprintf("%q", value)
		}
		fmt.Fprintf(&b, " %s=%s", f.Key, value)
	}
	return []byte(b.String())
}

// Debug logs a debug-level message
func (l *StreamLogger) Debug(msg string, fields ...Field) {
	l.log(DebugLevel, msg, fields...)
}

// Info logs an info-level message
func (l *StreamLogger) Info(msg string, fields ...Field) {
	l.log(InfoLevel, msg, fields...)
}

// Warn logs a warning-level message
func (l *StreamLogger) Warn(msg string, fields ...Field) {
	l.log(WarnLevel, msg, fields...)
}

// Error logs an error-level message
func (l *StreamLogger) Error(msg string, fields ...Field) {
	l.log(ErrorLevel, msg, fields...)
}

// With creates a child logger with the given fields pre-set
func (l *StreamLogger) With(fields ...Field) Logger {
	merged := make([]Field, len(l.fields)+len(fields))
	copy(merged, l.fields)
	copy(merged[len(l.fields):], fields)

	return &StreamLogger{
		out:    l.out,
		format: l.format,
		fields: merged,
	}
}

// SetLevel sets the minimum log level for this logger and its children
func (l *StreamLogger) SetLevel(level Level) {
	l.out.mu.Lock()
	defer l.out.mu.Unlock()
	l.out.level = level
}

// GetLevel returns the current log level
func (l *StreamLogger) GetLevel() Level {
	l.out.mu.Lock()
	defer l.out.mu.Unlock()
	return l.out.level
}

// EnvLevel is the environment variable consulted by DefaultLogger.
const EnvLevel = "FLYIN_LOG_LEVEL"

var (
	defaultLogger Logger
	defaultMu     sync.Mutex
)

// DefaultLogger returns the process-wide logger: text on stderr, level from
// FLYIN_LOG_LEVEL (warn when unset, so stdout stays reserved for turn output).
func DefaultLogger() Logger {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultLogger == nil {
		level := WarnLevel
		if s := os.Getenv(EnvLevel); s != "" {
			level = ParseLevel(s)
		}
		defaultLogger = NewTextLogger(os.Stderr, level)
	}
	return defaultLogger
}

// SetDefaultLogger replaces the process-wide logger
func SetDefaultLogger(logger Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = logger
}

// StartTimer begins timing an operation
func StartTimer(logger Logger, msg string, fields ...Field) *TimedOperation {
	return &TimedOperation{
		logger: logger,
		msg:    msg,
		start:  time.Now(),
		fields: fields,
	}
}

// Elapsed returns the time since the timer started
func (t *TimedOperation) Elapsed() time.Duration {
	return time.Since(t.start)
}

// End logs the operation with its duration at info level
func (t *TimedOperation) End(extra ...Field) {
	fields := append(append([]Field{}, t.fields...), extra...)
	t.logger.Info(t.msg, append(fields, Latency(t.Elapsed()))...)
}

// EndError logs the operation as an error with its duration
func (t *TimedOperation) EndError(err error, extra ...Field) {
	fields := append(append([]Field{}, t.fields...), extra...)
	t.logger.Error(t.msg, append(fields, Latency(t.Elapsed()), Error(err))...)
}
