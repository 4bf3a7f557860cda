package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"
	"sync"
	"time"
)

// Level represents the severity of a log message
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a level name (case-insensitive) to a Level
func ParseLevel(name string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DEBUG":
		return LevelDebug, nil
	case "INFO":
		return LevelInfo, nil
	case "WARN", "WARNING":
		return LevelWarn, nil
	case "ERROR":
		return LevelError, nil
	default:
		return LevelWarn, fmt.Errorf("unknown log level %q", name)
	}
}

// Entry represents a log entry
type Entry struct {
	Timestamp string         `json:"timestamp"`
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// Logger writes leveled diagnostics. Output goes to stderr by default so it
// never mixes with rendered results on stdout.
type Logger struct {
	mu       sync.Mutex
	output   io.Writer
	level    Level
	json     bool
	fields   map[string]any
	disabled bool
}

// New creates a new logger with default settings
func New() *Logger {
	return &Logger{
		output: os.Stderr,
		level:  LevelWarn,
		fields: make(map[string]any),
	}
}

// SetOutput sets the output destination
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.output = w
}

// SetLevel sets the minimum log level
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// Level returns the minimum log level
func (l *Logger) Level() Level {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// SetJSON enables or disables JSON output
func (l *Logger) SetJSON(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.json = enabled
}

// Disable disables all logging
func (l *Logger) Disable() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.disabled = true
}

// Enable enables logging
func (l *Logger) Enable() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.disabled = false
}

// WithField returns a new logger with an additional field
func (l *Logger) WithField(key string, value any) *Logger {
	return l.WithFields(map[string]any{key: value})
}

// WithFields returns a new logger with additional fields
func (l *Logger) WithFields(fields map[string]any) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()

	newFields := make(map[string]any, len(l.fields)+len(fields))
	maps.Copy(newFields, l.fields)
	maps.Copy(newFields, fields)

	return &Logger{
		output:   l.output,
		level:    l.level,
		json:     l.json,
		fields:   newFields,
		disabled: l.disabled,
	}
}

func (l *Logger) log(level Level, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.disabled || level < l.level {
		return
	}

	message := fmt.Sprintf(format, args...)
	timestamp := time.Now().Format(time.RFC3339)

	if l.json {
		entry := Entry{
			Timestamp: timestamp,
			Level:     level.String(),
			Message:   message,
			Fields:    l.fields,
		}
		data, err := json.Marshal(entry)
		if err != nil {
			_, _ = fmt.Fprintf(l.output, `{"error":"failed to marshal log entry: %s"}`+"\n", err)
			return
		}
		_, _ = fmt.Fprintln(l.output, string(data))
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s] %s", timestamp, level, message)
	// sorted so that identical entries print identically
	for _, k := range slices.Sorted(maps.Keys(l.fields)) {
		fmt.Fprintf(&b, " %s=%v", k, l.fields[k])
	}
	_, _ = fmt.Fprintln(l.output, b.String())
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...any) {
	l.log(LevelDebug, format, args...)
}

// Info logs an info message
func (l *Logger) Info(format string, args ...any) {
	l.log(LevelInfo, format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...any) {
	l.log(LevelWarn, format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...any) {
	l.log(LevelError, format, args...)
}

// Default logger instance
var defaultLogger = New()

// Default returns the shared logger
func Default() *Logger {
	return defaultLogger
}

// SetDefaultLevel sets the level for the default logger
func SetDefaultLevel(level Level) {
	defaultLogger.SetLevel(level)
}

// SetDefaultJSON enables JSON output for the default logger
func SetDefaultJSON(enabled bool) {
	defaultLogger.SetJSON(enabled)
}

// SetDefaultOutput redirects the default logger
func SetDefaultOutput(w io.Writer) {
	defaultLogger.SetOutput(w)
}

// Debug logs a debug message using the default logger
func Debug(format string, args ...any) {
	defaultLogger.Debug(format, args...)
}

// Info logs an info message using the default logger
func Info(format string, args ...any) {
	defaultLogger.Info(format, args...)
}

// Warn logs a warning message using the default logger
func Warn(format string, args ...any) {
	defaultLogger.Warn(format, args...)
}

// Error logs an error message using the default logger
func Error(format string, args ...any) {
	defaultLogger.Error(format, args...)
}

// WithField returns a new logger with an additional field using the default logger
func WithField(key string, value any) *Logger {
	return defaultLogger.WithField(key, value)
}

// WithFields returns a new logger with additional fields using the default logger
func WithFields(fields map[string]any) *Logger {
	return defaultLogger.WithFields(fields)
}
