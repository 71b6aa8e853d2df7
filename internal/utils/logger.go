// internal/utils/logger.go

package utils

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// Logger defines the interface for logging throughout the application.
type Logger interface {
	Debug(msg string)
	Debugf(format string, args ...interface{})
	Info(msg string)
	Infof(format string, args ...interface{})
	Warn(msg string)
	Warnf(format string, args ...interface{})
	Error(msg string)
	Errorf(format string, args ...interface{})
	WithField(key string, value interface{}) Logger
	WithFields(fields map[string]interface{}) Logger
}

// LogLevel represents the severity of a log message.
type LogLevel int

const (
	DebugLevel LogLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

// ParseLogLevel converts a level name to a LogLevel, defaulting to info.
func ParseLogLevel(name string) LogLevel {
	switch strings.ToLower(name) {
	case "debug":
		return DebugLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// StdLogger is a plain text logger writing to a single destination. It is
// safe for concurrent use.
type StdLogger struct {
	level  LogLevel
	out    io.Writer
	fields map[string]interface{}
	mu     sync.Mutex
}

// NewLogger creates a logger at info level writing to stderr.
func NewLogger() Logger {
	return NewLoggerWithLevel(InfoLevel)
}

// NewLoggerWithLevel creates a stderr logger with the specified log level.
func NewLoggerWithLevel(level LogLevel) Logger {
	return &StdLogger{
		level:  level,
		out:    os.Stderr,
		fields: make(map[string]interface{}),
	}
}

// NewLoggerWithOutput creates a logger writing to the given destination.
func NewLoggerWithOutput(level LogLevel, out io.Writer) Logger {
	return &StdLogger{
		level:  level,
		out:    out,
		fields: make(map[string]interface{}),
	}
}

// SetLevel changes the minimum level at runtime. Loggers derived earlier
// via WithFields keep the level they were created with.
func (l *StdLogger) SetLevel(level LogLevel) {
	l.mu.Lock()
	l.level = level
	l.mu.Unlock()
}

func (l *StdLogger) Debug(msg string) { l.log(DebugLevel, msg) }
func (l *StdLogger) Debugf(format string, args ...interface{}) {
	l.log(DebugLevel, fmt.Sprintf(format, args...))
}
func (l *StdLogger) Info(msg string) { l.log(InfoLevel, msg) }
func (l *StdLogger) Infof(format string, args ...interface{}) {
	l.log(InfoLevel, fmt.Sprintf(format, args...))
}
func (l *StdLogger) Warn(msg string) { l.log(WarnLevel, msg) }
func (l *StdLogger) Warnf(format string, args ...interface{}) {
	l.log(WarnLevel, fmt.Sprintf(format, args...))
}
func (l *StdLogger) Error(msg string) { l.log(ErrorLevel, msg) }
func (l *StdLogger) Errorf(format string, args ...interface{}) {
	l.log(ErrorLevel, fmt.Sprintf(format, args...))
}

func (l *StdLogger) WithField(key string, value interface{}) Logger {
	return l.WithFields(map[string]interface{}{key: value})
}

func (l *StdLogger) WithFields(fields map[string]interface{}) Logger {
	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	l.mu.Lock()
	level := l.level
	l.mu.Unlock()
	return &StdLogger{
		level:  level,
		out:    l.out,
		fields: merged,
	}
}

// log formats and writes a message if it meets the minimum level.
func (l *StdLogger) log(level LogLevel, msg string) {
	l.mu.Lock()
	threshold := l.level
	l.mu.Unlock()
	if level < threshold {
		return
	}

	levelStr := [...]string{"DEBUG", "INFO", "WARN", "ERROR"}[level]
	timestamp := time.Now().Format("2006-01-02 15:04:05")

	line := fmt.Sprintf("[%s] [%s] %s", timestamp, levelStr, msg)
	if len(l.fields) > 0 {
		line += " fields=" + formatFields(l.fields)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.out, line)
}

// formatFields renders fields deterministically, sorted by key.
func formatFields(fields map[string]interface{}) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, fields[k]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// NopLogger discards everything. Useful as a default when callers do not
// care about log output.
type NopLogger struct{}

func (NopLogger) Debug(string)                               {}
func (NopLogger) Debugf(string, ...interface{})              {}
func (NopLogger) Info(string)                                {}
func (NopLogger) Infof(string, ...interface{})               {}
func (NopLogger) Warn(string)                                {}
func (NopLogger) Warnf(string, ...interface{})               {}
func (NopLogger) Error(string)                               {}
func (NopLogger) Errorf(string, ...interface{})              {}
func (n NopLogger) WithField(string, interface{}) Logger     { return n }
func (n NopLogger) WithFields(map[string]interface{}) Logger { return n }
