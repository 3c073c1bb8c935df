package log

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"sync/atomic"
)

// Logger is a named logger with level helpers.
type Logger struct {
	name string
	std  *log.Logger
}

// writerHolder wraps an io.Writer so that atomic.Value always stores the
// same concrete type when the destination changes (e.g. to a buffer in
// tests).
type writerHolder struct {
	w io.Writer
}

var (
	globalDebug    atomic.Bool
	componentDebug sync.Map     // map[string]*atomic.Bool
	loggers        sync.Map     // map[string]*Logger
	outputWriter   atomic.Value // writerHolder
)

func init() {
	outputWriter.Store(writerHolder{w: os.Stderr})
}

// ForComponent returns (and memoizes) a named logger. The name should be a
// stable component identifier such as "fetcher" or "web".
func ForComponent(name string) *Logger {
	if name == "" {
		name = "unknown"
	}
	if l, ok := loggers.Load(name); ok {
		return l.(*Logger)
	}
	current := outputWriter.Load().(writerHolder).w
	std := log.New(current, "", log.LstdFlags|log.Lmicroseconds)
	logger := &Logger{name: name, std: std}
	actual, _ := loggers.LoadOrStore(name, logger)
	return actual.(*Logger)
}

// SetGlobalDebug enables or disables debug logging for every component.
func SetGlobalDebug(enabled bool) {
	globalDebug.Store(enabled)
}

// GlobalDebug returns whether global debug logging is enabled.
func GlobalDebug() bool {
	return globalDebug.Load()
}

// EnableDebugFor enables debug logging for a single component.
func EnableDebugFor(name string) {
	if name == "" {
		return
	}
	val, _ := componentDebug.LoadOrStore(name, &atomic.Bool{})
	val.(*atomic.Bool).Store(true)
}

// DisableDebugFor disables debug logging for a single component.
func DisableDebugFor(name string) {
	if name == "" {
		return
	}
	if val, ok := componentDebug.Load(name); ok {
		val.(*atomic.Bool).Store(false)
	}
}

// DebugEnabledFor reports whether debug is enabled for the given component,
// either globally or specifically.
func DebugEnabledFor(name string) bool {
	if globalDebug.Load() {
		return true
	}
	if val, ok := componentDebug.Load(name); ok {
		return val.(*atomic.Bool).Load()
	}
	return false
}

// SetOutput sets the output writer for all loggers, existing and future.
func SetOutput(w io.Writer) {
	if w == nil {
		return
	}
	outputWriter.Store(writerHolder{w: w})
	loggers.Range(func(_, v any) bool {
		v.(*Logger).std.SetOutput(w)
		return true
	})
}

func (l *Logger) logInternal(level, msg string) {
	l.std.Println(level + " [" + l.name + "] " + msg)
}

// Infof logs an informational message with fmt.Sprintf semantics.
func (l *Logger) Infof(format string, args ...any) {
	l.logInternal(LevelInfo, fmt.Sprintf(format, args...))
}

// Warnf logs a warning message.
func (l *Logger) Warnf(format string, args ...any) {
	l.logInternal(LevelWarn, fmt.Sprintf(format, args...))
}

// Errorf logs an error message.
func (l *Logger) Errorf(format string, args ...any) {
	l.logInternal(LevelError, fmt.Sprintf(format, args...))
}

// Debugf logs a debug message if debug is enabled for this component.
func (l *Logger) Debugf(format string, args ...any) {
	if !DebugEnabledFor(l.name) {
		return
	}
	l.logInternal(LevelDebug, fmt.Sprintf(format, args...))
}

const (
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
	LevelDebug = "DEBUG"
)
