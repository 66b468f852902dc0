package domain

import (
	"fmt"
	"io"
	"log"
	"os"
)

// LogLevel is logging severity, lowest-first so level comparison is a
// plain integer compare.
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

// Logger is a leveled logger wrapping the standard library's log.Logger.
// The sink is pluggable so tests can redirect it to a buffer instead of
// stdout.
type Logger struct {
	level  LogLevel
	logger *log.Logger
}

// NewLogger creates a logger writing to stdout at the given level.
func NewLogger(level LogLevel) *Logger {
	return NewLoggerWriter(level, os.Stdout)
}

// NewLoggerWriter creates a logger writing to an arbitrary sink.
func NewLoggerWriter(level LogLevel, w io.Writer) *Logger {
	return &Logger{level: level, logger: log.New(w, "", log.LstdFlags)}
}

func (l *Logger) Debug(format string, v ...interface{}) {
	if l.level <= LogLevelDebug {
		l.logger.Printf("[DEBUG] "+format, v...)
	}
}

func (l *Logger) Info(format string, v ...interface{}) {
	if l.level <= LogLevelInfo {
		l.logger.Printf("[INFO] "+format, v...)
	}
}

func (l *Logger) Warn(format string, v ...interface{}) {
	if l.level <= LogLevelWarn {
		l.logger.Printf("[WARN] "+format, v...)
	}
}

func (l *Logger) Error(format string, v ...interface{}) {
	if l.level <= LogLevelError {
		l.logger.Printf("[ERROR] "+format, v...)
	}
}

func (l *Logger) Fatal(format string, v ...interface{}) {
	l.logger.Fatalf("[FATAL] "+format, v...)
}

// WithPrefix returns a new logger writing to the same sink with every
// line tagged by prefix, e.g. the component name ("raster", "vlm").
func (l *Logger) WithPrefix(prefix string) *Logger {
	w := l.logger.Writer()
	return &Logger{
		level:  l.level,
		logger: log.New(w, fmt.Sprintf("[%s] ", prefix), log.LstdFlags),
	}
}

// DefaultLogger is used by components that are not handed an explicit
// logger.
var DefaultLogger = NewLogger(LogLevelInfo)
