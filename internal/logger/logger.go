package logger

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync/atomic"
)

// Level is a log severity threshold.
type Level int32

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var levelNames = map[Level]string{
	LevelTrace: "TRACE",
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
	LevelFatal: "FATAL",
}

var current atomic.Int32

func init() {
	current.Store(int32(LevelInfo))
	// Enable debug via environment variable
	if os.Getenv("PROMPTDECO_DEBUG") == "1" {
		current.Store(int32(LevelDebug))
	}
}

// ParseLevel converts a level name to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "fatal":
		return LevelFatal, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level: %s", s)
	}
}

// SetLevel sets the global log threshold.
func SetLevel(l Level) {
	current.Store(int32(l))
}

// GetLevel returns the current global log threshold.
func GetLevel() Level {
	return Level(current.Load())
}

func logAt(l Level, format string, args ...any) {
	if l < GetLevel() {
		return
	}
	log.Printf("["+levelNames[l]+"] "+format, args...)
}

// Trace logs at trace level.
func Trace(format string, args ...any) { logAt(LevelTrace, format, args...) }

// Debug logs at debug level.
func Debug(format string, args ...any) { logAt(LevelDebug, format, args...) }

// Info logs at info level.
func Info(format string, args ...any) { logAt(LevelInfo, format, args...) }

// Warn logs at warn level.
func Warn(format string, args ...any) { logAt(LevelWarn, format, args...) }

// Error logs at error level.
func Error(format string, args ...any) { logAt(LevelError, format, args...) }

// Fatal logs at fatal level and exits.
func Fatal(format string, args ...any) {
	log.Printf("[FATAL] "+format, args...)
	os.Exit(1)
}
