// Package main - debug.go
//
// This file implements the centralized logging used by every component.
//
// Logging System:
//   - Thread-safe file logging (Debug.log by default)
//   - Four log levels: DEBUG, INFO, WARN, ERROR
//   - Microsecond timestamps so poll periods can be read back from the log
//   - File is truncated (cleared) on each startup
//   - INFO and above are mirrored to stderr when stderr is a terminal
//
// Logging Conventions:
//   - DEBUG: per-tick details (skipped ticks, evaluation failures, clicks)
//   - INFO: lifecycle events (browser ready, panel built, loop started/stopped)
//   - WARN: recoverable problems (feature gate refused, panel missing)
//   - ERROR: startup failures and recovered panics
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
)

// LogLevel orders log severities.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR"}

func (l LogLevel) String() string {
	if l < LevelDebug || l > LevelError {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// Logger provides thread-safe logging to a file and, optionally, a console.
//
// The console mirror only receives messages at or above mirrorLevel so the
// 5 Hz farm loop does not flood the terminal.
type Logger struct {
	file        io.Closer
	logger      *log.Logger
	mirror      *log.Logger
	mirrorLevel LogLevel
	mu          sync.Mutex
}

var globalLogger *Logger

// InitLogger initializes the global logger to write to path.
// The log file is truncated (cleared) on each startup.
func InitLogger(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0666)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	l := newLogger(file, file)
	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		l.mirror = log.New(os.Stderr, "", log.LstdFlags)
		l.mirrorLevel = LevelInfo
	}
	globalLogger = l

	globalLogger.Logf(LevelInfo, "Logger initialized (log file cleared)")
	return nil
}

func newLogger(w io.Writer, closer io.Closer) *Logger {
	return &Logger{
		file:   closer,
		logger: log.New(w, "", log.LstdFlags|log.Lmicroseconds),
	}
}

// CloseLogger closes the log file
func CloseLogger() {
	if globalLogger != nil && globalLogger.file != nil {
		globalLogger.Logf(LevelInfo, "Logger closing")
		globalLogger.file.Close()
	}
}

// Logf writes one message at the given level.
func (l *Logger) Logf(level LogLevel, format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	prefix := "[" + level.String() + "] "
	l.logger.Printf(prefix+format, v...)
	if l.mirror != nil && level >= l.mirrorLevel {
		l.mirror.Printf(prefix+format, v...)
	}
}

// LogDebug is a convenience function for debug logging
func LogDebug(format string, v ...interface{}) {
	if globalLogger != nil {
		globalLogger.Logf(LevelDebug, format, v...)
	}
}

// LogInfo is a convenience function for info logging
func LogInfo(format string, v ...interface{}) {
	if globalLogger != nil {
		globalLogger.Logf(LevelInfo, format, v...)
	}
}

// LogWarn is a convenience function for warning logging
func LogWarn(format string, v ...interface{}) {
	if globalLogger != nil {
		globalLogger.Logf(LevelWarn, format, v...)
	}
}

// LogError is a convenience function for error logging
func LogError(format string, v ...interface{}) {
	if globalLogger != nil {
		globalLogger.Logf(LevelError, format, v...)
	}
}
