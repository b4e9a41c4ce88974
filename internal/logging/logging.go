package logging

import (
	"fmt"
	"os"
	"strings"
	"sync"
)

// Logger is a minimal leveled logger writing to stderr (stdout is
// reserved for the MCP stdio protocol) with an optional log file.
type Logger struct {
	mu      sync.Mutex
	level   int
	logFile *os.File
}

var levels = map[string]int{"debug": 0, "info": 1, "warn": 2, "error": 3}

// New creates a logger for the given level name. Unknown names fall
// back to "info".
func New(level string) *Logger {
	l, ok := levels[strings.ToLower(level)]
	if !ok {
		l = levels["info"]
	}
	return &Logger{level: l}
}

// FromEnv creates a logger configured from REPOLENS_LOG_LEVEL and
// REPOLENS_LOG_FILE.
func FromEnv() *Logger {
	logger := New(os.Getenv("REPOLENS_LOG_LEVEL"))
	if path := os.Getenv("REPOLENS_LOG_FILE"); path != "" {
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "[WARN] Failed to open log file %s: %v\n", path, err)
		} else {
			logger.logFile = f
		}
	}
	return logger
}

// SetLevel changes the minimum emitted level by name.
func (l *Logger) SetLevel(level string) {
	if v, ok := levels[strings.ToLower(level)]; ok {
		l.mu.Lock()
		l.level = v
		l.mu.Unlock()
	}
}

func (l *Logger) log(msgLevel int, prefix, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if msgLevel < l.level {
		return
	}
	fmt.Fprintf(os.Stderr, prefix+format+"\n", args...)
	if l.logFile != nil {
		fmt.Fprintf(l.logFile, prefix+format+"\n", args...)
	}
}

func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(levels["debug"], "[DEBUG] ", format, args...)
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.log(levels["info"], "[INFO] ", format, args...)
}

func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(levels["warn"], "[WARN] ", format, args...)
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.log(levels["error"], "[ERROR] ", format, args...)
}

// Close releases the optional log file.
func (l *Logger) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.logFile != nil {
		_ = l.logFile.Close()
		l.logFile = nil
	}
}

var defaultLogger = FromEnv()

// Default returns the process-wide logger.
func Default() *Logger { return defaultLogger }
