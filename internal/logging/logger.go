// Package logging provides the process-wide leveled logger used across
// the engine. It intentionally stays a thin wrapper over the standard
// library's log.Logger writing to both stdout and a timestamped file,
// the way the original game server's logger did.
package logging

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

// LogLevel is one of the five severities the logger recognizes.
type LogLevel int

const (
	TRACE LogLevel = iota
	DEBUG
	INFO
	WARN
	ERROR
)

func (l LogLevel) String() string {
	switch l {
	case TRACE:
		return "TRACE"
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger writes every message to a log file and mirrors INFO-and-above
// to the console.
type Logger struct {
	consoleLogger *log.Logger
	fileLogger    *log.Logger
	file          *os.File
}

var globalLogger *Logger

// InitLogger opens logs/server_<timestamp>.log and installs it as the
// process-wide logger.
func InitLogger() error {
	if err := os.MkdirAll("logs", 0755); err != nil {
		return fmt.Errorf("create logs directory: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	filename := filepath.Join("logs", fmt.Sprintf("server_%s.log", timestamp))

	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	globalLogger = &Logger{
		consoleLogger: log.New(os.Stdout, "", log.LstdFlags),
		fileLogger:    log.New(file, "", log.LstdFlags),
		file:          file,
	}

	return nil
}

// CloseLogger flushes and closes the log file.
func CloseLogger() {
	if globalLogger != nil && globalLogger.file != nil {
		globalLogger.file.Close()
	}
}

func LogTrace(format string, args ...interface{}) { logMessage(TRACE, format, args...) }
func LogDebug(format string, args ...interface{}) { logMessage(DEBUG, format, args...) }
func LogInfo(format string, args ...interface{})  { logMessage(INFO, format, args...) }
func LogWarn(format string, args ...interface{})  { logMessage(WARN, format, args...) }
func LogError(format string, args ...interface{}) { logMessage(ERROR, format, args...) }

func logMessage(level LogLevel, format string, args ...interface{}) {
	if globalLogger == nil {
		return
	}
	message := fmt.Sprintf("[%s] %s", level.String(), fmt.Sprintf(format, args...))
	globalLogger.fileLogger.Println(message)
	if level >= INFO {
		globalLogger.consoleLogger.Println(message)
	}
}

// LogContext logs a diagnostic message tagged with the {component,
// stepNumber, key} triple every internal-failure report in this engine
// uses, so log lines from the scheduler, hydrology pass, and singleton
// lifecycle are greppable the same way.
func LogContext(level LogLevel, component string, stepNumber uint64, key string, format string, args ...interface{}) {
	logMessage(level, "component=%s step=%d key=%s %s", component, stepNumber, key, fmt.Sprintf(format, args...))
}
