// Package logger is the application's debug log. It stays silent unless
// enabled at startup; everything then goes to a single file under the data
// directory, never to the terminal the TUI owns.
package logger

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
)

var (
	enabled bool

	out     *log.Logger
	logFile *os.File
)

// InitLogging opens the log file when debug mode is on. With debug off this
// is a no-op and every level becomes free.
func InitLogging(debugMode bool, logPath string) error {
	enabled = debugMode

	if !enabled || logPath == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	logFile = f
	out = log.New(f, "", log.Ldate|log.Ltime|log.Lshortfile)

	return nil
}

// Close flushes and closes the log file if one was opened.
func Close() {
	if logFile != nil {
		logFile.Close()
	}
}

func logf(level, format string, v ...interface{}) {
	if out == nil {
		return
	}

	out.Printf(level+" "+format, v...)
}

func Debugf(format string, v ...interface{}) {
	logf("[debug]", format, v...)
}

func Infof(format string, v ...interface{}) {
	logf("[info]", format, v...)
}

func Warnf(format string, v ...interface{}) {
	logf("[warn]", format, v...)
}

func Errorf(format string, v ...interface{}) {
	logf("[error]", format, v...)
}
