// Package debug writes onboard's diagnostic log. Nothing is recorded unless
// --debug is passed; the log lives at ~/.onboard/debug.log and starts empty
// on every launch. Lines are slog text records so they can be grepped by
// scope, e.g. `grep scope=api`.
package debug

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	LogFileName = "debug.log"
	LogDirName  = ".onboard"
)

var (
	mu      sync.RWMutex
	logger  *slog.Logger
	logFile *os.File

	getLogPath = defaultGetLogPath
)

// Init opens the log file when enable is true and turns logging off
// otherwise.
func Init(enable bool) error {
	mu.Lock()
	defer mu.Unlock()

	closeLocked()
	logger = nil
	if !enable {
		return nil
	}

	logPath, err := getLogPath()
	if err != nil {
		return fmt.Errorf("determine log path: %w", err)
	}
	//nolint:gosec // G301: user config directory
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	//nolint:gosec // G304: path is derived from the home directory
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	logFile = f
	logger = newLogger(f)
	logger.Info("onboard debug log started", "at", time.Now().Format(time.RFC3339))
	return nil
}

// InitWriter sends the log to w, or disables it when w is nil.
func InitWriter(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	closeLocked()
	logger = nil
	if w != nil {
		logger = newLogger(w)
	}
}

func newLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// Close closes the log file. Safe to call when logging is off.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	closeLocked()
	logger = nil
}

func closeLocked() {
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}

func current() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Log writes its operands like fmt.Sprint.
func Log(v ...any) {
	if l := current(); l != nil {
		l.Debug(fmt.Sprint(v...))
	}
}

// Logf writes a formatted message.
func Logf(format string, v ...any) {
	if l := current(); l != nil {
		l.Debug(fmt.Sprintf(format, v...))
	}
}

// Enabled reports whether anything is being recorded.
func Enabled() bool {
	return current() != nil
}

// Scope tags records with the part of the app that wrote them.
type Scope string

// Logf writes a formatted message under the scope.
func (s Scope) Logf(format string, v ...any) {
	if l := current(); l != nil {
		l.Debug(fmt.Sprintf(format, v...), "scope", string(s))
	}
}

// Log writes msg with slog key/value pairs under the scope.
func (s Scope) Log(msg string, args ...any) {
	if l := current(); l != nil {
		l.With("scope", string(s)).Debug(msg, args...)
	}
}

func defaultGetLogPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("determine user home: %w", err)
	}
	return filepath.Join(home, LogDirName, LogFileName), nil
}

// GetLogPath returns where Init writes the log.
func GetLogPath() (string, error) {
	return getLogPath()
}
