// Package log is a leveled file logger for the TUI. Stdout belongs to
// Bubble Tea, so log lines go to a file opened via tea.LogToFile,
// enabled with --debug or STRATDECK_DEBUG=1. When disabled, every call
// is a no-op.
package log

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Level is log severity.
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

// ParseLevel maps a config level name to a Level, defaulting to info.
func ParseLevel(name string) Level {
	switch name {
	case "debug":
		return LevelDebug
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

var (
	mu       sync.Mutex
	out      io.WriteCloser
	minLevel Level
)

// EnvVar enables logging without the --debug flag.
const EnvVar = "STRATDECK_DEBUG"

// EnabledByEnv reports whether the debug env var is set.
func EnabledByEnv() bool {
	v := os.Getenv(EnvVar)
	return v != "" && v != "0"
}

// Setup opens the log file and enables logging at the given level.
func Setup(path string, level Level) error {
	f, err := tea.LogToFile(path, "stratdeck")
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	mu.Lock()
	defer mu.Unlock()
	out = f
	minLevel = level
	return nil
}

// Close flushes and disables logging.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if out != nil {
		out.Close()
		out = nil
	}
}

// Debug logs at debug level under a category.
func Debug(category, format string, args ...any) { write(LevelDebug, category, format, args...) }

// Info logs at info level under a category.
func Info(category, format string, args ...any) { write(LevelInfo, category, format, args...) }

// Warn logs at warn level under a category.
func Warn(category, format string, args ...any) { write(LevelWarn, category, format, args...) }

// Error logs at error level under a category.
func Error(category, format string, args ...any) { write(LevelError, category, format, args...) }

func write(level Level, category, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if out == nil || level < minLevel {
		return
	}
	fmt.Fprintf(out, "%s [%s] %s: %s\n",
		time.Now().Format("15:04:05.000"), level, category, fmt.Sprintf(format, args...))
}
