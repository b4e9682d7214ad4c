// Package logging provides file-based logging for boards-seed.
// Every line is appended to the log file and mirrored to a console writer.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/runoshun/boards-seed/internal/domain"
)

// Ensure Logger implements domain.Logger interface.
var _ domain.Logger = (*Logger)(nil)

// Level tag styles used on a colour console.
var (
	styleDebug = lipgloss.NewStyle().Foreground(lipgloss.Color("#928374"))
	styleInfo  = lipgloss.NewStyle().Foreground(lipgloss.Color("#83a598"))
	styleWarn  = lipgloss.NewStyle().Foreground(lipgloss.Color("#fabd2f"))
	styleError = lipgloss.NewStyle().Foreground(lipgloss.Color("#fb4934")).Bold(true)
)

// Logger writes log lines to a file and a console writer.
// Fields are ordered to minimize memory padding.
type Logger struct {
	console io.Writer
	file    *os.File
	clock   domain.Clock
	path    string
	runID   string
	mu      sync.Mutex
	level   slog.Level
	color   bool
}

// Options configures a Logger.
type Options struct {
	Console io.Writer    // Mirror destination; nil disables console output
	Path    string       // Log file; empty disables file output
	RunID   string       // Tag included in every line
	Level   slog.Level   // Minimum level written
	Clock   domain.Clock // Timestamp source; nil uses the system clock
	Color   bool         // Colour level tags on the console
}

// New creates a new Logger. The log file is opened lazily on first write.
func New(opts Options) *Logger {
	clock := opts.Clock
	if clock == nil {
		clock = domain.RealClock{}
	}
	return &Logger{
		console: opts.Console,
		path:    opts.Path,
		runID:   opts.RunID,
		level:   opts.Level,
		color:   opts.Color,
		clock:   clock,
	}
}

// ParseLevel parses a log level string into slog.Level.
func ParseLevel(levelStr string) slog.Level {
	switch levelStr {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Path returns the log file path.
func (l *Logger) Path() string {
	return l.path
}

// ensureFile opens or returns the log file.
// Caller must hold l.mu.
func (l *Logger) ensureFile() (*os.File, error) {
	if l.file != nil {
		return l.file, nil
	}

	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
	}

	// G302: Log files are append-only and need read access by the team
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640) //nolint:gosec // Log file readable by owner and group
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	l.file = f
	return f, nil
}

// Close closes the log file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// formatLog formats a log entry.
// Format: [2025-12-30 09:32:51] [INFO] [run-1a2b3c4d] [category] message
func formatLog(t time.Time, levelTag, runID, category, msg string) string {
	runStr := "run"
	if runID != "" {
		runStr = "run-" + runID
	}
	return fmt.Sprintf("[%s] [%s] [%s] [%s] %s\n",
		t.Format("2006-01-02 15:04:05"),
		levelTag,
		runStr,
		category,
		msg,
	)
}

func levelToString(level slog.Level) string {
	switch level {
	case slog.LevelDebug:
		return "DEBUG"
	case slog.LevelInfo:
		return "INFO"
	case slog.LevelWarn:
		return "WARN"
	case slog.LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

func levelStyle(level slog.Level) lipgloss.Style {
	switch level {
	case slog.LevelDebug:
		return styleDebug
	case slog.LevelWarn:
		return styleWarn
	case slog.LevelError:
		return styleError
	default:
		return styleInfo
	}
}

func (l *Logger) log(level slog.Level, category, msg string) {
	if level < l.level {
		return
	}

	now := l.clock.Now()
	tag := levelToString(level)

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.path != "" {
		if f, err := l.ensureFile(); err == nil {
			_, _ = io.WriteString(f, formatLog(now, tag, l.runID, category, msg))
		}
	}

	if l.console != nil {
		consoleTag := tag
		if l.color {
			consoleTag = levelStyle(level).Render(tag)
		}
		_, _ = io.WriteString(l.console, formatLog(now, consoleTag, l.runID, category, msg))
	}
}

// Info logs an info message.
func (l *Logger) Info(category, msg string) {
	l.log(slog.LevelInfo, category, msg)
}

// Debug logs a debug message.
func (l *Logger) Debug(category, msg string) {
	l.log(slog.LevelDebug, category, msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(category, msg string) {
	l.log(slog.LevelWarn, category, msg)
}

// Error logs an error message.
func (l *Logger) Error(category, msg string) {
	l.log(slog.LevelError, category, msg)
}
