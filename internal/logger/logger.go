// Package logger provides structured logging to a rotating file and the console.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fatih/color"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	// AppName names the log directory and file
	AppName = "wintrack"

	// DefaultLogMaxSize is the size in megabytes at which the log file rotates
	DefaultLogMaxSize = 5

	// DefaultLogMaxBackups is the number of rotated files kept
	DefaultLogMaxBackups = 3

	// DefaultLogMaxAge is the number of days rotated files are kept
	DefaultLogMaxAge = 14

	// LevelTrace sits below Debug and is only ever written to the file.
	// Per-event dispatch logging uses it.
	LevelTrace = slog.LevelDebug - 4
)

// LoggerInterface defines the logging methods
type LoggerInterface interface {
	Trace(msg string, args ...any) // file only
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Close()
	GetLogPath() string
}

// LoggerOptions configures the logger
type LoggerOptions struct {
	Verbose    bool
	LogDir     string    // empty means %LOCALAPPDATA%\wintrack
	Console    io.Writer // console destination, defaults to os.Stdout
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Compress   bool
}

// DefaultLogDir returns %LOCALAPPDATA%\wintrack, falling back to
// %USERPROFILE%\AppData\Local\wintrack when LOCALAPPDATA is unset.
func DefaultLogDir() string {
	base := os.Getenv("LOCALAPPDATA")
	if base == "" {
		base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Local")
	}

	return filepath.Join(base, AppName)
}

// GetLogPath returns the log file path the given options resolve to
func GetLogPath(opts LoggerOptions) string {
	dir := opts.LogDir
	if dir == "" {
		dir = DefaultLogDir()
	}

	return filepath.Join(dir, AppName+".log")
}

// PrintLogFile copies the current log file to w (stdout when nil)
func PrintLogFile(w io.Writer, opts LoggerOptions) error {
	if w == nil {
		w = os.Stdout
	}

	logPath := GetLogPath(opts)

	file, err := os.Open(logPath)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", logPath, err)
	}
	defer file.Close()

	if _, err := io.Copy(w, file); err != nil {
		return fmt.Errorf("failed to read log file: %w", err)
	}

	return nil
}

// Logger writes every record to the rotating file and a filtered view to the console
type Logger struct {
	file      *slog.Logger
	console   *slog.Logger
	rotator   *lumberjack.Logger
	logPath   string
	closeOnce sync.Once
}

// NewLogger creates the log directory if needed and returns a ready logger
func NewLogger(opts LoggerOptions) (*Logger, error) {
	if opts.MaxSize == 0 {
		opts.MaxSize = DefaultLogMaxSize
	}

	if opts.MaxBackups == 0 {
		opts.MaxBackups = DefaultLogMaxBackups
	}

	if opts.MaxAge == 0 {
		opts.MaxAge = DefaultLogMaxAge
	}

	if opts.Console == nil {
		opts.Console = os.Stdout
	}

	logPath := GetLogPath(opts)
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return nil, fmt.Errorf("could not create log directory: %w", err)
	}

	rotator := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    opts.MaxSize,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAge,
		Compress:   opts.Compress,
	}

	fileLogger := slog.New(slog.NewTextHandler(rotator, &slog.HandlerOptions{
		Level:       LevelTrace,
		ReplaceAttr: renameTraceLevel,
	}))

	return &Logger{
		file:    fileLogger,
		console: slog.New(NewConsoleHandler(opts.Console, opts.Verbose)),
		rotator: rotator,
		logPath: logPath,
	}, nil
}

// renameTraceLevel prints LevelTrace as "TRACE" instead of "DEBUG-4"
func renameTraceLevel(_ []string, a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey {
		return a
	}

	if level, ok := a.Value.Any().(slog.Level); ok && level == LevelTrace {
		a.Value = slog.StringValue("TRACE")
	}

	return a
}

// Close flushes and closes the log file. Safe to call more than once.
func (l *Logger) Close() {
	l.closeOnce.Do(func() {
		if err := l.rotator.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: Failed to close log file: %v\n", err)
		}
	})
}

// GetLogPath returns the path to the current log file
func (l *Logger) GetLogPath() string {
	return l.logPath
}

func (l *Logger) Trace(msg string, args ...any) {
	l.file.Log(context.Background(), LevelTrace, msg, args...)
}

func (l *Logger) Debug(msg string, args ...any) {
	l.file.Debug(msg, args...)
	l.console.Debug(msg, args...)
}

func (l *Logger) Info(msg string, args ...any) {
	l.file.Info(msg, args...)
	l.console.Info(msg, args...)
}

func (l *Logger) Warn(msg string, args ...any) {
	l.file.Warn(msg, args...)
	l.console.Warn(msg, args...)
}

func (l *Logger) Error(msg string, args ...any) {
	l.file.Error(msg, args...)
	l.console.Error(msg, args...)
}

// ConsoleHandler prints one line per record without timestamps,
// prefixed and colored by level.
type ConsoleHandler struct {
	writer  io.Writer
	verbose bool
	mu      *sync.Mutex
}

// NewConsoleHandler returns a handler writing to w. Debug records are shown
// only when verbose is set; trace records never are.
func NewConsoleHandler(w io.Writer, verbose bool) *ConsoleHandler {
	return &ConsoleHandler{writer: w, verbose: verbose, mu: &sync.Mutex{}}
}

func (h *ConsoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	if level < slog.LevelDebug {
		return false
	}

	if level < slog.LevelInfo {
		return h.verbose
	}

	return true
}

func (h *ConsoleHandler) Handle(_ context.Context, r slog.Record) error {
	var prefix string
	var paint *color.Color

	switch {
	case r.Level >= slog.LevelError:
		prefix = "ERROR: "
		paint = color.New(color.FgRed)
	case r.Level >= slog.LevelWarn:
		prefix = "WARNING: "
		paint = color.New(color.FgYellow)
	case r.Level < slog.LevelInfo:
		prefix = "VERBOSE: "
		paint = color.New(color.FgCyan)
	}

	line := prefix + r.Message
	if r.NumAttrs() > 0 {
		attrs := make([]string, 0, r.NumAttrs())
		r.Attrs(func(a slog.Attr) bool {
			attrs = append(attrs, fmt.Sprintf("%s=%v", a.Key, a.Value))
			return true
		})

		line += " " + strings.Join(attrs, " ")
	}

	// Records may come from the WinEvent delivery thread and the CLI goroutine at once
	h.mu.Lock()
	defer h.mu.Unlock()

	if paint != nil {
		_, _ = paint.Fprintln(h.writer, line)
		return nil
	}

	_, _ = fmt.Fprintln(h.writer, line)
	return nil
}

func (h *ConsoleHandler) WithAttrs(_ []slog.Attr) slog.Handler {
	return h
}

func (h *ConsoleHandler) WithGroup(_ string) slog.Handler {
	return h
}

// NoOpLogger discards everything. The library facade and tests use it.
type NoOpLogger struct{}

func (n *NoOpLogger) Trace(msg string, args ...any) {}
func (n *NoOpLogger) Debug(msg string, args ...any) {}
func (n *NoOpLogger) Info(msg string, args ...any)  {}
func (n *NoOpLogger) Warn(msg string, args ...any)  {}
func (n *NoOpLogger) Error(msg string, args ...any) {}
func (n *NoOpLogger) Close()                        {}
func (n *NoOpLogger) GetLogPath() string            { return "" }

// NewNoOpLogger creates a new no-op logger
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}
