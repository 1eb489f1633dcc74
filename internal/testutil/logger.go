package testutil

import (
	"fmt"
	"strings"
	"sync"
)

// LogEntry is one call recorded by RecordingLogger
type LogEntry struct {
	Level string
	Msg   string
}

// RecordingLogger implements logger.LoggerInterface and keeps every message
type RecordingLogger struct {
	mu      sync.Mutex
	entries []LogEntry
}

func NewRecordingLogger() *RecordingLogger {
	return &RecordingLogger{}
}

func (l *RecordingLogger) add(level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, LogEntry{Level: level, Msg: msg})
}

func (l *RecordingLogger) Trace(msg string, _ ...any) { l.add("TRACE", msg) }
func (l *RecordingLogger) Debug(msg string, _ ...any) { l.add("DEBUG", msg) }
func (l *RecordingLogger) Info(msg string, _ ...any)  { l.add("INFO", msg) }
func (l *RecordingLogger) Warn(msg string, _ ...any)  { l.add("WARN", msg) }
func (l *RecordingLogger) Error(msg string, _ ...any) { l.add("ERROR", msg) }
func (l *RecordingLogger) Close()                     {}
func (l *RecordingLogger) GetLogPath() string         { return "" }

// Entries returns a copy of everything logged so far
func (l *RecordingLogger) Entries() []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]LogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Has reports whether a message at level contains substr
func (l *RecordingLogger) Has(level, substr string) bool {
	for _, e := range l.Entries() {
		if e.Level == level && strings.Contains(e.Msg, substr) {
			return true
		}
	}
	return false
}

func (e LogEntry) String() string {
	return fmt.Sprintf("%s %s", e.Level, e.Msg)
}
