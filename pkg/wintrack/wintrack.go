// Package wintrack is the process-wide API for tracking one application's
// top-level window: stateless window and process queries plus a single
// WinEvent subscription shared by the whole process.
package wintrack

import (
	"errors"
	"sync"

	"github.com/Norgate-AV/wintrack/internal/logger"
	"github.com/Norgate-AV/wintrack/internal/query"
	"github.com/Norgate-AV/wintrack/internal/window"
	"github.com/Norgate-AV/wintrack/internal/winevent"
)

type (
	Handle    = window.Handle
	ProcessID = window.ProcessID
	Rect      = window.Rect
	Event     = winevent.Event
	Kind      = winevent.Kind
	Handler   = winevent.Handler
)

// Event kinds delivered to a Handler
const (
	KindForeground     = winevent.KindForeground
	KindLocationChange = winevent.KindLocationChange
	KindMoveStart      = winevent.KindMoveStart
	KindMoveEnd        = winevent.KindMoveEnd
	KindMinimizeStart  = winevent.KindMinimizeStart
	KindMinimizeEnd    = winevent.KindMinimizeEnd
	KindDestroy        = winevent.KindDestroy
)

var (
	// ErrUnsupported is returned by StartWinEventHook on platforms without WinEvents
	ErrUnsupported = errors.New("wintrack: window tracking is only supported on Windows")

	// ErrNilHandler is returned by StartWinEventHook when handler is nil
	ErrNilHandler = winevent.ErrNilHandler

	// ErrHooksUnavailable is returned by StartWinEventHook when no event range could be registered
	ErrHooksUnavailable = winevent.ErrHooksUnavailable
)

// Logger receives the package's diagnostics. *slog.Logger satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// hostLogger adapts a Logger to the internal logger, sending trace output to Debug
type hostLogger struct {
	Logger
}

func (h hostLogger) Trace(msg string, args ...any) { h.Debug(msg, args...) }
func (hostLogger) Close()                          {}
func (hostLogger) GetLogPath() string              { return "" }

var (
	mu      sync.Mutex
	log     logger.LoggerInterface = logger.NewNoOpLogger()
	queries *query.Service
	manager *winevent.Manager
)

// SetLogger sets the logger used by the package. It only affects calls made
// before the first query or hook call. A nil logger discards everything.
func SetLogger(l Logger) {
	mu.Lock()
	defer mu.Unlock()

	switch l := l.(type) {
	case nil:
		log = logger.NewNoOpLogger()
	case logger.LoggerInterface:
		log = l
	default:
		log = hostLogger{l}
	}
}

func state() (*query.Service, *winevent.Manager) {
	mu.Lock()
	defer mu.Unlock()

	if queries == nil {
		queries = query.New(newOS(log), log)
		manager = winevent.NewManager(newBackend(log), log)
	}

	return queries, manager
}

// FindProcessIDByName returns the first running process whose executable name
// matches, ignoring case. With several matches the winner depends on the
// OS's process enumeration order.
func FindProcessIDByName(name string) (ProcessID, bool) {
	q, _ := state()
	return q.FindProcessIDByName(name)
}

// FindWindowByPID returns the largest visible, titled, non-tool top-level window of pid
func FindWindowByPID(pid ProcessID) (Handle, bool) {
	q, _ := state()
	return q.FindWindowByPID(pid)
}

// GetClientBoundsOnScreen returns the client area of h in screen coordinates
func GetClientBoundsOnScreen(h Handle) (Rect, bool) {
	q, _ := state()
	return q.ClientBoundsOnScreen(h)
}

func IsMinimized(h Handle) bool {
	q, _ := state()
	return q.IsMinimized(h)
}

// GetDPIScaleForHwnd returns the DPI scale of h relative to 96 DPI, 1.0 when unknown
func GetDPIScaleForHwnd(h Handle) float64 {
	q, _ := state()
	return q.DPIScale(h)
}

func GetForegroundPID() (ProcessID, bool) {
	q, _ := state()
	return q.ForegroundPID()
}

// ForceActivateWindow restores and foregrounds h, reporting whether it ended up in the foreground
func ForceActivateWindow(h Handle) bool {
	q, _ := state()
	return q.ActivateWindow(h)
}

// StartWinEventHook replaces the process-wide subscription. handler receives
// foreground changes for every process and all other kinds for windows of pid
// only. It runs on a dedicated OS thread and must not call StartWinEventHook
// or StopWinEventHook.
func StartWinEventHook(pid ProcessID, handler Handler) error {
	_, m := state()
	return m.Start(pid, handler)
}

// StopWinEventHook releases the subscription. It is safe to call at any time.
func StopWinEventHook() error {
	_, m := state()
	return m.Stop()
}

// IsHookLive reports whether a subscription is installed
func IsHookLive() bool {
	_, m := state()
	return m.Live()
}
