// Package interfaces defines core interfaces for dependency injection and testing.
package interfaces

import (
	"github.com/Norgate-AV/wintrack/internal/window"
	"github.com/Norgate-AV/wintrack/internal/winevent"
)

// WindowQuerier answers stateless window and process queries
type WindowQuerier interface {
	FindProcessIDByName(name string) (window.ProcessID, bool)
	FindWindowByPID(pid window.ProcessID) (window.Handle, bool)
	ClientBoundsOnScreen(h window.Handle) (window.Rect, bool)
	IsMinimized(h window.Handle) bool
	DPIScale(h window.Handle) float64
	ForegroundPID() (window.ProcessID, bool)
	ActivateWindow(h window.Handle) bool
}

// EventSubscriber owns the single window-event subscription
type EventSubscriber interface {
	Start(targetPid window.ProcessID, handler winevent.Handler) error
	Stop() error
	Live() bool
}

// EventRecorder persists tracked events. Record is called on the event
// delivery thread and must not block.
type EventRecorder interface {
	Record(e winevent.Event, targetPid window.ProcessID, processName string)
	Close() error
}

// ProcessNamer resolves a pid to its executable name
type ProcessNamer interface {
	Name(pid window.ProcessID) (string, bool)
	Forget(pid window.ProcessID)
}
