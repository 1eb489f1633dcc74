package winevent

import "github.com/Norgate-AV/wintrack/internal/window"

// Token identifies one live hook registration (an HWINEVENTHOOK on Windows)
type Token uintptr

// RawEvent is one notification exactly as the OS delivered it
type RawEvent struct {
	Hook     Token
	Event    uint32
	Hwnd     window.Handle
	ObjectID int32
	ChildID  int32
	ThreadID uint32
	Time     uint32
}

// Proc receives raw notifications for the hooks it was registered with
type Proc func(RawEvent)

// Backend is the OS event-notification facility
type Backend interface {
	// Open creates a delivery context. Procs of hooks installed through the
	// session run on the session's thread.
	Open() (Session, error)

	// WindowPID returns the process owning h; false when h is stale.
	WindowPID(h window.Handle) (window.ProcessID, bool)
}

// Session owns the hooks installed through it
type Session interface {
	// Hook registers proc for raw codes in [eventMin, eventMax].
	Hook(eventMin, eventMax uint32, proc Proc) (Token, error)

	// Unhook releases one registration.
	Unhook(t Token) error

	// Close releases the delivery context. Once it returns, no proc of this
	// session is running or will run.
	Close() error
}
