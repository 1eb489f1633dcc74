//go:build windows

package win32

import (
	"sync"

	"golang.org/x/sys/windows"
)

// ConsoleCtrlHandler is a callback function for console control events.
// Returning 1 marks the event as handled.
type ConsoleCtrlHandler func(ctrlType uint32) uintptr

var (
	ctrlMu      sync.Mutex
	ctrlHandler ConsoleCtrlHandler
	ctrlOnce    sync.Once
	ctrlErr     error
)

// SetConsoleCtrlHandler routes Ctrl+C, Ctrl+Break, console close, logoff and
// shutdown to handler. Later calls replace the handler.
func SetConsoleCtrlHandler(handler ConsoleCtrlHandler) error {
	ctrlMu.Lock()
	ctrlHandler = handler
	ctrlMu.Unlock()

	ctrlOnce.Do(func() {
		ret, _, err := procSetConsoleCtrlHandler.Call(
			windows.NewCallback(consoleCtrlHandlerCallback),
			1, // TRUE - add handler
		)
		if ret == 0 {
			ctrlErr = err
		}
	})

	return ctrlErr
}

// consoleCtrlHandlerCallback is the actual callback that Windows calls
func consoleCtrlHandlerCallback(ctrlType uint32) uintptr {
	ctrlMu.Lock()
	handler := ctrlHandler
	ctrlMu.Unlock()

	if handler != nil {
		return handler(ctrlType)
	}

	return 0 // FALSE - let default handler process it
}

// Console control event types
const (
	CTRL_C_EVENT        = 0
	CTRL_BREAK_EVENT    = 1
	CTRL_CLOSE_EVENT    = 2
	CTRL_LOGOFF_EVENT   = 5
	CTRL_SHUTDOWN_EVENT = 6
)

// GetCtrlTypeName returns a human-readable name for a control event type
func GetCtrlTypeName(ctrlType uint32) string {
	switch ctrlType {
	case CTRL_C_EVENT:
		return "CTRL_C"
	case CTRL_BREAK_EVENT:
		return "CTRL_BREAK"
	case CTRL_CLOSE_EVENT:
		return "CTRL_CLOSE"
	case CTRL_LOGOFF_EVENT:
		return "CTRL_LOGOFF"
	case CTRL_SHUTDOWN_EVENT:
		return "CTRL_SHUTDOWN"
	default:
		return "UNKNOWN"
	}
}
