//go:build windows

// Package win32 implements the window queries and the WinEvent backend on top
// of user32, gdi32 and kernel32.
package win32

import (
	"golang.org/x/sys/windows"
)

var (
	user32                    = windows.NewLazySystemDLL("user32.dll")
	procIsIconic              = user32.NewProc("IsIconic")
	procGetWindowLongW        = user32.NewProc("GetWindowLongW")
	procGetWindowTextW        = user32.NewProc("GetWindowTextW")
	procGetWindowRect         = user32.NewProc("GetWindowRect")
	procGetClientRect         = user32.NewProc("GetClientRect")
	procClientToScreen        = user32.NewProc("ClientToScreen")
	procGetDpiForWindow       = user32.NewProc("GetDpiForWindow")
	procGetDC                 = user32.NewProc("GetDC")
	procReleaseDC             = user32.NewProc("ReleaseDC")
	procAttachThreadInput     = user32.NewProc("AttachThreadInput")
	procShowWindow            = user32.NewProc("ShowWindow")
	procSetForegroundWindow   = user32.NewProc("SetForegroundWindow")
	procBringWindowToTop      = user32.NewProc("BringWindowToTop")
	procSetFocus              = user32.NewProc("SetFocus")
	procSetWinEventHook       = user32.NewProc("SetWinEventHook")
	procUnhookWinEvent        = user32.NewProc("UnhookWinEvent")
	procGetMessageW           = user32.NewProc("GetMessageW")
	procPeekMessageW          = user32.NewProc("PeekMessageW")
	procTranslateMessage      = user32.NewProc("TranslateMessage")
	procDispatchMessageW      = user32.NewProc("DispatchMessageW")
	procPostThreadMessageW    = user32.NewProc("PostThreadMessageW")
	gdi32                     = windows.NewLazySystemDLL("gdi32.dll")
	procGetDeviceCaps         = gdi32.NewProc("GetDeviceCaps")
	kernel32                  = windows.NewLazySystemDLL("kernel32.dll")
	procSetConsoleCtrlHandler = kernel32.NewProc("SetConsoleCtrlHandler")
)

const (
	WM_QUIT = 0x0012
	WM_USER = 0x0400

	// WM_APP_RUN asks a hook session's pump thread to run its queued work
	WM_APP_RUN = 0x8000 + 1

	PM_NOREMOVE = 0x0000

	SW_RESTORE = 9

	WS_EX_TOOLWINDOW = 0x00000080

	LOGPIXELSX = 88

	WINEVENT_OUTOFCONTEXT   = 0x0000
	WINEVENT_SKIPOWNPROCESS = 0x0002
)

// GWL_EXSTYLE is negative, so it cannot be a uintptr constant
var GWL_EXSTYLE int32 = -20
