//go:build windows

package win32

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/Norgate-AV/wintrack/internal/logger"
	"github.com/Norgate-AV/wintrack/internal/query"
	"github.com/Norgate-AV/wintrack/internal/window"
)

// OS implements query.OS with user32, gdi32 and the Toolhelp snapshot API
type OS struct {
	log logger.LoggerInterface
}

// NewOS creates the Windows query backend
func NewOS(log logger.LoggerInterface) *OS {
	return &OS{log: log}
}

func hwnd(h window.Handle) windows.HWND {
	return windows.HWND(h.Uintptr())
}

// ProcessSnapshot walks a Toolhelp32 process snapshot
func (o *OS) ProcessSnapshot() ([]query.ProcessEntry, error) {
	snapshot, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPPROCESS, 0)
	if err != nil {
		return nil, fmt.Errorf("CreateToolhelp32Snapshot: %w", err)
	}
	defer windows.CloseHandle(snapshot)

	var entry windows.ProcessEntry32
	entry.Size = uint32(unsafe.Sizeof(entry))

	if err := windows.Process32First(snapshot, &entry); err != nil {
		return nil, fmt.Errorf("Process32First: %w", err)
	}

	var entries []query.ProcessEntry
	for {
		entries = append(entries, query.ProcessEntry{
			PID:     window.ProcessID(entry.ProcessID),
			ExeFile: windows.UTF16ToString(entry.ExeFile[:]),
		})

		err := windows.Process32Next(snapshot, &entry)
		if errors.Is(err, windows.ERROR_NO_MORE_FILES) {
			break
		}

		if err != nil {
			return entries, fmt.Errorf("Process32Next: %w", err)
		}
	}

	return entries, nil
}

var (
	enumMu      sync.Mutex
	enumVisit   func(h window.Handle) bool
	enumStopped bool
	enumOnce    sync.Once
	enumProc    uintptr
)

func enumWindowsCallback(h uintptr, _ uintptr) uintptr {
	if enumVisit(window.Handle(h)) {
		return 1 // continue
	}

	enumStopped = true
	return 0
}

// EnumTopLevelWindows enumerates top-level windows. Enumerations are
// serialized because the callback is shared by the whole process.
func (o *OS) EnumTopLevelWindows(fn func(h window.Handle) bool) error {
	enumOnce.Do(func() {
		enumProc = windows.NewCallback(enumWindowsCallback)
	})

	enumMu.Lock()
	defer enumMu.Unlock()

	enumVisit = fn
	enumStopped = false
	defer func() { enumVisit = nil }()

	err := windows.EnumWindows(enumProc, nil)
	if err != nil && !enumStopped {
		return fmt.Errorf("EnumWindows: %w", err)
	}

	return nil
}

func (o *OS) IsWindow(h window.Handle) bool {
	return windows.IsWindow(hwnd(h))
}

func (o *OS) IsWindowVisible(h window.Handle) bool {
	return windows.IsWindowVisible(hwnd(h))
}

func (o *OS) IsIconic(h window.Handle) bool {
	ret, _, _ := procIsIconic.Call(h.Uintptr())
	return ret != 0
}

func (o *OS) IsToolWindow(h window.Handle) bool {
	ret, _, _ := procGetWindowLongW.Call(h.Uintptr(), uintptr(GWL_EXSTYLE))
	return uint32(ret)&WS_EX_TOOLWINDOW != 0
}

// WindowText retrieves the title of a window
func (o *OS) WindowText(h window.Handle) string {
	buf := make([]uint16, 256)

	n, _, _ := procGetWindowTextW.Call(h.Uintptr(), uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	if n == 0 {
		return ""
	}

	return windows.UTF16ToString(buf[:n])
}

func (o *OS) WindowRect(h window.Handle) (window.Rect, bool) {
	var r RECT

	ret, _, _ := procGetWindowRect.Call(h.Uintptr(), uintptr(unsafe.Pointer(&r)))
	if ret == 0 {
		return window.Rect{}, false
	}

	return window.RectFromEdges(r.Left, r.Top, r.Right, r.Bottom), true
}

// ClientRectOnScreen returns the client area with its origin mapped to screen coordinates
func (o *OS) ClientRectOnScreen(h window.Handle) (window.Rect, bool) {
	var r RECT

	ret, _, _ := procGetClientRect.Call(h.Uintptr(), uintptr(unsafe.Pointer(&r)))
	if ret == 0 {
		return window.Rect{}, false
	}

	origin := POINT{X: r.Left, Y: r.Top}

	ret, _, _ = procClientToScreen.Call(h.Uintptr(), uintptr(unsafe.Pointer(&origin)))
	if ret == 0 {
		return window.Rect{}, false
	}

	return window.Rect{
		X:      int(origin.X),
		Y:      int(origin.Y),
		Width:  int(r.Right - r.Left),
		Height: int(r.Bottom - r.Top),
	}, true
}

func (o *OS) WindowThreadProcessID(h window.Handle) (uint32, window.ProcessID) {
	var pid uint32

	tid, err := windows.GetWindowThreadProcessId(hwnd(h), &pid)
	if err != nil {
		return 0, 0
	}

	return tid, window.ProcessID(pid)
}

// DpiForWindowFunc returns GetDpiForWindow when user32 exports it (Windows 10 1607+)
func (o *OS) DpiForWindowFunc() func(h window.Handle) uint32 {
	if err := procGetDpiForWindow.Find(); err != nil {
		o.log.Debug("GetDpiForWindow not available")
		return nil
	}

	return func(h window.Handle) uint32 {
		ret, _, _ := procGetDpiForWindow.Call(h.Uintptr())
		return uint32(ret)
	}
}

// SystemDPI reads LOGPIXELSX from the window's device context
func (o *OS) SystemDPI(h window.Handle) (uint32, bool) {
	hdc, _, _ := procGetDC.Call(h.Uintptr())
	if hdc == 0 {
		return 0, false
	}
	defer procReleaseDC.Call(h.Uintptr(), hdc)

	dpi, _, _ := procGetDeviceCaps.Call(hdc, LOGPIXELSX)
	return uint32(dpi), dpi != 0
}

func (o *OS) ForegroundWindow() window.Handle {
	return window.Handle(windows.GetForegroundWindow())
}

func (o *OS) CurrentThreadID() uint32 {
	return windows.GetCurrentThreadId()
}

func (o *OS) AttachThreadInput(from, to uint32, attach bool) bool {
	var flag uintptr
	if attach {
		flag = 1
	}

	ret, _, _ := procAttachThreadInput.Call(uintptr(from), uintptr(to), flag)
	return ret != 0
}

func (o *OS) RestoreWindow(h window.Handle) bool {
	ret, _, _ := procShowWindow.Call(h.Uintptr(), SW_RESTORE)
	return ret != 0
}

func (o *OS) SetForegroundWindow(h window.Handle) bool {
	ret, _, _ := procSetForegroundWindow.Call(h.Uintptr())
	return ret != 0
}

func (o *OS) BringWindowToTop(h window.Handle) bool {
	ret, _, _ := procBringWindowToTop.Call(h.Uintptr())
	return ret != 0
}

func (o *OS) SetFocus(h window.Handle) {
	procSetFocus.Call(h.Uintptr())
}

// IsElevated reports whether the current process token is elevated. Windows
// of elevated processes cannot be activated from a non-elevated one.
func IsElevated() bool {
	return windows.GetCurrentProcessToken().IsElevated()
}
