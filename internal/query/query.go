// Package query implements the stateless window and process queries: process
// lookup by executable name, best-window selection for a process, geometry and
// DPI reads, and forced activation.
//
// Every call is synchronous and keeps no state between calls. Window handles
// may go stale at any moment, so reads report absence (false) instead of errors.
package query

import (
	"log/slog"
	"runtime"
	"strings"
	"time"

	"github.com/Norgate-AV/wintrack/internal/logger"
	"github.com/Norgate-AV/wintrack/internal/timeouts"
	"github.com/Norgate-AV/wintrack/internal/window"
)

// BaselineDPI is the DPI that corresponds to a scale factor of 1.0
const BaselineDPI = 96

// ProcessEntry is one row of a process table snapshot
type ProcessEntry struct {
	PID     window.ProcessID
	ExeFile string
}

// OS is the set of operating-system primitives the queries are built on.
// The Windows implementation lives in internal/win32; tests use a fake.
type OS interface {
	// ProcessSnapshot returns the live process table in enumeration order.
	ProcessSnapshot() ([]ProcessEntry, error)

	// EnumTopLevelWindows calls fn for every top-level window until fn returns false.
	EnumTopLevelWindows(fn func(h window.Handle) bool) error

	IsWindow(h window.Handle) bool
	IsWindowVisible(h window.Handle) bool
	IsIconic(h window.Handle) bool
	IsToolWindow(h window.Handle) bool
	WindowText(h window.Handle) string
	WindowRect(h window.Handle) (window.Rect, bool)
	ClientRectOnScreen(h window.Handle) (window.Rect, bool)

	// WindowThreadProcessID returns the owning thread and process, both zero
	// when the handle is stale.
	WindowThreadProcessID(h window.Handle) (threadID uint32, pid window.ProcessID)

	// DpiForWindowFunc probes for the per-window DPI facility. It returns nil
	// when the running OS does not provide it.
	DpiForWindowFunc() func(h window.Handle) uint32

	// SystemDPI reads the DPI of the window's device context. ok is false when
	// the facility is unavailable.
	SystemDPI(h window.Handle) (dpi uint32, ok bool)

	ForegroundWindow() window.Handle
	CurrentThreadID() uint32
	AttachThreadInput(from, to uint32, attach bool) bool
	RestoreWindow(h window.Handle) bool
	SetForegroundWindow(h window.Handle) bool
	BringWindowToTop(h window.Handle) bool
	SetFocus(h window.Handle)
}

// Service answers window and process queries against an OS
type Service struct {
	os           OS
	log          logger.LoggerInterface
	dpiForWindow func(h window.Handle) uint32
	settleDelay  time.Duration
}

// New creates a query service. The per-window DPI capability is probed once here.
func New(os OS, log logger.LoggerInterface) *Service {
	s := &Service{
		os:          os,
		log:         log,
		settleDelay: timeouts.ActivationSettleDelay,
	}

	s.dpiForWindow = os.DpiForWindowFunc()
	if s.dpiForWindow == nil {
		log.Debug("Per-window DPI unavailable, falling back to system DPI")
	}

	return s
}

// WithSettleDelay overrides the pause between activation and the foreground
// read-back. Tests use zero.
func (s *Service) WithSettleDelay(d time.Duration) *Service {
	s.settleDelay = d
	return s
}

// FindProcessIDByName returns the first process whose executable file name
// equals name, ignoring case. The snapshot's enumeration order is defined by
// the OS and is not stable, so with several matching processes the winner is
// not deterministic.
func (s *Service) FindProcessIDByName(name string) (window.ProcessID, bool) {
	if name == "" {
		return 0, false
	}

	entries, err := s.os.ProcessSnapshot()
	if err != nil {
		s.log.Debug("Process snapshot failed", slog.Any("error", err))
		return 0, false
	}

	for _, e := range entries {
		if strings.EqualFold(e.ExeFile, name) {
			return e.PID, true
		}
	}

	return 0, false
}

// FindWindowByPID returns the largest visible, titled, non-tool top-level
// window owned by pid. Ties keep the window seen first in enumeration order.
func (s *Service) FindWindowByPID(pid window.ProcessID) (window.Handle, bool) {
	if pid == 0 {
		return 0, false
	}

	var best window.Handle
	bestArea := -1

	err := s.os.EnumTopLevelWindows(func(h window.Handle) bool {
		if !s.os.IsWindowVisible(h) {
			return true
		}

		if _, owner := s.os.WindowThreadProcessID(h); owner != pid {
			return true
		}

		if s.os.IsToolWindow(h) || s.os.WindowText(h) == "" {
			return true
		}

		area := 0
		if r, ok := s.os.WindowRect(h); ok {
			area = r.Area()
		}

		if area > bestArea {
			best, bestArea = h, area
		}

		return true
	})
	if err != nil {
		s.log.Debug("Window enumeration failed", slog.Any("error", err))
	}

	return best, best != 0
}

// ClientBoundsOnScreen returns the client area of h in screen coordinates
func (s *Service) ClientBoundsOnScreen(h window.Handle) (window.Rect, bool) {
	if h == 0 {
		return window.Rect{}, false
	}

	return s.os.ClientRectOnScreen(h)
}

// IsMinimized reports whether h is iconic. Stale handles report false.
func (s *Service) IsMinimized(h window.Handle) bool {
	return h != 0 && s.os.IsIconic(h)
}

// DPIScale returns the DPI scale of h relative to 96 DPI. It prefers the
// per-window facility, falls back to the system DPI and finally to 1.0.
func (s *Service) DPIScale(h window.Handle) float64 {
	if s.dpiForWindow != nil {
		if dpi := s.dpiForWindow(h); dpi != 0 {
			return float64(dpi) / BaselineDPI
		}
	}

	if dpi, ok := s.os.SystemDPI(h); ok && dpi != 0 {
		return float64(dpi) / BaselineDPI
	}

	return 1.0
}

// ForegroundPID returns the process owning the foreground window
func (s *Service) ForegroundPID() (window.ProcessID, bool) {
	fg := s.os.ForegroundWindow()
	if fg == 0 {
		return 0, false
	}

	_, pid := s.os.WindowThreadProcessID(fg)
	return pid, pid != 0
}

// ActivateWindow restores h if minimized and forces it to the foreground, even
// when this process does not own the foreground. It reports whether h is the
// foreground window afterwards.
func (s *Service) ActivateWindow(h window.Handle) bool {
	if h == 0 || !s.os.IsWindow(h) {
		s.log.Debug("Activation skipped, window is gone", slog.String("hwnd", h.String()))
		return false
	}

	s.bringToFront(h)

	return s.verifyForeground(h)
}

func (s *Service) bringToFront(h window.Handle) {
	// Input attachment is per OS thread; the attach and the detach must run on the same one.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	detach := s.attachToForeground()
	defer detach()

	if s.os.IsIconic(h) {
		s.os.RestoreWindow(h)
	}

	if !s.os.SetForegroundWindow(h) {
		s.log.Debug("SetForegroundWindow refused", slog.String("hwnd", h.String()))
	}

	s.os.BringWindowToTop(h)
	s.os.SetFocus(h)
}

// attachToForeground links this thread's input state with the thread owning
// the current foreground window. The returned func undoes exactly what was done.
func (s *Service) attachToForeground() func() {
	fg := s.os.ForegroundWindow()
	if fg == 0 {
		return func() {}
	}

	fgThread, _ := s.os.WindowThreadProcessID(fg)
	current := s.os.CurrentThreadID()
	if fgThread == 0 || fgThread == current {
		return func() {}
	}

	if !s.os.AttachThreadInput(current, fgThread, true) {
		s.log.Debug("AttachThreadInput failed",
			slog.Uint64("thread", uint64(current)),
			slog.Uint64("fgThread", uint64(fgThread)),
		)
		return func() {}
	}

	return func() {
		if !s.os.AttachThreadInput(current, fgThread, false) {
			s.log.Warn("Failed to detach thread input",
				slog.Uint64("thread", uint64(current)),
				slog.Uint64("fgThread", uint64(fgThread)),
			)
		}
	}
}

func (s *Service) verifyForeground(h window.Handle) bool {
	if s.settleDelay > 0 {
		time.Sleep(s.settleDelay)
	}

	fg := s.os.ForegroundWindow()
	if fg == h {
		s.log.Debug("Window confirmed in foreground", slog.String("hwnd", h.String()))
		return true
	}

	s.log.Debug("Different window in foreground",
		slog.String("expected", h.String()),
		slog.String("got", fg.String()),
	)

	return false
}
