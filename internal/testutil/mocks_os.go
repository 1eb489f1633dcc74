package testutil

import (
	"sync"

	"github.com/Norgate-AV/wintrack/internal/query"
	"github.com/Norgate-AV/wintrack/internal/window"
)

// FakeWindow is one top-level window in a MockOS desktop
type FakeWindow struct {
	Handle   window.Handle
	PID      window.ProcessID
	ThreadID uint32
	Title    string
	Visible  bool
	Tool     bool
	Iconic   bool
	Rect     window.Rect
	Client   window.Rect // already in screen coordinates
	DPI      uint32      // per-window DPI, 0 when unknown
}

// AttachCall records one AttachThreadInput call
type AttachCall struct {
	From   uint32
	To     uint32
	Attach bool
}

// MockOS implements query.OS over an in-memory desktop
type MockOS struct {
	mu sync.Mutex

	Processes   []query.ProcessEntry
	SnapshotErr error
	Windows     []*FakeWindow
	EnumErr     error

	PerWindowDPI bool   // whether DpiForWindowFunc reports the facility
	SysDPI       uint32 // 0 means the system DPI read fails

	Foreground   window.Handle
	ThreadID     uint32
	AttachResult bool

	// ForegroundFollowsSet moves Foreground to whatever SetForegroundWindow is given
	ForegroundFollowsSet bool

	AttachCalls        []AttachCall
	RestoreCalls       []window.Handle
	SetForegroundCalls []window.Handle
	BringToTopCalls    []window.Handle
	FocusCalls         []window.Handle
}

// NewMockOS returns an empty desktop where activation succeeds
func NewMockOS() *MockOS {
	return &MockOS{
		ThreadID:             1,
		AttachResult:         true,
		ForegroundFollowsSet: true,
	}
}

// WithProcess adds a process table entry
func (m *MockOS) WithProcess(pid window.ProcessID, exe string) *MockOS {
	m.Processes = append(m.Processes, query.ProcessEntry{PID: pid, ExeFile: exe})
	return m
}

// WithWindow adds a window in enumeration order
func (m *MockOS) WithWindow(w *FakeWindow) *MockOS {
	m.Windows = append(m.Windows, w)
	return m
}

// WithForeground sets the current foreground window
func (m *MockOS) WithForeground(h window.Handle) *MockOS {
	m.Foreground = h
	return m
}

// WithPerWindowDPI enables the per-window DPI facility
func (m *MockOS) WithPerWindowDPI() *MockOS {
	m.PerWindowDPI = true
	return m
}

// WithSystemDPI sets the DPI the device-context fallback reports
func (m *MockOS) WithSystemDPI(dpi uint32) *MockOS {
	m.SysDPI = dpi
	return m
}

// Close removes h from the desktop, leaving any handle to it stale
func (m *MockOS) Close(h window.Handle) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, w := range m.Windows {
		if w.Handle == h {
			m.Windows = append(m.Windows[:i], m.Windows[i+1:]...)
			return
		}
	}
}

func (m *MockOS) find(h window.Handle) *FakeWindow {
	for _, w := range m.Windows {
		if w.Handle == h {
			return w
		}
	}

	return nil
}

func (m *MockOS) ProcessSnapshot() ([]query.ProcessEntry, error) {
	if m.SnapshotErr != nil {
		return nil, m.SnapshotErr
	}

	out := make([]query.ProcessEntry, len(m.Processes))
	copy(out, m.Processes)
	return out, nil
}

func (m *MockOS) EnumTopLevelWindows(fn func(h window.Handle) bool) error {
	m.mu.Lock()
	handles := make([]window.Handle, 0, len(m.Windows))
	for _, w := range m.Windows {
		handles = append(handles, w.Handle)
	}
	m.mu.Unlock()

	if m.EnumErr != nil {
		return m.EnumErr
	}

	for _, h := range handles {
		if !fn(h) {
			break
		}
	}

	return nil
}

func (m *MockOS) IsWindow(h window.Handle) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.find(h) != nil
}

func (m *MockOS) IsWindowVisible(h window.Handle) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	w := m.find(h)
	return w != nil && w.Visible
}

func (m *MockOS) IsIconic(h window.Handle) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	w := m.find(h)
	return w != nil && w.Iconic
}

func (m *MockOS) IsToolWindow(h window.Handle) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	w := m.find(h)
	return w != nil && w.Tool
}

func (m *MockOS) WindowText(h window.Handle) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if w := m.find(h); w != nil {
		return w.Title
	}
	return ""
}

func (m *MockOS) WindowRect(h window.Handle) (window.Rect, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if w := m.find(h); w != nil {
		return w.Rect, true
	}
	return window.Rect{}, false
}

func (m *MockOS) ClientRectOnScreen(h window.Handle) (window.Rect, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if w := m.find(h); w != nil {
		return w.Client, true
	}
	return window.Rect{}, false
}

func (m *MockOS) WindowThreadProcessID(h window.Handle) (uint32, window.ProcessID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if w := m.find(h); w != nil {
		return w.ThreadID, w.PID
	}
	return 0, 0
}

func (m *MockOS) DpiForWindowFunc() func(h window.Handle) uint32 {
	if !m.PerWindowDPI {
		return nil
	}

	return func(h window.Handle) uint32 {
		m.mu.Lock()
		defer m.mu.Unlock()
		if w := m.find(h); w != nil {
			return w.DPI
		}
		return 0
	}
}

func (m *MockOS) SystemDPI(_ window.Handle) (uint32, bool) {
	return m.SysDPI, m.SysDPI != 0
}

func (m *MockOS) ForegroundWindow() window.Handle {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Foreground
}

func (m *MockOS) CurrentThreadID() uint32 {
	return m.ThreadID
}

func (m *MockOS) AttachThreadInput(from, to uint32, attach bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AttachCalls = append(m.AttachCalls, AttachCall{From: from, To: to, Attach: attach})
	return m.AttachResult
}

func (m *MockOS) RestoreWindow(h window.Handle) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RestoreCalls = append(m.RestoreCalls, h)
	if w := m.find(h); w != nil {
		w.Iconic = false
		return true
	}
	return false
}

func (m *MockOS) SetForegroundWindow(h window.Handle) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetForegroundCalls = append(m.SetForegroundCalls, h)
	if !m.ForegroundFollowsSet {
		return false
	}
	m.Foreground = h
	return true
}

func (m *MockOS) BringWindowToTop(h window.Handle) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.BringToTopCalls = append(m.BringToTopCalls, h)
	return m.find(h) != nil
}

func (m *MockOS) SetFocus(h window.Handle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FocusCalls = append(m.FocusCalls, h)
}
