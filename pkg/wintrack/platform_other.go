//go:build !windows

package wintrack

import (
	"github.com/Norgate-AV/wintrack/internal/logger"
	"github.com/Norgate-AV/wintrack/internal/query"
	"github.com/Norgate-AV/wintrack/internal/window"
	"github.com/Norgate-AV/wintrack/internal/winevent"
)

func newOS(logger.LoggerInterface) query.OS {
	return unsupportedOS{}
}

func newBackend(logger.LoggerInterface) winevent.Backend {
	return unsupportedBackend{}
}

// unsupportedOS has no windows and no processes
type unsupportedOS struct{}

func (unsupportedOS) ProcessSnapshot() ([]query.ProcessEntry, error) {
	return nil, ErrUnsupported
}

func (unsupportedOS) EnumTopLevelWindows(func(h window.Handle) bool) error {
	return ErrUnsupported
}

func (unsupportedOS) IsWindow(window.Handle) bool                                    { return false }
func (unsupportedOS) IsWindowVisible(window.Handle) bool                             { return false }
func (unsupportedOS) IsIconic(window.Handle) bool                                    { return false }
func (unsupportedOS) IsToolWindow(window.Handle) bool                                { return false }
func (unsupportedOS) WindowText(window.Handle) string                                { return "" }
func (unsupportedOS) WindowRect(window.Handle) (window.Rect, bool)                   { return window.Rect{}, false }
func (unsupportedOS) ClientRectOnScreen(window.Handle) (window.Rect, bool)           { return window.Rect{}, false }
func (unsupportedOS) WindowThreadProcessID(window.Handle) (uint32, window.ProcessID) { return 0, 0 }
func (unsupportedOS) DpiForWindowFunc() func(h window.Handle) uint32                 { return nil }
func (unsupportedOS) SystemDPI(window.Handle) (uint32, bool)                         { return 0, false }
func (unsupportedOS) ForegroundWindow() window.Handle                                { return 0 }
func (unsupportedOS) CurrentThreadID() uint32                                        { return 0 }
func (unsupportedOS) AttachThreadInput(uint32, uint32, bool) bool                    { return false }
func (unsupportedOS) RestoreWindow(window.Handle) bool                               { return false }
func (unsupportedOS) SetForegroundWindow(window.Handle) bool                         { return false }
func (unsupportedOS) BringWindowToTop(window.Handle) bool                            { return false }
func (unsupportedOS) SetFocus(window.Handle)                                         {}

type unsupportedBackend struct{}

func (unsupportedBackend) Open() (winevent.Session, error) {
	return nil, ErrUnsupported
}

func (unsupportedBackend) WindowPID(window.Handle) (window.ProcessID, bool) {
	return 0, false
}
