//go:build !windows

package wintrack_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Norgate-AV/wintrack/pkg/wintrack"
)

func TestUnsupportedPlatform(t *testing.T) {
	wintrack.SetLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, ok := wintrack.FindProcessIDByName("cs2.exe")
	assert.False(t, ok)

	_, ok = wintrack.FindWindowByPID(1)
	assert.False(t, ok)

	_, ok = wintrack.GetClientBoundsOnScreen(0x10)
	assert.False(t, ok)

	_, ok = wintrack.GetForegroundPID()
	assert.False(t, ok)

	assert.False(t, wintrack.IsMinimized(0x10))
	assert.False(t, wintrack.ForceActivateWindow(0x10))
	assert.Equal(t, 1.0, wintrack.GetDPIScaleForHwnd(0x10))

	err := wintrack.StartWinEventHook(1, func(wintrack.Event) {})
	assert.ErrorIs(t, err, wintrack.ErrUnsupported)
	assert.False(t, wintrack.IsHookLive())

	assert.ErrorIs(t, wintrack.StartWinEventHook(1, nil), wintrack.ErrNilHandler)
	assert.NoError(t, wintrack.StopWinEventHook())
}
