//go:build integration && windows

package integration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Norgate-AV/wintrack/pkg/wintrack"
)

// staleHandle is never a live top-level window
const staleHandle wintrack.Handle = 0xFFFFFFF0

func explorer(t *testing.T) (wintrack.ProcessID, wintrack.Handle) {
	t.Helper()

	pid, ok := wintrack.FindProcessIDByName("explorer.exe")
	if !ok {
		t.Skip("explorer.exe is not running")
	}

	hwnd, ok := wintrack.FindWindowByPID(pid)
	if !ok {
		t.Skip("explorer.exe has no qualifying window")
	}

	return pid, hwnd
}

// TestIntegration_QueryExplorer runs the query layer against the shell
func TestIntegration_QueryExplorer(t *testing.T) {
	_, hwnd := explorer(t)

	bounds, ok := wintrack.GetClientBoundsOnScreen(hwnd)
	require.True(t, ok, "Explorer's main window should have client bounds")
	assert.GreaterOrEqual(t, bounds.Width, 0)
	assert.GreaterOrEqual(t, bounds.Height, 0)

	assert.GreaterOrEqual(t, wintrack.GetDPIScaleForHwnd(hwnd), 1.0)
}

// TestIntegration_StaleHandle checks that a dead handle never errors
func TestIntegration_StaleHandle(t *testing.T) {
	_, ok := wintrack.GetClientBoundsOnScreen(staleHandle)
	assert.False(t, ok)
	assert.False(t, wintrack.IsMinimized(staleHandle))
	assert.Equal(t, 1.0, wintrack.GetDPIScaleForHwnd(staleHandle))
	assert.False(t, wintrack.ForceActivateWindow(staleHandle))

	_, ok = wintrack.FindWindowByPID(0)
	assert.False(t, ok)
}

// TestIntegration_HookLifecycle installs, replaces and releases real hooks
func TestIntegration_HookLifecycle(t *testing.T) {
	pid, _ := explorer(t)
	t.Cleanup(func() { _ = wintrack.StopWinEventHook() })

	handler := func(wintrack.Event) {}

	require.NoError(t, wintrack.StartWinEventHook(pid, handler))
	assert.True(t, wintrack.IsHookLive())

	require.NoError(t, wintrack.StartWinEventHook(pid, handler), "Restart should replace the subscription")
	assert.True(t, wintrack.IsHookLive())

	require.NoError(t, wintrack.StopWinEventHook())
	assert.False(t, wintrack.IsHookLive())

	assert.NoError(t, wintrack.StopWinEventHook(), "Stop should be idempotent")
}

// TestIntegration_StartNilHandler checks argument validation leaves no hooks behind
func TestIntegration_StartNilHandler(t *testing.T) {
	err := wintrack.StartWinEventHook(1, nil)
	assert.ErrorIs(t, err, wintrack.ErrNilHandler)
	assert.False(t, wintrack.IsHookLive())
}
