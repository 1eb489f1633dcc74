//go:build windows

package wintrack_test

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Norgate-AV/wintrack/pkg/wintrack"
)

// deadHandle is never a live top-level window
const deadHandle wintrack.Handle = 0xFFFFFFF0

func TestFindProcessIDByName_Self(t *testing.T) {
	wintrack.SetLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	exe, err := os.Executable()
	require.NoError(t, err)

	pid, ok := wintrack.FindProcessIDByName(filepath.Base(exe))
	require.True(t, ok, "The test binary should find itself")
	assert.NotZero(t, pid)
}

func TestQueries_DeadHandle(t *testing.T) {
	_, ok := wintrack.GetClientBoundsOnScreen(deadHandle)
	assert.False(t, ok)
	assert.False(t, wintrack.IsMinimized(deadHandle))
	assert.Equal(t, 1.0, wintrack.GetDPIScaleForHwnd(deadHandle))

	_, ok = wintrack.FindWindowByPID(0)
	assert.False(t, ok)

	_, ok = wintrack.FindProcessIDByName("no-such-process-wintrack.exe")
	assert.False(t, ok)
}

func TestWinEventHook_Lifecycle(t *testing.T) {
	t.Cleanup(func() { _ = wintrack.StopWinEventHook() })

	pid := wintrack.ProcessID(os.Getpid())
	handler := func(wintrack.Event) {}

	assert.ErrorIs(t, wintrack.StartWinEventHook(pid, nil), wintrack.ErrNilHandler)
	assert.False(t, wintrack.IsHookLive())

	require.NoError(t, wintrack.StartWinEventHook(pid, handler))
	assert.True(t, wintrack.IsHookLive())

	require.NoError(t, wintrack.StopWinEventHook())
	assert.False(t, wintrack.IsHookLive())
	assert.NoError(t, wintrack.StopWinEventHook())
}
