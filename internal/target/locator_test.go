package target_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Norgate-AV/wintrack/internal/logger"
	"github.com/Norgate-AV/wintrack/internal/query"
	"github.com/Norgate-AV/wintrack/internal/target"
	"github.com/Norgate-AV/wintrack/internal/testutil"
	"github.com/Norgate-AV/wintrack/internal/window"
)

func newLocator(os *testutil.MockOS) *target.Locator {
	svc := query.New(os, logger.NewNoOpLogger()).WithSettleDelay(0)
	return target.NewLocator(svc, logger.NewNoOpLogger()).WithInterval(time.Millisecond)
}

func TestWaitForProcess_AlreadyRunning(t *testing.T) {
	t.Parallel()

	os := testutil.NewMockOS().WithProcess(321, "cs2.exe")

	pid, err := newLocator(os).WaitForProcess(context.Background(), "CS2.EXE")
	require.NoError(t, err)
	assert.Equal(t, window.ProcessID(321), pid)
}

func TestWaitForProcess_Timeout(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := newLocator(testutil.NewMockOS()).WaitForProcess(ctx, "cs2.exe")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "cs2.exe")
}

func TestWaitForProcess_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newLocator(testutil.NewMockOS()).WaitForProcess(ctx, "cs2.exe")
	assert.ErrorIs(t, err, context.Canceled)
}

// flakyQuerier finds the window only after a few polls
type flakyQuerier struct {
	*query.Service
	misses int
	calls  int
}

func (f *flakyQuerier) FindWindowByPID(pid window.ProcessID) (window.Handle, bool) {
	f.calls++
	if f.calls <= f.misses {
		return 0, false
	}

	return f.Service.FindWindowByPID(pid)
}

func TestWaitForWindow_AppearsLater(t *testing.T) {
	t.Parallel()

	os := testutil.NewMockOS().WithWindow(&testutil.FakeWindow{
		Handle:  0xABC,
		PID:     321,
		Title:   "Counter-Strike 2",
		Visible: true,
		Rect:    window.Rect{Width: 1920, Height: 1080},
	})

	log := testutil.NewRecordingLogger()
	q := &flakyQuerier{Service: query.New(os, logger.NewNoOpLogger()), misses: 3}
	l := target.NewLocator(q, log).WithInterval(time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	h, err := l.WaitForWindow(ctx, 321)
	require.NoError(t, err)
	assert.Equal(t, window.Handle(0xABC), h)
	assert.Equal(t, 4, q.calls)

	found := 0
	for _, e := range log.Entries() {
		if e.Msg == "Window found" {
			found++
		}
	}
	assert.Equal(t, 1, found, "The found window is logged once")
}

func TestWaitForWindow_Timeout(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := newLocator(testutil.NewMockOS()).WaitForWindow(ctx, 321)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
