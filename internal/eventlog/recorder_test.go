package eventlog

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Norgate-AV/wintrack/internal/logger"
	"github.com/Norgate-AV/wintrack/internal/winevent"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "events.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewRepository(db)
}

func TestRecorder_FlushesOnClose(t *testing.T) {
	repo := newTestRepo(t)
	rec := newRecorder(repo, logger.NewNoOpLogger(), time.Hour)

	rec.Record(winevent.Event{Type: winevent.KindMoveStart, Hwnd: 1}, 5, "")
	rec.Record(winevent.Event{Type: winevent.KindMoveEnd, Hwnd: 1}, 5, "")
	require.NoError(t, rec.Close())

	got, err := repo.Recent(0, "")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestRecorder_FlushesOnInterval(t *testing.T) {
	repo := newTestRepo(t)
	rec := newRecorder(repo, logger.NewNoOpLogger(), 5*time.Millisecond)
	defer rec.Close()

	rec.Record(winevent.Event{Type: winevent.KindForeground, Hwnd: 2, PID: 9}, 5, "x.exe")

	assert.Eventually(t, func() bool {
		got, err := repo.Recent(0, winevent.KindForeground)
		return err == nil && len(got) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestRecorder_RecordAfterClose(t *testing.T) {
	repo := newTestRepo(t)
	rec := newRecorder(repo, logger.NewNoOpLogger(), time.Hour)
	require.NoError(t, rec.Close())
	require.NoError(t, rec.Close())

	assert.NotPanics(t, func() {
		rec.Record(winevent.Event{Type: winevent.KindDestroy, Hwnd: 3}, 5, "")
	})

	got, err := repo.Recent(0, "")
	require.NoError(t, err)
	assert.Empty(t, got)
}
