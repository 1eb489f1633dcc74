package eventlog

import (
	"log/slog"
	"sync"
	"time"

	"github.com/Norgate-AV/wintrack/internal/logger"
	"github.com/Norgate-AV/wintrack/internal/timeouts"
	"github.com/Norgate-AV/wintrack/internal/window"
	"github.com/Norgate-AV/wintrack/internal/winevent"
)

const recorderBuffer = 1024

// Recorder buffers records off the event delivery thread and writes them in
// batches. Record never blocks; when the buffer is full the record is dropped.
type Recorder struct {
	repo     *Repository
	log      logger.LoggerInterface
	interval time.Duration

	records   chan Record
	done      chan struct{}
	closeOnce sync.Once
	closeErr  error

	mu     sync.RWMutex
	closed bool
}

// NewRecorder starts a recorder flushing to repo every timeouts.RecorderFlushInterval
func NewRecorder(repo *Repository, log logger.LoggerInterface) *Recorder {
	return newRecorder(repo, log, timeouts.RecorderFlushInterval)
}

func newRecorder(repo *Repository, log logger.LoggerInterface, interval time.Duration) *Recorder {
	r := &Recorder{
		repo:     repo,
		log:      log,
		interval: interval,
		records:  make(chan Record, recorderBuffer),
		done:     make(chan struct{}),
	}

	go r.run()
	return r
}

// Record queues e for writing
func (r *Recorder) Record(e winevent.Event, targetPid window.ProcessID, processName string) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return
	}

	select {
	case r.records <- NewRecord(e, targetPid, processName):
	default:
		r.log.Warn("event log buffer full, event dropped",
			slog.String("type", string(e.Type)),
			slog.String("hwnd", e.Hwnd.String()),
		)
	}
}

func (r *Recorder) run() {
	defer close(r.done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	var batch []*Record

	flush := func() {
		if len(batch) == 0 {
			return
		}

		if err := r.repo.Create(batch...); err != nil {
			r.log.Error("Failed to write event records", slog.Int("count", len(batch)), slog.Any("error", err))
			r.closeErr = err
		} else {
			r.log.Trace("Event records written", slog.Int("count", len(batch)))
		}

		batch = nil
	}

	for {
		select {
		case rec, ok := <-r.records:
			if !ok {
				flush()
				return
			}

			batch = append(batch, &rec)
		case <-ticker.C:
			flush()
		}
	}
}

// Close writes everything still buffered and stops the recorder. It returns
// the last write error, if any. The database itself stays open.
func (r *Recorder) Close() error {
	r.closeOnce.Do(func() {
		r.mu.Lock()
		r.closed = true
		close(r.records)
		r.mu.Unlock()

		<-r.done
	})

	return r.closeErr
}
