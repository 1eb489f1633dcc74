// Package target waits for the tracked application to start and show its main window.
package target

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Norgate-AV/wintrack/internal/interfaces"
	"github.com/Norgate-AV/wintrack/internal/logger"
	"github.com/Norgate-AV/wintrack/internal/timeouts"
	"github.com/Norgate-AV/wintrack/internal/window"
)

// Locator polls the query layer until the target shows up
type Locator struct {
	log      logger.LoggerInterface
	query    interfaces.WindowQuerier
	interval time.Duration
}

// NewLocator creates a locator polling at timeouts.StatePollingInterval
func NewLocator(query interfaces.WindowQuerier, log logger.LoggerInterface) *Locator {
	return &Locator{
		log:      log,
		query:    query,
		interval: timeouts.StatePollingInterval,
	}
}

// WithInterval overrides the polling interval
func (l *Locator) WithInterval(d time.Duration) *Locator {
	l.interval = d
	return l
}

// WaitForProcess waits until a process with the executable name is running.
// It returns the context's error when ctx ends first.
func (l *Locator) WaitForProcess(ctx context.Context, name string) (window.ProcessID, error) {
	l.log.Debug("Waiting for process", slog.String("name", name))

	pid, err := poll(ctx, l.interval, func() (window.ProcessID, bool) {
		return l.query.FindProcessIDByName(name)
	})
	if err != nil {
		return 0, fmt.Errorf("process %s did not start: %w", name, err)
	}

	l.log.Debug("Process found", slog.String("name", name), slog.Uint64("pid", uint64(pid)))
	return pid, nil
}

// WaitForWindow waits until pid owns a qualifying top-level window
func (l *Locator) WaitForWindow(ctx context.Context, pid window.ProcessID) (window.Handle, error) {
	l.log.Debug("Searching for window", slog.Uint64("pid", uint64(pid)))

	h, err := poll(ctx, l.interval, func() (window.Handle, bool) {
		return l.query.FindWindowByPID(pid)
	})
	if err != nil {
		return 0, fmt.Errorf("no window for pid %d: %w", pid, err)
	}

	l.log.Debug("Window found", slog.String("hwnd", h.String()), slog.Uint64("pid", uint64(pid)))
	return h, nil
}

// poll calls check immediately and then every interval until it reports a
// value or ctx ends
func poll[T any](ctx context.Context, interval time.Duration, check func() (T, bool)) (T, error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if v, ok := check(); ok {
			return v, nil
		}

		select {
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		case <-ticker.C:
		}
	}
}
