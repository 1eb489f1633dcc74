// Package procinfo resolves process ids to executable names.
package procinfo

import (
	"log/slog"
	"sync"

	"github.com/shirou/gopsutil/process"

	"github.com/Norgate-AV/wintrack/internal/logger"
	"github.com/Norgate-AV/wintrack/internal/window"
)

// Namer looks up executable names and caches them per process instance. A
// cached name is only returned while the pid still has the same create time,
// so a reused pid is looked up again.
type Namer struct {
	log     logger.LoggerInterface
	lookup  func(pid int32) (string, error)
	created func(pid int32) (int64, error)

	mu    sync.Mutex
	cache map[window.ProcessID]entry
}

type entry struct {
	name    string
	created int64
}

// NewNamer creates a Namer backed by gopsutil
func NewNamer(log logger.LoggerInterface) *Namer {
	return &Namer{
		log:     log,
		lookup:  processName,
		created: createTime,
		cache:   make(map[window.ProcessID]entry),
	}
}

func processName(pid int32) (string, error) {
	proc, err := process.NewProcess(pid)
	if err != nil {
		return "", err
	}

	return proc.Name()
}

// createTime returns the process start in milliseconds since the epoch
func createTime(pid int32) (int64, error) {
	proc, err := process.NewProcess(pid)
	if err != nil {
		return 0, err
	}

	return proc.CreateTime()
}

// Name returns the executable name of pid, false when it cannot be read
func (n *Namer) Name(pid window.ProcessID) (string, bool) {
	if pid == 0 {
		return "", false
	}

	created, err := n.created(int32(pid))
	if err != nil {
		n.log.Trace("Process start time unavailable", slog.Uint64("pid", uint64(pid)), slog.Any("error", err))
		n.Forget(pid)
		return "", false
	}

	n.mu.Lock()
	cached, ok := n.cache[pid]
	n.mu.Unlock()

	if ok && cached.created == created {
		return cached.name, true
	}

	name, err := n.lookup(int32(pid))
	if err != nil || name == "" {
		n.log.Trace("Process name unavailable", slog.Uint64("pid", uint64(pid)), slog.Any("error", err))
		n.Forget(pid)
		return "", false
	}

	n.mu.Lock()
	n.cache[pid] = entry{name: name, created: created}
	n.mu.Unlock()

	return name, true
}

// Forget drops the cached name of pid
func (n *Namer) Forget(pid window.ProcessID) {
	n.mu.Lock()
	delete(n.cache, pid)
	n.mu.Unlock()
}
