// Package winevent is the window-event subscription core. A Manager holds at
// most one live subscription to OS WinEvents: it registers the event ranges,
// filters notifications by owning process, translates raw codes into Kinds and
// hands each event to a single Handler.
//
// Start replaces any live subscription by tearing it down completely before
// the new one is installed, so a replaced handler is never called again once
// Start returns. Stop is idempotent.
package winevent

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/hashicorp/go-multierror"

	"github.com/Norgate-AV/wintrack/internal/logger"
	"github.com/Norgate-AV/wintrack/internal/window"
)

// Manager owns the subscription slot
type Manager struct {
	backend Backend
	log     logger.LoggerInterface

	// mu serializes Start and Stop. Dispatch never takes it.
	mu      sync.Mutex
	current atomic.Pointer[subscription]
}

// subscription is one Start..Stop lifetime
type subscription struct {
	target  window.ProcessID
	handler Handler
	session Session
	tokens  []Token
}

// NewManager creates a stopped manager over backend
func NewManager(backend Backend, log logger.LoggerInterface) *Manager {
	return &Manager{backend: backend, log: log}
}

// Start subscribes handler to window events. Foreground changes are delivered
// for every process; all other kinds only for windows owned by targetPid.
//
// A live subscription is torn down first. If none of the event ranges can be
// registered, the manager is left stopped and an error wrapping
// ErrHooksUnavailable is returned. Registering only some ranges is not an
// error; the missing kinds are simply never delivered.
func (m *Manager) Start(targetPid window.ProcessID, handler Handler) error {
	if handler == nil {
		return ErrNilHandler
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if old := m.current.Swap(nil); old != nil {
		m.log.Debug("Replacing live WinEvent subscription", slog.Uint64("oldTarget", uint64(old.target)))
		if err := m.teardown(old); err != nil {
			m.log.Warn("Teardown of previous subscription reported errors", slog.Any("error", err))
		}
	}

	session, err := m.backend.Open()
	if err != nil {
		return fmt.Errorf("failed to open WinEvent session: %w", err)
	}

	sub := &subscription{
		target:  targetPid,
		handler: handler,
		session: session,
	}

	var failures *multierror.Error
	for _, r := range hookRanges {
		token, err := session.Hook(r.Min, r.Max, func(ev RawEvent) { m.dispatch(sub, ev) })
		if err != nil {
			m.log.Warn("WinEvent hook range unavailable",
				slog.String("range", r.Name),
				slog.Any("error", err),
			)
			failures = multierror.Append(failures, fmt.Errorf("%s [0x%04X-0x%04X]: %w", r.Name, r.Min, r.Max, err))
			continue
		}

		sub.tokens = append(sub.tokens, token)
	}

	if len(sub.tokens) == 0 {
		if err := session.Close(); err != nil {
			failures = multierror.Append(failures, fmt.Errorf("close session: %w", err))
		}

		return fmt.Errorf("%w: %w", ErrHooksUnavailable, failures.ErrorOrNil())
	}

	m.current.Store(sub)

	m.log.Debug("WinEvent subscription live",
		slog.Uint64("target", uint64(targetPid)),
		slog.Int("hooks", len(sub.tokens)),
		slog.Int("failed", len(hookRanges)-len(sub.tokens)),
	)

	return nil
}

// Stop releases every hook and drops the handler. Stopping a stopped manager
// is a no-op. The returned error aggregates release failures; the manager is
// stopped either way.
func (m *Manager) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sub := m.current.Swap(nil)
	if sub == nil {
		return nil
	}

	m.log.Debug("Stopping WinEvent subscription", slog.Uint64("target", uint64(sub.target)))
	return m.teardown(sub)
}

// Live reports whether a subscription is installed
func (m *Manager) Live() bool {
	return m.current.Load() != nil
}

// Target returns the pid the live subscription filters for
func (m *Manager) Target() (window.ProcessID, bool) {
	sub := m.current.Load()
	if sub == nil {
		return 0, false
	}

	return sub.target, true
}

// teardown releases every token and the session. sub must already be
// unreachable through m.current.
func (m *Manager) teardown(sub *subscription) error {
	var result *multierror.Error

	for _, t := range sub.tokens {
		if err := sub.session.Unhook(t); err != nil {
			result = multierror.Append(result, fmt.Errorf("unhook 0x%X: %w", uintptr(t), err))
		}
	}

	sub.tokens = nil

	if err := sub.session.Close(); err != nil {
		result = multierror.Append(result, fmt.Errorf("close session: %w", err))
	}

	return result.ErrorOrNil()
}

// dispatch translates one raw notification for sub and delivers it.
// It runs on the OS delivery thread.
func (m *Manager) dispatch(sub *subscription, ev RawEvent) {
	if ev.ObjectID != ObjIDWindow || ev.ChildID != ChildIDSelf {
		return
	}

	// A replaced or stopped subscription must never reach its handler again
	if m.current.Load() != sub {
		return
	}

	if ev.Event == EventSystemForeground {
		pid, _ := m.backend.WindowPID(ev.Hwnd)
		m.deliver(sub, Event{Type: KindForeground, Hwnd: ev.Hwnd, PID: pid})
		return
	}

	pid, ok := m.backend.WindowPID(ev.Hwnd)
	if !ok || pid != sub.target {
		return
	}

	kind, ok := kindFor(ev.Event)
	if !ok {
		return
	}

	m.deliver(sub, Event{Type: kind, Hwnd: ev.Hwnd})
}

func (m *Manager) deliver(sub *subscription, e Event) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Error("WinEvent handler panicked",
				slog.Any("panic", r),
				slog.String("event", string(e.Type)),
				slog.String("stack", string(debug.Stack())),
			)
		}
	}()

	m.log.Trace("WinEvent", slog.String("type", string(e.Type)), slog.String("hwnd", e.Hwnd.String()))
	sub.handler(e)
}
