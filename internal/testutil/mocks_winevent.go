package testutil

import (
	"errors"
	"sync"

	"github.com/Norgate-AV/wintrack/internal/window"
	"github.com/Norgate-AV/wintrack/internal/winevent"
)

// ErrHookRefused is what MockBackend returns for ranges configured to fail
var ErrHookRefused = errors.New("hook refused")

type mockHook struct {
	min, max uint32
	proc     winevent.Proc
}

// MockBackend implements winevent.Backend. Events are delivered synchronously
// by Fire on the caller's goroutine.
type MockBackend struct {
	mu sync.Mutex

	Owners     map[window.Handle]window.ProcessID
	FailRanges map[uint32]error // keyed by range minimum
	OpenErr    error
	UnhookErr  error
	CloseErr   error

	Sessions []*MockSession

	nextToken winevent.Token
	live      map[winevent.Token]*mockHook
	everHooks []*mockHook
}

// NewMockBackend returns a backend where every hook succeeds
func NewMockBackend() *MockBackend {
	return &MockBackend{
		Owners:     make(map[window.Handle]window.ProcessID),
		FailRanges: make(map[uint32]error),
		live:       make(map[winevent.Token]*mockHook),
	}
}

// WithOwner records pid as the owner of h
func (b *MockBackend) WithOwner(h window.Handle, pid window.ProcessID) *MockBackend {
	b.Owners[h] = pid
	return b
}

// WithFailingRange makes hooks starting at eventMin fail
func (b *MockBackend) WithFailingRange(eventMin uint32) *MockBackend {
	b.FailRanges[eventMin] = ErrHookRefused
	return b
}

// WithAllRangesFailing makes every hook fail
func (b *MockBackend) WithAllRangesFailing() *MockBackend {
	for _, r := range winevent.HookRanges() {
		b.FailRanges[r.Min] = ErrHookRefused
	}
	return b
}

func (b *MockBackend) Open() (winevent.Session, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.OpenErr != nil {
		return nil, b.OpenErr
	}

	s := &MockSession{backend: b}
	b.Sessions = append(b.Sessions, s)
	return s, nil
}

func (b *MockBackend) WindowPID(h window.Handle) (window.ProcessID, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	pid, ok := b.Owners[h]
	return pid, ok
}

// LiveHooks returns the number of registrations not yet released
func (b *MockBackend) LiveHooks() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.live)
}

// OpenSessions returns the number of sessions not yet closed
func (b *MockBackend) OpenSessions() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := 0
	for _, s := range b.Sessions {
		if !s.closed {
			n++
		}
	}
	return n
}

// Fire delivers ev to every live hook whose range contains ev.Event
func (b *MockBackend) Fire(ev winevent.RawEvent) {
	b.mu.Lock()
	var procs []winevent.Proc
	for _, h := range b.live {
		if ev.Event >= h.min && ev.Event <= h.max {
			procs = append(procs, h.proc)
		}
	}
	b.mu.Unlock()

	for _, p := range procs {
		p(ev)
	}
}

// FireIncludingReleased delivers ev to every proc ever registered for a
// matching range, live or not. It models a notification that was already in
// flight while its hook was being released.
func (b *MockBackend) FireIncludingReleased(ev winevent.RawEvent) {
	b.mu.Lock()
	var procs []winevent.Proc
	for _, h := range b.everHooks {
		if ev.Event >= h.min && ev.Event <= h.max {
			procs = append(procs, h.proc)
		}
	}
	b.mu.Unlock()

	for _, p := range procs {
		p(ev)
	}
}

// MockSession implements winevent.Session for MockBackend
type MockSession struct {
	backend *MockBackend
	closed  bool
	tokens  []winevent.Token
}

func (s *MockSession) Hook(eventMin, eventMax uint32, proc winevent.Proc) (winevent.Token, error) {
	b := s.backend
	b.mu.Lock()
	defer b.mu.Unlock()

	if s.closed {
		return 0, errors.New("session closed")
	}

	if eventMin > eventMax {
		return 0, errors.New("invalid event range")
	}

	if err := b.FailRanges[eventMin]; err != nil {
		return 0, err
	}

	b.nextToken++
	h := &mockHook{min: eventMin, max: eventMax, proc: proc}
	b.live[b.nextToken] = h
	b.everHooks = append(b.everHooks, h)
	s.tokens = append(s.tokens, b.nextToken)
	return b.nextToken, nil
}

func (s *MockSession) Unhook(t winevent.Token) error {
	b := s.backend
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.live, t)
	return b.UnhookErr
}

func (s *MockSession) Close() error {
	b := s.backend
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, t := range s.tokens {
		delete(b.live, t)
	}

	s.closed = true
	return b.CloseErr
}

// Closed reports whether Close has been called
func (s *MockSession) Closed() bool {
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()
	return s.closed
}
