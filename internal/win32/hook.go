//go:build windows

package win32

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"unsafe"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sys/windows"

	"github.com/Norgate-AV/wintrack/internal/logger"
	"github.com/Norgate-AV/wintrack/internal/window"
	"github.com/Norgate-AV/wintrack/internal/winevent"
)

var (
	// ErrCloseFromDelivery is returned when a session is closed from inside
	// one of its own hook procs. The pump thread cannot wait for itself.
	ErrCloseFromDelivery = errors.New("win32: session closed from its own delivery thread")

	// ErrSessionClosed is returned by operations on a closed session
	ErrSessionClosed = errors.New("win32: hook session closed")
)

// Every hook installed by any session is routed through one callback.
// Callbacks made by windows.NewCallback are never released, so it is created once.
var (
	hookProcs     sync.Map // HWINEVENTHOOK -> winevent.Proc
	winEventOnce  sync.Once
	winEventThunk uintptr
)

func winEventCallback(hook, event, hwnd, idObject, idChild, thread, timeMs uintptr) uintptr {
	v, ok := hookProcs.Load(hook)
	if !ok {
		return 0
	}

	v.(winevent.Proc)(winevent.RawEvent{
		Hook:     winevent.Token(hook),
		Event:    uint32(event),
		Hwnd:     window.Handle(hwnd),
		ObjectID: int32(uint32(idObject)),
		ChildID:  int32(uint32(idChild)),
		ThreadID: uint32(thread),
		Time:     uint32(timeMs),
	})

	return 0
}

func winEventProc() uintptr {
	winEventOnce.Do(func() {
		winEventThunk = windows.NewCallback(winEventCallback)
	})

	return winEventThunk
}

// Backend implements winevent.Backend with SetWinEventHook
type Backend struct {
	log logger.LoggerInterface
}

// NewBackend creates the Windows WinEvent backend
func NewBackend(log logger.LoggerInterface) *Backend {
	return &Backend{log: log}
}

// Open starts a message-pump thread that owns the hooks of one subscription
func (b *Backend) Open() (winevent.Session, error) {
	s := &session{
		log:   b.log,
		hooks: make(map[winevent.Token]struct{}),
		done:  make(chan struct{}),
	}

	ready := make(chan struct{})
	go s.run(ready)
	<-ready

	b.log.Debug("WinEvent pump thread started", slog.Uint64("thread", uint64(s.threadID)))
	return s, nil
}

// WindowPID returns the process owning h
func (b *Backend) WindowPID(h window.Handle) (window.ProcessID, bool) {
	var pid uint32

	if _, err := windows.GetWindowThreadProcessId(hwnd(h), &pid); err != nil {
		return 0, false
	}

	return window.ProcessID(pid), pid != 0
}

// session is one pump thread. Out-of-context WinEvents are delivered to the
// thread that installed the hook while it waits in GetMessage, so every hook
// is installed and removed on that thread.
type session struct {
	log      logger.LoggerInterface
	threadID uint32

	mu      sync.Mutex
	queue   []func()
	closing bool

	// owned by the pump thread
	hooks    map[winevent.Token]struct{}
	closeErr error

	done chan struct{}
}

func (s *session) run(ready chan<- struct{}) {
	// The goroutine exits while still locked, which retires the OS thread along
	// with its message queue.
	runtime.LockOSThread()
	defer close(s.done)

	s.threadID = windows.GetCurrentThreadId()

	// Create the thread's message queue before anyone posts to it
	var msg MSG
	procPeekMessageW.Call(uintptr(unsafe.Pointer(&msg)), 0, WM_USER, WM_USER, PM_NOREMOVE)
	close(ready)

	for {
		ret, _, err := procGetMessageW.Call(uintptr(unsafe.Pointer(&msg)), 0, 0, 0)
		if int32(ret) == -1 {
			s.log.Error("GetMessageW failed, stopping WinEvent pump", slog.Any("error", err))
			break
		}

		if ret == 0 {
			break // WM_QUIT
		}

		if msg.Hwnd == 0 && msg.Message == WM_APP_RUN {
			s.runQueued()
			continue
		}

		procTranslateMessage.Call(uintptr(unsafe.Pointer(&msg)))
		procDispatchMessageW.Call(uintptr(unsafe.Pointer(&msg)))
	}

	s.mu.Lock()
	s.closing = true
	s.mu.Unlock()

	s.closeErr = s.unhookAll()
	s.log.Debug("WinEvent pump thread exited", slog.Uint64("thread", uint64(s.threadID)))
}

func (s *session) runQueued() {
	s.mu.Lock()
	queue := s.queue
	s.queue = nil
	s.mu.Unlock()

	for _, fn := range queue {
		fn()
	}
}

// do runs fn on the pump thread and waits for it
func (s *session) do(fn func() error) error {
	if windows.GetCurrentThreadId() == s.threadID {
		return fn()
	}

	result := make(chan error, 1)

	s.mu.Lock()
	if s.closing {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	s.queue = append(s.queue, func() { result <- fn() })
	s.mu.Unlock()

	if ret, _, err := procPostThreadMessageW.Call(uintptr(s.threadID), WM_APP_RUN, 0, 0); ret == 0 {
		return fmt.Errorf("PostThreadMessageW: %w", err)
	}

	select {
	case err := <-result:
		return err
	case <-s.done:
		select {
		case err := <-result:
			return err
		default:
			return ErrSessionClosed
		}
	}
}

func (s *session) Hook(eventMin, eventMax uint32, proc winevent.Proc) (winevent.Token, error) {
	var token winevent.Token

	err := s.do(func() error {
		h, _, err := procSetWinEventHook.Call(
			uintptr(eventMin),
			uintptr(eventMax),
			0,
			winEventProc(),
			0, // all processes
			0, // all threads
			WINEVENT_OUTOFCONTEXT|WINEVENT_SKIPOWNPROCESS,
		)
		if h == 0 {
			return fmt.Errorf("SetWinEventHook(0x%04X, 0x%04X): %w", eventMin, eventMax, err)
		}

		token = winevent.Token(h)
		hookProcs.Store(h, proc)
		s.hooks[token] = struct{}{}

		return nil
	})

	return token, err
}

func (s *session) Unhook(t winevent.Token) error {
	return s.do(func() error {
		if _, ok := s.hooks[t]; !ok {
			return fmt.Errorf("hook 0x%X is not owned by this session", uintptr(t))
		}

		delete(s.hooks, t)
		return unhook(t)
	})
}

func unhook(t winevent.Token) error {
	// Notifications already queued for this hook find no proc and are dropped
	hookProcs.Delete(uintptr(t))

	if ret, _, err := procUnhookWinEvent.Call(uintptr(t)); ret == 0 {
		return fmt.Errorf("UnhookWinEvent(0x%X): %w", uintptr(t), err)
	}

	return nil
}

func (s *session) unhookAll() error {
	var result *multierror.Error

	for t := range s.hooks {
		if err := unhook(t); err != nil {
			result = multierror.Append(result, err)
		}
	}

	clear(s.hooks)
	return result.ErrorOrNil()
}

// Close stops the pump thread, releasing any hooks still installed, and waits
// until the thread has exited.
func (s *session) Close() error {
	if windows.GetCurrentThreadId() == s.threadID {
		return ErrCloseFromDelivery
	}

	s.mu.Lock()
	if s.closing {
		s.mu.Unlock()
		<-s.done
		return nil
	}
	s.closing = true
	s.mu.Unlock()

	if ret, _, err := procPostThreadMessageW.Call(uintptr(s.threadID), WM_QUIT, 0, 0); ret == 0 {
		return fmt.Errorf("PostThreadMessageW(WM_QUIT): %w", err)
	}

	<-s.done
	return s.closeErr
}
