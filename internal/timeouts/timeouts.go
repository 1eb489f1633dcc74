// Package timeouts defines polling intervals and delays used around window tracking.
package timeouts

import "time"

const (
	// Target discovery

	// StatePollingInterval is the delay between checks while waiting for the
	// target process or its main window to appear.
	StatePollingInterval = 250 * time.Millisecond

	// ProcessAppearTimeout bounds `watch --wait` when no explicit timeout is
	// given. Games behind launchers can take minutes to spawn the real process.
	ProcessAppearTimeout = 10 * time.Minute

	// WindowAppearTimeout is how long to wait for a started process to show a
	// qualifying top-level window (visible, titled, not a tool window).
	WindowAppearTimeout = 2 * time.Minute

	// Activation

	// ActivationSettleDelay lets the window manager finish the z-order change
	// before the foreground window is read back.
	ActivationSettleDelay = 50 * time.Millisecond

	// Event log

	// RecorderFlushInterval is how often buffered event records are written to
	// the SQLite event log.
	RecorderFlushInterval = 1 * time.Second

	// Shutdown

	// ShutdownGracePeriod is how long a console close event waits for watch
	// to release its hooks before Windows terminates the process.
	ShutdownGracePeriod = 5 * time.Second
)
