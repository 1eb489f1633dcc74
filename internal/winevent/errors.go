package winevent

import "errors"

var (
	// ErrNilHandler is returned by Start when no handler is given
	ErrNilHandler = errors.New("winevent: handler must not be nil")

	// ErrHooksUnavailable is returned by Start when none of the event ranges
	// could be registered. It wraps the OS errors of every attempt.
	ErrHooksUnavailable = errors.New("winevent: failed to set any WinEvent hook")
)
