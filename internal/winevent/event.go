package winevent

import (
	"encoding/json"

	"github.com/Norgate-AV/wintrack/internal/window"
)

// Kind is the stable vocabulary tracked events are translated into
type Kind string

const (
	KindForeground     Kind = "foreground"
	KindLocationChange Kind = "locationchange"
	KindMoveStart      Kind = "movestart"
	KindMoveEnd        Kind = "moveend"
	KindMinimizeStart  Kind = "minimizestart"
	KindMinimizeEnd    Kind = "minimizeend"
	KindDestroy        Kind = "destroy"
)

// Kinds lists every kind a handler can receive
var Kinds = []Kind{
	KindForeground,
	KindLocationChange,
	KindMoveStart,
	KindMoveEnd,
	KindMinimizeStart,
	KindMinimizeEnd,
	KindDestroy,
}

// Valid reports whether k is one of the defined kinds
func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

var kindNames = func() map[Kind]struct{} {
	m := make(map[Kind]struct{}, len(Kinds))
	for _, k := range Kinds {
		m[k] = struct{}{}
	}
	return m
}()

// Event is what a Handler receives. PID is only set for foreground events,
// where it identifies the process that now owns the foreground window.
type Event struct {
	Type Kind
	Hwnd window.Handle
	PID  window.ProcessID
}

// Handler consumes tracked events. It is called synchronously on the OS
// delivery thread and must not call Start or Stop.
type Handler func(Event)

type wireEvent struct {
	Type Kind              `json:"type"`
	Hwnd window.Handle     `json:"hwnd"`
	PID  *window.ProcessID `json:"pid,omitempty"`
}

// MarshalJSON emits {"type","hwnd"} and adds "pid" for foreground events only,
// so a foreground event for pid 0 still carries the field.
func (e Event) MarshalJSON() ([]byte, error) {
	w := wireEvent{Type: e.Type, Hwnd: e.Hwnd}
	if e.Type == KindForeground {
		pid := e.PID
		w.PID = &pid
	}

	return json.Marshal(w)
}

// UnmarshalJSON accepts the shape produced by MarshalJSON
func (e *Event) UnmarshalJSON(data []byte) error {
	var w wireEvent
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*e = Event{Type: w.Type, Hwnd: w.Hwnd}
	if w.PID != nil {
		e.PID = *w.PID
	}

	return nil
}

// Raw WinEvent constants (winuser.h)
const (
	EventSystemForeground     uint32 = 0x0003
	EventSystemMoveSizeStart  uint32 = 0x000A
	EventSystemMoveSizeEnd    uint32 = 0x000B
	EventSystemMinimizeStart  uint32 = 0x0016
	EventSystemMinimizeEnd    uint32 = 0x0017
	EventObjectDestroy        uint32 = 0x8001
	EventObjectLocationChange uint32 = 0x800B

	ObjIDWindow int32 = 0
	ChildIDSelf int32 = 0
)

// Range is an inclusive span of raw event codes registered with one hook
type Range struct {
	Name string
	Min  uint32
	Max  uint32
}

// hookRanges are registered independently so that one refused range only
// costs its own notifications. The object range is ascending: destroy (0x8001)
// through location change (0x800B); the codes in between are dropped by kindFor.
var hookRanges = []Range{
	{Name: "object", Min: EventObjectDestroy, Max: EventObjectLocationChange},
	{Name: "movesize", Min: EventSystemMoveSizeStart, Max: EventSystemMoveSizeEnd},
	{Name: "minimize", Min: EventSystemMinimizeStart, Max: EventSystemMinimizeEnd},
	{Name: "foreground", Min: EventSystemForeground, Max: EventSystemForeground},
}

// HookRanges returns a copy of the ranges every subscription registers
func HookRanges() []Range {
	out := make([]Range, len(hookRanges))
	copy(out, hookRanges)
	return out
}

// kindFor maps a raw code of an owned window to its kind. Foreground is
// handled before ownership filtering and is not part of this table.
func kindFor(event uint32) (Kind, bool) {
	switch event {
	case EventObjectLocationChange:
		return KindLocationChange, true
	case EventSystemMoveSizeStart:
		return KindMoveStart, true
	case EventSystemMoveSizeEnd:
		return KindMoveEnd, true
	case EventSystemMinimizeStart:
		return KindMinimizeStart, true
	case EventSystemMinimizeEnd:
		return KindMinimizeEnd, true
	case EventObjectDestroy:
		return KindDestroy, true
	default:
		return "", false
	}
}
