// Package window defines the value types shared by the query layer and the event core.
package window

import (
	"fmt"
	"strconv"
)

// Handle is an OS-assigned top-level window handle (HWND), carried as a 64-bit
// integer so it keeps full pointer width across the process boundary.
// A Handle may refer to a destroyed window at any time.
type Handle uint64

// Uintptr returns the handle in the form expected by Win32 calls.
func (h Handle) Uintptr() uintptr {
	return uintptr(h)
}

// String formats the handle as hex, the way Spy++ and most tooling show HWNDs.
func (h Handle) String() string {
	return fmt.Sprintf("0x%X", uint64(h))
}

// ParseHandle parses a handle given as decimal or 0x-prefixed hex.
func ParseHandle(s string) (Handle, error) {
	v, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid window handle %q: %w", s, err)
	}

	if v == 0 {
		return 0, fmt.Errorf("invalid window handle %q: must be non-zero", s)
	}

	return Handle(v), nil
}

// ProcessID is an OS-assigned process identifier. Pids are reused after a
// process exits.
type ProcessID uint32

// Rect is a rectangle in screen coordinates.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Area returns Width*Height, or 0 for degenerate rectangles.
func (r Rect) Area() int {
	if r.Width <= 0 || r.Height <= 0 {
		return 0
	}

	return r.Width * r.Height
}

// RectFromEdges builds a Rect from Win32-style left/top/right/bottom edges.
func RectFromEdges(left, top, right, bottom int32) Rect {
	return Rect{
		X:      int(left),
		Y:      int(top),
		Width:  int(right - left),
		Height: int(bottom - top),
	}
}
