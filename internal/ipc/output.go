// Package ipc writes the NDJSON stream a host process reads from wintrack's stdout.
package ipc

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/Norgate-AV/wintrack/internal/window"
	"github.com/Norgate-AV/wintrack/internal/winevent"
)

// Output writes one JSON object per line. All methods are safe for concurrent use.
type Output struct {
	mu sync.Mutex
	w  io.Writer
}

// NewOutput creates an NDJSON writer on w
func NewOutput(w io.Writer) *Output {
	return &Output{w: w}
}

type eventLine struct {
	Type winevent.Kind     `json:"type"`
	Hwnd window.Handle     `json:"hwnd"`
	PID  *window.ProcessID `json:"pid,omitempty"`
	Name string            `json:"name,omitempty"`
}

// Event writes a tracked event in its wire shape. name, when set, is the
// executable of the foreground process and is ignored for other kinds.
func (o *Output) Event(e winevent.Event, name string) error {
	line := eventLine{Type: e.Type, Hwnd: e.Hwnd}
	if e.Type == winevent.KindForeground {
		pid := e.PID
		line.PID = &pid
		line.Name = name
	}

	return o.writeJSON(line)
}

// Status reports a subscription state change, e.g. "live" once hooks are installed
func (o *Output) Status(state string, pid window.ProcessID, hwnd window.Handle) error {
	return o.writeJSON(map[string]any{
		"type":  "status",
		"state": state,
		"pid":   pid,
		"hwnd":  hwnd,
	})
}

// Log sends a log message
func (o *Output) Log(level, msg string) error {
	return o.writeJSON(map[string]any{
		"type":  "log",
		"level": level,
		"msg":   msg,
	})
}

// Error sends an error message
func (o *Output) Error(msg string) error {
	return o.writeJSON(map[string]any{
		"type": "error",
		"msg":  msg,
	})
}

// Value writes any JSON-encodable value as one line
func (o *Output) Value(v any) error {
	return o.writeJSON(v)
}

func (o *Output) writeJSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	data = append(data, '\n')

	o.mu.Lock()
	defer o.mu.Unlock()

	if _, err := o.w.Write(data); err != nil {
		return fmt.Errorf("failed to write NDJSON line: %w", err)
	}

	return nil
}
