package ipc_test

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Norgate-AV/wintrack/internal/ipc"
	"github.com/Norgate-AV/wintrack/internal/winevent"
)

func TestOutput_Lines(t *testing.T) {
	var buf bytes.Buffer
	out := ipc.NewOutput(&buf)

	require.NoError(t, out.Event(winevent.Event{Type: winevent.KindForeground, Hwnd: 0x10, PID: 42}, "cs2.exe"))
	require.NoError(t, out.Event(winevent.Event{Type: winevent.KindForeground, Hwnd: 0x20}, ""))
	require.NoError(t, out.Event(winevent.Event{Type: winevent.KindLocationChange, Hwnd: 0x10}, "ignored"))
	require.NoError(t, out.Status("live", 42, 0x10))
	require.NoError(t, out.Log("info", "hook started"))
	require.NoError(t, out.Error("no window"))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 6)

	assert.JSONEq(t, `{"type":"foreground","hwnd":16,"pid":42,"name":"cs2.exe"}`, lines[0])
	assert.JSONEq(t, `{"type":"foreground","hwnd":32,"pid":0}`, lines[1])
	assert.JSONEq(t, `{"type":"locationchange","hwnd":16}`, lines[2])
	assert.JSONEq(t, `{"type":"status","state":"live","pid":42,"hwnd":16}`, lines[3])
	assert.JSONEq(t, `{"type":"log","level":"info","msg":"hook started"}`, lines[4])
	assert.JSONEq(t, `{"type":"error","msg":"no window"}`, lines[5])
}

func TestOutput_EventLineDecodesAsEvent(t *testing.T) {
	var buf bytes.Buffer
	out := ipc.NewOutput(&buf)

	want := winevent.Event{Type: winevent.KindForeground, Hwnd: 0xFFFF0000AB, PID: 7}
	require.NoError(t, out.Event(want, "x.exe"))

	var got winevent.Event
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, want, got)
}

func TestOutput_ConcurrentWritesStayWhole(t *testing.T) {
	var buf bytes.Buffer
	out := ipc.NewOutput(&buf)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = out.Event(winevent.Event{Type: winevent.KindMoveEnd, Hwnd: 1}, "")
			_ = out.Log("debug", strings.Repeat("x", i))
		}()
	}
	wg.Wait()

	scanner := bufio.NewScanner(&buf)
	n := 0
	for scanner.Scan() {
		assert.True(t, json.Valid(scanner.Bytes()), scanner.Text())
		n++
	}
	assert.Equal(t, 100, n)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("pipe closed") }

func TestOutput_WriteError(t *testing.T) {
	err := ipc.NewOutput(failingWriter{}).Error("x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pipe closed")
}

func TestOutput_Value(t *testing.T) {
	var buf bytes.Buffer
	out := ipc.NewOutput(&buf)

	require.NoError(t, out.Value(struct {
		PID int `json:"pid"`
	}{PID: 42}))
	assert.Equal(t, "{\"pid\":42}\n", buf.String())

	assert.Error(t, out.Value(func() {}), "Unencodable values are reported")
}
