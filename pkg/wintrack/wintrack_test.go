package wintrack

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Norgate-AV/wintrack/internal/logger"
)

func TestSetLogger_AcceptsSlog(t *testing.T) {
	t.Cleanup(func() { SetLogger(nil) })

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	mu.Lock()
	l := log
	mu.Unlock()

	l.Trace("enumerating windows")
	l.Info("hook installed")
	assert.Contains(t, buf.String(), "enumerating windows", "Trace should reach the host's Debug")
	assert.Contains(t, buf.String(), "hook installed")
	assert.Empty(t, l.GetLogPath())
}

func TestSetLogger_KeepsInternalLogger(t *testing.T) {
	t.Cleanup(func() { SetLogger(nil) })

	internal := logger.NewNoOpLogger()
	SetLogger(internal)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, internal, log)
}

func TestSetLogger_Nil(t *testing.T) {
	SetLogger(nil)

	mu.Lock()
	defer mu.Unlock()
	assert.NotNil(t, log)
}
