package logger_test

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Norgate-AV/wintrack/internal/logger"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func TestNewLogger_DefaultLocation(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("LOCALAPPDATA", tmpDir)

	log, err := logger.NewLogger(logger.LoggerOptions{Console: &bytes.Buffer{}})
	require.NoError(t, err)
	defer log.Close()

	assert.Equal(t, filepath.Join(tmpDir, "wintrack", "wintrack.log"), log.GetLogPath())
	assert.DirExists(t, filepath.Join(tmpDir, "wintrack"))
}

func TestNewLogger_FallbackToUserProfile(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("LOCALAPPDATA", "")
	t.Setenv("USERPROFILE", tmpDir)

	log, err := logger.NewLogger(logger.LoggerOptions{Console: &bytes.Buffer{}})
	require.NoError(t, err)
	defer log.Close()

	expected := filepath.Join(tmpDir, "AppData", "Local", "wintrack", "wintrack.log")
	assert.Equal(t, expected, log.GetLogPath())
}

func TestNewLogger_CustomLogDir(t *testing.T) {
	tmpDir := t.TempDir()

	log, err := logger.NewLogger(logger.LoggerOptions{LogDir: tmpDir, Compress: true, Console: &bytes.Buffer{}})
	require.NoError(t, err)
	defer log.Close()

	assert.Equal(t, filepath.Join(tmpDir, "wintrack.log"), log.GetLogPath())
}

func TestLogger_WritesFileAndConsole(t *testing.T) {
	tmpDir := t.TempDir()
	var console bytes.Buffer

	log, err := logger.NewLogger(logger.LoggerOptions{LogDir: tmpDir, Console: &console})
	require.NoError(t, err)

	log.Trace("trace only", slog.Uint64("hwnd", 42))
	log.Debug("hidden debug")
	log.Info("hook started", slog.Int("hooks", 4))
	log.Warn("hook range failed")
	log.Close()

	out := console.String()
	assert.Contains(t, out, "hook started hooks=4")
	assert.Contains(t, out, "WARNING: hook range failed")
	assert.NotContains(t, out, "hidden debug", "debug is verbose-only on console")
	assert.NotContains(t, out, "trace only", "trace never reaches the console")

	data, err := os.ReadFile(log.GetLogPath())
	require.NoError(t, err)
	assert.Contains(t, string(data), "level=TRACE")
	assert.Contains(t, string(data), "hidden debug")
}

func TestLogger_VerboseShowsDebug(t *testing.T) {
	var console bytes.Buffer

	log, err := logger.NewLogger(logger.LoggerOptions{LogDir: t.TempDir(), Console: &console, Verbose: true})
	require.NoError(t, err)
	defer log.Close()

	log.Debug("attaching input")
	assert.Contains(t, console.String(), "VERBOSE: attaching input")
}

func TestLogger_CloseTwice(t *testing.T) {
	log, err := logger.NewLogger(logger.LoggerOptions{LogDir: t.TempDir(), Console: &bytes.Buffer{}})
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		log.Close()
		log.Close()
	})
}

func TestPrintLogFile(t *testing.T) {
	tmpDir := t.TempDir()
	opts := logger.LoggerOptions{LogDir: tmpDir}

	require.NoError(t, os.WriteFile(logger.GetLogPath(opts), []byte("line 1\nline 2\n"), 0o644))

	var out bytes.Buffer
	require.NoError(t, logger.PrintLogFile(&out, opts))
	assert.Equal(t, "line 1\nline 2\n", out.String())
}

func TestPrintLogFile_Missing(t *testing.T) {
	err := logger.PrintLogFile(&bytes.Buffer{}, logger.LoggerOptions{LogDir: t.TempDir()})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestNoOpLogger(t *testing.T) {
	log := logger.NewNoOpLogger()

	assert.NotPanics(t, func() {
		log.Trace("test")
		log.Debug("test")
		log.Info("test")
		log.Warn("test")
		log.Error("test")
		log.Close()
	})
	assert.Empty(t, log.GetLogPath())
}
