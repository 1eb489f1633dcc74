package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Norgate-AV/wintrack/internal/eventlog"
	"github.com/Norgate-AV/wintrack/internal/interfaces"
	"github.com/Norgate-AV/wintrack/internal/ipc"
	"github.com/Norgate-AV/wintrack/internal/logger"
	"github.com/Norgate-AV/wintrack/internal/target"
	"github.com/Norgate-AV/wintrack/internal/timeouts"
	"github.com/Norgate-AV/wintrack/internal/window"
	"github.com/Norgate-AV/wintrack/internal/winevent"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream window events of the target process as NDJSON",
	Long: `Find the target process and its main window, install the window event hooks
and write every tracked event to stdout as one JSON object per line.
Foreground changes are reported for every process; all other events only for
windows owned by the target. Log output goes to stderr.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringP("process", "p", "", "executable name of the target process")
	watchCmd.Flags().BoolP("wait", "w", false, "wait for the process and its window to appear")
	watchCmd.Flags().Duration("timeout", 0, "how long --wait waits for the process (0 = no limit)")
	watchCmd.Flags().BoolP("record", "r", false, "record events into the event log")
	watchCmd.Flags().String("db", "", "event log database path")
	watchCmd.Flags().BoolP("names", "n", false, "add the executable name to foreground events")

	RootCmd.AddCommand(watchCmd)
}

// WatchParams holds everything a watch session needs
type WatchParams struct {
	Config   *Config
	Platform *platform
	Output   *ipc.Output
	Recorder interfaces.EventRecorder // nil when not recording
	Logger   logger.LoggerInterface
}

func runWatch(cmd *cobra.Command, _ []string) error {
	cfg, log, err := prepare(cmd, os.Stderr)
	if err != nil {
		return err
	}

	defer log.Close()
	defer recoverPanic(log)

	checkElevation(log)

	out := ipc.NewOutput(cmd.OutOrStdout())

	plat, err := newPlatform(log)
	if err != nil {
		_ = out.Error(err.Error())
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	ec := &ExecutionContext{
		log:      log,
		cancel:   cancel,
		done:     make(chan struct{}),
		exitFunc: os.Exit,
	}
	defer close(ec.done)

	setupSignalHandlers(ec)

	params := WatchParams{
		Config:   cfg,
		Platform: plat,
		Output:   out,
		Logger:   log,
	}

	if cfg.Record {
		db, recorder, err := openRecorder(cfg, log)
		if err != nil {
			_ = out.Error(err.Error())
			return err
		}

		defer db.Close()
		defer recorder.Close()
		params.Recorder = recorder
	}

	if err := watch(ctx, params); err != nil {
		_ = out.Error(err.Error())
		return err
	}

	return nil
}

// openRecorder opens the event log and starts a recorder writing to it
func openRecorder(cfg *Config, log logger.LoggerInterface) (*eventlog.DB, *eventlog.Recorder, error) {
	path, err := databasePath(cfg)
	if err != nil {
		return nil, nil, err
	}

	db, err := eventlog.Open(path)
	if err != nil {
		return nil, nil, err
	}

	log.Info("Recording events", slog.String("db", db.Path()))
	return db, eventlog.NewRecorder(eventlog.NewRepository(db), log), nil
}

func databasePath(cfg *Config) (string, error) {
	if cfg.Database != "" {
		return cfg.Database, nil
	}

	return eventlog.DefaultPath()
}

// watch resolves the target, streams its events until ctx ends and releases
// the subscription. A canceled context is a normal stop, not an error.
func watch(ctx context.Context, p WatchParams) error {
	log := p.Logger

	pid, hwnd, err := resolveTarget(ctx, p)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			log.Info("Stopped before the target appeared")
			return nil
		}

		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	handler := func(e winevent.Event) {
		name := ""
		if p.Config.Names && e.Type == winevent.KindForeground && p.Platform.namer != nil {
			name, _ = p.Platform.namer.Name(e.PID)
		}

		if err := p.Output.Event(e, name); err != nil {
			log.Error("Failed to write event, stopping", slog.Any("error", err))
			cancel()
			return
		}

		if p.Recorder != nil {
			p.Recorder.Record(e, pid, name)
		}

		// The pid may be reused once the main window is gone
		if e.Type == winevent.KindDestroy && e.Hwnd == hwnd && p.Platform.namer != nil {
			p.Platform.namer.Forget(pid)
		}
	}

	if err := p.Platform.events.Start(pid, handler); err != nil {
		return fmt.Errorf("failed to start window event hooks: %w", err)
	}

	log.Info("Tracking window events",
		slog.Uint64("pid", uint64(pid)),
		slog.String("hwnd", hwnd.String()),
	)

	if err := p.Output.Status("live", pid, hwnd); err != nil {
		log.Warn("Failed to write status", slog.Any("error", err))
	}

	<-ctx.Done()

	return stopWatch(p, pid)
}

// stopWatch releases the hooks, then flushes the recorder
func stopWatch(p WatchParams, pid window.ProcessID) error {
	log := p.Logger

	var stopErr error
	if err := p.Platform.events.Stop(); err != nil {
		log.Warn("Failed to release window event hooks", slog.Any("error", err))
		stopErr = fmt.Errorf("failed to release window event hooks: %w", err)
	}

	if p.Recorder != nil {
		if err := p.Recorder.Close(); err != nil {
			log.Warn("Failed to flush event log", slog.Any("error", err))
			_ = p.Output.Log("warn", fmt.Sprintf("failed to flush event log: %v", err))
		}
	}

	_ = p.Output.Status("stopped", pid, 0)
	log.Info("Stopped tracking", slog.Uint64("pid", uint64(pid)))

	return stopErr
}

// resolveTarget finds the target pid and its main window. Without --wait the
// process must already be running; a missing window is reported as 0.
func resolveTarget(ctx context.Context, p WatchParams) (window.ProcessID, window.Handle, error) {
	cfg := p.Config
	q := p.Platform.query

	if !cfg.Wait {
		pid, ok := q.FindProcessIDByName(cfg.Process)
		if !ok {
			return 0, 0, fmt.Errorf("process %s is not running", cfg.Process)
		}

		hwnd, _ := q.FindWindowByPID(pid)
		return pid, hwnd, nil
	}

	locator := target.NewLocator(q, p.Logger)

	processCtx := ctx
	if cfg.WaitTimeout > 0 {
		var cancel context.CancelFunc
		processCtx, cancel = context.WithTimeout(ctx, cfg.WaitTimeout)
		defer cancel()
	}

	p.Logger.Info("Waiting for process", slog.String("name", cfg.Process))
	pid, err := locator.WaitForProcess(processCtx, cfg.Process)
	if err != nil {
		return 0, 0, err
	}

	windowCtx, cancel := context.WithTimeout(ctx, timeouts.WindowAppearTimeout)
	defer cancel()

	hwnd, err := locator.WaitForWindow(windowCtx, pid)
	if err != nil {
		return 0, 0, err
	}

	return pid, hwnd, nil
}
