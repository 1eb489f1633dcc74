package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Norgate-AV/wintrack/internal/interfaces"
	"github.com/Norgate-AV/wintrack/internal/ipc"
	"github.com/Norgate-AV/wintrack/internal/logger"
	"github.com/Norgate-AV/wintrack/internal/timeouts"
	"github.com/Norgate-AV/wintrack/internal/version"
)

// ExecutionContext holds state needed by the signal handlers to stop a
// running command
type ExecutionContext struct {
	log      logger.LoggerInterface
	cancel   context.CancelFunc
	done     chan struct{} // closed once the command has released its hooks
	exitFunc func(int)     // Injectable for testing; defaults to os.Exit
}

// platform bundles the OS-backed services the commands run against
type platform struct {
	query  interfaces.WindowQuerier
	events interfaces.EventSubscriber
	namer  interfaces.ProcessNamer
}

// newPlatform is replaced in tests with fakes
var newPlatform = defaultPlatform

// RootCmd is the root command for the wintrack CLI application.
var RootCmd = &cobra.Command{
	Use:          "wintrack",
	Short:        "wintrack - Track a game's main window and its window events",
	Version:      version.GetVersion(),
	Args:         cobra.NoArgs,
	RunE:         Execute,
	SilenceUsage: true, // Don't show usage on runtime errors
}

func init() {
	// Set custom version template to show full version info
	RootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	// Add flags
	RootCmd.PersistentFlags().BoolP("verbose", "V", false, "enable verbose output")
	RootCmd.PersistentFlags().BoolP("logs", "l", false, "print the current log file to stdout and exit")
	RootCmd.PersistentFlags().StringP("config", "c", "", "path to the YAML config file")
}

// Execute handles the root command, which only serves --logs
func Execute(cmd *cobra.Command, _ []string) error {
	cfg, err := NewConfigFromFlags(cmd)
	if err != nil {
		return err
	}

	if err := handleLogsFlag(cfg, os.Exit); err != nil {
		return err
	}

	return cmd.Help()
}

// handleLogsFlag processes the --logs flag and exits if needed
func handleLogsFlag(cfg *Config, exitFunc func(int)) error {
	if !cfg.ShowLogs {
		return nil
	}

	opts := logger.LoggerOptions{LogDir: cfg.Log.Dir}
	if err := logger.PrintLogFile(nil, opts); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "Log file does not exist: %s\n", logger.GetLogPath(opts))
			exitFunc(1)
			return nil
		}

		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		exitFunc(1)
		return nil
	}

	exitFunc(0)
	return nil // Won't actually reach here due to exitFunc
}

// initializeLogger creates a logger writing its console view to console
func initializeLogger(cfg *Config, console io.Writer) (logger.LoggerInterface, error) {
	log, err := logger.NewLogger(logger.LoggerOptions{
		Verbose:    cfg.Verbose,
		LogDir:     cfg.Log.Dir,
		Console:    console,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   cfg.Log.Compress,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return log, nil
}

// prepare runs the steps shared by every subcommand: config, --logs, logger
func prepare(cmd *cobra.Command, console io.Writer) (*Config, logger.LoggerInterface, error) {
	cfg, err := NewConfigFromFlags(cmd)
	if err != nil {
		return nil, nil, err
	}

	if err := handleLogsFlag(cfg, os.Exit); err != nil {
		return nil, nil, err
	}

	log, err := initializeLogger(cfg, console)
	if err != nil {
		return nil, nil, err
	}

	log.Debug("Starting wintrack",
		slog.String("command", cmd.Name()),
		slog.String("version", version.Get().String()),
	)
	log.Debug("Config resolved",
		slog.String("process", cfg.Process),
		slog.Bool("wait", cfg.Wait),
		slog.Duration("waitTimeout", cfg.WaitTimeout),
		slog.Bool("names", cfg.Names),
		slog.Bool("record", cfg.Record),
	)

	return cfg, log, nil
}

// recoverPanic logs a panic with its stack; use it directly with defer
func recoverPanic(log logger.LoggerInterface) {
	if r := recover(); r != nil {
		log.Error("PANIC RECOVERED",
			slog.Any("panic", r),
			slog.String("stack", string(debug.Stack())),
		)

		fmt.Fprintf(os.Stderr, "\n*** PANIC: %v ***\n", r)
		fmt.Fprintf(os.Stderr, "Check log file for details\n")
	}
}

// checkElevation warns when activation of an elevated target may be refused
func checkElevation(log logger.LoggerInterface) {
	checkElevationWithDeps(log, isElevated)
}

// checkElevationWithDeps is the testable version with injected dependencies
func checkElevationWithDeps(log logger.LoggerInterface, isElevated func() bool) bool {
	log.Debug("Checking elevation status")
	if !isElevated() {
		log.Warn("Not running as administrator, activating an elevated window may be refused")
		return false
	}

	log.Debug("Running with administrator privileges")
	return true
}

// setupSignalHandlers configures console control and interrupt signal
// handlers. The first signal cancels the command; a second one exits at once.
func setupSignalHandlers(ec *ExecutionContext) {
	// Console close, logoff and shutdown kill the process once the handler
	// returns, so wait for the hooks to be released first
	err := installConsoleHandler(func(name string, code uint32) {
		ec.log.Debug("Received console control event",
			slog.String("type", name),
			slog.Uint64("code", uint64(code)),
		)

		ec.cancel()
		ec.waitDone(timeouts.ShutdownGracePeriod)
	})
	if err != nil {
		ec.log.Warn("Failed to install console control handler", slog.Any("error", err))
	}

	sigChan := make(chan os.Signal, 2)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)

		select {
		case sig := <-sigChan:
			ec.log.Debug("Received signal", slog.Any("signal", sig))
			ec.log.Info("Interrupt signal received, stopping")
			ec.cancel()
		case <-ec.done:
			return
		}

		select {
		case <-sigChan:
			ec.log.Warn("Second interrupt, exiting immediately")
			ec.exitFunc(130)
		case <-ec.done:
		}
	}()
}

// writeJSONLine writes v as a single JSON line, the output shape of the
// one-shot commands
func writeJSONLine(w io.Writer, v any) error {
	return ipc.NewOutput(w).Value(v)
}

// waitDone blocks until the command finishes or d elapses
func (ec *ExecutionContext) waitDone(d time.Duration) bool {
	select {
	case <-ec.done:
		return true
	default:
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ec.done:
		return true
	case <-timer.C:
		ec.log.Warn("Timed out waiting for shutdown")
		return false
	}
}
