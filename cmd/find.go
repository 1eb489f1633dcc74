package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Norgate-AV/wintrack/internal/interfaces"
	"github.com/Norgate-AV/wintrack/internal/logger"
	"github.com/Norgate-AV/wintrack/internal/window"
)

var findCmd = &cobra.Command{
	Use:   "find",
	Short: "Print the target process's main window, its bounds and DPI scale",
	Args:  cobra.NoArgs,
	RunE:  runFind,
}

func init() {
	findCmd.Flags().StringP("process", "p", "", "executable name of the target process")

	RootCmd.AddCommand(findCmd)
}

// FindResult is the JSON line printed by find
type FindResult struct {
	PID       window.ProcessID `json:"pid"`
	Hwnd      window.Handle    `json:"hwnd"`
	Bounds    *window.Rect     `json:"bounds"`
	Minimized bool             `json:"minimized"`
	DPIScale  float64          `json:"dpiScale"`
}

func runFind(cmd *cobra.Command, _ []string) error {
	cfg, log, err := prepare(cmd, os.Stderr)
	if err != nil {
		return err
	}

	defer log.Close()
	defer recoverPanic(log)

	plat, err := newPlatform(log)
	if err != nil {
		return err
	}

	result, err := findTarget(plat.query, cfg.Process, log)
	if err != nil {
		return err
	}

	return writeJSONLine(cmd.OutOrStdout(), result)
}

// findTarget looks up the process and its main window. Bounds is nil when the
// window went away between the lookups.
func findTarget(q interfaces.WindowQuerier, process string, log logger.LoggerInterface) (*FindResult, error) {
	pid, ok := q.FindProcessIDByName(process)
	if !ok {
		return nil, fmt.Errorf("process %s is not running", process)
	}

	hwnd, ok := q.FindWindowByPID(pid)
	if !ok {
		return nil, fmt.Errorf("process %s (pid %d) has no main window", process, pid)
	}

	result := &FindResult{
		PID:       pid,
		Hwnd:      hwnd,
		Minimized: q.IsMinimized(hwnd),
		DPIScale:  q.DPIScale(hwnd),
	}

	if bounds, ok := q.ClientBoundsOnScreen(hwnd); ok {
		result.Bounds = &bounds
	}

	log.Debug("Target found",
		slog.Uint64("pid", uint64(pid)),
		slog.String("hwnd", hwnd.String()),
		slog.Bool("minimized", result.Minimized),
		slog.Float64("dpiScale", result.DPIScale),
	)

	return result, nil
}
