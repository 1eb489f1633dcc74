package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Norgate-AV/wintrack/internal/interfaces"
	"github.com/Norgate-AV/wintrack/internal/logger"
	"github.com/Norgate-AV/wintrack/internal/window"
)

// errNotActivated makes activate exit with status 1
var errNotActivated = errors.New("window did not become the foreground window")

var activateCmd = &cobra.Command{
	Use:   "activate",
	Short: "Restore a window and bring it to the foreground",
	Long: `Restore the target's main window (or the window given by --hwnd) and force it
into the foreground. Exits with status 1 when the window is not the
foreground window afterwards.`,
	Args: cobra.NoArgs,
	RunE: runActivate,
}

func init() {
	activateCmd.Flags().StringP("process", "p", "", "executable name of the target process")
	activateCmd.Flags().String("hwnd", "", "window handle, decimal or 0x hex")
	activateCmd.MarkFlagsMutuallyExclusive("process", "hwnd")

	RootCmd.AddCommand(activateCmd)
}

// ActivateResult is the JSON line printed by activate
type ActivateResult struct {
	Hwnd      window.Handle `json:"hwnd"`
	Activated bool          `json:"activated"`
}

func runActivate(cmd *cobra.Command, _ []string) error {
	cfg, log, err := prepare(cmd, os.Stderr)
	if err != nil {
		return err
	}

	defer log.Close()
	defer recoverPanic(log)

	checkElevation(log)

	hwndArg := getStringFlag(cmd, "hwnd")

	plat, err := newPlatform(log)
	if err != nil {
		return err
	}

	result, err := activate(plat.query, cfg.Process, hwndArg, log)
	if err != nil {
		return err
	}

	if err := writeJSONLine(cmd.OutOrStdout(), result); err != nil {
		return err
	}

	if !result.Activated {
		return errNotActivated
	}

	return nil
}

// activate resolves the window from hwndArg when set, otherwise from process
func activate(q interfaces.WindowQuerier, process, hwndArg string, log logger.LoggerInterface) (*ActivateResult, error) {
	var hwnd window.Handle

	if hwndArg != "" {
		h, err := window.ParseHandle(hwndArg)
		if err != nil {
			return nil, err
		}
		hwnd = h
	} else {
		pid, ok := q.FindProcessIDByName(process)
		if !ok {
			return nil, fmt.Errorf("process %s is not running", process)
		}

		h, ok := q.FindWindowByPID(pid)
		if !ok {
			return nil, fmt.Errorf("process %s (pid %d) has no main window", process, pid)
		}
		hwnd = h
	}

	log.Debug("Activating window", slog.String("hwnd", hwnd.String()))
	activated := q.ActivateWindow(hwnd)

	if activated {
		log.Info("Window activated", slog.String("hwnd", hwnd.String()))
	} else {
		log.Warn("Window was not activated", slog.String("hwnd", hwnd.String()))
	}

	return &ActivateResult{Hwnd: hwnd, Activated: activated}, nil
}
