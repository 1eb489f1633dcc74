package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/Norgate-AV/wintrack/internal/interfaces"
	"github.com/Norgate-AV/wintrack/internal/window"
)

var foregroundCmd = &cobra.Command{
	Use:   "foreground",
	Short: "Print the process that owns the foreground window",
	Args:  cobra.NoArgs,
	RunE:  runForeground,
}

func init() {
	RootCmd.AddCommand(foregroundCmd)
}

// ForegroundResult is the JSON line printed by foreground. PID is null when
// no window has the foreground.
type ForegroundResult struct {
	PID  *window.ProcessID `json:"pid"`
	Name string            `json:"name,omitempty"`
}

func runForeground(cmd *cobra.Command, _ []string) error {
	_, log, err := prepare(cmd, os.Stderr)
	if err != nil {
		return err
	}

	defer log.Close()

	plat, err := newPlatform(log)
	if err != nil {
		return err
	}

	return writeJSONLine(cmd.OutOrStdout(), foreground(plat.query, plat.namer))
}

func foreground(q interfaces.WindowQuerier, namer interfaces.ProcessNamer) ForegroundResult {
	pid, ok := q.ForegroundPID()
	if !ok {
		return ForegroundResult{}
	}

	result := ForegroundResult{PID: &pid}
	if namer != nil {
		result.Name, _ = namer.Name(pid)
	}

	return result
}
