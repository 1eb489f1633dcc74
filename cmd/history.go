package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Norgate-AV/wintrack/internal/eventlog"
	"github.com/Norgate-AV/wintrack/internal/ipc"
	"github.com/Norgate-AV/wintrack/internal/winevent"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Print events recorded by watch --record",
	Long: `Print recorded events as NDJSON, newest first. With --counts, print the number
of events per type over the --since window instead.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().String("db", "", "event log database path")
	historyCmd.Flags().Int("limit", 50, "maximum number of events to print (0 = all)")
	historyCmd.Flags().String("kind", "", "only print events of this type")
	historyCmd.Flags().Bool("counts", false, "print event counts per type instead of events")
	historyCmd.Flags().Duration("since", 24*time.Hour, "window for --counts")

	RootCmd.AddCommand(historyCmd)
}

// HistoryParams selects what history prints
type HistoryParams struct {
	Limit  int
	Kind   winevent.Kind
	Counts bool
	Since  time.Duration
}

func runHistory(cmd *cobra.Command, _ []string) error {
	cfg, log, err := prepare(cmd, os.Stderr)
	if err != nil {
		return err
	}

	defer log.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	counts, _ := cmd.Flags().GetBool("counts")

	params := HistoryParams{
		Limit:  limit,
		Kind:   winevent.Kind(getStringFlag(cmd, "kind")),
		Counts: counts,
		Since:  getDurationFlag(cmd, "since"),
	}

	path, err := databasePath(cfg)
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("no event log at %s, record one with watch --record", path)
	}

	db, err := eventlog.Open(path)
	if err != nil {
		return err
	}
	defer db.Close()

	log.Debug("Reading event log", slog.String("db", db.Path()))
	return history(eventlog.NewRepository(db), params, cmd.OutOrStdout())
}

func history(repo *eventlog.Repository, p HistoryParams, w io.Writer) error {
	if p.Kind != "" && !p.Kind.Valid() {
		return fmt.Errorf("unknown event kind %q, expected one of %v", p.Kind, winevent.Kinds)
	}

	if p.Limit < 0 {
		return fmt.Errorf("limit must not be negative, got %d", p.Limit)
	}

	out := ipc.NewOutput(w)

	if p.Counts {
		counts, err := repo.CountByType(time.Now().Add(-p.Since))
		if err != nil {
			return err
		}

		for _, c := range counts {
			if err := out.Value(c); err != nil {
				return err
			}
		}

		return nil
	}

	records, err := repo.Recent(p.Limit, p.Kind)
	if err != nil {
		return err
	}

	for _, r := range records {
		if err := out.Value(r); err != nil {
			return err
		}
	}

	return nil
}
