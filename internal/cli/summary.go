package cli

import (
	"fmt"
	"io"
	"strings"

	"pokerboard/internal/core"
	"pokerboard/internal/services"
	"pokerboard/internal/storage"
)

// PrintSummary writes the console report of a run.
func PrintSummary(w io.Writer, out services.RunOutcome) {
	stats := out.Result.Stats
	fmt.Fprintf(w, "Fetched %d expenses (before filtering) from %s\n", stats.Fetched, out.Source)
	if stats.Unparseable > 0 {
		fmt.Fprintf(w, "Skipped %d expenses with unparseable dates\n", stats.Unparseable)
	}

	if out.Result.Empty() {
		fmt.Fprintln(w, "No qualifying expenses found for target year after filtering.")
		return
	}

	for _, ref := range out.Refs {
		fmt.Fprintf(w, "Done. Created %s\n", ref)
	}
	fmt.Fprintf(w, "Kept rows: %d (after filtering)\n", stats.Kept)

	if leader, ok := out.Result.Tables.Leader(); ok {
		fmt.Fprintf(w, "Leader %d: %s (%s)\n", out.Report.Year, leader.Player, core.FormatAmount(leader.Total))
	}
	for _, row := range out.Result.Tables.Yearly {
		fmt.Fprintf(w, "%4d  %-24s %10s\n", row.Rank, row.Player, core.FormatAmount(row.Total))
	}
}

// PrintHistory writes recorded runs, newest first.
func PrintHistory(w io.Writer, runs []storage.RunRecord) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No recorded runs.")
		return
	}
	for _, r := range runs {
		mode := "online"
		if r.Offline {
			mode = "offline"
		}
		leader := "-"
		if r.Leader != "" {
			leader = fmt.Sprintf("%s (%s)", r.Leader, r.LeaderTotal)
		}
		fmt.Fprintf(w, "#%d %s %s fetched=%d kept=%d leader=%s refs=%s\n",
			r.ID,
			r.FinishedAt.Format("2006-01-02 15:04:05"),
			mode,
			r.Fetched,
			r.Kept,
			leader,
			strings.Join(r.Refs, ","),
		)
	}
}
