package cli

import (
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"pokerboard/internal/config"
)

// Flags are the command line overrides of the environment configuration.
// Zero values mean "not given".
type Flags struct {
	Year    int
	GroupID int64
	Offline bool
	DryRun  bool
	History int
	Version bool
}

// ParseFlags parses args. On error the returned string is the usage text.
func ParseFlags(args []string) (Flags, string, error) {
	fs := ff.NewFlagSet("pokerboard")
	var (
		year        = fs.IntLong("year", 0, "Target calendar year (default TARGET_YEAR)")
		group       = fs.IntLong("group", 0, "Splitwise group id (default SPLITWISE_GROUP_ID)")
		offline     = fs.BoolLong("offline", "Recompute from the SQLite cache instead of fetching")
		dryRun      = fs.BoolLong("dry-run", "Compute and print the leaderboard without writing anything")
		history     = fs.IntLong("history", 0, "Print the N most recent recorded runs and exit")
		showVersion = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, args); err != nil {
		return Flags{}, ffhelp.Flags(fs).String(), err
	}

	return Flags{
		Year:    *year,
		GroupID: int64(*group),
		Offline: *offline,
		DryRun:  *dryRun,
		History: *history,
		Version: *showVersion,
	}, "", nil
}

// Apply overrides cfg with the flags that were given.
func (f Flags) Apply(cfg *config.Config) {
	if f.Year != 0 {
		cfg.TargetYear = f.Year
	}
	if f.GroupID != 0 {
		cfg.SplitwiseGroupID = f.GroupID
	}
	if f.Offline {
		cfg.Offline = true
	}
}
