package leaderboard

import (
	"context"

	"golang.org/x/sync/errgroup"

	"pokerboard/internal/core"
	"pokerboard/internal/log"
)

// Options is the explicit configuration of one run.
type Options struct {
	TargetYear      int
	ExcludeKeywords []string
	// Workers bounds concurrent extraction; values below 2 run sequentially.
	Workers int
}

// Stats counts what happened to each fetched expense.
type Stats struct {
	Fetched     int
	Excluded    int // keyword or payment
	Unparseable int // date could not be read
	OutsideYear int
	Qualifying  int // expenses that reached extraction
	Kept        int // winnings rows produced
}

// Skip records an expense rejected because its date could not be parsed.
type Skip struct {
	ExpenseID   int64
	Description string
	Date        string
	Err         error
}

// Result is the output of one run.
type Result struct {
	Tables  core.Tables
	Raw     []core.BucketedRow
	Stats   Stats
	Skipped []Skip
}

// Empty reports whether no winnings row survived filtering.
func (r Result) Empty() bool {
	return len(r.Raw) == 0
}

// Pipeline runs filter, extraction, bucketing and aggregation.
type Pipeline struct {
	opts   Options
	filter Filter
	logger *log.Logger
}

type qualifying struct {
	expense core.Expense
	date    core.Date
}

// New creates a pipeline; a nil logger discards output.
func New(opts Options, logger *log.Logger) *Pipeline {
	return &Pipeline{
		opts:   opts,
		filter: NewFilter(opts.ExcludeKeywords),
		logger: log.OrNop(logger).WithComponent(log.ComponentPipeline),
	}
}

// Run computes the leaderboards for expenses. Only a cancelled context makes
// it fail; data problems are counted in Stats instead.
func (p *Pipeline) Run(ctx context.Context, expenses []core.Expense) (Result, error) {
	res := Result{Stats: Stats{Fetched: len(expenses)}}
	sl := log.NewStructuredLogger(p.logger)

	kept := make([]qualifying, 0, len(expenses))
	for _, e := range expenses {
		if p.filter.ShouldExclude(e) {
			res.Stats.Excluded++
			continue
		}
		date, err := core.ParseDate(e.Date)
		if err != nil {
			res.Stats.Unparseable++
			res.Skipped = append(res.Skipped, Skip{
				ExpenseID:   e.ID,
				Description: e.DescriptionText(),
				Date:        e.Date,
				Err:         err,
			})
			sl.LogExpenseSkipped(ctx, e.ID, e.DescriptionText(), e.Date, err)
			continue
		}
		if date.Year != p.opts.TargetYear {
			res.Stats.OutsideYear++
			continue
		}
		kept = append(kept, qualifying{expense: e, date: date})
	}
	res.Stats.Qualifying = len(kept)

	perExpense, err := p.extractAll(ctx, kept)
	if err != nil {
		return Result{}, err
	}

	rows := make([]core.WinningsRow, 0, len(kept))
	for _, r := range perExpense {
		rows = append(rows, r...)
	}
	res.Raw = Bucket(rows)
	res.Stats.Kept = len(res.Raw)
	res.Tables = Aggregate(res.Raw)

	fields := log.NewFields().
		WithStats(res.Stats.Fetched, res.Stats.Excluded, res.Stats.Unparseable, res.Stats.OutsideYear, res.Stats.Kept).
		WithOperation(log.OpAggregate)
	fields[log.FieldYear] = p.opts.TargetYear
	p.logger.DebugContext(ctx, "Pipeline finished", fields.ToSlice()...)

	return res, nil
}

// extractAll keeps results indexed by input position so concurrent
// extraction yields the same row order as a sequential one.
func (p *Pipeline) extractAll(ctx context.Context, kept []qualifying) ([][]core.WinningsRow, error) {
	out := make([][]core.WinningsRow, len(kept))
	if p.opts.Workers < 2 {
		for i, q := range kept {
			out[i] = Extract(q.expense, q.date)
		}
		return out, ctx.Err()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Workers)
	for i, q := range kept {
		i, q := i, q
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = Extract(q.expense, q.date)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
