package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"golang.org/x/sync/errgroup"

	"pokerboard/internal/amqp"
	"pokerboard/internal/core"
	"pokerboard/internal/leaderboard"
	"pokerboard/internal/log"
	"pokerboard/internal/sheets"
	"pokerboard/internal/storage"
)

const (
	SourceSplitwise = "splitwise"
	SourceCache     = "cache"
)

var (
	ErrNoSource = errors.New("no expense source configured")
	ErrNoCache  = errors.New("offline run requires an expense cache")
)

// Collaborators of a run. Cache, Recorder and Notifier are optional.
type (
	ExpenseSource interface {
		FetchGroupExpenses(ctx context.Context, groupID int64) ([]core.Expense, error)
	}

	ExpenseCache interface {
		SaveExpenses(ctx context.Context, groupID int64, expenses []core.Expense) error
		LoadExpenses(ctx context.Context, groupID int64) ([]core.Expense, error)
	}

	RunRecorder interface {
		RecordRun(ctx context.Context, rec storage.RunRecord) (int64, error)
	}

	Notifier interface {
		PublishLeaderboard(ctx context.Context, msg *amqp.LeaderboardPublishedMessage) error
	}
)

type Deps struct {
	Source   ExpenseSource
	Cache    ExpenseCache
	Recorder RunRecorder
	Notifier Notifier
	Writers  []sheets.ReportWriter
	Logger   *log.Logger
	Now      func() time.Time
}

// RunRequest describes one leaderboard run.
type RunRequest struct {
	GroupID int64
	Options leaderboard.Options
	// Offline recomputes from the cache instead of fetching.
	Offline bool
	// DryRun computes the tables without writing, caching, recording or publishing.
	DryRun bool
}

// RunOutcome is what a run produced.
type RunOutcome struct {
	Result leaderboard.Result
	Report core.Report
	Source string
	Refs   []string
	RunID  int64
}

// Exported reports whether any writer received the report.
func (o RunOutcome) Exported() bool {
	return len(o.Refs) > 0
}

// LeaderboardService orchestrates fetch, compute, export and notification.
type LeaderboardService struct {
	source   ExpenseSource
	cache    ExpenseCache
	recorder RunRecorder
	notifier Notifier
	writers  []sheets.ReportWriter
	logger   *log.Logger
	now      func() time.Time
}

func NewLeaderboardService(deps Deps) *LeaderboardService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &LeaderboardService{
		source:   deps.Source,
		cache:    deps.Cache,
		recorder: deps.Recorder,
		notifier: deps.Notifier,
		writers:  deps.Writers,
		logger:   log.OrNop(deps.Logger).WithComponent(log.ComponentService),
		now:      now,
	}
}

// Run executes one leaderboard run. An empty result is not an error: the
// outcome carries no refs and nothing is exported or published.
func (s *LeaderboardService) Run(ctx context.Context, req RunRequest) (RunOutcome, error) {
	started := s.now()
	sl := log.NewStructuredLogger(s.logger)

	expenses, source, err := s.load(ctx, req)
	if err != nil {
		return RunOutcome{}, err
	}

	res, err := leaderboard.New(req.Options, s.logger).Run(ctx, expenses)
	if err != nil {
		return RunOutcome{}, fmt.Errorf("compute leaderboard: %w", err)
	}

	out := RunOutcome{
		Result: res,
		Source: source,
		Report: core.Report{
			Year:             req.Options.TargetYear,
			GroupID:          req.GroupID,
			GeneratedAt:      s.now(),
			ExcludedKeywords: req.Options.ExcludeKeywords,
			Tables:           res.Tables,
			Raw:              res.Raw,
		},
	}

	sl.LogRunCompleted(ctx, req.Options.TargetYear, req.GroupID,
		res.Stats.Fetched, res.Stats.Excluded, res.Stats.Unparseable, res.Stats.OutsideYear, res.Stats.Kept)

	if req.DryRun {
		s.logger.InfoContext(ctx, "Dry run, skipping export")
		return out, nil
	}

	if res.Empty() {
		s.logger.InfoContext(ctx, "No qualifying expenses found for target year after filtering",
			log.FieldYear, req.Options.TargetYear)
	} else {
		refs, err := s.export(ctx, out.Report)
		if err != nil {
			return out, err
		}
		out.Refs = refs
		s.publish(ctx, out)
	}

	out.RunID = s.record(ctx, req, out, started)
	return out, nil
}

func (s *LeaderboardService) load(ctx context.Context, req RunRequest) ([]core.Expense, string, error) {
	if req.Offline {
		if s.cache == nil {
			return nil, "", ErrNoCache
		}
		expenses, err := s.cache.LoadExpenses(ctx, req.GroupID)
		if err != nil {
			return nil, "", fmt.Errorf("load cached expenses: %w", err)
		}
		return expenses, SourceCache, nil
	}

	if s.source == nil {
		return nil, "", ErrNoSource
	}
	expenses, err := s.source.FetchGroupExpenses(ctx, req.GroupID)
	if err != nil {
		return nil, "", fmt.Errorf("fetch expenses: %w", err)
	}

	if s.cache != nil && !req.DryRun {
		if err := s.cache.SaveExpenses(ctx, req.GroupID, expenses); err != nil {
			// The run can proceed; only offline replays lose this snapshot.
			log.NewStructuredLogger(s.logger).LogError(ctx, "Failed to cache fetched expenses", err, log.OpCache,
				log.NewFields().WithRun(req.Options.TargetYear, req.GroupID))
		}
	}
	return expenses, SourceSplitwise, nil
}

// export writes the report to every writer concurrently. Refs keep writer order.
func (s *LeaderboardService) export(ctx context.Context, report core.Report) ([]string, error) {
	if len(s.writers) == 0 {
		return nil, sheets.ErrNoSheetsConfigured
	}

	refs := make([]string, len(s.writers))
	g, gctx := errgroup.WithContext(ctx)
	for i, w := range s.writers {
		i, w := i, w
		g.Go(func() error {
			ref, err := w.WriteReport(gctx, report)
			if err != nil {
				return fmt.Errorf("export report: %w", err)
			}
			refs[i] = ref
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, ref := range refs {
		s.logger.InfoContext(ctx, "Report exported", log.FieldRef, ref, log.FieldOperation, log.OpExport)
	}
	return refs, nil
}

func (s *LeaderboardService) publish(ctx context.Context, out RunOutcome) {
	if s.notifier == nil {
		s.logger.DebugContext(ctx, "AMQP client not available, skipping leaderboard message")
		return
	}
	msg := amqp.NewLeaderboardPublishedMessage(out.Report, out.Refs)
	if err := s.notifier.PublishLeaderboard(ctx, msg); err != nil {
		// Don't fail the run - the report is already written
		log.NewStructuredLogger(s.logger).LogError(ctx, "Failed to publish leaderboard message", err, log.OpPublish,
			log.NewFields().WithRun(out.Report.Year, out.Report.GroupID))
	}
}

func (s *LeaderboardService) record(ctx context.Context, req RunRequest, out RunOutcome, started time.Time) int64 {
	if s.recorder == nil {
		return 0
	}
	stats := out.Result.Stats
	rec := storage.RunRecord{
		Year:        req.Options.TargetYear,
		GroupID:     req.GroupID,
		Offline:     req.Offline,
		Fetched:     stats.Fetched,
		Excluded:    stats.Excluded,
		Unparseable: stats.Unparseable,
		OutsideYear: stats.OutsideYear,
		Kept:        stats.Kept,
		Refs:        out.Refs,
		StartedAt:   started,
		FinishedAt:  s.now(),
	}
	if leader, ok := out.Result.Tables.Leader(); ok {
		rec.Leader = leader.Player
		rec.LeaderTotal = core.FormatAmount(leader.Total)
	}

	id, err := s.recorder.RecordRun(ctx, rec)
	if err != nil {
		log.NewStructuredLogger(s.logger).LogError(ctx, "Failed to record run", err, log.OpRecord,
			log.NewFields().WithRun(req.Options.TargetYear, req.GroupID))
		return 0
	}
	return id
}

// Close closes collaborators that hold connections.
func (s *LeaderboardService) Close() error {
	var errs []error

	// cache and recorder are usually the same repository
	closed := map[io.Closer]struct{}{}
	for _, c := range []any{s.cache, s.recorder, s.notifier} {
		closer, ok := c.(io.Closer)
		if !ok {
			continue
		}
		if _, done := closed[closer]; done {
			continue
		}
		closed[closer] = struct{}{}
		if err := closer.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close leaderboard service: %w", errors.Join(errs...))
	}
	return nil
}
