package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"pokerboard/internal/core"
	"pokerboard/internal/log"

	_ "modernc.org/sqlite"
)

const timeLayout = time.RFC3339Nano

var ErrNoCachedExpenses = errors.New("no cached expenses for group")

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
	logger  *log.Logger
	now     func() time.Time
}

// RunRecord is the history entry written after every completed run.
type RunRecord struct {
	ID          int64
	Year        int
	GroupID     int64
	Offline     bool
	Fetched     int
	Excluded    int
	Unparseable int
	OutsideYear int
	Kept        int
	Leader      string
	LeaderTotal string
	Refs        []string
	StartedAt   time.Time
	FinishedAt  time.Time
}

func NewSQLiteRepository(dbPath string, logger *log.Logger) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// sqlite allows a single writer
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	version, err := RunMigrations(dbPath)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	logger = log.OrNop(logger).WithComponent(log.ComponentStorage)
	logger.Debug("SQLite schema ready", log.FieldPath, dbPath, "schema_version", version)

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
		logger:  logger,
		now:     time.Now,
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// SaveExpenses replaces the cached snapshot of a group with expenses,
// preserving their order.
func (r *SQLiteRepository) SaveExpenses(ctx context.Context, groupID int64, expenses []core.Expense) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	q := r.queries.WithTx(tx)
	if err := q.DeleteGroupExpenses(ctx, groupID); err != nil {
		return fmt.Errorf("clear cached expenses: %w", err)
	}

	fetchedAt := r.now().UTC().Format(timeLayout)
	for i, e := range expenses {
		payload, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("encode expense %d: %w", e.ID, err)
		}
		if err := q.InsertExpense(ctx, InsertExpenseParams{
			GroupID:   groupID,
			Position:  int64(i),
			ExpenseID: e.ID,
			Payload:   string(payload),
			FetchedAt: fetchedAt,
		}); err != nil {
			return fmt.Errorf("insert expense %d: %w", e.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	r.logger.InfoContext(ctx, "Cached group expenses",
		log.FieldGroupID, groupID,
		log.FieldCount, len(expenses),
	)
	return nil
}

// LoadExpenses returns the cached snapshot in its original order.
func (r *SQLiteRepository) LoadExpenses(ctx context.Context, groupID int64) ([]core.Expense, error) {
	rows, err := r.queries.ListGroupExpenses(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("list cached expenses: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: group_id=%d", ErrNoCachedExpenses, groupID)
	}

	expenses := make([]core.Expense, len(rows))
	for i, row := range rows {
		if err := json.Unmarshal([]byte(row.Payload), &expenses[i]); err != nil {
			return nil, fmt.Errorf("decode cached expense %d: %w", row.ExpenseID, err)
		}
	}

	r.logger.DebugContext(ctx, "Loaded cached expenses",
		log.FieldGroupID, groupID,
		log.FieldCount, len(expenses),
	)
	return expenses, nil
}

// RecordRun stores a run in the history and returns its id.
func (r *SQLiteRepository) RecordRun(ctx context.Context, rec RunRecord) (int64, error) {
	refs := rec.Refs
	if refs == nil {
		refs = []string{}
	}
	encodedRefs, err := json.Marshal(refs)
	if err != nil {
		return 0, fmt.Errorf("encode refs: %w", err)
	}

	var offline int64
	if rec.Offline {
		offline = 1
	}

	id, err := r.queries.InsertRun(ctx, InsertRunParams{
		Year:        int64(rec.Year),
		GroupID:     rec.GroupID,
		Offline:     offline,
		Fetched:     int64(rec.Fetched),
		Excluded:    int64(rec.Excluded),
		Unparseable: int64(rec.Unparseable),
		OutsideYear: int64(rec.OutsideYear),
		Kept:        int64(rec.Kept),
		Leader:      rec.Leader,
		LeaderTotal: rec.LeaderTotal,
		Refs:        string(encodedRefs),
		StartedAt:   rec.StartedAt.UTC().Format(timeLayout),
		FinishedAt:  rec.FinishedAt.UTC().Format(timeLayout),
	})
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}

	r.logger.InfoContext(ctx, "Run recorded",
		"run_id", id,
		log.FieldYear, rec.Year,
		log.FieldGroupID, rec.GroupID,
		log.FieldKept, rec.Kept,
	)
	return id, nil
}

// ListRuns returns the most recent runs for a year and group, newest first.
func (r *SQLiteRepository) ListRuns(ctx context.Context, year int, groupID int64, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.queries.ListRuns(ctx, ListRunsParams{
		Year:    int64(year),
		GroupID: groupID,
		Limit:   int64(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}

	records := make([]RunRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := runFromRow(row)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func runFromRow(row Run) (RunRecord, error) {
	rec := RunRecord{
		ID:          row.ID,
		Year:        int(row.Year),
		GroupID:     row.GroupID,
		Offline:     row.Offline != 0,
		Fetched:     int(row.Fetched),
		Excluded:    int(row.Excluded),
		Unparseable: int(row.Unparseable),
		OutsideYear: int(row.OutsideYear),
		Kept:        int(row.Kept),
		Leader:      row.Leader,
		LeaderTotal: row.LeaderTotal,
	}
	if err := json.Unmarshal([]byte(row.Refs), &rec.Refs); err != nil {
		return RunRecord{}, fmt.Errorf("decode refs of run %d: %w", row.ID, err)
	}
	var err error
	if rec.StartedAt, err = time.Parse(timeLayout, row.StartedAt); err != nil {
		return RunRecord{}, fmt.Errorf("parse started_at of run %d: %w", row.ID, err)
	}
	if rec.FinishedAt, err = time.Parse(timeLayout, row.FinishedAt); err != nil {
		return RunRecord{}, fmt.Errorf("parse finished_at of run %d: %w", row.ID, err)
	}
	return rec, nil
}
