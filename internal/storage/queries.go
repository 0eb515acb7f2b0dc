package storage

import (
	"context"
)

const deleteGroupExpenses = `
DELETE FROM expenses WHERE group_id = ?
`

func (q *Queries) DeleteGroupExpenses(ctx context.Context, groupID int64) error {
	_, err := q.db.ExecContext(ctx, deleteGroupExpenses, groupID)
	return err
}

const insertExpense = `
INSERT INTO expenses (group_id, position, expense_id, payload, fetched_at)
VALUES (?, ?, ?, ?, ?)
`

type InsertExpenseParams struct {
	GroupID   int64
	Position  int64
	ExpenseID int64
	Payload   string
	FetchedAt string
}

func (q *Queries) InsertExpense(ctx context.Context, arg InsertExpenseParams) error {
	_, err := q.db.ExecContext(ctx, insertExpense,
		arg.GroupID,
		arg.Position,
		arg.ExpenseID,
		arg.Payload,
		arg.FetchedAt,
	)
	return err
}

const listGroupExpenses = `
SELECT group_id, position, expense_id, payload, fetched_at
FROM expenses
WHERE group_id = ?
ORDER BY position
`

func (q *Queries) ListGroupExpenses(ctx context.Context, groupID int64) ([]CachedExpense, error) {
	rows, err := q.db.QueryContext(ctx, listGroupExpenses, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CachedExpense
	for rows.Next() {
		var i CachedExpense
		if err := rows.Scan(
			&i.GroupID,
			&i.Position,
			&i.ExpenseID,
			&i.Payload,
			&i.FetchedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const insertRun = `
INSERT INTO runs (
    year, group_id, offline, fetched, excluded, unparseable, outside_year, kept,
    leader, leader_total, refs, started_at, finished_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING id
`

type InsertRunParams struct {
	Year        int64
	GroupID     int64
	Offline     int64
	Fetched     int64
	Excluded    int64
	Unparseable int64
	OutsideYear int64
	Kept        int64
	Leader      string
	LeaderTotal string
	Refs        string
	StartedAt   string
	FinishedAt  string
}

func (q *Queries) InsertRun(ctx context.Context, arg InsertRunParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, insertRun,
		arg.Year,
		arg.GroupID,
		arg.Offline,
		arg.Fetched,
		arg.Excluded,
		arg.Unparseable,
		arg.OutsideYear,
		arg.Kept,
		arg.Leader,
		arg.LeaderTotal,
		arg.Refs,
		arg.StartedAt,
		arg.FinishedAt,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const listRuns = `
SELECT id, year, group_id, offline, fetched, excluded, unparseable, outside_year, kept,
       leader, leader_total, refs, started_at, finished_at
FROM runs
WHERE year = ? AND group_id = ?
ORDER BY id DESC
LIMIT ?
`

type ListRunsParams struct {
	Year    int64
	GroupID int64
	Limit   int64
}

func (q *Queries) ListRuns(ctx context.Context, arg ListRunsParams) ([]Run, error) {
	rows, err := q.db.QueryContext(ctx, listRuns, arg.Year, arg.GroupID, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Run
	for rows.Next() {
		var i Run
		if err := rows.Scan(
			&i.ID,
			&i.Year,
			&i.GroupID,
			&i.Offline,
			&i.Fetched,
			&i.Excluded,
			&i.Unparseable,
			&i.OutsideYear,
			&i.Kept,
			&i.Leader,
			&i.LeaderTotal,
			&i.Refs,
			&i.StartedAt,
			&i.FinishedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
