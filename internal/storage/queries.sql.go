package storage

import (
	"context"
	"database/sql"
	"time"
)

const createUser = `-- name: CreateUser :execlastid
INSERT INTO users (username, password_hash, created_at)
VALUES (?, ?, ?)
`

type CreateUserParams struct {
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, createUser, arg.Username, arg.PasswordHash, arg.CreatedAt)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

const getUser = `-- name: GetUser :one
SELECT id, username, password_hash, created_at FROM users WHERE id = ?
`

func (q *Queries) GetUser(ctx context.Context, id int64) (User, error) {
	row := q.db.QueryRowContext(ctx, getUser, id)
	var i User
	err := row.Scan(&i.ID, &i.Username, &i.PasswordHash, &i.CreatedAt)
	return i, err
}

const getUserByUsername = `-- name: GetUserByUsername :one
SELECT id, username, password_hash, created_at FROM users
WHERE username = ? COLLATE NOCASE
`

func (q *Queries) GetUserByUsername(ctx context.Context, username string) (User, error) {
	row := q.db.QueryRowContext(ctx, getUserByUsername, username)
	var i User
	err := row.Scan(&i.ID, &i.Username, &i.PasswordHash, &i.CreatedAt)
	return i, err
}

const createEntry = `-- name: CreateEntry :execlastid
INSERT INTO ledger_entries (user_id, entry_date, transaction_type, item_service, category, amount, note, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`

type CreateEntryParams struct {
	UserID          int64
	EntryDate       string
	TransactionType string
	ItemService     string
	Category        string
	Amount          int64
	Note            string
	CreatedAt       time.Time
}

func (q *Queries) CreateEntry(ctx context.Context, arg CreateEntryParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, createEntry,
		arg.UserID,
		arg.EntryDate,
		arg.TransactionType,
		arg.ItemService,
		arg.Category,
		arg.Amount,
		arg.Note,
		arg.CreatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

const getEntry = `-- name: GetEntry :one
SELECT id, user_id, entry_date, transaction_type, item_service, category, amount, note, created_at
FROM ledger_entries WHERE id = ?
`

func (q *Queries) GetEntry(ctx context.Context, id int64) (LedgerEntry, error) {
	row := q.db.QueryRowContext(ctx, getEntry, id)
	var i LedgerEntry
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.EntryDate,
		&i.TransactionType,
		&i.ItemService,
		&i.Category,
		&i.Amount,
		&i.Note,
		&i.CreatedAt,
	)
	return i, err
}

const listEntries = `-- name: ListEntries :many
SELECT id, user_id, entry_date, transaction_type, item_service, category, amount, note, created_at
FROM ledger_entries
WHERE user_id = ?
  AND (? = '' OR entry_date >= ?)
  AND (? = '' OR entry_date <= ?)
ORDER BY entry_date DESC, id DESC
`

type ListEntriesParams struct {
	UserID int64
	// FromDate and UntilDate are inclusive YYYY-MM-DD bounds; empty means open.
	FromDate  string
	UntilDate string
}

func (q *Queries) ListEntries(ctx context.Context, arg ListEntriesParams) ([]LedgerEntry, error) {
	rows, err := q.db.QueryContext(ctx, listEntries,
		arg.UserID,
		arg.FromDate, arg.FromDate,
		arg.UntilDate, arg.UntilDate,
	)
	if err != nil {
		return nil, err
	}
	return scanEntries(rows)
}

const recentEntries = `-- name: RecentEntries :many
SELECT id, user_id, entry_date, transaction_type, item_service, category, amount, note, created_at
FROM ledger_entries
WHERE user_id = ?
ORDER BY id DESC
LIMIT ?
`

func (q *Queries) RecentEntries(ctx context.Context, userID, limit int64) ([]LedgerEntry, error) {
	rows, err := q.db.QueryContext(ctx, recentEntries, userID, limit)
	if err != nil {
		return nil, err
	}
	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]LedgerEntry, error) {
	defer rows.Close()
	var items []LedgerEntry
	for rows.Next() {
		var i LedgerEntry
		if err := rows.Scan(
			&i.ID,
			&i.UserID,
			&i.EntryDate,
			&i.TransactionType,
			&i.ItemService,
			&i.Category,
			&i.Amount,
			&i.Note,
			&i.CreatedAt,
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

const categoryTotals = `-- name: CategoryTotals :many
SELECT category, CAST(SUM(amount) AS INTEGER) AS total
FROM ledger_entries
WHERE user_id = ?
  AND transaction_type IN ('Expense', 'Transfer')
  AND category != ''
GROUP BY category
ORDER BY total DESC, category ASC
`

func (q *Queries) CategoryTotals(ctx context.Context, userID int64) ([]CategoryTotalsRow, error) {
	rows, err := q.db.QueryContext(ctx, categoryTotals, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CategoryTotalsRow
	for rows.Next() {
		var i CategoryTotalsRow
		if err := rows.Scan(&i.Category, &i.Total); err != nil {
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

const createGoal = `-- name: CreateGoal :execlastid
INSERT INTO goals (user_id, title, objective, category, priority, status, target_date, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`

type CreateGoalParams struct {
	UserID     int64
	Title      string
	Objective  string
	Category   string
	Priority   string
	TargetDate sql.NullString
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (q *Queries) CreateGoal(ctx context.Context, arg CreateGoalParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, createGoal,
		arg.UserID,
		arg.Title,
		arg.Objective,
		arg.Category,
		arg.Priority,
		arg.TargetDate,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

const getGoal = `-- name: GetGoal :one
SELECT id, user_id, title, objective, category, priority, status, target_date, created_at, updated_at
FROM goals WHERE id = ? AND user_id = ?
`

func (q *Queries) GetGoal(ctx context.Context, id, userID int64) (Goal, error) {
	return scanGoal(q.db.QueryRowContext(ctx, getGoal, id, userID))
}

func scanGoal(row interface{ Scan(...any) error }) (Goal, error) {
	var i Goal
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.Title,
		&i.Objective,
		&i.Category,
		&i.Priority,
		&i.Status,
		&i.TargetDate,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listGoals = `-- name: ListGoals :many
SELECT id, user_id, title, objective, category, priority, status, target_date, created_at, updated_at
FROM goals
WHERE user_id = ?
  AND (? = '' OR category = ?)
  AND (? = '' OR status = ?)
  AND (? = '' OR priority = ?)
ORDER BY updated_at DESC, created_at DESC, id DESC
`

type ListGoalsParams struct {
	UserID   int64
	Category string
	Status   string
	Priority string
}

func (q *Queries) ListGoals(ctx context.Context, arg ListGoalsParams) ([]Goal, error) {
	rows, err := q.db.QueryContext(ctx, listGoals,
		arg.UserID,
		arg.Category, arg.Category,
		arg.Status, arg.Status,
		arg.Priority, arg.Priority,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Goal
	for rows.Next() {
		i, err := scanGoal(rows)
		if err != nil {
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

const updateGoal = `-- name: UpdateGoal :execrows
UPDATE goals
SET title = ?, objective = ?, category = ?, priority = ?, target_date = ?, updated_at = ?
WHERE id = ? AND user_id = ?
`

type UpdateGoalParams struct {
	Title      string
	Objective  string
	Category   string
	Priority   string
	Status     string
	TargetDate sql.NullString
	UpdatedAt  time.Time
	ID         int64
	UserID     int64
}

func (q *Queries) UpdateGoal(ctx context.Context, arg UpdateGoalParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateGoal,
		arg.Title,
		arg.Objective,
		arg.Category,
		arg.Priority,
		arg.Status,
		arg.TargetDate,
		arg.UpdatedAt,
		arg.ID,
		arg.UserID,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const updateGoalStatus = `-- name: UpdateGoalStatus :exec
UPDATE goals SET status = ?, updated_at = ? WHERE id = ?
`

func (q *Queries) UpdateGoalStatus(ctx context.Context, status string, updatedAt time.Time, id int64) error {
	_, err := q.db.ExecContext(ctx, updateGoalStatus, status, updatedAt, id)
	return err
}

const deleteGoal = `-- name: DeleteGoal :execrows
DELETE FROM goals WHERE id = ? AND user_id = ?
`

func (q *Queries) DeleteGoal(ctx context.Context, id, userID int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteGoal, id, userID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const createRequirement = `-- name: CreateRequirement :execlastid
INSERT INTO requirements (goal_id, text, is_done)
VALUES (?, ?, 0)
`

func (q *Queries) CreateRequirement(ctx context.Context, goalID int64, text string) (int64, error) {
	result, err := q.db.ExecContext(ctx, createRequirement, goalID, text)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

const listRequirementsByGoal = `-- name: ListRequirementsByGoal :many
SELECT id, goal_id, text, is_done FROM requirements
WHERE goal_id = ?
ORDER BY id
`

func (q *Queries) ListRequirementsByGoal(ctx context.Context, goalID int64) ([]Requirement, error) {
	rows, err := q.db.QueryContext(ctx, listRequirementsByGoal, goalID)
	if err != nil {
		return nil, err
	}
	return scanRequirements(rows)
}

const listRequirementsByUser = `-- name: ListRequirementsByUser :many
SELECT r.id, r.goal_id, r.text, r.is_done
FROM requirements r
JOIN goals g ON g.id = r.goal_id
WHERE g.user_id = ?
ORDER BY r.goal_id, r.id
`

func (q *Queries) ListRequirementsByUser(ctx context.Context, userID int64) ([]Requirement, error) {
	rows, err := q.db.QueryContext(ctx, listRequirementsByUser, userID)
	if err != nil {
		return nil, err
	}
	return scanRequirements(rows)
}

func scanRequirements(rows *sql.Rows) ([]Requirement, error) {
	defer rows.Close()
	var items []Requirement
	for rows.Next() {
		var i Requirement
		if err := rows.Scan(&i.ID, &i.GoalID, &i.Text, &i.IsDone); err != nil {
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

const setRequirementDone = `-- name: SetRequirementDone :exec
UPDATE requirements SET is_done = ? WHERE id = ? AND goal_id = ?
`

func (q *Queries) SetRequirementDone(ctx context.Context, isDone bool, id, goalID int64) error {
	_, err := q.db.ExecContext(ctx, setRequirementDone, isDone, id, goalID)
	return err
}

const markAllRequirementsDone = `-- name: MarkAllRequirementsDone :exec
UPDATE requirements SET is_done = 1 WHERE goal_id = ? AND is_done = 0
`

func (q *Queries) MarkAllRequirementsDone(ctx context.Context, goalID int64) error {
	_, err := q.db.ExecContext(ctx, markAllRequirementsDone, goalID)
	return err
}

const countRequirements = `-- name: CountRequirements :one
SELECT COUNT(*) AS total, COALESCE(SUM(is_done), 0) AS done
FROM requirements WHERE goal_id = ?
`

func (q *Queries) CountRequirements(ctx context.Context, goalID int64) (CountRequirementsRow, error) {
	row := q.db.QueryRowContext(ctx, countRequirements, goalID)
	var i CountRequirementsRow
	err := row.Scan(&i.Total, &i.Done)
	return i, err
}
