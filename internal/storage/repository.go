package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"fintrack/internal/core"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("already exists")
)

// RecentLimit is how many entries the recent page shows.
const RecentLimit = 5

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

// DateRange bounds a ledger listing. Zero dates leave that side open.
type DateRange struct {
	From  core.Date
	Until core.Date
}

// GoalFilter narrows a goal listing; empty fields match everything.
type GoalFilter struct {
	Category string
	Status   core.GoalStatus
	Priority core.Priority
}

// GoalRecord is a goal with its requirements in insertion order.
type GoalRecord struct {
	Goal         core.Goal
	Requirements []core.Requirement
}

// GoalUpdate carries the editable fields of a goal plus the checklist changes
// submitted with the edit form.
type GoalUpdate struct {
	Goal            core.Goal
	NewRequirements []string
	// Checked holds the ids of requirements ticked on the form. Every other
	// requirement of the goal is marked not done.
	Checked map[int64]bool
}

// StatusChange reports the outcome of a status recompute.
type StatusChange struct {
	GoalID  int64
	UserID  int64
	From    core.GoalStatus
	To      core.GoalStatus
	Changed bool
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// SQLite allows a single writer; serialize through one connection.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) withTx(ctx context.Context, fn func(q *Queries) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(r.queries.WithTx(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			slog.ErrorContext(ctx, "Rollback failed", "error", rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// CreateUser stores a new account. Usernames are unique regardless of case.
func (r *SQLiteRepository) CreateUser(ctx context.Context, username, passwordHash string) (core.User, error) {
	now := time.Now().UTC()
	id, err := r.queries.CreateUser(ctx, CreateUserParams{
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    now,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return core.User{}, fmt.Errorf("user %q: %w", username, ErrDuplicate)
		}
		return core.User{}, fmt.Errorf("create user: %w", err)
	}

	slog.InfoContext(ctx, "User created", "id", id, "username", username)
	return core.User{ID: id, Username: username, PasswordHash: passwordHash, CreatedAt: now}, nil
}

func (r *SQLiteRepository) UserByUsername(ctx context.Context, username string) (core.User, error) {
	u, err := r.queries.GetUserByUsername(ctx, username)
	if err != nil {
		return core.User{}, notFound(err, "get user by username")
	}
	return toCoreUser(u), nil
}

func (r *SQLiteRepository) UserByID(ctx context.Context, id int64) (core.User, error) {
	u, err := r.queries.GetUser(ctx, id)
	if err != nil {
		return core.User{}, notFound(err, "get user")
	}
	return toCoreUser(u), nil
}

// CreateEntry validates and stores a ledger entry, returning it with its id.
func (r *SQLiteRepository) CreateEntry(ctx context.Context, e core.LedgerEntry) (core.LedgerEntry, error) {
	if err := e.Validate(); err != nil {
		return core.LedgerEntry{}, err
	}
	e.CreatedAt = time.Now().UTC()
	id, err := r.queries.CreateEntry(ctx, CreateEntryParams{
		UserID:          e.UserID,
		EntryDate:       e.Date.String(),
		TransactionType: string(e.Type),
		ItemService:     e.ItemService,
		Category:        e.Category,
		Amount:          e.Amount,
		Note:            e.Note,
		CreatedAt:       e.CreatedAt,
	})
	if err != nil {
		return core.LedgerEntry{}, fmt.Errorf("create entry: %w", err)
	}
	e.ID = id

	slog.InfoContext(ctx, "Ledger entry saved",
		"id", e.ID,
		"user_id", e.UserID,
		"type", e.Type,
		"amount", e.Amount,
		"date", e.Date.String())

	return e, nil
}

// EntryByID loads an entry regardless of owner. Only background consumers
// that already trust the id should use it.
func (r *SQLiteRepository) EntryByID(ctx context.Context, id int64) (core.LedgerEntry, error) {
	e, err := r.queries.GetEntry(ctx, id)
	if err != nil {
		return core.LedgerEntry{}, notFound(err, "get entry")
	}
	return toCoreEntry(e)
}

// ListEntries returns a user's entries inside the range, newest date first
// with the id breaking ties.
func (r *SQLiteRepository) ListEntries(ctx context.Context, userID int64, rng DateRange) ([]core.LedgerEntry, error) {
	rows, err := r.queries.ListEntries(ctx, ListEntriesParams{
		UserID:    userID,
		FromDate:  rng.From.String(),
		UntilDate: rng.Until.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return toCoreEntries(rows)
}

// RecentEntries returns the last entries added by the user.
func (r *SQLiteRepository) RecentEntries(ctx context.Context, userID int64, limit int) ([]core.LedgerEntry, error) {
	rows, err := r.queries.RecentEntries(ctx, userID, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("recent entries: %w", err)
	}
	return toCoreEntries(rows)
}

// CategoryTotals sums all of a user's expense and transfer spending per
// category, largest first.
func (r *SQLiteRepository) CategoryTotals(ctx context.Context, userID int64) ([]core.CategoryAmount, error) {
	rows, err := r.queries.CategoryTotals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("category totals: %w", err)
	}
	out := make([]core.CategoryAmount, len(rows))
	for i, row := range rows {
		out[i] = core.CategoryAmount{Name: row.Category, Amount: row.Total}
	}
	return out, nil
}

// CreateGoal inserts the goal with its initial requirements and derives the
// status, all in one transaction.
func (r *SQLiteRepository) CreateGoal(ctx context.Context, g core.Goal, requirements []string) (core.Goal, StatusChange, error) {
	g.ApplyDefaults()
	if err := g.Validate(); err != nil {
		return core.Goal{}, StatusChange{}, err
	}

	var change StatusChange
	err := r.withTx(ctx, func(q *Queries) error {
		now := time.Now().UTC()
		id, err := q.CreateGoal(ctx, CreateGoalParams{
			UserID:     g.UserID,
			Title:      g.Title,
			Objective:  g.Objective,
			Category:   g.Category,
			Priority:   string(g.Priority),
			Status:     string(g.Status),
			TargetDate: nullDate(g.TargetDate),
			CreatedAt:  now,
			UpdatedAt:  now,
		})
		if err != nil {
			return fmt.Errorf("create goal: %w", err)
		}
		g.ID, g.CreatedAt, g.UpdatedAt = id, now, now

		for _, text := range requirements {
			if _, err := q.CreateRequirement(ctx, id, text); err != nil {
				return fmt.Errorf("create requirement: %w", err)
			}
		}

		change, err = recomputeStatus(ctx, q, g.ID, g.UserID, g.Status)
		return err
	})
	if err != nil {
		return core.Goal{}, StatusChange{}, err
	}
	g.Status = change.To

	slog.InfoContext(ctx, "Goal created",
		"id", g.ID,
		"user_id", g.UserID,
		"requirements", len(requirements),
		"status", g.Status)

	return g, change, nil
}

// GoalByID loads an owned goal with its requirements.
func (r *SQLiteRepository) GoalByID(ctx context.Context, userID, goalID int64) (GoalRecord, error) {
	g, err := r.queries.GetGoal(ctx, goalID, userID)
	if err != nil {
		return GoalRecord{}, notFound(err, "get goal")
	}
	reqs, err := r.queries.ListRequirementsByGoal(ctx, goalID)
	if err != nil {
		return GoalRecord{}, fmt.Errorf("list requirements: %w", err)
	}
	goal, err := toCoreGoal(g)
	if err != nil {
		return GoalRecord{}, err
	}
	return GoalRecord{Goal: goal, Requirements: toCoreRequirements(reqs)}, nil
}

// ListGoals returns a user's goals, most recently updated first.
func (r *SQLiteRepository) ListGoals(ctx context.Context, userID int64, f GoalFilter) ([]GoalRecord, error) {
	goals, err := r.queries.ListGoals(ctx, ListGoalsParams{
		UserID:   userID,
		Category: f.Category,
		Status:   string(f.Status),
		Priority: string(f.Priority),
	})
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	reqs, err := r.queries.ListRequirementsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list requirements: %w", err)
	}

	byGoal := make(map[int64][]core.Requirement)
	for _, req := range toCoreRequirements(reqs) {
		byGoal[req.GoalID] = append(byGoal[req.GoalID], req)
	}

	out := make([]GoalRecord, 0, len(goals))
	for _, row := range goals {
		g, err := toCoreGoal(row)
		if err != nil {
			return nil, err
		}
		out = append(out, GoalRecord{Goal: g, Requirements: byGoal[g.ID]})
	}
	return out, nil
}

// UpdateGoal saves the edited fields, appends new requirements, applies the
// checkbox state and re-derives the status in one transaction. Only
// requirements whose done flag actually changed are written. The submitted
// status is ignored; the stored one is compared with the derived one.
func (r *SQLiteRepository) UpdateGoal(ctx context.Context, userID int64, u GoalUpdate) (core.Goal, StatusChange, error) {
	g := u.Goal
	g.UserID = userID
	g.ApplyDefaults()
	if err := g.Validate(); err != nil {
		return core.Goal{}, StatusChange{}, err
	}

	var change StatusChange
	err := r.withTx(ctx, func(q *Queries) error {
		stored, err := q.GetGoal(ctx, g.ID, userID)
		if err != nil {
			return notFound(err, "get goal")
		}

		now := time.Now().UTC()
		n, err := q.UpdateGoal(ctx, UpdateGoalParams{
			Title:      g.Title,
			Objective:  g.Objective,
			Category:   g.Category,
			Priority:   string(g.Priority),
			TargetDate: nullDate(g.TargetDate),
			UpdatedAt:  now,
			ID:         g.ID,
			UserID:     userID,
		})
		if err != nil {
			return fmt.Errorf("update goal: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("update goal %d: %w", g.ID, ErrNotFound)
		}
		g.UpdatedAt = now

		for _, text := range u.NewRequirements {
			if _, err := q.CreateRequirement(ctx, g.ID, text); err != nil {
				return fmt.Errorf("create requirement: %w", err)
			}
		}

		reqs, err := q.ListRequirementsByGoal(ctx, g.ID)
		if err != nil {
			return fmt.Errorf("list requirements: %w", err)
		}
		for _, req := range reqs {
			want := u.Checked[req.ID]
			if req.IsDone == want {
				continue
			}
			if err := q.SetRequirementDone(ctx, want, req.ID, g.ID); err != nil {
				return fmt.Errorf("set requirement %d: %w", req.ID, err)
			}
		}

		change, err = recomputeStatus(ctx, q, g.ID, userID, core.GoalStatus(stored.Status))
		return err
	})
	if err != nil {
		return core.Goal{}, StatusChange{}, err
	}
	g.Status = change.To

	slog.InfoContext(ctx, "Goal updated",
		"id", g.ID,
		"user_id", userID,
		"new_requirements", len(u.NewRequirements),
		"status", g.Status)

	return g, change, nil
}

// MarkGoalDone ticks every requirement of an owned goal and re-derives the
// status.
func (r *SQLiteRepository) MarkGoalDone(ctx context.Context, userID, goalID int64) (StatusChange, error) {
	var change StatusChange
	err := r.withTx(ctx, func(q *Queries) error {
		g, err := q.GetGoal(ctx, goalID, userID)
		if err != nil {
			return notFound(err, "get goal")
		}
		if err := q.MarkAllRequirementsDone(ctx, goalID); err != nil {
			return fmt.Errorf("mark requirements done: %w", err)
		}
		change, err = recomputeStatus(ctx, q, goalID, userID, core.GoalStatus(g.Status))
		return err
	})
	if err != nil {
		return StatusChange{}, err
	}
	return change, nil
}

// DeleteGoal removes an owned goal; its requirements go with it.
func (r *SQLiteRepository) DeleteGoal(ctx context.Context, userID, goalID int64) error {
	n, err := r.queries.DeleteGoal(ctx, goalID, userID)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("delete goal %d: %w", goalID, ErrNotFound)
	}
	slog.InfoContext(ctx, "Goal deleted", "id", goalID, "user_id", userID)
	return nil
}

// RecomputeStatus re-derives the status of an owned goal from its
// requirements. It writes only when the derived status differs.
func (r *SQLiteRepository) RecomputeStatus(ctx context.Context, userID, goalID int64) (StatusChange, error) {
	var change StatusChange
	err := r.withTx(ctx, func(q *Queries) error {
		g, err := q.GetGoal(ctx, goalID, userID)
		if err != nil {
			return notFound(err, "get goal")
		}
		change, err = recomputeStatus(ctx, q, goalID, userID, core.GoalStatus(g.Status))
		return err
	})
	return change, err
}

func recomputeStatus(ctx context.Context, q *Queries, goalID, userID int64, current core.GoalStatus) (StatusChange, error) {
	counts, err := q.CountRequirements(ctx, goalID)
	if err != nil {
		return StatusChange{}, fmt.Errorf("count requirements: %w", err)
	}
	derived := core.DeriveStatus(int(counts.Total), int(counts.Done))
	change := StatusChange{GoalID: goalID, UserID: userID, From: current, To: derived}
	if derived == current {
		return change, nil
	}
	if err := q.UpdateGoalStatus(ctx, string(derived), time.Now().UTC(), goalID); err != nil {
		return StatusChange{}, fmt.Errorf("update goal status: %w", err)
	}
	change.Changed = true

	slog.DebugContext(ctx, "Goal status recomputed",
		"id", goalID,
		"from", current,
		"to", derived,
		"total", counts.Total,
		"done", counts.Done)

	return change, nil
}

func notFound(err error, op string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	// Primary code when extended result codes are off.
	return se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE || se.Code() == sqlite3.SQLITE_CONSTRAINT
}
