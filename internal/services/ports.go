package services

import (
	"context"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

type (
	LedgerStore interface {
		CreateEntry(ctx context.Context, e core.LedgerEntry) (core.LedgerEntry, error)
		ListEntries(ctx context.Context, userID int64, rng storage.DateRange) ([]core.LedgerEntry, error)
		RecentEntries(ctx context.Context, userID int64, limit int) ([]core.LedgerEntry, error)
		CategoryTotals(ctx context.Context, userID int64) ([]core.CategoryAmount, error)
	}

	GoalStore interface {
		CreateGoal(ctx context.Context, g core.Goal, requirements []string) (core.Goal, storage.StatusChange, error)
		GoalByID(ctx context.Context, userID, goalID int64) (storage.GoalRecord, error)
		ListGoals(ctx context.Context, userID int64, f storage.GoalFilter) ([]storage.GoalRecord, error)
		UpdateGoal(ctx context.Context, userID int64, u storage.GoalUpdate) (core.Goal, storage.StatusChange, error)
		MarkGoalDone(ctx context.Context, userID, goalID int64) (storage.StatusChange, error)
		DeleteGoal(ctx context.Context, userID, goalID int64) error
		RecomputeStatus(ctx context.Context, userID, goalID int64) (storage.StatusChange, error)
	}

	UserStore interface {
		CreateUser(ctx context.Context, username, passwordHash string) (core.User, error)
		UserByUsername(ctx context.Context, username string) (core.User, error)
	}

	// EventPublisher announces domain activity. *amqp.Client implements it.
	EventPublisher interface {
		PublishEntryCreated(ctx context.Context, id, userID int64) error
		PublishGoalStatusChanged(ctx context.Context, id, userID int64, status string) error
	}
)

var (
	_ LedgerStore = (*storage.SQLiteRepository)(nil)
	_ GoalStore   = (*storage.SQLiteRepository)(nil)
	_ UserStore   = (*storage.SQLiteRepository)(nil)
)
