package services

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

// LedgerView is everything the full ledger page renders.
type LedgerView struct {
	Filter EntryFilter
	Rows   []core.BalancedEntry
	Totals []core.CategoryAmount
	Chart  core.CategoryChart
	// Bank and Cash are the balances after the last listed row.
	Bank int64
	Cash int64
}

// RecentView is the recent page: the latest entries without balances and
// totals over all of the user's data.
type RecentView struct {
	Entries []core.LedgerEntry
	Totals  []core.CategoryAmount
	Chart   core.CategoryChart
}

// LedgerService orchestrates ledger operations across storage and events.
type LedgerService struct {
	store     LedgerStore
	publisher EventPublisher
}

func NewLedgerService(store LedgerStore, publisher EventPublisher) *LedgerService {
	return &LedgerService{store: store, publisher: publisher}
}

// CreateEntry saves the entry for the user and announces it. Publishing is
// best effort: the entry is already stored when it fails.
func (s *LedgerService) CreateEntry(ctx context.Context, userID int64, e core.LedgerEntry) (core.LedgerEntry, error) {
	e.UserID = userID
	saved, err := s.store.CreateEntry(ctx, e)
	if err != nil {
		return core.LedgerEntry{}, fmt.Errorf("save entry: %w", err)
	}

	if s.publisher == nil {
		slog.DebugContext(ctx, "No event publisher configured, skipping entry event", "id", saved.ID)
	} else if err := s.publisher.PublishEntryCreated(ctx, saved.ID, userID); err != nil {
		slog.ErrorContext(ctx, "Failed to publish entry event", "id", saved.ID, "error", err)
	}

	return saved, nil
}

// List loads the filtered entries, replays balances over them in display
// order and totals spending per category.
func (s *LedgerService) List(ctx context.Context, userID int64, f EntryFilter) (LedgerView, error) {
	entries, err := s.store.ListEntries(ctx, userID, f.Range)
	if err != nil {
		return LedgerView{}, fmt.Errorf("list entries: %w", err)
	}

	rows := core.Reconcile(entries)
	totals := core.AggregateByCategory(entries)
	view := LedgerView{
		Filter: f,
		Rows:   rows,
		Totals: totals,
		Chart:  core.Chart(totals),
	}
	if n := len(rows); n > 0 {
		view.Bank, view.Cash = rows[n-1].BankBalance, rows[n-1].CashBalance
	}
	return view, nil
}

// Recent loads the last entries and the all-time category totals
// concurrently.
func (s *LedgerService) Recent(ctx context.Context, userID int64) (RecentView, error) {
	var view RecentView
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		entries, err := s.store.RecentEntries(gctx, userID, storage.RecentLimit)
		if err != nil {
			return fmt.Errorf("recent entries: %w", err)
		}
		view.Entries = entries
		return nil
	})
	g.Go(func() error {
		totals, err := s.store.CategoryTotals(gctx, userID)
		if err != nil {
			return fmt.Errorf("category totals: %w", err)
		}
		view.Totals = totals
		return nil
	})
	if err := g.Wait(); err != nil {
		return RecentView{}, err
	}
	view.Chart = core.Chart(view.Totals)
	return view, nil
}
