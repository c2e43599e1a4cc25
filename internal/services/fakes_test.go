package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

type fakeLedger struct {
	mu        sync.Mutex
	entries   []core.LedgerEntry
	lastRange storage.DateRange
	err       error
}

func (f *fakeLedger) CreateEntry(_ context.Context, e core.LedgerEntry) (core.LedgerEntry, error) {
	if err := e.Validate(); err != nil {
		return core.LedgerEntry{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	e.ID = int64(len(f.entries) + 1)
	f.entries = append(f.entries, e)
	return e, nil
}

func (f *fakeLedger) ListEntries(_ context.Context, userID int64, rng storage.DateRange) ([]core.LedgerEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastRange = rng
	var out []core.LedgerEntry
	for _, e := range f.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, f.err
}

func (f *fakeLedger) RecentEntries(_ context.Context, userID int64, limit int) ([]core.LedgerEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []core.LedgerEntry
	for i := len(f.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if f.entries[i].UserID == userID {
			out = append(out, f.entries[i])
		}
	}
	return out, nil
}

func (f *fakeLedger) CategoryTotals(_ context.Context, userID int64) ([]core.CategoryAmount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var mine []core.LedgerEntry
	for _, e := range f.entries {
		if e.UserID == userID {
			mine = append(mine, e)
		}
	}
	return core.AggregateByCategory(mine), nil
}

type publishedEvent struct {
	kind   string
	id     int64
	userID int64
	status string
}

type fakePublisher struct {
	events []publishedEvent
	err    error
}

func (p *fakePublisher) PublishEntryCreated(_ context.Context, id, userID int64) error {
	p.events = append(p.events, publishedEvent{kind: "entry", id: id, userID: userID})
	return p.err
}

func (p *fakePublisher) PublishGoalStatusChanged(_ context.Context, id, userID int64, status string) error {
	p.events = append(p.events, publishedEvent{kind: "goal", id: id, userID: userID, status: status})
	return p.err
}

// fakeGoals keeps goals in memory and derives status the same way the
// SQLite store does.
type fakeGoals struct {
	goals  map[int64]*storage.GoalRecord
	nextID int64
	writes int
}

func newFakeGoals() *fakeGoals {
	return &fakeGoals{goals: map[int64]*storage.GoalRecord{}}
}

func (f *fakeGoals) owned(userID, goalID int64) (*storage.GoalRecord, error) {
	rec, ok := f.goals[goalID]
	if !ok || rec.Goal.UserID != userID {
		return nil, storage.ErrNotFound
	}
	return rec, nil
}

func (f *fakeGoals) recompute(rec *storage.GoalRecord) storage.StatusChange {
	to := core.DeriveStatus(len(rec.Requirements), core.CountDone(rec.Requirements))
	ch := storage.StatusChange{GoalID: rec.Goal.ID, UserID: rec.Goal.UserID, From: rec.Goal.Status, To: to}
	if to != rec.Goal.Status {
		rec.Goal.Status = to
		f.writes++
		ch.Changed = true
	}
	return ch
}

func (f *fakeGoals) addRequirements(rec *storage.GoalRecord, texts []string) {
	for _, t := range texts {
		f.nextID++
		rec.Requirements = append(rec.Requirements, core.Requirement{ID: 1000 + f.nextID, GoalID: rec.Goal.ID, Text: t})
	}
}

func (f *fakeGoals) CreateGoal(_ context.Context, g core.Goal, reqs []string) (core.Goal, storage.StatusChange, error) {
	g.ApplyDefaults()
	if err := g.Validate(); err != nil {
		return core.Goal{}, storage.StatusChange{}, err
	}
	f.nextID++
	g.ID = f.nextID
	rec := &storage.GoalRecord{Goal: g}
	f.addRequirements(rec, reqs)
	f.goals[g.ID] = rec
	ch := f.recompute(rec)
	return rec.Goal, ch, nil
}

func (f *fakeGoals) GoalByID(_ context.Context, userID, goalID int64) (storage.GoalRecord, error) {
	rec, err := f.owned(userID, goalID)
	if err != nil {
		return storage.GoalRecord{}, err
	}
	return *rec, nil
}

func (f *fakeGoals) ListGoals(_ context.Context, userID int64, flt storage.GoalFilter) ([]storage.GoalRecord, error) {
	var out []storage.GoalRecord
	for id := int64(1); id <= f.nextID; id++ {
		rec, ok := f.goals[id]
		if !ok || rec.Goal.UserID != userID {
			continue
		}
		if flt.Status != "" && rec.Goal.Status != flt.Status {
			continue
		}
		out = append(out, *rec)
	}
	return out, nil
}

func (f *fakeGoals) UpdateGoal(_ context.Context, userID int64, u storage.GoalUpdate) (core.Goal, storage.StatusChange, error) {
	rec, err := f.owned(userID, u.Goal.ID)
	if err != nil {
		return core.Goal{}, storage.StatusChange{}, err
	}
	g := u.Goal
	g.UserID = userID
	g.ApplyDefaults()
	if err := g.Validate(); err != nil {
		return core.Goal{}, storage.StatusChange{}, err
	}
	g.Status = rec.Goal.Status
	rec.Goal = g
	f.addRequirements(rec, u.NewRequirements)
	for i := range rec.Requirements {
		rec.Requirements[i].IsDone = u.Checked[rec.Requirements[i].ID]
	}
	ch := f.recompute(rec)
	return rec.Goal, ch, nil
}

func (f *fakeGoals) MarkGoalDone(_ context.Context, userID, goalID int64) (storage.StatusChange, error) {
	rec, err := f.owned(userID, goalID)
	if err != nil {
		return storage.StatusChange{}, err
	}
	for i := range rec.Requirements {
		rec.Requirements[i].IsDone = true
	}
	return f.recompute(rec), nil
}

func (f *fakeGoals) DeleteGoal(_ context.Context, userID, goalID int64) error {
	if _, err := f.owned(userID, goalID); err != nil {
		return err
	}
	delete(f.goals, goalID)
	return nil
}

func (f *fakeGoals) RecomputeStatus(_ context.Context, userID, goalID int64) (storage.StatusChange, error) {
	rec, err := f.owned(userID, goalID)
	if err != nil {
		return storage.StatusChange{}, err
	}
	return f.recompute(rec), nil
}

type fakeUsers struct {
	users []core.User
}

func (f *fakeUsers) CreateUser(_ context.Context, username, hash string) (core.User, error) {
	for _, u := range f.users {
		if strings.EqualFold(u.Username, username) {
			return core.User{}, storage.ErrDuplicate
		}
	}
	u := core.User{ID: int64(len(f.users) + 1), Username: username, PasswordHash: hash}
	f.users = append(f.users, u)
	return u, nil
}

func (f *fakeUsers) UserByUsername(_ context.Context, username string) (core.User, error) {
	for _, u := range f.users {
		if strings.EqualFold(u.Username, username) {
			return u, nil
		}
	}
	return core.User{}, storage.ErrNotFound
}

var errBoom = errors.New("boom")
