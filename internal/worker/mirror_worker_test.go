package worker

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/backend"
	"fintrack/internal/cache"
	"fintrack/internal/core"
	"fintrack/internal/sheets/memory"
	"fintrack/internal/storage"
)

type fakeSource struct {
	entries map[int64]core.LedgerEntry
	users   map[int64]core.User
	err     error
}

func (f *fakeSource) EntryByID(_ context.Context, id int64) (core.LedgerEntry, error) {
	if f.err != nil {
		return core.LedgerEntry{}, f.err
	}
	e, ok := f.entries[id]
	if !ok {
		return core.LedgerEntry{}, fmt.Errorf("get entry: %w", storage.ErrNotFound)
	}
	return e, nil
}

func (f *fakeSource) UserByID(_ context.Context, id int64) (core.User, error) {
	u, ok := f.users[id]
	if !ok {
		return core.User{}, storage.ErrNotFound
	}
	return u, nil
}

type failingWriter struct{ calls int }

func (w *failingWriter) AppendEntry(context.Context, core.LedgerEntry, string) (string, error) {
	w.calls++
	return "", errors.New("quota exceeded")
}

func newSource() *fakeSource {
	return &fakeSource{
		entries: map[int64]core.LedgerEntry{
			1: {ID: 1, UserID: 10, Date: core.NewDate(2025, 4, 2), Type: core.Credit, Amount: 500},
		},
		users: map[int64]core.User{10: {ID: 10, Username: "ada"}},
	}
}

func TestMirrorWorker_AppendsOnce(t *testing.T) {
	store := memory.New()
	w := NewMirrorWorker(newSource(), store, store)
	ctx := context.Background()
	ev := amqp.NewEntryCreated(1, 10)

	for i := 0; i < 2; i++ {
		if err := w.HandleEvent(ctx, ev); err != nil {
			t.Fatalf("HandleEvent #%d: %v", i, err)
		}
	}

	rows := store.Rows(2025)
	if len(rows) != 1 {
		t.Fatalf("expected a single mirrored row, got %d", len(rows))
	}
	if rows[0][7] != "ada" {
		t.Fatalf("owner = %v", rows[0][7])
	}
	if st := w.Stats(); st != (Stats{Mirrored: 1, Skipped: 1}) {
		t.Fatalf("stats = %+v", st)
	}
}

func TestMirrorWorker_CachedIndexSeesOwnAppends(t *testing.T) {
	store := memory.New()
	idx := backend.NewCachedIndex(store, cache.NewLRU[map[int64]bool](4, time.Hour))
	w := NewMirrorWorker(newSource(), store, idx)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := w.HandleEvent(ctx, amqp.NewEntryCreated(1, 10)); err != nil {
			t.Fatalf("HandleEvent #%d: %v", i, err)
		}
	}
	if rows := store.Rows(2025); len(rows) != 1 {
		t.Fatalf("expected a single mirrored row, got %d", len(rows))
	}
}

func TestMirrorWorker_MissingEntryIsAcked(t *testing.T) {
	store := memory.New()
	w := NewMirrorWorker(newSource(), store, store)

	if err := w.HandleEvent(context.Background(), amqp.NewEntryCreated(99, 10)); err != nil {
		t.Fatalf("missing entries should not requeue, got %v", err)
	}
}

func TestMirrorWorker_TransientErrorsRequeue(t *testing.T) {
	src := newSource()
	src.err = errors.New("database is locked")
	w := NewMirrorWorker(src, memory.New(), nil)
	if err := w.HandleEvent(context.Background(), amqp.NewEntryCreated(1, 10)); err == nil {
		t.Fatal("expected error so the message is requeued")
	}

	writer := &failingWriter{}
	w = NewMirrorWorker(newSource(), writer, nil)
	if err := w.HandleEvent(context.Background(), amqp.NewEntryCreated(1, 10)); err == nil {
		t.Fatal("expected writer error to propagate")
	}
	if writer.calls != 1 {
		t.Fatalf("writer calls = %d", writer.calls)
	}
	if st := w.Stats(); st.Failed != 1 || st.Mirrored != 0 {
		t.Fatalf("stats = %+v", st)
	}
}

func TestMirrorWorker_StatusEventsAreLogged(t *testing.T) {
	writer := &failingWriter{}
	w := NewMirrorWorker(newSource(), writer, nil)
	if err := w.HandleEvent(context.Background(), amqp.NewGoalStatusChanged(3, 10, "Done")); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	if writer.calls != 0 {
		t.Fatal("status events must not touch the sheet")
	}
}
