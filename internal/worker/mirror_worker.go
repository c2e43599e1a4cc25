package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/sheets"
	"fintrack/internal/storage"
)

// EntrySource loads the records an event refers to.
type EntrySource interface {
	EntryByID(ctx context.Context, id int64) (core.LedgerEntry, error)
	UserByID(ctx context.Context, id int64) (core.User, error)
}

// MirrorWorker copies newly created ledger entries into a spreadsheet.
type MirrorWorker struct {
	source EntrySource
	writer sheets.EntryWriter
	index  sheets.MirrorIndex

	mirrored atomic.Int64
	skipped  atomic.Int64
	failed   atomic.Int64
}

// Stats counts entry events by outcome since the worker started.
type Stats struct {
	Mirrored int64
	Skipped  int64
	Failed   int64
}

func (w *MirrorWorker) Stats() Stats {
	return Stats{
		Mirrored: w.mirrored.Load(),
		Skipped:  w.skipped.Load(),
		Failed:   w.failed.Load(),
	}
}

// NewMirrorWorker builds a worker. index may be nil, in which case
// redelivered events can produce duplicate rows.
func NewMirrorWorker(source EntrySource, writer sheets.EntryWriter, index sheets.MirrorIndex) *MirrorWorker {
	return &MirrorWorker{source: source, writer: writer, index: index}
}

// HandleEvent is the AMQP consumer callback. A returned error requeues the
// message, so permanent failures are logged and swallowed.
func (w *MirrorWorker) HandleEvent(ctx context.Context, ev *amqp.ActivityEvent) error {
	switch ev.Type {
	case amqp.EntryCreated:
		mirrored, err := w.mirrorEntry(ctx, ev)
		switch {
		case err != nil:
			w.failed.Add(1)
		case mirrored:
			w.mirrored.Add(1)
		default:
			w.skipped.Add(1)
		}
		return err
	case amqp.GoalStatusChanged:
		slog.InfoContext(ctx, "Goal status changed",
			"goal_id", ev.ID,
			"user_id", ev.UserID,
			"status", ev.Status,
			"at", ev.Timestamp)
		return nil
	default:
		slog.WarnContext(ctx, "Ignoring unknown event", "type", ev.Type, "id", ev.ID)
		return nil
	}
}

// rememberer is implemented by indexes that cache mirrored ids.
type rememberer interface {
	Remember(year int, id int64)
}

// mirrorEntry reports whether a row was appended.
func (w *MirrorWorker) mirrorEntry(ctx context.Context, ev *amqp.ActivityEvent) (bool, error) {
	entry, err := w.source.EntryByID(ctx, ev.ID)
	if errors.Is(err, storage.ErrNotFound) {
		slog.WarnContext(ctx, "Entry no longer exists, skipping mirror", "id", ev.ID)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load entry %d: %w", ev.ID, err)
	}

	if w.index != nil {
		ids, err := w.index.MirroredIDs(ctx, entry.Date.Year())
		if err != nil {
			return false, fmt.Errorf("read mirrored ids: %w", err)
		}
		if ids[entry.ID] {
			slog.DebugContext(ctx, "Entry already mirrored", "id", entry.ID)
			return false, nil
		}
	}

	owner := ""
	if u, err := w.source.UserByID(ctx, entry.UserID); err == nil {
		owner = u.Username
	} else {
		slog.WarnContext(ctx, "Could not resolve entry owner", "id", entry.ID, "user_id", entry.UserID, "error", err)
	}

	ref, err := w.writer.AppendEntry(ctx, entry, owner)
	if err != nil {
		var verrs core.ValidationErrors
		if errors.As(err, &verrs) {
			slog.ErrorContext(ctx, "Stored entry fails validation, not mirrored", "id", entry.ID, "error", err)
			return false, nil
		}
		return false, fmt.Errorf("append entry %d: %w", entry.ID, err)
	}
	if r, ok := w.index.(rememberer); ok {
		r.Remember(entry.Date.Year(), entry.ID)
	}

	slog.InfoContext(ctx, "Mirrored ledger entry",
		"id", entry.ID,
		"ref", ref,
		"amount", entry.Amount,
		"type", entry.Type)
	return true, nil
}
