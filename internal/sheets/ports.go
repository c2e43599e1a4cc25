package sheets

import (
	"context"

	"fintrack/internal/core"
)

// Ports for outbound adapters.
type (
	// EntryWriter mirrors a ledger entry as one spreadsheet row.
	EntryWriter interface {
		AppendEntry(ctx context.Context, e core.LedgerEntry, owner string) (rowRef string, err error)
	}

	// MirrorIndex reports which entries of a year were already mirrored so a
	// redelivered event does not produce a duplicate row.
	MirrorIndex interface {
		MirroredIDs(ctx context.Context, year int) (map[int64]bool, error)
	}
)

// Header is the column layout of a mirrored ledger sheet.
var Header = []string{"ID", "Date", "Type", "Item/Service", "Category", "Amount", "Note", "User"}

// Row renders an entry in Header order.
func Row(e core.LedgerEntry, owner string) []any {
	return []any{e.ID, e.Date.String(), string(e.Type), e.ItemService, e.Category, e.Amount, e.Note, owner}
}
