package memory

import (
	"context"
	"testing"

	"fintrack/internal/core"
)

func TestStoreAppendAndIndex(t *testing.T) {
	s := New()
	ctx := context.Background()
	e := core.LedgerEntry{ID: 7, Date: core.NewDate(2025, 3, 4), Type: core.Expense, Category: "fuel", Amount: 25}

	ref, err := s.AppendEntry(ctx, e, "ada")
	if err != nil {
		t.Fatalf("AppendEntry: %v", err)
	}
	if ref != "mem:2025:1" {
		t.Errorf("ref = %q", ref)
	}

	rows := s.Rows(2025)
	if len(rows) != 1 || rows[0][0] != int64(7) || rows[0][1] != "2025-03-04" || rows[0][7] != "ada" {
		t.Fatalf("unexpected rows %v", rows)
	}

	ids, _ := s.MirroredIDs(ctx, 2025)
	if !ids[7] {
		t.Fatal("id 7 should be indexed")
	}
	if ids, _ := s.MirroredIDs(ctx, 2024); len(ids) != 0 {
		t.Fatal("other years should be empty")
	}

	if _, err := s.AppendEntry(ctx, core.LedgerEntry{ID: 8}, "ada"); err == nil {
		t.Fatal("invalid entries must be rejected")
	}
}
