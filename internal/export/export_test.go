package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"fintrack/internal/core"
)

func sampleRows() ([]core.BalancedEntry, []core.CategoryAmount) {
	entries := []core.LedgerEntry{
		{ID: 3, Date: core.NewDate(2025, 8, 3), Type: core.Expense, ItemService: "Diesel", Category: "fuel", Amount: 40},
		{ID: 2, Date: core.NewDate(2025, 8, 2), Type: core.Withdrawal, Amount: 100},
		{ID: 1, Date: core.NewDate(2025, 8, 1), Type: core.Credit, ItemService: "Salary", Amount: 5000},
	}
	return core.Reconcile(entries), core.AggregateByCategory(entries)
}

func TestWorkbook(t *testing.T) {
	rows, totals := sampleRows()
	var buf bytes.Buffer
	if err := Workbook(&buf, rows, totals); err != nil {
		t.Fatalf("Workbook: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	got, err := f.GetRows(LedgerSheet)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("expected header and 3 rows, got %d", len(got))
	}
	if got[0][0] != "Date" || got[1][0] != "2025-08-03" || got[1][2] != "Diesel" {
		t.Errorf("unexpected first rows %v", got[:2])
	}
	if got[1][5] != "-40" {
		t.Errorf("bank balance after expense = %q, want -40", got[1][5])
	}

	cats, err := f.GetRows(CategorySheet)
	if err != nil {
		t.Fatalf("GetRows categories: %v", err)
	}
	if len(cats) != 2 || cats[1][0] != "fuel" || cats[1][1] != "40" {
		t.Errorf("unexpected category rows %v", cats)
	}
}

func TestStatement(t *testing.T) {
	rows, totals := sampleRows()
	var buf bytes.Buffer
	info := StatementInfo{Username: "ada", Period: "August 2025", GeneratedAt: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)}
	if err := Statement(&buf, info, rows, totals); err != nil {
		t.Fatalf("Statement: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "%PDF-") {
		t.Fatalf("output is not a PDF")
	}
}

func TestStatementEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Statement(&buf, StatementInfo{Username: "ada"}, nil, nil); err != nil {
		t.Fatalf("Statement: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("expected output")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("abcdefghij", 5); got != "abcd..." {
		t.Errorf("truncate = %q", got)
	}
}
