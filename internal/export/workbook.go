// Package export renders ledger listings as downloadable files.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"fintrack/internal/core"
)

const (
	LedgerSheet   = "Ledger"
	CategorySheet = "Categories"

	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var ledgerHeader = []any{"Date", "Type", "Item/Service", "Category", "Amount", "Bank Balance", "Cash Balance", "Note"}

// Workbook writes the reconciled rows and the category totals as an XLSX
// file with one sheet each.
func Workbook(w io.Writer, rows []core.BalancedEntry, totals []core.CategoryAmount) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", LedgerSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(LedgerSheet, "A1", &ledgerHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		values := []any{
			r.Date.String(),
			string(r.Type),
			r.ItemService,
			r.Category,
			r.Amount,
			r.BankBalance,
			r.CashBalance,
			r.Note,
		}
		if err := f.SetSheetRow(LedgerSheet, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	widths := map[string]float64{"A": 12, "B": 12, "C": 28, "D": 20, "E": 10, "F": 14, "G": 14, "H": 36}
	for col, width := range widths {
		if err := f.SetColWidth(LedgerSheet, col, col, width); err != nil {
			return fmt.Errorf("set width %s: %w", col, err)
		}
	}

	if _, err := f.NewSheet(CategorySheet); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	if err := f.SetSheetRow(CategorySheet, "A1", &[]any{"Category", "Total"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, t := range totals {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(CategorySheet, cell, &[]any{t.Name, t.Amount}); err != nil {
			return fmt.Errorf("write total %d: %w", i+2, err)
		}
	}
	if err := f.SetColWidth(CategorySheet, "A", "A", 24); err != nil {
		return fmt.Errorf("set width: %w", err)
	}

	return f.Write(w)
}
