package export

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/phpdave11/gofpdf"

	"fintrack/internal/core"
)

const PDFContentType = "application/pdf"

// maxStatementRows caps the rendered rows; larger listings belong in the
// workbook.
const maxStatementRows = 500

var (
	statementCols   = []float64{22, 22, 50, 32, 18, 20, 18}
	statementHeader = []string{"Date", "Type", "Item/Service", "Category", "Amount", "Bank", "Cash"}
)

// StatementInfo labels the statement header.
type StatementInfo struct {
	Username    string
	Period      string // e.g. "August 2025", empty for all entries
	GeneratedAt time.Time
}

// Statement writes an A4 PDF listing the rows with their running balances,
// followed by the closing balances and category totals.
func Statement(w io.Writer, info StatementInfo, rows []core.BalancedEntry, totals []core.CategoryAmount) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(14, 14, 14)
	pdf.SetAutoPageBreak(true, 16)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	period := info.Period
	if period == "" {
		period = "All entries"
	}

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "Ledger Statement")
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(80, 80, 80)
	pdf.Cell(0, 6, tr("Account: "+info.Username))
	pdf.Ln(5)
	pdf.Cell(0, 6, tr("Period: "+period))
	pdf.Ln(10)

	var bank, cash int64
	if n := len(rows); n > 0 {
		bank, cash = rows[n-1].BankBalance, rows[n-1].CashBalance
	}
	pdf.SetTextColor(20, 20, 20)
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetFillColor(248, 248, 248)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(60, 9, "Entries", "1", 0, "C", true, 0, "")
	pdf.CellFormat(60, 9, "Bank Balance", "1", 0, "C", true, 0, "")
	pdf.CellFormat(62, 9, "Cash Balance", "1", 1, "C", true, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(60, 9, humanize.Comma(int64(len(rows))), "1", 0, "C", false, 0, "")
	pdf.CellFormat(60, 9, humanize.Comma(bank), "1", 0, "C", false, 0, "")
	pdf.CellFormat(62, 9, humanize.Comma(cash), "1", 1, "C", false, 0, "")
	pdf.Ln(6)

	header := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(245, 245, 245)
		for i, h := range statementHeader {
			pdf.CellFormat(statementCols[i], 7, h, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 8)
	}
	header()

	for i, r := range rows {
		if i >= maxStatementRows {
			pdf.SetFont("Helvetica", "I", 8)
			pdf.CellFormat(0, 7, fmt.Sprintf("%d more rows omitted", len(rows)-maxStatementRows), "1", 1, "C", false, 0, "")
			break
		}
		if pdf.GetY() > 270 {
			pdf.AddPage()
			header()
		}
		cells := []string{
			r.Date.String(),
			string(r.Type),
			truncate(r.ItemService, 30),
			truncate(r.Category, 18),
			humanize.Comma(r.Amount),
			humanize.Comma(r.BankBalance),
			humanize.Comma(r.CashBalance),
		}
		for c, v := range cells {
			align := "L"
			if c >= 4 {
				align = "R"
			}
			pdf.CellFormat(statementCols[c], 6, tr(v), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	if len(totals) > 0 {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.Cell(0, 8, "Spending by category")
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 9)
		for _, t := range totals {
			pdf.CellFormat(80, 6, tr(t.Name), "1", 0, "L", false, 0, "")
			pdf.CellFormat(40, 6, humanize.Comma(t.Amount), "1", 1, "R", false, 0, "")
		}
	}

	generated := info.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}
	pdf.SetY(-16)
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 8, "Generated "+generated.UTC().Format(time.RFC3339), "", 0, "C", false, 0, "")

	return pdf.Output(w)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "..."
}
