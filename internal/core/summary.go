package core

import "sort"

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount int64
}

// CategoryChart holds parallel, JSON-friendly arrays for the spending chart.
type CategoryChart struct {
	Categories []string  `json:"categories"`
	Amounts    []float64 `json:"amounts"`
}

// CountsTowardSpending reports whether an entry belongs in category totals:
// only expenses and transfers that carry a category.
func CountsTowardSpending(e LedgerEntry) bool {
	return (e.Type == Expense || e.Type == Transfer) && e.Category != ""
}

// AggregateByCategory sums spending per category, largest total first.
func AggregateByCategory(entries []LedgerEntry) []CategoryAmount {
	sums := make(map[string]int64)
	for _, e := range entries {
		if !CountsTowardSpending(e) {
			continue
		}
		sums[e.Category] += e.Amount
	}
	out := make([]CategoryAmount, 0, len(sums))
	for name, amount := range sums {
		out = append(out, CategoryAmount{Name: name, Amount: amount})
	}
	SortCategoryAmounts(out)
	return out
}

// SortCategoryAmounts orders by amount descending, then by name.
func SortCategoryAmounts(rows []CategoryAmount) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Amount != rows[j].Amount {
			return rows[i].Amount > rows[j].Amount
		}
		return rows[i].Name < rows[j].Name
	})
}

// Chart converts totals into the arrays consumed by the chart script.
func Chart(totals []CategoryAmount) CategoryChart {
	c := CategoryChart{
		Categories: make([]string, len(totals)),
		Amounts:    make([]float64, len(totals)),
	}
	for i, t := range totals {
		c.Categories[i] = t.Name
		c.Amounts[i] = float64(t.Amount)
	}
	return c
}
