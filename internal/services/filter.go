package services

import (
	"strconv"
	"strings"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

// MonthLayout is the form the month filter is submitted in, e.g. "August 2025".
const MonthLayout = "January 2006"

// EntryFilter is the parsed ledger list filter. Only one of month, year or
// days applies; Applied names it.
type EntryFilter struct {
	Month   string
	Year    string
	Days    string
	Applied string
	Range   storage.DateRange
}

// ParseEntryFilter picks the first non-empty parameter among month, year and
// days, in that order. A value that does not parse leaves the list
// unfiltered; it never falls through to the next parameter.
func ParseEntryFilter(month, year, days string, today core.Date) EntryFilter {
	f := EntryFilter{
		Month: strings.TrimSpace(month),
		Year:  strings.TrimSpace(year),
		Days:  strings.TrimSpace(days),
	}

	switch {
	case f.Month != "":
		t, err := time.Parse(MonthLayout, f.Month)
		if err != nil {
			return f
		}
		first := core.NewDate(t.Year(), int(t.Month()), 1)
		f.Range = storage.DateRange{From: first, Until: core.Date{Time: first.AddDate(0, 1, -1)}}
		f.Applied = "month"

	case f.Year != "":
		y, err := strconv.Atoi(f.Year)
		if err != nil || y < 1 || y > 9999 {
			return f
		}
		f.Range = storage.DateRange{From: core.NewDate(y, 1, 1), Until: core.NewDate(y, 12, 31)}
		f.Applied = "year"

	case f.Days != "":
		n, err := strconv.Atoi(f.Days)
		if err != nil || n < 0 {
			return f
		}
		f.Range = storage.DateRange{From: core.Date{Time: today.AddDate(0, 0, -n)}}
		f.Applied = "days"
	}
	return f
}

// MonthOptions lists the last n months, newest first, in MonthLayout.
func MonthOptions(today core.Date, n int) []string {
	first := core.NewDate(today.Year(), int(today.Month()), 1)
	out := make([]string, n)
	for i := range out {
		out[i] = first.AddDate(0, -i, 0).Format(MonthLayout)
	}
	return out
}
