package core

import (
	"errors"
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	Credit     TransactionType = "Credit"
	Withdrawal TransactionType = "Withdrawal"
	Transfer   TransactionType = "Transfer"
	Expense    TransactionType = "Expense"
)

// MaxAmount mirrors the small-integer column the ledger was designed around.
const MaxAmount = 32767

type (
	TransactionType string

	Date struct {
		time.Time
	}

	// LedgerEntry is one recorded financial transaction owned by a user.
	LedgerEntry struct {
		ID          int64
		UserID      int64
		Date        Date
		Type        TransactionType
		ItemService string
		Category    string // empty or one of LedgerCategories
		Amount      int64
		Note        string
		CreatedAt   time.Time
	}

	// Choice is a stored value paired with its display label.
	Choice struct {
		Value string
		Label string
	}
)

var (
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidType     = errors.New("invalid transaction type")
	ErrInvalidAmount   = errors.New("amount must be a positive whole number")
	ErrInvalidCategory = errors.New("invalid category")
)

// TransactionTypes lists the accepted types in form order.
var TransactionTypes = []TransactionType{Credit, Withdrawal, Transfer, Expense}

// LedgerCategories are the spending categories offered on the entry form.
var LedgerCategories = []Choice{
	{"groceries", "Groceries (raw food: rice, yam, meat, tomatoes, fruits, etc.)"},
	{"eat_out", "Eating Out / Restaurants"},
	{"fuel", "Fuel"},
	{"transport", "Transport"},
	{"airtime/Data", "Airtime/Data"},
	{"utilities", "Utilities (Bills)"},
	{"Extd Family", "Family(Parents, Siblings etc)"},
	{"gifts/Donations", "Gifts/Donations"},
	{"personal", "Personal (Haircut, Gym, etc)"},
	{"household", "Household items/supplies"},
	{"entertainment", "Entertainment (Alcohol, club, etc)"},
	{"spouse", "Spouse"},
	{"girl/boyfriend", "Girlfriend/Boyfriend"},
	{"clothing", "Clothing"},
	{"education", "Education"},
	{"vacation", "Vacation"},
	{"medical", "Medical/Healthcare"},
	{"child care/family", "ChildCare/Family Support"},
	{"housing", "Housing"},
	{"car repair", "Car Repair/Maintenance"},
	{"savings/Investment", "Savings/Investment"},
	{"emergency/unexpected", "Emergency/Unexpected"},
	{"miscellaneous", "Miscellaneous"},
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current date truncated to midnight UTC.
func Today() Date {
	now := time.Now()
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format("2006-01-02")
}

func (t TransactionType) Validate() error {
	switch t {
	case Credit, Withdrawal, Transfer, Expense:
		return nil
	}
	return ErrInvalidType
}

// IsValidLedgerCategory reports whether c is empty or a known category.
func IsValidLedgerCategory(c string) bool {
	if c == "" {
		return true
	}
	for _, choice := range LedgerCategories {
		if choice.Value == c {
			return true
		}
	}
	return false
}

// Validate checks an entry before it is stored. Field problems are returned
// together as ValidationErrors.
func (e LedgerEntry) Validate() error {
	errs := ValidationErrors{}
	if e.Date.IsZero() {
		errs.Add("date", ErrInvalidDate.Error())
	}
	if err := e.Type.Validate(); err != nil {
		errs.Add("transaction_type", err.Error())
	}
	if utf8.RuneCountInString(e.ItemService) > 100 {
		errs.Add("item_service", "item/service too long (max 100 characters)")
	}
	if !IsValidLedgerCategory(e.Category) {
		errs.Add("category", ErrInvalidCategory.Error())
	}
	if e.Amount <= 0 || e.Amount > MaxAmount {
		errs.Add("amount", ErrInvalidAmount.Error())
	}
	if utf8.RuneCountInString(e.Note) > 200 {
		errs.Add("note", "note too long (max 200 characters)")
	}
	return errs.OrNil()
}

// ValidationErrors maps a form field name to a human readable message.
type ValidationErrors map[string]string

func (v ValidationErrors) Add(field, msg string) {
	if _, exists := v[field]; !exists {
		v[field] = msg
	}
}

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for field := range v {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(v))
	for _, field := range fields {
		parts = append(parts, field+": "+v[field])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// OrNil returns nil when no field failed.
func (v ValidationErrors) OrNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}
