package core

import (
	"errors"
	"strings"
	"testing"
)

func TestTransactionTypeValidate(t *testing.T) {
	for _, tt := range TransactionTypes {
		if err := tt.Validate(); err != nil {
			t.Fatalf("%s expected ok, got %v", tt, err)
		}
	}
	if err := TransactionType("Refund").Validate(); !errors.Is(err, ErrInvalidType) {
		t.Fatalf("expected ErrInvalidType, got %v", err)
	}
}

func TestLedgerEntryValidate(t *testing.T) {
	good := LedgerEntry{
		Date:        NewDate(2025, 8, 1),
		Type:        Expense,
		ItemService: "petrol",
		Category:    "fuel",
		Amount:      50,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	noCategory := good
	noCategory.Category = ""
	if err := noCategory.Validate(); err != nil {
		t.Fatalf("empty category should be accepted, got %v", err)
	}

	cases := []struct {
		name  string
		mut   func(*LedgerEntry)
		field string
	}{
		{"zero date", func(e *LedgerEntry) { e.Date = Date{} }, "date"},
		{"bad type", func(e *LedgerEntry) { e.Type = "Loan" }, "transaction_type"},
		{"zero amount", func(e *LedgerEntry) { e.Amount = 0 }, "amount"},
		{"negative amount", func(e *LedgerEntry) { e.Amount = -5 }, "amount"},
		{"amount too large", func(e *LedgerEntry) { e.Amount = MaxAmount + 1 }, "amount"},
		{"unknown category", func(e *LedgerEntry) { e.Category = "yachts" }, "category"},
		{"long item", func(e *LedgerEntry) { e.ItemService = strings.Repeat("x", 101) }, "item_service"},
		{"long note", func(e *LedgerEntry) { e.Note = strings.Repeat("x", 201) }, "note"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := good
			tc.mut(&e)
			err := e.Validate()
			var verrs ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("expected ValidationErrors, got %v", err)
			}
			if _, ok := verrs[tc.field]; !ok {
				t.Fatalf("expected error on %q, got %v", tc.field, verrs)
			}
		})
	}
}

func TestValidationErrorsMessageIsStable(t *testing.T) {
	v := ValidationErrors{}
	v.Add("title", "required")
	v.Add("amount", "bad")
	v.Add("amount", "ignored")
	want := "validation failed: amount: bad; title: required"
	if v.Error() != want {
		t.Fatalf("got %q, want %q", v.Error(), want)
	}
	if (ValidationErrors{}).OrNil() != nil {
		t.Fatal("empty ValidationErrors should be nil")
	}
}

func TestGoalValidate(t *testing.T) {
	g := Goal{Title: "Open a fashion school"}
	g.ApplyDefaults()
	if g.Category != DefaultGoalCategory || g.Priority != PriorityMedium || g.Status != StatusNotStarted {
		t.Fatalf("defaults not applied: %+v", g)
	}
	if err := g.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bad := Goal{Title: "  ", Category: "Sports", Priority: "Urgent", Status: "Paused"}
	var verrs ValidationErrors
	if !errors.As(bad.Validate(), &verrs) {
		t.Fatal("expected validation errors")
	}
	for _, f := range []string{"title", "category", "priority", "status"} {
		if _, ok := verrs[f]; !ok {
			t.Errorf("missing error for %s", f)
		}
	}
}

func TestGoalTitleLimitCountsCharacters(t *testing.T) {
	g := Goal{Title: strings.Repeat("é", 200)}
	g.ApplyDefaults()
	if err := g.Validate(); err != nil {
		t.Fatalf("200 two-byte characters should fit, got %v", err)
	}

	g.Title += "é"
	var verrs ValidationErrors
	if !errors.As(g.Validate(), &verrs) || verrs["title"] == "" {
		t.Fatalf("expected a title error for 201 characters, got %v", g.Validate())
	}
}

func TestValidateSignup(t *testing.T) {
	if err := ValidateSignup("ada.l", "correct horse", "correct horse"); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name, user, pass, confirm, field string
	}{
		{"short username", "ab", "password1", "password1", "username"},
		{"bad chars", "ada lovelace", "password1", "password1", "username"},
		{"short password", "ada", "short", "short", "password"},
		{"long password", "ada", strings.Repeat("p", 73), strings.Repeat("p", 73), "password"},
		{"mismatch", "ada", "password1", "password2", "confirm"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var verrs ValidationErrors
			if !errors.As(ValidateSignup(tc.user, tc.pass, tc.confirm), &verrs) {
				t.Fatal("expected validation errors")
			}
			if _, ok := verrs[tc.field]; !ok {
				t.Fatalf("expected error on %s, got %v", tc.field, verrs)
			}
		})
	}
}
