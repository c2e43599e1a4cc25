package core

import (
	"encoding/json"
	"testing"
)

func TestAggregateByCategory(t *testing.T) {
	entries := []LedgerEntry{
		{Type: Expense, Category: "fuel", Amount: 50},
		{Type: Expense, Category: "fuel", Amount: 30},
		{Type: Transfer, Category: "fuel", Amount: 20},
		{Type: Credit, Category: "fuel", Amount: 1000},
		{Type: Withdrawal, Category: "housing", Amount: 400},
		{Type: Expense, Category: "", Amount: 999},
		{Type: Expense, Category: "housing", Amount: 250},
		{Type: Expense, Category: "medical", Amount: 100},
	}
	got := AggregateByCategory(entries)
	want := []CategoryAmount{
		{Name: "housing", Amount: 250},
		{Name: "fuel", Amount: 100},
		{Name: "medical", Amount: 100},
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("row %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestChartIsJSONSerializable(t *testing.T) {
	c := Chart([]CategoryAmount{{Name: "fuel", Amount: 100}, {Name: "rent", Amount: 40}})
	b, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"categories":["fuel","rent"],"amounts":[100,40]}` {
		t.Fatalf("unexpected json %s", b)
	}

	empty, _ := json.Marshal(Chart(nil))
	if string(empty) != `{"categories":[],"amounts":[]}` {
		t.Fatalf("empty chart should encode empty arrays, got %s", empty)
	}
}
