package core

import "testing"

func entry(tt TransactionType, amount int64) LedgerEntry {
	return LedgerEntry{Date: NewDate(2025, 1, 1), Type: tt, Amount: amount}
}

func TestReconcileRules(t *testing.T) {
	entries := []LedgerEntry{
		entry(Credit, 1000),    // bank 1000, cash 0
		entry(Withdrawal, 200), // bank 800, cash 200
		entry(Expense, 150),    // paid from cash: bank 800, cash 50
		entry(Expense, 80),     // cash short: bank 720, cash 50
		entry(Transfer, 100),   // bank 620, cash 50
		entry(Expense, 50),     // exactly the cash: bank 620, cash 0
	}
	want := []struct{ bank, cash int64 }{
		{1000, 0},
		{800, 200},
		{800, 50},
		{720, 50},
		{620, 50},
		{620, 0},
	}

	got := Reconcile(entries)
	if len(got) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(got))
	}
	for i, w := range want {
		if got[i].BankBalance != w.bank || got[i].CashBalance != w.cash {
			t.Errorf("row %d (%s %d): got bank=%d cash=%d, want bank=%d cash=%d",
				i, got[i].Type, got[i].Amount, got[i].BankBalance, got[i].CashBalance, w.bank, w.cash)
		}
	}
}

func TestReconcileStepProperties(t *testing.T) {
	seq := []LedgerEntry{
		entry(Credit, 300), entry(Expense, 20), entry(Withdrawal, 40),
		entry(Expense, 10), entry(Transfer, 5), entry(Expense, 500),
		entry(Withdrawal, 7), entry(Credit, 9),
	}
	rows := Reconcile(seq)
	var prevBank, prevCash int64
	for i, r := range rows {
		a := r.Amount
		switch r.Type {
		case Credit:
			if r.BankBalance != prevBank+a || r.CashBalance != prevCash {
				t.Errorf("row %d credit broke invariant", i)
			}
		case Withdrawal:
			if r.BankBalance != prevBank-a || r.CashBalance != prevCash+a {
				t.Errorf("row %d withdrawal broke invariant", i)
			}
		case Transfer:
			if r.BankBalance != prevBank-a || r.CashBalance != prevCash {
				t.Errorf("row %d transfer broke invariant", i)
			}
		case Expense:
			if prevCash >= a {
				if r.CashBalance != prevCash-a || r.BankBalance != prevBank {
					t.Errorf("row %d expense should be paid from cash", i)
				}
			} else if r.BankBalance != prevBank-a || r.CashBalance != prevCash {
				t.Errorf("row %d expense should be paid from bank", i)
			}
		}
		prevBank, prevCash = r.BankBalance, r.CashBalance
	}
}

func TestReconcileAllowsOverdraft(t *testing.T) {
	rows := Reconcile([]LedgerEntry{entry(Expense, 40)})
	if rows[0].BankBalance != -40 || rows[0].CashBalance != 0 {
		t.Fatalf("expected overdraft to -40, got bank=%d cash=%d", rows[0].BankBalance, rows[0].CashBalance)
	}
}

func TestReconcileEmpty(t *testing.T) {
	if rows := Reconcile(nil); len(rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(rows))
	}
}
