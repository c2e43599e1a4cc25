package core

// BalancedEntry is a ledger entry together with the running totals observed
// right after it was applied.
type BalancedEntry struct {
	LedgerEntry
	BankBalance int64
	CashBalance int64
}

// Reconcile replays entries in the given order and snapshots the running bank
// and cash balances onto each row.
//
// Withdrawals move money from the bank into cash. Expenses are paid from cash
// when there is enough of it, otherwise from the bank. Nothing prevents the
// bank balance from going negative; an overdraft is reported as is.
func Reconcile(entries []LedgerEntry) []BalancedEntry {
	out := make([]BalancedEntry, len(entries))
	var cash, balance int64
	for i, e := range entries {
		switch e.Type {
		case Credit:
			balance += e.Amount
		case Withdrawal:
			balance -= e.Amount
			cash += e.Amount
		case Transfer:
			balance -= e.Amount
		case Expense:
			if cash >= e.Amount {
				cash -= e.Amount
			} else {
				balance -= e.Amount
			}
		}
		out[i] = BalancedEntry{LedgerEntry: e, BankBalance: balance, CashBalance: cash}
	}
	return out
}
