package storage

import (
	"database/sql"
	"time"
)

type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

type LedgerEntry struct {
	ID              int64
	UserID          int64
	EntryDate       string
	TransactionType string
	ItemService     string
	Category        string
	Amount          int64
	Note            string
	CreatedAt       time.Time
}

type Goal struct {
	ID         int64
	UserID     int64
	Title      string
	Objective  string
	Category   string
	Priority   string
	Status     string
	TargetDate sql.NullString
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Requirement struct {
	ID     int64
	GoalID int64
	Text   string
	IsDone bool
}

type CategoryTotalsRow struct {
	Category string
	Total    int64
}

type CountRequirementsRow struct {
	Total int64
	Done  int64
}
