package storage

import (
	"database/sql"
	"fmt"
	"time"

	"fintrack/internal/core"
)

const dateLayout = "2006-01-02"

func parseDate(s string) (core.Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return core.Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return core.Date{Time: t}, nil
}

func nullDate(d core.Date) sql.NullString {
	if d.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}

func toCoreUser(u User) core.User {
	return core.User{
		ID:           u.ID,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
	}
}

func toCoreEntry(e LedgerEntry) (core.LedgerEntry, error) {
	d, err := parseDate(e.EntryDate)
	if err != nil {
		return core.LedgerEntry{}, err
	}
	return core.LedgerEntry{
		ID:          e.ID,
		UserID:      e.UserID,
		Date:        d,
		Type:        core.TransactionType(e.TransactionType),
		ItemService: e.ItemService,
		Category:    e.Category,
		Amount:      e.Amount,
		Note:        e.Note,
		CreatedAt:   e.CreatedAt,
	}, nil
}

func toCoreEntries(rows []LedgerEntry) ([]core.LedgerEntry, error) {
	out := make([]core.LedgerEntry, 0, len(rows))
	for _, row := range rows {
		e, err := toCoreEntry(row)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func toCoreGoal(g Goal) (core.Goal, error) {
	out := core.Goal{
		ID:        g.ID,
		UserID:    g.UserID,
		Title:     g.Title,
		Objective: g.Objective,
		Category:  g.Category,
		Priority:  core.Priority(g.Priority),
		Status:    core.GoalStatus(g.Status),
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}
	if g.TargetDate.Valid && g.TargetDate.String != "" {
		d, err := parseDate(g.TargetDate.String)
		if err != nil {
			return core.Goal{}, err
		}
		out.TargetDate = d
	}
	return out, nil
}

func toCoreRequirements(rows []Requirement) []core.Requirement {
	out := make([]core.Requirement, len(rows))
	for i, r := range rows {
		out[i] = core.Requirement{ID: r.ID, GoalID: r.GoalID, Text: r.Text, IsDone: r.IsDone}
	}
	return out
}
