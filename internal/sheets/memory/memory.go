// Package memory keeps mirrored ledger rows in process. The worker falls back
// to it when no spreadsheet is configured, and tests use it as a fake.
package memory

import (
	"context"
	"fmt"
	"sync"

	"fintrack/internal/core"
	ports "fintrack/internal/sheets"
)

type Store struct {
	mu   sync.Mutex
	rows map[int][][]any
	ids  map[int]map[int64]bool
}

var (
	_ ports.EntryWriter = (*Store)(nil)
	_ ports.MirrorIndex = (*Store)(nil)
)

func New() *Store {
	return &Store{rows: map[int][][]any{}, ids: map[int]map[int64]bool{}}
}

// AppendEntry stores the row and returns a synthetic row reference.
func (s *Store) AppendEntry(_ context.Context, e core.LedgerEntry, owner string) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}
	year := e.Date.Year()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[year] = append(s.rows[year], ports.Row(e, owner))
	if s.ids[year] == nil {
		s.ids[year] = map[int64]bool{}
	}
	s.ids[year][e.ID] = true
	return fmt.Sprintf("mem:%d:%d", year, len(s.rows[year])), nil
}

func (s *Store) MirroredIDs(_ context.Context, year int) (map[int64]bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[int64]bool, len(s.ids[year]))
	for id := range s.ids[year] {
		out[id] = true
	}
	return out, nil
}

// Rows returns a copy of the rows mirrored for year.
func (s *Store) Rows(year int) [][]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]any(nil), s.rows[year]...)
}
