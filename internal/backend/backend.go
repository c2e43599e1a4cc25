// Package backend builds the destination the worker mirrors ledger entries
// into.
package backend

import (
	"fintrack/internal/sheets"
)

// Type names a mirror destination.
type Type string

const (
	SheetsBackend Type = "sheets"
	MemoryBackend Type = "memory"
)

func (t Type) String() string {
	return string(t)
}

func (t Type) IsValid() bool {
	switch t {
	case SheetsBackend, MemoryBackend:
		return true
	}
	return false
}

// Types returns every valid backend type.
func Types() []Type {
	return []Type{SheetsBackend, MemoryBackend}
}

// Sink is where mirrored rows go and how already-mirrored ids are found.
type Sink struct {
	Type   Type
	Writer sheets.EntryWriter
	Index  sheets.MirrorIndex
}
