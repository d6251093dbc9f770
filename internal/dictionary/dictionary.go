// Package dictionary translates between numeric identifiers and names.
//
// Lookup is the capability the remapping step consumes; Table is the in-memory
// implementation loaded from LST files, and core/db provides a SQL-backed one.
package dictionary

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/solatis/craftbook/internal/logic"
	"github.com/solatis/craftbook/internal/types"
)

// Lookup resolves identifiers within a namespace.
// Both methods fail with an error wrapping types.ErrIdentifierNotFound.
type Lookup interface {
	NameOf(id uint32, meaning types.Meaning) (string, error)
	IDOf(name string, meaning types.Meaning) (uint32, error)
}

// Entry is one (id, name) pair of a namespace.
type Entry struct {
	ID   uint32
	Name string
}

// Table is an in-memory Lookup. Not safe for concurrent mutation; safe for
// concurrent reads once loading is finished.
type Table struct {
	names map[types.Meaning]map[uint32]string
	ids   map[types.Meaning]map[string]uint32
}

var _ Lookup = (*Table)(nil)

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{
		names: make(map[types.Meaning]map[uint32]string),
		ids:   make(map[types.Meaning]map[string]uint32),
	}
}

// Add records one entry. Re-adding an identical entry is a no-op; reusing an
// id or a name for something else is an error.
func (t *Table) Add(meaning types.Meaning, id uint32, name string) error {
	if name == "" {
		return fmt.Errorf("empty name for %s id %d", meaning, id)
	}
	names, ids := t.names[meaning], t.ids[meaning]
	if names == nil {
		names, ids = make(map[uint32]string), make(map[string]uint32)
		t.names[meaning], t.ids[meaning] = names, ids
	}
	if existing, ok := names[id]; ok && existing != name {
		return fmt.Errorf("%s id %d already names %q, cannot rename to %q", meaning, id, existing, name)
	}
	if existing, ok := ids[name]; ok && existing != id {
		return fmt.Errorf("%s name %q already has id %d, cannot reassign to %d", meaning, name, existing, id)
	}
	names[id] = name
	ids[name] = id
	return nil
}

// AddAll records entries in order, stopping at the first conflict.
func (t *Table) AddAll(meaning types.Meaning, entries []Entry) error {
	for _, e := range entries {
		if err := t.Add(meaning, e.ID, e.Name); err != nil {
			return err
		}
	}
	return nil
}

// NameOf returns the name filed under id.
func (t *Table) NameOf(id uint32, meaning types.Meaning) (string, error) {
	name, ok := t.names[meaning][id]
	if !ok {
		return "", &types.NotFoundError{Key: fmt.Sprint(id), Meaning: meaning}
	}
	return name, nil
}

// IDOf returns the id filed under name.
func (t *Table) IDOf(name string, meaning types.Meaning) (uint32, error) {
	id, ok := t.ids[meaning][name]
	if !ok {
		return 0, &types.NotFoundError{Key: name, Meaning: meaning}
	}
	return id, nil
}

// Len returns the number of entries in a namespace.
func (t *Table) Len(meaning types.Meaning) int {
	return len(t.names[meaning])
}

// Entries returns a namespace's entries ordered by id.
func (t *Table) Entries(meaning types.Meaning) []Entry {
	entries := make([]Entry, 0, len(t.names[meaning]))
	for id, name := range t.names[meaning] {
		entries = append(entries, Entry{ID: id, Name: name})
	}
	slices.SortFunc(entries, func(a, b Entry) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return entries
}

// ToNames adapts l into a mapper from numeric identifiers to names.
func ToNames(l Lookup) logic.Mapper[uint32, string] {
	return func(id uint32, meaning types.Meaning) (string, error) {
		return l.NameOf(id, meaning)
	}
}

// ToIDs adapts l into a mapper from names to numeric identifiers.
func ToIDs(l Lookup) logic.Mapper[string, uint32] {
	return func(name string, meaning types.Meaning) (uint32, error) {
		return l.IDOf(name, meaning)
	}
}
