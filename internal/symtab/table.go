package symtab

import (
	"errors"
	"sort"
)

// ErrExists is returned by Insert when the table already has an entry
// with the given name (spec §4.2: "inserting a name that already resides
// in the table fails with EEXISTS").
var ErrExists = errors.New("symtab: name already exists in table")

// Table is a sorted, name-keyed sequence of entries supporting O(log n)
// lookup by binary search and O(n) insertion preserving sorted order
// (spec §3). Grounded on symbolTable.c's symbolTableLookupExpectedIndex,
// reused here as the single sort.Search call that backs both Lookup and
// Insert's splice point, rather than searching twice.
type Table struct {
	entries []*Entry // sorted by Name()
}

// NewTable returns an empty symbol table.
func NewTable() *Table {
	return &Table{}
}

// expectedIndex returns the index name occupies or would occupy if
// inserted, the Go equivalent of symbolTableLookupExpectedIndex.
func (t *Table) expectedIndex(name string) int {
	return sort.Search(len(t.entries), func(i int) bool {
		return t.entries[i].Name() >= name
	})
}

// Lookup returns the entry named name, or nil if absent.
func (t *Table) Lookup(name string) *Entry {
	i := t.expectedIndex(name)
	if i < len(t.entries) && t.entries[i].Name() == name {
		return t.entries[i]
	}
	return nil
}

// Insert adds e to the table, preserving sorted order. It returns
// ErrExists (and leaves the table unchanged) if an entry with the same
// name is already present.
func (t *Table) Insert(e *Entry) error {
	i := t.expectedIndex(e.Name())
	if i < len(t.entries) && t.entries[i].Name() == e.Name() {
		return ErrExists
	}
	t.entries = append(t.entries, nil)
	copy(t.entries[i+1:], t.entries[i:])
	t.entries[i] = e
	return nil
}

// Len returns the number of entries in the table.
func (t *Table) Len() int { return len(t.entries) }

// Entries returns the entries in sorted order. The returned slice must
// not be mutated by the caller.
func (t *Table) Entries() []*Entry { return t.entries }
