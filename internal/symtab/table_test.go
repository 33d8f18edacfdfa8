package symtab

import "testing"

func TestTableInsertAndLookupDistinctNames(t *testing.T) {
	tab := NewTable()
	names := []string{"zeta", "alpha", "mu", "beta"}
	for _, n := range names {
		if err := tab.Insert(NewVariable(n, nil)); err != nil {
			t.Fatalf("Insert(%q): %v", n, err)
		}
	}
	for _, n := range names {
		if got := tab.Lookup(n); got == nil || got.Name() != n {
			t.Errorf("Lookup(%q) = %v, want an entry named %q", n, got, n)
		}
	}
	if tab.Lookup("missing") != nil {
		t.Errorf("Lookup(missing) should return nil")
	}
}

func TestTableInsertExistingNameFailsWithoutMutation(t *testing.T) {
	tab := NewTable()
	first := NewVariable("x", nil)
	if err := tab.Insert(first); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	second := NewVariable("x", nil)
	if err := tab.Insert(second); err != ErrExists {
		t.Fatalf("Insert duplicate = %v, want ErrExists", err)
	}
	if tab.Len() != 1 {
		t.Fatalf("Len() = %d after failed insert, want 1", tab.Len())
	}
	if got := tab.Lookup("x"); got != first {
		t.Errorf("Lookup(x) = %v, want the original entry %v", got, first)
	}
}

func TestTableEntriesSorted(t *testing.T) {
	tab := NewTable()
	for _, n := range []string{"c", "a", "b"} {
		if err := tab.Insert(NewVariable(n, nil)); err != nil {
			t.Fatalf("Insert(%q): %v", n, err)
		}
	}
	entries := tab.Entries()
	want := []string{"a", "b", "c"}
	for i, w := range want {
		if entries[i].Name() != w {
			t.Errorf("Entries()[%d].Name() = %q, want %q", i, entries[i].Name(), w)
		}
	}
}
