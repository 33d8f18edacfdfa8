package types

import "testing"

// fakeEntry is a minimal Entry for exercising reference-type equality
// without depending on internal/symtab (which would be an import cycle).
type fakeEntry struct {
	idx uintptr
	def *fakeEntry // non-nil iff this entry is opaque
}

func (e *fakeEntry) Identity() uintptr { return e.idx }
func (e *fakeEntry) OpaqueDefinition() (Entry, bool) {
	if e.def == nil {
		return nil, false
	}
	return e.def, true
}

// unresolvedOpaque reports itself opaque with no resolved definition yet.
type unresolvedOpaque struct{ idx uintptr }

func (e *unresolvedOpaque) Identity() uintptr                  { return e.idx }
func (e *unresolvedOpaque) OpaqueDefinition() (Entry, bool)    { return nil, true }

func TestCopyPreservesEquality(t *testing.T) {
	tests := []*Type{
		NewKeyword(KwInt),
		NewQualified(NewKeyword(KwInt), true, false),
		NewQualified(NewKeyword(KwChar), true, true),
		NewPointer(NewKeyword(KwByte)),
		NewArray(10, NewKeyword(KwLong)),
		NewFuncPointer(NewKeyword(KwVoid), []*Type{NewKeyword(KwInt), NewKeyword(KwBool)}),
		NewAggregate([]*Type{NewKeyword(KwInt), NewKeyword(KwDouble)}),
		NewReference(&fakeEntry{idx: 1}, "Widget"),
	}
	for _, tc := range tests {
		cp := tc.Copy()
		if !Equal(tc, cp) {
			t.Errorf("Equal(%s, Copy(%s)) = false, want true", tc, tc)
		}
		if tc.Variant != Reference && tc.Base == cp.Base && tc.Base != nil {
			t.Errorf("Copy of %s shares a sub-type pointer; copy must be deep", tc)
		}
		if tc.String() != cp.String() {
			t.Errorf("String not stable across copy: %q vs %q", tc.String(), cp.String())
		}
	}
}

func TestNewQualifiedRequiresAQualifier(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic constructing a qualified type with neither const nor volatile")
		}
	}()
	NewQualified(NewKeyword(KwInt), false, false)
}

func TestNewQualifiedRejectsNestedQualified(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic nesting qualified inside qualified")
		}
	}()
	inner := NewQualified(NewKeyword(KwInt), true, false)
	NewQualified(inner, false, true)
}

func TestOpaqueDefinitionTransparency(t *testing.T) {
	def := &fakeEntry{idx: 2}
	opaque := &fakeEntry{idx: 1, def: def}

	refOpaque := NewReference(opaque, "S")
	refDef := NewReference(def, "S")

	if !Equal(refOpaque, refDef) {
		t.Error("opaque reference should equal its definition's reference")
	}
	if !Equal(refDef, refOpaque) {
		t.Error("opaque/definition equality must be symmetric")
	}

	other := &fakeEntry{idx: 3}
	refOther := NewReference(other, "T")
	if Equal(refOpaque, refOther) {
		t.Error("unrelated entries must not compare equal")
	}
}

func TestBothOpaqueSameDefinitionAreEqual(t *testing.T) {
	def := &fakeEntry{idx: 5}
	a := NewReference(&fakeEntry{idx: 6, def: def}, "S")
	b := NewReference(&fakeEntry{idx: 7, def: def}, "S")
	if !Equal(a, b) {
		t.Error("two opaque entries sharing a definition must be equal")
	}
}

func TestUnresolvedOpaqueIsNotSpuriouslyEqual(t *testing.T) {
	a := NewReference(&unresolvedOpaque{idx: 1}, "S")
	b := NewReference(&unresolvedOpaque{idx: 2}, "S")
	if Equal(a, b) {
		t.Error("two unresolved opaque entries must not compare equal")
	}
}

func TestRenderPointerSpacing(t *testing.T) {
	p := NewPointer(NewKeyword(KwInt))
	if got, want := p.String(), "int *"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	pp := NewPointer(p)
	if got, want := pp.String(), "int **"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestRenderQualifiedOrder(t *testing.T) {
	both := NewQualified(NewKeyword(KwInt), true, true)
	if got, want := both.String(), "int volatile const"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestRenderArrayFuncAggregate(t *testing.T) {
	arr := NewArray(4, NewKeyword(KwByte))
	if got, want := arr.String(), "byte[4]"; got != want {
		t.Errorf("array String() = %q, want %q", got, want)
	}
	fp := NewFuncPointer(NewKeyword(KwInt), []*Type{NewKeyword(KwInt), NewKeyword(KwLong)})
	if got, want := fp.String(), "int(int, long)"; got != want {
		t.Errorf("funcptr String() = %q, want %q", got, want)
	}
	agg := NewAggregate([]*Type{NewKeyword(KwInt), NewKeyword(KwBool)})
	if got, want := agg.String(), "{int, bool}"; got != want {
		t.Errorf("aggregate String() = %q, want %q", got, want)
	}
}
