package types

// Equal reports structural equality per spec §4.1: same variant and
// (recursively) equal payloads, with opaque/definition transparency for
// Reference types. Grounded on original_source's typeEqual
// (ast/type.c).
func Equal(a, b *Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Variant != b.Variant {
		return false
	}
	switch a.Variant {
	case Keyword:
		return a.Kw == b.Kw
	case Qualified:
		return a.IsConst() == b.IsConst() &&
			a.IsVolatile() == b.IsVolatile() &&
			Equal(a.Base, b.Base)
	case Pointer:
		return Equal(a.Base, b.Base)
	case Array:
		return a.Length == b.Length && Equal(a.Base, b.Base)
	case FuncPointer:
		if !Equal(a.Return, b.Return) {
			return false
		}
		if len(a.Args) != len(b.Args) {
			return false
		}
		for i := range a.Args {
			if !Equal(a.Args[i], b.Args[i]) {
				return false
			}
		}
		return true
	case Aggregate:
		if len(a.Fields) != len(b.Fields) {
			return false
		}
		for i := range a.Fields {
			if !Equal(a.Fields[i], b.Fields[i]) {
				return false
			}
		}
		return true
	case Reference:
		return entryEqual(a.RefEntry, b.RefEntry)
	default:
		panic("types: bad variant in Equal")
	}
}

// entryEqual realizes forward-declaration transparency (spec §4.1): two
// references are equal when they name the same entry, or either (or
// both) side is an opaque forward declaration whose definition resolves
// to the other.
func entryEqual(a, b Entry) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Identity() == b.Identity() {
		return true
	}
	if aDef, aOpaque := a.OpaqueDefinition(); aOpaque && aDef != nil && aDef.Identity() == b.Identity() {
		return true
	}
	if bDef, bOpaque := b.OpaqueDefinition(); bOpaque && bDef != nil && bDef.Identity() == a.Identity() {
		return true
	}
	aDef, aOpaque := a.OpaqueDefinition()
	bDef, bOpaque := b.OpaqueDefinition()
	if aOpaque && bOpaque && aDef != nil && bDef != nil && aDef.Identity() == bDef.Identity() {
		return true
	}
	return false
}
