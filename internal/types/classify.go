package types

// IsInteger reports whether kw is one of the integer keyword kinds.
func (k Kw) IsInteger() bool { return k.isInteger() }

// IsUnsigned reports whether kw is an unsigned (or char-class) integer kind.
func (k Kw) IsUnsigned() bool { return k.isUnsigned() }

// IsFloat reports whether kw is float or double.
func (k Kw) IsFloat() bool { return k.isFloat() }

// IsNumeric reports whether t is a Keyword type that is an integer, float,
// or double (spec §4.5: "arithmetic operators promote both sides to a
// common numeric type").
func IsNumeric(t *Type) bool {
	return t != nil && t.Variant == Keyword && (t.Kw.IsInteger() || t.Kw.IsFloat())
}

// IsBool reports whether t is the bool keyword type.
func IsBool(t *Type) bool { return t != nil && t.Variant == Keyword && t.Kw == KwBool }

// IsVoid reports whether t is the void keyword type.
func IsVoid(t *Type) bool { return t != nil && t.Variant == Keyword && t.Kw == KwVoid }

// String renders t, or "<nil type>" for a nil Type. A package-level
// wrapper around (*Type).String so call sites that already hold a
// possibly-nil *Type don't need a nil guard of their own.
func String(t *Type) string { return t.String() }

// StripQualifiers unwraps any Qualified wrapper around t, returning its
// unqualified base. Used wherever a check cares about a value's shape
// (pointer, array, composite) but not its const/volatile qualification —
// e.g. dereferencing a "Foo const *" still yields a pointer dereference.
func StripQualifiers(t *Type) *Type {
	for t != nil && t.Variant == Qualified {
		t = t.Base
	}
	return t
}

// IsPointerOrArray reports whether t is a pointer or array type (spec
// §4.5: "array subscript requires an array or pointer base").
func IsPointerOrArray(t *Type) bool {
	return t != nil && (t.Variant == Pointer || t.Variant == Array)
}

// ElementType returns the element type of a pointer or array Type.
func ElementType(t *Type) *Type {
	if !IsPointerOrArray(t) {
		return nil
	}
	return t.Base
}

// CommonNumericType returns the result of the language's usual arithmetic
// promotion between two numeric Keyword types: the wider of the two
// ranks, with float classes always dominating integer classes, and
// disagreeing integer signedness resolved the same way keywordConvertible
// resolves an implicit conversion (unsigned widens into a strictly wider
// signed type; otherwise the wider-magnitude class of the two wins). ok is
// false if either type is not numeric.
func CommonNumericType(a, b *Type) (result *Type, ok bool) {
	if !IsNumeric(a) || !IsNumeric(b) {
		return nil, false
	}
	if a.Kw.IsFloat() || b.Kw.IsFloat() {
		if a.Kw.IsFloat() && b.Kw.IsFloat() {
			if floatRank[a.Kw] >= floatRank[b.Kw] {
				return NewKeyword(a.Kw), true
			}
			return NewKeyword(b.Kw), true
		}
		if a.Kw.IsFloat() {
			return NewKeyword(a.Kw), true
		}
		return NewKeyword(b.Kw), true
	}

	ra, rb := integerRank[a.Kw], integerRank[b.Kw]
	if a.Kw.IsUnsigned() == b.Kw.IsUnsigned() {
		if ra >= rb {
			return NewKeyword(a.Kw), true
		}
		return NewKeyword(b.Kw), true
	}
	// Mixed signedness: the result must be able to represent both without
	// loss, i.e. a signed type strictly wider than the unsigned one.
	unsigned, signed := a, b
	if b.Kw.IsUnsigned() {
		unsigned, signed = b, a
	}
	if integerRank[signed.Kw] > integerRank[unsigned.Kw] {
		return NewKeyword(signed.Kw), true
	}
	// No strictly-wider signed type: the result is the unsigned type,
	// whether it is wider than the signed one or of equal rank. At equal
	// rank a negative signed value is not representable in the result.
	if integerRank[signed.Kw] == integerRank[unsigned.Kw] {
		return NewKeyword(unsigned.Kw), true
	}
	return NewKeyword(unsigned.Kw), true
}
