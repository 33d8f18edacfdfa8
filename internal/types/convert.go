package types

// ImplicitlyConvertible decides the language's implicit-coercion lattice
// (spec §4.1). The source text left this predicate unspecified ("the
// exact lattice is open in the source and must be pinned by the
// implementer's test corpus", spec §4.1/§9); the rules below are this
// implementation's pinned answer, exercised pair-by-pair in
// convert_test.go rather than left as an unwritten contract.
//
// Pinned rules:
//   - Equal types are always convertible (reflexivity).
//   - Among integer keyword kinds, a same-sign widening (to has rank >=
//     from's rank, same signedness) is allowed. An unsigned source may
//     also widen into a strictly-wider signed destination (no value is
//     ever lost). A signed source may never implicitly become unsigned:
//     that direction requires cast[T].
//   - Any integer keyword may implicitly become float or double.
//   - float may implicitly become double (widening); double may not
//     implicitly become float (narrowing requires cast[T]).
//   - bool converts only to/from bool.
//   - An array is convertible to a pointer with an equal element type
//     (array-to-pointer decay); nothing else decays to a pointer.
//   - A Type T is convertible to Qualified(T, ...): const and volatile
//     may both be added silently. Removing a qualifier is never
//     implicit, matching spec §4.1's "removes const only explicitly" and
//     extended here to volatile by the same reasoning (a resolved Open
//     Question, recorded in DESIGN.md).
//   - Reference, FuncPointer, Aggregate, and Pointer (other than decay)
//     types convert implicitly only when Equal.
func ImplicitlyConvertible(from, to *Type) bool {
	if Equal(from, to) {
		return true
	}
	if from == nil || to == nil {
		return false
	}

	if to.Variant == Qualified {
		return qualifiedConvertible(from, to)
	}

	switch from.Variant {
	case Keyword:
		if to.Variant != Keyword {
			return false
		}
		return keywordConvertible(from.Kw, to.Kw)
	case Array:
		return to.Variant == Pointer && Equal(from.Base, to.Base)
	default:
		return false
	}
}

// qualifiedConvertible allows adding const/volatile to an unqualified (or
// less-qualified) base silently.
func qualifiedConvertible(from, to *Type) bool {
	fromBase, fromConst, fromVolatile := strip(from)
	toBase := to.Base
	if !Equal(fromBase, toBase) && !ImplicitlyConvertible(fromBase, toBase) {
		return false
	}
	// Every qualifier present on `from` must also be present on `to`;
	// `to` may additionally add qualifiers `from` lacked.
	if fromConst && !to.IsConst() {
		return false
	}
	if fromVolatile && !to.IsVolatile() {
		return false
	}
	return true
}

func strip(t *Type) (base *Type, constQual, volatileQual bool) {
	if t.Variant == Qualified {
		return t.Base, t.IsConst(), t.IsVolatile()
	}
	return t, false, false
}

func keywordConvertible(from, to Kw) bool {
	if from == to {
		return true
	}
	if from == KwBool || to == KwBool {
		return false
	}
	if from.isFloat() {
		if !to.isFloat() {
			return false
		}
		return floatRank[from] <= floatRank[to]
	}
	if !from.isInteger() {
		return false
	}
	if to.isFloat() {
		return true // any integer may widen into floating point
	}
	if !to.isInteger() {
		return false
	}
	fr, frOK := integerRank[from]
	tr, trOK := integerRank[to]
	if !frOK || !trOK {
		return false
	}
	if from.isUnsigned() == to.isUnsigned() {
		return tr >= fr
	}
	// unsigned -> strictly wider signed loses nothing.
	if from.isUnsigned() && !to.isUnsigned() {
		return tr > fr
	}
	return false
}
