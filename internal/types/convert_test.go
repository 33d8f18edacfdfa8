package types

import "testing"

// These pairs pin the implicit-conversion lattice spec §4.1 left
// unspecified. Spec §9 explicitly asks for this: "tests should codify
// each pair explicitly."
func TestImplicitlyConvertiblePinnedPairs(t *testing.T) {
	tests := []struct {
		name       string
		from, to   *Type
		convertible bool
	}{
		{"int to int", NewKeyword(KwInt), NewKeyword(KwInt), true},
		{"byte to int widens", NewKeyword(KwByte), NewKeyword(KwInt), true},
		{"int to byte narrows", NewKeyword(KwInt), NewKeyword(KwByte), false},
		{"ubyte to uint widens", NewKeyword(KwUByte), NewKeyword(KwUInt), true},
		{"ubyte to int cross-sign widens", NewKeyword(KwUByte), NewKeyword(KwInt), true},
		{"uint to int same-width cross-sign", NewKeyword(KwUInt), NewKeyword(KwInt), false},
		{"int to uint forbidden", NewKeyword(KwInt), NewKeyword(KwUInt), false},
		{"int to long widens", NewKeyword(KwInt), NewKeyword(KwLong), true},
		{"long to int narrows", NewKeyword(KwLong), NewKeyword(KwInt), false},
		{"int to float", NewKeyword(KwInt), NewKeyword(KwFloat), true},
		{"long to double", NewKeyword(KwLong), NewKeyword(KwDouble), true},
		{"float to double widens", NewKeyword(KwFloat), NewKeyword(KwDouble), true},
		{"double to float narrows", NewKeyword(KwDouble), NewKeyword(KwFloat), false},
		{"float to int forbidden", NewKeyword(KwFloat), NewKeyword(KwInt), false},
		{"bool to int forbidden", NewKeyword(KwBool), NewKeyword(KwInt), false},
		{"int to bool forbidden", NewKeyword(KwInt), NewKeyword(KwBool), false},
		{"bool to bool", NewKeyword(KwBool), NewKeyword(KwBool), true},
		{
			"array decays to pointer of same element",
			NewArray(4, NewKeyword(KwInt)),
			NewPointer(NewKeyword(KwInt)),
			true,
		},
		{
			"array does not decay to pointer of different element",
			NewArray(4, NewKeyword(KwInt)),
			NewPointer(NewKeyword(KwLong)),
			false,
		},
		{
			"adding const is implicit",
			NewKeyword(KwInt),
			NewQualified(NewKeyword(KwInt), true, false),
			true,
		},
		{
			"removing const is not implicit",
			NewQualified(NewKeyword(KwInt), true, false),
			NewKeyword(KwInt),
			false,
		},
		{
			"adding volatile is implicit",
			NewKeyword(KwInt),
			NewQualified(NewKeyword(KwInt), false, true),
			true,
		},
		{
			"widening base under an added qualifier",
			NewKeyword(KwByte),
			NewQualified(NewKeyword(KwInt), true, false),
			true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ImplicitlyConvertible(tc.from, tc.to); got != tc.convertible {
				t.Errorf("ImplicitlyConvertible(%s, %s) = %v, want %v",
					tc.from, tc.to, got, tc.convertible)
			}
		})
	}
}
