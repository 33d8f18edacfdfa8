package types

// keywordSize/keywordAlign give the byte size and alignment of each
// primitive keyword type. original_source's type.c does not itself carry
// a sizeof table (sizing is a translate-phase concern there), so these
// widths are pinned here the conventional way for a language with this
// keyword set: byte-class keywords are 1 byte, short-class 2, int/float/
// wchar 4, long/double/pointer-width 8, matching PointerWidth in
// internal/ir.
var keywordSize = map[Kw]uint64{
	KwVoid: 0,
	KwUByte: 1, KwByte: 1, KwChar: 1, KwBool: 1,
	KwUShort: 1 << 1, KwShort: 1 << 1,
	KwUInt: 4, KwInt: 4, KwWChar: 4, KwFloat: 4,
	KwULong: 8, KwLong: 8, KwDouble: 8,
}

// PointerWidth is the target pointer size in bytes. Mirrors
// internal/ir.PointerWidth; duplicated here (rather than importing ir,
// which would invert the dependency direction between the two packages)
// since both are pinned to the same target-neutral constant.
const PointerWidth = 8

// Sizeof returns t's size in bytes. Struct/union/enum references and
// function-pointer/pointer/array shapes are sized structurally; Sizeof
// panics on a nil or malformed Type, since every Type reaching this
// function has already passed C3/C5 and is assumed well-formed.
func Sizeof(t *Type) uint64 {
	switch t.Variant {
	case Keyword:
		return keywordSize[t.Kw]
	case Qualified:
		return Sizeof(t.Base)
	case Pointer, FuncPointer:
		return PointerWidth
	case Array:
		return t.Length * Sizeof(t.Base)
	case Aggregate:
		var total uint64
		for _, f := range t.Fields {
			total = alignUp(total, Alignof(f)) + Sizeof(f)
		}
		return total
	case Reference:
		return referenceSizeof(t)
	default:
		panic("types: Sizeof on malformed Type")
	}
}

// Alignof returns t's required alignment in bytes (its size, for every
// primitive/pointer shape this language has — there are no over-aligned
// keyword types).
func Alignof(t *Type) uint64 {
	switch t.Variant {
	case Keyword, Pointer, FuncPointer:
		return Sizeof(t)
	case Qualified:
		return Alignof(t.Base)
	case Array:
		return Alignof(t.Base)
	case Aggregate:
		var max uint64 = 1
		for _, f := range t.Fields {
			if a := Alignof(f); a > max {
				max = a
			}
		}
		return max
	case Reference:
		return referenceAlignof(t)
	default:
		panic("types: Alignof on malformed Type")
	}
}

func alignUp(offset, align uint64) uint64 {
	if align == 0 {
		return offset
	}
	rem := offset % align
	if rem == 0 {
		return offset
	}
	return offset + (align - rem)
}

// Sized is implemented by a Reference Type's Entry when it can report its
// own field layout (struct/union/enum entries in internal/symtab); kept
// as a narrow interface here, rather than a direct dependency on
// internal/symtab, for the same import-cycle reason Entry itself exists.
type Sized interface {
	FieldTypes() []*Type
	IsUnion() bool
	// EnumUnderlying reports the representation type for an enum entry,
	// or (nil, false) if this entry is not an enum.
	EnumUnderlying() (*Type, bool)
}

func referenceSizeof(t *Type) uint64 {
	sized, ok := t.RefEntry.(Sized)
	if !ok {
		return 0
	}
	if u, isEnum := sized.EnumUnderlying(); isEnum {
		return Sizeof(u)
	}
	fields := sized.FieldTypes()
	if sized.IsUnion() {
		var max uint64
		for _, f := range fields {
			if s := Sizeof(f); s > max {
				max = s
			}
		}
		return max
	}
	var total uint64
	for _, f := range fields {
		total = alignUp(total, Alignof(f)) + Sizeof(f)
	}
	return alignUp(total, referenceAlignof(t))
}

func referenceAlignof(t *Type) uint64 {
	sized, ok := t.RefEntry.(Sized)
	if !ok {
		return 1
	}
	if u, isEnum := sized.EnumUnderlying(); isEnum {
		return Alignof(u)
	}
	var max uint64 = 1
	for _, f := range sized.FieldTypes() {
		if a := Alignof(f); a > max {
			max = a
		}
	}
	return max
}
