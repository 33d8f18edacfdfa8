// Package types implements the compiler's type model (spec §4.1, "C1").
//
// A Type is a discriminated value, grounded directly on
// original_source/src/main/ast/type.c's TypeKind union: construction,
// deep copy, structural equality (including opaque/definition
// transparency), implicit-convertibility, and rendering all live here as
// one small, exhaustively-switched package, the way the teacher keeps
// cmd/compile/internal/types self-contained to avoid import cycles with
// the symbol table.
package types

import "fmt"

// Variant discriminates the seven shapes a Type can take (spec §3).
type Variant uint8

const (
	Keyword Variant = iota
	Qualified
	Pointer
	Array
	FuncPointer
	Aggregate
	Reference
)

// Kw enumerates the primitive keyword kinds a Keyword-variant Type names.
type Kw uint8

const (
	KwVoid Kw = iota
	KwUByte
	KwByte
	KwChar
	KwUShort
	KwShort
	KwUInt
	KwInt
	KwWChar
	KwULong
	KwLong
	KwFloat
	KwDouble
	KwBool
)

var kwNames = [...]string{
	KwVoid: "void", KwUByte: "ubyte", KwByte: "byte", KwChar: "char",
	KwUShort: "ushort", KwShort: "short", KwUInt: "uint", KwInt: "int",
	KwWChar: "wchar", KwULong: "ulong", KwLong: "long", KwFloat: "float",
	KwDouble: "double", KwBool: "bool",
}

func (k Kw) String() string {
	if int(k) < len(kwNames) {
		return kwNames[k]
	}
	return fmt.Sprintf("Kw(%d)", k)
}

// signedness classes used by the implicit-conversion lattice (§ convert.go).
func (k Kw) isInteger() bool {
	switch k {
	case KwUByte, KwByte, KwChar, KwUShort, KwShort, KwUInt, KwInt, KwWChar, KwULong, KwLong:
		return true
	}
	return false
}

func (k Kw) isUnsigned() bool {
	switch k {
	case KwUByte, KwUShort, KwUInt, KwULong, KwChar, KwWChar:
		return true
	}
	return false
}

func (k Kw) isFloat() bool {
	return k == KwFloat || k == KwDouble
}

// rank orders integer keyword kinds by width for widening comparisons;
// same-width signed/unsigned pairs share a rank, with sign class resolved
// separately by isUnsigned.
var integerRank = map[Kw]int{
	KwByte: 0, KwUByte: 0,
	KwShort: 1, KwUShort: 1,
	KwInt: 2, KwUInt: 2,
	KwLong: 3, KwULong: 3,
	KwChar: 0, KwWChar: 2,
}

var floatRank = map[Kw]int{KwFloat: 0, KwDouble: 1}

// Entry is the symbol-table-entry side of a reference Type. It is an
// interface (rather than a direct *symtab.Entry field) so that this
// leaf package never imports internal/symtab, mirroring the way the
// teacher keeps types.Sym and types.Type in one package specifically to
// avoid a types<->symbol-table import cycle; here the cycle is broken by
// an interface boundary instead of a merged package.
type Entry interface {
	// OpaqueDefinition reports whether this entry is an opaque forward
	// declaration and, if so, the entry (possibly nil if not yet
	// resolved) its eventual definition points to.
	OpaqueDefinition() (def Entry, isOpaque bool)
	// Identity returns a stable, comparable handle for this entry (its
	// arena index per spec §9), used instead of pointer equality so that
	// reference-type equality does not depend on Entry being backed by a
	// single concrete type.
	Identity() uintptr
}

// Type is the discriminated value described by spec §3. Fields are
// variant-specific; only the fields relevant to t.Variant are populated,
// the idiomatic-Go analogue of the teacher's C union with a kind tag.
type Type struct {
	Variant Variant

	// Keyword variant.
	Kw Kw

	// Qualified variant.
	qualFlags bitset8
	Base      *Type // Qualified base, Pointer base, Array element.

	// Array variant.
	Length uint64 // actual constant, never symbolic (spec §3 invariant).

	// FuncPointer variant.
	Return *Type
	Args   []*Type

	// Aggregate variant.
	Fields []*Type

	// Reference variant.
	RefEntry Entry
	RefID    string
}

// NewKeyword constructs a primitive Type.
func NewKeyword(kw Kw) *Type {
	return &Type{Variant: Keyword, Kw: kw}
}

// NewQualified constructs a qualified Type. It panics if neither constQual
// nor volatileQual is set (spec §3 invariant: "a qualified type has at
// least one of const/volatile set") and if base is itself Qualified
// (invariant: "qualified is never nested inside qualified") — callers
// (internal/typeconv) are expected to collapse nested const/volatile
// before calling this, exactly as original_source's astToType does via
// its duplicate-specifier branch.
func NewQualified(base *Type, constQual, volatileQual bool) *Type {
	if !constQual && !volatileQual {
		panic("types: qualified type requires const or volatile")
	}
	if base != nil && base.Variant == Qualified {
		panic("types: qualified type nested inside qualified")
	}
	t := &Type{Variant: Qualified, Base: base}
	t.qualFlags.set(qualConst, constQual)
	t.qualFlags.set(qualVolatile, volatileQual)
	return t
}

func (t *Type) IsConst() bool    { return t.Variant == Qualified && t.qualFlags.has(qualConst) }
func (t *Type) IsVolatile() bool { return t.Variant == Qualified && t.qualFlags.has(qualVolatile) }

// NewPointer constructs a pointer-to-base Type.
func NewPointer(base *Type) *Type {
	return &Type{Variant: Pointer, Base: base}
}

// NewArray constructs a fixed-length array Type. length must be an actual
// integer constant extracted from the AST (spec §3 invariant), never a
// symbolic expression; internal/typeconv is responsible for enforcing
// that before calling here.
func NewArray(length uint64, elem *Type) *Type {
	return &Type{Variant: Array, Length: length, Base: elem}
}

// NewFuncPointer constructs a function-pointer Type.
func NewFuncPointer(ret *Type, args []*Type) *Type {
	return &Type{Variant: FuncPointer, Return: ret, Args: args}
}

// NewAggregate constructs an anonymous-tuple Type used to type composite
// initializers (spec §3).
func NewAggregate(fields []*Type) *Type {
	return &Type{Variant: Aggregate, Fields: fields}
}

// NewReference constructs a Type naming a user-defined composite via its
// symbol-table entry, plus the identifier text as written in source (used
// verbatim by String, spec §4.1 "reference: renders t.data.reference.id").
func NewReference(entry Entry, id string) *Type {
	return &Type{Variant: Reference, RefEntry: entry, RefID: id}
}

// Copy performs a deep copy (spec §3: "Types own their sub-types; copy is
// deep."). Reference types are a shallow copy of the Entry/id pair: the
// referenced symbol-table entry is never owned by the Type and is never
// duplicated, matching original_source's referenceTypeCreate(entry,
// strdup(id)) which copies only the id string.
func (t *Type) Copy() *Type {
	if t == nil {
		return nil
	}
	switch t.Variant {
	case Keyword:
		return NewKeyword(t.Kw)
	case Qualified:
		return NewQualified(t.Base.Copy(), t.IsConst(), t.IsVolatile())
	case Pointer:
		return NewPointer(t.Base.Copy())
	case Array:
		return NewArray(t.Length, t.Base.Copy())
	case FuncPointer:
		args := make([]*Type, len(t.Args))
		for i, a := range t.Args {
			args[i] = a.Copy()
		}
		return NewFuncPointer(t.Return.Copy(), args)
	case Aggregate:
		fields := make([]*Type, len(t.Fields))
		for i, f := range t.Fields {
			fields[i] = f.Copy()
		}
		return NewAggregate(fields)
	case Reference:
		return NewReference(t.RefEntry, t.RefID)
	default:
		panic("types: bad variant in Copy")
	}
}
