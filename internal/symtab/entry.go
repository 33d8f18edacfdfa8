// Package symtab implements the symbol table and environment model
// (spec §4.2, "C2"): a sorted, name-keyed table per module, a scope stack
// for block/loop/function bodies, and the overload-set machinery function
// entries carry.
//
// Grounded on original_source/src/main/util/symbolTable.c for the table's
// shape (sorted array, binary-search lookup and insertion) and on
// buildSymbolTable.c for what an Entry holds per declaration kind.
package symtab

import (
	"sync/atomic"

	"github.com/kittywantsbacon/TCompiler/internal/types"
)

// Kind discriminates what an Entry names.
type Kind uint8

const (
	KindOpaque Kind = iota
	KindStruct
	KindUnion
	KindEnum
	KindTypedef
	KindVariable
	KindFunction
	KindEnumConst
)

func (k Kind) String() string {
	switch k {
	case KindOpaque:
		return "opaque type"
	case KindStruct:
		return "struct"
	case KindUnion:
		return "union"
	case KindEnum:
		return "enum"
	case KindTypedef:
		return "typedef"
	case KindVariable:
		return "variable"
	case KindFunction:
		return "function"
	case KindEnumConst:
		return "enum constant"
	default:
		return "unknown"
	}
}

// IsTypeNaming reports whether entries of this kind may be used where a
// type-denoting identifier is expected (spec §4.3: "identifier types
// resolve via env.lookup (kind must be a type-naming entry)").
func (k Kind) IsTypeNaming() bool {
	switch k {
	case KindOpaque, KindStruct, KindUnion, KindEnum, KindTypedef:
		return true
	default:
		return false
	}
}

// Field is one member of a struct or option of a union, fully resolved
// (spec §3: "each field/option/constant is resolved through C3 and
// stored as part of the entry" — original_source's buildSymbolTable.c
// pins that this means a name/Type pair, not just a name list).
type Field struct {
	Name string
	Type *types.Type
}

// EnumConstant is one member of an enum, with its ordinal value resolved
// at symbol-table build time.
type EnumConstant struct {
	Name  string
	Value int64
}

var nextIdentity uint64

func allocIdentity() uintptr {
	return uintptr(atomic.AddUint64(&nextIdentity, 1))
}

// Entry is a record identifying one named program object (spec §3). It
// implements types.Entry so Reference-variant Types can be built over it
// without internal/types importing this package.
type Entry struct {
	name string
	kind Kind
	idx  uintptr

	// KindOpaque: the entry this forward declaration eventually resolves
	// to. nil until the full definition is seen. This pointer is a weak
	// reference (spec §3: "lookup only, never ownership") — the new
	// struct/union/enum entry created at the full definition owns
	// itself; the opaque entry merely points at it (spec §4.4: "a prior
	// opaque entry ... is patched: its definition back-pointer is set").
	opaqueDef *Entry

	// KindStruct / KindUnion.
	fields []Field

	// KindEnum.
	consts []EnumConstant

	// KindTypedef.
	target *types.Type

	// KindVariable.
	varType *types.Type

	// KindFunction.
	overloads *OverloadSet

	// KindEnumConst: the ordinal value and the owning enum's reference
	// type (spec §4.5 treats a bare enum-member identifier as an
	// expression of its enum's type, resolved like any other variable
	// reference rather than through a separate member-access form).
	enumConstValue int64
	enumConstType  *types.Type
}

func newEntry(name string, kind Kind) *Entry {
	return &Entry{name: name, kind: kind, idx: allocIdentity()}
}

// NewOpaque creates an unresolved forward declaration.
func NewOpaque(name string) *Entry { return newEntry(name, KindOpaque) }

// NewStruct creates a fully-defined struct entry.
func NewStruct(name string, fields []Field) *Entry {
	e := newEntry(name, KindStruct)
	e.fields = fields
	return e
}

// NewUnion creates a fully-defined union entry.
func NewUnion(name string, options []Field) *Entry {
	e := newEntry(name, KindUnion)
	e.fields = options
	return e
}

// NewEnum creates a fully-defined enum entry.
func NewEnum(name string, consts []EnumConstant) *Entry {
	e := newEntry(name, KindEnum)
	e.consts = consts
	return e
}

// NewTypedef binds name to target.
func NewTypedef(name string, target *types.Type) *Entry {
	e := newEntry(name, KindTypedef)
	e.target = target
	return e
}

// NewVariable binds name to a storage location of the given type.
func NewVariable(name string, t *types.Type) *Entry {
	e := newEntry(name, KindVariable)
	e.varType = t
	return e
}

// NewFunction creates a function entry with an empty overload set.
func NewFunction(name string) *Entry {
	e := newEntry(name, KindFunction)
	e.overloads = NewOverloadSet()
	return e
}

// NewEnumConst creates a standalone entry for one member of an enum,
// insertable directly into the enclosing scope so plain identifier lookup
// (spec §4.2) resolves it the same way a variable resolves.
func NewEnumConst(name string, value int64, enumType *types.Type) *Entry {
	e := newEntry(name, KindEnumConst)
	e.enumConstValue = value
	e.enumConstType = enumType
	return e
}

func (e *Entry) Name() string { return e.name }
func (e *Entry) Kind() Kind   { return e.kind }

func (e *Entry) Fields() []Field            { return e.fields }
func (e *Entry) Consts() []EnumConstant     { return e.consts }
func (e *Entry) TypedefTarget() *types.Type { return e.target }
func (e *Entry) VarType() *types.Type       { return e.varType }
func (e *Entry) Overloads() *OverloadSet    { return e.overloads }
func (e *Entry) EnumConstValue() int64      { return e.enumConstValue }
func (e *Entry) EnumConstType() *types.Type { return e.enumConstType }

// PatchOpaque sets the entry this (necessarily opaque) entry resolves to.
// Spec §4.4: "A prior opaque entry with the same name is patched: its
// definition back-pointer is set to the new entry; the new entry
// supersedes."
func (e *Entry) PatchOpaque(def *Entry) {
	if e.kind != KindOpaque {
		panic("symtab: PatchOpaque called on a non-opaque entry")
	}
	e.opaqueDef = def
}

// Definition returns the entry this opaque entry resolves to, or nil if
// unresolved. Only meaningful when Kind() == KindOpaque.
func (e *Entry) Definition() *Entry { return e.opaqueDef }

// Identity implements types.Entry.
func (e *Entry) Identity() uintptr { return e.idx }

// OpaqueDefinition implements types.Entry.
func (e *Entry) OpaqueDefinition() (types.Entry, bool) {
	if e.kind != KindOpaque {
		return nil, false
	}
	if e.opaqueDef == nil {
		return nil, true
	}
	return e.opaqueDef, true
}

// FieldTypes implements types.Sized: the field/option types in
// declaration order, following an opaque entry's definition link first.
func (e *Entry) FieldTypes() []*types.Type {
	target := e.resolveDefinition()
	if target == nil {
		return nil
	}
	out := make([]*types.Type, len(target.fields))
	for i, f := range target.fields {
		out[i] = f.Type
	}
	return out
}

// IsUnion implements types.Sized.
func (e *Entry) IsUnion() bool {
	target := e.resolveDefinition()
	return target != nil && target.kind == KindUnion
}

// EnumUnderlying implements types.Sized: every enum in this language is
// represented as a plain int, per original_source's enumerators being
// ordinary int-valued constants (buildSymbolTable.c stores each
// enumerator's value with no separate underlying-type syntax).
func (e *Entry) EnumUnderlying() (*types.Type, bool) {
	target := e.resolveDefinition()
	if target == nil || target.kind != KindEnum {
		return nil, false
	}
	return types.NewKeyword(types.KwInt), true
}

// resolveDefinition follows an opaque entry's definition link (if any)
// and returns the concrete struct/union/enum entry backing e, or nil if
// still unresolved.
func (e *Entry) resolveDefinition() *Entry {
	if e.kind == KindOpaque {
		return e.opaqueDef
	}
	return e
}

var _ types.Entry = (*Entry)(nil)
var _ types.Sized = (*Entry)(nil)
