package ast

// Decl is a top-level form (spec §6: "a sequence of top-level bodies
// (function definitions/declarations, variable declarations, composite and
// typedef declarations)"). Exactly one of the typed fields is non-nil.
type Decl struct {
	Pos  Pos
	Func    *FuncDecl
	Var     *VarDecl
	Struct  *CompositeDecl
	Union   *CompositeDecl
	Enum    *EnumDecl
	Typedef *TypedefDecl
}

// Param is one function parameter.
type Param struct {
	Pos      Pos
	Name     string
	Type     *TypeNode
	Optional bool
	Default  *Expr
}

// FuncDecl is a function declaration or definition. Body is nil for a
// declaration (spec §4.4: "defined=false").
type FuncDecl struct {
	Pos    Pos
	Name   string
	Return *TypeNode
	Params []Param
	Body   []*Stmt // nil => declaration, non-nil (possibly empty) => definition
}

// VarDecl is a variable declaration, at module or block scope.
type VarDecl struct {
	Pos  Pos
	Name string
	Type *TypeNode
	Init *Expr // nil if uninitialized
}

// CompositeMember is one field of a struct or option of a union.
type CompositeMember struct {
	Pos  Pos
	Name string
	Type *TypeNode
}

// CompositeDecl is a struct or union declaration. Members is nil for a
// forward declaration (spec §4.4: "creates (or leaves) an opaque entry").
type CompositeDecl struct {
	Pos     Pos
	Name    string
	Members []CompositeMember // nil => forward declaration
}

// EnumMember is one constant of an enum. HasValue distinguishes an
// explicit "= N" from an implicitly-assigned successor value.
type EnumMember struct {
	Pos      Pos
	Name     string
	HasValue bool
	Value    int64
}

// EnumDecl is an enum declaration. Members is nil for a forward
// declaration.
type EnumDecl struct {
	Pos     Pos
	Name    string
	Members []EnumMember
}

// TypedefDecl binds Name to Target.
type TypedefDecl struct {
	Pos    Pos
	Name   string
	Target *TypeNode
}
