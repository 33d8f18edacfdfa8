package ast

import "github.com/kittywantsbacon/TCompiler/internal/types"

// ExprKind discriminates an Expr's syntactic form.
type ExprKind uint8

const (
	ExprIntLit ExprKind = iota
	ExprFloatLit
	ExprStringLit
	ExprBoolLit
	ExprIdent
	ExprUnary
	ExprBinary
	ExprLogical   // && ||
	ExprCond      // ?:
	ExprAssign    // = += -= ...
	ExprIndex     // a[i]
	ExprMember    // a.b / a->b
	ExprCall      // f(args...)
	ExprCast      // cast[T](x)
	ExprSizeofT   // sizeof(T)
	ExprSizeofE   // sizeof(expr)
	ExprAddrOf    // &x
	ExprDeref     // *x
)

// Expr is a tagged expression node. Type is written by C5 once the
// expression has been checked; it is nil beforehand.
type Expr struct {
	Pos  Pos
	Kind ExprKind
	Type *types.Type

	IntVal    int64
	FloatVal  float64
	StringVal string
	BoolVal   bool

	Ident *Ident // ExprIdent

	Op   string // ExprUnary, ExprBinary, ExprLogical, ExprAssign: operator spelling
	X, Y *Expr  // operands: unary/addrof/deref/cast use X; binary/logical/assign/index use X,Y

	Cond *Expr // ExprCond condition
	Then *Expr // ExprCond true branch
	Else *Expr // ExprCond false branch

	Member string // ExprMember
	Arrow  bool   // ExprMember: true for "->", false for "."

	Callee *Expr   // ExprCall
	Args   []*Expr // ExprCall

	CastType *TypeNode // ExprCast, ExprSizeofT
}
