package main

import (
	"github.com/kittywantsbacon/TCompiler/internal/ast"
	"github.com/kittywantsbacon/TCompiler/internal/types"
)

// foldArraySize is the typeconv.ConstEvaluator C4 (internal/stabbuild)
// folds array-size expressions with. Spec §3 pins the invariant this
// relies on: "array length is an actual non-negative integer constant
// extracted from the AST, not a symbolic expression" — so a literal/
// unary/binary folder with no symbol-table access covers every legal
// array size. internal/translate.foldConst and internal/check.Checker.Fold
// both re-derive the same small grammar independently for the same
// reason (each phase's folding is self-contained, not routed through a
// shared live Checker); this is this layer's own copy.
func foldArraySize(e *ast.Expr) (value uint64, kind types.Kw, ok bool) {
	if e == nil {
		return 0, types.KwUInt, false
	}
	switch e.Kind {
	case ast.ExprIntLit:
		return uint64(e.IntVal), types.KwUInt, true
	case ast.ExprUnary:
		v, k, ok := foldArraySize(e.X)
		if !ok {
			return 0, types.KwUInt, false
		}
		switch e.Op {
		case "-":
			return uint64(-int64(v)), k, true
		case "+":
			return v, k, true
		}
		return 0, types.KwUInt, false
	case ast.ExprBinary:
		x, k, okx := foldArraySize(e.X)
		y, _, oky := foldArraySize(e.Y)
		if !okx || !oky {
			return 0, types.KwUInt, false
		}
		switch e.Op {
		case "+":
			return x + y, k, true
		case "-":
			return x - y, k, true
		case "*":
			return x * y, k, true
		}
	}
	return 0, types.KwUInt, false
}
