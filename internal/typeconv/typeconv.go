// Package typeconv bridges type-denoting AST subtrees into canonical
// types.Type values (spec §4.3, "C3"). Grounded on
// original_source/src/main/typecheck/typeAnalysis.c's buildStabType, with
// the resource-bag construction-failure pattern spec §9 recommends in
// place of that source's manual free-on-error chains.
package typeconv

import (
	"github.com/kittywantsbacon/TCompiler/internal/ast"
	"github.com/kittywantsbacon/TCompiler/internal/diag"
	"github.com/kittywantsbacon/TCompiler/internal/options"
	"github.com/kittywantsbacon/TCompiler/internal/symtab"
	"github.com/kittywantsbacon/TCompiler/internal/types"
)

var keywordByName = map[string]types.Kw{
	"void":   types.KwVoid,
	"ubyte":  types.KwUByte,
	"byte":   types.KwByte,
	"char":   types.KwChar,
	"ushort": types.KwUShort,
	"short":  types.KwShort,
	"uint":   types.KwUInt,
	"int":    types.KwInt,
	"wchar":  types.KwWChar,
	"ulong":  types.KwULong,
	"long":   types.KwLong,
	"float":  types.KwFloat,
	"double": types.KwDouble,
	"bool":   types.KwBool,
}

// unsignedIntConstKinds are the array-size constant types spec §4.3
// accepts: "Array sizes must be compile-time unsigned integer constants
// (ubyte/ushort/uint/ulong); other constant types are errors."
var unsignedIntConstKinds = map[types.Kw]bool{
	types.KwUByte:  true,
	types.KwUShort: true,
	types.KwUInt:   true,
	types.KwULong:  true,
}

// ConstEvaluator folds a constant integer expression to its value and
// inferred keyword kind. The parser/checker supplies the implementation;
// typeconv only needs the result (spec §9's injected-constructor idiom).
type ConstEvaluator func(e *ast.Expr) (value uint64, kind types.Kw, ok bool)

// Converter translates AST type nodes into types.Type values under a
// given environment.
type Converter struct {
	Env     *symtab.Environment
	Sink    *diag.Sink
	Options options.Set
	Const   ConstEvaluator
}

// NewConverter builds a Converter over env, reporting diagnostics to sink
// under opts, and using constEval to fold array-size expressions.
func NewConverter(env *symtab.Environment, sink *diag.Sink, opts options.Set, constEval ConstEvaluator) *Converter {
	return &Converter{Env: env, Sink: sink, Options: opts, Const: constEval}
}

// ToType maps node to a canonical Type, or returns (nil, false) having
// already reported a diagnostic. On any sub-failure within a composite
// node, all partially constructed sub-types are discarded (spec §9:
// "Prefer a scoped-acquisition pattern... so the error paths are
// uniform") — here realized simply: a *types.Type that fails to fully
// construct is never referenced by its parent, so it is dropped with the
// call frame and collected normally.
func (c *Converter) ToType(node *ast.TypeNode) (*types.Type, bool) {
	if node == nil {
		return nil, false
	}
	switch node.Kind {
	case ast.TypeKeyword:
		kw, ok := keywordByName[node.Keyword]
		if !ok {
			c.Sink.Errorf(node.Pos, "unknown primitive type %q", node.Keyword)
			return nil, false
		}
		return types.NewKeyword(kw), true

	case ast.TypeQualified:
		return c.toQualified(node)

	case ast.TypePointer:
		base, ok := c.ToType(node.Base)
		if !ok {
			return nil, false
		}
		return types.NewPointer(base), true

	case ast.TypeArray:
		return c.toArray(node)

	case ast.TypeFuncPointer:
		return c.toFuncPointer(node)

	case ast.TypeNamed:
		return c.toNamed(node)

	default:
		c.Sink.Errorf(node.Pos, "internal: unknown type node kind %d", node.Kind)
		return nil, false
	}
}

func (c *Converter) toQualified(node *ast.TypeNode) (*types.Type, bool) {
	if !node.Const && !node.Volatile {
		c.Sink.Errorf(node.Pos, "internal: qualified type node with neither const nor volatile set")
		return nil, false
	}
	base, ok := c.ToType(node.Base)
	if !ok {
		return nil, false
	}
	// A qualified base that is itself already qualified is the "const
	// const T" / "volatile volatile T" duplicate-specifier case (spec
	// §4.3): collapse rather than nest, and apply the tri-level dial.
	if base.Variant == types.Qualified {
		accept := c.Options.Apply(c.Options.WarnDuplicateDeclSpecifier, c.Sink, node.Pos,
			"duplicate qualifier on type")
		if !accept {
			return nil, false
		}
		node2 := *base
		base = &node2
		return types.NewQualified(base.Base, base.IsConst() || node.Const, base.IsVolatile() || node.Volatile), true
	}
	return types.NewQualified(base, node.Const, node.Volatile), true
}

func (c *Converter) toArray(node *ast.TypeNode) (*types.Type, bool) {
	base, ok := c.ToType(node.Base)
	if !ok {
		return nil, false
	}
	if node.Length == nil {
		c.Sink.Errorf(node.Pos, "array type requires a size")
		return nil, false
	}
	value, kind, ok := c.Const(node.Length)
	if !ok {
		c.Sink.Errorf(node.Length.Pos, "array size must be a compile-time constant")
		return nil, false
	}
	if !unsignedIntConstKinds[kind] {
		c.Sink.Errorf(node.Length.Pos, "array size must be an unsigned integer constant")
		return nil, false
	}
	if value == 0 {
		c.Sink.Errorf(node.Length.Pos, "array size must not be zero")
		return nil, false
	}
	return types.NewArray(value, base), true
}

func (c *Converter) toFuncPointer(node *ast.TypeNode) (*types.Type, bool) {
	ret, ok := c.ToType(node.Return)
	if !ok {
		return nil, false
	}
	args := make([]*types.Type, 0, len(node.Params))
	for _, p := range node.Params {
		arg, ok := c.ToType(p)
		if !ok {
			// Every sub-type constructed so far (ret, and args already
			// appended) is simply dropped: nothing outside this call
			// frame has taken a reference to it yet.
			return nil, false
		}
		args = append(args, arg)
	}
	return types.NewFuncPointer(ret, args), true
}

func (c *Converter) toNamed(node *ast.TypeNode) (*types.Type, bool) {
	entry := c.Env.Lookup(node.Name.Text)
	if entry == nil {
		c.Sink.Errorf(node.Pos, "undeclared type %q", node.Name.Text)
		return nil, false
	}
	if !entry.Kind().IsTypeNaming() {
		c.Sink.Errorf(node.Pos, "%q is a %s, not a type", node.Name.Text, entry.Kind())
		return nil, false
	}
	if entry.Kind() == symtab.KindTypedef {
		return entry.TypedefTarget(), true
	}
	return types.NewReference(entry, node.Name.Text), true
}
