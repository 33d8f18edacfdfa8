// Package check implements the type checker (spec §4.5, "C5"): it walks a
// type-annotated AST, writing a resolved *types.Type into every Expr and a
// resolved *symtab.Entry into every Ident, and reports a diagnostic for
// every operator, call, access, or assignment that violates the language's
// typing rules.
//
// Grounded on spec §4.5 directly (original_source's typechecker sources
// were not part of the retrieved pack; the operator-typing rules below are
// transcribed from the spec prose one clause at a time) and on the
// teacher's walker shape (cmd/compile/internal/types2's expression-typer:
// one method per node kind, diagnostics reported through an injected sink
// rather than returned as errors, so a single bad subexpression does not
// abort the whole function).
package check

import (
	"github.com/kittywantsbacon/TCompiler/internal/ast"
	"github.com/kittywantsbacon/TCompiler/internal/diag"
	"github.com/kittywantsbacon/TCompiler/internal/options"
	"github.com/kittywantsbacon/TCompiler/internal/symtab"
	"github.com/kittywantsbacon/TCompiler/internal/typeconv"
	"github.com/kittywantsbacon/TCompiler/internal/types"
)

// Checker type-checks one module's function bodies against its already
// built environment (spec §4.4 output feeds §4.5's input directly).
type Checker struct {
	Env     *symtab.Environment
	Sink    *diag.Sink
	Options options.Set

	conv *typeconv.Converter
}

// NewChecker constructs a Checker. The returned value's type-bridge
// Converter folds constants through the checker's own Fold, so cast
// target array-length expressions (e.g. "cast[int[N+1]](x)") are resolved
// the same way any other constant expression is.
func NewChecker(env *symtab.Environment, sink *diag.Sink, opts options.Set) *Checker {
	c := &Checker{Env: env, Sink: sink, Options: opts}
	c.conv = typeconv.NewConverter(env, sink, opts, c.Fold)
	return c
}

// context carries the state that threads down through one function body:
// the declared return type (for return-statement checking) and whether
// the current statement is lexically inside a loop or switch (for
// break/continue legality).
type context struct {
	returnType *types.Type
	inLoop     bool
	inSwitch   bool
}

// CheckFunction type-checks one function definition's body. overload is
// the already-reconciled signature (§4.4) this definition matches; its
// Params/Return are installed into a fresh scope alongside fn's parameter
// names. A declaration (fn.Body == nil) is a no-op.
func (c *Checker) CheckFunction(fn *ast.FuncDecl, overload *symtab.Overload) {
	if fn.Body == nil {
		return
	}
	scope := c.Env.PushScope()
	defer c.Env.PopScope()

	for i, p := range fn.Params {
		if i >= len(overload.Params) {
			break
		}
		entry := symtab.NewVariable(p.Name, overload.Params[i])
		if err := scope.Insert(entry); err != nil {
			c.Sink.Errorf(p.Pos, "parameter %q: %v", p.Name, err)
		}
	}

	ctx := context{returnType: overload.Return}
	for _, s := range fn.Body {
		c.checkStmt(s, ctx)
	}
}

// ---- statements ----

func (c *Checker) checkStmt(s *ast.Stmt, ctx context) {
	if s == nil {
		return
	}
	switch s.Kind {
	case ast.StmtExpr:
		c.checkExpr(s.Expr)
	case ast.StmtCompound:
		c.Env.PushScope()
		for _, body := range s.Body {
			c.checkStmt(body, ctx)
		}
		c.Env.PopScope()
	case ast.StmtVarDecl:
		c.checkVarDecl(s.Var)
	case ast.StmtIf:
		c.checkCondition(s.Cond)
		c.checkStmt(s.Then, ctx)
		c.checkStmt(s.Else, ctx)
	case ast.StmtWhile, ast.StmtDoWhile:
		c.checkCondition(s.Cond)
		loopCtx := ctx
		loopCtx.inLoop = true
		c.checkStmt(s.Loop, loopCtx)
	case ast.StmtFor:
		c.Env.PushScope()
		c.checkStmt(s.ForInit, ctx)
		if s.Cond != nil {
			c.checkCondition(s.Cond)
		}
		if s.ForPost != nil {
			c.checkExpr(s.ForPost)
		}
		loopCtx := ctx
		loopCtx.inLoop = true
		c.checkStmt(s.Loop, loopCtx)
		c.Env.PopScope()
	case ast.StmtSwitch:
		c.checkExpr(s.Switch)
		switchCtx := ctx
		switchCtx.inSwitch = true
		for _, cs := range s.Cases {
			if cs.Value != nil {
				c.checkExpr(cs.Value)
			}
			for _, body := range cs.Body {
				c.checkStmt(body, switchCtx)
			}
		}
	case ast.StmtReturn:
		c.checkReturn(s, ctx)
	case ast.StmtBreak:
		if !ctx.inLoop && !ctx.inSwitch {
			c.Sink.Errorf(s.Pos, "break statement not within a loop or switch")
		}
	case ast.StmtContinue:
		if !ctx.inLoop {
			c.Sink.Errorf(s.Pos, "continue statement not within a loop")
		}
	case ast.StmtAsm:
		for _, r := range s.AsmReads {
			c.checkExpr(r)
		}
		for _, w := range s.AsmWrites {
			c.checkExpr(w)
			if !isLvalue(w) {
				c.Sink.Errorf(w.Pos, "asm write operand must be an lvalue")
			}
		}
	}
}

func (c *Checker) checkVarDecl(v *ast.VarDecl) {
	if v == nil {
		return
	}
	t, ok := c.conv.ToType(v.Type)
	if !ok {
		return
	}
	scope := c.Env.CurrentScope()
	if scope == nil {
		scope = c.Env.ModuleTable()
	}
	if err := scope.Insert(symtab.NewVariable(v.Name, t)); err != nil {
		c.Sink.Errorf(v.Pos, "%q: %v", v.Name, err)
	}
	if v.Init != nil {
		initType := c.checkExpr(v.Init)
		if initType != nil && !types.Equal(initType, t) && !types.ImplicitlyConvertible(initType, t) {
			c.Sink.Errorf(v.Init.Pos, "cannot initialize %q of type %s with value of type %s", v.Name, types.String(t), types.String(initType))
		}
	}
}

func (c *Checker) checkCondition(e *ast.Expr) {
	t := c.checkExpr(e)
	if t != nil && !types.IsBool(t) {
		c.Sink.Errorf(e.Pos, "condition must have type bool, got %s", types.String(t))
	}
}

func (c *Checker) checkReturn(s *ast.Stmt, ctx context) {
	if s.Expr == nil {
		if ctx.returnType != nil && !types.IsVoid(ctx.returnType) {
			c.Sink.Errorf(s.Pos, "missing return value, function returns %s", types.String(ctx.returnType))
		}
		return
	}
	t := c.checkExpr(s.Expr)
	if t == nil || ctx.returnType == nil {
		return
	}
	if !types.Equal(t, ctx.returnType) && !types.ImplicitlyConvertible(t, ctx.returnType) {
		c.Sink.Errorf(s.Expr.Pos, "cannot return value of type %s from function returning %s", types.String(t), types.String(ctx.returnType))
	}
}

// ---- expressions ----

// checkExpr types e, writing the result into e.Type, and returns it (nil
// on unrecoverable error so callers can short-circuit further checks on
// the enclosing expression, spec §7).
func (c *Checker) checkExpr(e *ast.Expr) *types.Type {
	if e == nil {
		return nil
	}
	var t *types.Type
	switch e.Kind {
	case ast.ExprIntLit:
		t = types.NewKeyword(types.KwInt)
	case ast.ExprFloatLit:
		t = types.NewKeyword(types.KwDouble)
	case ast.ExprStringLit:
		t = types.NewPointer(types.NewQualified(types.NewKeyword(types.KwChar), true, false))
	case ast.ExprBoolLit:
		t = types.NewKeyword(types.KwBool)
	case ast.ExprIdent:
		t = c.checkIdent(e.Ident, e.Pos)
	case ast.ExprUnary:
		t = c.checkUnary(e)
	case ast.ExprAddrOf:
		t = c.checkAddrOf(e)
	case ast.ExprDeref:
		t = c.checkDeref(e)
	case ast.ExprBinary:
		t = c.checkBinary(e)
	case ast.ExprLogical:
		t = c.checkLogical(e)
	case ast.ExprCond:
		t = c.checkCond(e)
	case ast.ExprAssign:
		t = c.checkAssign(e)
	case ast.ExprIndex:
		t = c.checkIndex(e)
	case ast.ExprMember:
		t = c.checkMember(e)
	case ast.ExprCall:
		t = c.checkCall(e)
	case ast.ExprCast:
		t = c.checkCast(e)
	case ast.ExprSizeofT, ast.ExprSizeofE:
		t = c.checkSizeof(e)
	}
	e.Type = t
	return t
}

func (c *Checker) checkIdent(id *ast.Ident, pos ast.Pos) *types.Type {
	if id == nil {
		return nil
	}
	entry := c.Env.Lookup(id.Name)
	if entry == nil {
		c.Sink.Errorf(pos, "undefined identifier %q", id.Name)
		return nil
	}
	id.Entry = entry
	switch entry.Kind() {
	case symtab.KindVariable:
		return entry.VarType()
	case symtab.KindEnumConst:
		return entry.EnumConstType()
	case symtab.KindFunction:
		// Spec §4.5 does not give function values a first-class type
		// (calls resolve overloads directly, §4.2); referencing a
		// function name outside of a call has no typed use here.
		c.Sink.Errorf(pos, "%q names a function; functions are only valid as call targets", id.Name)
		return nil
	default:
		c.Sink.Errorf(pos, "%q names a %s, not a value", id.Name, entry.Kind())
		return nil
	}
}

func (c *Checker) checkUnary(e *ast.Expr) *types.Type {
	xt := c.checkExpr(e.X)
	if xt == nil {
		return nil
	}
	base := types.StripQualifiers(xt)
	switch e.Op {
	case "-":
		if !types.IsNumeric(base) {
			c.Sink.Errorf(e.Pos, "unary - requires a numeric operand, got %s", types.String(xt))
			return nil
		}
		return base
	case "!":
		if !types.IsBool(base) {
			c.Sink.Errorf(e.Pos, "! requires a bool operand, got %s", types.String(xt))
			return nil
		}
		return base
	case "~":
		if base.Variant != types.Keyword || !base.Kw.IsInteger() {
			c.Sink.Errorf(e.Pos, "~ requires an integer operand, got %s", types.String(xt))
			return nil
		}
		return base
	default:
		c.Sink.Errorf(e.Pos, "unknown unary operator %q", e.Op)
		return nil
	}
}

func (c *Checker) checkAddrOf(e *ast.Expr) *types.Type {
	xt := c.checkExpr(e.X)
	if xt == nil {
		return nil
	}
	if !isLvalue(e.X) {
		c.Sink.Errorf(e.Pos, "& requires an lvalue operand")
		return nil
	}
	return types.NewPointer(xt)
}

func (c *Checker) checkDeref(e *ast.Expr) *types.Type {
	xt := c.checkExpr(e.X)
	if xt == nil {
		return nil
	}
	base := types.StripQualifiers(xt)
	if base.Variant != types.Pointer {
		c.Sink.Errorf(e.Pos, "* requires a pointer operand, got %s", types.String(xt))
		return nil
	}
	return base.Base
}

func (c *Checker) checkBinary(e *ast.Expr) *types.Type {
	xt := c.checkExpr(e.X)
	yt := c.checkExpr(e.Y)
	if xt == nil || yt == nil {
		return nil
	}
	lhs, rhs := types.StripQualifiers(xt), types.StripQualifiers(yt)
	switch e.Op {
	case "+", "-", "*", "/", "%":
		common, ok := types.CommonNumericType(lhs, rhs)
		if !ok {
			c.Sink.Errorf(e.Pos, "%s requires numeric operands, got %s and %s", e.Op, types.String(xt), types.String(yt))
			return nil
		}
		return common
	case "&", "|", "^":
		if lhs.Variant != types.Keyword || !lhs.Kw.IsInteger() || rhs.Variant != types.Keyword || !rhs.Kw.IsInteger() {
			c.Sink.Errorf(e.Pos, "%s requires integer operands, got %s and %s", e.Op, types.String(xt), types.String(yt))
			return nil
		}
		common, _ := types.CommonNumericType(lhs, rhs)
		return common
	case "<<", ">>":
		// Spec §4.5: "shift operators require an integer LHS and a
		// single-byte integer RHS".
		if lhs.Variant != types.Keyword || !lhs.Kw.IsInteger() {
			c.Sink.Errorf(e.Pos, "%s requires an integer left operand, got %s", e.Op, types.String(xt))
			return nil
		}
		if rhs.Variant != types.Keyword || !rhs.Kw.IsInteger() || !isSingleByte(rhs.Kw) {
			c.Sink.Errorf(e.Pos, "%s requires a single-byte integer right operand, got %s", e.Op, types.String(yt))
			return nil
		}
		return lhs
	case "<", "<=", ">", ">=", "==", "!=":
		if _, ok := types.CommonNumericType(lhs, rhs); !ok && !types.Equal(lhs, rhs) {
			c.Sink.Errorf(e.Pos, "%s requires comparable operands, got %s and %s", e.Op, types.String(xt), types.String(yt))
			return nil
		}
		return types.NewKeyword(types.KwBool)
	default:
		c.Sink.Errorf(e.Pos, "unknown binary operator %q", e.Op)
		return nil
	}
}

func (c *Checker) checkLogical(e *ast.Expr) *types.Type {
	xt := c.checkExpr(e.X)
	yt := c.checkExpr(e.Y)
	if xt == nil || yt == nil {
		return nil
	}
	if !types.IsBool(types.StripQualifiers(xt)) || !types.IsBool(types.StripQualifiers(yt)) {
		c.Sink.Errorf(e.Pos, "%s requires bool operands, got %s and %s", e.Op, types.String(xt), types.String(yt))
		return nil
	}
	return types.NewKeyword(types.KwBool)
}

func (c *Checker) checkCond(e *ast.Expr) *types.Type {
	condType := c.checkExpr(e.Cond)
	thenType := c.checkExpr(e.Then)
	elseType := c.checkExpr(e.Else)
	if condType != nil && !types.IsBool(types.StripQualifiers(condType)) {
		c.Sink.Errorf(e.Cond.Pos, "?: condition must have type bool, got %s", types.String(condType))
	}
	if thenType == nil || elseType == nil {
		return nil
	}
	if types.Equal(thenType, elseType) {
		return thenType
	}
	if common, ok := types.CommonNumericType(thenType, elseType); ok {
		return common
	}
	if types.ImplicitlyConvertible(thenType, elseType) {
		return elseType
	}
	if types.ImplicitlyConvertible(elseType, thenType) {
		return thenType
	}
	c.Sink.Errorf(e.Pos, "?: branches have incompatible types %s and %s", types.String(thenType), types.String(elseType))
	return nil
}

func (c *Checker) checkAssign(e *ast.Expr) *types.Type {
	lt := c.checkExpr(e.X)
	rt := c.checkExpr(e.Y)
	if lt == nil || rt == nil {
		return nil
	}
	if !isLvalue(e.X) {
		c.Sink.Errorf(e.Pos, "left side of %s must be an lvalue", e.Op)
		return nil
	}
	if e.Op != "=" {
		// Compound assignment (+=, -=, ...): the arithmetic rule for the
		// bare operator must hold between LHS and RHS before the
		// assignability check below applies.
		if !types.IsNumeric(lt) || !types.IsNumeric(rt) {
			c.Sink.Errorf(e.Pos, "%s requires numeric operands, got %s and %s", e.Op, types.String(lt), types.String(rt))
			return nil
		}
	}
	if !types.Equal(lt, rt) && !types.ImplicitlyConvertible(rt, lt) {
		c.Sink.Errorf(e.Pos, "cannot assign value of type %s to lvalue of type %s", types.String(rt), types.String(lt))
		return nil
	}
	return lt
}

func (c *Checker) checkIndex(e *ast.Expr) *types.Type {
	baseType := c.checkExpr(e.X)
	idxType := c.checkExpr(e.Y)
	if baseType == nil || idxType == nil {
		return nil
	}
	base := types.StripQualifiers(baseType)
	if !types.IsPointerOrArray(base) {
		c.Sink.Errorf(e.Pos, "subscript requires an array or pointer base, got %s", types.String(baseType))
		return nil
	}
	if idxType.Variant != types.Keyword || !idxType.Kw.IsInteger() {
		c.Sink.Errorf(e.Y.Pos, "subscript index must be an integer, got %s", types.String(idxType))
		return nil
	}
	return types.ElementType(base)
}

func (c *Checker) checkMember(e *ast.Expr) *types.Type {
	baseType := c.checkExpr(e.X)
	if baseType == nil {
		return nil
	}
	base := types.StripQualifiers(baseType)
	compositeType := base
	if e.Arrow {
		if base.Variant != types.Pointer {
			c.Sink.Errorf(e.Pos, "-> requires a pointer operand, got %s", types.String(baseType))
			return nil
		}
		compositeType = types.StripQualifiers(base.Base)
	} else if base.Variant == types.Pointer {
		c.Sink.Errorf(e.Pos, "use -> to access a member through a pointer")
		return nil
	}
	entry := c.resolveComposite(compositeType)
	if entry == nil {
		c.Sink.Errorf(e.Pos, "%s is not a struct or union", types.String(baseType))
		return nil
	}
	for _, f := range entry.Fields() {
		if f.Name == e.Member {
			return f.Type
		}
	}
	c.Sink.Errorf(e.Pos, "%s has no member %q", entry.Name(), e.Member)
	return nil
}

// resolveComposite returns the struct/union entry t names, following
// opaque forward-declaration links to their definition, or nil if t does
// not name a struct or union.
func (c *Checker) resolveComposite(t *types.Type) *symtab.Entry {
	if t == nil || t.Variant != types.Reference {
		return nil
	}
	se, ok := t.RefEntry.(*symtab.Entry)
	if !ok {
		return nil
	}
	for se.Kind() == symtab.KindOpaque {
		if se.Definition() == nil {
			return nil
		}
		se = se.Definition()
	}
	if se.Kind() != symtab.KindStruct && se.Kind() != symtab.KindUnion {
		return nil
	}
	return se
}

func (c *Checker) checkCall(e *ast.Expr) *types.Type {
	if e.Callee.Kind != ast.ExprIdent {
		c.Sink.Errorf(e.Pos, "call target must be a plain function name")
		return nil
	}
	entry := c.Env.Lookup(e.Callee.Ident.Name)
	if entry == nil {
		c.Sink.Errorf(e.Pos, "undefined function %q", e.Callee.Ident.Name)
		return nil
	}
	if entry.Kind() != symtab.KindFunction {
		c.Sink.Errorf(e.Pos, "%q is not a function", e.Callee.Ident.Name)
		return nil
	}
	e.Callee.Ident.Entry = entry

	argTypes := make([]*types.Type, 0, len(e.Args))
	ok := true
	for _, a := range e.Args {
		at := c.checkExpr(a)
		if at == nil {
			ok = false
			continue
		}
		argTypes = append(argTypes, at)
	}
	if !ok {
		return nil
	}

	overload, err := entry.Overloads().Resolve(argTypes)
	if err != nil {
		c.Sink.Errorf(e.Pos, "call to %q: %v", e.Callee.Ident.Name, err)
		return nil
	}
	return overload.Return
}

func (c *Checker) checkCast(e *ast.Expr) *types.Type {
	xt := c.checkExpr(e.X)
	target, ok := c.conv.ToType(e.CastType)
	if !ok || xt == nil {
		return nil
	}
	if types.Equal(xt, target) {
		return target
	}
	numericOrPointer := func(t *types.Type) bool {
		return types.IsNumeric(t) || t.Variant == types.Pointer
	}
	if !numericOrPointer(xt) || !numericOrPointer(target) {
		c.Sink.Errorf(e.Pos, "cast requires numeric or pointer operand and target, got %s to %s", types.String(xt), types.String(target))
		return nil
	}
	return target
}

func (c *Checker) checkSizeof(e *ast.Expr) *types.Type {
	if e.Kind == ast.ExprSizeofT {
		c.conv.ToType(e.CastType)
	} else {
		c.checkExpr(e.X)
	}
	return types.NewKeyword(types.KwULong)
}

// ---- constant folding (typeconv.ConstEvaluator) ----

// Fold evaluates e as a compile-time constant, as required by C3 for
// array-length expressions (spec §4.3: "astToType ... folds array-size
// expressions to constants"). It supports integer literals, references
// to already-resolved enum constants, unary minus, and binary + - * /
// (division by zero fails); anything else fails.
func (c *Checker) Fold(e *ast.Expr) (value uint64, kind types.Kw, ok bool) {
	if e == nil {
		return 0, 0, false
	}
	switch e.Kind {
	case ast.ExprIntLit:
		return uint64(e.IntVal), types.KwUInt, true
	case ast.ExprIdent:
		entry := c.Env.Lookup(e.Ident.Name)
		if entry == nil || entry.Kind() != symtab.KindEnumConst {
			return 0, 0, false
		}
		e.Ident.Entry = entry
		return uint64(entry.EnumConstValue()), types.KwUInt, true
	case ast.ExprUnary:
		if e.Op != "-" {
			return 0, 0, false
		}
		v, k, ok := c.Fold(e.X)
		if !ok {
			return 0, 0, false
		}
		return uint64(-int64(v)), k, true
	case ast.ExprBinary:
		lv, lk, lok := c.Fold(e.X)
		rv, _, rok := c.Fold(e.Y)
		if !lok || !rok {
			return 0, 0, false
		}
		switch e.Op {
		case "+":
			return lv + rv, lk, true
		case "-":
			return lv - rv, lk, true
		case "*":
			return lv * rv, lk, true
		case "/":
			if rv == 0 {
				return 0, 0, false
			}
			return lv / rv, lk, true
		}
	}
	return 0, 0, false
}

// isLvalue reports whether e denotes an addressable storage location
// (spec §4.5: "assignment operators require an lvalue on the LHS"):
// identifiers, dereferences, subscripts, and member accesses are
// lvalues; everything else (literals, calls, casts, arithmetic results,
// ...) is not.
func isLvalue(e *ast.Expr) bool {
	if e == nil {
		return false
	}
	switch e.Kind {
	case ast.ExprIdent, ast.ExprDeref, ast.ExprIndex, ast.ExprMember:
		return true
	default:
		return false
	}
}

func isSingleByte(kw types.Kw) bool {
	return kw == types.KwByte || kw == types.KwUByte || kw == types.KwChar
}
