package translate

import (
	"math"

	"github.com/kittywantsbacon/TCompiler/internal/ast"
	"github.com/kittywantsbacon/TCompiler/internal/ir"
	"github.com/kittywantsbacon/TCompiler/internal/symtab"
	"github.com/kittywantsbacon/TCompiler/internal/types"
)

// funcTranslator holds the state threaded through the translation of one
// function body: its Builder, its Frame, and the Access each local
// (parameter or block-scope variable) was bound to. Mirrors the
// Checker/context split in internal/check — one long-lived struct per
// function, a lighter-weight value (ir.Operand results) passed back up
// the recursive walk.
type funcTranslator struct {
	t     *Translator
	b     *Builder
	frame Frame

	// scopes is a stack of name->Access maps, one per open compound
	// statement/loop/function body, mirroring internal/symtab.
	// Environment's own innermost-first scope stack (C2) — kept
	// independently of the Environment here because the Entry objects
	// C5 bound into the AST belong to scopes CheckFunction already
	// popped by the time translation runs; re-resolving locals by name
	// against this function-local stack sidesteps that mismatch, while
	// globals/functions (module-table entries, never popped) are still
	// looked up directly through Ident.Entry.
	scopes []map[string]Access

	retType *types.Type
	retHint ir.AllocHint

	// addressTaken holds the name of every local whose address is taken
	// somewhere in this function body (computed once, up front, by
	// collectAddressTaken in stmt.go), forcing that local's Access onto
	// MEM storage even when its type would otherwise sit in a GP/FP
	// register (spec §3: ADDROF's source operand must already be
	// MEM-allocated).
	addressTaken map[string]bool

	// extraFrags accumulates auxiliary fragments a statement lowering
	// needs alongside this function's own TEXT fragment — currently just
	// the RODATA jump tables translateSwitch builds for dense switches.
	extraFrags []*ir.Fragment
}

// pushScope opens a new local-variable scope.
func (ft *funcTranslator) pushScope() { ft.scopes = append(ft.scopes, make(map[string]Access)) }

// popScope closes the innermost local-variable scope.
func (ft *funcTranslator) popScope() { ft.scopes = ft.scopes[:len(ft.scopes)-1] }

// declareLocal binds name to access in the innermost open scope.
func (ft *funcTranslator) declareLocal(name string, access Access) {
	ft.scopes[len(ft.scopes)-1][name] = access
}

// lookupLocal finds name in the scope stack, innermost first.
func (ft *funcTranslator) lookupLocal(name string) (Access, bool) {
	for i := len(ft.scopes) - 1; i >= 0; i-- {
		if a, ok := ft.scopes[i][name]; ok {
			return a, true
		}
	}
	return nil, false
}

// hintFor returns the allocation hint a local named name of type t
// should be bound with: MEM if its address is taken anywhere in the
// function, otherwise the type-driven hint.
func (ft *funcTranslator) hintFor(name string, t *types.Type) ir.AllocHint {
	if ft.addressTaken[name] {
		return ir.AllocMEM
	}
	return allocHintForType(t)
}

// accessFor returns the Access bound to id: a local if one is in scope
// under id's bare name, otherwise the module-level global or function
// Access (created on first reference, keyed by the module the
// identifier was written against — its own module if unqualified, else
// the "mod::name" prefix it names).
func (ft *funcTranslator) accessFor(id *ast.Ident) Access {
	if a, ok := ft.lookupLocal(id.Name); ok {
		return a
	}
	module, name := moduleAndNameFromWritten(id.Name, ft.t.moduleName())
	if id.Entry.Kind() == symtab.KindFunction {
		return ft.t.functionAccessFor(id.Entry, module, name)
	}
	return ft.t.globalAccessFor(id.Entry, module, name)
}

// translateExpr lowers e to the operand holding its value.
func (ft *funcTranslator) translateExpr(e *ast.Expr) ir.Operand {
	switch e.Kind {
	case ast.ExprIntLit:
		return ft.constOperand(e.Type, uint64(e.IntVal))
	case ast.ExprBoolLit:
		v := uint64(0)
		if e.BoolVal {
			v = 1
		}
		return ir.NewConstant(1, ir.NewByteDatum(uint8(v)))
	case ast.ExprFloatLit:
		return ft.floatConstOperand(e.Type, e.FloatVal)
	case ast.ExprStringLit:
		return ft.stringLiteral(e.StringVal)
	case ast.ExprIdent:
		return ft.translateIdent(e.Ident)
	case ast.ExprUnary:
		return ft.translateUnary(e)
	case ast.ExprBinary:
		return ft.translateBinary(e)
	case ast.ExprLogical:
		return ft.translateLogical(e)
	case ast.ExprCond:
		return ft.translateCond(e)
	case ast.ExprAssign:
		return ft.translateAssign(e)
	case ast.ExprIndex, ast.ExprMember:
		addr := ft.translateAddress(e)
		dst := ft.b.NewTemp(types.Alignof(e.Type), types.Sizeof(e.Type), allocHintForType(e.Type))
		ft.b.Emit(ir.NewInstruction(ir.OpMemLoad, dst, addr, zeroOffset()))
		return dst
	case ast.ExprCall:
		return ft.translateCall(e)
	case ast.ExprCast:
		return ft.translateCast(e)
	case ast.ExprSizeofT, ast.ExprSizeofE:
		return ft.translateSizeof(e)
	case ast.ExprAddrOf:
		return ft.translateAddress(e.X)
	case ast.ExprDeref:
		dst := ft.b.NewTemp(types.Alignof(e.Type), types.Sizeof(e.Type), allocHintForType(e.Type))
		ptr := ft.translateExpr(e.X)
		ft.b.Emit(ir.NewInstruction(ir.OpMemLoad, dst, ptr, zeroOffset()))
		return dst
	default:
		ft.t.internalError(e.Pos, "translate: unhandled expression kind %d", e.Kind)
		return ir.NewConstant(1, ir.NewByteDatum(0))
	}
}

func (ft *funcTranslator) constOperand(t *types.Type, v uint64) ir.Operand {
	size := types.Sizeof(t)
	return ir.NewConstant(size, sizedIntDatum(v, size))
}

func (ft *funcTranslator) floatConstOperand(t *types.Type, f float64) ir.Operand {
	base := types.StripQualifiers(t)
	if base != nil && base.Kw == types.KwFloat {
		return ir.NewConstant(4, ir.NewIntDatum(math.Float32bits(float32(f))))
	}
	return ir.NewConstant(8, ir.NewLongDatum(math.Float64bits(f)))
}

// stringLiteral lowers a string literal to its own RODATA fragment
// (spec §4.7's constant-fragment model) rather than an inline constant
// operand: a repeated literal then becomes a candidate for
// internal/fragdedup to canonicalize after TranslateFile collects every
// fragment this function contributed.
func (ft *funcTranslator) stringLiteral(s string) ir.Operand {
	label := ft.b.NewLabel()
	frag := ir.NewLocalDataFragment(ir.SectionRODATA, label, 1)
	frag.Data = []ir.Datum{ir.NewStringDatum([]byte(s))}
	ft.extraFrags = append(ft.extraFrags, frag)
	return ir.NewLocalOperand(label)
}

// translateIdent loads a plain identifier reference (variable, enum
// constant, or bare function name used as a call target never reaches
// here — calls are lowered in translateCall).
func (ft *funcTranslator) translateIdent(id *ast.Ident) ir.Operand {
	if id.Entry == nil {
		ft.t.internalError(id.Pos, "identifier %q has no resolved entry", id.Name)
		return ir.NewConstant(1, ir.NewByteDatum(0))
	}
	if id.Entry.Kind() == symtab.KindEnumConst {
		return ft.constOperand(id.Entry.EnumConstType(), uint64(id.Entry.EnumConstValue()))
	}
	return ft.accessFor(id).Load(ft.b)
}

// moduleAndNameFromWritten splits a possibly "mod::name"-qualified
// identifier as written in source into its owning module and bare name,
// defaulting to the current module for an unqualified reference (spec
// §6: mangled labels are "module::name").
func moduleAndNameFromWritten(written, current string) (module, name string) {
	if m, n, ok := Demangle(written); ok {
		return m, n
	}
	return current, written
}

func (ft *funcTranslator) translateUnary(e *ast.Expr) ir.Operand {
	x := ft.translateExpr(e.X)
	t := types.StripQualifiers(e.Type)
	size, align := types.Sizeof(e.Type), types.Alignof(e.Type)
	switch e.Op {
	case "+":
		return x
	case "-":
		if t.Kw.IsFloat() {
			dst := ft.b.NewTemp(align, size, ir.AllocFP)
			ft.b.Emit(ir.NewInstruction(ir.OpFNeg, dst, x))
			return dst
		}
		dst := ft.b.NewTemp(align, size, ir.AllocGP)
		ft.b.Emit(ir.NewInstruction(ir.OpNeg, dst, x))
		return dst
	case "~":
		dst := ft.b.NewTemp(align, size, ir.AllocGP)
		ft.b.Emit(ir.NewInstruction(ir.OpNot, dst, x))
		return dst
	case "!":
		dst := ft.b.NewTemp(1, 1, ir.AllocGP)
		ft.b.Emit(ir.NewInstruction(ir.OpLNot, dst, x))
		return dst
	default:
		ft.t.internalError(e.Pos, "translate: unhandled unary operator %q", e.Op)
		return x
	}
}

// translateAddress lowers e as a pointer-valued operand naming e's
// storage, for &e, for a[i]/a.b/a->b lowering, and for the LHS of an
// assignment through one of those forms.
func (ft *funcTranslator) translateAddress(e *ast.Expr) ir.Operand {
	switch e.Kind {
	case ast.ExprIdent:
		access := ft.accessFor(e.Ident)
		return access.Address(ft.b)
	case ast.ExprDeref:
		return ft.translateExpr(e.X)
	case ast.ExprIndex:
		baseType := types.StripQualifiers(e.X.Type)
		var base ir.Operand
		if baseType.Variant == types.Array {
			base = ft.translateAddress(e.X)
		} else {
			base = ft.translateExpr(e.X)
		}
		elemSize := types.Sizeof(types.ElementType(baseType))
		idx := ft.translateExpr(e.Y)
		offset := ft.scaleIndex(idx, elemSize)
		dst := ft.b.NewTemp(ir.PointerWidth, ir.PointerWidth, ir.AllocGP)
		ft.b.Emit(ir.NewInstruction(ir.OpAdd, dst, base, offset))
		return dst
	case ast.ExprMember:
		baseType := types.StripQualifiers(e.X.Type)
		var base ir.Operand
		compositeType := baseType
		if e.Arrow {
			base = ft.translateExpr(e.X)
			compositeType = types.StripQualifiers(baseType.Base)
		} else {
			base = ft.translateAddress(e.X)
		}
		offset, ok := ft.fieldOffset(compositeType, e.Member)
		if !ok {
			ft.t.internalError(e.Pos, "translate: member %q not found while lowering", e.Member)
			return base
		}
		if offset == 0 {
			return base
		}
		dst := ft.b.NewTemp(ir.PointerWidth, ir.PointerWidth, ir.AllocGP)
		ft.b.Emit(ir.NewInstruction(ir.OpAdd, dst, base, ir.NewConstant(ir.PointerWidth, ir.NewLongDatum(offset))))
		return dst
	default:
		ft.t.internalError(e.Pos, "translate: %d is not addressable", e.Kind)
		return ir.NewConstant(ir.PointerWidth, ir.NewLongDatum(0))
	}
}

// scaleIndex computes idx*elemSize as a byte offset operand, folding the
// multiplication at translate time when idx is a single 8-byte (long)
// constant; any other index is zero-extended and multiplied at run time.
func (ft *funcTranslator) scaleIndex(idx ir.Operand, elemSize uint64) ir.Operand {
	if idx.Kind == ir.OperandConstant && len(idx.Data) == 1 && idx.Data[0].Kind == ir.DatumLong {
		return ir.NewConstant(ir.PointerWidth, ir.NewLongDatum(idx.Data[0].Long*elemSize))
	}
	widened := ft.b.NewTemp(ir.PointerWidth, ir.PointerWidth, ir.AllocGP)
	ft.b.Emit(ir.NewInstruction(ir.OpZX, widened, idx))
	scale := ir.NewConstant(ir.PointerWidth, ir.NewLongDatum(elemSize))
	dst := ft.b.NewTemp(ir.PointerWidth, ir.PointerWidth, ir.AllocGP)
	ft.b.Emit(ir.NewInstruction(ir.OpUMul, dst, widened, scale))
	return dst
}

// fieldOffset computes the byte offset of member within compositeType's
// struct/union entry, following the same field-order/alignment rule as
// types.Sizeof.
func (ft *funcTranslator) fieldOffset(compositeType *types.Type, member string) (uint64, bool) {
	if compositeType.Variant != types.Reference {
		return 0, false
	}
	sized, ok := compositeType.RefEntry.(types.Sized)
	if !ok {
		return 0, false
	}
	if sized.IsUnion() {
		entry, ok := compositeType.RefEntry.(*symtab.Entry)
		if !ok {
			return 0, false
		}
		for _, f := range entry.Fields() {
			if f.Name == member {
				return 0, true
			}
		}
		return 0, false
	}
	entry, ok := compositeType.RefEntry.(*symtab.Entry)
	if !ok {
		return 0, false
	}
	var offset uint64
	for _, f := range entry.Fields() {
		offset = alignUpPublic(offset, types.Alignof(f.Type))
		if f.Name == member {
			return offset, true
		}
		offset += types.Sizeof(f.Type)
	}
	return 0, false
}

// alignUpPublic mirrors types' unexported alignUp (duplicated here since
// it is not part of that package's exported surface; both copies must
// agree, and both are the conventional padding formula).
func alignUpPublic(offset, align uint64) uint64 {
	if align == 0 {
		return offset
	}
	if rem := offset % align; rem != 0 {
		return offset + (align - rem)
	}
	return offset
}

func (ft *funcTranslator) translateBinary(e *ast.Expr) ir.Operand {
	x := ft.translateExpr(e.X)
	y := ft.translateExpr(e.Y)
	xt := types.StripQualifiers(e.X.Type)
	isFloat := xt.Variant == types.Keyword && xt.Kw.IsFloat()
	isUnsigned := xt.Variant == types.Keyword && xt.Kw.IsUnsigned()

	if op, isCompare := compareOp(e.Op, isFloat, isUnsigned); isCompare {
		dst := ft.b.NewTemp(1, 1, ir.AllocGP)
		ft.b.Emit(ir.NewInstruction(op, dst, x, y))
		return dst
	}

	size, align := types.Sizeof(e.Type), types.Alignof(e.Type)
	if isFloat {
		dst := ft.b.NewTemp(align, size, ir.AllocFP)
		ft.b.Emit(ir.NewInstruction(floatArithOp(e.Op), dst, x, y))
		return dst
	}
	if op, isShift := shiftOp(e.Op); isShift {
		dst := ft.b.NewTemp(align, size, ir.AllocGP)
		ft.b.Emit(ir.NewInstruction(op, dst, x, y))
		return dst
	}
	dst := ft.b.NewTemp(align, size, ir.AllocGP)
	ft.b.Emit(ir.NewInstruction(intArithOp(e.Op, isUnsigned), dst, x, y))
	return dst
}

func intArithOp(op string, unsigned bool) ir.Operator {
	switch op {
	case "+":
		return ir.OpAdd
	case "-":
		return ir.OpSub
	case "*":
		if unsigned {
			return ir.OpUMul
		}
		return ir.OpSMul
	case "/":
		if unsigned {
			return ir.OpUDiv
		}
		return ir.OpSDiv
	case "%":
		if unsigned {
			return ir.OpUMod
		}
		return ir.OpSMod
	case "&":
		return ir.OpAnd
	case "|":
		return ir.OpOr
	case "^":
		return ir.OpXor
	}
	return ir.OpNop
}

func floatArithOp(op string) ir.Operator {
	switch op {
	case "+":
		return ir.OpFAdd
	case "-":
		return ir.OpFSub
	case "*":
		return ir.OpFMul
	case "/":
		return ir.OpFDiv
	case "%":
		return ir.OpFMod
	}
	return ir.OpNop
}

func shiftOp(op string) (ir.Operator, bool) {
	switch op {
	case "<<":
		return ir.OpSLL, true
	case ">>":
		return ir.OpSAR, true
	}
	return ir.OpNop, false
}

// compareOp maps a relational/equality operator spelling to its
// typed IR comparison opcode.
func compareOp(op string, isFloat, isUnsigned bool) (ir.Operator, bool) {
	if isFloat {
		switch op {
		case "<":
			return ir.OpFL, true
		case "<=":
			return ir.OpFLE, true
		case "==":
			return ir.OpFE, true
		case "!=":
			return ir.OpFNE, true
		case ">":
			return ir.OpFG, true
		case ">=":
			return ir.OpFGE, true
		}
		return ir.OpNop, false
	}
	switch op {
	case "<":
		if isUnsigned {
			return ir.OpB, true
		}
		return ir.OpL, true
	case "<=":
		if isUnsigned {
			return ir.OpBE, true
		}
		return ir.OpLE, true
	case "==":
		return ir.OpE, true
	case "!=":
		return ir.OpNE, true
	case ">":
		if isUnsigned {
			return ir.OpA, true
		}
		return ir.OpG, true
	case ">=":
		if isUnsigned {
			return ir.OpAE, true
		}
		return ir.OpGE, true
	}
	return ir.OpNop, false
}

// translateLogical lowers && and || as a diamond CFG (spec §4.7): the
// result temp is written from both the short-circuit path and the
// fully-evaluated path, legal because this IR is flat three-address code
// rather than SSA (spec §4.6), so re-assigning one temp from two
// distinct predecessor blocks needs no phi node.
func (ft *funcTranslator) translateLogical(e *ast.Expr) ir.Operand {
	x := ft.translateExpr(e.X)
	result := ft.b.NewTemp(1, 1, ir.AllocGP)

	shortCircuit := ft.b.NewLabel()
	evalRHS := ft.b.NewLabel()
	join := ft.b.NewLabel()

	if e.Op == "&&" {
		ft.b.Emit(ir.NewInstruction(ir.OpJ2Z, ir.NewLocalOperand(shortCircuit), ir.NewLocalOperand(evalRHS), x))
	} else {
		ft.b.Emit(ir.NewInstruction(ir.OpJ2NZ, ir.NewLocalOperand(shortCircuit), ir.NewLocalOperand(evalRHS), x))
	}

	ft.b.OpenBlock(shortCircuit)
	shortVal := uint64(0)
	if e.Op == "||" {
		shortVal = 1
	}
	ft.b.Emit(ir.NewInstruction(ir.OpMove, result, ir.NewConstant(1, ir.NewByteDatum(uint8(shortVal)))))
	ft.b.Jump(join)

	ft.b.OpenBlock(evalRHS)
	y := ft.translateExpr(e.Y)
	truthy := ft.b.NewTemp(1, 1, ir.AllocGP)
	ft.b.Emit(ir.NewInstruction(ir.OpNZ, truthy, y))
	ft.b.Emit(ir.NewInstruction(ir.OpMove, result, truthy))
	ft.b.Jump(join)

	ft.b.OpenBlock(join)
	return result
}

// translateCond lowers x ? y : z as a diamond CFG, the ternary analogue
// of translateLogical.
func (ft *funcTranslator) translateCond(e *ast.Expr) ir.Operand {
	cond := ft.translateExpr(e.Cond)
	size, align := types.Sizeof(e.Type), types.Alignof(e.Type)
	hint := allocHintForType(e.Type)
	result := ft.b.NewTemp(align, size, hint)

	thenLabel := ft.b.NewLabel()
	elseLabel := ft.b.NewLabel()
	join := ft.b.NewLabel()

	ft.b.Emit(ir.NewInstruction(ir.OpJ2Z, ir.NewLocalOperand(elseLabel), ir.NewLocalOperand(thenLabel), cond))

	ft.b.OpenBlock(thenLabel)
	thenVal := ft.translateExpr(e.Then)
	ft.b.Emit(ir.NewInstruction(ir.OpMove, result, thenVal))
	ft.b.Jump(join)

	ft.b.OpenBlock(elseLabel)
	elseVal := ft.translateExpr(e.Else)
	ft.b.Emit(ir.NewInstruction(ir.OpMove, result, elseVal))
	ft.b.Jump(join)

	ft.b.OpenBlock(join)
	return result
}

// translateAssign lowers =, +=, -=, ... An lvalue is either a plain
// identifier (handled through its Access directly) or an
// index/member/deref form (handled through translateAddress +
// MEM_STORE/MEM_LOAD, spec §4.7).
func (ft *funcTranslator) translateAssign(e *ast.Expr) ir.Operand {
	rhs := ft.translateExpr(e.Y)
	if e.Op != "=" {
		cur := ft.translateExpr(e.X)
		baseOp := e.Op[:len(e.Op)-1]
		xt := types.StripQualifiers(e.Type)
		size, align := types.Sizeof(e.Type), types.Alignof(e.Type)
		hint := allocHintForType(e.Type)
		isFloat := xt.Variant == types.Keyword && xt.Kw.IsFloat()
		isUnsigned := xt.Variant == types.Keyword && xt.Kw.IsUnsigned()
		dst := ft.b.NewTemp(align, size, hint)
		if isFloat {
			ft.b.Emit(ir.NewInstruction(floatArithOp(baseOp), dst, cur, rhs))
		} else if op, isShift := shiftOp(baseOp); isShift {
			ft.b.Emit(ir.NewInstruction(op, dst, cur, rhs))
		} else {
			ft.b.Emit(ir.NewInstruction(intArithOp(baseOp, isUnsigned), dst, cur, rhs))
		}
		rhs = dst
	}

	if e.X.Kind == ast.ExprIdent {
		access := ft.accessFor(e.X.Ident)
		access.Store(ft.b, rhs)
		return rhs
	}
	addr := ft.translateAddress(e.X)
	ft.b.Emit(ir.NewInstruction(ir.OpMemStore, addr, rhs, zeroOffset()))
	return rhs
}

// translateCall lowers a call expression: each argument is placed in its
// calling-convention slot, then CALL targets the callee's Access, then
// (for a non-void return) the result is read back from the return slot
// (spec scenario 1: "parameter move ... MOVE to return slot, RETURN" —
// the caller's side of that same convention reads the slot back).
func (ft *funcTranslator) translateCall(e *ast.Expr) ir.Operand {
	entry := e.Callee.Ident.Entry
	if entry == nil {
		ft.t.internalError(e.Pos, "call target has no resolved entry")
		return ir.NewConstant(1, ir.NewByteDatum(0))
	}
	argTypes := make([]*types.Type, len(e.Args))
	for i, a := range e.Args {
		argTypes[i] = a.Type
	}
	overload, err := entry.Overloads().Resolve(argTypes)
	if err != nil {
		ft.t.internalError(e.Pos, "call to %q: %v", e.Callee.Ident.Name, err)
		overload = &symtab.Overload{Return: e.Type, Params: argTypes}
	}

	for i, a := range e.Args {
		val := ft.translateExpr(a)
		pt := argTypes[i]
		if i < len(overload.Params) {
			pt = overload.Params[i]
		}
		hint := allocHintForType(pt)
		slot := ft.frame.ParamSlot(i, types.Sizeof(pt), hint)
		ft.b.Emit(ir.NewInstruction(ir.OpMove, slot, val))
	}

	module, name := moduleAndNameFromWritten(e.Callee.Ident.Name, ft.t.moduleName())
	target := ft.t.functionAccessFor(entry, module, name).Address(ft.b)
	ft.b.Emit(ir.NewInstruction(ir.OpCall, target))

	if types.IsVoid(overload.Return) {
		return ir.Operand{}
	}
	hint := allocHintForType(overload.Return)
	size, align := types.Sizeof(overload.Return), types.Alignof(overload.Return)
	slot := ft.frame.ReturnSlot(size, hint)
	dst := ft.b.NewTemp(align, size, hint)
	ft.b.Emit(ir.NewInstruction(ir.OpMove, dst, slot))
	return dst
}

func (ft *funcTranslator) translateCast(e *ast.Expr) ir.Operand {
	x := ft.translateExpr(e.X)
	src := types.StripQualifiers(e.X.Type)
	dst := types.StripQualifiers(e.Type)
	srcSize, dstSize := types.Sizeof(src), types.Sizeof(dst)
	align := types.Alignof(e.Type)
	hint := allocHintForType(e.Type)

	if types.Equal(src, dst) {
		return x
	}

	srcFloat := src.Variant == types.Keyword && src.Kw.IsFloat()
	dstFloat := dst.Variant == types.Keyword && dst.Kw.IsFloat()

	out := ft.b.NewTemp(align, dstSize, hint)
	switch {
	case srcFloat && dstFloat:
		ft.b.Emit(ir.NewInstruction(ir.OpFResize, out, x))
	case srcFloat && !dstFloat:
		ft.b.Emit(ir.NewInstruction(ir.OpF2I, out, x))
	case !srcFloat && dstFloat:
		if src.Variant == types.Keyword && src.Kw.IsUnsigned() {
			ft.b.Emit(ir.NewInstruction(ir.OpU2F, out, x))
		} else {
			ft.b.Emit(ir.NewInstruction(ir.OpS2F, out, x))
		}
	case dstSize > srcSize:
		if src.Variant == types.Keyword && src.Kw.IsUnsigned() {
			ft.b.Emit(ir.NewInstruction(ir.OpZX, out, x))
		} else {
			ft.b.Emit(ir.NewInstruction(ir.OpSX, out, x))
		}
	case dstSize < srcSize:
		ft.b.Emit(ir.NewInstruction(ir.OpTrunc, out, x))
	default:
		ft.b.Emit(ir.NewInstruction(ir.OpMove, out, x))
	}
	return out
}

func (ft *funcTranslator) translateSizeof(e *ast.Expr) ir.Operand {
	var target *types.Type
	if e.Kind == ast.ExprSizeofT {
		conv := ft.t.sizeofConverter()
		target, _ = conv.ToType(e.CastType)
	} else {
		target = e.X.Type
	}
	return ft.constOperand(types.NewKeyword(types.KwULong), types.Sizeof(target))
}
