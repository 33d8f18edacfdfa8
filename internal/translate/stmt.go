package translate

import (
	"github.com/kittywantsbacon/TCompiler/internal/asminfo"
	"github.com/kittywantsbacon/TCompiler/internal/ast"
	"github.com/kittywantsbacon/TCompiler/internal/ir"
	"github.com/kittywantsbacon/TCompiler/internal/typeconv"
	"github.com/kittywantsbacon/TCompiler/internal/types"
)

// jumpTableDensity is the minimum (case count)/(value range) ratio a
// switch's case values must reach before translateSwitch prefers a
// JUMPTABLE dispatch over a linear compare chain (spec §4.7 names both
// paths). A sparse set of case values wastes more RODATA than it saves
// in compares, so only a sufficiently dense, mostly-covered range earns
// the table.
const jumpTableDensity = 0.5

// jumpTableMinCases is the smallest case count worth a table's fixed
// cost (the bounds check plus the RODATA fragment itself).
const jumpTableMinCases = 5

// translateStmt lowers one statement into the current function's blocks.
func (ft *funcTranslator) translateStmt(s *ast.Stmt) {
	if s == nil {
		return
	}
	switch s.Kind {
	case ast.StmtExpr:
		if s.Expr != nil {
			ft.translateExpr(s.Expr)
		}
	case ast.StmtCompound:
		ft.pushScope()
		for _, inner := range s.Body {
			ft.translateStmt(inner)
		}
		ft.popScope()
	case ast.StmtVarDecl:
		ft.translateVarDecl(s.Var)
	case ast.StmtIf:
		ft.translateIf(s)
	case ast.StmtWhile:
		ft.translateWhile(s)
	case ast.StmtDoWhile:
		ft.translateDoWhile(s)
	case ast.StmtFor:
		ft.translateFor(s)
	case ast.StmtSwitch:
		ft.translateSwitch(s)
	case ast.StmtReturn:
		ft.translateReturn(s)
	case ast.StmtBreak:
		if target, ok := ft.b.BreakTarget(); ok {
			ft.b.Jump(target)
		} else {
			ft.t.internalError(s.Pos, "break outside any loop or switch")
		}
	case ast.StmtContinue:
		if target, ok := ft.b.ContinueTarget(); ok {
			ft.b.Jump(target)
		} else {
			ft.t.internalError(s.Pos, "continue outside any loop")
		}
	case ast.StmtAsm:
		ft.translateAsm(s)
	default:
		ft.t.internalError(s.Pos, "translate: unhandled statement kind %d", s.Kind)
	}
}

// translateVarDecl lowers a block-scope variable declaration. v.Type
// carries no resolved *types.Type of its own (internal/check's
// checkVarDecl converts it fresh every time too), so translation
// re-derives it the same way.
func (ft *funcTranslator) translateVarDecl(v *ast.VarDecl) {
	if v == nil {
		return
	}
	conv := typeconv.NewConverter(ft.t.Env, ft.t.Sink, ft.t.Options, foldConst)
	t, ok := conv.ToType(v.Type)
	if !ok {
		ft.t.internalError(v.Pos, "%q: could not resolve declared type", v.Name)
		return
	}
	hint := ft.hintFor(v.Name, t)
	access := ft.frame.AllocLocal(types.Sizeof(t), types.Alignof(t), hint)
	ft.declareLocal(v.Name, access)
	if v.Init != nil {
		access.Store(ft.b, ft.translateExpr(v.Init))
	}
}

// translateIf lowers if/else as a two- or three-way branch (spec §4.7).
func (ft *funcTranslator) translateIf(s *ast.Stmt) {
	cond := ft.translateExpr(s.Cond)
	thenLabel := ft.b.NewLabel()
	after := ft.b.NewLabel()

	if s.Else == nil {
		ft.b.Emit(ir.NewInstruction(ir.OpJ2Z, ir.NewLocalOperand(after), ir.NewLocalOperand(thenLabel), cond))
		ft.b.OpenBlock(thenLabel)
		ft.translateStmt(s.Then)
		ft.b.Jump(after)
		ft.b.OpenBlock(after)
		return
	}

	elseLabel := ft.b.NewLabel()
	ft.b.Emit(ir.NewInstruction(ir.OpJ2Z, ir.NewLocalOperand(elseLabel), ir.NewLocalOperand(thenLabel), cond))
	ft.b.OpenBlock(thenLabel)
	ft.translateStmt(s.Then)
	ft.b.Jump(after)
	ft.b.OpenBlock(elseLabel)
	ft.translateStmt(s.Else)
	ft.b.Jump(after)
	ft.b.OpenBlock(after)
}

// translateWhile lowers a pre-tested loop: the condition re-evaluates at
// the head on every iteration, including the first.
func (ft *funcTranslator) translateWhile(s *ast.Stmt) {
	head := ft.b.NewLabel()
	body := ft.b.NewLabel()
	after := ft.b.NewLabel()

	ft.b.Jump(head)
	ft.b.OpenBlock(head)
	cond := ft.translateExpr(s.Cond)
	ft.b.Emit(ir.NewInstruction(ir.OpJ2Z, ir.NewLocalOperand(after), ir.NewLocalOperand(body), cond))

	ft.b.OpenBlock(body)
	ft.b.PushLoop(after, head)
	ft.translateStmt(s.Loop)
	ft.b.PopLoop()
	ft.b.Jump(head)

	ft.b.OpenBlock(after)
}

// translateDoWhile lowers a post-tested loop: the body always runs once
// before the condition is first checked.
func (ft *funcTranslator) translateDoWhile(s *ast.Stmt) {
	body := ft.b.NewLabel()
	condLabel := ft.b.NewLabel()
	after := ft.b.NewLabel()

	ft.b.Jump(body)
	ft.b.OpenBlock(body)
	ft.b.PushLoop(after, condLabel)
	ft.translateStmt(s.Loop)
	ft.b.PopLoop()
	ft.b.Jump(condLabel)

	ft.b.OpenBlock(condLabel)
	cond := ft.translateExpr(s.Cond)
	ft.b.Emit(ir.NewInstruction(ir.OpJ2Z, ir.NewLocalOperand(after), ir.NewLocalOperand(body), cond))

	ft.b.OpenBlock(after)
}

// translateFor lowers a C-style for loop. ForInit's scope (a declared
// loop variable) spans the whole statement, matching this language's own
// block-scoping rule for "for (init; ...)".
func (ft *funcTranslator) translateFor(s *ast.Stmt) {
	ft.pushScope()
	if s.ForInit != nil {
		ft.translateStmt(s.ForInit)
	}

	head := ft.b.NewLabel()
	body := ft.b.NewLabel()
	post := ft.b.NewLabel()
	after := ft.b.NewLabel()

	ft.b.Jump(head)
	ft.b.OpenBlock(head)
	if s.Cond != nil {
		cond := ft.translateExpr(s.Cond)
		ft.b.Emit(ir.NewInstruction(ir.OpJ2Z, ir.NewLocalOperand(after), ir.NewLocalOperand(body), cond))
	} else {
		ft.b.Jump(body)
	}

	ft.b.OpenBlock(body)
	ft.b.PushLoop(after, post)
	ft.translateStmt(s.Loop)
	ft.b.PopLoop()
	ft.b.Jump(post)

	ft.b.OpenBlock(post)
	if s.ForPost != nil {
		ft.translateExpr(s.ForPost)
	}
	ft.b.Jump(head)

	ft.b.OpenBlock(after)
	ft.popScope()
}

// translateReturn lowers return/return-expr (spec scenario 1: "MOVE to
// return slot, RETURN"). A bare "return;" skips the MOVE entirely.
func (ft *funcTranslator) translateReturn(s *ast.Stmt) {
	if s.Expr != nil {
		val := ft.translateExpr(s.Expr)
		slot := ft.frame.ReturnSlot(types.Sizeof(ft.retType), ft.retHint)
		ft.b.Emit(ir.NewInstruction(ir.OpMove, slot, val))
	}
	ft.b.Emit(ir.NewInstruction(ir.OpReturn))
}

// translateAsm lowers one inline-asm block to a single opaque ASM
// instruction (spec SPEC_FULL §C). Every declared read and write operand
// is passed through, in read-then-write order; C8 does not distinguish
// ASM's uses from its defs (operator.go: "conservatively treated as both
// a use and a def"), so this pass does not need to either.
//
// internal/asminfo's decode of AsmText is a best-effort cross-check, not
// the source of the operand list: the named AsmReads/AsmWrites the user
// declared remain authoritative for what the rest of the IR sees this
// instruction touch. When the block's text does decode to real machine
// code but the decoder finds register families the user never listed, a
// warning flags the block as likely under-declared — still only a
// warning, since a false positive here must never block a build.
func (ft *funcTranslator) translateAsm(s *ast.Stmt) {
	operands := make([]ir.Operand, 0, len(s.AsmReads)+len(s.AsmWrites))
	for _, e := range s.AsmReads {
		operands = append(operands, ft.translateExpr(e))
	}
	for _, e := range s.AsmWrites {
		operands = append(operands, ft.translateExpr(e))
	}
	ft.b.Emit(ir.NewInstruction(ir.OpAsm, operands...))
	ft.checkAsmDeclaredOperands(s)
}

// checkAsmDeclaredOperands warns when asminfo decodes AsmText cleanly
// but touches more register families than the block declared operands
// for, so the backend's register allocator isn't silently handed a block
// that clobbers something nobody told it about.
func (ft *funcTranslator) checkAsmDeclaredOperands(s *ast.Stmt) {
	info := asminfo.Decode(s.AsmText)
	if info.Decoded == 0 || info.Decoded != info.Total {
		return
	}
	declared := len(s.AsmReads) + len(s.AsmWrites)
	touched := len(info.Reads) + len(info.Writes)
	if touched > declared {
		ft.t.Sink.Warnf(s.Pos, "asm block touches %d register(s) but declares only %d read/write operand(s); add reads/writes or accept the backend treating it as fully conservative", touched, declared)
	}
}

// switchArm is one case arm, resolved to the block label its body
// starts at. hasValue is false for the default arm.
type switchArm struct {
	value    uint64
	label    uint64
	hasValue bool
}

// translateSwitch lowers a switch statement via a linear compare chain
// by default, or a JUMPTABLE dispatch when the case values are constant,
// numerous enough, and dense enough to make a table worthwhile (spec
// §4.7 names both paths; original_source picks the same way).
func (ft *funcTranslator) translateSwitch(s *ast.Stmt) {
	scrutinee := ft.translateExpr(s.Switch)
	after := ft.b.NewLabel()

	arms := make([]switchArm, len(s.Cases))
	haveDefault := false
	var defaultLabel uint64
	allConst := true
	numValued := 0
	var minV, maxV uint64
	first := true

	for i, c := range s.Cases {
		label := ft.b.NewLabel()
		if c.Value == nil {
			arms[i] = switchArm{label: label}
			defaultLabel = label
			haveDefault = true
			continue
		}
		v, _, ok := foldConst(c.Value)
		if !ok {
			allConst = false
			arms[i] = switchArm{label: label}
			continue
		}
		arms[i] = switchArm{value: v, label: label, hasValue: true}
		numValued++
		if first || v < minV {
			minV = v
		}
		if first || v > maxV {
			maxV = v
		}
		first = false
	}
	if !haveDefault {
		defaultLabel = after
	}

	ft.b.PushSwitch(after)

	span := uint64(0)
	if numValued > 0 {
		span = maxV - minV + 1
	}
	useTable := allConst && numValued >= jumpTableMinCases && span > 0 &&
		float64(numValued)/float64(span) >= jumpTableDensity

	if useTable {
		ft.emitSwitchTable(scrutinee, arms, minV, span, defaultLabel)
	} else {
		ft.emitSwitchChain(scrutinee, arms, defaultLabel)
	}

	for i, c := range s.Cases {
		ft.b.OpenBlock(arms[i].label)
		for _, inner := range c.Body {
			ft.translateStmt(inner)
		}
		ft.b.Jump(after)
	}

	ft.b.PopSwitch()
	ft.b.OpenBlock(after)
}

// emitSwitchChain lowers a switch as a sequence of equality compares,
// falling through to defaultLabel (or after, the switch's exit, if the
// switch has no default arm) when nothing matches.
func (ft *funcTranslator) emitSwitchChain(scrutinee ir.Operand, arms []switchArm, defaultLabel uint64) {
	size := scrutinee.Sizeof()
	for _, a := range arms {
		if !a.hasValue {
			continue
		}
		next := ft.b.NewLabel()
		val := ir.NewConstant(size, sizedIntDatum(a.value, size))
		eq := ft.b.NewTemp(1, 1, ir.AllocGP)
		ft.b.Emit(ir.NewInstruction(ir.OpE, eq, scrutinee, val))
		ft.b.Emit(ir.NewInstruction(ir.OpJ2NZ, ir.NewLocalOperand(a.label), ir.NewLocalOperand(next), eq))
		ft.b.OpenBlock(next)
	}
	ft.b.Jump(defaultLabel)
}

// emitSwitchTable lowers a switch via a RODATA table of block-local
// labels, one per value in [min, min+span), filled with defaultLabel
// wherever no arm covers that value, dispatched through JUMPTABLE after
// a bounds check sends anything outside [min, min+span) straight to
// defaultLabel.
func (ft *funcTranslator) emitSwitchTable(scrutinee ir.Operand, arms []switchArm, minV, span, defaultLabel uint64) {
	table := make([]ir.Datum, span)
	for i := range table {
		table[i] = ir.NewLocalLabelDatum(defaultLabel)
	}
	for _, a := range arms {
		if a.hasValue {
			table[a.value-minV] = ir.NewLocalLabelDatum(a.label)
		}
	}
	tableLabel := ft.b.NewLabel()
	frag := ir.NewLocalDataFragment(ir.SectionRODATA, tableLabel, ir.PointerWidth)
	frag.Data = table
	ft.extraFrags = append(ft.extraFrags, frag)

	size := scrutinee.Sizeof()
	base := ir.NewConstant(size, sizedIntDatum(minV, size))
	biased := ft.b.NewTemp(scrutinee.Alignof(), size, ir.AllocGP)
	ft.b.Emit(ir.NewInstruction(ir.OpSub, biased, scrutinee, base))

	idx := ft.b.NewTemp(ir.PointerWidth, ir.PointerWidth, ir.AllocGP)
	ft.b.Emit(ir.NewInstruction(ir.OpZX, idx, biased))

	inRange := ft.b.NewTemp(1, 1, ir.AllocGP)
	bound := ir.NewConstant(ir.PointerWidth, ir.NewLongDatum(span))
	ft.b.Emit(ir.NewInstruction(ir.OpB, inRange, idx, bound))

	dispatch := ft.b.NewLabel()
	ft.b.Emit(ir.NewInstruction(ir.OpJ2Z, ir.NewLocalOperand(defaultLabel), ir.NewLocalOperand(dispatch), inRange))

	ft.b.OpenBlock(dispatch)
	ft.b.Emit(ir.NewInstruction(ir.OpJumpTable, idx, ir.NewLocalOperand(tableLabel)))
}

// collectAddressTaken walks a function body once, up front, to find
// every local name whose address is taken somewhere within it — either
// directly (&x) or implicitly by naming it as an inline-asm write
// operand. translateFunc uses the result to force those locals onto MEM
// storage from the moment they are declared (spec §3: ADDROF's source
// must already be MEM-allocated).
func collectAddressTaken(stmts []*ast.Stmt) map[string]bool {
	taken := make(map[string]bool)
	for _, s := range stmts {
		walkStmtForAddrOf(s, taken)
	}
	return taken
}

func walkStmtForAddrOf(s *ast.Stmt, taken map[string]bool) {
	if s == nil {
		return
	}
	walkExprForAddrOf(s.Expr, taken)
	for _, inner := range s.Body {
		walkStmtForAddrOf(inner, taken)
	}
	if s.Var != nil {
		walkExprForAddrOf(s.Var.Init, taken)
	}
	walkExprForAddrOf(s.Cond, taken)
	walkStmtForAddrOf(s.Then, taken)
	walkStmtForAddrOf(s.Else, taken)
	walkStmtForAddrOf(s.Loop, taken)
	walkStmtForAddrOf(s.ForInit, taken)
	walkExprForAddrOf(s.ForPost, taken)
	walkExprForAddrOf(s.Switch, taken)
	for _, c := range s.Cases {
		walkExprForAddrOf(c.Value, taken)
		for _, inner := range c.Body {
			walkStmtForAddrOf(inner, taken)
		}
	}
	for _, e := range s.AsmReads {
		walkExprForAddrOf(e, taken)
	}
	for _, e := range s.AsmWrites {
		walkExprForAddrOf(e, taken)
		if e != nil && e.Kind == ast.ExprIdent && e.Ident != nil {
			taken[e.Ident.Name] = true
		}
	}
}

func walkExprForAddrOf(e *ast.Expr, taken map[string]bool) {
	if e == nil {
		return
	}
	if e.Kind == ast.ExprAddrOf && e.X != nil && e.X.Kind == ast.ExprIdent && e.X.Ident != nil {
		taken[e.X.Ident.Name] = true
	}
	walkExprForAddrOf(e.X, taken)
	walkExprForAddrOf(e.Y, taken)
	walkExprForAddrOf(e.Cond, taken)
	walkExprForAddrOf(e.Then, taken)
	walkExprForAddrOf(e.Else, taken)
	walkExprForAddrOf(e.Callee, taken)
	for _, a := range e.Args {
		walkExprForAddrOf(a, taken)
	}
}
