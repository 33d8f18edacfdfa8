package translate

import (
	"testing"

	"github.com/kittywantsbacon/TCompiler/internal/ast"
	"github.com/kittywantsbacon/TCompiler/internal/check"
	"github.com/kittywantsbacon/TCompiler/internal/diag"
	"github.com/kittywantsbacon/TCompiler/internal/ir"
	"github.com/kittywantsbacon/TCompiler/internal/options"
	"github.com/kittywantsbacon/TCompiler/internal/symtab"
	"github.com/kittywantsbacon/TCompiler/internal/types"
)

func ident(name string) *ast.Ident { return &ast.Ident{Name: name} }

func identExpr(name string) *ast.Expr {
	return &ast.Expr{Kind: ast.ExprIdent, Ident: ident(name)}
}

func intLit(v int64) *ast.Expr {
	return &ast.Expr{Kind: ast.ExprIntLit, IntVal: v}
}

// checkedFunc installs fn's overload into env's module table, runs the
// real Checker over its body (so every Expr.Type/Ident.Entry ends up
// resolved exactly as the real pipeline would leave them), and fails the
// test on any diagnostic.
func checkedFunc(t *testing.T, env *symtab.Environment, fn *ast.FuncDecl, overload *symtab.Overload) {
	t.Helper()
	entry := symtab.NewFunction(fn.Name)
	entry.Overloads().Append(overload)
	if err := env.ModuleTable().Insert(entry); err != nil {
		t.Fatalf("installing %q: %v", fn.Name, err)
	}
	sink := diag.NewSink()
	check.NewChecker(env, sink, options.Default()).CheckFunction(fn, overload)
	if sink.NErrors() != 0 {
		t.Fatalf("unexpected check errors: %v", sink.Diagnostics())
	}
}

func countOps(frag *ir.Fragment, op ir.Operator) int {
	n := 0
	for _, b := range frag.Blocks {
		for _, instr := range b.Instructions {
			if instr.Op == op {
				n++
			}
		}
	}
	return n
}

func hasOp(frag *ir.Fragment, op ir.Operator) bool { return countOps(frag, op) > 0 }

// TestScenario1FunctionLowersToSingleTextFragment pins spec §8 scenario
// 1: "one TEXT fragment named m::f with at least: parameter move,
// constant load, ADD, MOVE to return slot, RETURN" for
// "module m; int f(int x) { return x + 1; }".
func TestScenario1FunctionLowersToSingleTextFragment(t *testing.T) {
	env := symtab.NewEnvironment("m", symtab.NewTable())
	overload := &symtab.Overload{
		Return: types.NewKeyword(types.KwInt),
		Params: []*types.Type{types.NewKeyword(types.KwInt)},
	}
	fn := &ast.FuncDecl{
		Name:   "f",
		Params: []ast.Param{{Name: "x"}},
		Body: []*ast.Stmt{
			{
				Kind: ast.StmtReturn,
				Expr: &ast.Expr{
					Kind: ast.ExprBinary, Op: "+",
					X: identExpr("x"), Y: intLit(1),
				},
			},
		},
	}
	checkedFunc(t, env, fn, overload)

	tr := NewTranslator(env, diag.NewSink(), options.Default(), DefaultConfig())
	frags := tr.translateFunc(fn)
	if len(frags) != 1 {
		t.Fatalf("expected exactly one fragment (no switch tables here), got %d", len(frags))
	}
	frag := frags[0]
	if frag.Section != ir.SectionTEXT {
		t.Fatalf("expected a TEXT fragment, got %v", frag.Section)
	}
	if frag.Name.IsLocal || frag.Name.Global != "m::f" {
		t.Fatalf("expected fragment named %q, got %+v", "m::f", frag.Name)
	}
	if !hasOp(frag, ir.OpMove) {
		t.Error("expected at least one MOVE (parameter bind and/or return-slot write)")
	}
	if !hasOp(frag, ir.OpAdd) {
		t.Error("expected an ADD for x+1")
	}
	if !hasOp(frag, ir.OpReturn) {
		t.Error("expected a RETURN terminator")
	}
	// The MOVE count must be at least 2: one binding the incoming
	// parameter slot to x's local storage, one writing x+1 into the
	// return slot before RETURN.
	if n := countOps(frag, ir.OpMove); n < 2 {
		t.Errorf("expected at least 2 MOVEs (param bind + return slot), got %d", n)
	}
}

// TestScenario3CrossModuleCallMangles pins spec §8 scenario 3's
// translation-side analogue: a call to "b::h(x)" lowers to a CALL
// targeting the mangled label "b::h", not "m::h" or a bare "h".
func TestScenario3CrossModuleCallMangles(t *testing.T) {
	bTable := symtab.NewTable()
	hEntry := symtab.NewFunction("h")
	hOverload := &symtab.Overload{
		Return: types.NewKeyword(types.KwInt),
		Params: []*types.Type{types.NewKeyword(types.KwInt)},
	}
	hEntry.Overloads().Append(hOverload)
	if err := bTable.Insert(hEntry); err != nil {
		t.Fatal(err)
	}

	env := symtab.NewEnvironment("m", symtab.NewTable())
	env.AddImport("b", bTable)

	overload := &symtab.Overload{
		Return: types.NewKeyword(types.KwInt),
		Params: []*types.Type{types.NewKeyword(types.KwInt)},
	}
	fn := &ast.FuncDecl{
		Name:   "g",
		Params: []ast.Param{{Name: "x"}},
		Body: []*ast.Stmt{
			{
				Kind: ast.StmtReturn,
				Expr: &ast.Expr{
					Kind:   ast.ExprCall,
					Callee: identExpr("b::h"),
					Args:   []*ast.Expr{identExpr("x")},
				},
			},
		},
	}
	checkedFunc(t, env, fn, overload)

	tr := NewTranslator(env, diag.NewSink(), options.Default(), DefaultConfig())
	frags := tr.translateFunc(fn)
	if len(frags) != 1 {
		t.Fatalf("expected exactly one fragment, got %d", len(frags))
	}
	frag := frags[0]

	var callTarget ir.Operand
	found := false
	for _, b := range frag.Blocks {
		for _, instr := range b.Instructions {
			if instr.Op == ir.OpCall {
				callTarget = instr.Args[0]
				found = true
			}
		}
	}
	if !found {
		t.Fatal("expected a CALL instruction")
	}
	if !callTarget.IsGlobal() || callTarget.GlobalName() != "b::h" {
		t.Fatalf("expected CALL to target %q, got %+v", "b::h", callTarget)
	}
}

// TestAddressTakenLocalForcesMemStorage ensures a local whose address is
// taken (&x) is bound through an Access backed by MEM storage rather
// than a bare register temp, so a later &x lowers to a real ADDROF-legal
// operand (spec §3: ADDROF's source must already be MEM-allocated).
func TestAddressTakenLocalForcesMemStorage(t *testing.T) {
	env := symtab.NewEnvironment("m", symtab.NewTable())
	overload := &symtab.Overload{
		Return: types.NewKeyword(types.KwInt),
		Params: nil,
	}
	fn := &ast.FuncDecl{
		Name: "f",
		Body: []*ast.Stmt{
			{
				Kind: ast.StmtVarDecl,
				Var:  &ast.VarDecl{Name: "x", Type: &ast.TypeNode{Kind: ast.TypeKeyword, Keyword: "int"}, Init: intLit(0)},
			},
			{
				Kind: ast.StmtExpr,
				Expr: &ast.Expr{Kind: ast.ExprAddrOf, X: identExpr("x")},
			},
			{
				Kind: ast.StmtReturn,
				Expr: intLit(0),
			},
		},
	}
	checkedFunc(t, env, fn, overload)

	tr := NewTranslator(env, diag.NewSink(), options.Default(), DefaultConfig())
	frags := tr.translateFunc(fn)
	if len(frags) != 1 {
		t.Fatalf("expected exactly one fragment, got %d", len(frags))
	}
	if !hasOp(frags[0], ir.OpAddrOf) {
		t.Error("expected an ADDROF for &x")
	}
	for _, b := range frags[0].Blocks {
		for _, instr := range b.Instructions {
			if instr.Op == ir.OpAddrOf && instr.Args[1].Alloc != ir.AllocMEM {
				t.Errorf("expected &x's source operand to be MEM-allocated, got %v", instr.Args[1].Alloc)
			}
		}
	}
}

// TestSwitchDenseCasesUseJumpTable pins spec §4.7's jump-table path: a
// switch whose case values are constant, numerous, and contiguous
// lowers through JUMPTABLE and emits an auxiliary RODATA fragment.
func TestSwitchDenseCasesUseJumpTable(t *testing.T) {
	env := symtab.NewEnvironment("m", symtab.NewTable())
	overload := &symtab.Overload{Return: types.NewKeyword(types.KwInt), Params: []*types.Type{types.NewKeyword(types.KwInt)}}

	cases := make([]ast.SwitchCase, 0, jumpTableMinCases)
	for i := 0; i < jumpTableMinCases; i++ {
		cases = append(cases, ast.SwitchCase{
			Value: intLit(int64(i)),
			Body:  []*ast.Stmt{{Kind: ast.StmtBreak}},
		})
	}
	fn := &ast.FuncDecl{
		Name:   "f",
		Params: []ast.Param{{Name: "x"}},
		Body: []*ast.Stmt{
			{Kind: ast.StmtSwitch, Switch: identExpr("x"), Cases: cases},
			{Kind: ast.StmtReturn, Expr: intLit(0)},
		},
	}
	checkedFunc(t, env, fn, overload)

	tr := NewTranslator(env, diag.NewSink(), options.Default(), DefaultConfig())
	frags := tr.translateFunc(fn)
	if len(frags) != 2 {
		t.Fatalf("expected a TEXT fragment plus one RODATA jump table, got %d", len(frags))
	}
	if !hasOp(frags[0], ir.OpJumpTable) {
		t.Error("expected a dense switch to dispatch via JUMPTABLE")
	}
	if frags[1].Section != ir.SectionRODATA {
		t.Fatalf("expected the second fragment to be RODATA, got %v", frags[1].Section)
	}
	if len(frags[1].Data) != jumpTableMinCases {
		t.Errorf("expected a %d-entry table, got %d", jumpTableMinCases, len(frags[1].Data))
	}
}

// TestSwitchSparseCasesUseCompareChain ensures a switch with only a
// couple of widely-spaced case values falls back to the linear compare
// chain rather than paying for a near-empty table.
func TestSwitchSparseCasesUseCompareChain(t *testing.T) {
	env := symtab.NewEnvironment("m", symtab.NewTable())
	overload := &symtab.Overload{Return: types.NewKeyword(types.KwInt), Params: []*types.Type{types.NewKeyword(types.KwInt)}}

	fn := &ast.FuncDecl{
		Name:   "f",
		Params: []ast.Param{{Name: "x"}},
		Body: []*ast.Stmt{
			{Kind: ast.StmtSwitch, Switch: identExpr("x"), Cases: []ast.SwitchCase{
				{Value: intLit(0), Body: []*ast.Stmt{{Kind: ast.StmtBreak}}},
				{Value: intLit(1000), Body: []*ast.Stmt{{Kind: ast.StmtBreak}}},
			}},
			{Kind: ast.StmtReturn, Expr: intLit(0)},
		},
	}
	checkedFunc(t, env, fn, overload)

	tr := NewTranslator(env, diag.NewSink(), options.Default(), DefaultConfig())
	frags := tr.translateFunc(fn)
	if len(frags) != 1 {
		t.Fatalf("expected just the TEXT fragment (no jump table), got %d", len(frags))
	}
	if hasOp(frags[0], ir.OpJumpTable) {
		t.Error("expected a sparse switch to use the compare chain, not JUMPTABLE")
	}
	if !hasOp(frags[0], ir.OpE) {
		t.Error("expected equality compares in the chain")
	}
}

// TestGlobalVarInitializerFoldsToData pins the DATA-fragment half of
// spec §4.7's global-variable lowering: "int x = 2 + 3;" folds to a
// single 5-valued int datum, not a runtime computation.
func TestGlobalVarInitializerFoldsToData(t *testing.T) {
	env := symtab.NewEnvironment("m", symtab.NewTable())
	v := &ast.VarDecl{
		Name: "x",
		Type: &ast.TypeNode{Kind: ast.TypeKeyword, Keyword: "int"},
		Init: &ast.Expr{Kind: ast.ExprBinary, Op: "+", X: intLit(2), Y: intLit(3)},
	}
	if err := env.ModuleTable().Insert(symtab.NewVariable("x", types.NewKeyword(types.KwInt))); err != nil {
		t.Fatal(err)
	}

	tr := NewTranslator(env, diag.NewSink(), options.Default(), DefaultConfig())
	frag := tr.translateGlobalVar(v)
	if frag == nil {
		t.Fatal("expected a fragment")
	}
	if frag.Section != ir.SectionDATA {
		t.Fatalf("expected DATA, got %v", frag.Section)
	}
	if len(frag.Data) != 1 || frag.Data[0].Kind != ir.DatumInt || frag.Data[0].Int != 5 {
		t.Fatalf("expected a single int datum valued 5, got %+v", frag.Data)
	}
}

// TestUninitializedGlobalVarIsBSS pins the BSS half of the same rule.
func TestUninitializedGlobalVarIsBSS(t *testing.T) {
	env := symtab.NewEnvironment("m", symtab.NewTable())
	v := &ast.VarDecl{Name: "x", Type: &ast.TypeNode{Kind: ast.TypeKeyword, Keyword: "int"}}
	if err := env.ModuleTable().Insert(symtab.NewVariable("x", types.NewKeyword(types.KwInt))); err != nil {
		t.Fatal(err)
	}

	tr := NewTranslator(env, diag.NewSink(), options.Default(), DefaultConfig())
	frag := tr.translateGlobalVar(v)
	if frag == nil || frag.Section != ir.SectionBSS {
		t.Fatalf("expected BSS, got %+v", frag)
	}
	if len(frag.Data) != 1 || frag.Data[0].Kind != ir.DatumPadding || frag.Data[0].PaddingLen != 4 {
		t.Fatalf("expected a single 4-byte padding datum, got %+v", frag.Data)
	}
}
