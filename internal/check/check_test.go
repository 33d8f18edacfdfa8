package check

import (
	"testing"

	"github.com/kittywantsbacon/TCompiler/internal/ast"
	"github.com/kittywantsbacon/TCompiler/internal/diag"
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

// TestScenario1FunctionBodyTypes pins spec §8 scenario 1:
// "module m; int f(int x) { return x + 1; }" — x+1 is int, the return
// matches the function's declared int return type.
func TestScenario1FunctionBodyTypes(t *testing.T) {
	env := symtab.NewEnvironment("m", symtab.NewTable())
	sink := diag.NewSink()
	c := NewChecker(env, sink, options.Default())

	overload := &symtab.Overload{
		Return: types.NewKeyword(types.KwInt),
		Params: []*types.Type{types.NewKeyword(types.KwInt)},
	}
	fn := &ast.FuncDecl{
		Name:   "f",
		Return: nil,
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

	c.CheckFunction(fn, overload)
	if sink.NErrors() != 0 {
		t.Fatalf("unexpected errors: %v", sink.Diagnostics())
	}
	retExpr := fn.Body[0].Expr
	if retExpr.Type == nil || retExpr.Type.Variant != types.Keyword || retExpr.Type.Kw != types.KwInt {
		t.Fatalf("expected x+1 to type as int, got %v", retExpr.Type)
	}
	if retExpr.X.Ident.Entry == nil {
		t.Fatal("expected x's Ident.Entry to be resolved to the parameter")
	}
}

// TestScenario3QualifiedCallResolvesThroughImport pins spec §8 scenario 3:
// a call to "b::h(x)" resolves through the import table and checks
// against b::h's overload.
func TestScenario3QualifiedCallResolvesThroughImport(t *testing.T) {
	bTable := symtab.NewTable()
	hEntry := symtab.NewFunction("h")
	hEntry.Overloads().Append(&symtab.Overload{
		Return: types.NewKeyword(types.KwInt),
		Params: []*types.Type{types.NewKeyword(types.KwInt)},
	})
	if err := bTable.Insert(hEntry); err != nil {
		t.Fatal(err)
	}

	env := symtab.NewEnvironment("a", symtab.NewTable())
	env.AddImport("b", bTable)
	sink := diag.NewSink()
	c := NewChecker(env, sink, options.Default())

	call := &ast.Expr{
		Kind:   ast.ExprCall,
		Callee: identExpr("b::h"),
		Args:   []*ast.Expr{identExpr("x")},
	}
	env.PushScope().Insert(symtab.NewVariable("x", types.NewKeyword(types.KwInt)))

	rt := c.checkExpr(call)
	if sink.NErrors() != 0 {
		t.Fatalf("unexpected errors: %v", sink.Diagnostics())
	}
	if rt == nil || rt.Variant != types.Keyword || rt.Kw != types.KwInt {
		t.Fatalf("expected call to b::h to type as int, got %v", rt)
	}
	if call.Callee.Ident.Entry != hEntry {
		t.Fatal("expected call callee to resolve to b::h's entry")
	}
}

// TestScenario4OverloadResolutionPicksExactOverConversion pins spec §8
// scenario 4: "int f(int); int f(long); f(3)" must pick f(int) exactly,
// and with a byte overload added, f((byte)3) must pick f(byte).
func TestScenario4OverloadResolutionPicksExactOverConversion(t *testing.T) {
	env := symtab.NewEnvironment("m", symtab.NewTable())
	sink := diag.NewSink()
	c := NewChecker(env, sink, options.Default())

	fEntry := symtab.NewFunction("f")
	intType := types.NewKeyword(types.KwInt)
	longType := types.NewKeyword(types.KwLong)
	byteType := types.NewKeyword(types.KwByte)
	fEntry.Overloads().Append(&symtab.Overload{Return: intType, Params: []*types.Type{intType}})
	fEntry.Overloads().Append(&symtab.Overload{Return: intType, Params: []*types.Type{longType}})
	fEntry.Overloads().Append(&symtab.Overload{Return: intType, Params: []*types.Type{byteType}})
	if err := env.ModuleTable().Insert(fEntry); err != nil {
		t.Fatal(err)
	}

	callInt := &ast.Expr{Kind: ast.ExprCall, Callee: identExpr("f"), Args: []*ast.Expr{intLit(3)}}
	c.checkExpr(callInt)
	if sink.NErrors() != 0 {
		t.Fatalf("unexpected errors resolving f(3): %v", sink.Diagnostics())
	}
	gotOverload, err := fEntry.Overloads().Resolve([]*types.Type{intType})
	if err != nil || !types.Equal(gotOverload.Params[0], intType) {
		t.Fatalf("f(3) should resolve to f(int), got %v, err %v", gotOverload, err)
	}

	castByte := &ast.Expr{
		Kind: ast.ExprCast,
		X:    intLit(3),
		CastType: &ast.TypeNode{Kind: ast.TypeKeyword, Keyword: "byte"},
	}
	callByte := &ast.Expr{Kind: ast.ExprCall, Callee: identExpr("f"), Args: []*ast.Expr{castByte}}
	sink2 := diag.NewSink()
	c2 := NewChecker(env, sink2, options.Default())
	c2.checkExpr(callByte)
	if sink2.NErrors() != 0 {
		t.Fatalf("unexpected errors resolving f((byte)3): %v", sink2.Diagnostics())
	}
	if castByte.Type == nil || castByte.Type.Kw != types.KwByte {
		t.Fatalf("expected cast to type as byte, got %v", castByte.Type)
	}
	gotByte, err := fEntry.Overloads().Resolve([]*types.Type{castByte.Type})
	if err != nil || !types.Equal(gotByte.Params[0], byteType) {
		t.Fatalf("f((byte)3) should resolve to f(byte), got %v, err %v", gotByte, err)
	}
}

// TestAssignmentRequiresLvalue pins spec §4.5's "assignment operators
// require an lvalue on the LHS".
func TestAssignmentRequiresLvalue(t *testing.T) {
	env := symtab.NewEnvironment("m", symtab.NewTable())
	sink := diag.NewSink()
	c := NewChecker(env, sink, options.Default())

	assign := &ast.Expr{Kind: ast.ExprAssign, Op: "=", X: intLit(1), Y: intLit(2)}
	c.checkExpr(assign)
	if sink.NErrors() == 0 {
		t.Fatal("expected an error assigning to a non-lvalue")
	}
}

// TestShiftRequiresSingleByteRHS pins spec §4.5's shift-operator rule.
func TestShiftRequiresSingleByteRHS(t *testing.T) {
	env := symtab.NewEnvironment("m", symtab.NewTable())
	sink := diag.NewSink()
	c := NewChecker(env, sink, options.Default())

	bad := &ast.Expr{Kind: ast.ExprBinary, Op: "<<", X: intLit(1), Y: intLit(2)}
	c.checkExpr(bad)
	if sink.NErrors() == 0 {
		t.Fatal("expected an error: shift RHS must be a single-byte integer, int literal folds to int")
	}
}

// TestLogicalRequiresBoolOperands pins spec §4.5's "&& and || require bool
// operands and yield bool".
func TestLogicalRequiresBoolOperands(t *testing.T) {
	env := symtab.NewEnvironment("m", symtab.NewTable())
	sink := diag.NewSink()
	c := NewChecker(env, sink, options.Default())

	bad := &ast.Expr{Kind: ast.ExprLogical, Op: "&&", X: intLit(1), Y: &ast.Expr{Kind: ast.ExprBoolLit, BoolVal: true}}
	rt := c.checkExpr(bad)
	if sink.NErrors() == 0 || rt != nil {
		t.Fatal("expected an error mixing int and bool operands to &&")
	}
}
