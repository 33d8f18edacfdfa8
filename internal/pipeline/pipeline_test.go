package pipeline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kittywantsbacon/TCompiler/internal/ast"
	"github.com/kittywantsbacon/TCompiler/internal/diag"
	"github.com/kittywantsbacon/TCompiler/internal/options"
	"github.com/kittywantsbacon/TCompiler/internal/source"
	"github.com/kittywantsbacon/TCompiler/internal/translate"
	"github.com/kittywantsbacon/TCompiler/internal/types"
)

func intType() *ast.TypeNode { return &ast.TypeNode{Kind: ast.TypeKeyword, Keyword: "int"} }

func identExpr(name string) *ast.Expr {
	return &ast.Expr{Kind: ast.ExprIdent, Ident: &ast.Ident{Name: name}}
}

func intLit(v int64) *ast.Expr { return &ast.Expr{Kind: ast.ExprIntLit, IntVal: v} }

// scenario1Module builds spec §8 scenario 1 by hand: "module m;
// int f(int x) { return x + 1; }", as a single code file with no separate
// declaration file.
func scenario1Module() *Asts {
	fn := &ast.FuncDecl{
		Name:   "f",
		Return: intType(),
		Params: []ast.Param{{Name: "x", Type: intType()}},
		Body: []*ast.Stmt{
			{Kind: ast.StmtReturn, Expr: &ast.Expr{Kind: ast.ExprBinary, Op: "+", X: identExpr("x"), Y: intLit(1)}},
		},
	}
	file := &ast.File{Module: ast.QualName{Text: "m"}, Decls: []ast.Decl{{Func: fn}}}
	return &Asts{Decl: map[string]*ast.File{}, Code: map[string][]*ast.File{"m": {file}}}
}

func noConstFold(e *ast.Expr) (uint64, types.Kw, bool) { return 0, 0, false }

func TestPipelineRunsScenario1EndToEnd(t *testing.T) {
	a := scenario1Module()
	sink := diag.NewSink()
	opts := options.Default()

	envs := BuildSymbols(a, sink, opts, noConstFold)
	require.Zerof(t, sink.NErrors(), "BuildSymbols: unexpected errors: %v", sink.Diagnostics())

	CheckAll(a, envs, sink, opts, noConstFold)
	require.Zerof(t, sink.NErrors(), "CheckAll: unexpected errors: %v", sink.Diagnostics())

	frags := TranslateAll(a, envs, sink, opts, translate.DefaultConfig())
	require.Zerof(t, sink.NErrors(), "TranslateAll: unexpected errors: %v", sink.Diagnostics())
	require.NotEmptyf(t, frags["m"], "expected module m to produce at least one fragment")

	require.Truef(t, ValidateAll(frags, sink), "ValidateAll: unexpected failure: %v", sink.Diagnostics())
}

func TestPipelineCheckAllSkipsUnresolvableSignature(t *testing.T) {
	a := scenario1Module()
	sink := diag.NewSink()
	opts := options.Default()
	envs := BuildSymbols(a, sink, opts, noConstFold)

	// Mutate the in-memory AST after the table is built so the function's
	// parameter no longer matches any overload C4 recorded; CheckAll must
	// skip it rather than panic.
	a.Code["m"][0].Decls[0].Func.Params[0].Type = &ast.TypeNode{Kind: ast.TypeKeyword, Keyword: "double"}

	CheckAll(a, envs, sink, opts, noConstFold)
	require.Zerof(t, sink.NErrors(), "expected CheckAll to silently skip the now-unresolvable signature, got: %v", sink.Diagnostics())
}

func TestParseAllPropagatesParserError(t *testing.T) {
	g := source.NewGraph()
	g.AddCode(source.NewMemFile("m.t", "m", false, []byte("garbage")))

	boom := errors.New("boom")
	_, err := ParseAll(g, func(sf *source.File) (*ast.File, error) { return nil, boom })
	require.Error(t, err, "expected ParseAll to propagate the parser's error")
}

func TestParseAllBuildsAstsFromGraph(t *testing.T) {
	g := source.NewGraph()
	g.AddDecl(source.NewMemFile("m_decl.t", "m", true, []byte("module m; int f();")))
	g.AddCode(source.NewMemFile("m_impl.t", "m", false, []byte("module m; int f() { return 0; }")))

	asts, err := ParseAll(g, func(sf *source.File) (*ast.File, error) {
		return &ast.File{Module: ast.QualName{Text: sf.ModuleName}}, nil
	})
	require.NoError(t, err)
	require.NotNilf(t, asts.Decl["m"], "expected module m to have a parsed declaration file")
	require.Lenf(t, asts.Code["m"], 1, "expected module m to have 1 parsed code file")
}
