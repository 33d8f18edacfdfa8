// Package pipeline wires C4 (internal/stabbuild) through C8
// (internal/irvalidate) into the phase sequence cmd/tcc drives: parse,
// build symbol tables, check, translate, validate. It is deliberately
// thin — every hard decision still lives in the component packages — and
// exists so that sequence is written once and exercised by tests, rather
// than duplicated between cmd/tcc's build and check subcommands.
//
// The lexer and parser are explicit external collaborators (spec §1:
// "Deliberately out of scope ... the lexer ... the parser"), so this
// package depends on one through an injected Parser func rather than
// importing a concrete implementation, the same seam shape
// internal/translate.Config uses for its Frame/Access constructors.
package pipeline

import (
	"fmt"

	"github.com/kittywantsbacon/TCompiler/internal/ast"
	"github.com/kittywantsbacon/TCompiler/internal/check"
	"github.com/kittywantsbacon/TCompiler/internal/diag"
	"github.com/kittywantsbacon/TCompiler/internal/ir"
	"github.com/kittywantsbacon/TCompiler/internal/irvalidate"
	"github.com/kittywantsbacon/TCompiler/internal/options"
	"github.com/kittywantsbacon/TCompiler/internal/source"
	"github.com/kittywantsbacon/TCompiler/internal/stabbuild"
	"github.com/kittywantsbacon/TCompiler/internal/symtab"
	"github.com/kittywantsbacon/TCompiler/internal/translate"
	"github.com/kittywantsbacon/TCompiler/internal/typeconv"
	"github.com/kittywantsbacon/TCompiler/internal/types"
)

// Parser turns one source file's raw bytes into its AST. cmd/tcc supplies
// the real implementation; this package only needs the result.
type Parser func(sf *source.File) (*ast.File, error)

// Asts is the parsed form of a source.Graph: one declaration *ast.File
// per module (if any) and zero or more code *ast.File per module, mirrors
// stabbuild.Graph's shape but keyed the same way source.Graph is so a
// caller can hand it straight to stabbuild once parsing succeeds.
type Asts struct {
	Decl map[string]*ast.File
	Code map[string][]*ast.File
}

// ParseAll runs parser over every file g holds. A parse failure on
// any one file aborts the whole parse phase — spec §7's "recovery of
// arbitrarily malformed input past the first unrecoverable error" is a
// stated non-goal, and that boundary starts here, one phase before the
// core.
func ParseAll(g *source.Graph, parser Parser) (*Asts, error) {
	out := &Asts{Decl: make(map[string]*ast.File), Code: make(map[string][]*ast.File)}
	for _, mod := range g.Modules() {
		if sf, ok := g.Decl(mod); ok {
			f, err := parser(sf)
			if err != nil {
				return nil, fmt.Errorf("pipeline: parsing %q: %w", sf.Path, err)
			}
			out.Decl[mod] = f
		}
		for _, sf := range g.Code(mod) {
			f, err := parser(sf)
			if err != nil {
				return nil, fmt.Errorf("pipeline: parsing %q: %w", sf.Path, err)
			}
			out.Code[mod] = append(out.Code[mod], f)
		}
	}
	return out, nil
}

// stabbuildGraph adapts Asts to stabbuild.Graph. stabbuild's own Graph
// takes exactly one code *ast.File per module (spec §4.4 treats a
// module's code as a single two-phase walk target); a module with
// several code files is folded into one synthetic *ast.File carrying
// every one's top-level declarations in file order, so a module spread
// across multiple translation units still builds as one table.
func (a *Asts) stabbuildGraph() *stabbuild.Graph {
	sg := &stabbuild.Graph{
		DeclFiles: a.Decl,
		CodeFiles: make(map[string]*ast.File, len(a.Code)),
	}
	for mod, files := range a.Code {
		if len(files) == 1 {
			sg.CodeFiles[mod] = files[0]
			continue
		}
		merged := &ast.File{Module: files[0].Module}
		for _, f := range files {
			merged.Decls = append(merged.Decls, f.Decls...)
			merged.Imports = append(merged.Imports, f.Imports...)
		}
		sg.CodeFiles[mod] = merged
	}
	return sg
}

// BuildSymbols runs C4 over the parsed ASTs, returning the per-module
// Environment BuildAll populated.
func BuildSymbols(a *Asts, sink *diag.Sink, opts options.Set, constEval typeconv.ConstEvaluator) map[string]*symtab.Environment {
	b := stabbuild.NewBuilder(sink, opts, constEval)
	return b.BuildAll(a.stabbuildGraph())
}

// CheckAll runs C5 over every function definition in every module's code
// files. A definition whose signature no longer resolves against its own
// module's table (only possible if an earlier phase already reported an
// error) is skipped rather than panicking the driver.
func CheckAll(a *Asts, envs map[string]*symtab.Environment, sink *diag.Sink, opts options.Set, constEval typeconv.ConstEvaluator) {
	for mod, files := range a.Code {
		env, ok := envs[mod]
		if !ok {
			continue
		}
		conv := typeconv.NewConverter(env, sink, opts, constEval)
		checker := check.NewChecker(env, sink, opts)
		for _, f := range files {
			for i := range f.Decls {
				fn := f.Decls[i].Func
				if fn == nil || fn.Body == nil {
					continue
				}
				overload, ok := resolveOverload(conv, env, fn)
				if !ok {
					continue
				}
				checker.CheckFunction(fn, overload)
			}
		}
	}
}

// resolveOverload re-derives fn's parameter types the same way
// stabbuild.Builder.buildFunc did when it first inserted (or reconciled)
// this entry, then finds the exact overload that conversion matches.
// FuncDecl carries no back-pointer to the Overload C4 built for it, so
// every later phase that needs one re-resolves it this way.
func resolveOverload(conv *typeconv.Converter, env *symtab.Environment, fn *ast.FuncDecl) (*symtab.Overload, bool) {
	entry := env.ModuleTable().Lookup(fn.Name)
	if entry == nil || entry.Kind() != symtab.KindFunction {
		return nil, false
	}
	params := make([]*types.Type, 0, len(fn.Params))
	for _, p := range fn.Params {
		pt, ok := conv.ToType(p.Type)
		if !ok {
			return nil, false
		}
		params = append(params, pt)
	}
	overload := entry.Overloads().FindExact(params)
	if overload == nil {
		return nil, false
	}
	return overload, true
}

// TranslateAll runs C7 over every module's code files, returning the
// fragment list per module. A module with no environment (only possible
// if BuildSymbols skipped it) contributes no fragments.
func TranslateAll(a *Asts, envs map[string]*symtab.Environment, sink *diag.Sink, opts options.Set, tcfg translate.Config) map[string][]*ir.Fragment {
	out := make(map[string][]*ir.Fragment, len(a.Code))
	for mod, files := range a.Code {
		env, ok := envs[mod]
		if !ok {
			continue
		}
		tr := translate.NewTranslator(env, sink, opts, tcfg)
		for _, f := range files {
			out[mod] = append(out[mod], tr.TranslateFile(f)...)
		}
	}
	return out
}

// ValidateAll runs C8's "blocked" check over every module's fragment
// list — the phase translation's own output satisfies (spec §4.8).
// ValidateScheduled checks the phase a later scheduling pass (out of
// this repository's scope per spec §1's non-goals) would produce, so
// nothing in this pipeline ever calls it. It reports via sink and
// returns false iff any module failed.
func ValidateAll(frags map[string][]*ir.Fragment, sink *diag.Sink) bool {
	ok := true
	for _, fs := range frags {
		if !irvalidate.ValidateBlocked(fs, sink, "blocked") {
			ok = false
		}
	}
	return ok
}
