// Package stabbuild performs the two-phase symbol-table build (spec §4.4,
// "C4"): declaration files populate each module's table first, then code
// files supply definitions that reconcile against the declarations.
//
// Grounded on original_source/src/main/typecheck/buildSymbolTable.c for
// the decl/code file split and the per-top-level-form dispatch; the
// reconciliation rules for each form follow spec §4.4 directly; the
// original's own per-form bodies were left as unimplemented stubs (see
// DESIGN.md).
package stabbuild

import (
	"github.com/kittywantsbacon/TCompiler/internal/ast"
	"github.com/kittywantsbacon/TCompiler/internal/diag"
	"github.com/kittywantsbacon/TCompiler/internal/options"
	"github.com/kittywantsbacon/TCompiler/internal/symtab"
	"github.com/kittywantsbacon/TCompiler/internal/typeconv"
	"github.com/kittywantsbacon/TCompiler/internal/types"
)

// Graph is the parser's module-name-to-AST mapping, split into
// declaration files and code files (spec §4.4: "both keyed off the
// parser's module-name-to-AST mapping").
type Graph struct {
	DeclFiles map[string]*ast.File
	CodeFiles map[string]*ast.File
}

// Builder runs the two-phase walk over a Graph, reporting diagnostics to
// Sink under Options.
type Builder struct {
	Sink    *diag.Sink
	Options options.Set
	Const   typeconv.ConstEvaluator

	envs       map[string]*symtab.Environment
	inProgress map[string]bool
}

// NewBuilder constructs a Builder. constEval folds array-size expressions
// for the type bridge (C3); sink and opts are shared with every file's
// Converter.
func NewBuilder(sink *diag.Sink, opts options.Set, constEval typeconv.ConstEvaluator) *Builder {
	return &Builder{
		Sink:       sink,
		Options:    opts,
		Const:      constEval,
		envs:       make(map[string]*symtab.Environment),
		inProgress: make(map[string]bool),
	}
}

// BuildAll runs both phases over g and returns the per-module environment
// (each carrying that module's fully populated table).
func (b *Builder) BuildAll(g *Graph) map[string]*symtab.Environment {
	for name := range g.DeclFiles {
		b.ensureDecl(g, name)
	}
	for name, file := range g.CodeFiles {
		b.buildCode(g, name, file)
	}
	return b.envs
}

// ensureDecl builds (or returns the already-built) environment for the
// declaration file of module name, entering it on demand to satisfy
// import dependency order. A module reentered while still in progress is
// an import cycle among declaration files; it is reported once, and the
// diagnostic names only the re-entered module, not the full import chain.
func (b *Builder) ensureDecl(g *Graph, name string) *symtab.Environment {
	if env, ok := b.envs[name]; ok {
		return env
	}
	if b.inProgress[name] {
		b.Sink.Errorf(diag.Pos{}, "import cycle detected: module %q imports (transitively) itself", name)
		env := symtab.NewEnvironment(name, symtab.NewTable())
		b.envs[name] = env
		return env
	}

	file, ok := g.DeclFiles[name]
	if !ok {
		b.Sink.Errorf(diag.Pos{}, "no declaration file found for module %q", name)
		env := symtab.NewEnvironment(name, symtab.NewTable())
		b.envs[name] = env
		return env
	}

	b.inProgress[name] = true
	table := symtab.NewTable()
	env := symtab.NewEnvironment(name, table)
	b.wireImports(g, env, file)
	for _, decl := range file.Decls {
		b.buildTopLevel(&decl, env, true)
	}
	delete(b.inProgress, name)
	b.envs[name] = env
	return env
}

// buildCode processes a module's code file against the environment
// established by its declaration file (creating a fresh one if the module
// has no declaration file of its own).
func (b *Builder) buildCode(g *Graph, name string, file *ast.File) {
	env, ok := b.envs[name]
	if !ok {
		env = symtab.NewEnvironment(name, symtab.NewTable())
	}
	b.wireImports(g, env, file)
	for _, decl := range file.Decls {
		b.buildTopLevel(&decl, env, false)
	}
	b.envs[name] = env
}

// wireImports registers every module file imports, and every prefix that
// module itself imports transitively, so a qualified lookup of arbitrary
// depth resolves against env.Imports in one hop (spec §4.2: "Qualified
// names (mod::name and deeper) first resolve the module chain then the
// terminal name inside it").
func (b *Builder) wireImports(g *Graph, env *symtab.Environment, file *ast.File) {
	for _, imp := range file.Imports {
		importedEnv, ok := b.envs[imp.Name.Text]
		if !ok {
			importedEnv = b.ensureDecl(g, imp.Name.Text)
		}
		env.AddImport(imp.Name.Text, importedEnv.ModuleTable())
		for prefix, table := range importedEnv.Imports {
			env.AddImport(imp.Name.Text+"::"+prefix, table)
		}
	}
}

func (b *Builder) buildTopLevel(d *ast.Decl, env *symtab.Environment, isDecl bool) {
	switch {
	case d.Func != nil:
		b.buildFunc(d.Func, env)
	case d.Var != nil:
		b.buildVar(d.Var, env, isDecl)
	case d.Struct != nil:
		b.buildComposite(d.Struct, env, symtab.KindStruct)
	case d.Union != nil:
		b.buildComposite(d.Union, env, symtab.KindUnion)
	case d.Enum != nil:
		b.buildEnum(d.Enum, env)
	case d.Typedef != nil:
		b.buildTypedef(d.Typedef, env)
	}
}

func (b *Builder) converter(env *symtab.Environment) *typeconv.Converter {
	return typeconv.NewConverter(env, b.Sink, b.Options, b.Const)
}

// buildFunc implements spec §4.4's function-definition and
// function-declaration rules together (they differ only in the resulting
// Defined flag and the legality of two declarations coalescing).
func (b *Builder) buildFunc(fn *ast.FuncDecl, env *symtab.Environment) {
	conv := b.converter(env)
	retType, ok := conv.ToType(fn.Return)
	if !ok {
		return
	}
	params := make([]*types.Type, 0, len(fn.Params))
	numOptional := 0
	for _, p := range fn.Params {
		pt, ok := conv.ToType(p.Type)
		if !ok {
			return
		}
		params = append(params, pt)
		if p.Optional {
			numOptional++
		}
	}
	defined := fn.Body != nil

	table := env.ModuleTable()
	existing := table.Lookup(fn.Name)
	if existing == nil {
		entry := symtab.NewFunction(fn.Name)
		entry.Overloads().Append(&symtab.Overload{
			Return: retType, Params: params, NumOptional: numOptional, Defined: defined,
		})
		if err := table.Insert(entry); err != nil {
			b.Sink.Errorf(fn.Pos, "%q: %v", fn.Name, err)
		}
		return
	}
	if existing.Kind() != symtab.KindFunction {
		b.Sink.Errorf(fn.Pos, "%q already defined as %s", fn.Name, existing.Kind())
		return
	}

	match := existing.Overloads().FindExact(params)
	if match == nil {
		existing.Overloads().Append(&symtab.Overload{
			Return: retType, Params: params, NumOptional: numOptional, Defined: defined,
		})
		return
	}
	if !types.Equal(match.Return, retType) {
		b.Sink.Errorf(fn.Pos, "conflicting return types for %q", fn.Name)
		return
	}
	if !defined {
		// Two declarations of identical signature and identical return
		// type coalesce (spec §4.4).
		return
	}
	if match.Defined {
		b.Sink.Errorf(fn.Pos, "duplicate definition of %q", fn.Name)
		return
	}
	match.Defined = true
}

func (b *Builder) buildVar(v *ast.VarDecl, env *symtab.Environment, isDecl bool) {
	conv := b.converter(env)
	t, ok := conv.ToType(v.Type)
	if !ok {
		return
	}
	table := env.ModuleTable()
	entry := symtab.NewVariable(v.Name, t)
	if err := table.Insert(entry); err != nil {
		b.Sink.Errorf(v.Pos, "%q: %v", v.Name, err)
	}
}

func (b *Builder) buildComposite(d *ast.CompositeDecl, env *symtab.Environment, kind symtab.Kind) {
	table := env.ModuleTable()
	existing := table.Lookup(d.Name)

	if d.Members == nil {
		// Forward declaration: create (or leave) an opaque entry.
		if existing == nil {
			if err := table.Insert(symtab.NewOpaque(d.Name)); err != nil {
				b.Sink.Errorf(d.Pos, "%q: %v", d.Name, err)
			}
			return
		}
		if existing.Kind() != symtab.KindOpaque && existing.Kind() != kind {
			b.Sink.Errorf(d.Pos, "%q already defined as %s", d.Name, existing.Kind())
		}
		// Forward declaration after a full definition is a no-op.
		return
	}

	conv := b.converter(env)
	fields := make([]symtab.Field, 0, len(d.Members))
	for _, m := range d.Members {
		ft, ok := conv.ToType(m.Type)
		if !ok {
			return
		}
		fields = append(fields, symtab.Field{Name: m.Name, Type: ft})
	}

	var def *symtab.Entry
	if kind == symtab.KindUnion {
		def = symtab.NewUnion(d.Name, fields)
	} else {
		def = symtab.NewStruct(d.Name, fields)
	}

	if existing == nil {
		if err := table.Insert(def); err != nil {
			b.Sink.Errorf(d.Pos, "%q: %v", d.Name, err)
		}
		return
	}
	if existing.Kind() == symtab.KindOpaque {
		existing.PatchOpaque(def)
		return
	}
	b.Sink.Errorf(d.Pos, "%q already defined", d.Name)
}

func (b *Builder) buildEnum(d *ast.EnumDecl, env *symtab.Environment) {
	table := env.ModuleTable()
	existing := table.Lookup(d.Name)

	if d.Members == nil {
		if existing == nil {
			if err := table.Insert(symtab.NewOpaque(d.Name)); err != nil {
				b.Sink.Errorf(d.Pos, "%q: %v", d.Name, err)
			}
			return
		}
		if existing.Kind() != symtab.KindOpaque && existing.Kind() != symtab.KindEnum {
			b.Sink.Errorf(d.Pos, "%q already defined as %s", d.Name, existing.Kind())
		}
		return
	}

	consts := make([]symtab.EnumConstant, 0, len(d.Members))
	next := int64(0)
	for _, m := range d.Members {
		v := next
		if m.HasValue {
			v = m.Value
		}
		consts = append(consts, symtab.EnumConstant{Name: m.Name, Value: v})
		next = v + 1
	}
	def := symtab.NewEnum(d.Name, consts)

	if existing == nil {
		if err := table.Insert(def); err != nil {
			b.Sink.Errorf(d.Pos, "%q: %v", d.Name, err)
			return
		}
	} else if existing.Kind() == symtab.KindOpaque {
		existing.PatchOpaque(def)
	} else {
		b.Sink.Errorf(d.Pos, "%q already defined", d.Name)
		return
	}

	// Each member is additionally visible as a plain identifier of the
	// enum's own type (spec §4.5 treats bare enum-member references like
	// any other constant-valued identifier), not only as a tag inside
	// def.Consts().
	enumType := types.NewReference(def, d.Name)
	for _, c := range consts {
		if err := table.Insert(symtab.NewEnumConst(c.Name, c.Value, enumType)); err != nil {
			b.Sink.Errorf(d.Pos, "enum constant %q: %v", c.Name, err)
		}
	}
}

func (b *Builder) buildTypedef(d *ast.TypedefDecl, env *symtab.Environment) {
	conv := b.converter(env)
	t, ok := conv.ToType(d.Target)
	if !ok {
		return
	}
	table := env.ModuleTable()
	if err := table.Insert(symtab.NewTypedef(d.Name, t)); err != nil {
		b.Sink.Errorf(d.Pos, "%q: %v", d.Name, err)
	}
}
