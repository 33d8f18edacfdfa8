// Package translate implements the AST-to-IR lowering pass (spec §4.7,
// "C7"): it walks a fully type-checked module (every Expr.Type and
// Ident.Entry already resolved by C5) and emits the Fragment list C6
// describes, one TEXT fragment per function definition and one
// BSS/DATA/RODATA fragment per global.
//
// Grounded on original_source/src/main/translate/translate.h for the
// three injected constructors (FrameCtor, GlobalAccessCtor, and — per the
// expanded specification's explicit third constructor for call targets —
// FunctionAccessCtor) that keep this package free of any target-specific
// ABI decision, mirroring the teacher's own preference for small,
// constructor-injected subsystems over global state (cmd/compile's
// ssagen package takes its ABI similarly as a parameter rather than a
// package-level default).
package translate

import (
	"fmt"

	"github.com/kittywantsbacon/TCompiler/internal/ast"
	"github.com/kittywantsbacon/TCompiler/internal/diag"
	"github.com/kittywantsbacon/TCompiler/internal/fragdedup"
	"github.com/kittywantsbacon/TCompiler/internal/idgen"
	"github.com/kittywantsbacon/TCompiler/internal/ir"
	"github.com/kittywantsbacon/TCompiler/internal/options"
	"github.com/kittywantsbacon/TCompiler/internal/symtab"
	"github.com/kittywantsbacon/TCompiler/internal/typeconv"
	"github.com/kittywantsbacon/TCompiler/internal/types"
)

// Config bundles the three injected constructors spec §4.7 names, plus
// the temp/label generators (internal/idgen) translation draws unique
// names from.
type Config struct {
	FrameCtor          FrameCtor
	GlobalAccessCtor   GlobalAccessCtor
	FunctionAccessCtor FunctionAccessCtor
	Temps              idgen.Generator
	Labels             idgen.Generator
}

// DefaultConfig returns a Config built from this package's own
// target-neutral default Frame/Access implementations and two fresh
// idgen.Monotonic generators.
func DefaultConfig() Config {
	temps := idgen.NewMonotonic()
	return Config{
		FrameCtor:          NewDefaultFrameCtor(temps.Next),
		GlobalAccessCtor:   NewDefaultGlobalAccessCtor(),
		FunctionAccessCtor: NewDefaultFunctionAccessCtor(),
		Temps:              temps,
		Labels:              idgen.NewMonotonic(),
	}
}

// Translator lowers one module's File to IR fragments against its
// already-built Environment.
type Translator struct {
	Env     *symtab.Environment
	Sink    *diag.Sink
	Options options.Set
	cfg     Config

	// globals caches the Access for every global variable and function
	// entry this module refers to, keyed by symbol-table identity so a
	// repeated reference (e.g. a function called twice) reuses the same
	// Access rather than re-deriving its label.
	globals map[*symtab.Entry]Access
}

// NewTranslator constructs a Translator for one module.
func NewTranslator(env *symtab.Environment, sink *diag.Sink, opts options.Set, cfg Config) *Translator {
	return &Translator{Env: env, Sink: sink, Options: opts, cfg: cfg, globals: make(map[*symtab.Entry]Access)}
}

// TranslateFile lowers every top-level declaration in f, returning the
// fragment list for the whole file (spec §4.7). Declarations with no
// runtime representation (forward declarations, typedefs, struct/union/
// enum declarations, function declarations with no body) contribute no
// fragment.
func (t *Translator) TranslateFile(f *ast.File) []*ir.Fragment {
	var frags []*ir.Fragment
	for i := range f.Decls {
		d := &f.Decls[i]
		switch {
		case d.Var != nil:
			if frag := t.translateGlobalVar(d.Var); frag != nil {
				frags = append(frags, frag)
			}
		case d.Func != nil:
			frags = append(frags, t.translateFunc(d.Func)...)
		}
	}
	// Repeated string/aggregate literals each earned their own RODATA
	// fragment during lowering (stringLiteral in expr.go, the jump
	// tables in stmt.go); collapse byte-identical repeats to one copy
	// before handing the fragment list to C8 (spec SPEC_FULL §B.5).
	return fragdedup.Dedup(frags)
}

// moduleName is a convenience accessor used throughout this package for
// mangling.
func (t *Translator) moduleName() string { return t.Env.ModuleName() }

// allocHintForType classifies t into the allocation class its values are
// naturally kept in: floating-point keywords go to the FP class, every
// other shape to GP (aggregates/arrays are escalated to MEM automatically
// by ir.NewTemp once their size exceeds PointerWidth, per spec §3).
func allocHintForType(t *types.Type) ir.AllocHint {
	if t.Variant == types.Qualified {
		return allocHintForType(t.Base)
	}
	if t.Variant == types.Keyword && (t.Kw == types.KwFloat || t.Kw == types.KwDouble) {
		return ir.AllocFP
	}
	return ir.AllocGP
}

// functionAccessFor returns (creating on first use) the Access naming
// entry's function, mangled with module.
func (t *Translator) functionAccessFor(entry *symtab.Entry, module, name string) Access {
	if a, ok := t.globals[entry]; ok {
		return a
	}
	a := t.cfg.FunctionAccessCtor(Mangle(module, name))
	t.globals[entry] = a
	return a
}

// globalAccessFor returns (creating on first use) the Access naming
// entry's global variable, mangled with module.
func (t *Translator) globalAccessFor(entry *symtab.Entry, module, name string) Access {
	if a, ok := t.globals[entry]; ok {
		return a
	}
	typ := entry.VarType()
	a := t.cfg.GlobalAccessCtor(Mangle(module, name), types.Sizeof(typ), types.Alignof(typ))
	t.globals[entry] = a
	return a
}

// sizeofConverter returns a typeconv.Converter for resolving a sizeof(T)
// operand's type node against this module's environment. Translation re-derives these
// the same way C4/C5 first did (spec §4.3), since the TypeNode itself —
// unlike an Expr's Type field — carries no slot C5 could have cached a
// resolved *types.Type into.
func (t *Translator) sizeofConverter() *typeconv.Converter {
	return typeconv.NewConverter(t.Env, t.Sink, t.Options, foldConst)
}

// internalError reports a condition that only a prior-phase bug could
// produce (an unresolved Ident, a malformed Type reaching translation) —
// spec §7 classifies these separately from user-facing diagnostics.
func (t *Translator) internalError(pos ast.Pos, format string, args ...any) {
	t.Sink.Errorf(pos, "internal: %s", fmt.Sprintf(format, args...))
}
