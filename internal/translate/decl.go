package translate

import (
	"math"

	"github.com/kittywantsbacon/TCompiler/internal/ast"
	"github.com/kittywantsbacon/TCompiler/internal/ir"
	"github.com/kittywantsbacon/TCompiler/internal/symtab"
	"github.com/kittywantsbacon/TCompiler/internal/typeconv"
	"github.com/kittywantsbacon/TCompiler/internal/types"
)

// translateGlobalVar lowers one global variable declaration to a
// BSS/DATA fragment (spec §4.7: "global variables become DATA fragments
// if initialized, BSS otherwise"). A bare forward declaration with no
// storage here (one already defined in another file/module) is not
// distinguishable from a definition by this AST alone in this language,
// so — matching original_source, which never models "extern" — every
// module-scope VarDecl reaching translation owns storage.
func (t *Translator) translateGlobalVar(v *ast.VarDecl) *ir.Fragment {
	entry := t.Env.ModuleTable().Lookup(v.Name)
	if entry == nil || entry.Kind() != symtab.KindVariable {
		t.internalError(v.Pos, "global %q has no resolved variable entry", v.Name)
		return nil
	}
	typ := entry.VarType()
	size := types.Sizeof(typ)
	align := types.Alignof(typ)
	label := Mangle(t.moduleName(), v.Name)

	if v.Init == nil {
		frag := ir.NewGlobalDataFragment(ir.SectionBSS, label, align)
		frag.Data = []ir.Datum{ir.NewPaddingDatum(size)}
		return frag
	}

	data, ok := t.constInitDatums(typ, v.Init)
	if !ok {
		t.internalError(v.Pos, "%q: initializer is not a compile-time constant", v.Name)
		data = []ir.Datum{ir.NewPaddingDatum(size)}
	}
	frag := ir.NewGlobalDataFragment(ir.SectionDATA, label, align)
	frag.Data = data
	return frag
}

// constInitDatums folds a global initializer into its byte-level datum
// representation. Only the constant forms a global initializer can take
// in this language are handled: literals, unary +/-/~/!, binary
// arithmetic/bitwise combinations of constants, and references to an
// already-resolved enum constant — mirroring internal/check's Fold,
// generalized from its int64-only domain to also emit float/double and
// string data since a DATA fragment's bytes (not a runtime int64) are the
// target here.
func (t *Translator) constInitDatums(typ *types.Type, e *ast.Expr) ([]ir.Datum, bool) {
	base := typ
	for base.Variant == types.Qualified {
		base = base.Base
	}
	switch base.Variant {
	case types.Keyword:
		if base.Kw == types.KwFloat || base.Kw == types.KwDouble {
			f, ok := foldFloatConst(e)
			if !ok {
				return nil, false
			}
			if base.Kw == types.KwFloat {
				return []ir.Datum{ir.NewIntDatum(math.Float32bits(float32(f)))}, true
			}
			return []ir.Datum{ir.NewLongDatum(math.Float64bits(f))}, true
		}
		v, _, ok := foldConst(e)
		if !ok {
			return nil, false
		}
		return []ir.Datum{sizedIntDatum(v, types.Sizeof(base))}, true
	case types.Pointer, types.FuncPointer:
		v, _, ok := foldConst(e)
		if !ok {
			return nil, false
		}
		return []ir.Datum{ir.NewLongDatum(v)}, true
	case types.Array:
		if e.Kind == ast.ExprStringLit && base.Base.Variant == types.Keyword && base.Base.Kw == types.KwChar {
			return []ir.Datum{ir.NewStringDatum([]byte(e.StringVal))}, true
		}
		return nil, false
	default:
		return nil, false
	}
}

// sizedIntDatum picks the Datum shape matching size (spec §3's Datum
// variants are fixed-width; a global's keyword type determines which
// one applies).
func sizedIntDatum(v uint64, size uint64) ir.Datum {
	switch size {
	case 1:
		return ir.NewByteDatum(uint8(v))
	case 2:
		return ir.NewShortDatum(uint16(v))
	case 4:
		return ir.NewIntDatum(uint32(v))
	default:
		return ir.NewLongDatum(v)
	}
}

// translateFunc lowers one function definition to a TEXT fragment, plus
// any auxiliary fragments its body needed (switch jump tables). A
// declaration (fn.Body == nil) contributes nothing (spec §4.7).
func (t *Translator) translateFunc(fn *ast.FuncDecl) []*ir.Fragment {
	if fn.Body == nil {
		return nil
	}
	entry := t.Env.ModuleTable().Lookup(fn.Name)
	if entry == nil || entry.Kind() != symtab.KindFunction {
		t.internalError(fn.Pos, "function %q has no resolved entry", fn.Name)
		return nil
	}
	overload, ok := t.matchOverload(entry, fn)
	if !ok {
		t.internalError(fn.Pos, "function %q: no overload matches its own declared parameters", fn.Name)
		return nil
	}

	label := Mangle(t.moduleName(), fn.Name)
	frame := t.cfg.FrameCtor()
	ft := &funcTranslator{
		t:            t,
		b:            NewBuilder(frame, t.cfg.Temps, t.cfg.Labels),
		frame:        frame,
		retType:      overload.Return,
		retHint:      hintOrVoid(overload.Return),
		addressTaken: collectAddressTaken(fn.Body),
	}

	ft.pushScope()
	for i, p := range fn.Params {
		if i >= len(overload.Params) {
			break
		}
		pt := overload.Params[i]
		hint := ft.hintFor(p.Name, pt)
		size, align := types.Sizeof(pt), types.Alignof(pt)
		slot := frame.ParamSlot(i, size, hint)
		access := frame.AllocLocal(size, align, hint)
		access.Store(ft.b, slot)
		ft.declareLocal(p.Name, access)
	}

	for _, s := range fn.Body {
		ft.translateStmt(s)
	}
	if !ft.b.CurrentTerminated() {
		// Falling off the end of a void function: bare RETURN. A
		// non-void function falling off the end is a user error C5
		// should already have diagnosed via missing-return analysis;
		// the translator still terminates the block so C8 never sees
		// an unterminated one.
		ft.b.Emit(ir.NewInstruction(ir.OpReturn))
	}
	ft.popScope()

	frag := ir.NewTextFragment(label)
	frag.Blocks = ft.b.Blocks()
	return append([]*ir.Fragment{frag}, ft.extraFrags...)
}

// hintOrVoid returns allocHintForType(t), or AllocGP for a void return
// (the hint is unused in that case).
func hintOrVoid(t *types.Type) ir.AllocHint {
	if t == nil || (t.Variant == types.Keyword && t.Kw == types.KwVoid) {
		return ir.AllocGP
	}
	return allocHintForType(t)
}

// matchOverload resolves which of entry's overloads fn's own parameter
// list denotes, by converting fn's declared parameter TypeNodes the same
// way stabbuild did when it first inserted them (spec §4.4's reconcile
// step already guarantees exactly one overload has this exact parameter
// sequence).
func (t *Translator) matchOverload(entry *symtab.Entry, fn *ast.FuncDecl) (*symtab.Overload, bool) {
	conv := typeconv.NewConverter(t.Env, t.Sink, t.Options, foldConst)
	params := make([]*types.Type, 0, len(fn.Params))
	for _, p := range fn.Params {
		pt, ok := conv.ToType(p.Type)
		if !ok {
			return nil, false
		}
		params = append(params, pt)
	}
	if o := entry.Overloads().FindExact(params); o != nil {
		return o, true
	}
	return nil, false
}

// foldConst folds a constant integer/bool expression at translate time
// (array lengths in type nodes, global initializers, enum-valued
// constants). Mirrors internal/check.Checker.Fold's supported grammar;
// duplicated rather than imported to keep this package's constant
// folding independent of a live Checker (translation runs after checking
// has already finished for the whole module).
func foldConst(e *ast.Expr) (value uint64, kind types.Kw, ok bool) {
	if e == nil {
		return 0, types.KwInt, false
	}
	switch e.Kind {
	case ast.ExprIntLit:
		return uint64(e.IntVal), types.KwInt, true
	case ast.ExprBoolLit:
		if e.BoolVal {
			return 1, types.KwBool, true
		}
		return 0, types.KwBool, true
	case ast.ExprIdent:
		if e.Ident != nil && e.Ident.Entry != nil && e.Ident.Entry.Kind() == symtab.KindEnumConst {
			return uint64(e.Ident.Entry.EnumConstValue()), types.KwInt, true
		}
		return 0, types.KwInt, false
	case ast.ExprUnary:
		v, k, ok := foldConst(e.X)
		if !ok {
			return 0, types.KwInt, false
		}
		switch e.Op {
		case "-":
			return uint64(-int64(v)), k, true
		case "~":
			return ^v, k, true
		case "!":
			if v == 0 {
				return 1, types.KwBool, true
			}
			return 0, types.KwBool, true
		case "+":
			return v, k, true
		}
		return 0, types.KwInt, false
	case ast.ExprBinary:
		x, k, okx := foldConst(e.X)
		y, _, oky := foldConst(e.Y)
		if !okx || !oky {
			return 0, types.KwInt, false
		}
		switch e.Op {
		case "+":
			return x + y, k, true
		case "-":
			return x - y, k, true
		case "*":
			return x * y, k, true
		case "/":
			if y == 0 {
				return 0, k, false
			}
			return x / y, k, true
		case "%":
			if y == 0 {
				return 0, k, false
			}
			return x % y, k, true
		case "&":
			return x & y, k, true
		case "|":
			return x | y, k, true
		case "^":
			return x ^ y, k, true
		case "<<":
			return x << y, k, true
		case ">>":
			return x >> y, k, true
		}
		return 0, types.KwInt, false
	default:
		return 0, types.KwInt, false
	}
}

// foldFloatConst folds a constant floating-point expression (global
// initializers of float/double type).
func foldFloatConst(e *ast.Expr) (float64, bool) {
	if e == nil {
		return 0, false
	}
	switch e.Kind {
	case ast.ExprFloatLit:
		return e.FloatVal, true
	case ast.ExprIntLit:
		return float64(e.IntVal), true
	case ast.ExprUnary:
		v, ok := foldFloatConst(e.X)
		if !ok {
			return 0, false
		}
		if e.Op == "-" {
			return -v, true
		}
		return v, true
	case ast.ExprBinary:
		x, okx := foldFloatConst(e.X)
		y, oky := foldFloatConst(e.Y)
		if !okx || !oky {
			return 0, false
		}
		switch e.Op {
		case "+":
			return x + y, true
		case "-":
			return x - y, true
		case "*":
			return x * y, true
		case "/":
			return x / y, true
		}
		return 0, false
	default:
		return 0, false
	}
}
