package translate

import "github.com/kittywantsbacon/TCompiler/internal/ir"

// Frame models one function's activation record (spec §4.7: "Frames and
// access objects are injected by constructors supplied by the caller...
// keeping the translator target-neutral"). The translator never assigns
// a byte offset itself — that is backend/register-allocation territory
// the Non-goals exclude — it only asks the injected Frame to reserve
// storage and hands back an Access describing how to reach it.
type Frame interface {
	// AllocLocal reserves a local of the given size/alignment with the
	// given allocation hint (GP/FP as the translator determines from the
	// local's type, escalated to MEM by NewTemp when size exceeds
	// pointer width, or explicitly requested as MEM when the local's
	// address is taken somewhere in the function).
	AllocLocal(size, alignment uint64, hint ir.AllocHint) Access
	// ParamSlot returns the calling-convention location of parameter
	// index (0-based) with the given size/hint, used both to bind an
	// incoming parameter at function entry and, symmetrically, to place
	// an outgoing argument just before a CALL.
	ParamSlot(index int, size uint64, hint ir.AllocHint) ir.Operand
	// ReturnSlot returns the calling-convention location a value of the
	// given size/hint is returned through (spec's scenario 1: "MOVE to
	// return slot, RETURN" — RETURN itself takes no operands, so the
	// return value must already sit in this slot).
	ReturnSlot(size uint64, hint ir.AllocHint) ir.Operand
}

// Access abstracts one storage location: a local, a global, or a
// function (spec §4.7's three injected constructors — frameCtor,
// globalAccessCtor, functionAccessCtor — all hand the translator back
// the same kind of object, differing only in how it was obtained).
type Access interface {
	// Load emits into b whatever instructions are needed to read this
	// location's current value, returning an operand holding it.
	Load(b *Builder) ir.Operand
	// Store emits into b whatever instructions are needed to write value
	// into this location.
	Store(b *Builder, value ir.Operand)
	// Address emits into b whatever instructions are needed to compute
	// this location's address, returning a pointer-valued operand.
	Address(b *Builder) ir.Operand
}

// FrameCtor constructs a fresh Frame for one function body being
// translated.
type FrameCtor func() Frame

// GlobalAccessCtor builds the Access for a global variable given its
// mangled label and its type's size/alignment.
type GlobalAccessCtor func(label string, size, alignment uint64) Access

// FunctionAccessCtor builds the Access for a function given its mangled
// label, used as a CALL target.
type FunctionAccessCtor func(label string) Access

// zeroOffset is the pointer-sized constant offset MEM_LOAD/MEM_STORE take
// when the address operand already names the whole object (spec §4.6:
// MEM_LOAD/MEM_STORE take a base address and a byte offset, both
// pointer-width).
func zeroOffset() ir.Operand {
	return ir.NewConstant(ir.PointerWidth, ir.NewLongDatum(0))
}

// ---- default, target-neutral implementations ----
//
// These are grounded on original_source/src/main/ir/ir.h's IO_ADDROF/
// IO_MEM_LOAD/IO_MEM_STORE operand-shape comments (see DESIGN.md); a real
// backend is expected to supply its own Frame/Access triad that assigns
// actual stack offsets and physical registers. The default here keeps
// every local as a single IR temp (a MEM temp once its address is taken,
// per NewTemp's size>PointerWidth rule, or when escapes is requested) and
// uses a simple, deterministic register-numbering convention for
// parameter/return slots, exactly the degree of ABI detail this package's
// Non-goals ("backend instruction selection... register allocation...
// out of scope") leave it free to invent.

type tempAccess struct{ operand ir.Operand }

func (a *tempAccess) Load(b *Builder) ir.Operand { return a.operand }

func (a *tempAccess) Store(b *Builder, value ir.Operand) {
	b.Emit(ir.NewInstruction(ir.OpMove, a.operand, value))
}

func (a *tempAccess) Address(b *Builder) ir.Operand {
	dst := b.NewTemp(ir.PointerWidth, ir.PointerWidth, ir.AllocGP)
	b.Emit(ir.NewInstruction(ir.OpAddrOf, dst, a.operand))
	return dst
}

// defaultFrame mints one temp per local; see the package-level note above.
type defaultFrame struct {
	temps      func() uint64
	paramCount int
}

// NewDefaultFrameCtor returns a FrameCtor producing defaultFrame values,
// drawing temp names from nextTemp.
func NewDefaultFrameCtor(nextTemp func() uint64) FrameCtor {
	return func() Frame { return &defaultFrame{temps: nextTemp} }
}

func (f *defaultFrame) AllocLocal(size, alignment uint64, hint ir.AllocHint) Access {
	return &tempAccess{operand: ir.NewTemp(f.temps(), alignment, size, hint)}
}

// regConvention numbers default physical registers deterministically:
// GP parameter/return registers start at 0, FP ones at a disjoint band,
// so the two classes never collide in this synthetic scheme.
const fpRegBand = 1 << 16

func (f *defaultFrame) ParamSlot(index int, size uint64, hint ir.AllocHint) ir.Operand {
	if hint == ir.AllocFP {
		return ir.NewReg(uint64(fpRegBand+index), size)
	}
	return ir.NewReg(uint64(index), size)
}

func (f *defaultFrame) ReturnSlot(size uint64, hint ir.AllocHint) ir.Operand {
	if hint == ir.AllocFP {
		return ir.NewReg(fpRegBand, size)
	}
	return ir.NewReg(0, size)
}

// globalAccess reaches a global variable through its mangled label via
// MEM_LOAD/MEM_STORE (spec §4.7: "Global variables... become DATA/BSS
// fragments").
type globalAccess struct {
	label               string
	size, alignment     uint64
}

// NewDefaultGlobalAccessCtor returns the default GlobalAccessCtor.
func NewDefaultGlobalAccessCtor() GlobalAccessCtor {
	return func(label string, size, alignment uint64) Access {
		return &globalAccess{label: label, size: size, alignment: alignment}
	}
}

func (a *globalAccess) operand() ir.Operand { return ir.NewGlobalOperand(a.label) }

func (a *globalAccess) Load(b *Builder) ir.Operand {
	dst := b.NewTemp(a.alignment, a.size, ir.AllocGP)
	b.Emit(ir.NewInstruction(ir.OpMemLoad, dst, a.operand(), zeroOffset()))
	return dst
}

func (a *globalAccess) Store(b *Builder, value ir.Operand) {
	b.Emit(ir.NewInstruction(ir.OpMemStore, a.operand(), value, zeroOffset()))
}

func (a *globalAccess) Address(b *Builder) ir.Operand { return a.operand() }

// functionAccess names a function's mangled label, used as a CALL target
// (spec §4.7, scenario 3: "translator emits a CALL to the mangled global
// b::h").
type functionAccess struct{ label string }

// NewDefaultFunctionAccessCtor returns the default FunctionAccessCtor.
func NewDefaultFunctionAccessCtor() FunctionAccessCtor {
	return func(label string) Access { return &functionAccess{label: label} }
}

func (a *functionAccess) Load(b *Builder) ir.Operand    { return a.Address(b) }
func (a *functionAccess) Store(b *Builder, v ir.Operand) { panic("translate: cannot store to a function") }
func (a *functionAccess) Address(b *Builder) ir.Operand  { return ir.NewGlobalOperand(a.label) }
