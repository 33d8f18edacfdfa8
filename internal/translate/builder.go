package translate

import (
	"github.com/kittywantsbacon/TCompiler/internal/idgen"
	"github.com/kittywantsbacon/TCompiler/internal/ir"
)

// Builder accumulates one function's blocks as statements and expressions
// lower into instructions (spec §4.7: translation "emits instructions
// into the current block, opening a new block whenever control flow
// forks or joins"). It owns the temp/label numberings for exactly one
// function; the Translator that drives it owns the FrameCtor/Access
// constructors shared across every function in a file.
type Builder struct {
	frame  Frame
	temps  idgen.Generator
	labels idgen.Generator

	blocks  []*ir.Block
	current *ir.Block

	// breakTargets is a single stack of exit labels, pushed on entry to
	// either a loop or a switch, so the nearest lexical enclosure wins
	// regardless of whether it is a loop or a switch (spec §4.7: "break
	// exits the innermost loop or switch, whichever is nearer"). loopCont
	// is tracked separately since continue always means the nearest loop,
	// skipping over any intervening switch.
	breakTargets []uint64
	loopCont     []uint64
}

// NewBuilder constructs a Builder for one function body, opening its
// entry block.
func NewBuilder(frame Frame, temps, labels idgen.Generator) *Builder {
	b := &Builder{frame: frame, temps: temps, labels: labels}
	entry := ir.NewBlock(labels.Next())
	b.blocks = append(b.blocks, entry)
	b.current = entry
	return b
}

// Blocks returns the function's accumulated block list (spec §4.6: "a
// TEXT fragment's Blocks[0] is the entry block").
func (b *Builder) Blocks() []*ir.Block { return b.blocks }

// Emit appends instr to the current block.
func (b *Builder) Emit(instr *ir.Instruction) {
	b.current.Instructions = append(b.current.Instructions, instr)
}

// NewLabel mints a fresh local-block label without opening a block for
// it (used by forward references — a jump target whose block is opened
// later).
func (b *Builder) NewLabel() uint64 { return b.labels.Next() }

// OpenBlock starts a new block labeled label and makes it current. The
// caller is responsible for having closed the previous block with a
// terminator first (spec §4.8).
func (b *Builder) OpenBlock(label uint64) *ir.Block {
	blk := ir.NewBlock(label)
	b.blocks = append(b.blocks, blk)
	b.current = blk
	return blk
}

// NewOpenBlock mints a fresh label and opens a block for it in one step.
func (b *Builder) NewOpenBlock() uint64 {
	label := b.NewLabel()
	b.OpenBlock(label)
	return label
}

// CurrentTerminated reports whether the current block already ends in a
// terminator, so callers building straight-line code know whether a
// fall-through JUMP is still needed before switching blocks.
func (b *Builder) CurrentTerminated() bool {
	instrs := b.current.Instructions
	return len(instrs) > 0 && instrs[len(instrs)-1].Op.IsTerminator()
}

// Jump emits an unconditional JUMP to target unless the current block is
// already terminated (e.g. by a return just lowered).
func (b *Builder) Jump(target uint64) {
	if b.CurrentTerminated() {
		return
	}
	b.Emit(ir.NewInstruction(ir.OpJump, ir.NewLocalOperand(target)))
}

// NewTemp mints a fresh temp operand of the given alignment/size/hint,
// drawing its name from this builder's temp generator.
func (b *Builder) NewTemp(alignment, size uint64, hint ir.AllocHint) ir.Operand {
	return ir.NewTemp(b.temps.Next(), alignment, size, hint)
}

// AllocLocal asks the function's Frame to reserve storage for one local.
func (b *Builder) AllocLocal(size, alignment uint64, hint ir.AllocHint) Access {
	return b.frame.AllocLocal(size, alignment, hint)
}

// PushLoop registers a loop body's exit and continuation labels.
func (b *Builder) PushLoop(exit, cont uint64) {
	b.breakTargets = append(b.breakTargets, exit)
	b.loopCont = append(b.loopCont, cont)
}

// PopLoop removes the innermost loop's targets.
func (b *Builder) PopLoop() {
	b.breakTargets = b.breakTargets[:len(b.breakTargets)-1]
	b.loopCont = b.loopCont[:len(b.loopCont)-1]
}

// PushSwitch registers a switch body's exit label.
func (b *Builder) PushSwitch(exit uint64) {
	b.breakTargets = append(b.breakTargets, exit)
}

// PopSwitch removes the innermost switch's target.
func (b *Builder) PopSwitch() {
	b.breakTargets = b.breakTargets[:len(b.breakTargets)-1]
}

// BreakTarget returns the label a break statement here must jump to: the
// nearest enclosing loop or switch, whichever was opened last.
func (b *Builder) BreakTarget() (uint64, bool) {
	if len(b.breakTargets) == 0 {
		return 0, false
	}
	return b.breakTargets[len(b.breakTargets)-1], true
}

// ContinueTarget returns the label a continue statement here must jump
// to: always the innermost loop's continuation point (switch bodies do
// not establish one).
func (b *Builder) ContinueTarget() (uint64, bool) {
	if len(b.loopCont) == 0 {
		return 0, false
	}
	return b.loopCont[len(b.loopCont)-1], true
}
