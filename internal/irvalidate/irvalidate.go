// Package irvalidate checks IR structural invariants at the two pipeline
// phases spec §4.8 ("C8") distinguishes: blocked (just after translation)
// and scheduled (after block flattening).
//
// Grounded on original_source/src/main/ir/ir.h's validateBlockedIr and
// validateScheduledIr, generalized from the flat per-file pass the
// original describes into one that operates over an explicit fragment
// list so callers control what "a phase" means.
package irvalidate

import (
	"github.com/kittywantsbacon/TCompiler/internal/diag"
	"github.com/kittywantsbacon/TCompiler/internal/ir"
)

// ValidateBlocked checks frags against the blocked-IR invariants (spec
// §4.8): every block ends in exactly one terminator drawn from
// {JUMP, JUMPTABLE, J2…, RETURN}; no one-target (J1…) jumps; no stray
// LABEL instructions; temp properties consistent within each fragment;
// every instruction's operand constraints satisfied. Diagnostics are
// tagged with phase (spec §7: "Validation reports the phase name on
// failure").
func ValidateBlocked(frags []*ir.Fragment, sink *diag.Sink, phase string) bool {
	ok := true
	for _, frag := range frags {
		if frag.Section != ir.SectionTEXT {
			continue
		}
		if !checkTempConsistency(frag, sink, phase) {
			ok = false
		}
		for _, block := range frag.Blocks {
			if !validateBlockedBlock(block, sink, phase) {
				ok = false
			}
		}
	}
	return ok
}

func validateBlockedBlock(block *ir.Block, sink *diag.Sink, phase string) bool {
	ok := true
	if len(block.Instructions) == 0 {
		sink.Errorf(diag.Pos{}, "[%s] block %d has no terminator", phase, block.Label)
		return false
	}
	for i, instr := range block.Instructions {
		last := i == len(block.Instructions)-1
		if instr.Op == ir.OpLabel {
			sink.Errorf(diag.Pos{}, "[%s] block %d: stray LABEL instruction (labels live on block headers)", phase, block.Label)
			ok = false
		}
		if instr.Op.IsOneTargetJump() {
			sink.Errorf(diag.Pos{}, "[%s] block %d: one-target conditional jump %s not allowed before scheduling", phase, block.Label, instr.Op)
			ok = false
		}
		if last {
			if !instr.Op.IsTerminator() {
				sink.Errorf(diag.Pos{}, "[%s] block %d does not end in a terminator (ends in %s)", phase, block.Label, instr.Op)
				ok = false
			}
		} else if instr.Op.IsTerminator() {
			sink.Errorf(diag.Pos{}, "[%s] block %d: terminator %s is not the block's last instruction", phase, block.Label, instr.Op)
			ok = false
		}
		if !checkOperandConstraints(instr, sink, phase) {
			ok = false
		}
	}
	return ok
}

// ValidateScheduled checks frags against the scheduled-IR invariants
// (spec §4.8): nonterminal jumps are allowed mid-stream; no two-target
// (J2…) jumps remain (they must have been lowered to J1 + fall-through);
// explicit LABEL instructions are allowed; NOPs are forbidden. Each TEXT
// fragment is expected to have been flattened to a single instruction
// stream (one block).
func ValidateScheduled(frags []*ir.Fragment, sink *diag.Sink, phase string) bool {
	ok := true
	for _, frag := range frags {
		if frag.Section != ir.SectionTEXT {
			continue
		}
		if !checkTempConsistency(frag, sink, phase) {
			ok = false
		}
		if len(frag.Blocks) != 1 {
			sink.Errorf(diag.Pos{}, "[%s] fragment %v: scheduled IR must be a single flattened block, found %d",
				phase, frag.Name, len(frag.Blocks))
			ok = false
			continue
		}
		for _, instr := range frag.Blocks[0].Instructions {
			if instr.Op == ir.OpNop {
				sink.Errorf(diag.Pos{}, "[%s] NOP instructions are forbidden in scheduled IR", phase)
				ok = false
			}
			if instr.Op.IsTwoTargetJump() {
				sink.Errorf(diag.Pos{}, "[%s] two-target jump %s must be lowered to J1 + fall-through before scheduling", phase, instr.Op)
				ok = false
			}
			if !checkOperandConstraints(instr, sink, phase) {
				ok = false
			}
		}
	}
	return ok
}

func checkOperandConstraints(instr *ir.Instruction, sink *diag.Sink, phase string) bool {
	info := instr.Op.Info()
	if !info.VariableArity && len(instr.Args) != len(info.Operands) {
		sink.Errorf(diag.Pos{}, "[%s] %s: expected %d operands, got %d", phase, instr.Op, len(info.Operands), len(instr.Args))
		return false
	}
	ok := true
	sizes := make([]uint64, len(instr.Args))
	groupSize := make(map[int]uint64)
	for i, arg := range instr.Args {
		c := info.Operands[0]
		if !info.VariableArity {
			c = info.Operands[i]
		}
		sizes[i] = arg.Sizeof()

		if !kindAllowed(c.Kinds, arg.Kind) {
			sink.Errorf(diag.Pos{}, "[%s] %s operand %d: kind %s not permitted", phase, instr.Op, i, arg.Kind)
			ok = false
			continue
		}
		if c.RequireLocal && !arg.IsLocal() {
			sink.Errorf(diag.Pos{}, "[%s] %s operand %d: must be a local-label operand", phase, instr.Op, i)
			ok = false
		}
		if c.ConstMustBeLabel && arg.Kind == ir.OperandConstant && !(arg.IsGlobal() || arg.IsLocal()) {
			sink.Errorf(diag.Pos{}, "[%s] %s operand %d: constant operand must be a global or local label", phase, instr.Op, i)
			ok = false
		}
		if c.Allocs != nil && arg.Kind == ir.OperandTemp && !allocAllowed(c.Allocs, arg.Alloc) {
			sink.Errorf(diag.Pos{}, "[%s] %s operand %d: allocation hint %s not permitted", phase, instr.Op, i, arg.Alloc)
			ok = false
		}
		if c.FixedSize != 0 && sizes[i] != c.FixedSize {
			sink.Errorf(diag.Pos{}, "[%s] %s operand %d: size %d, want %d", phase, instr.Op, i, sizes[i], c.FixedSize)
			ok = false
		}
		if c.SizeGroup != 0 {
			if prev, seen := groupSize[c.SizeGroup]; seen {
				if prev != sizes[i] {
					sink.Errorf(diag.Pos{}, "[%s] %s operand %d: size %d disagrees with its group (%d)", phase, instr.Op, i, sizes[i], prev)
					ok = false
				}
			} else {
				groupSize[c.SizeGroup] = sizes[i]
			}
		}
	}
	if ok && info.WidenCheck != nil && !info.WidenCheck(sizes) {
		sink.Errorf(diag.Pos{}, "[%s] %s: operand sizes do not satisfy the required widening relation", phase, instr.Op)
		ok = false
	}
	return ok
}

func kindAllowed(allowed []ir.OperandKind, k ir.OperandKind) bool {
	for _, a := range allowed {
		if a == k {
			return true
		}
	}
	return false
}

func allocAllowed(allowed []ir.AllocHint, a ir.AllocHint) bool {
	for _, x := range allowed {
		if x == a {
			return true
		}
	}
	return false
}

// checkTempConsistency enforces that every occurrence of the same temp
// name within frag shares identical size, alignment, and allocation hint
// (spec §4.8).
func checkTempConsistency(frag *ir.Fragment, sink *diag.Sink, phase string) bool {
	seen := make(map[uint64]ir.Operand)
	ok := true
	for _, block := range frag.Blocks {
		for _, instr := range block.Instructions {
			for _, arg := range instr.Args {
				if arg.Kind != ir.OperandTemp {
					continue
				}
				prev, found := seen[arg.TempName]
				if !found {
					seen[arg.TempName] = arg
					continue
				}
				if prev.Size != arg.Size || prev.Alignment != arg.Alignment || prev.Alloc != arg.Alloc {
					sink.Errorf(diag.Pos{}, "[%s] temp %d has inconsistent properties across occurrences", phase, arg.TempName)
					ok = false
				}
			}
		}
	}
	return ok
}
