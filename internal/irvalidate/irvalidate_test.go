package irvalidate

import (
	"testing"

	"github.com/kittywantsbacon/TCompiler/internal/diag"
	"github.com/kittywantsbacon/TCompiler/internal/ir"
)

func gpTemp(name, size uint64) ir.Operand {
	return ir.NewTemp(name, size, size, ir.AllocGP)
}

// TestJ1BlockedRejectedScheduledAccepted pins spec §8 scenario 5: "a
// hand-built blocked fragment ending in a J1E fails C8-blocked; the same
// fragment after scheduling (converting the two-target form to J1 +
// fall-through) passes C8-scheduled."
func TestJ1BlockedRejectedScheduledAccepted(t *testing.T) {
	j1e := ir.NewInstruction(ir.OpJ1E, ir.NewLocalOperand(1), gpTemp(0, 4), gpTemp(1, 4))
	block := ir.NewBlock(0)
	block.Instructions = []*ir.Instruction{j1e}
	frag := ir.NewTextFragment("m::f")
	frag.Blocks = []*ir.Block{block}

	sink := diag.NewSink()
	if ValidateBlocked([]*ir.Fragment{frag}, sink, "translate") {
		t.Fatal("ValidateBlocked should reject a block ending in J1E")
	}

	// Lower to scheduled form: J1E stays (one-target jumps are legal once
	// scheduled) but must not be the block's enforced terminator, and the
	// whole fragment collapses to one block.
	schedSink := diag.NewSink()
	if !ValidateScheduled([]*ir.Fragment{frag}, schedSink, "schedule") {
		t.Fatalf("ValidateScheduled should accept a single-block fragment ending in J1E, got: %v", schedSink.Diagnostics())
	}
}

func TestBlockedRequiresExactlyOneTerminator(t *testing.T) {
	ret := ir.NewInstruction(ir.OpReturn)
	nop := ir.NewInstruction(ir.OpNop)
	block := ir.NewBlock(0)
	block.Instructions = []*ir.Instruction{ret, nop}
	frag := ir.NewTextFragment("m::f")
	frag.Blocks = []*ir.Block{block}

	sink := diag.NewSink()
	if ValidateBlocked([]*ir.Fragment{frag}, sink, "translate") {
		t.Fatal("ValidateBlocked should reject a terminator that isn't last")
	}
}

func TestBlockedRejectsStrayLabel(t *testing.T) {
	label := ir.NewInstruction(ir.OpLabel, ir.NewLocalOperand(1))
	ret := ir.NewInstruction(ir.OpReturn)
	block := ir.NewBlock(0)
	block.Instructions = []*ir.Instruction{label, ret}
	frag := ir.NewTextFragment("m::f")
	frag.Blocks = []*ir.Block{block}

	sink := diag.NewSink()
	if ValidateBlocked([]*ir.Fragment{frag}, sink, "translate") {
		t.Fatal("ValidateBlocked should reject a stray LABEL instruction")
	}
}

func TestScheduledRejectsNop(t *testing.T) {
	nop := ir.NewInstruction(ir.OpNop)
	block := ir.NewBlock(0)
	block.Instructions = []*ir.Instruction{nop}
	frag := ir.NewTextFragment("m::f")
	frag.Blocks = []*ir.Block{block}

	sink := diag.NewSink()
	if ValidateScheduled([]*ir.Fragment{frag}, sink, "schedule") {
		t.Fatal("ValidateScheduled should reject a NOP instruction")
	}
}

func TestScheduledRejectsTwoTargetJump(t *testing.T) {
	j2e := ir.NewInstruction(ir.OpJ2E, ir.NewLocalOperand(1), ir.NewLocalOperand(2), gpTemp(0, 4), gpTemp(1, 4))
	block := ir.NewBlock(0)
	block.Instructions = []*ir.Instruction{j2e}
	frag := ir.NewTextFragment("m::f")
	frag.Blocks = []*ir.Block{block}

	sink := diag.NewSink()
	if ValidateScheduled([]*ir.Fragment{frag}, sink, "schedule") {
		t.Fatal("ValidateScheduled should reject a two-target jump")
	}
}

func TestTempConsistencyAcrossOccurrences(t *testing.T) {
	move1 := ir.NewInstruction(ir.OpMove, gpTemp(0, 4), ir.NewConstant(4, ir.NewIntDatum(1)))
	badTemp := ir.NewTemp(0, 8, 8, ir.AllocMEM) // same name, different shape
	move2 := ir.NewInstruction(ir.OpMove, badTemp, ir.NewConstant(8, ir.NewLongDatum(2)))
	ret := ir.NewInstruction(ir.OpReturn)
	block := ir.NewBlock(0)
	block.Instructions = []*ir.Instruction{move1, move2, ret}
	frag := ir.NewTextFragment("m::f")
	frag.Blocks = []*ir.Block{block}

	sink := diag.NewSink()
	if ValidateBlocked([]*ir.Fragment{frag}, sink, "translate") {
		t.Fatal("ValidateBlocked should reject inconsistent temp properties")
	}
}
