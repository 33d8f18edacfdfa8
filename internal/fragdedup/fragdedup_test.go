package fragdedup

import (
	"testing"

	"github.com/kittywantsbacon/TCompiler/internal/ir"
)

func textFrag(name string, label1, label2 uint64) *ir.Fragment {
	f := ir.NewTextFragment(name)
	f.Blocks = []*ir.Block{
		{Label: 0, Instructions: []*ir.Instruction{
			ir.NewInstruction(ir.OpMove,
				ir.NewTemp(0, 8, 8, ir.AllocGP),
				ir.NewLocalOperand(label1)),
			ir.NewInstruction(ir.OpMove,
				ir.NewTemp(1, 8, 8, ir.AllocGP),
				ir.NewLocalOperand(label2)),
			ir.NewInstruction(ir.OpReturn),
		}},
	}
	return f
}

func stringFrag(local uint64, s string) *ir.Fragment {
	f := ir.NewLocalDataFragment(ir.SectionRODATA, local, 1)
	f.Data = []ir.Datum{ir.NewStringDatum([]byte(s))}
	return f
}

func TestDedupCollapsesIdenticalStringFragments(t *testing.T) {
	a := stringFrag(1, "hello")
	b := stringFrag(2, "hello")
	c := stringFrag(3, "world")
	text := textFrag("m::f", 1, 2)

	out := Dedup([]*ir.Fragment{a, b, c, text})

	var rodata []*ir.Fragment
	for _, f := range out {
		if f.Section == ir.SectionRODATA {
			rodata = append(rodata, f)
		}
	}
	if len(rodata) != 2 {
		t.Fatalf("expected 2 surviving RODATA fragments (hello, world), got %d", len(rodata))
	}

	var textOut *ir.Fragment
	for _, f := range out {
		if f.Section == ir.SectionTEXT {
			textOut = f
		}
	}
	if textOut == nil {
		t.Fatal("TEXT fragment missing from output")
	}
	op1 := textOut.Blocks[0].Instructions[0].Args[1]
	op2 := textOut.Blocks[0].Instructions[1].Args[1]
	if op1.Data[0].LocalLabel != op2.Data[0].LocalLabel {
		t.Errorf("expected both MOVE source operands to reference the same canonical label after dedup, got %d and %d",
			op1.Data[0].LocalLabel, op2.Data[0].LocalLabel)
	}
}

func TestDedupKeepsDistinctFragments(t *testing.T) {
	a := stringFrag(1, "hello")
	b := stringFrag(2, "world")
	out := Dedup([]*ir.Fragment{a, b})
	if len(out) != 2 {
		t.Fatalf("expected both distinct fragments to survive, got %d", len(out))
	}
}

func TestDedupIgnoresGlobalAndTextFragments(t *testing.T) {
	g := ir.NewGlobalDataFragment(ir.SectionDATA, "m::x", 4)
	g.Data = []ir.Datum{ir.NewIntDatum(1)}
	text := ir.NewTextFragment("m::f")
	text.Blocks = []*ir.Block{{Label: 0, Instructions: []*ir.Instruction{ir.NewInstruction(ir.OpReturn)}}}

	out := Dedup([]*ir.Fragment{g, text})
	if len(out) != 2 {
		t.Fatalf("expected global/TEXT fragments to pass through untouched, got %d", len(out))
	}
}
