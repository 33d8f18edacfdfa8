package main

import (
	"fmt"
	"io"

	"github.com/kittywantsbacon/TCompiler/internal/ir"
)

// dumpFragments writes a human-readable rendering of frags to w. Target-
// specific backend emission is an explicit non-goal (spec §1), so this is
// strictly a confirmation that C7/C8 produced something, using the
// textual operator/operand names C6 already exposes (spec §3: "textual
// operator names").
func dumpFragments(w io.Writer, module string, frags []*ir.Fragment) {
	for _, f := range frags {
		fmt.Fprintf(w, "%s %s %s\n", module, f.Section, fragName(f))
		for _, b := range f.Blocks {
			fmt.Fprintf(w, "  L%d:\n", b.Label)
			for _, instr := range b.Instructions {
				fmt.Fprintf(w, "    %s %v\n", instr.Op, instr.Args)
			}
		}
		for _, d := range f.Data {
			fmt.Fprintf(w, "    datum kind=%d\n", d.Kind)
		}
	}
}

func fragName(f *ir.Fragment) string {
	if f.Name.IsLocal {
		return fmt.Sprintf("L%d", f.Name.Local)
	}
	return f.Name.Global
}
