// Package asminfo infers which physical registers an inline `asm` block
// reads and writes (spec §4.7: "inserts an opaque instruction that the
// backend treats as a black-box with declared reads and writes").
//
// Grounded on spec §4.7's "black box with declared reads and writes" and
// on the teacher's own use of golang.org/x/arch for instruction tables
// (cmd/compile's assemblers import the same family of packages for
// opcode metadata). An asm block's literal text in this language is a
// whitespace-separated stream of hex-encoded machine code bytes, one
// instruction boundary per decode — there is no assembler in this
// toolchain to turn mnemonic text back into bytes, so x86asm.Decode is
// given the bytes directly, the same input shape its own package tests
// feed it.
package asminfo

import (
	"encoding/hex"
	"strings"

	"golang.org/x/arch/x86/x86asm"
)

// Info is the read/write register-family sets one asm block statement
// contributes to C7's opaque IR instruction.
type Info struct {
	Reads  map[string]bool
	Writes map[string]bool

	// Decoded counts how many instructions decoded cleanly. A block
	// whose text decodes to zero instructions (empty, or every line
	// failed) still reports itself as touching everything (see Decode).
	Decoded int
	Total   int
}

// Decode parses text (an asm block's literal source) into the register
// families it reads and writes. Decoding is best-effort: a byte sequence
// x86asm can't decode — or text that isn't a hex byte stream at all —
// degrades to "declares all general-purpose registers read and written"
// rather than an error, since spec treats asm as an opaque black box and
// a translation failure here must never block the rest of the pipeline.
func Decode(text string) Info {
	info := Info{Reads: map[string]bool{}, Writes: map[string]bool{}}

	raw, ok := decodeHexStream(text)
	if !ok || len(raw) == 0 {
		return allRegisters()
	}

	off := 0
	for off < len(raw) {
		inst, err := x86asm.Decode(raw[off:], 64)
		if err != nil || inst.Len == 0 {
			return allRegisters()
		}
		info.Total++
		info.Decoded++
		classify(inst, &info)
		off += inst.Len
	}
	if info.Decoded == 0 {
		return allRegisters()
	}
	return info
}

// decodeHexStream turns whitespace-separated hex byte groups ("55 48 89
// e5", "55\n4889e5") into a flat byte slice. Any token that isn't valid
// hex fails the whole block (spec: "degrades ... never an error" is
// handled by the caller, not here).
func decodeHexStream(text string) ([]byte, bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil, true
	}
	var out []byte
	for _, f := range fields {
		b, err := hex.DecodeString(f)
		if err != nil {
			return nil, false
		}
		out = append(out, b...)
	}
	return out, true
}

// allRegisters is the conservative fallback Info: every general-purpose
// register family is reported both read and written, so C7's ASM IR
// instruction never under-declares its effect on an undecodable block.
func allRegisters() Info {
	info := Info{Reads: map[string]bool{}, Writes: map[string]bool{}}
	for _, name := range regFamilyNames {
		info.Reads[name] = true
		info.Writes[name] = true
	}
	return info
}

// regFamilyNames is indexed by register family id (spec §B.2). x86asm.Reg
// enumerates the word, dword, and qword registers in 16-wide blocks in
// this order; the byte block is 20 wide (AL..BL, then the high bytes
// AH..BH, then SPB..R15B), so regFamily maps it separately.
var regFamilyNames = []string{
	"AX", "CX", "DX", "BX", "SP", "BP", "SI", "DI",
	"R8", "R9", "R10", "R11", "R12", "R13", "R14", "R15",
}

// regFamily maps an x86asm.Reg of any width to its family name, or ""
// for a non general-purpose register (x86asm also enumerates segment,
// FPU, and vector registers this translator has no use for).
func regFamily(r x86asm.Reg) string {
	switch {
	case r >= x86asm.AL && r <= x86asm.BL:
		return regFamilyNames[r-x86asm.AL]
	case r >= x86asm.AH && r <= x86asm.BH:
		return regFamilyNames[r-x86asm.AH]
	case r >= x86asm.SPB && r <= x86asm.R15B:
		return regFamilyNames[4+r-x86asm.SPB]
	case r >= x86asm.AX && r <= x86asm.R15:
		return regFamilyNames[(r-x86asm.AX)%16]
	}
	return ""
}

// readWriteOps are instructions whose first (destination) operand is
// also read, not just written (spec's black-box model only needs the
// coarse read/write set, not full per-operand semantics). Instructions
// outside this set are treated as write-only-to-first-operand, which is
// exactly the MOV/LEA/plain-load shape.
var readWriteOps = map[x86asm.Op]bool{
	x86asm.ADD: true, x86asm.SUB: true, x86asm.AND: true, x86asm.OR: true,
	x86asm.XOR: true, x86asm.ADC: true, x86asm.SBB: true,
	x86asm.SHL: true, x86asm.SHR: true, x86asm.SAR: true,
	x86asm.INC: true, x86asm.DEC: true, x86asm.NOT: true, x86asm.NEG: true,
	x86asm.IMUL: true, x86asm.XCHG: true,
}

// classify attaches inst's register operands to info's read/write sets.
func classify(inst x86asm.Inst, info *Info) {
	for i, arg := range inst.Args {
		if arg == nil {
			continue
		}
		switch a := arg.(type) {
		case x86asm.Reg:
			fam := regFamily(a)
			if fam == "" {
				continue
			}
			if i == 0 {
				info.Writes[fam] = true
				if readWriteOps[inst.Op] {
					info.Reads[fam] = true
				}
			} else {
				info.Reads[fam] = true
			}
		case x86asm.Mem:
			if fam := regFamily(a.Base); fam != "" {
				info.Reads[fam] = true
			}
			if fam := regFamily(a.Index); fam != "" {
				info.Reads[fam] = true
			}
		}
	}
}
