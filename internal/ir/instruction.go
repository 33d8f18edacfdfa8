package ir

// Instruction is an operator plus its fixed-arity operand list (spec §3).
type Instruction struct {
	Op   Operator
	Args []Operand
}

// NewInstruction constructs an instruction, panicking if len(args) does
// not match op's declared arity — a mismatch here is a translator bug,
// not a user-facing error (spec §7 classifies this as an IR-invariant
// defect).
func NewInstruction(op Operator, args ...Operand) *Instruction {
	if want := op.Arity(); want >= 0 && len(args) != want {
		panic("ir: wrong operand count for " + op.String())
	}
	return &Instruction{Op: op, Args: args}
}

// MakeNop overwrites i in place to a zero-operand NOP, mirroring
// original_source's irInstructionMakeNop (used by dead-code elimination
// in the backend; C8 forbids NOP at the scheduled phase, spec §4.8).
func (i *Instruction) MakeNop() {
	i.Op = OpNop
	i.Args = nil
}

// Copy deep-copies i.
func (i *Instruction) Copy() *Instruction {
	args := make([]Operand, len(i.Args))
	for j, a := range i.Args {
		args[j] = a.Copy()
	}
	return &Instruction{Op: i.Op, Args: args}
}

// Block is a label plus an ordered list of instructions (spec §3).
type Block struct {
	Label        uint64
	Instructions []*Instruction
}

// NewBlock constructs an empty block with the given label.
func NewBlock(label uint64) *Block {
	return &Block{Label: label}
}

// IndexOfBlock returns the index of the block labeled label within
// blocks, or -1 if absent.
func IndexOfBlock(blocks []*Block, label uint64) int {
	for i, b := range blocks {
		if b.Label == label {
			return i
		}
	}
	return -1
}

// FindBlock returns the block labeled label within blocks, or nil.
func FindBlock(blocks []*Block, label uint64) *Block {
	if i := IndexOfBlock(blocks, label); i >= 0 {
		return blocks[i]
	}
	return nil
}
