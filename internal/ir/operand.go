package ir

// OperandKind discriminates an Operand's payload (spec §3).
type OperandKind uint8

const (
	OperandTemp OperandKind = iota
	OperandReg
	OperandConstant
)

func (k OperandKind) String() string {
	switch k {
	case OperandTemp:
		return "TEMP"
	case OperandReg:
		return "REG"
	case OperandConstant:
		return "CONST"
	default:
		return "unknown operand kind"
	}
}

// AllocHint classifies a temp into a register class or forced memory
// (spec §3, GLOSSARY "Allocation hint").
type AllocHint uint8

const (
	AllocGP AllocHint = iota
	AllocFP
	AllocMEM
)

func (a AllocHint) String() string {
	switch a {
	case AllocGP:
		return "GP"
	case AllocFP:
		return "FP"
	case AllocMEM:
		return "MEM"
	default:
		return "unknown allocation hint"
	}
}

// Operand is one argument of an Instruction (spec §3).
type Operand struct {
	Kind OperandKind

	// OperandTemp.
	TempName  uint64
	Alignment uint64
	Size      uint64
	Alloc     AllocHint

	// OperandReg. Size above is shared with OperandTemp.
	RegName uint64

	// OperandConstant. Alignment above is shared with OperandTemp.
	Data []Datum
}

// NewTemp constructs a temp operand. size > PointerWidth forces MEM
// allocation (spec §3: "size > POINTER_WIDTH ==> kind == MEM").
func NewTemp(name, alignment, size uint64, alloc AllocHint) Operand {
	if size > PointerWidth {
		alloc = AllocMEM
	}
	return Operand{Kind: OperandTemp, TempName: name, Alignment: alignment, Size: size, Alloc: alloc}
}

// NewReg constructs a physical-register operand.
func NewReg(name, size uint64) Operand {
	return Operand{Kind: OperandReg, RegName: name, Size: size}
}

// NewConstant constructs a constant operand carrying datum as its sole
// payload, aligned to alignment.
func NewConstant(alignment uint64, datum ...Datum) Operand {
	return Operand{Kind: OperandConstant, Alignment: alignment, Data: datum}
}

// NewGlobalOperand constructs a constant operand that is a bare global
// label (spec §3: "global if a global-label datum alone").
func NewGlobalOperand(name string) Operand {
	return NewConstant(PointerWidth, NewGlobalLabelDatum(name))
}

// NewLocalOperand constructs a constant operand that is a bare local
// label (spec §3: "local if a local-label datum alone").
func NewLocalOperand(label uint64) Operand {
	return NewConstant(PointerWidth, NewLocalLabelDatum(label))
}

// Sizeof returns o's size in bytes.
func (o Operand) Sizeof() uint64 {
	switch o.Kind {
	case OperandTemp, OperandReg:
		return o.Size
	case OperandConstant:
		var total uint64
		for _, d := range o.Data {
			total += d.Sizeof()
		}
		return total
	default:
		return 0
	}
}

// Alignof returns o's required alignment in bytes.
func (o Operand) Alignof() uint64 {
	switch o.Kind {
	case OperandTemp, OperandConstant:
		return o.Alignment
	case OperandReg:
		return o.Size
	default:
		return 1
	}
}

// IsLabel reports whether o is a local-label datum and nothing else
// (spec §3).
func (o Operand) IsLabel() bool { return o.IsLocal() }

// IsGlobal reports whether o is a single global-label datum.
func (o Operand) IsGlobal() bool {
	return o.Kind == OperandConstant && len(o.Data) == 1 && o.Data[0].Kind == DatumGlobalLabel
}

// IsLocal reports whether o is a single local-label datum.
func (o Operand) IsLocal() bool {
	return o.Kind == OperandConstant && len(o.Data) == 1 && o.Data[0].Kind == DatumLocalLabel
}

// GlobalName returns the label name of a global operand. Panics if !IsGlobal().
func (o Operand) GlobalName() string {
	if !o.IsGlobal() {
		panic("ir: GlobalName called on a non-global operand")
	}
	return o.Data[0].GlobalLabel
}

// LocalName returns the label value of a local operand. Panics if !IsLocal().
func (o Operand) LocalName() uint64 {
	if !o.IsLocal() {
		panic("ir: LocalName called on a non-local operand")
	}
	return o.Data[0].LocalLabel
}

// Copy deep-copies o.
func (o Operand) Copy() Operand {
	c := o
	if o.Data != nil {
		c.Data = make([]Datum, len(o.Data))
		for i, d := range o.Data {
			c.Data[i] = d.Copy()
		}
	}
	return c
}
