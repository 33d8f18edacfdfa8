// Package ir implements the three-address intermediate representation
// (spec §3, §4.6, "C6"): fragments, datums, operands, instructions, and
// blocks, plus the operator arity/operand-constraint tables C8 checks.
//
// Grounded on original_source/src/main/ir/ir.h, translated from its
// tagged-union C structs into Go structs with a Kind/Variant discriminant,
// per spec §9 ("Discriminated variants... Express each as a sum type with
// exhaustive case handling").
package ir

// PointerWidth is the target pointer size in bytes this package assumes
// for POINTER_WIDTH-sized operand checks (spec §4.6). The translator and
// validator are otherwise target-neutral; this single constant is the one
// place a narrower target would need to override.
const PointerWidth = 8

// SectionKind tags a Fragment (spec §3).
type SectionKind uint8

const (
	SectionBSS SectionKind = iota
	SectionRODATA
	SectionDATA
	SectionTEXT
)

func (k SectionKind) String() string {
	switch k {
	case SectionBSS:
		return "BSS"
	case SectionRODATA:
		return "RODATA"
	case SectionDATA:
		return "DATA"
	case SectionTEXT:
		return "TEXT"
	default:
		return "unknown section"
	}
}

// FragName is a fragment's name: either a global (external-linkage
// string) or a local (numeric label).
type FragName struct {
	Global string // set iff !Local
	Local  uint64
	IsLocal bool
}

// Fragment is a unit of emitted output (spec §3). Exactly one of Data or
// Blocks is populated, per Section.
type Fragment struct {
	Section   SectionKind
	Name      FragName
	Alignment uint64 // power of two; meaningful for BSS/RODATA/DATA

	Data   []Datum  // SectionBSS, SectionRODATA, SectionDATA
	Blocks []*Block // SectionTEXT; Blocks[0] is the entry block
}

// NewGlobalDataFragment constructs a data-section fragment with external
// linkage.
func NewGlobalDataFragment(section SectionKind, name string, alignment uint64) *Fragment {
	return &Fragment{Section: section, Name: FragName{Global: name}, Alignment: alignment}
}

// NewLocalDataFragment constructs a data-section fragment with a numeric
// local label.
func NewLocalDataFragment(section SectionKind, local uint64, alignment uint64) *Fragment {
	return &Fragment{Section: section, Name: FragName{Local: local, IsLocal: true}, Alignment: alignment}
}

// NewTextFragment constructs an empty TEXT fragment.
func NewTextFragment(name string) *Fragment {
	return &Fragment{Section: SectionTEXT, Name: FragName{Global: name}}
}

// FindFragment returns the fragment in frags whose local label is local,
// or nil if none matches (mirrors original_source's findFrag).
func FindFragment(frags []*Fragment, local uint64) *Fragment {
	for _, f := range frags {
		if f.Name.IsLocal && f.Name.Local == local {
			return f
		}
	}
	return nil
}

// DatumKind discriminates a Datum's payload.
type DatumKind uint8

const (
	DatumByte DatumKind = iota
	DatumShort
	DatumInt
	DatumLong
	DatumPadding
	DatumString
	DatumWString
	DatumLocalLabel
	DatumGlobalLabel
)

// Datum is one element of a DATA/RODATA/BSS fragment's contents, or of a
// constant operand (spec §3).
type Datum struct {
	Kind DatumKind

	Byte  uint8
	Short uint16
	Int   uint32
	Long  uint64

	PaddingLen uint64

	String  []byte
	WString []uint32

	LocalLabel  uint64
	GlobalLabel string
}

func NewByteDatum(v uint8) Datum    { return Datum{Kind: DatumByte, Byte: v} }
func NewShortDatum(v uint16) Datum  { return Datum{Kind: DatumShort, Short: v} }
func NewIntDatum(v uint32) Datum    { return Datum{Kind: DatumInt, Int: v} }
func NewLongDatum(v uint64) Datum   { return Datum{Kind: DatumLong, Long: v} }
func NewPaddingDatum(n uint64) Datum { return Datum{Kind: DatumPadding, PaddingLen: n} }
func NewStringDatum(s []byte) Datum { return Datum{Kind: DatumString, String: s} }
func NewWStringDatum(s []uint32) Datum { return Datum{Kind: DatumWString, WString: s} }
func NewLocalLabelDatum(label uint64) Datum    { return Datum{Kind: DatumLocalLabel, LocalLabel: label} }
func NewGlobalLabelDatum(label string) Datum   { return Datum{Kind: DatumGlobalLabel, GlobalLabel: label} }

// Sizeof returns d's size in bytes (a label datum counts as PointerWidth,
// matching the original's treatment of label-valued data as address-sized).
func (d Datum) Sizeof() uint64 {
	switch d.Kind {
	case DatumByte:
		return 1
	case DatumShort:
		return 2
	case DatumInt:
		return 4
	case DatumLong:
		return 8
	case DatumPadding:
		return d.PaddingLen
	case DatumString:
		return uint64(len(d.String)) + 1 // NUL-terminated
	case DatumWString:
		return (uint64(len(d.WString)) + 1) * 4
	case DatumLocalLabel, DatumGlobalLabel:
		return PointerWidth
	default:
		return 0
	}
}

// Copy deep-copies d (its slice payloads are duplicated).
func (d Datum) Copy() Datum {
	c := d
	if d.String != nil {
		c.String = append([]byte(nil), d.String...)
	}
	if d.WString != nil {
		c.WString = append([]uint32(nil), d.WString...)
	}
	return c
}
