package types

import "strings"

// String renders t in the textual form used in diagnostics (spec §4.1
// "Rendering"), grounded on original_source's typeToString.
func (t *Type) String() string {
	if t == nil {
		return "<nil type>"
	}
	switch t.Variant {
	case Keyword:
		return t.Kw.String()
	case Qualified:
		base := t.Base.String()
		switch {
		case t.IsConst() && t.IsVolatile():
			return base + " volatile const"
		case t.IsConst():
			return base + " const"
		default: // at least one of const, volatile must be true
			return base + " volatile"
		}
	case Pointer:
		base := t.Base.String()
		if strings.HasSuffix(base, "*") {
			return base + "*"
		}
		return base + " *"
	case Array:
		return t.Base.String() + "[" + uintToString(t.Length) + "]"
	case FuncPointer:
		return t.Return.String() + "(" + typesToString(t.Args) + ")"
	case Aggregate:
		return "{" + typesToString(t.Fields) + "}"
	case Reference:
		return t.RefID
	default:
		panic("types: bad variant in String")
	}
}

func typesToString(ts []*Type) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = t.String()
	}
	return strings.Join(parts, ", ")
}

func uintToString(v uint64) string {
	if v == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}
