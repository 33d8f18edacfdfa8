package symtab

import (
	"errors"

	"github.com/kittywantsbacon/TCompiler/internal/types"
)

// ErrNoMatch and ErrAmbiguous are returned by OverloadSet.Resolve (spec
// §4.2: "Tie breaks are reported as ambiguity errors").
var (
	ErrNoMatch   = errors.New("symtab: no overload matches the given arguments")
	ErrAmbiguous = errors.New("symtab: call is ambiguous among overloads")
)

// Overload is one candidate in a function entry's overload set (spec §3).
type Overload struct {
	Return      *types.Type
	Params      []*types.Type
	NumOptional int  // count of trailing parameters with default values
	Defined     bool // false for a declaration, true for a definition
}

// requiredCount is the number of leading parameters that are not optional.
func (o *Overload) requiredCount() int {
	return len(o.Params) - o.NumOptional
}

// sameSignature reports whether o and other declare the identical ordered
// parameter-type sequence (spec §8: "For every pair of overload
// candidates α, β in one function entry, their parameter-type sequences
// are not equal" — used by stabbuild to find the one overload, if any, a
// new declaration/definition must reconcile with).
func (o *Overload) sameSignature(params []*types.Type) bool {
	if len(o.Params) != len(params) {
		return false
	}
	for i := range params {
		if !types.Equal(o.Params[i], params[i]) {
			return false
		}
	}
	return true
}

// OverloadSet is the ordered sequence of overloads a function entry
// carries (spec §3).
type OverloadSet struct {
	Overloads []*Overload
}

// NewOverloadSet returns an empty overload set.
func NewOverloadSet() *OverloadSet { return &OverloadSet{} }

// FindExact returns the overload whose parameter sequence is exactly
// params, or nil if none matches. Used by stabbuild to decide whether a
// new declaration/definition appends a new overload or reconciles with
// an existing one (spec §4.4).
func (s *OverloadSet) FindExact(params []*types.Type) *Overload {
	for _, o := range s.Overloads {
		if o.sameSignature(params) {
			return o
		}
	}
	return nil
}

// Append adds a new overload. The caller (stabbuild) is responsible for
// having already checked, via FindExact, that no existing overload
// shares its parameter sequence.
func (s *OverloadSet) Append(o *Overload) {
	s.Overloads = append(s.Overloads, o)
}

// candidate pairs an overload with how many of its parameters required an
// implicit conversion (rather than being exactly equal) to accept a given
// call, used to rank "more specific" matches (spec §4.2, rule 3).
type candidate struct {
	overload     *Overload
	conversions  int // count of parameters that needed implicit conversion
	exactMatches []bool
}

// Resolve finds the overload matching a call with the given argument
// types, per spec §4.2:
//  1. required-parameter count <= len(args) <= total-parameter count
//  2. each argument is equal to or implicitly convertible to the
//     corresponding parameter type
//  3. no other candidate is strictly more specific (equal where this one
//     only converts, in every parameter)
//
// Ties are reported as ErrAmbiguous, exactly one surviving candidate as a
// match, and no candidates as ErrNoMatch.
func (s *OverloadSet) Resolve(args []*types.Type) (*Overload, error) {
	var candidates []candidate
	for _, o := range s.Overloads {
		if len(args) < o.requiredCount() || len(args) > len(o.Params) {
			continue
		}
		exact := make([]bool, len(args))
		ok := true
		conversions := 0
		for i, a := range args {
			p := o.Params[i]
			switch {
			case types.Equal(a, p):
				exact[i] = true
			case types.ImplicitlyConvertible(a, p):
				conversions++
			default:
				ok = false
			}
			if !ok {
				break
			}
		}
		if !ok {
			continue
		}
		candidates = append(candidates, candidate{overload: o, conversions: conversions, exactMatches: exact})
	}

	if len(candidates) == 0 {
		return nil, ErrNoMatch
	}
	if len(candidates) == 1 {
		return candidates[0].overload, nil
	}

	// A candidate c1 dominates c2 when c1 is at least as exact as c2 in
	// every parameter and strictly more exact in at least one (spec
	// §4.2 rule 3: "no other candidate exists whose parameter types are
	// strictly more specific (all parameters equal where this one only
	// converts)").
	dominates := func(c1, c2 candidate) bool {
		atLeastAsExact := true
		strictlyBetter := false
		for i := range c1.exactMatches {
			if c1.exactMatches[i] && !c2.exactMatches[i] {
				strictlyBetter = true
			} else if !c1.exactMatches[i] && c2.exactMatches[i] {
				atLeastAsExact = false
			}
		}
		return atLeastAsExact && strictlyBetter
	}

	var best *candidate
	for i := range candidates {
		dominatedByAnother := false
		for j := range candidates {
			if i == j {
				continue
			}
			if dominates(candidates[j], candidates[i]) {
				dominatedByAnother = true
				break
			}
		}
		if !dominatedByAnother {
			if best != nil {
				return nil, ErrAmbiguous
			}
			best = &candidates[i]
		}
	}
	if best == nil {
		return nil, ErrAmbiguous
	}
	return best.overload, nil
}
