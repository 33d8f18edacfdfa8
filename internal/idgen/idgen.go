// Package idgen implements the temp/label generator the translator (C7)
// depends on (spec §5: "Temp-name allocation is supplied by an injected
// generator so callers can guarantee uniqueness across threads if they
// parallelize in future; the generator's only contract is strictly
// monotonic unique output"), grounded on the teacher's LabelGeneratorCtor
// equivalent named in original_source/src/main/translate/translate.h.
package idgen

import "sync/atomic"

// Generator hands out strictly monotonic, unique uint64 identifiers. A
// single Generator is shared by one compilation's temp names and its
// local (block) labels are drawn from a second Generator so the two
// numberings don't collide inside one fragment.
type Generator interface {
	Next() uint64
}

// Monotonic is a mutex-free (atomic-counter) Generator, safe for
// concurrent callers even though the core itself is single-threaded
// (spec §5's forward-looking note).
type Monotonic struct {
	next uint64
}

// NewMonotonic returns a Generator starting at 0.
func NewMonotonic() *Monotonic { return &Monotonic{} }

// Next returns the next unique value, starting at 0.
func (m *Monotonic) Next() uint64 {
	return atomic.AddUint64(&m.next, 1) - 1
}
