// Package phaseprofile wraps each compilation phase cmd/tcc drives (parse,
// stabbuild, check, translate, validate) in its own runtime/pprof CPU
// profile, then merges the
// per-phase profiles into one combined profile describing the whole
// run (SPEC_FULL §B.6). This is strictly observability — the pipeline's
// own resource use, never read back by the compiler itself — so it does
// not reintroduce the persisted state between runs spec's non-goals
// exclude.
package phaseprofile

import (
	"bytes"
	"fmt"
	"runtime/pprof"

	"github.com/google/pprof/profile"
)

// Recorder accumulates one CPU profile per named phase.
type Recorder struct {
	profiles []*profile.Profile
	errs     []error
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder { return &Recorder{} }

// Phase runs fn under its own runtime/pprof CPU profile and records the
// result, labeled name (spec's own phase names: "stabbuild", "check",
// "translate", and so on). A profiling or parse failure for one phase is
// recorded and surfaces from Merge rather than aborting the phase itself
// — a broken profiler must never fail a build.
func (r *Recorder) Phase(name string, fn func()) {
	var buf bytes.Buffer
	if err := pprof.StartCPUProfile(&buf); err != nil {
		r.errs = append(r.errs, fmt.Errorf("phaseprofile: starting profile for %q: %w", name, err))
		fn()
		return
	}
	fn()
	pprof.StopCPUProfile()

	if buf.Len() == 0 {
		return
	}
	p, err := profile.Parse(&buf)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("phaseprofile: parsing profile for %q: %w", name, err))
		return
	}
	if len(p.Sample) == 0 {
		return
	}
	for _, s := range p.Sample {
		s.Label = cloneLabels(s.Label)
		s.Label["phase"] = append(s.Label["phase"], name)
	}
	r.profiles = append(r.profiles, p)
}

func cloneLabels(in map[string][]string) map[string][]string {
	out := make(map[string][]string, len(in)+1)
	for k, v := range in {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// Merge combines every recorded phase's profile into one. It returns nil
// (with ok=false) if no phase produced any samples — a compilation too
// fast for the sampling interval to ever fire is not itself an error.
func (r *Recorder) Merge() (merged *profile.Profile, ok bool, err error) {
	if len(r.errs) > 0 {
		return nil, false, fmt.Errorf("phaseprofile: %d phase(s) failed to profile: %w", len(r.errs), r.errs[0])
	}
	if len(r.profiles) == 0 {
		return nil, false, nil
	}
	merged, err = profile.Merge(r.profiles)
	if err != nil {
		return nil, false, fmt.Errorf("phaseprofile: merging phase profiles: %w", err)
	}
	return merged, true, nil
}
