package main

import (
	"fmt"
	"os"

	"github.com/kittywantsbacon/TCompiler/internal/phaseprofile"
)

// writeProfile merges rec's phases (if any were recorded) and writes the
// combined profile to --cpuprofile. A build fast enough to produce zero
// samples is not an error (internal/phaseprofile.Recorder.Merge's ok=false
// case); tcc just skips the write and says so.
func writeProfile(rec *phaseprofile.Recorder) error {
	if rec == nil {
		return nil
	}
	merged, ok, err := rec.Merge()
	if err != nil {
		return fmt.Errorf("tcc: merging phase profiles: %w", err)
	}
	if !ok {
		fmt.Fprintln(os.Stderr, "tcc: run finished before the sampling profiler caught any frame; no profile written")
		return nil
	}
	f, err := os.Create(optionFlags.cpuProfile)
	if err != nil {
		return fmt.Errorf("tcc: creating %q: %w", optionFlags.cpuProfile, err)
	}
	defer f.Close()
	return merged.Write(f)
}
