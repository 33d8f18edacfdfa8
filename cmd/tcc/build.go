package main

import (
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/kittywantsbacon/TCompiler/internal/ir"
	"github.com/kittywantsbacon/TCompiler/internal/phaseprofile"
)

func newBuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build <dir>",
		Short: "Run the full C1-C8 pipeline over a module directory and dump the resulting IR fragments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := runOptions{Set: resolveOptions(), ConstEval: foldArraySize}

			var rec *phaseprofile.Recorder
			if optionFlags.cpuProfile != "" {
				rec = phaseprofile.NewRecorder()
			}

			result, err := runPipeline(args[0], opts, rec, true)
			if err != nil {
				return err
			}
			render(result.sink, os.Stdout)
			if result.sink.ExitStatus() == 0 {
				for _, mod := range sortedKeys(result.frags) {
					dumpFragments(os.Stdout, mod, result.frags[mod])
				}
			}
			if err := writeProfile(rec); err != nil {
				return err
			}
			os.Exit(result.sink.ExitStatus())
			return nil
		},
	}
}

// sortedKeys returns m's module names in lexical order so repeated runs
// dump fragments in a stable, diffable order.
func sortedKeys(m map[string][]*ir.Fragment) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
