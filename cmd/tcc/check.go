package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/kittywantsbacon/TCompiler/internal/phaseprofile"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <dir>",
		Short: "Run C1-C5 (parse through type-check) over a module directory without translating it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := runOptions{Set: resolveOptions(), ConstEval: foldArraySize}

			var rec *phaseprofile.Recorder
			if optionFlags.cpuProfile != "" {
				rec = phaseprofile.NewRecorder()
			}

			result, err := runPipeline(args[0], opts, rec, false)
			if err != nil {
				return err
			}
			render(result.sink, os.Stdout)
			if err := writeProfile(rec); err != nil {
				return err
			}
			os.Exit(result.sink.ExitStatus())
			return nil
		},
	}
}
