// Command tcc is the CLI driver spec §1 treats as an external collaborator
// of the core ("Deliberately out of scope ... the CLI driver, option
// parsing"). It stays a thin wiring layer over internal/pipeline: flag
// parsing and process exit status are the only logic that lives here.
//
// Grounded on SPEC_FULL.md §B.7: cobra is the pack's idiomatic choice for
// this surface (termfx-morfx), replacing the teacher's flag-based
// cmd/compile/internal/gc driver for this one outer layer.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kittywantsbacon/TCompiler/internal/options"
)

var optionFlags struct {
	warnDuplicateDeclSpecifier string
	warnImplicitNarrowing      string
	warnUnreachableCase        string
	cpuProfile                 string
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "tcc",
		Short:         "Front- and middle-end driver for the T language compiler core",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&optionFlags.warnDuplicateDeclSpecifier, "warn-dup-decl-specifier", "warn", "ignore|warn|error: a repeated const/volatile specifier on one declaration")
	root.PersistentFlags().StringVar(&optionFlags.warnImplicitNarrowing, "warn-implicit-narrowing", "warn", "ignore|warn|error: an implicit narrowing conversion")
	root.PersistentFlags().StringVar(&optionFlags.warnUnreachableCase, "warn-unreachable-case", "warn", "ignore|warn|error: a switch case unreachable after an earlier case covers it")
	root.PersistentFlags().StringVar(&optionFlags.cpuProfile, "cpuprofile", "", "write the merged per-phase CPU profile (internal/phaseprofile) to this path")

	root.AddCommand(newBuildCmd(), newCheckCmd())
	return root
}

// resolveOptions turns the tri-level flag strings into an options.Set,
// falling back to options.Default's level (and warning once, to stderr
// rather than through diag.Sink since no Sink exists yet at flag-parse
// time) for any flag that isn't one of ignore/warn/error.
func resolveOptions() options.Set {
	opts := options.Default()
	assign := func(flag string, dst *options.Level) {
		if lvl, ok := options.ParseLevel(flag); ok {
			*dst = lvl
			return
		}
		fmt.Fprintf(os.Stderr, "tcc: %q is not one of ignore|warn|error; using the default\n", flag)
	}
	assign(optionFlags.warnDuplicateDeclSpecifier, &opts.WarnDuplicateDeclSpecifier)
	assign(optionFlags.warnImplicitNarrowing, &opts.WarnImplicitNarrowing)
	assign(optionFlags.warnUnreachableCase, &opts.WarnUnreachableCase)
	return opts
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "tcc:", err)
		os.Exit(1)
	}
}
