package main

import (
	"fmt"
	"io"
	"os"

	"github.com/kittywantsbacon/TCompiler/internal/diag"
	"github.com/kittywantsbacon/TCompiler/internal/ir"
	"github.com/kittywantsbacon/TCompiler/internal/langversion"
	"github.com/kittywantsbacon/TCompiler/internal/options"
	"github.com/kittywantsbacon/TCompiler/internal/phaseprofile"
	"github.com/kittywantsbacon/TCompiler/internal/pipeline"
	"github.com/kittywantsbacon/TCompiler/internal/symtab"
	"github.com/kittywantsbacon/TCompiler/internal/translate"
	"github.com/kittywantsbacon/TCompiler/internal/typeconv"
)

// runOptions bundles the option dials and the injected array-size const
// evaluator every phase from C4 onward shares.
type runOptions struct {
	Set       options.Set
	ConstEval typeconv.ConstEvaluator
}

// runResult is everything a subcommand needs out of driving the
// pipeline: the diagnostic sink (for rendering and exit status) and,
// once translation has run, the per-module fragment lists.
type runResult struct {
	sink  *diag.Sink
	frags map[string][]*ir.Fragment
}

// runPipeline drives C4 through C8 (or stops after C5 when
// translateThrough is false, for the check subcommand) over every ".t"
// file under dir, profiling each phase if rec is non-nil. Each phase is
// gated on the previous one leaving the sink error-free — spec §7
// excludes "recovery of arbitrarily malformed input past the first
// unrecoverable error" from the core's job, and that boundary is
// enforced here, one layer above the phases themselves.
func runPipeline(dir string, opts runOptions, rec *phaseprofile.Recorder, translateThrough bool) (*runResult, error) {
	g, release, err := discoverGraph(dir)
	if err != nil {
		return nil, err
	}
	defer release()

	sink := diag.NewSink()
	result := &runResult{sink: sink}

	var asts *pipeline.Asts
	var parseErr error
	phase(rec, "parse", func() {
		for _, mod := range g.Modules() {
			if sf, ok := g.Decl(mod); ok {
				langversion.Check(sink, diag.Pos{File: sf.Path}, sf.Bytes())
			}
			for _, sf := range g.Code(mod) {
				langversion.Check(sink, diag.Pos{File: sf.Path}, sf.Bytes())
			}
		}
		if sink.NErrors() > 0 {
			return
		}
		asts, parseErr = pipeline.ParseAll(g, activeParser)
	})
	if parseErr != nil {
		return result, parseErr
	}
	if sink.NErrors() > 0 || asts == nil {
		return result, nil
	}

	var envs map[string]*symtab.Environment
	phase(rec, "stabbuild", func() {
		envs = pipeline.BuildSymbols(asts, sink, opts.Set, opts.ConstEval)
	})
	if sink.NErrors() > 0 {
		return result, nil
	}

	phase(rec, "check", func() {
		pipeline.CheckAll(asts, envs, sink, opts.Set, opts.ConstEval)
	})
	if sink.NErrors() > 0 || !translateThrough {
		return result, nil
	}

	var frags map[string][]*ir.Fragment
	phase(rec, "translate", func() {
		frags = pipeline.TranslateAll(asts, envs, sink, opts.Set, translate.DefaultConfig())
	})
	if sink.NErrors() > 0 {
		return result, nil
	}

	phase(rec, "validate", func() {
		pipeline.ValidateAll(frags, sink)
	})
	result.frags = frags
	return result, nil
}

// phase runs fn directly, or under rec.Phase if profiling is enabled.
func phase(rec *phaseprofile.Recorder, name string, fn func()) {
	if rec == nil {
		fn()
		return
	}
	rec.Phase(name, fn)
}

func render(sink *diag.Sink, w io.Writer) {
	if err := sink.Render(w); err != nil {
		fmt.Fprintln(os.Stderr, "tcc: rendering diagnostics:", err)
	}
}
