package main

import (
	"fmt"

	"github.com/kittywantsbacon/TCompiler/internal/ast"
	"github.com/kittywantsbacon/TCompiler/internal/pipeline"
	"github.com/kittywantsbacon/TCompiler/internal/source"
)

// noParser is the default pipeline.Parser: the lexer and parser are
// explicit external collaborators (spec §1), never built in this
// repository, so running tcc against real ".t" source fails cleanly here
// rather than pretending to lex anything. It exists so the rest of the
// pipeline — symbol-table build, checking, translation, validation — is
// fully wired and independently testable (internal/pipeline,
// internal/testfixture) even though the front door has no key yet.
func noParser(sf *source.File) (*ast.File, error) {
	return nil, fmt.Errorf("tcc: no parser is wired into this build; %q was never lexed or parsed (spec §1 keeps the lexer/parser outside the core — see internal/pipeline.Parser)", sf.Path)
}

var activeParser pipeline.Parser = noParser
