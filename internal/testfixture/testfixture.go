// Package testfixture loads golden multi-module test programs authored
// as txtar archives (SPEC_FULL §A.5/§B.4) into an in-memory
// internal/source.Graph, the same shape a real invocation builds by
// walking the filesystem.
//
// Grounded on `cmd_local/go/internal/vcs/vcs_test.go` and
// `.../modload/query_test.go`'s table-driven, subtest-per-case fixture
// style, adapted here to a single embeddable fixture format rather than
// scattered testdata directories, since spec §8's end-to-end scenarios
// are each a handful of module declarations rather than a directory
// tree. One archive file is one scenario; one `-- name.t --` section is
// one module's source. Load adds a bare `name.t` section as a code file
// only, while `name_decl.t` and `name_impl.t` sections split a module
// into its declaration file and code files (see Load below).
package testfixture

import (
	"fmt"
	"strings"

	"golang.org/x/tools/txtar"

	"github.com/kittywantsbacon/TCompiler/internal/source"
)

// Module is one archive section's module name and raw source text.
type Module struct {
	Name string
	Text []byte
}

// Parse splits a txtar archive into its per-module sections. A section
// name of "b.t" or "b_decl.t"/"b_impl.t" both name module "b" — the
// optional "_decl"/"_impl" suffix distinguishes the declaration file from
// a code file for scenarios that need the split; a bare "name.t" is a
// single combined file serving as both.
func Parse(data []byte) []Module {
	arc := txtar.Parse(data)
	mods := make([]Module, 0, len(arc.Files))
	for _, f := range arc.Files {
		name := strings.TrimSuffix(f.Name, ".t")
		name = strings.TrimSuffix(name, "_decl")
		name = strings.TrimSuffix(name, "_impl")
		mods = append(mods, Module{Name: name, Text: f.Data})
	}
	return mods
}

// Load parses a txtar archive into a source.Graph of in-memory Files —
// no real file descriptor is opened, so internal/source.File's mmap path
// is bypassed entirely via newMemFile. A "name_decl.t" section is added
// as name's declaration file; a "name_impl.t" section is added as one of
// name's code files; a bare "name.t" section is added as a code file
// only, leaving no declaration file for the module (matching
// stabbuild.Builder.BuildAll's own fallback for an undeclared module:
// buildCode creates a fresh environment when ensureDecl never ran for
// that name), since a single combined section mixing declarations and
// definitions would otherwise see every top-level form twice.
func Load(data []byte) (*source.Graph, error) {
	arc := txtar.Parse(data)
	g := source.NewGraph()
	for _, f := range arc.Files {
		name, role, err := classify(f.Name)
		if err != nil {
			return nil, err
		}
		sf := newMemFile(f.Name, name, role == roleDecl, f.Data)
		switch role {
		case roleDecl:
			g.AddDecl(sf)
		default:
			g.AddCode(sf)
		}
	}
	return g, nil
}

type role int

const (
	roleCode role = iota
	roleDecl
)

func classify(filename string) (module string, r role, err error) {
	name := strings.TrimSuffix(filename, ".t")
	if !strings.HasSuffix(filename, ".t") {
		return "", 0, fmt.Errorf("testfixture: archive file %q does not end in .t", filename)
	}
	if base, ok := strings.CutSuffix(name, "_decl"); ok {
		return base, roleDecl, nil
	}
	if base, ok := strings.CutSuffix(name, "_impl"); ok {
		return base, roleCode, nil
	}
	return name, roleCode, nil
}

// newMemFile builds a source.File around already-in-memory bytes (no
// os.File, no mmap) via source's own exported constructor for tests.
func newMemFile(path, module string, isDecl bool, data []byte) *source.File {
	return source.NewMemFile(path, module, isDecl, data)
}
