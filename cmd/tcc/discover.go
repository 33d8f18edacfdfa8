package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kittywantsbacon/TCompiler/internal/source"
)

// discoverGraph walks dir (non-recursively — nested modules are out of
// this toolchain's scope) for ".t" source files and mmaps each one into a
// source.Graph. File-list discovery is an explicit external collaborator
// (spec §1: "Deliberately out of scope ... file-list discovery"), so this
// lives in the CLI driver rather than internal/source, which only knows
// how to open a path once handed one.
//
// Naming mirrors internal/testfixture's txtar convention so the same
// module can be exercised equally from a golden fixture or a real
// directory: "name_decl.t" is a declaration file, "name_impl.t" or a bare
// "name.t" is a code file.
func discoverGraph(dir string) (*source.Graph, func(), error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, func() {}, fmt.Errorf("tcc: reading %q: %w", dir, err)
	}

	g := source.NewGraph()
	var closers []func()
	release := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".t") {
			continue
		}
		base := strings.TrimSuffix(entry.Name(), ".t")
		module, isDecl := base, false
		switch {
		case strings.HasSuffix(base, "_decl"):
			module, isDecl = strings.TrimSuffix(base, "_decl"), true
		case strings.HasSuffix(base, "_impl"):
			module = strings.TrimSuffix(base, "_impl")
		}

		sf, closeFn, err := source.Open(filepath.Join(dir, entry.Name()), module, isDecl)
		if err != nil {
			release()
			return nil, func() {}, err
		}
		closers = append(closers, closeFn)
		if isDecl {
			g.AddDecl(sf)
		} else {
			g.AddCode(sf)
		}
	}
	return g, release, nil
}
