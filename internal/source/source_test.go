package source

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing %q: %v", path, err)
	}
	return path
}

func TestOpenRoundTripsBytes(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "m.t", "module m;\nint f();\n")

	sf, release, err := Open(path, "m", true)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer release()

	if got := string(sf.Bytes()); got != "module m;\nint f();\n" {
		t.Errorf("Bytes() = %q", got)
	}
	if sf.ModuleName != "m" || !sf.IsDecl {
		t.Errorf("metadata mismatch: module=%q decl=%v", sf.ModuleName, sf.IsDecl)
	}
}

func TestOpenEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "empty.t", "")

	sf, release, err := Open(path, "empty", true)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer release()

	if len(sf.Bytes()) != 0 {
		t.Errorf("expected zero-length contents, got %d bytes", len(sf.Bytes()))
	}
}

func TestOpenMissingFile(t *testing.T) {
	_, release, err := Open(filepath.Join(t.TempDir(), "missing.t"), "m", true)
	release()
	if err == nil {
		t.Fatal("expected an error opening a nonexistent file")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "m.t", "module m;\n")

	sf, release, err := Open(path, "m", true)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	release()
	release()
	if err := sf.Close(); err != nil {
		t.Errorf("second explicit Close returned %v, want nil", err)
	}
}

func TestGraphTracksDeclAndCodeFiles(t *testing.T) {
	dir := t.TempDir()
	g := NewGraph()

	declPath := writeTemp(t, dir, "m.t", "module m;\n")
	decl, release1, err := Open(declPath, "m", true)
	if err != nil {
		t.Fatalf("Open decl: %v", err)
	}
	defer release1()
	g.AddDecl(decl)

	codePath := writeTemp(t, dir, "m_impl.t", "module m;\nint f() { return 0; }\n")
	code, release2, err := Open(codePath, "m", false)
	if err != nil {
		t.Fatalf("Open code: %v", err)
	}
	defer release2()
	g.AddCode(code)

	if got, ok := g.Decl("m"); !ok || got != decl {
		t.Fatalf("Decl(%q) = %v, %v", "m", got, ok)
	}
	if files := g.Code("m"); len(files) != 1 || files[0] != code {
		t.Fatalf("Code(%q) = %v", "m", files)
	}
	if modules := g.Modules(); len(modules) != 1 || modules[0] != "m" {
		t.Fatalf("Modules() = %v", modules)
	}
}

func TestCheckCyclesReportsMutualImport(t *testing.T) {
	dir := t.TempDir()
	g := NewGraph()

	for _, name := range []string{"a", "b"} {
		path := writeTemp(t, dir, name+".t", "module "+name+";\n")
		sf, release, err := Open(path, name, true)
		if err != nil {
			t.Fatalf("Open %q: %v", name, err)
		}
		defer release()
		g.AddDecl(sf)
	}

	imports := map[string][]string{"a": {"b"}, "b": {"a"}}
	err := g.CheckCycles(func(m string) []string { return imports[m] })
	if err == nil {
		t.Fatal("expected a cycle error for a <-> b")
	}
}

func TestCheckCyclesAcceptsAcyclicImports(t *testing.T) {
	dir := t.TempDir()
	g := NewGraph()

	for _, name := range []string{"a", "b"} {
		path := writeTemp(t, dir, name+".t", "module "+name+";\n")
		sf, release, err := Open(path, name, true)
		if err != nil {
			t.Fatalf("Open %q: %v", name, err)
		}
		defer release()
		g.AddDecl(sf)
	}

	imports := map[string][]string{"a": {"b"}, "b": nil}
	if err := g.CheckCycles(func(m string) []string { return imports[m] }); err != nil {
		t.Fatalf("unexpected cycle error: %v", err)
	}
}
