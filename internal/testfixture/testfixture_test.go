package testfixture

import (
	"os"
	"testing"
)

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile("testdata/" + name)
	if err != nil {
		t.Fatalf("reading fixture %q: %v", name, err)
	}
	return data
}

func TestParseSingleModule(t *testing.T) {
	mods := Parse(readFixture(t, "scenario1_single_function.txtar"))
	if len(mods) != 1 || mods[0].Name != "m" {
		t.Fatalf("Parse() = %+v", mods)
	}
	if string(mods[0].Text) == "" {
		t.Fatal("expected non-empty module text")
	}
}

func TestParseMultiModule(t *testing.T) {
	mods := Parse(readFixture(t, "scenario3_cross_module_call.txtar"))
	if len(mods) != 2 {
		t.Fatalf("expected 2 modules, got %d", len(mods))
	}
	names := map[string]bool{}
	for _, m := range mods {
		names[m.Name] = true
	}
	if !names["a"] || !names["b"] {
		t.Fatalf("expected modules a and b, got %+v", mods)
	}
}

func TestLoadBuildsSourceGraph(t *testing.T) {
	g, err := Load(readFixture(t, "scenario3_cross_module_call.txtar"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if modules := g.Modules(); len(modules) != 2 {
		t.Fatalf("expected 2 modules in the graph, got %v", modules)
	}
	codeA := g.Code("a")
	if len(codeA) != 1 {
		t.Fatalf("expected module a to have 1 code file, got %d", len(codeA))
	}
	if _, ok := g.Decl("a"); ok {
		t.Fatal("bare \"a.t\" section should not register a declaration file")
	}
}

func TestLoadDistinguishesDeclAndImplSuffixes(t *testing.T) {
	data := []byte("-- m_decl.t --\nmodule m;\nint f();\n\n-- m_impl.t --\nmodule m;\nint f() { return 0; }\n")
	g, err := Load(data)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	decl, ok := g.Decl("m")
	if !ok {
		t.Fatal("expected module m to have a declaration file")
	}
	if decl.ModuleName != "m" || !decl.IsDecl {
		t.Fatalf("decl file metadata mismatch: %+v", decl)
	}
	code := g.Code("m")
	if len(code) != 1 || code[0].IsDecl {
		t.Fatalf("expected exactly 1 non-decl code file, got %+v", code)
	}
}

func TestLoadRejectsNonDotTFilename(t *testing.T) {
	data := []byte("-- m.txt --\nmodule m;\n")
	if _, err := Load(data); err == nil {
		t.Fatal("expected an error for a non-.t archive member")
	}
}
