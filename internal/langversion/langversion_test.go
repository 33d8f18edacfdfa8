package langversion

import (
	"testing"

	"github.com/kittywantsbacon/TCompiler/internal/diag"
)

func TestPragmaParsesVersion(t *testing.T) {
	src := []byte("//t:requires v1.2.0\nmodule m;\n")
	v, ok := Pragma(src)
	if !ok || v != "v1.2.0" {
		t.Fatalf("Pragma() = %q, %v", v, ok)
	}
}

func TestPragmaAcceptsBareVersionWithoutVPrefix(t *testing.T) {
	src := []byte("//t:requires 1.2.0\nmodule m;\n")
	v, ok := Pragma(src)
	if !ok || v != "v1.2.0" {
		t.Fatalf("Pragma() = %q, %v", v, ok)
	}
}

func TestPragmaAbsent(t *testing.T) {
	src := []byte("module m;\nint f();\n")
	if _, ok := Pragma(src); ok {
		t.Fatal("expected no pragma to be found")
	}
}

func TestPragmaStopsAtFirstNonCommentLine(t *testing.T) {
	src := []byte("module m;\n//t:requires v9.9.9\n")
	if _, ok := Pragma(src); ok {
		t.Fatal("pragma after the module line must not be honored")
	}
}

func TestCheckReportsNewerVersionRequirement(t *testing.T) {
	sink := diag.NewSink()
	src := []byte("//t:requires v999.0.0\nmodule m;\n")
	Check(sink, diag.Pos{File: "m.t", Line: 1}, src)
	if sink.NErrors() != 1 {
		t.Fatalf("expected 1 error, got %d: %v", sink.NErrors(), sink.Diagnostics())
	}
}

func TestCheckAcceptsOlderOrEqualVersionRequirement(t *testing.T) {
	sink := diag.NewSink()
	src := []byte("//t:requires v0.1.0\nmodule m;\n")
	Check(sink, diag.Pos{File: "m.t", Line: 1}, src)
	if sink.NErrors() != 0 {
		t.Fatalf("unexpected errors: %v", sink.Diagnostics())
	}
}
