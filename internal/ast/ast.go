// Package ast defines the node shapes the parser hands to the core (spec
// §6, "External Interfaces": "Parser yields, per file, an AST root bearing
// a module declaration, a sequence of imports, and a sequence of top-level
// bodies"). The core never constructs these nodes; it only reads them and
// writes back into their resolved-entry/type slots.
package ast

import (
	"github.com/kittywantsbacon/TCompiler/internal/diag"
	"github.com/kittywantsbacon/TCompiler/internal/symtab"
)

// Pos locates a node in its source file.
type Pos = diag.Pos

// QualName is a possibly-scoped identifier ("name", "mod::name",
// "mod::sub::name") as written in source.
type QualName struct {
	Pos  Pos
	Text string // the full dotted form, "::"-separated
}

// File is one parsed source file: a module declaration, its imports, and
// its top-level forms.
type File struct {
	Pos     Pos
	Module  QualName
	Imports []Import
	Decls   []Decl
}

// Import is one "using" declaration.
type Import struct {
	Pos  Pos
	Name QualName
}

// Ident is a single identifier reference. Entry is written by C4 (for
// declaring occurrences) or C5 (for referring occurrences); it is nil
// until resolved.
type Ident struct {
	Pos   Pos
	Name  string
	Entry *symtab.Entry
}
