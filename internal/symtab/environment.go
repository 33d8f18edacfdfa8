package symtab

import "strings"

// Environment is a stack of scopes plus the imported-module table map
// (spec §4.2, "Environment"). The outermost scope is always the current
// module's own symbol table; intermediate scopes are pushed for compound
// statements and loop/function bodies.
type Environment struct {
	moduleName string
	module     *Table
	scopes     []*Table // innermost last

	// Imports maps an import prefix (a module name, or a dotted chain of
	// module names joined by "::" for transitively-reachable modules) to
	// that module's table. stabbuild (C4) populates entries for every
	// module reachable through a chain of "using" declarations as it
	// walks the import graph, so a qualified lookup of arbitrary depth
	// resolves in one map hit instead of re-walking each module's own
	// import list at lookup time.
	Imports map[string]*Table
}

// NewEnvironment creates an environment rooted at the given module table.
func NewEnvironment(moduleName string, module *Table) *Environment {
	return &Environment{
		moduleName: moduleName,
		module:     module,
		Imports:    make(map[string]*Table),
	}
}

// ModuleName returns the name of the module this environment belongs to.
func (e *Environment) ModuleName() string { return e.moduleName }

// ModuleTable returns the current module's own symbol table.
func (e *Environment) ModuleTable() *Table { return e.module }

// PushScope opens a new block scope (compound statement, loop, or
// function body) and returns its table so the caller can insert
// parameters/locals into it.
func (e *Environment) PushScope() *Table {
	t := NewTable()
	e.scopes = append(e.scopes, t)
	return t
}

// CurrentScope returns the innermost open block scope, or nil if none is
// open (meaning the caller is at module scope). Used by a var-declaration
// statement to know where a new local belongs (spec §4.5 threads scope
// implicitly through the statement walk; this is that walk's only need to
// reach into the scope stack directly rather than through Lookup).
func (e *Environment) CurrentScope() *Table {
	if len(e.scopes) == 0 {
		return nil
	}
	return e.scopes[len(e.scopes)-1]
}

// PopScope closes the innermost scope.
func (e *Environment) PopScope() {
	if len(e.scopes) == 0 {
		panic("symtab: PopScope on an environment with no open scopes")
	}
	e.scopes = e.scopes[:len(e.scopes)-1]
}

// AddImport registers prefix (the chain of module names this import is
// reachable under, e.g. "b" or "b::c") as resolving to table.
func (e *Environment) AddImport(prefix string, table *Table) {
	e.Imports[prefix] = table
}

// Lookup resolves name against this environment: local scopes
// innermost-first (so a nested declaration shadows an outer one), then
// the current module's table, then — for a qualified name — the
// imported-module chain (spec §4.2). It returns nil if name cannot be
// resolved; the caller is responsible for reporting the diagnostic (spec
// §4.2: "Unresolved names report a diagnostic and return no entry").
func (e *Environment) Lookup(name string) *Entry {
	if prefix, terminal, qualified := splitQualified(name); qualified {
		table, ok := e.Imports[prefix]
		if !ok {
			return nil
		}
		return table.Lookup(terminal)
	}

	for i := len(e.scopes) - 1; i >= 0; i-- {
		if entry := e.scopes[i].Lookup(name); entry != nil {
			return entry
		}
	}
	return e.module.Lookup(name)
}

// splitQualified splits a "mod::name" or "mod::sub::name" identifier into
// its import-map prefix and terminal name.
func splitQualified(name string) (prefix, terminal string, qualified bool) {
	i := strings.LastIndex(name, "::")
	if i < 0 {
		return "", name, false
	}
	return name[:i], name[i+2:], true
}
