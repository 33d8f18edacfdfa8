package translate

import "strings"

// Mangle combines a module name and a declaration name into the single
// global label the linker sees (spec §6: "the mangling scheme ... is
// reversible given the delimiter choice"). "::" is already the source
// language's own module-qualifier, so reusing it keeps Demangle a plain
// split rather than a second encoding scheme.
func Mangle(module, name string) string {
	if module == "" {
		return name
	}
	return module + "::" + name
}

// Demangle splits a mangled label back into its module and declaration
// name. ok is false if label carries no module qualifier.
func Demangle(label string) (module, name string, ok bool) {
	i := strings.LastIndex(label, "::")
	if i < 0 {
		return "", label, false
	}
	return label[:i], label[i+2:], true
}
