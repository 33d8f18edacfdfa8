// Package langversion implements the per-file minimum-compiler-version
// pragma (spec §6's configuration-options machinery, supplemented per
// SPEC_FULL §B.3): a module's first declaration file may open with
//
//	//t:requires v1.2.0
//
// declaring that it needs at least that compiler version. This is an
// ambient configuration concern, the same family as the options.Set
// dials spec §6 names, not a language feature — it is never gated by a
// Non-goal.
package langversion

import (
	"bufio"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/kittywantsbacon/TCompiler/internal/diag"
)

// CoreVersion is this compiler's own version, in the canonical
// semver.IsValid form the pragma is compared against.
const CoreVersion = "v1.0.0"

const pragmaPrefix = "//t:requires "

// Check scans src's leading comment lines for a requires pragma and
// reports a diagnostic at pos if it names a version newer than
// CoreVersion. A missing pragma, or one that fails to parse as a valid
// semver, is silently ignored — spec's own config dials degrade rather
// than fail a build over a malformed optional pragma.
func Check(sink *diag.Sink, pos diag.Pos, src []byte) {
	want, ok := Pragma(src)
	if !ok {
		return
	}
	if semver.Compare(want, CoreVersion) > 0 {
		sink.Errorf(pos, "module requires compiler version %s or later, this is %s", want, CoreVersion)
	}
}

// Pragma extracts the requires pragma's version from src's leading
// comment lines, if present and syntactically valid. Scanning stops at
// the first non-comment, non-blank line (the pragma must precede the
// module declaration).
func Pragma(src []byte) (version string, ok bool) {
	scanner := bufio.NewScanner(strings.NewReader(string(src)))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "//") {
			return "", false
		}
		if rest, found := strings.CutPrefix(line, pragmaPrefix); found {
			v := strings.TrimSpace(rest)
			if !strings.HasPrefix(v, "v") {
				v = "v" + v
			}
			if !semver.IsValid(v) {
				return "", false
			}
			return v, true
		}
	}
	return "", false
}
