// Package options carries the compiler's tri-level diagnostic dials.
//
// Spec §9 singles out "options carrying ternary behavior" as a concern
// that should be data-driven rather than branched per call site: this
// package is that data, modeled on the teacher's flat DebugFlags struct
// (cmd/compile/internal/gc.DebugFlags) but specialized to the three-level
// ignore/warn/error shape spec §6 describes.
package options

import (
	"github.com/kittywantsbacon/TCompiler/internal/diag"
)

// Level is one rung of the ignore/warn/error dial.
type Level int

const (
	LevelIgnore Level = iota
	LevelWarn
	LevelError
)

func ParseLevel(s string) (Level, bool) {
	switch s {
	case "ignore":
		return LevelIgnore, true
	case "warn":
		return LevelWarn, true
	case "error":
		return LevelError, true
	default:
		return 0, false
	}
}

func (l Level) String() string {
	switch l {
	case LevelIgnore:
		return "ignore"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "invalid"
	}
}

// Set is the full dial panel the core recognizes. Spec §6 names
// WarnDuplicateDeclSpecifier explicitly ("further warning classes share
// the same tri-level shape"); the expansion in SPEC_FULL.md §A.2 adds two
// more so the shared-shape claim is exercised by more than one member.
type Set struct {
	WarnDuplicateDeclSpecifier Level
	WarnImplicitNarrowing      Level
	WarnUnreachableCase        Level
}

// Default returns the option set the core uses absent any configuration:
// duplicate specifiers warn, implicit narrowing warns, unreachable switch
// cases warn.
func Default() Set {
	return Set{
		WarnDuplicateDeclSpecifier: LevelWarn,
		WarnImplicitNarrowing:      LevelWarn,
		WarnUnreachableCase:        LevelWarn,
	}
}

// Apply reports a diagnostic at the given level: silent for LevelIgnore,
// diag.Sink.Warnf for LevelWarn, diag.Sink.Errorf for LevelError. It
// returns true iff the program remains acceptable (i.e. level was not
// LevelError), so callers can decide whether to keep using a
// provisionally-constructed value or discard it.
func (Set) Apply(level Level, sink *diag.Sink, pos diag.Pos, format string, args ...any) bool {
	switch level {
	case LevelIgnore:
		return true
	case LevelWarn:
		sink.Warnf(pos, format, args...)
		return true
	case LevelError:
		sink.Errorf(pos, format, args...)
		return false
	default:
		return true
	}
}
