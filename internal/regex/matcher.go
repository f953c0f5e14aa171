// Package regex implements the external Matcher collaborator the spec
// describes in §4.5: pattern compilation happens once per process, and
// Execute locates the next match inside an arbitrary byte slice. The
// core scanner in internal/scanner never looks inside this package's
// engines — it only depends on the Matcher interface, so engines stay
// swappable the way §1 ("Out of scope: match engines") requires.
//
// The concrete engines here generalize DTail's internal/regex.Regex,
// which wired exactly one compiled pattern plus a literal-string fast
// path directly into a flag-switched Match method. xgrep splits that
// into a Matcher interface, a named constructor registry (§9 "Function-
// pointer dispatch for matchers"), and four concrete engines selected by
// -E/-F/-G/-P/-X.
package regex

import (
	"fmt"

	xerrors "github.com/mimecast/xgrep/internal/errors"
)

// Matcher locates the next match of a compiled pattern inside a byte
// slice. offset/length are relative to the start of slice. A return of
// matched==false means no match was found. Per §4.5, offset==len(slice)
// with length==0 is reserved to mean "matched at the sentinel" and must
// be reported by the caller as matched==false — every engine in this
// package enforces that itself so callers never have to special-case it.
type Matcher interface {
	Execute(slice []byte) (offset, length int, matched bool)
}

// Options carries the constraints a compiled Matcher must honor, per
// §4.5 ("the engine is responsible for honoring word and line anchors
// and case folding").
type Options struct {
	CaseInsensitive bool
	WordMatch       bool
	LineMatch       bool
}

// Constructor compiles newline-separated pattern sources (§3: multiple
// -e/-f sources concatenated with '\n') into a Matcher.
type Constructor func(patterns []byte, opts Options) (Matcher, error)

var registry = map[string]Constructor{}

func register(name string, ctor Constructor) {
	registry[name] = ctor
}

// Lookup resolves a named engine, falling back to "default" per §4.5's
// install-step rule, and fails only if neither name is registered.
func Lookup(name string) (Constructor, error) {
	if ctor, ok := registry[name]; ok {
		return ctor, nil
	}
	if ctor, ok := registry["default"]; ok {
		return ctor, nil
	}
	return nil, fmt.Errorf("%w: %s", xerrors.ErrUnknownMatcher, name)
}

// sentinelGuard reports whether a raw regex match result should be
// reported to the caller as "no match" because it landed exactly on the
// synthetic end-of-buffer sentinel (§4.5, §4.2 step "the matcher treats
// this as no-match").
func sentinelGuard(slice []byte, offset, length int) bool {
	return offset == len(slice) && length == 0
}
