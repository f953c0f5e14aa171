package regex

import "regexp"

// regexpMatcher backs the basic, extended, and perl engines. The three
// names differ only in how their pattern lines are translated into RE2
// syntax before compilation (see pattern.go); the search itself is
// always done by Go's regexp package, since xgrep ships no BRE/ERE/PCRE
// engine of its own (§1: "match engines ... treated as pluggable
// external collaborators").
type regexpMatcher struct {
	re *regexp.Regexp
}

func newRegexpMatcher(patterns []byte, opts Options, translate func(string) string) (Matcher, error) {
	lines := splitPatterns(patterns)
	if len(lines) == 0 {
		lines = []string{""}
	}
	pattern := combine(lines, opts, translate)
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return &regexpMatcher{re: re}, nil
}

func (m *regexpMatcher) Execute(slice []byte) (int, int, bool) {
	loc := m.re.FindIndex(slice)
	if loc == nil {
		return 0, 0, false
	}
	offset, end := loc[0], loc[1]
	length := end - offset
	if sentinelGuard(slice, offset, length) {
		return 0, 0, false
	}
	return offset, length, true
}

func init() {
	register("basic", func(p []byte, o Options) (Matcher, error) {
		return newRegexpMatcher(p, o, translateBRE)
	})
	register("extended", func(p []byte, o Options) (Matcher, error) {
		return newRegexpMatcher(p, o, identity)
	})
	register("perl", func(p []byte, o Options) (Matcher, error) {
		return newRegexpMatcher(p, o, identity)
	})
	register("default", func(p []byte, o Options) (Matcher, error) {
		return newRegexpMatcher(p, o, translateBRE)
	})
}
