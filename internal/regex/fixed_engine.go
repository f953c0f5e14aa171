package regex

import "bytes"

// fixedMatcher backs the -F engine: every pattern line is matched
// literally rather than as a regular expression, generalizing the
// teacher's isLiteralPattern fast path (internal/regex.Regex in DTail)
// from a single optimized pattern to the general multi-pattern case.
type fixedMatcher struct {
	literals [][]byte
	opts     Options
}

func newFixedMatcher(patterns []byte, opts Options) (Matcher, error) {
	lines := splitPatterns(patterns)
	if len(lines) == 0 {
		lines = []string{""}
	}
	literals := make([][]byte, len(lines))
	for i, l := range lines {
		lit := []byte(l)
		if opts.CaseInsensitive {
			lit = bytes.ToLower(lit)
		}
		literals[i] = lit
	}
	return &fixedMatcher{literals: literals, opts: opts}, nil
}

func (m *fixedMatcher) Execute(slice []byte) (int, int, bool) {
	haystack := slice
	if m.opts.CaseInsensitive {
		haystack = bytes.ToLower(slice)
	}

	best := -1
	bestLen := 0

	for _, lit := range m.literals {
		from := 0
		for {
			idx := bytes.Index(haystack[from:], lit)
			if idx < 0 {
				break
			}
			pos := from + idx
			if m.satisfiesConstraints(slice, pos, len(lit)) {
				if best == -1 || pos < best {
					best = pos
					bestLen = len(lit)
				}
				break
			}
			from = pos + 1
			if from > len(haystack) {
				break
			}
		}
	}

	if best == -1 {
		return 0, 0, false
	}
	if sentinelGuard(slice, best, bestLen) {
		return 0, 0, false
	}
	return best, bestLen, true
}

// satisfiesConstraints applies -w/-x boundary checks manually, since
// literal matching bypasses regexp's \b and (?m)^...$ machinery.
func (m *fixedMatcher) satisfiesConstraints(slice []byte, pos, length int) bool {
	if m.opts.LineMatch {
		lineStart := pos == 0 || slice[pos-1] == '\n'
		lineEnd := pos+length == len(slice) || slice[pos+length] == '\n'
		return lineStart && lineEnd
	}
	if m.opts.WordMatch {
		before := pos == 0 || !isWordByte(slice[pos-1])
		after := pos+length == len(slice) || !isWordByte(slice[pos+length])
		return before && after
	}
	return true
}

func isWordByte(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}

func init() {
	register("fixed", func(p []byte, o Options) (Matcher, error) {
		return newFixedMatcher(p, o)
	})
}
