package regex

import "strings"

// splitPatterns splits the '\n'-joined pattern source (§3 Config.patterns)
// into its individual pattern lines. Each line is treated as an
// alternative: a match against any one of them is a match, mirroring
// GNU grep's handling of repeated -e/-f sources.
func splitPatterns(patterns []byte) []string {
	if len(patterns) == 0 {
		return nil
	}
	return strings.Split(string(patterns), "\n")
}

// combine builds a single alternation pattern "(?:p1)|(?:p2)|..." out of
// the individual pattern lines, then applies the case-fold, word, and
// line constraints as RE2 wrapping per §4.5.
func combine(lines []string, opts Options, translate func(string) string) string {
	parts := make([]string, len(lines))
	for i, l := range lines {
		if translate != nil {
			l = translate(l)
		}
		parts[i] = "(?:" + l + ")"
	}
	body := strings.Join(parts, "|")

	if opts.LineMatch {
		// (?m) makes ^ and $ match at line boundaries rather than only
		// at the start/end of the whole slice, which is required since
		// Execute is handed multi-line buffer windows (§4.2 grepbuf).
		body = "(?m)^(?:" + body + ")$"
	} else if opts.WordMatch {
		body = `\b(?:` + body + `)\b`
	}

	if opts.CaseInsensitive {
		body = "(?i)" + body
	}

	return body
}

// translateBRE rewrites a basic (BRE) pattern into the ERE-ish syntax
// Go's regexp package accepts: backslash-escaped "(" ")" "{" "}" "+" "?"
// "|" carry their special meaning, while the bare characters are
// literal. It also escapes a "^" that is not the first character and a
// "$" that is not the last character of the pattern line, so those match
// literally; this includes a "^" or "$" at the edge of a \( \) group,
// which is escaped as well. This is the standard
// BRE-to-ERE rewrite; it does not special-case a leading "*" (literal in
// BRE, quantifier in ERE) — see DESIGN.md Open Questions.
func translateBRE(pattern string) string {
	var b strings.Builder
	runes := []rune(pattern)
	n := len(runes)
	for i := 0; i < n; i++ {
		c := runes[i]
		switch c {
		case '\\':
			if i+1 < n {
				next := runes[i+1]
				switch next {
				case '(', ')', '{', '}', '+', '?', '|':
					b.WriteRune(next)
					i++
					continue
				}
			}
			b.WriteRune(c)
		case '(', ')', '{', '}', '+', '?', '|':
			b.WriteRune('\\')
			b.WriteRune(c)
		case '^':
			if i != 0 {
				b.WriteRune('\\')
			}
			b.WriteRune(c)
		case '$':
			if i != n-1 {
				b.WriteRune('\\')
			}
			b.WriteRune(c)
		default:
			b.WriteRune(c)
		}
	}
	return b.String()
}

// identity leaves an ERE/Perl pattern line unmodified; Go's regexp
// syntax is already close enough to ERE for this core's purposes (§4.5
// treats exact dialect fidelity as an external-engine concern).
func identity(pattern string) string {
	return pattern
}
