package config

import (
	"os"
	"strings"
)

// envOptions splits GREP_OPTIONS on whitespace, honoring backslash
// escapes of whitespace and backslash itself, and returns the resulting
// tokens to be prepended to the real argument vector (§4.7, §6).
func envOptions() []string {
	raw, ok := os.LookupEnv("GREP_OPTIONS")
	if !ok || raw == "" {
		return nil
	}
	return splitEscaped(raw)
}

func splitEscaped(s string) []string {
	var tokens []string
	var cur strings.Builder
	inToken := false

	flush := func() {
		if inToken {
			tokens = append(tokens, cur.String())
			cur.Reset()
			inToken = false
		}
	}

	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch {
		case c == '\\' && i+1 < len(runes) && isEscapable(runes[i+1]):
			cur.WriteRune(runes[i+1])
			inToken = true
			i++
		case c == ' ' || c == '\t' || c == '\n':
			flush()
		default:
			cur.WriteRune(c)
			inToken = true
		}
	}
	flush()
	return tokens
}

func isEscapable(c rune) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\\'
}

// withEnvDefaults prepends GREP_OPTIONS tokens to argv, mirroring GNU
// grep's documented behavior that explicit command-line options still
// override anything set through the environment (later flags win).
func withEnvDefaults(argv []string) []string {
	pre := envOptions()
	if len(pre) == 0 {
		return argv
	}
	out := make([]string, 0, len(pre)+len(argv))
	out = append(out, pre...)
	out = append(out, argv...)
	return out
}
