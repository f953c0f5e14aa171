package config

import (
	"strconv"
	"strings"

	xerrors "github.com/mimecast/xgrep/internal/errors"
)

// maxContextDigits bounds how many digits a -NUM run may contribute
// before it is rejected as a fatal usage error, rather than silently
// overflowing into a garbage context value.
const maxContextDigits = 9

// foldDigitFlags removes every bare "-NUM" token from argv (§4.7: "-0
// through -9 accumulate into a decimal integer that is consumed as
// --context=N") and returns the remaining args plus a synthesized
// "--context=N" token when any digit flags were found. Tokens after a
// literal "--" separator are left untouched, matching normal getopt
// behavior.
func foldDigitFlags(argv []string) ([]string, error) {
	var digits strings.Builder
	out := make([]string, 0, len(argv))
	seenDashDash := false

	for _, tok := range argv {
		if seenDashDash {
			out = append(out, tok)
			continue
		}
		if tok == "--" {
			seenDashDash = true
			out = append(out, tok)
			continue
		}
		if isDigitFlag(tok) {
			digits.WriteString(tok[1:])
			continue
		}
		out = append(out, tok)
	}

	if digits.Len() == 0 {
		return out, nil
	}

	folded := strings.TrimLeft(digits.String(), "0")
	if folded == "" {
		folded = "0"
	}
	if len(folded) > maxContextDigits {
		return nil, xerrors.Wrapf(xerrors.ErrInvalidArgument, "invalid context length argument")
	}
	n, err := strconv.Atoi(folded)
	if err != nil {
		return nil, xerrors.Wrapf(xerrors.ErrInvalidArgument, "invalid context length argument")
	}

	out = append(out, "--context="+strconv.Itoa(n))
	return out, nil
}

func isDigitFlag(tok string) bool {
	if len(tok) < 2 || tok[0] != '-' {
		return false
	}
	for i := 1; i < len(tok); i++ {
		if tok[i] < '0' || tok[i] > '9' {
			return false
		}
	}
	return true
}
