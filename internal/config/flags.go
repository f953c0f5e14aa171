package config

import (
	"github.com/spf13/pflag"

	"github.com/mimecast/xgrep/internal/version"
)

// versionString is reported by --version/-V. xgrep has no distributed
// release process of its own (§1 Out of scope: "version string"), so
// this is a fixed placeholder rather than something wired to build
// metadata.
var versionString = version.String()

// registerFlags declares every option in §6's grammar on flags. Flags
// are grouped the way the spec groups them (pattern selection, output,
// context, misc); Setup disables SortFlags, so --help lists them in
// this declaration order.
func registerFlags(flags *pflag.FlagSet) {
	// Pattern selection.
	flags.BoolP("extended-regexp", "E", false, "PATTERN is an extended regular expression")
	flags.BoolP("fixed-strings", "F", false, "PATTERN is a set of newline-separated fixed strings")
	flags.BoolP("basic-regexp", "G", false, "PATTERN is a basic regular expression")
	flags.BoolP("perl-regexp", "P", false, "PATTERN is a Perl-compatible regular expression")
	flags.StringP("matcher", "X", "", "select an internal matcher engine by name")
	flags.StringArrayP("regexp", "e", nil, "use PATTERN as the pattern (repeatable)")
	flags.StringArrayP("file", "f", nil, "obtain patterns from FILE (repeatable; - means stdin)")
	flags.BoolP("ignore-case", "i", false, "ignore case distinctions")
	flags.BoolP("ignore-case-alt", "y", false, "alias of -i (historic BSD grep spelling)")
	flags.BoolP("word-regexp", "w", false, "match only whole words")
	flags.BoolP("line-regexp", "x", false, "match only whole lines")
	flags.BoolP("null-data", "z", false, "lines are terminated by a zero byte")

	// Output.
	// Default -1 means "unlimited"; 0 is a legitimate user-supplied value
	// meaning "exit immediately without scanning" (§3).
	flags.IntP("max-count", "m", -1, "stop after NUM matching lines")
	flags.BoolP("byte-offset", "b", false, "print the byte offset of each matching line")
	flags.BoolP("line-number", "n", false, "print line number with output lines")
	flags.BoolP("with-filename", "H", false, "print file name for each match")
	flags.BoolP("no-filename", "h", false, "suppress the file name prefix on output")
	flags.BoolP("quiet", "q", false, "suppress all normal output")
	flags.String("binary-files", "", "how to handle binary files: binary, text, or without-match")
	flags.BoolP("text", "a", false, "equivalent to --binary-files=text")
	flags.BoolP("binary-without-match", "I", false, "equivalent to --binary-files=without-match")
	flags.StringP("directories", "d", "", "how to handle directories: read, skip, or recurse")
	flags.BoolP("recursive", "r", false, "recurse into directories")
	flags.BoolP("files-without-match", "L", false, "print only names of files with no matches")
	flags.BoolP("files-with-matches", "l", false, "print only names of files with matches")
	flags.BoolP("count", "c", false, "print only a count of matching lines per file")
	flags.BoolP("null", "Z", false, "print a zero byte after the file name")

	// Context. --context/-C is also the synthesis target for the
	// folded -NUM digit flags (digits.go).
	flags.IntP("context", "C", 0, "print NUM lines of leading and trailing context")
	flags.IntP("after-context", "A", 0, "print NUM lines of trailing context")
	flags.IntP("before-context", "B", 0, "print NUM lines of leading context")
	flags.BoolP("binary-preserve-cr", "U", false, "do not strip CR characters before a line feed")
	flags.BoolP("unix-byte-offsets", "u", false, "accepted for compatibility; reported offsets are not adjusted by it")

	// Misc.
	flags.BoolP("no-messages", "s", false, "suppress error messages")
	flags.BoolP("invert-match", "v", false, "select non-matching lines")
	flags.Bool("mmap", false, "use memory-mapped reads where possible")

	// debug-log is an internal diagnostics switch, not part of the
	// documented CLI grammar; it exists so the ambient logger can be
	// exercised by a real flag instead of sitting unused.
	flags.Bool("debug-log", false, "enable internal debug logging to stderr")
	flags.MarkHidden("debug-log")
}
