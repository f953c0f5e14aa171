// Package line defines the record type that flows from the Scanner to
// the Formatter, generalized from DTail's internal/io/line.Line (which
// carried a transmitted-percentage and source ID meant for a distributed
// client/server protocol this tool has no use for).
package line

import "fmt"

// Line is one line of input, already isolated at its eol_byte boundary,
// annotated with everything the Formatter needs to decide how to print
// it (or not).
type Line struct {
	// Content is the line's bytes, including the trailing eol_byte
	// (or the synthesized sentinel on the final, incomplete line).
	Content []byte
	// Number is the 1-based line number, counting eol_byte occurrences
	// strictly before this line's first byte, plus one. Zero when line
	// numbers were not requested (lazy accounting, per spec §3).
	Number uint64
	// Offset is the absolute byte offset of Content's first byte in the
	// original input.
	Offset uint64
	// Match reports whether this line satisfied the pattern (accounting
	// for --invert-match). Context lines carried only for
	// before/after-context windows have Match == false.
	Match bool
}

func (l Line) String() string {
	return fmt.Sprintf("Line(Number:%d,Offset:%d,Match:%t,Content:%q)",
		l.Number, l.Offset, l.Match, l.Content)
}
