package line

// Sink receives Lines as the Scanner decides to emit them, generalized
// from DTail's line.Processor interface (ProcessLine/Flush/Close). The
// Scanner is agnostic to what a Sink does with a Line: the normal
// Formatter writes formatted text, while list-matching-files mode can use
// a Sink that just records "seen" and requests an early stop.
type Sink interface {
	// Emit handles one Line. Returning false tells the Scanner to stop
	// scanning the current input immediately (used by list-files and
	// quiet modes to short-circuit once the outcome is decided).
	Emit(l Line) (continueScanning bool, err error)

	// Separator is called when the Scanner detects a discontiguity
	// between this group of output and the previous one, so the Sink
	// can print a "--" separator if context was ever requested.
	Separator()

	// EmitBinaryMatch reports the fixed "Binary file FILENAME matches"
	// notice for a file classified as binary, bypassing the normal
	// filename/separator/line formatting rules (§4.2 step 3, §6).
	EmitBinaryMatch(filename string) error

	// Flush finalizes any buffered output (e.g. count-only totals).
	Flush() error
}
