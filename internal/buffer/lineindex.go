package buffer

import "bytes"

// LineIndex tracks per-file byte and line accounting across successive
// PageBuffer windows, per §4.1's companion state: how many bytes and
// newlines have been consumed before the start of the current window,
// and how much of a line straddles the window boundary.
type LineIndex struct {
	totalBytesBefore int64 // bytes consumed before the current window began
	totalLinesBefore uint64
	pendingTrailing  []byte // unterminated tail carried into the next window
	lastEmittedEnd   int64  // file offset just past the last line handed out
}

// NewLineIndex returns a zeroed LineIndex for a freshly opened file.
func NewLineIndex() *LineIndex {
	return &LineIndex{}
}

// Advance folds the accounting for a window that is about to be
// replaced (its bytes and embedded newlines become "before" state) and
// returns any unterminated trailing bytes that must be prepended to the
// next window as save bytes.
func (li *LineIndex) Advance(window []byte, windowStartOffset int64) []byte {
	nl := bytes.Count(window, []byte{'\n'})
	li.totalLinesBefore += uint64(nl)
	li.totalBytesBefore = windowStartOffset + int64(len(window))

	if n := len(window); n > 0 && window[n-1] != '\n' {
		li.pendingTrailing = append([]byte(nil), window[bytes.LastIndexByte(window, '\n')+1:]...)
	} else {
		li.pendingTrailing = nil
	}
	return li.pendingTrailing
}

// LineNumber returns the 1-based line number for a match ending at the
// given number of newlines consumed so far within the current window
// (linesInWindow counts '\n' bytes strictly before the match).
func (li *LineIndex) LineNumber(linesInWindow uint64) uint64 {
	return li.totalLinesBefore + linesInWindow + 1
}

// ByteOffset returns the absolute file offset corresponding to a
// position within the current window, given the window's starting file
// offset.
func (li *LineIndex) ByteOffset(windowStartOffset int64, posInWindow int) uint64 {
	return uint64(windowStartOffset + int64(posInWindow))
}

// MarkEmitted records the file offset just past the most recently
// emitted line, so FileDriver can reposition stdin-like streams
// correctly after a quiet-mode early exit (§4.6).
func (li *LineIndex) MarkEmitted(offset int64) {
	li.lastEmittedEnd = offset
}

// LastEmittedEnd reports the offset recorded by MarkEmitted.
func (li *LineIndex) LastEmittedEnd() int64 {
	return li.lastEmittedEnd
}
