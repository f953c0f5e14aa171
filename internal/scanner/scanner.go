// Package scanner drives a PageBuffer through successive fills,
// isolates complete lines inside each window, calls the configured
// Matcher on the unscanned portion, and hands matching and context
// lines to a line.Sink. This is the per-file loop of §4.2.
//
// It generalizes DTail's internal/io/fs.GrepProcessor, which did the
// line-splitting and before/after-context bookkeeping for a tailed
// stream but had no PageBuffer underneath it (DTail reads line-at-a-
// time from a bufio.Scanner) and no notion of a save region surviving
// across refills.
package scanner

import (
	"bytes"

	"github.com/mimecast/xgrep/internal/buffer"
	"github.com/mimecast/xgrep/internal/config"
	"github.com/mimecast/xgrep/internal/constants"
	"github.com/mimecast/xgrep/internal/io/line"
	"github.com/mimecast/xgrep/internal/io/logger"
	"github.com/mimecast/xgrep/internal/regex"
)

// Outcome summarizes one file's scan for the caller (FileDriver/Main),
// who folds it into the process-wide exit status.
type Outcome struct {
	Matched       bool
	BinaryMatched bool
	StoppedEarly  bool  // max_count, a first-match-only mode, or the Sink ended the scan before EOF
	FileOffset    int64 // for repositioning a regular-file stdin descriptor
}

// Scanner ties one compiled Matcher to one output Sink across however
// many files it is asked to scan; both are safe to reuse (§5: "the
// Matcher is compiled once and reused").
type Scanner struct {
	cfg     *config.Config
	matcher regex.Matcher
	sink    line.Sink
}

// New returns a Scanner ready to process files under cfg.
func New(cfg *config.Config, matcher regex.Matcher, sink line.Sink) *Scanner {
	return &Scanner{cfg: cfg, matcher: matcher, sink: sink}
}

// stopOnFirstMatch reports whether the configured out_mode only cares
// about whether any match occurred, letting the scan stop at the first
// hit instead of running to EOF.
func (s *Scanner) stopOnFirstMatch() bool {
	switch s.cfg.OutMode {
	case config.OutQuiet, config.OutListMatchingFiles, config.OutListNonMatchFiles:
		return true
	default:
		return false
	}
}

// ScanFile runs the §4.2 loop over pb until EOF or an early-stop
// condition fires.
func (s *Scanner) ScanFile(pb *buffer.PageBuffer, filename string) (Outcome, error) {
	li := buffer.NewLineIndex()
	st := &scanState{
		cfg:      s.cfg,
		matcher:  s.matcher,
		sink:     s.sink,
		pb:       pb,
		li:       li,
		filename: filename,
		linesRemaining: s.cfg.MaxCount,
		stopOnFirst:    s.stopOnFirstMatch(),
	}
	return st.run()
}

type scanState struct {
	cfg     *config.Config
	matcher regex.Matcher
	sink    line.Sink

	pb *buffer.PageBuffer
	li *buffer.LineIndex

	filename string

	residue int
	save    int

	binary         bool
	binaryMatched  bool
	matched        bool
	stoppedEarly   bool

	linesRemaining int
	stopOnFirst    bool

	lastEmittedEnd int64
	haveEmitted    bool

	// pendingAfter counts after_context lines still owed following the
	// most recent match; it can carry across a Fill boundary when the
	// current window runs out before the count is exhausted.
	pendingAfter int

	warnedLongLine bool
}

func (st *scanState) run() (Outcome, error) {
	if st.linesRemaining == 0 {
		return Outcome{}, nil
	}

	ok, err := st.pb.Fill(0)
	if err != nil {
		return Outcome{}, err
	}
	if !ok {
		return Outcome{}, nil
	}

	window := st.pb.Bytes()
	if detectBinary(window, st.cfg.EOLByte) {
		st.binary = true
		switch st.cfg.BinaryPolicy {
		case config.BinaryWithoutMatch:
			return Outcome{}, nil
		case config.BinaryText:
			st.binary = false
		}
	}

	for {
		window = st.pb.Bytes()
		begin, end := 0, len(window)

		if end-begin == st.save {
			break // EOF: nothing new arrived since the last fill.
		}

		scanBegin := begin + st.save - st.residue
		scanEnd := lastCompleteLineEnd(window[:end], st.cfg.EOLByte)
		st.residue = end - scanEnd

		if !st.warnedLongLine && st.residue > constants.DefaultMaxLineLength {
			st.warnedLongLine = true
			logger.Warn("line exceeds", constants.DefaultMaxLineLength, "bytes, no eol found yet", st.filename)
		}

		if scanBegin < scanEnd {
			stop, err := st.grepbuf(window, scanBegin, scanEnd)
			if err != nil {
				return st.outcome(), err
			}
			if stop {
				st.stoppedEarly = true
				return st.outcome(), nil
			}
		}

		reservedStart := reserveContextStart(window, scanEnd, st.cfg.BeforeContext, st.cfg.EOLByte)
		st.save = st.residue + (scanEnd - reservedStart)

		dropped := window[:reservedStart]
		if st.cfg.ShowLineNumber {
			st.li.Advance(dropped, 0)
		}

		more, err := st.pb.Fill(st.save)
		if err != nil {
			return st.outcome(), err
		}
		if !more {
			break
		}
	}

	if st.residue > 0 {
		if err := st.emitTerminalResidue(); err != nil {
			return st.outcome(), err
		}
	}

	if st.binary && st.matched {
		st.binaryMatched = true
		if err := st.sink.EmitBinaryMatch(st.filename); err != nil {
			return st.outcome(), err
		}
	}

	return st.outcome(), nil
}

func (st *scanState) outcome() Outcome {
	// Once the scan stops early (max_count or a first-match-only mode),
	// pb's read cursor may sit far past the last line actually handed to
	// the Sink, thanks to buffered read-ahead; LineIndex tracks the real
	// boundary so a stdin descriptor is repositioned accurately (§4.6).
	fileOffset := st.pb.FileOffset()
	if st.stoppedEarly {
		fileOffset = st.li.LastEmittedEnd()
	}
	return Outcome{
		Matched:       st.matched && !st.binary,
		BinaryMatched: st.binaryMatched,
		StoppedEarly:  st.stoppedEarly,
		FileOffset:    fileOffset,
	}
}

// grepbuf repeatedly invokes the Matcher over window[beg:lim], emitting
// matched lines (or, under invert, the non-matching gaps between
// matches) through the Sink. It returns stop==true when the scan should
// end immediately (max_count exhausted, or a first-match-only mode
// resolved).
func (st *scanState) grepbuf(window []byte, beg, lim int) (bool, error) {
	if !st.cfg.InvertMatch && st.pendingAfter > 0 {
		newBeg, err := st.drainAfterContext(window, beg, lim)
		if err != nil {
			return false, err
		}
		beg = newBeg
	}

	slice := window[beg:lim]
	cursor := 0

	for {
		offset, length, found := st.matcher.Execute(slice[cursor:])
		if !found {
			if st.cfg.InvertMatch {
				if err := st.emitInvertRun(window, beg+cursor, lim); err != nil {
					return false, err
				}
				return st.linesRemaining == 0 || (st.stopOnFirst && st.matched), nil
			}
			return false, nil
		}

		b := cursor + offset
		e := b + length
		if e == lim-beg {
			// Match lands on the sentinel; treat as no-match and stop.
			if st.cfg.InvertMatch {
				if err := st.emitInvertRun(window, beg+cursor, lim); err != nil {
					return false, err
				}
				return st.linesRemaining == 0 || (st.stopOnFirst && st.matched), nil
			}
			return false, nil
		}

		if st.cfg.InvertMatch {
			if err := st.emitInvertRun(window, beg+cursor, beg+b); err != nil {
				return false, err
			}
			if st.linesRemaining == 0 || (st.stopOnFirst && st.matched) {
				return true, nil
			}
			cursor = lineEndAfter(slice, b, st.cfg.EOLByte)
			continue
		}

		stop, next, err := st.emitMatchLine(window, beg+b, lim)
		if err != nil {
			return false, err
		}
		if stop {
			return true, nil
		}
		cursor = next - beg
		if cursor >= lim-beg {
			return false, nil
		}
	}
}

// emitMatchLine locates the full line containing the match starting at
// absolute window position b and sends it to the Sink, returning
// stop==true if scanning should end, and next as the absolute position
// the caller should resume its match search from (past any after_context
// lines this call drained, so they are never rescanned as fresh matches).
// lim bounds how far after_context may look forward before the rest
// carries over to the next Fill.
func (st *scanState) emitMatchLine(window []byte, b, lim int) (stop bool, next int, err error) {
	lineStart := lineStartOf(window, b, st.cfg.EOLByte)
	lineEnd := lineEndOf(window, b, st.cfg.EOLByte)

	if st.binary {
		// §4.2 step 3: a binary file under the report policy never gets
		// its line content or context printed, only the later single
		// "Binary file ... matches" notice once the scan finishes.
		st.matched = true
		return false, lineEnd, nil
	}

	if err := st.emitBeforeContext(window, lineStart); err != nil {
		return false, lineEnd, err
	}

	l := st.buildLine(window, lineStart, lineEnd, true)
	cont, err := st.sink.Emit(l)
	if err != nil {
		return false, lineEnd, err
	}
	st.matched = true
	st.markEmitted(lineStart, lineEnd)

	if st.linesRemaining > 0 {
		st.linesRemaining--
	}

	next = lineEnd
	if !st.cfg.InvertMatch {
		st.pendingAfter = st.cfg.AfterContext
		next, err = st.drainAfterContext(window, lineEnd, lim)
		if err != nil {
			return false, next, err
		}
	}

	if st.stopOnFirst {
		return true, next, nil
	}
	if st.linesRemaining == 0 {
		return true, next, nil
	}
	return !cont, next, nil
}

// drainAfterContext emits complete lines starting at pos, up to lim, as
// after_context for the most recent match, consuming st.pendingAfter. It
// returns the position just past the last line it emitted (or pos
// unchanged if nothing was owed or available), so the caller can resume
// the match search after whatever it just handed to the Sink as context.
func (st *scanState) drainAfterContext(window []byte, pos, lim int) (int, error) {
	for st.pendingAfter > 0 && pos < lim {
		end := lineEndOf(window, pos, st.cfg.EOLByte)
		if end > lim {
			break
		}
		if _, _, found := st.matcher.Execute(window[pos:end]); found {
			break // a matching line is left for grepbuf to emit as a match
		}
		l := st.buildLine(window, pos, end, false)
		if _, err := st.sink.Emit(l); err != nil {
			return pos, err
		}
		st.markEmitted(pos, end)
		st.pendingAfter--
		pos = end
	}
	return pos, nil
}

// emitInvertRun emits each complete line inside window[from:to) as a
// selected line under --invert-match (§4.2's invert branch): these are
// the lines the pattern did NOT match, so they carry Match==true same as
// a normal hit (':' separator, counted by -c, eligible as the anchor for
// before/after context).
func (st *scanState) emitInvertRun(window []byte, from, to int) error {
	if st.binary {
		if from < to {
			st.matched = true
		}
		return nil
	}
	pos := from
	for pos < to {
		end := lineEndOf(window, pos, st.cfg.EOLByte)
		if end > to {
			break
		}
		l := st.buildLine(window, pos, end, true)
		cont, err := st.sink.Emit(l)
		if err != nil {
			return err
		}
		st.matched = true
		st.markEmitted(pos, end)
		if st.linesRemaining > 0 {
			st.linesRemaining--
		}
		if !cont || st.linesRemaining == 0 || st.stopOnFirst {
			return nil
		}
		pos = end
	}
	return nil
}

// emitBeforeContext walks backward from lineStart across up to
// before_context complete lines and emits them as context.
func (st *scanState) emitBeforeContext(window []byte, lineStart int) error {
	if st.cfg.BeforeContext == 0 {
		return nil
	}
	starts := make([]int, 0, st.cfg.BeforeContext)
	pos := lineStart
	for i := 0; i < st.cfg.BeforeContext; i++ {
		if pos == 0 {
			break
		}
		prevStart := lineStartOf(window, pos-1, st.cfg.EOLByte)
		if prevStart == pos {
			break
		}
		starts = append([]int{prevStart}, starts...)
		pos = prevStart
	}
	for _, start := range starts {
		end := lineEndOf(window, start, st.cfg.EOLByte)
		if st.haveEmitted && st.windowBase()+int64(end) <= st.lastEmittedEnd {
			continue // already sent, as a previous match's after_context
		}
		l := st.buildLine(window, start, end, false)
		if _, err := st.sink.Emit(l); err != nil {
			return err
		}
		st.markEmitted(start, end)
	}
	return nil
}

func (st *scanState) buildLine(window []byte, start, end int, matched bool) line.Line {
	content := append([]byte(nil), window[start:end]...)
	var number uint64
	if st.cfg.ShowLineNumber {
		nlBefore := uint64(bytes.Count(window[:start], []byte{st.cfg.EOLByte}))
		number = st.li.LineNumber(nlBefore)
	}
	offset := st.li.ByteOffset(st.pb.FileOffset()-int64(len(window)), start)
	return line.Line{Content: content, Number: number, Offset: offset, Match: matched}
}

// markEmitted records that a line [start, end) (relative to the current
// window) was just sent to the Sink, emitting a "--" separator first if
// it is not contiguous with the previous emission (§3 last_emitted_end,
// §4.3 "between discontiguous groups of output").
func (st *scanState) markEmitted(start, end int) {
	absStart := st.windowBase() + int64(start)
	if st.haveEmitted && absStart != st.lastEmittedEnd {
		st.sink.Separator()
	}
	st.haveEmitted = true
	st.lastEmittedEnd = st.windowBase() + int64(end)
	st.li.MarkEmitted(st.lastEmittedEnd)
}

// windowBase returns the absolute file offset corresponding to index 0
// of the current window.
func (st *scanState) windowBase() int64 {
	return st.pb.FileOffset() - int64(len(st.pb.Bytes()))
}

func (st *scanState) emitTerminalResidue() error {
	window := st.pb.Bytes()
	start := len(window) - st.residue
	synthetic := append(append([]byte(nil), window[start:]...), st.cfg.EOLByte)

	if st.binary {
		offset, length, found := st.matcher.Execute(synthetic)
		matched := found && !(offset == len(synthetic) && length == 0)
		if st.cfg.InvertMatch {
			matched = !matched
		}
		if matched {
			st.matched = true
		}
		return nil
	}

	offset, length, found := st.matcher.Execute(synthetic)
	matched := found && !(offset == len(synthetic) && length == 0)

	if !st.cfg.InvertMatch && st.pendingAfter > 0 && !matched {
		l := line.Line{
			Content: synthetic,
			Offset:  st.li.ByteOffset(st.pb.FileOffset()-int64(len(window)), start),
		}
		if st.cfg.ShowLineNumber {
			l.Number = st.li.LineNumber(uint64(bytes.Count(window[:start], []byte{st.cfg.EOLByte})))
		}
		if _, err := st.sink.Emit(l); err != nil {
			return err
		}
		st.markEmitted(start, len(window))
		st.pendingAfter--
		return nil
	}

	if st.cfg.InvertMatch {
		matched = !matched
	}
	if !matched {
		return nil
	}

	l := line.Line{
		Content: synthetic,
		Offset:  st.li.ByteOffset(st.pb.FileOffset()-int64(len(window)), start),
		Match:   true,
	}
	if st.cfg.ShowLineNumber {
		l.Number = st.li.LineNumber(uint64(bytes.Count(window[:start], []byte{st.cfg.EOLByte})))
	}
	if _, err := st.sink.Emit(l); err != nil {
		return err
	}
	st.matched = true
	return nil
}

func detectBinary(window []byte, eol byte) bool {
	if eol == '\n' {
		return bytes.IndexByte(window, 0) >= 0
	}
	for _, b := range window {
		if b&0x80 != 0 {
			return true
		}
	}
	return false
}

// lastCompleteLineEnd returns the greatest index e <= len(window) such
// that window[e-1] == eol, i.e. the end of the last complete line in
// the window (§3 invariant on the residue).
func lastCompleteLineEnd(window []byte, eol byte) int {
	idx := bytes.LastIndexByte(window, eol)
	if idx < 0 {
		return 0
	}
	return idx + 1
}

func lineStartOf(window []byte, pos int, eol byte) int {
	if pos <= 0 {
		return 0
	}
	idx := bytes.LastIndexByte(window[:pos], eol)
	if idx < 0 {
		return 0
	}
	return idx + 1
}

func lineEndOf(window []byte, pos int, eol byte) int {
	rel := bytes.IndexByte(window[pos:], eol)
	if rel < 0 {
		return len(window)
	}
	return pos + rel + 1
}

func lineEndAfter(slice []byte, pos int, eol byte) int {
	rel := bytes.IndexByte(slice[pos:], eol)
	if rel < 0 {
		return len(slice)
	}
	return pos + rel + 1
}

// reserveContextStart finds where the last before_context complete
// lines before scanEnd begin, so that many bytes can be retained as
// save region for the next fill (§4.2 step 4.e).
func reserveContextStart(window []byte, scanEnd, beforeContext int, eol byte) int {
	pos := scanEnd
	for i := 0; i < beforeContext; i++ {
		if pos == 0 {
			break
		}
		prevStart := lineStartOf(window, pos-1, eol)
		if prevStart == pos {
			break
		}
		pos = prevStart
	}
	return pos
}
