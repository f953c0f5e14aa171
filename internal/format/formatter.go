// Package format implements the line.Sink that turns Scanner output
// into the byte-exact records described in spec §4.3: filename, line
// number, and byte offset fields ahead of the line content, each
// followed by the right separator byte, plus the summary records for
// count-only and list-files modes.
//
// It generalizes the line-formatting half of DTail's
// internal/io/fs.GrepProcessor.formatLine, which only ever produced a
// plain or colorized single-host line; xgrep's Formatter instead
// follows the field/separator contract of a long-established grep CLI.
package format

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/mimecast/xgrep/internal/config"
	xerrors "github.com/mimecast/xgrep/internal/errors"
	"github.com/mimecast/xgrep/internal/io/line"
	"github.com/mimecast/xgrep/internal/io/pool"
)

// Formatter writes Scanner output to w according to cfg.OutMode.
type Formatter struct {
	w            io.Writer
	cfg          *config.Config
	filename     string
	showFilename bool

	matchCount int
	matchedAny bool

	contextRequested bool
	writeErrReported bool
}

// New returns a Formatter for one file's worth of output. showFilename
// mirrors §6's "with fewer than two FILEs, filenames are suppressed
// unless -H forces them" rule, decided by the caller since it depends
// on how many files are being scanned in total.
func New(w io.Writer, cfg *config.Config, filename string, showFilename bool) *Formatter {
	return &Formatter{
		w:                w,
		cfg:              cfg,
		filename:         filename,
		showFilename:     showFilename,
		contextRequested: cfg.BeforeContext > 0 || cfg.AfterContext > 0,
	}
}

// MatchCount reports how many matching lines were counted so far, for
// callers that need the value before Flush (e.g. list-files early
// decisions made outside the Formatter).
func (f *Formatter) MatchCount() int {
	return f.matchCount
}

// Emit implements line.Sink.
func (f *Formatter) Emit(l line.Line) (bool, error) {
	if l.Match {
		f.matchedAny = true
		f.matchCount++
	}

	switch f.cfg.OutMode {
	case config.OutCountOnly:
		return true, nil
	case config.OutListMatchingFiles, config.OutListNonMatchFiles, config.OutQuiet:
		return false, nil
	default:
		if err := f.writeLine(l); err != nil {
			return false, err
		}
		return true, nil
	}
}

// Separator implements line.Sink.
func (f *Formatter) Separator() {
	if !f.contextRequested {
		return
	}
	if f.cfg.OutMode != config.OutNormal {
		return
	}
	fmt.Fprint(f.w, "--\n")
}

// EmitBinaryMatch implements line.Sink.
func (f *Formatter) EmitBinaryMatch(filename string) error {
	_, err := fmt.Fprintf(f.w, "Binary file %s matches\n", filename)
	return f.reportWriteErr(err)
}

// Flush implements line.Sink, emitting the per-file summary record for
// count-only and list-files modes.
func (f *Formatter) Flush() error {
	switch f.cfg.OutMode {
	case config.OutCountOnly:
		return f.flushCount()
	case config.OutListMatchingFiles:
		if f.matchedAny {
			return f.flushFilenameOnly()
		}
	case config.OutListNonMatchFiles:
		if !f.matchedAny {
			return f.flushFilenameOnly()
		}
	}
	return nil
}

func (f *Formatter) flushCount() error {
	buf := pool.BytesBuffer.Get().(*bytes.Buffer)
	defer pool.RecycleBytesBuffer(buf)

	if f.showFilename {
		buf.WriteString(f.filename)
		buf.WriteByte(f.filenameSeparator())
	}
	buf.WriteString(strconv.Itoa(f.matchCount))
	buf.WriteByte('\n')

	_, err := f.w.Write(buf.Bytes())
	return f.reportWriteErr(err)
}

func (f *Formatter) flushFilenameOnly() error {
	buf := pool.BytesBuffer.Get().(*bytes.Buffer)
	defer pool.RecycleBytesBuffer(buf)

	buf.WriteString(f.filename)
	if f.cfg.NullAfterFilename {
		buf.WriteByte(0)
	} else {
		buf.WriteByte('\n')
	}

	_, err := f.w.Write(buf.Bytes())
	return f.reportWriteErr(err)
}

// writeLine renders one normal-mode line: filename?, line-number?,
// byte-offset?, then content, each field followed by its separator.
func (f *Formatter) writeLine(l line.Line) error {
	buf := pool.BytesBuffer.Get().(*bytes.Buffer)
	defer pool.RecycleBytesBuffer(buf)

	sep := byte('-')
	if l.Match {
		sep = ':'
	}

	firstField := true
	writeSep := func() {
		if firstField && f.cfg.NullAfterFilename && f.showFilename {
			buf.WriteByte(0)
		} else {
			buf.WriteByte(sep)
		}
		firstField = false
	}

	if f.showFilename {
		buf.WriteString(f.filename)
		writeSep()
	}
	if f.cfg.ShowLineNumber {
		buf.WriteString(strconv.FormatUint(l.Number, 10))
		writeSep()
	}
	if f.cfg.ShowByteOffset {
		buf.WriteString(strconv.FormatUint(l.Offset, 10))
		writeSep()
	}
	buf.Write(l.Content)

	_, err := f.w.Write(buf.Bytes())
	return f.reportWriteErr(err)
}

func (f *Formatter) filenameSeparator() byte {
	if f.cfg.NullAfterFilename {
		return 0
	}
	return ':'
}

// reportWriteErr wraps an output-stream error with "writing output" and
// returns it; every failed write returns an error. The Scanner ends the
// current file's scan at the first one, so the driver reports it once
// for that file and goes on with the remaining files.
func (f *Formatter) reportWriteErr(err error) error {
	if err == nil {
		return nil
	}
	if f.writeErrReported {
		return xerrors.Wrap(err, "writing output")
	}
	f.writeErrReported = true
	return xerrors.Wrap(err, "writing output")
}
