// Command xgrep is a line-oriented pattern-search utility: it reads
// files, standard input, or recursively walked directory trees and
// writes the lines (or surrounding context) matching a pattern,
// byte-compatible with a long-established grep CLI.
//
// This replaces DGrep, DTail's distributed grep-over-SSH client
// (cmd/dgrep in the teacher tree): xgrep has no remote fan-out and no
// SSH transport, but keeps DTail's overall main() shape — parse flags,
// start the logger, run the work, compute an exit status, os.Exit once.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/term"

	"github.com/mimecast/xgrep/internal/buffer"
	"github.com/mimecast/xgrep/internal/config"
	"github.com/mimecast/xgrep/internal/constants"
	"github.com/mimecast/xgrep/internal/dirwalk"
	xerrors "github.com/mimecast/xgrep/internal/errors"
	"github.com/mimecast/xgrep/internal/filedriver"
	"github.com/mimecast/xgrep/internal/format"
	"github.com/mimecast/xgrep/internal/io/logger"
	"github.com/mimecast/xgrep/internal/regex"
	"github.com/mimecast/xgrep/internal/scanner"
)

func main() {
	os.Exit(run(os.Args))
}

func run(osArgs []string) int {
	progName := filepath.Base(osArgs[0])

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	logger.Start(ctx)
	defer logger.Flush()

	cfg, err := config.Setup(progName, osArgs[1:])
	if err != nil {
		var exitReq *config.ExitRequest
		if errors.As(err, &exitReq) {
			return exitReq.Code
		}
		fmt.Fprintf(os.Stderr, "%s: %v\n", progName, err)
		return constants.ExitError
	}
	logger.Debug = cfg.DebugLog
	logger.Debugf("config resolved", "matcher", cfg.MatcherName, "files", len(cfg.Files))

	if cfg.MaxCount == 0 {
		return constants.ExitNoMatch
	}

	ctor, err := regex.Lookup(string(cfg.MatcherName))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", progName, err)
		return constants.ExitError
	}
	matcher, err := ctor(cfg.Patterns, regex.Options{
		CaseInsensitive: cfg.CaseInsensitive,
		WordMatch:       cfg.WordMatch,
		LineMatch:       cfg.LineMatch,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", progName, err)
		return constants.ExitError
	}

	files := cfg.Files
	if len(files) == 0 {
		files = []string{""}
	}

	rs := &xerrors.RunStatus{}
	pb := buffer.New()
	defer pb.Close()

	// A non-interactive stdout (piped or redirected) is wrapped in a
	// sized buffer for throughput; an interactive terminal is written
	// to directly so results appear as each file is scanned, the way a
	// long-established grep CLI behaves at a tty.
	out, flushOut := newOutput(os.Stdout)
	defer flushOut()

	showFilenames := computeShowFilenames(cfg, len(files), false)

	d := &driver{progName: progName, cfg: cfg, matcher: matcher, pb: pb, rs: rs, out: out}
	for _, path := range files {
		d.scan(path, showFilenames, false)
		if cfg.OutMode == config.OutQuiet && !rs.ErrorSeen() && d.anyMatch {
			flushOut()
			return constants.ExitMatch
		}
	}

	flushOut()
	return rs.ExitCode()
}

// newOutput decides stdout's buffering strategy based on whether it is
// attached to a terminal, and returns the writer to hand to every
// Formatter plus a flush function safe to call any number of times.
func newOutput(f *os.File) (io.Writer, func()) {
	if term.IsTerminal(int(f.Fd())) {
		return f, func() {}
	}
	bw := bufio.NewWriterSize(f, 64*1024)
	return bw, func() { bw.Flush() }
}

// computeShowFilenames implements §6's "with fewer than two FILEs,
// filenames are suppressed unless -H forces them", plus §4.6's rule
// that recursion forces filenames back on.
func computeShowFilenames(cfg *config.Config, numFiles int, recursing bool) bool {
	if cfg.SuppressFilenames {
		return false
	}
	return cfg.ForceFilenames || numFiles > 1 || recursing
}

// driver threads the shared matcher, PageBuffer, and RunStatus through
// every file and directory visited in one run.
type driver struct {
	progName string
	cfg      *config.Config
	matcher  regex.Matcher
	pb       *buffer.PageBuffer
	rs       *xerrors.RunStatus
	out      io.Writer
	anyMatch bool
}

func (d *driver) scan(path string, showFilenames, knownDirectory bool) (matched, errorSeen bool) {
	logger.Debugf("scan", "path", displayPath(path))
	res := filedriver.Open(path, d.cfg, knownDirectory)
	if res.Skip {
		return false, false
	}
	if res.Err != nil {
		d.reportError(displayPath(path), res.Err)
		d.rs.RecordError()
		return false, true
	}
	if res.RecursePath != "" {
		childShow := computeShowFilenames(d.cfg, 0, true)
		matched, errorSeen = dirwalk.Walk(res.RecursePath, nil, d.warnLoop, func(childPath string, childKnownDir bool) (bool, bool) {
			return d.scan(childPath, childShow, childKnownDir)
		})
		if matched {
			d.rs.RecordMatch()
			d.anyMatch = true
		}
		if errorSeen {
			d.rs.RecordError()
		}
		return matched, errorSeen
	}

	defer res.File.Close()
	label := res.Label
	if label == "" {
		label = path
	}

	if err := d.pb.Reset(res.File, res.IsRegular, 0, d.cfg.UseMmap, d.cfg.PreserveCR); err != nil {
		d.reportError(label, err)
		d.rs.RecordError()
		return false, true
	}

	sink := format.New(d.out, d.cfg, label, showFilenames)
	sc := scanner.New(d.cfg, d.matcher, sink)

	outcome, err := sc.ScanFile(d.pb, label)
	if err != nil {
		d.reportError(label, err)
		sink.Flush()
		d.rs.RecordError()
		return outcome.Matched, true
	}
	if err := sink.Flush(); err != nil {
		d.reportError(label, err)
		d.rs.RecordError()
		errorSeen = true
	}

	if res.IsStdin {
		if rerr := filedriver.Reposition(res.File, res.IsRegular, outcome.FileOffset); rerr != nil {
			d.reportError(label, rerr)
			d.rs.RecordError()
			errorSeen = true
		}
	}

	matched = outcome.Matched || outcome.BinaryMatched
	if matched {
		d.rs.RecordMatch()
		d.anyMatch = true
	}
	return matched, errorSeen
}

func (d *driver) reportError(subject string, err error) {
	if d.cfg.SuppressErrors {
		return
	}
	fmt.Fprintf(os.Stderr, "%s: %s: %v\n", d.progName, subject, err)
}

func (d *driver) warnLoop(path string) {
	// §7: loop warnings are always reported, even under --no-messages.
	fmt.Fprintf(os.Stderr, "%s: %s: %v\n", d.progName, path, xerrors.ErrRecursiveLoop)
}

func displayPath(path string) string {
	if path == "" {
		return filedriver.StdinLabel
	}
	return path
}
