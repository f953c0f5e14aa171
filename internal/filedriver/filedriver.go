// Package filedriver opens and classifies one scan target (a path, or
// standard input), following the policy of spec §4.4: regular files go
// to the Scanner, directories are skipped/rejected/handed to DirWalker
// depending on dir_policy, and open failures are reported rather than
// aborting the whole run.
//
// This generalizes the open/retry loop DTail's chunked readers use
// around os.Open (see internal/io/fs/chunkedreader.go in the teacher
// tree), adding the directory-classification branch DTail never needed
// since it only ever tailed regular log files.
package filedriver

import (
	"io"
	"os"

	"github.com/mimecast/xgrep/internal/config"
	xerrors "github.com/mimecast/xgrep/internal/errors"
)

// StdinLabel is the filename xgrep reports for standard input (§4.4).
const StdinLabel = "(standard input)"

// Result is the outcome of opening one scan target.
type Result struct {
	File     *os.File
	IsRegular bool
	IsStdin  bool
	Label    string

	// Skip indicates a silent skip: not an error, no output, no status
	// contribution.
	Skip bool

	// RecursePath is set when the target is a directory under
	// dir_policy=recurse; the caller should hand it to DirWalker instead
	// of the Scanner.
	RecursePath string

	// Err is a per-file error to be reported (unless suppressed) and
	// folded into error_seen; never set alongside File, Skip, or
	// RecursePath.
	Err error
}

// Open resolves path into a Result. An empty path means standard input.
// knownDirectory should be true when the caller (typically DirWalker,
// which already enumerated the entry's type) already knows the target
// is a directory, enabling the "permission denied on a known directory"
// silent-skip rule.
func Open(path string, cfg *config.Config, knownDirectory bool) Result {
	if path == "" || path == "-" {
		return openStdin()
	}

	fi, err := statWithRetry(path)
	if err != nil {
		if knownDirectory && cfg.DirPolicy == config.DirSkip && os.IsPermission(err) {
			return Result{Skip: true}
		}
		return Result{Err: xerrors.Wrap(err, path)}
	}

	if fi.IsDir() {
		switch cfg.DirPolicy {
		case config.DirSkip:
			return Result{Skip: true}
		case config.DirRecurse:
			return Result{RecursePath: path}
		default:
			return Result{Err: xerrors.Wrapf(xerrors.ErrIsDirectory, "%s", path)}
		}
	}

	f, err := openWithRetry(path)
	if err != nil {
		if os.IsPermission(err) && knownDirectory && cfg.DirPolicy == config.DirSkip {
			return Result{Skip: true}
		}
		return Result{Err: xerrors.Wrap(err, path)}
	}

	return Result{File: f, IsRegular: true, Label: path}
}

func openStdin() Result {
	fi, err := os.Stdin.Stat()
	isRegular := err == nil && fi.Mode().IsRegular()
	return Result{File: os.Stdin, IsRegular: isRegular, IsStdin: true, Label: StdinLabel}
}

// Reposition seeks a regular-file descriptor back to offset once the
// scan has stopped early (quiet/list/count mode, or a max_count cap),
// so a downstream consumer of the same descriptor can resume at the
// right byte (§4.4). It is a no-op for non-regular descriptors.
func Reposition(f *os.File, isRegular bool, offset int64) error {
	if !isRegular {
		return nil
	}
	_, err := f.Seek(offset, io.SeekStart)
	if err != nil {
		return xerrors.Wrap(err, "reposition")
	}
	return nil
}

func statWithRetry(path string) (os.FileInfo, error) {
	var lastErr error
	for i := 0; i < retryLimit(); i++ {
		fi, err := os.Stat(path)
		if err == nil {
			return fi, nil
		}
		if !isEINTR(err) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

func openWithRetry(path string) (*os.File, error) {
	var lastErr error
	for i := 0; i < retryLimit(); i++ {
		f, err := os.Open(path)
		if err == nil {
			return f, nil
		}
		if !isEINTR(err) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}
