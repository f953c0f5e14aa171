// Package errors supplies the sentinel errors, wrapping helpers, and the
// run-status accumulator xgrep uses to implement the error taxonomy of
// the spec: fatal conditions abort the process immediately, per-file
// conditions are recorded and the scan continues.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for the conditions named in the spec's error taxonomy.
var (
	// ErrIsDirectory is returned by FileDriver when the target is a
	// directory and dir_policy == read.
	ErrIsDirectory = errors.New("is a directory")

	// ErrPermissionDenied marks an open failure caused by permissions.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrOpenFailed covers any other open/stat failure.
	ErrOpenFailed = errors.New("open failed")

	// ErrWriteFailed marks a failure writing to the output stream.
	ErrWriteFailed = errors.New("writing output")

	// ErrInvalidArgument marks a malformed option value (e.g. a bad
	// --context length).
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrConflictingMatcher is fatal: two distinct matcher engines were
	// requested on the same command line.
	ErrConflictingMatcher = errors.New("conflicting matchers specified")

	// ErrMissingPattern is fatal: no pattern source and no positional
	// pattern were supplied.
	ErrMissingPattern = errors.New("no pattern specified")

	// ErrRecursiveLoop marks a directory-ancestry cycle detected by
	// DirWalker; always reported regardless of --no-messages.
	ErrRecursiveLoop = errors.New("recursive directory loop")

	// ErrUnknownMatcher is fatal: neither the requested engine name nor
	// the "default" fallback could be resolved.
	ErrUnknownMatcher = errors.New("unknown matcher engine")
)

// Wrap wraps an error with additional context, following the standard
// "context: cause" convention. Returns nil if err is nil.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf wraps an error with a formatted context message.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether err matches target, per errors.Is semantics.
func Is(err, target error) bool {
	return errors.Is(err, target)
}
