// Package logger provides xgrep's diagnostic logging, generalized from
// DTail's internal/io/logger package: the same SEVERITY|message line
// shape and non-blocking, channel-fed writer goroutine, trimmed down to
// a single-process tool with a single destination (stderr) — there is no
// client/server mode split, no log file, and no log rotation, since xgrep
// is a short-lived batch process rather than a long-running daemon.
package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

const (
	infoStr  = "INFO"
	warnStr  = "WARN"
	errorStr = "ERROR"
	fatalStr = "FATAL"
	debugStr = "DEBUG"
)

// Quiet suppresses Info/Warn/Debug output; Error and Fatal still log.
// Set once before Start.
var Quiet bool

// Debug enables Debug-level output. Set once before Start.
var Debug bool

var (
	out     io.Writer = os.Stderr
	bufCh   chan string
	mutex   sync.Mutex
	started bool
)

// Start begins the background writer goroutine. Safe to call once per
// process; ctx cancellation drains and stops the writer.
func Start(ctx context.Context) {
	mutex.Lock()
	defer mutex.Unlock()
	if started {
		return
	}
	started = true
	bufCh = make(chan string, 256)
	go write(ctx)
}

func write(ctx context.Context) {
	for {
		select {
		case line := <-bufCh:
			fmt.Fprint(out, line)
		case <-ctx.Done():
			Flush()
			return
		}
	}
}

// Flush drains any buffered lines synchronously. Safe to call even if
// Start was never called.
func Flush() {
	for {
		select {
		case line := <-bufCh:
			fmt.Fprint(out, line)
		default:
			return
		}
	}
}

func log(severity string, args []interface{}) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, severity)
	for _, arg := range args {
		switch v := arg.(type) {
		case string:
			parts = append(parts, v)
		case error:
			parts = append(parts, v.Error())
		default:
			parts = append(parts, fmt.Sprintf("%v", v))
		}
	}
	line := strings.Join(parts, "|") + "\n"
	if bufCh != nil {
		select {
		case bufCh <- line:
		default:
			fmt.Fprint(out, line)
		}
	} else {
		fmt.Fprint(out, line)
	}
	return line
}

// Info logs an informational message. Suppressed when Quiet is set.
func Info(args ...interface{}) string {
	if Quiet {
		return ""
	}
	return log(infoStr, args)
}

// Warn logs a warning. Suppressed when Quiet is set, except that callers
// owning a condition the spec marks "always warned" (directory loops)
// should call WarnAlways instead.
func Warn(args ...interface{}) string {
	if Quiet {
		return ""
	}
	return log(warnStr, args)
}

// WarnAlways logs a warning regardless of Quiet. Used for conditions the
// spec requires to be reported even under --no-messages, such as
// directory-ancestry cycles (§4.6, §7).
func WarnAlways(args ...interface{}) string {
	return log(warnStr, args)
}

// Error logs an error. Never suppressed by Quiet (errors are reported
// unless --no-messages / -s is active, which callers enforce explicitly
// by not calling Error in the first place).
func Error(args ...interface{}) string {
	return log(errorStr, args)
}

// Debugf logs a debug message, only when Debug is enabled.
func Debugf(args ...interface{}) string {
	if !Debug {
		return ""
	}
	return log(debugStr, args)
}

// FatalExit logs a fatal message, flushes, and terminates the process
// with the given exit status. Used for the Fatal error class in §7.
func FatalExit(status int, args ...interface{}) {
	log(fatalStr, args)
	Flush()
	os.Exit(status)
}
