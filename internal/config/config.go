// Package config builds the immutable Config record that every other
// package in xgrep treats as read-only (§3). It layers GREP_OPTIONS
// environment defaults under explicit CLI flags using Viper, and wires
// the flags themselves with Cobra/pflag, generalizing the approach
// DTail's internal/config package uses for its own flag/env layering
// (see internal/config/config.go in the teacher tree) and the
// cobra+viper BindPFlag pattern from jmurray2011-wail's cmd/wail/root.go.
package config

// MatcherName identifies which Matcher engine a Config selects.
type MatcherName string

const (
	MatcherBasic    MatcherName = "basic"
	MatcherExtended MatcherName = "extended"
	MatcherFixed    MatcherName = "fixed"
	MatcherPerl     MatcherName = "perl"
	MatcherDefault  MatcherName = "default"
)

// OutMode selects what the Formatter produces per matched file.
type OutMode string

const (
	OutNormal             OutMode = "normal"
	OutCountOnly          OutMode = "count_only"
	OutListMatchingFiles  OutMode = "list_matching_files"
	OutListNonMatchFiles  OutMode = "list_nonmatching_files"
	OutQuiet              OutMode = "quiet"
)

// BinaryPolicy controls how a file classified as binary is handled.
type BinaryPolicy string

const (
	BinaryReport        BinaryPolicy = "binary"
	BinaryText          BinaryPolicy = "text"
	BinaryWithoutMatch  BinaryPolicy = "without_match"
)

// DirPolicy controls how a directory argument is handled.
type DirPolicy string

const (
	DirRead    DirPolicy = "read"
	DirSkip    DirPolicy = "skip"
	DirRecurse DirPolicy = "recurse"
)

// Config is the immutable record every downstream package consumes
// (§3: "Config (immutable after parsing)"). Setup is the only
// constructor; once it returns, nothing in this package mutates the
// result.
type Config struct {
	MatcherName MatcherName
	Patterns    []byte

	CaseInsensitive bool
	WordMatch       bool
	LineMatch       bool
	InvertMatch     bool

	EOLByte byte

	MaxCount int // -1 means unlimited; 0 means exit immediately without scanning

	BeforeContext int
	AfterContext  int

	OutMode OutMode

	ShowByteOffset     bool
	ShowLineNumber     bool
	ForceFilenames     bool
	SuppressFilenames  bool
	NullAfterFilename  bool

	BinaryPolicy BinaryPolicy
	DirPolicy    DirPolicy

	UseMmap        bool
	SuppressErrors bool
	PreserveCR     bool
	UnixByteOffset bool

	// DebugLog enables internal debug instrumentation on stderr
	// (--debug-log, an undocumented diagnostics switch outside §6's
	// grammar).
	DebugLog bool

	Files []string
}
