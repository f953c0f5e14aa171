package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	xerrors "github.com/mimecast/xgrep/internal/errors"
)

// ExitRequest signals that Setup resolved to a non-scanning exit path
// (--help, --version, or a usage error) rather than a Config.
type ExitRequest struct {
	Code int
}

func (e *ExitRequest) Error() string {
	return fmt.Sprintf("exit requested: %d", e.Code)
}

// Setup parses argv (excluding the program name, as os.Args[1:] would
// supply it) plus GREP_OPTIONS into an immutable Config. progName is
// the invocation name used for the egrep/fgrep default-engine rule
// (§4.7: "invocation name substring-ending with egrep or fgrep ...
// selects -E or -F by default").
func Setup(progName string, argv []string) (*Config, error) {
	argv = withEnvDefaults(argv)
	argv, err := foldDigitFlags(argv)
	if err != nil {
		return nil, err
	}

	v := viper.New()
	flags := pflag.NewFlagSet(progName, pflag.ContinueOnError)
	registerFlags(flags)

	cmd := &cobra.Command{
		Use:           progName + " [OPTION]... PATTERN [FILE]...",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       versionString,
	}
	cmd.Flags().AddFlagSet(flags)
	cmd.Flags().SortFlags = false

	var cfg *Config
	var parseErr error
	cmd.RunE = func(c *cobra.Command, args []string) error {
		bindAll(flags, v)
		cfg, parseErr = build(progName, flags, v, args)
		return parseErr
	}

	cmd.SetArgs(argv)
	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)

	if err := cmd.Execute(); err != nil {
		if parseErr != nil {
			return nil, parseErr
		}
		return nil, &ExitRequest{Code: 2}
	}
	if cfg == nil {
		// --help or --version short-circuited RunE.
		return nil, &ExitRequest{Code: 0}
	}
	return cfg, nil
}

func bindAll(flags *pflag.FlagSet, v *viper.Viper) {
	flags.VisitAll(func(f *pflag.Flag) {
		v.BindPFlag(f.Name, f)
	})
}

// build turns parsed flags plus positional args into a Config,
// applying the defaulting and validation rules of §3 and §4.7.
func build(progName string, flags *pflag.FlagSet, v *viper.Viper, args []string) (*Config, error) {
	matcherName, err := resolveMatcherName(progName, v)
	if err != nil {
		return nil, err
	}

	patterns, remaining, err := resolvePatterns(v, args)
	if err != nil {
		return nil, err
	}

	caseInsensitive := v.GetBool("ignore-case") || v.GetBool("ignore-case-alt")
	wordMatch := v.GetBool("word-regexp")
	lineMatch := v.GetBool("line-regexp")
	if len(patterns) == 0 {
		// §3: an empty effective pattern flips invert_match and drops
		// the word/line constraints.
		wordMatch = false
		lineMatch = false
	}

	before, after, err := resolveContext(flags, v)
	if err != nil {
		return nil, err
	}

	outMode, err := resolveOutMode(v)
	if err != nil {
		return nil, err
	}

	binaryPolicy, err := resolveBinaryPolicy(v)
	if err != nil {
		return nil, err
	}

	dirPolicy, err := resolveDirPolicy(v)
	if err != nil {
		return nil, err
	}

	eol := byte('\n')
	if v.GetBool("null-data") {
		eol = 0
	}

	invert := v.GetBool("invert-match")
	if len(patterns) == 0 {
		invert = !invert
	}

	cfg := &Config{
		MatcherName:       matcherName,
		Patterns:          patterns,
		CaseInsensitive:   caseInsensitive,
		WordMatch:         wordMatch,
		LineMatch:         lineMatch,
		InvertMatch:       invert,
		EOLByte:           eol,
		MaxCount:          v.GetInt("max-count"),
		BeforeContext:     before,
		AfterContext:      after,
		OutMode:           outMode,
		ShowByteOffset:    v.GetBool("byte-offset"),
		ShowLineNumber:    v.GetBool("line-number"),
		ForceFilenames:    v.GetBool("with-filename"),
		SuppressFilenames: v.GetBool("no-filename"),
		NullAfterFilename: v.GetBool("null"),
		BinaryPolicy:      binaryPolicy,
		DirPolicy:         dirPolicy,
		UseMmap:           v.GetBool("mmap"),
		SuppressErrors:    v.GetBool("no-messages"),
		PreserveCR:        v.GetBool("binary-preserve-cr"),
		UnixByteOffset:    v.GetBool("unix-byte-offsets"),
		DebugLog:          v.GetBool("debug-log"),
		Files:             remaining,
	}

	if v.GetBool("recursive") && cfg.DirPolicy == DirRead {
		cfg.DirPolicy = DirRecurse
	}
	if v.GetBool("quiet") {
		cfg.OutMode = OutQuiet
	}

	return cfg, nil
}

func resolveMatcherName(progName string, v *viper.Viper) (MatcherName, error) {
	selected := []string{}
	flagToName := []struct {
		flag string
		name MatcherName
	}{
		{"extended-regexp", MatcherExtended},
		{"fixed-strings", MatcherFixed},
		{"basic-regexp", MatcherBasic},
		{"perl-regexp", MatcherPerl},
	}
	var name MatcherName
	for _, fm := range flagToName {
		if v.GetBool(fm.flag) {
			selected = append(selected, string(fm.name))
			name = fm.name
		}
	}
	if x := v.GetString("matcher"); x != "" {
		selected = append(selected, x)
		name = MatcherName(x)
	}
	for i := 1; i < len(selected); i++ {
		if selected[i] != selected[0] {
			return "", xerrors.Wrapf(xerrors.ErrConflictingMatcher, "%s", strings.Join(selected, ", "))
		}
	}
	if len(selected) > 0 {
		return name, nil
	}

	// §4.7: invocation name ending in egrep/fgrep picks a default engine.
	base := strings.ToLower(strings.TrimSuffix(filepath.Base(progName), ".exe"))
	switch {
	case strings.HasSuffix(base, "egrep"):
		return MatcherExtended, nil
	case strings.HasSuffix(base, "fgrep"):
		return MatcherFixed, nil
	default:
		return MatcherDefault, nil
	}
}

func resolvePatterns(v *viper.Viper, args []string) ([]byte, []string, error) {
	var parts [][]byte

	for _, e := range v.GetStringSlice("regexp") {
		parts = append(parts, []byte(e))
	}
	for _, f := range v.GetStringSlice("file") {
		b, err := readPatternFile(f)
		if err != nil {
			return nil, nil, err
		}
		parts = append(parts, b)
	}

	if len(parts) == 0 {
		if len(args) == 0 {
			return nil, nil, xerrors.ErrMissingPattern
		}
		return []byte(args[0]), args[1:], nil
	}
	return joinPatternParts(parts), args, nil
}

func joinPatternParts(parts [][]byte) []byte {
	out := parts[0]
	for _, p := range parts[1:] {
		out = append(out, '\n')
		out = append(out, p...)
	}
	return out
}

func readPatternFile(path string) ([]byte, error) {
	if path == "-" {
		return readAllStdin()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, xerrors.Wrap(err, "pattern file")
	}
	return trimFinalNewline(b), nil
}

func trimFinalNewline(b []byte) []byte {
	if len(b) > 0 && b[len(b)-1] == '\n' {
		return b[:len(b)-1]
	}
	return b
}

// resolveContext applies §3's "-C N sets both unless -A/-B override"
// rule. Changed (not viper.IsSet, which would report true for any
// bound flag's zero-value default) is what distinguishes "the user
// passed -A/-B" from "left at the default".
func resolveContext(flags *pflag.FlagSet, v *viper.Viper) (before, after int, err error) {
	c := v.GetInt("context")
	before = c
	after = c
	if flags.Lookup("before-context").Changed {
		before = v.GetInt("before-context")
	}
	if flags.Lookup("after-context").Changed {
		after = v.GetInt("after-context")
	}
	if before < 0 || after < 0 {
		return 0, 0, xerrors.Wrapf(xerrors.ErrInvalidArgument, "invalid context length argument")
	}
	return before, after, nil
}

func resolveOutMode(v *viper.Viper) (OutMode, error) {
	modes := map[string]OutMode{
		"count":               OutCountOnly,
		"files-with-matches":  OutListMatchingFiles,
		"files-without-match": OutListNonMatchFiles,
	}
	var selected OutMode
	var count int
	for flag, mode := range modes {
		if v.GetBool(flag) {
			selected = mode
			count++
		}
	}
	if count > 1 {
		return "", xerrors.Wrapf(xerrors.ErrInvalidArgument, "conflicting output modes")
	}
	if count == 1 {
		return selected, nil
	}
	return OutNormal, nil
}

func resolveBinaryPolicy(v *viper.Viper) (BinaryPolicy, error) {
	if v.GetBool("text") {
		return BinaryText, nil
	}
	if v.GetBool("binary-without-match") {
		return BinaryWithoutMatch, nil
	}
	p := v.GetString("binary-files")
	switch BinaryPolicy(p) {
	case BinaryReport, BinaryText, BinaryWithoutMatch:
		return BinaryPolicy(p), nil
	case "without-match":
		return BinaryWithoutMatch, nil
	case "":
		return BinaryReport, nil
	default:
		return "", xerrors.Wrapf(xerrors.ErrInvalidArgument, "invalid binary-files argument %q", p)
	}
}

func resolveDirPolicy(v *viper.Viper) (DirPolicy, error) {
	p := v.GetString("directories")
	switch DirPolicy(p) {
	case DirRead, DirSkip, DirRecurse:
		return DirPolicy(p), nil
	case "":
		return DirRead, nil
	default:
		return "", xerrors.Wrapf(xerrors.ErrInvalidArgument, "invalid directories argument %q", p)
	}
}

func readAllStdin() ([]byte, error) {
	b := make([]byte, 0, 4096)
	buf := make([]byte, 4096)
	for {
		n, err := os.Stdin.Read(buf)
		if n > 0 {
			b = append(b, buf[:n]...)
		}
		if err != nil {
			break
		}
	}
	return trimFinalNewline(b), nil
}
