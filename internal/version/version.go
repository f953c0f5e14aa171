// Package version holds the fixed version identity xgrep reports for
// --version/-V. xgrep has no distributed client/server protocol to keep
// compatible, so this drops DTail's protocol-compatibility concept
// entirely and keeps only the plain name/version pair.
package version

const (
	// Name of the program.
	Name string = "xgrep"
	// Version of the core engine.
	Version string = "1.0"
)

// String returns the plain-text version line reported by --version/-V.
func String() string {
	return Name + " (core engine) " + Version
}
