// Package constants collects numeric defaults shared across xgrep's
// scanning core so that buffer and retry policy live in one place instead
// of being duplicated at each call site.
package constants

// Buffer size and scanning constants.
const (
	// MinSaveRegionSize is the minimum save region reserved at the front
	// of a PageBuffer for retained context, before page alignment.
	MinSaveRegionSize = 8192

	// PreferredSaveFactor is the fixed ratio between a PageBuffer's total
	// size and its save region size (total_size = save_region_size * 5).
	PreferredSaveFactor = 5

	// DefaultMaxLineLength is how long an unterminated line may grow
	// before the Scanner logs a one-time warning; the line is not split
	// (mirrors the teacher's "long line" warning behavior).
	DefaultMaxLineLength = 1024 * 1024
)
