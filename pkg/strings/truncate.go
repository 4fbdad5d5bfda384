package strings

import (
	"strings"
)

// DefaultDisplayMaxLen is the default maximum length for display strings in
// formatted output. This constant is shared across packages to ensure
// consistent truncation behavior.
const DefaultDisplayMaxLen = 50

// MinTruncateLen is the minimum maxLen value for Truncate.
// Values smaller than this would not leave room for meaningful content plus "...".
const MinTruncateLen = 4

// Truncate shortens a string to maxLen characters and ensures single-line
// output. Newlines and runs of whitespace collapse to single spaces, and
// "..." marks a truncated result.
//
// The function operates on runes rather than bytes so multi-byte characters
// are never split.
//
// If maxLen is less than MinTruncateLen (4), it is clamped to MinTruncateLen
// to leave room for at least one character plus "...".
//
// Args:
//   - s: The string to truncate
//   - maxLen: Maximum length of the result (including "..." if truncated)
//
// Returns:
//   - Truncated and sanitized string
func Truncate(s string, maxLen int) string {
	// Clamp maxLen to minimum value to prevent panic from negative slice index
	if maxLen < MinTruncateLen {
		maxLen = MinTruncateLen
	}

	// strings.Fields splits on any whitespace (handles \n, \r, \t, multiple
	// spaces); rejoining with single spaces flattens pasted prompt text.
	s = strings.Join(strings.Fields(s), " ")

	runes := []rune(s)
	if len(runes) > maxLen {
		return string(runes[:maxLen-3]) + "..."
	}
	return s
}
