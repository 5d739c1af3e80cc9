// Package stringutil holds small string helpers shared across the service.
package stringutil

// TruncateString caps a string at maxLen bytes, returning the input unchanged
// when it already fits.
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}

// TruncateStringWithEllipsis caps a string at maxLen bytes and marks the cut
// with a "..." suffix. Budgets too small to fit the suffix fall back to a
// plain truncation.
func TruncateStringWithEllipsis(s string, maxLen int) string {
	if maxLen < 4 {
		return TruncateString(s, maxLen)
	}
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
