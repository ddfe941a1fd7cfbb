package domain

// Truncate cuts s to at most n Unicode scalar values. Cuts always land on a
// rune boundary, and s is returned unchanged when it already fits.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		// n bytes can never hold more than n runes.
		return s
	}

	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
