package util

import "strconv"

// ParseIntDefault parses string to int or returns default if empty/invalid.
func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

// RuneLen counts characters, not bytes. Post length limits are character
// limits on the social side.
func RuneLen(s string) int { return len([]rune(s)) }

// TruncateRunes cuts s to at most n characters, appending the ellipsis when
// a cut happened. n must leave room for the 3-character ellipsis.
func TruncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
