package caption

import "strings"

// pad inserts n spaces between every pair of characters. With outer set,
// n spaces also lead the first character and trail the last one.
func pad(runes []rune, n int, outer bool) string {
	if n <= 0 || len(runes) == 0 {
		return string(runes)
	}

	gap := strings.Repeat(" ", n)
	var b strings.Builder
	b.Grow(len(runes)*4 + (len(runes)+1)*n)
	if outer {
		b.WriteString(gap)
	}
	for i, r := range runes {
		if i > 0 {
			b.WriteString(gap)
		}
		b.WriteRune(r)
	}
	if outer {
		b.WriteString(gap)
	}
	return b.String()
}

// Pad applies the caption spacing policy: n spaces before every character
// and after the last one. Blank captions are returned unchanged.
func Pad(s string, n int) string {
	if isBlank(s) {
		return s
	}
	return pad([]rune(s), n, true)
}
