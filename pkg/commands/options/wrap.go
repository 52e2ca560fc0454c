package options

import (
	"strings"
	"unicode/utf8"
)

func Wrap80(text string) string {
	return Wrap(text, 80)
}

// Wrap breaks text on spaces so no line exceeds width runes. Words longer
// than width are kept whole on their own line.
func Wrap(text string, width int) string {
	words := strings.Fields(strings.TrimSpace(text))
	if len(words) == 0 {
		return text
	}
	var b strings.Builder
	b.WriteString(words[0])
	left := width - utf8.RuneCountInString(words[0])
	for _, word := range words[1:] {
		n := utf8.RuneCountInString(word)
		if n+1 > left {
			b.WriteString("\n")
			b.WriteString(word)
			left = width - n
			continue
		}
		b.WriteString(" ")
		b.WriteString(word)
		left -= n + 1
	}
	return b.String()
}
