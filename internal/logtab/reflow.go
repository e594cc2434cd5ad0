package logtab

import (
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// Reflow wraps text for display so that no line is wider than width
// columns. Words longer than width are broken. A width <= 0 uses LineWidth.
func Reflow(text string, width int) []string {
	if width <= 0 {
		width = LineWidth
	}
	var (
		lines []string
		cur   strings.Builder
		used  int
	)
	flush := func() {
		if cur.Len() > 0 {
			lines = append(lines, cur.String())
			cur.Reset()
			used = 0
		}
	}
	for _, word := range strings.Fields(text) {
		w := runewidth.StringWidth(word)
		if used > 0 && used+1+w <= width {
			cur.WriteByte(' ')
			cur.WriteString(word)
			used += 1 + w
			continue
		}
		flush()
		for w > width {
			head := runewidth.Truncate(word, width, "")
			if head == "" {
				// a single rune wider than the line
				_, size := utf8.DecodeRuneInString(word)
				head = word[:size]
			}
			lines = append(lines, head)
			word = word[len(head):]
			w = runewidth.StringWidth(word)
		}
		cur.WriteString(word)
		used = w
	}
	flush()
	return lines
}
