package render

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Ellipsis terminates truncated lines. Three cells are reserved for it.
const Ellipsis = "..."

// styleReset is the only raw escape sequence known outside lipgloss. It is
// appended after a cut so no style bleeds into the next line.
const styleReset = "\x1b[0m"

const esc = '\x1b'

// TruncateVisible cuts text to at most maxWidth visible cells. Escape
// sequences count as zero width and are copied through unchanged before the
// cut point, so color state transitions are preserved. When a cut happens
// the output ends with the ellipsis and an explicit style reset. Text that
// already fits is returned unchanged, escapes included.
func TruncateVisible(text string, maxWidth int) string {
	if VisibleWidth(text) <= maxWidth {
		return text
	}

	budget := maxWidth - len(Ellipsis)
	if budget < 0 {
		budget = 0
	}

	var b strings.Builder
	width := 0
	runes := []rune(text)
	for i := 0; i < len(runes); {
		if runes[i] == esc {
			j := escapeEnd(runes, i)
			b.WriteString(string(runes[i:j]))
			i = j
			continue
		}
		w := runewidth.RuneWidth(runes[i])
		if width+w > budget {
			break
		}
		b.WriteRune(runes[i])
		width += w
		i++
	}

	b.WriteString(Ellipsis)
	b.WriteString(styleReset)
	return b.String()
}

// VisibleWidth returns the number of terminal cells text occupies, ignoring
// escape sequences.
func VisibleWidth(text string) int {
	width := 0
	runes := []rune(text)
	for i := 0; i < len(runes); {
		if runes[i] == esc {
			i = escapeEnd(runes, i)
			continue
		}
		width += runewidth.RuneWidth(runes[i])
		i++
	}
	return width
}

// StripStyles removes all escape sequences, leaving only visible text.
func StripStyles(text string) string {
	var b strings.Builder
	runes := []rune(text)
	for i := 0; i < len(runes); {
		if runes[i] == esc {
			i = escapeEnd(runes, i)
			continue
		}
		b.WriteRune(runes[i])
		i++
	}
	return b.String()
}

// escapeEnd returns the index one past the escape sequence starting at i.
// CSI sequences ("\x1b[" ... final byte 0x40-0x7e) are the common case;
// other two-byte escapes are skipped as a pair.
func escapeEnd(runes []rune, i int) int {
	j := i + 1
	if j >= len(runes) {
		return j
	}
	if runes[j] != '[' {
		return j + 1
	}
	j++
	for j < len(runes) {
		r := runes[j]
		j++
		if r >= 0x40 && r <= 0x7e {
			break
		}
	}
	return j
}
