package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const (
	wrongSpaceGlyph = '·'
	newlineGlyph    = '↵'
)

type styledRune struct {
	s       string
	width   int
	isSpace bool
	newline bool
}

// buildStyledRunes colors the target against the input. Input past the end
// of the target is appended in the error color.
func buildStyledRunes(targetRunes, inputRunes []rune, cursorIndex int) []styledRune {
	words := findWords(targetRunes)
	currentWord := wordForCursor(words, cursorIndex)

	out := make([]styledRune, 0, len(targetRunes)+overflowLen(targetRunes, inputRunes))
	for i, target := range targetRunes {
		style := pendingStyle
		glyph := visibleGlyph(target)
		if i < len(inputRunes) {
			switch {
			case inputRunes[i] == target:
				style = correctStyle
			case target == ' ':
				glyph = string(wrongSpaceGlyph)
				style = incorrectStyle
			case target == '\n':
				glyph = string(newlineGlyph)
				style = incorrectStyle
			default:
				style = incorrectStyle
			}
		} else if currentWord != nil && i >= currentWord.start && i < currentWord.end {
			style = currentWordStyle
		}
		if i == cursorIndex {
			if target == '\n' {
				glyph = string(newlineGlyph)
			}
			style = cursorStyle
		}
		out = append(out, newStyledRune(glyph, style.Render(glyph), target))
	}
	for _, r := range inputRunes[min(len(inputRunes), len(targetRunes)):] {
		glyph := string(r)
		switch r {
		case ' ':
			glyph = string(wrongSpaceGlyph)
		case '\n':
			glyph = string(newlineGlyph)
		}
		out = append(out, newStyledRune(glyph, overflowStyle.Render(glyph), 0))
	}
	return out
}

func overflowLen(targetRunes, inputRunes []rune) int {
	return max(len(inputRunes)-len(targetRunes), 0)
}

func visibleGlyph(r rune) string {
	if r == '\n' {
		return ""
	}
	return string(r)
}

func newStyledRune(glyph, rendered string, target rune) styledRune {
	if glyph == "" {
		rendered = ""
	}
	return styledRune{
		s:       rendered,
		width:   runewidth.StringWidth(glyph),
		isSpace: target == ' ',
		newline: target == '\n',
	}
}

type wordRange struct {
	start int
	end   int
}

func isSeparator(r rune) bool {
	return r == ' ' || r == '\n'
}

func findWords(targetRunes []rune) []wordRange {
	words := []wordRange{}
	start := -1
	for i, r := range targetRunes {
		if isSeparator(r) {
			if start != -1 {
				words = append(words, wordRange{start: start, end: i})
				start = -1
			}
			continue
		}
		if start == -1 {
			start = i
		}
	}
	if start != -1 {
		words = append(words, wordRange{start: start, end: len(targetRunes)})
	}
	return words
}

func wordForCursor(words []wordRange, cursorIndex int) *wordRange {
	if len(words) == 0 || cursorIndex < 0 {
		return nil
	}
	for i, w := range words {
		if cursorIndex < w.end {
			return &words[i]
		}
	}
	return nil
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
		if item.newline {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// wrapStyledRunes keeps the target's line breaks and soft wraps lines wider
// than width at the last space.
func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var out strings.Builder
	line := make([]styledRune, 0, width)
	lineWidth := 0
	lastSpaceIdx := -1

	flush := func(items []styledRune) {
		for _, item := range items {
			out.WriteString(item.s)
		}
		out.WriteByte('\n')
	}

	for i := 0; i < len(runes); {
		item := runes[i]
		if item.newline {
			flush(append(line, item))
			line = line[:0]
			lineWidth = 0
			lastSpaceIdx = -1
			i++
			continue
		}
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpaceIdx >= 0 {
				flush(line[:lastSpaceIdx+1])
				line = append([]styledRune{}, line[lastSpaceIdx+1:]...)
				lineWidth = lineWidthOf(line)
				lastSpaceIdx = lastSpaceIndex(line)
			} else {
				flush(line)
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
			}
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	for _, item := range line {
		out.WriteString(item.s)
	}
	return out.String()
}

func lineWidthOf(line []styledRune) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []styledRune) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}
