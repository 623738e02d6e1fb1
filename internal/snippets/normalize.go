package snippets

import "strings"

// DefaultTabWidth is the number of spaces a tab expands to.
const DefaultTabWidth = 4

// Normalize prepares snippet code for typing. Line endings become LF, tabs
// expand to tabWidth spaces, trailing whitespace is dropped from every line
// and leading or trailing blank lines are removed.
func Normalize(code string, tabWidth int) string {
	if tabWidth <= 0 {
		tabWidth = DefaultTabWidth
	}
	code = strings.ReplaceAll(code, "\r\n", "\n")
	code = strings.ReplaceAll(code, "\r", "\n")
	code = strings.ReplaceAll(code, "\t", strings.Repeat(" ", tabWidth))

	lines := strings.Split(code, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}
