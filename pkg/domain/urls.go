package domain

import (
	"strings"
	"unicode"
)

// URLList is an ordered list of non-empty, trimmed URL strings as typed by a
// user. Duplicates are kept.
type URLList []string

// ParseURLList splits raw multi-line input on newlines, trims every line and
// drops the empty ones. The returned list keeps input order and is empty (not
// nil-checked by callers) when the input holds only blank lines.
func ParseURLList(raw string) URLList {
	lines := strings.Split(raw, "\n")
	urls := make(URLList, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimFunc(line, isTrimmable)
		if line == "" {
			continue
		}
		urls = append(urls, line)
	}

	return urls
}

// isTrimmable matches the characters stripped from both ends of a line:
// Unicode white space plus the byte order mark.
func isTrimmable(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}
