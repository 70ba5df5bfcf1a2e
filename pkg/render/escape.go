package render

import "strings"

// escaper replaces the five markup-significant characters in a single pass,
// so an ampersand produced by one replacement is never escaped again.
var escaper = strings.NewReplacer( //nolint: gochecknoglobals
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// Escape returns s with &, <, >, " and ' replaced by their HTML entities.
func Escape(s string) string {
	return escaper.Replace(s)
}
