package render

import (
	"html/template"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	titleCaser   = cases.Title(language.English)
	countPrinter = message.NewPrinter(language.English)
)

// templateFuncs are shared by every control template.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"humanize":    Humanize,
		"formatCount": FormatCount,
	}
}

// Humanize turns a raw field or option name into a display label
// ("opening_hours" -> "Opening Hours").
func Humanize(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '_' || r == '-' {
			out = append(out, ' ')
		} else {
			out = append(out, r)
		}
	}
	return titleCaser.String(string(out))
}

// FormatCount renders a result count with locale digit grouping
// (1234567 -> "1,234,567").
func FormatCount(n int) string {
	return countPrinter.Sprintf("%d", n)
}
