package lead

import "strings"

// htmlEscaper substitutes the five markup-significant characters directly.
// A single Replacer pass guarantees already-produced entities are not
// re-escaped within the same call.
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// SanitizeString strips non-printable control bytes (tab, newline and
// carriage return survive), trims surrounding whitespace and HTML-escapes
// the result. The returned text is safe to interpolate into HTML without
// further escaping. Sanitization is applied exactly once, at validation
// time; downstream consumers must not escape again.
func SanitizeString(input string) string {
	if input == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if isControl(r) {
			continue
		}
		b.WriteRune(r)
	}

	return htmlEscaper.Replace(strings.TrimSpace(b.String()))
}

func isControl(r rune) bool {
	switch r {
	case '\t', '\n', '\r':
		return false
	}
	return r < 0x20 || r == 0x7f
}
