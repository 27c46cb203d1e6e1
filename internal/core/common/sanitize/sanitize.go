package sanitize

import (
	"html"
	"strings"
)

// Text applies the boundary escaping policy for free-text fields: trim
// surrounding whitespace and HTML-escape the rest. Every user-supplied string
// that ends up stored or rendered into the audit trail (schedule names, shift
// labels, search queries) goes through here exactly once, at the handler
// boundary. Escaped-on-write means readers can render values verbatim.
func Text(s string) string {
	return html.EscapeString(strings.TrimSpace(s))
}

// Slice applies Text to every element, preserving order.
func Slice(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = Text(v)
	}
	return out
}
