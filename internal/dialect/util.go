package dialect

import (
	"strings"
)

// quoteWith wraps name in open/end, doubling any embedded end character.
func quoteWith(name, open, end string) string {
	return open + strings.ReplaceAll(name, end, end+end) + end
}

// JoinQuoted quotes every name with quote and joins them with sep.
func JoinQuoted(names []string, quote func(string) string, sep string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = quote(n)
	}
	return strings.Join(quoted, sep)
}

// stringLiteral renders s as a single-quoted SQL string literal.
func stringLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
