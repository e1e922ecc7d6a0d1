package textextract

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Normalize canonicalizes extracted text: NFKC unicode normalization (so
// ligatures and fullwidth digits compare equal to their ASCII forms),
// CRLF/CR to LF, and trailing whitespace stripped per line.
func Normalize(text string) string {
	text = norm.NFKC.String(text)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
