package textextract

import (
	"strings"
	"unicode"
)

// DefaultMinQuality is the score below which a vector text layer is treated
// as unusable and the page falls back to OCR.
const DefaultMinQuality = 0.5

// minUsefulChars is the minimum non-space rune count for a page to be scored
// at all; anything shorter is assumed to be an image-only page.
const minUsefulChars = 20

// Quality scores extracted text in [0,1]. Embedded text layers are sometimes
// garbage (wrong encoding, vectorized glyphs), so the score checks that the
// text is mostly printable words rather than replacement characters and
// symbol soup.
func Quality(text string) float64 {
	var total, useful, replacement int
	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		switch {
		case r == unicode.ReplacementChar:
			replacement++
		case unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsPunct(r) || unicode.IsSymbol(r):
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				useful++
			}
		}
	}
	if total < minUsefulChars {
		return 0
	}

	score := float64(useful) / float64(total)
	if replacement > 0 {
		score *= 1 - float64(replacement)/float64(total)*2
		if score < 0 {
			score = 0
		}
	}

	// Require at least a handful of multi-character words.
	words := 0
	for _, w := range strings.Fields(text) {
		if len(w) >= 2 {
			words++
		}
	}
	if words < 3 {
		score *= 0.5
	}
	return score
}
