package render

import (
	"strings"

	"golang.org/x/image/font"
)

// Wrap greedily wraps text into lines no wider than maxWidth pixels as
// measured with face. Explicit newlines force line breaks and a
// whitespace-only paragraph yields one empty line, so intentional blank
// spacing survives. A single word wider than maxWidth is kept whole;
// wrapping never splits inside a word.
func Wrap(text string, face font.Face, maxWidth int) []string {
	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		current := words[0]
		for _, word := range words[1:] {
			candidate := current + " " + word
			if LineWidth(candidate, face) <= maxWidth {
				current = candidate
				continue
			}
			lines = append(lines, current)
			current = word
		}
		lines = append(lines, current)
	}
	return lines
}

// LineWidth measures the advance width of s in pixels.
func LineWidth(s string, face font.Face) int {
	return font.MeasureString(face, s).Ceil()
}

// LineHeight returns the face's nominal line height in pixels.
func LineHeight(face font.Face) int {
	return face.Metrics().Height.Ceil()
}

// BlockHeight returns the height of lines drawn with face and gap
// pixels of spacing between consecutive lines. Blocks of different
// roles (for example title vs. subtitle) are spaced by their own block
// gap on top of this, by the slide renderers.
func BlockHeight(lines []string, face font.Face, gap int) int {
	if len(lines) == 0 {
		return 0
	}
	return len(lines)*LineHeight(face) + (len(lines)-1)*gap
}
