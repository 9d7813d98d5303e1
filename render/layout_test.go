package render

import (
	"strings"
	"testing"

	"golang.org/x/image/font"
)

// testFace returns a deterministic face backed by the embedded fonts,
// bypassing whatever fonts the host happens to have installed.
func testFace(t *testing.T, role FontRole, size float64) font.Face {
	t.Helper()
	return NewFontCache(map[FontRole][]string{}).Face(role, size)
}

func TestWrapLinesFitWidth(t *testing.T) {
	face := testFace(t, FontRegular, 30)
	text := "the quick brown fox jumps over the lazy dog and keeps on running far away"
	maxW := 300

	lines := Wrap(text, face, maxW)
	if len(lines) < 2 {
		t.Fatalf("expected text to wrap into multiple lines, got %d", len(lines))
	}
	for _, ln := range lines {
		if strings.Contains(ln, " ") && LineWidth(ln, face) > maxW {
			t.Errorf("line %q measures %d, wider than %d", ln, LineWidth(ln, face), maxW)
		}
	}
}

func TestWrapKeepsOverwideWordWhole(t *testing.T) {
	face := testFace(t, FontRegular, 30)
	word := "supercalifragilisticexpialidocious"

	lines := Wrap(word, face, 50)
	if len(lines) != 1 {
		t.Fatalf("expected over-wide word on a single line, got %v", lines)
	}
	if lines[0] != word {
		t.Errorf("expected word kept whole, got %q", lines[0])
	}
}

func TestWrapIsIdempotent(t *testing.T) {
	face := testFace(t, FontRegular, 30)
	text := "one two three four five six seven eight nine ten eleven twelve"
	maxW := 250

	first := Wrap(text, face, maxW)
	second := Wrap(strings.Join(first, "\n"), face, maxW)
	if len(first) != len(second) {
		t.Fatalf("rewrap changed line count: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("line %d changed on rewrap: %q vs %q", i, first[i], second[i])
		}
	}
}

func TestWrapExplicitNewlines(t *testing.T) {
	face := testFace(t, FontRegular, 30)

	lines := Wrap("first\nsecond", face, 10000)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %v", lines)
	}
	if lines[0] != "first" || lines[1] != "second" {
		t.Errorf("unexpected lines %v", lines)
	}
}

func TestWrapBlankParagraphYieldsEmptyLine(t *testing.T) {
	face := testFace(t, FontRegular, 30)

	lines := Wrap("above\n   \nbelow", face, 10000)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %v", lines)
	}
	if lines[1] != "" {
		t.Errorf("expected middle line empty, got %q", lines[1])
	}
}

func TestBlockHeight(t *testing.T) {
	face := testFace(t, FontRegular, 30)
	lh := LineHeight(face)

	if got := BlockHeight(nil, face, 10); got != 0 {
		t.Errorf("empty block height = %d, want 0", got)
	}
	if got := BlockHeight([]string{"a"}, face, 10); got != lh {
		t.Errorf("single line height = %d, want %d", got, lh)
	}
	if got := BlockHeight([]string{"a", "b", "c"}, face, 10); got != 3*lh+20 {
		t.Errorf("three line height = %d, want %d", got, 3*lh+20)
	}
}
