package render

import (
	"path/filepath"
	"testing"
)

func TestFaceNeverFails(t *testing.T) {
	fc := NewFontCache(map[FontRole][]string{
		FontBold: {filepath.Join("testdata", "missing.otf"), "/no/such/font.ttf"},
	})

	for _, role := range []FontRole{FontBold, FontSemibold, FontRegular, FontMedium, FontSerif} {
		if face := fc.Face(role, 32); face == nil {
			t.Errorf("Face(%s, 32) returned nil", role)
		}
	}
}

func TestFaceIsCachedByRoleAndSize(t *testing.T) {
	fc := NewFontCache(map[FontRole][]string{})

	a := fc.Face(FontBold, 44)
	b := fc.Face(FontBold, 44)
	if a != b {
		t.Error("same (role, size) should return the cached face")
	}
	c := fc.Face(FontBold, 45)
	if a == c {
		t.Error("different sizes must not share a cache entry")
	}
	d := fc.Face(FontRegular, 44)
	if a == d {
		t.Error("different roles must not share a cache entry")
	}
}

func TestUnknownRoleFallsBackToRegularPaths(t *testing.T) {
	fc := NewFontCache(map[FontRole][]string{})
	if face := fc.Face(FontRole("display"), 20); face == nil {
		t.Error("unknown role should still resolve a face")
	}
}
