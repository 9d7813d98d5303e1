package render

import (
	"image/color"
	"testing"
)

func TestAllTemplatesAreComplete(t *testing.T) {
	zero := color.NRGBA{}
	for _, name := range TemplateNames() {
		tpl, err := ResolveTemplate(name)
		if err != nil {
			t.Fatalf("ResolveTemplate(%q): %v", name, err)
		}
		roles := map[string]color.NRGBA{
			"Background":        tpl.Background,
			"Heading":           tpl.Heading,
			"Body":              tpl.Body,
			"Muted":             tpl.Muted,
			"Accent":            tpl.Accent,
			"CoverBackground":   tpl.CoverBackground,
			"CoverText":         tpl.CoverText,
			"CoverSubtext":      tpl.CoverSubtext,
			"ClosingBackground": tpl.ClosingBackground,
			"ClosingText":       tpl.ClosingText,
			"Overlay":           tpl.Overlay,
			"CardBackground":    tpl.CardBackground,
			"CardBorder":        tpl.CardBorder,
		}
		for role, c := range roles {
			if c == zero {
				t.Errorf("template %q has empty %s", name, role)
			}
		}
		if tpl.OverlayAlpha <= 0 || tpl.OverlayAlpha > 1 {
			t.Errorf("template %q overlay alpha %f out of range", name, tpl.OverlayAlpha)
		}
		if tpl.Name != name {
			t.Errorf("template %q reports name %q", name, tpl.Name)
		}
	}
}

func TestTemplateNamesSortedAndClosed(t *testing.T) {
	names := TemplateNames()
	if len(names) != 4 {
		t.Fatalf("expected 4 templates, got %d", len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("names not sorted: %q before %q", names[i-1], names[i])
		}
	}
}
