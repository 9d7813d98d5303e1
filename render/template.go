// Package render turns per-slide text fields and optional background
// photographs into fixed-size card images for a social-media carousel.
// It is a pure compositor: no network access, no file I/O beyond font
// loading, deterministic output for identical input.
package render

import (
	"fmt"
	"image/color"
	"sort"
	"strings"
)

// Template is a named bundle of color roles defining one visual skin.
// Every recognized template carries a complete set of roles; templates
// are validated at package init, so a Template obtained from
// ResolveTemplate is always usable as-is.
type Template struct {
	Name string

	// Page and text roles.
	Background color.NRGBA
	Heading    color.NRGBA
	Body       color.NRGBA
	Muted      color.NRGBA
	Accent     color.NRGBA

	// Cover and closing slide roles.
	CoverBackground   color.NRGBA
	CoverText         color.NRGBA
	CoverSubtext      color.NRGBA
	ClosingBackground color.NRGBA
	ClosingText       color.NRGBA

	// Photo overlay: composited over background photography to keep
	// text legible. OverlayAlpha is the base transparency in [0,1].
	Overlay      color.NRGBA
	OverlayAlpha float64

	// Item cards on content slides.
	CardBackground color.NRGBA
	CardBorder     color.NRGBA
}

// ConfigurationError reports a template name outside the closed set of
// recognized templates. It is the only error that aborts a render batch.
type ConfigurationError struct {
	Name  string
	Valid []string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("unknown template %q (valid templates: %s)",
		e.Name, strings.Join(e.Valid, ", "))
}

// templates is the closed set of recognized skins. The color values for
// the four built-in templates follow the brand palettes the card-news
// deck was designed with.
var templates = map[string]Template{
	"깔끔한 화이트": {
		Name:              "깔끔한 화이트",
		Background:        mustHex("#FFFFFF"),
		Heading:           mustHex("#1A1A1A"),
		Body:              mustHex("#333333"),
		Muted:             mustHex("#999999"),
		Accent:            mustHex("#4A90D9"),
		CoverBackground:   mustHex("#4A90D9"),
		CoverText:         mustHex("#FFFFFF"),
		CoverSubtext:      mustHex("#D0E4FF"),
		ClosingBackground: mustHex("#4A90D9"),
		ClosingText:       mustHex("#FFFFFF"),
		Overlay:           mustHex("#10233A"),
		OverlayAlpha:      0.55,
		CardBackground:    mustHex("#F4F8FC"),
		CardBorder:        mustHex("#DCE8F4"),
	},
	"다크 프리미엄": {
		Name:              "다크 프리미엄",
		Background:        mustHex("#1A1A2E"),
		Heading:           mustHex("#FFFFFF"),
		Body:              mustHex("#E0E0E0"),
		Muted:             mustHex("#666680"),
		Accent:            mustHex("#E94560"),
		CoverBackground:   mustHex("#16213E"),
		CoverText:         mustHex("#FFFFFF"),
		CoverSubtext:      mustHex("#A0B4D0"),
		ClosingBackground: mustHex("#E94560"),
		ClosingText:       mustHex("#FFFFFF"),
		Overlay:           mustHex("#0B0B18"),
		OverlayAlpha:      0.60,
		CardBackground:    mustHex("#232340"),
		CardBorder:        mustHex("#32325A"),
	},
	"수壽 브랜드": {
		Name:              "수壽 브랜드",
		Background:        mustHex("#FFF8F0"),
		Heading:           mustHex("#2D1810"),
		Body:              mustHex("#4A3728"),
		Muted:             mustHex("#B0A090"),
		Accent:            mustHex("#C4956A"),
		CoverBackground:   mustHex("#2D1810"),
		CoverText:         mustHex("#FFF8F0"),
		CoverSubtext:      mustHex("#D4B896"),
		ClosingBackground: mustHex("#C4956A"),
		ClosingText:       mustHex("#FFFFFF"),
		Overlay:           mustHex("#20110A"),
		OverlayAlpha:      0.55,
		CardBackground:    mustHex("#FBF1E6"),
		CardBorder:        mustHex("#EADBC8"),
	},
	"건강 그린": {
		Name:              "건강 그린",
		Background:        mustHex("#F0F7F4"),
		Heading:           mustHex("#1B4332"),
		Body:              mustHex("#2D6A4F"),
		Muted:             mustHex("#88B0A0"),
		Accent:            mustHex("#40916C"),
		CoverBackground:   mustHex("#1B4332"),
		CoverText:         mustHex("#FFFFFF"),
		CoverSubtext:      mustHex("#95D5B2"),
		ClosingBackground: mustHex("#40916C"),
		ClosingText:       mustHex("#FFFFFF"),
		Overlay:           mustHex("#0E2A1E"),
		OverlayAlpha:      0.55,
		CardBackground:    mustHex("#E4F0EA"),
		CardBorder:        mustHex("#CBE0D4"),
	},
}

// ResolveTemplate returns the template registered under name, or a
// *ConfigurationError naming the valid set. This is the only lookup
// that can fail in the rendering path.
func ResolveTemplate(name string) (Template, error) {
	t, ok := templates[name]
	if !ok {
		return Template{}, &ConfigurationError{Name: name, Valid: TemplateNames()}
	}
	return t, nil
}

// TemplateNames returns the closed set of recognized template names,
// sorted for stable error messages and UI listings.
func TemplateNames() []string {
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseHex parses a "#RRGGBB" sRGB color.
func ParseHex(s string) (color.NRGBA, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return color.NRGBA{R: r, G: g, B: b, A: 0xFF}, nil
}

func mustHex(s string) color.NRGBA {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}
