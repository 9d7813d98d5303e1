package render

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// flatStyler is the solid-color strategy: no photography, no panels.
// Covers and closings center their text on a solid brand background;
// content slides carry a top accent bar, a vertical accent rule beside
// the heading, and free-flowing body text that overflows into an
// ellipsis instead of item cards.
type flatStyler struct {
	r *Renderer
}

func (f flatStyler) cover(s Slide) *image.NRGBA {
	r, t := f.r, f.r.tpl
	w, h := r.width, r.height
	img := imaging.New(w, h, t.CoverBackground)
	maxW := w - 2*r.pad

	titleFace := r.fonts.Face(FontBold, 72)
	titleLines := Wrap(s.Title, titleFace, maxW)

	subFace := r.fonts.Face(FontRegular, 36)
	var subLines []string
	if s.Subtitle != "" {
		subLines = Wrap(s.Subtitle, subFace, maxW)
	}

	totalH := BlockHeight(titleLines, titleFace, titleLineGap)
	if len(subLines) > 0 {
		totalH += 40 + BlockHeight(subLines, subFace, subLineGap)
	}

	y := (h - totalH) / 2
	for _, ln := range titleLines {
		DrawText(img, (w-LineWidth(ln, titleFace))/2, y, ln, titleFace, t.CoverText)
		y += LineHeight(titleFace) + titleLineGap
	}

	if len(subLines) > 0 {
		y += 8
		lineW := min(200, maxW/3)
		DrawHLine(img, (w-lineW)/2, (w+lineW)/2, y, 2, t.CoverSubtext)
		y += 24
		for _, ln := range subLines {
			DrawText(img, (w-LineWidth(ln, subFace))/2, y, ln, subFace, t.CoverSubtext)
			y += LineHeight(subFace) + subLineGap
		}
	}
	return img
}

func (f flatStyler) content(s Slide, seq, total int) *image.NRGBA {
	r, t := f.r, f.r.tpl
	w, h := r.width, r.height
	img := imaging.New(w, h, t.Background)
	// Room for the vertical accent rule left of the heading.
	maxW := w - 2*r.pad - 20

	FillRect(img, image.Rect(0, 0, w, 6), t.Accent)

	y := r.pad + 20

	headingFace := r.fonts.Face(FontBold, 44)
	headingLines := Wrap(s.Heading, headingFace, maxW)
	headingH := BlockHeight(headingLines, headingFace, subLineGap)
	FillRect(img, image.Rect(r.pad, y-4, r.pad+4, y+headingH+4), t.Accent)

	textX := r.pad + 20
	for _, ln := range headingLines {
		DrawText(img, textX, y, ln, headingFace, t.Heading)
		y += LineHeight(headingFace) + subLineGap
	}
	y += 30

	bodyFace := r.fonts.Face(FontRegular, 30)
	bodyLH := LineHeight(bodyFace)
	for _, ln := range Wrap(s.Body, bodyFace, maxW) {
		if y+bodyLH > h-r.pad-40 {
			DrawText(img, textX, y, "...", bodyFace, t.Muted)
			break
		}
		DrawText(img, textX, y, ln, bodyFace, t.Body)
		y += bodyLH + 10
	}

	if seq > 0 && total > 0 {
		numFace := r.fonts.Face(FontMedium, 26)
		num := fmt.Sprintf("%d / %d", seq, total)
		DrawText(img, w-r.pad-LineWidth(num, numFace), h-r.pad, num, numFace, t.Muted)
	}
	return img
}

func (f flatStyler) closing(s Slide) *image.NRGBA {
	r, t := f.r, f.r.tpl
	w, h := r.width, r.height
	img := imaging.New(w, h, t.ClosingBackground)
	maxW := w - 2*r.pad

	ctaFace := r.fonts.Face(FontSerif, 48)
	ctaLines := Wrap(s.CTAText, ctaFace, maxW)
	accFace := r.fonts.Face(FontRegular, 30)

	totalH := BlockHeight(ctaLines, ctaFace, ctaLineGap)
	if s.AccountName != "" {
		totalH += 50 + LineHeight(accFace)
	}

	y := (h - totalH) / 2
	for _, ln := range ctaLines {
		DrawText(img, (w-LineWidth(ln, ctaFace))/2, y, ln, ctaFace, t.ClosingText)
		y += LineHeight(ctaFace) + ctaLineGap
	}

	if s.AccountName != "" {
		y += 10
		DrawHLine(img, (w-120)/2, (w+120)/2, y, 1, t.ClosingText)
		y += 20
		DrawText(img, (w-LineWidth(s.AccountName, accFace))/2, y, s.AccountName, accFace, t.ClosingText)
	}
	return img
}
