package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/image/font"
)

// Layout constants for the photo style. Gaps come in two flavors: the
// small per-line gap within a wrapped block and the larger gap between
// blocks of different roles.
const (
	panelPad      = 48
	titleLineGap  = 12
	subLineGap    = 8
	ctaLineGap    = 10
	photoFraction = 0.38
	minItemHeight = 110
	itemGap       = 20
	cardRadius    = 18
	badgeRadius   = 36
	qrSize        = 140
	shadowOffset  = 3
)

var white = color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}

// photoStyler is the photo-based strategy: backgrounds are cover-fit
// photographs under gradient or solid overlays, text sits inside
// semi-transparent rounded panels, and content bodies become item
// cards.
type photoStyler struct {
	r *Renderer
}

func (p photoStyler) cover(s Slide) *image.NRGBA {
	r, t := p.r, p.r.tpl
	w, h := r.width, r.height

	var img *image.NRGBA
	if bg := r.background(s); bg != nil {
		img = CoverFit(bg, w, h)
		// Top stays light so the photo reads; the bottom darkens
		// under the text panel.
		GradientOverlay(img, t.Overlay, 0.20, 0.75)
	} else {
		img = VerticalGradient(w, h, t.CoverBackground, Shade(t.CoverBackground, 0.55))
	}

	maxW := w - 2*r.pad - 2*panelPad
	titleFace := r.fonts.Face(FontBold, 72)
	titleLines := Wrap(s.Title, titleFace, maxW)

	subFace := r.fonts.Face(FontRegular, 36)
	var subLines []string
	if s.Subtitle != "" {
		subLines = Wrap(s.Subtitle, subFace, maxW)
	}

	textH := BlockHeight(titleLines, titleFace, titleLineGap)
	if len(subLines) > 0 {
		textH += dividerBlockHeight(4) + BlockHeight(subLines, subFace, subLineGap)
	}

	panelH := textH + 2*panelPad
	panelBottom := h - r.pad - 40
	panel := image.Rect(r.pad, panelBottom-panelH, w-r.pad, panelBottom)
	FillRoundedRect(img, panel, 28, WithAlpha(t.Overlay, 0.45))

	y := panel.Min.Y + panelPad
	y = p.drawCenteredBlock(img, titleLines, titleFace, t.CoverText, y, titleLineGap)
	if len(subLines) > 0 {
		y = p.drawDivider(img, y, min(200, maxW/3), 4, t.Accent)
		p.drawCenteredBlock(img, subLines, subFace, t.CoverSubtext, y, subLineGap)
	}
	return img
}

func (p photoStyler) content(s Slide, seq, total int) *image.NRGBA {
	r, t := p.r, p.r.tpl
	w, h := r.width, r.height

	img := imaging.New(w, h, t.Background)
	headingFace := r.fonts.Face(FontBold, 44)
	maxW := w - 2*r.pad
	headingLines := Wrap(s.Heading, headingFace, maxW)
	headingH := BlockHeight(headingLines, headingFace, subLineGap)

	var itemsTop int
	if bg := r.background(s); bg != nil {
		photoH := int(float64(h) * photoFraction)
		photo := CoverFit(bg, w, photoH)
		// Fade the photo into the page background so the item area
		// below reads as one surface.
		GradientOverlay(photo, t.Background, 0.0, 0.90)
		draw.Draw(img, image.Rect(0, 0, w, photoH), photo, photo.Bounds().Min, draw.Src)

		if seq > 0 {
			p.drawBadge(img, seq)
		}

		y := photoH - headingH - 36
		for _, ln := range headingLines {
			ShadowedText(img, r.pad, y, ln, headingFace, white, t.Overlay, shadowOffset)
			y += LineHeight(headingFace) + subLineGap
		}
		itemsTop = photoH + 30
	} else {
		barH := headingH + 2*24
		FillRect(img, image.Rect(0, r.pad, w-r.pad/2, r.pad+barH), t.Accent)
		y := r.pad + 24
		for _, ln := range headingLines {
			DrawText(img, r.pad, y, ln, headingFace, t.CoverText)
			y += LineHeight(headingFace) + subLineGap
		}
		itemsTop = r.pad + barH + 30
	}

	p.drawItems(img, ParseBullets(s.Body), itemsTop)

	if seq > 0 && total > 0 {
		numFace := r.fonts.Face(FontMedium, 26)
		num := fmt.Sprintf("%d / %d", seq, total)
		DrawText(img, w-r.pad-LineWidth(num, numFace), h-r.pad, num, numFace, t.Muted)
	}
	return img
}

func (p photoStyler) closing(s Slide) *image.NRGBA {
	r, t := p.r, p.r.tpl
	w, h := r.width, r.height

	var img *image.NRGBA
	if bg := r.background(s); bg != nil {
		img = Blur(CoverFit(bg, w, h), 8)
		SolidOverlay(img, t.Overlay, t.OverlayAlpha)
	} else {
		img = VerticalGradient(w, h, t.Accent, Shade(t.Accent, 0.50))
	}

	maxW := w - 2*r.pad - 2*panelPad
	ctaFace := r.fonts.Face(FontSerif, 48)
	ctaLines := Wrap(s.CTAText, ctaFace, maxW)
	accFace := r.fonts.Face(FontRegular, 30)

	textH := BlockHeight(ctaLines, ctaFace, ctaLineGap)
	if s.AccountName != "" {
		textH += dividerBlockHeight(2) + LineHeight(accFace)
	}
	qr := p.profileQR(s)
	if qr != nil {
		textH += 30 + qrSize
	}

	panelH := textH + 2*panelPad
	panelTop := (h - panelH) / 2
	panel := image.Rect(r.pad, panelTop, w-r.pad, panelTop+panelH)
	FillRoundedRect(img, panel, 28, WithAlpha(t.Overlay, 0.40))

	y := panelTop + panelPad
	y = p.drawCenteredBlock(img, ctaLines, ctaFace, t.ClosingText, y, ctaLineGap)
	if s.AccountName != "" {
		y = p.drawDivider(img, y, 120, 2, t.Accent)
		DrawText(img, (w-LineWidth(s.AccountName, accFace))/2, y, s.AccountName, accFace, t.ClosingText)
		y += LineHeight(accFace)
	}
	if qr != nil {
		y += 30
		dst := image.Rect((w-qrSize)/2, y, (w+qrSize)/2, y+qrSize)
		draw.Draw(img, dst, qr, qr.Bounds().Min, draw.Over)
	}
	return img
}

// drawItems lays the parsed bullet items out as rounded cards with a
// left accent strip. Available vertical space is divided evenly with a
// minimum floor height; text that would overflow a card is dropped
// silently, line by line, with no ellipsis.
func (p photoStyler) drawItems(img *image.NRGBA, items []Item, top int) {
	r, t := p.r, p.r.tpl
	w, h := r.width, r.height

	bottom := h - r.pad - 60
	avail := bottom - top - (len(items)-1)*itemGap
	if len(items) == 0 || avail <= 0 {
		return
	}
	itemH := avail / len(items)
	if itemH < minItemHeight {
		itemH = minItemHeight
	}

	titleFace := r.fonts.Face(FontSemibold, 34)
	descFace := r.fonts.Face(FontRegular, 26)

	y := top
	for _, it := range items {
		card := image.Rect(r.pad, y, w-r.pad, y+itemH)
		StrokeRoundedRect(img, card, cardRadius, t.CardBorder, t.CardBackground)
		FillRect(img, image.Rect(card.Min.X+2, card.Min.Y+12, card.Min.X+10, card.Max.Y-12), t.Accent)

		tx := card.Min.X + 30
		textW := card.Dx() - 30 - 24
		budget := card.Max.Y - 16

		ty := card.Min.Y + 18
		ty = drawLinesClipped(img, Wrap(it.Title, titleFace, textW), titleFace, t.Heading, tx, ty, budget, 6)
		if it.Description != "" {
			ty += 6
			drawLinesClipped(img, Wrap(it.Description, descFace, textW), descFace, t.Body, tx, ty, budget, 4)
		}
		y += itemH + itemGap
	}
}

// drawBadge draws the numbered circle badge in the photo's top-left.
func (p photoStyler) drawBadge(img *image.NRGBA, seq int) {
	r, t := p.r, p.r.tpl
	cx, cy := r.pad+badgeRadius, r.pad+badgeRadius
	FillCircle(img, cx, cy, badgeRadius, t.Accent)

	numFace := r.fonts.Face(FontBold, 34)
	num := fmt.Sprintf("%d", seq)
	DrawText(img, cx-LineWidth(num, numFace)/2, cy-LineHeight(numFace)/2, num, numFace, white)
}

// drawCenteredBlock draws lines horizontally centered starting at top
// y, returning the y below the block.
func (p photoStyler) drawCenteredBlock(img *image.NRGBA, lines []string, face font.Face, c color.NRGBA, y, gap int) int {
	w := p.r.width
	for i, ln := range lines {
		if i > 0 {
			y += gap
		}
		DrawText(img, (w-LineWidth(ln, face))/2, y, ln, face, c)
		y += LineHeight(face)
	}
	return y
}

// drawDivider draws the short centered accent rule separating two text
// blocks, returning the y below it.
func (p photoStyler) drawDivider(img *image.NRGBA, y, width, thickness int, c color.NRGBA) int {
	w := p.r.width
	y += 16
	DrawHLine(img, (w-width)/2, (w+width)/2, y, thickness, c)
	return y + thickness + 24
}

// profileQR builds the optional account QR for closing slides. Returns
// nil when no profile URL is set or encoding fails (degrades silently).
func (p photoStyler) profileQR(s Slide) image.Image {
	if s.ProfileURL == "" {
		return nil
	}
	q, err := qrcode.New(s.ProfileURL, qrcode.Medium)
	if err != nil {
		return nil
	}
	return q.Image(qrSize)
}

// drawLinesClipped draws lines top-down until the next line would
// cross budget, then stops without any ellipsis. Returns the y below
// the last drawn line.
func drawLinesClipped(img *image.NRGBA, lines []string, face font.Face, c color.NRGBA, x, y, budget, gap int) int {
	lh := LineHeight(face)
	for _, ln := range lines {
		if y+lh > budget {
			break
		}
		DrawText(img, x, y, ln, face, c)
		y += lh + gap
	}
	return y
}

// dividerBlockHeight is the vertical space a divider of the given
// thickness consumes inside a measured text block. It must stay in
// step with drawDivider.
func dividerBlockHeight(thickness int) int { return 16 + thickness + 24 }
