package render

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// CoverFit scales src to exactly (w, h): the source is center-cropped
// to the target aspect ratio (equal pixels removed from both sides of
// the longer axis) and then resized, so the frame is always fully
// filled and never letterboxed.
func CoverFit(src image.Image, w, h int) *image.NRGBA {
	return imaging.Fill(src, w, h, imaging.Center, imaging.Lanczos)
}

// Blur applies an isotropic approximately-Gaussian blur in place of the
// source and returns the result.
func Blur(src image.Image, radius float64) *image.NRGBA {
	return imaging.Blur(src, radius)
}

// GradientOverlay composites the constant color c over img with a
// per-scanline alpha interpolated linearly from alphaTop at the first
// row to alphaBottom at the last row. Used to keep background
// photography while guaranteeing text-over-photo legibility.
func GradientOverlay(img *image.NRGBA, c color.NRGBA, alphaTop, alphaBottom float64) {
	b := img.Bounds()
	h := b.Dy()
	for y := 0; y < h; y++ {
		t := 0.0
		if h > 1 {
			t = float64(y) / float64(h-1)
		}
		alpha := alphaTop + (alphaBottom-alphaTop)*t
		blendRow(img, b.Min.Y+y, c, alpha)
	}
}

// SolidOverlay composites the constant color c over the whole image at
// a uniform alpha.
func SolidOverlay(img *image.NRGBA, c color.NRGBA, alpha float64) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		blendRow(img, y, c, alpha)
	}
}

// VerticalGradient returns a w×h image fading linearly from top to
// bottom. It is the synthetic background used when no photo is given.
func VerticalGradient(w, h int, top, bottom color.NRGBA) *image.NRGBA {
	img := imaging.New(w, h, top)
	for y := 0; y < h; y++ {
		t := 0.0
		if h > 1 {
			t = float64(y) / float64(h-1)
		}
		blendRow(img, y, bottom, t)
	}
	return img
}

// FillRoundedRect fills a rounded rectangle, alpha-blending c (its A
// channel is the blend alpha) over existing pixels. Used for
// text-legibility panels and item cards.
func FillRoundedRect(img *image.NRGBA, r image.Rectangle, radius int, c color.NRGBA) {
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return
	}
	if m := min(r.Dx(), r.Dy()) / 2; radius > m {
		radius = m
	}
	alpha := float64(c.A) / 255.0
	opaque := color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xFF}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		inset := 0
		if dy := cornerDistance(y, r.Min.Y, r.Max.Y, radius); dy >= 0 {
			inset = radius - int(math.Round(math.Sqrt(float64(radius*radius-dy*dy))))
		}
		for x := r.Min.X + inset; x < r.Max.X-inset; x++ {
			blendPixel(img, x, y, opaque, alpha)
		}
	}
}

// StrokeRoundedRect draws a 1px-inset border ring by filling the outer
// rounded rect with the border color before the interior fill.
func StrokeRoundedRect(img *image.NRGBA, r image.Rectangle, radius int, border, fill color.NRGBA) {
	FillRoundedRect(img, r, radius, border)
	inner := image.Rect(r.Min.X+2, r.Min.Y+2, r.Max.X-2, r.Max.Y-2)
	ir := radius - 2
	if ir < 0 {
		ir = 0
	}
	FillRoundedRect(img, inner, ir, fill)
}

// FillRect fills an axis-aligned rectangle, alpha-blending c.
func FillRect(img *image.NRGBA, r image.Rectangle, c color.NRGBA) {
	r = r.Intersect(img.Bounds())
	alpha := float64(c.A) / 255.0
	opaque := color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xFF}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			blendPixel(img, x, y, opaque, alpha)
		}
	}
}

// FillCircle fills a solid circle centered at (cx, cy).
func FillCircle(img *image.NRGBA, cx, cy, radius int, c color.NRGBA) {
	alpha := float64(c.A) / 255.0
	opaque := color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xFF}
	for dy := -radius; dy <= radius; dy++ {
		span := int(math.Round(math.Sqrt(float64(radius*radius - dy*dy))))
		for dx := -span; dx <= span; dx++ {
			blendPixel(img, cx+dx, cy+dy, opaque, alpha)
		}
	}
}

// DrawHLine draws a horizontal line of the given thickness with its top
// edge at y, spanning [x0, x1).
func DrawHLine(img *image.NRGBA, x0, x1, y, thickness int, c color.NRGBA) {
	FillRect(img, image.Rect(x0, y, x1, y+thickness), c)
}

// DrawText draws a single line of text with its top-left corner at
// (x, y).
func DrawText(img *image.NRGBA, x, y int, s string, face font.Face, c color.NRGBA) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(s)
}

// ShadowedText draws s twice, once offset by (offset, offset) in the
// shadow color and once at the true position, guaranteeing contrast
// against arbitrary backgrounds without per-pixel analysis.
func ShadowedText(img *image.NRGBA, x, y int, s string, face font.Face, fill, shadow color.NRGBA, offset int) {
	DrawText(img, x+offset, y+offset, s, face, shadow)
	DrawText(img, x, y, s, face, fill)
}

// Shade scales the RGB channels of c by factor (0 = black, 1 = c).
func Shade(c color.NRGBA, factor float64) color.NRGBA {
	scale := func(v uint8) uint8 {
		f := float64(v) * factor
		if f > 255 {
			f = 255
		}
		return uint8(f)
	}
	return color.NRGBA{R: scale(c.R), G: scale(c.G), B: scale(c.B), A: c.A}
}

// WithAlpha returns c with its alpha channel set from a [0,1] fraction.
func WithAlpha(c color.NRGBA, alpha float64) color.NRGBA {
	if alpha < 0 {
		alpha = 0
	}
	if alpha > 1 {
		alpha = 1
	}
	c.A = uint8(math.Round(alpha * 255))
	return c
}

// cornerDistance returns the vertical distance from row y into the
// rounded-corner band of a rect spanning [minY, maxY), or -1 when the
// row is outside both corner bands.
func cornerDistance(y, minY, maxY, radius int) int {
	if radius <= 0 {
		return -1
	}
	if d := minY + radius - 1 - y; d > 0 {
		return d
	}
	if d := y - (maxY - radius); d >= 0 {
		return d + 1
	}
	return -1
}

// blendRow src-over blends c at alpha across one scanline.
func blendRow(img *image.NRGBA, y int, c color.NRGBA, alpha float64) {
	b := img.Bounds()
	for x := b.Min.X; x < b.Max.X; x++ {
		blendPixel(img, x, y, c, alpha)
	}
}

// blendPixel src-over blends an opaque color at the given alpha onto
// one pixel. The canvas is opaque throughout the render path, so the
// destination alpha is left at full.
func blendPixel(img *image.NRGBA, x, y int, c color.NRGBA, alpha float64) {
	b := img.Bounds()
	if x < b.Min.X || x >= b.Max.X || y < b.Min.Y || y >= b.Max.Y {
		return
	}
	i := img.PixOffset(x, y)
	p := img.Pix[i : i+4 : i+4]
	p[0] = blendChannel(p[0], c.R, alpha)
	p[1] = blendChannel(p[1], c.G, alpha)
	p[2] = blendChannel(p[2], c.B, alpha)
	p[3] = 0xFF
}

func blendChannel(dst, src uint8, alpha float64) uint8 {
	return uint8(math.Round(float64(src)*alpha + float64(dst)*(1-alpha)))
}
