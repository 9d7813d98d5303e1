package render

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
)

// SlideKind selects one of the three terminal render modes.
type SlideKind string

const (
	KindCover   SlideKind = "cover"
	KindContent SlideKind = "content"
	KindClosing SlideKind = "closing"
)

// Slide is a caller-supplied descriptor for one carousel frame. Which
// fields apply depends on Kind: Title/Subtitle for covers,
// Heading/Body for content slides, CTAText/AccountName/ProfileURL for
// closing slides. Any kind may carry a background photo, either
// pre-decoded in Background or as encoded bytes in BackgroundBytes;
// Background wins when both are set. Descriptors are read-only to the
// renderer.
type Slide struct {
	Kind SlideKind

	Title    string
	Subtitle string

	Heading string
	Body    string

	CTAText     string
	AccountName string
	ProfileURL  string

	Background      image.Image
	BackgroundBytes []byte
}

// Style selects one of the two visual strategies. The photo style is
// the default: photographic backgrounds with overlays, legibility
// panels and item cards. The flat style is the original solid-color
// design, kept as a selectable strategy.
type Style int

const (
	StylePhoto Style = iota
	StyleFlat
)

// styler is the strategy interface behind the three terminal render
// modes. Each method composes one complete canvas.
type styler interface {
	cover(s Slide) *image.NRGBA
	content(s Slide, seq, total int) *image.NRGBA
	closing(s Slide) *image.NRGBA
}

// Renderer renders slides of one template at a fixed canvas size.
// A Renderer is safe for concurrent use: all mutable state lives in
// the font cache, which locks internally.
type Renderer struct {
	tpl    Template
	width  int
	height int
	pad    int
	fonts  *FontCache
	style  styler
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithSize sets the output canvas size in pixels (default 1080×1080).
func WithSize(width, height int) Option {
	return func(r *Renderer) {
		if width > 0 && height > 0 {
			r.width = width
			r.height = height
		}
	}
}

// WithFontCache shares a pre-built font cache across renderers.
func WithFontCache(fc *FontCache) Option {
	return func(r *Renderer) {
		if fc != nil {
			r.fonts = fc
		}
	}
}

// WithStyle selects the visual strategy (default StylePhoto).
func WithStyle(s Style) Option {
	return func(r *Renderer) {
		if s == StyleFlat {
			r.style = flatStyler{r}
		} else {
			r.style = photoStyler{r}
		}
	}
}

// New creates a renderer for the named template. It fails only with a
// *ConfigurationError when the template name is not recognized; every
// other degraded condition (missing fonts, missing photos, overflowing
// text) is recovered silently during rendering.
func New(templateName string, opts ...Option) (*Renderer, error) {
	tpl, err := ResolveTemplate(templateName)
	if err != nil {
		return nil, err
	}
	r := &Renderer{
		tpl:    tpl,
		width:  1080,
		height: 1080,
		pad:    80,
	}
	r.style = photoStyler{r}
	for _, opt := range opts {
		opt(r)
	}
	if r.fonts == nil {
		r.fonts = NewFontCache(nil)
	}
	return r, nil
}

// Template returns the resolved template the renderer draws with.
func (r *Renderer) Template() Template { return r.tpl }

// RenderAll renders every slide of a recognized kind, in input order.
// Content slides receive 1-based sequence numbers counted only among
// content slides; cover and closing slides do not perturb the counter.
// Slides of unknown kinds are skipped and produce no output entry.
func (r *Renderer) RenderAll(slides []Slide) ([][]byte, error) {
	total := 0
	for _, s := range slides {
		if s.Kind == KindContent {
			total++
		}
	}

	out := make([][]byte, 0, len(slides))
	seq := 0
	for i, s := range slides {
		var img []byte
		var err error
		switch s.Kind {
		case KindCover:
			img, err = r.RenderCover(s)
		case KindContent:
			seq++
			img, err = r.RenderContent(s, seq, total)
		case KindClosing:
			img, err = r.RenderClosing(s)
		default:
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("slide %d: %w", i, err)
		}
		out = append(out, img)
	}
	return out, nil
}

// RenderCover renders a cover slide to PNG bytes.
func (r *Renderer) RenderCover(s Slide) ([]byte, error) {
	return encodePNG(r.style.cover(s))
}

// RenderContent renders a content slide to PNG bytes. seq and total
// drive the "n / total" page indicator; pass zeros to omit it.
func (r *Renderer) RenderContent(s Slide, seq, total int) ([]byte, error) {
	return encodePNG(r.style.content(s, seq, total))
}

// RenderClosing renders a closing slide to PNG bytes.
func (r *Renderer) RenderClosing(s Slide) ([]byte, error) {
	return encodePNG(r.style.closing(s))
}

// background returns the slide's decoded photo, or nil when absent or
// undecodable (the renderers fall back to synthetic backgrounds).
func (r *Renderer) background(s Slide) image.Image {
	if s.Background != nil {
		return s.Background
	}
	if len(s.BackgroundBytes) == 0 {
		return nil
	}
	img, err := imaging.Decode(bytes.NewReader(s.BackgroundBytes))
	if err != nil {
		return nil
	}
	return img
}

func encodePNG(img *image.NRGBA) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
