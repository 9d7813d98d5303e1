package render

import (
	"bytes"
	"errors"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
)

// newTestRenderer builds a renderer with an empty font path set so
// output only depends on the embedded fonts, never on host fonts.
func newTestRenderer(t *testing.T, template string, opts ...Option) *Renderer {
	t.Helper()
	opts = append([]Option{WithFontCache(NewFontCache(map[FontRole][]string{}))}, opts...)
	r, err := New(template, opts...)
	if err != nil {
		t.Fatalf("New(%q): %v", template, err)
	}
	return r
}

func decodeSize(t *testing.T, data []byte) (int, int) {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode rendered png: %v", err)
	}
	return img.Bounds().Dx(), img.Bounds().Dy()
}

func TestNewUnknownTemplate(t *testing.T) {
	_, err := New("존재하지 않는 템플릿")
	if err == nil {
		t.Fatal("expected ConfigurationError")
	}
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *ConfigurationError, got %T", err)
	}
	if cfgErr.Name != "존재하지 않는 템플릿" {
		t.Errorf("error name = %q", cfgErr.Name)
	}
	if len(cfgErr.Valid) != len(TemplateNames()) {
		t.Errorf("error lists %d valid names, want %d", len(cfgErr.Valid), len(TemplateNames()))
	}
	if !strings.Contains(err.Error(), "깔끔한 화이트") {
		t.Errorf("error message should list valid templates: %v", err)
	}
}

func TestRenderAllOrderAndNumbering(t *testing.T) {
	r := newTestRenderer(t, "깔끔한 화이트")
	slides := []Slide{
		{Kind: KindCover, Title: "하루 루틴", Subtitle: "작게 시작하기"},
		{Kind: KindContent, Heading: "아침", Body: "- 물 한 잔\n- 스트레칭"},
		{Kind: KindContent, Heading: "저녁", Body: "- 산책\n- 독서"},
		{Kind: KindClosing, CTAText: "저장하고 내일 시작하세요", AccountName: "@routine"},
	}

	out, err := r.RenderAll(slides)
	if err != nil {
		t.Fatalf("RenderAll: %v", err)
	}
	if len(out) != 4 {
		t.Fatalf("expected 4 images, got %d", len(out))
	}
	for i, img := range out {
		w, h := decodeSize(t, img)
		if w != 1080 || h != 1080 {
			t.Errorf("image %d is %dx%d, want 1080x1080", i, w, h)
		}
	}

	// Content slides are numbered 1 and 2 among themselves, regardless
	// of the surrounding cover and closing slides.
	first, err := r.RenderContent(slides[1], 1, 2)
	if err != nil {
		t.Fatalf("RenderContent: %v", err)
	}
	second, err := r.RenderContent(slides[2], 2, 2)
	if err != nil {
		t.Fatalf("RenderContent: %v", err)
	}
	if !bytes.Equal(out[1], first) {
		t.Error("first content slide was not numbered 1/2")
	}
	if !bytes.Equal(out[2], second) {
		t.Error("second content slide was not numbered 2/2")
	}
}

func TestRenderAllSkipsUnknownKinds(t *testing.T) {
	r := newTestRenderer(t, "건강 그린")
	out, err := r.RenderAll([]Slide{
		{Kind: KindCover, Title: "표지"},
		{Kind: SlideKind("poll"), Title: "무시됨"},
		{Kind: KindClosing, CTAText: "끝"},
	})
	if err != nil {
		t.Fatalf("RenderAll: %v", err)
	}
	if len(out) != 2 {
		t.Errorf("expected unknown kind to be skipped, got %d images", len(out))
	}
}

func TestRenderingIsDeterministic(t *testing.T) {
	slides := []Slide{
		{Kind: KindCover, Title: "결정성", Subtitle: "같은 입력, 같은 결과"},
		{Kind: KindContent, Heading: "확인", Body: "1. 한 번\n2. 두 번"},
		{Kind: KindClosing, CTAText: "동일해야 합니다", AccountName: "@test", ProfileURL: "https://instagram.com/test"},
	}

	a := newTestRenderer(t, "다크 프리미엄")
	first, err := a.RenderAll(slides)
	if err != nil {
		t.Fatalf("first RenderAll: %v", err)
	}
	b := newTestRenderer(t, "다크 프리미엄")
	second, err := b.RenderAll(slides)
	if err != nil {
		t.Fatalf("second RenderAll: %v", err)
	}
	for i := range first {
		if !bytes.Equal(first[i], second[i]) {
			t.Errorf("slide %d output differs between identical runs", i)
		}
	}
}

func TestCustomCanvasSize(t *testing.T) {
	r := newTestRenderer(t, "깔끔한 화이트", WithSize(1080, 1350))
	img, err := r.RenderCover(Slide{Kind: KindCover, Title: "세로형"})
	if err != nil {
		t.Fatalf("RenderCover: %v", err)
	}
	if w, h := decodeSize(t, img); w != 1080 || h != 1350 {
		t.Errorf("canvas = %dx%d, want 1080x1350", w, h)
	}
}

func TestBackgroundBytesAreDecoded(t *testing.T) {
	photo := imaging.New(400, 300, color.NRGBA{R: 120, G: 80, B: 40, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, photo); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}

	r := newTestRenderer(t, "수壽 브랜드")
	withPhoto, err := r.RenderCover(Slide{Kind: KindCover, Title: "사진", BackgroundBytes: buf.Bytes()})
	if err != nil {
		t.Fatalf("RenderCover with photo: %v", err)
	}
	without, err := r.RenderCover(Slide{Kind: KindCover, Title: "사진"})
	if err != nil {
		t.Fatalf("RenderCover without photo: %v", err)
	}
	if bytes.Equal(withPhoto, without) {
		t.Error("background photo had no effect on output")
	}
}

func TestCorruptBackgroundDegradesToFallback(t *testing.T) {
	r := newTestRenderer(t, "수壽 브랜드")
	corrupt, err := r.RenderCover(Slide{Kind: KindCover, Title: "사진", BackgroundBytes: []byte("not an image")})
	if err != nil {
		t.Fatalf("RenderCover with corrupt photo: %v", err)
	}
	without, err := r.RenderCover(Slide{Kind: KindCover, Title: "사진"})
	if err != nil {
		t.Fatalf("RenderCover without photo: %v", err)
	}
	if !bytes.Equal(corrupt, without) {
		t.Error("corrupt background should render like no background")
	}
}

func TestFlatStyleRenders(t *testing.T) {
	r := newTestRenderer(t, "깔끔한 화이트", WithStyle(StyleFlat))
	out, err := r.RenderAll([]Slide{
		{Kind: KindCover, Title: "플랫 디자인", Subtitle: "원래 스타일"},
		{Kind: KindContent, Heading: "본문", Body: "자유로운 본문 텍스트가 줄바꿈되어 그려집니다"},
		{Kind: KindClosing, CTAText: "팔로우", AccountName: "@flat"},
	})
	if err != nil {
		t.Fatalf("RenderAll: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 images, got %d", len(out))
	}

	photo := newTestRenderer(t, "깔끔한 화이트")
	photoCover, err := photo.RenderCover(Slide{Kind: KindCover, Title: "플랫 디자인", Subtitle: "원래 스타일"})
	if err != nil {
		t.Fatalf("RenderCover: %v", err)
	}
	if bytes.Equal(out[0], photoCover) {
		t.Error("flat and photo styles should produce different covers")
	}
}
