package render

import (
	"image"
	"testing"
)

func TestDividerHeightMatchesDrawnSpace(t *testing.T) {
	r, err := New("깔끔한 화이트", WithFontCache(NewFontCache(map[FontRole][]string{})))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	p := photoStyler{r: r}
	img := image.NewNRGBA(image.Rect(0, 0, r.width, r.height))

	// The panel measurement reserves dividerBlockHeight for the rule;
	// the drawn divider must consume exactly that much.
	for _, thickness := range []int{2, 4} {
		start := 100
		end := p.drawDivider(img, start, 120, thickness, white)
		if got, want := end-start, dividerBlockHeight(thickness); got != want {
			t.Errorf("thickness %d: divider consumed %dpx, measured %dpx", thickness, got, want)
		}
	}
}
