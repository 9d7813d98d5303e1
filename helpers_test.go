package cardnews

import (
	"net/url"
	"testing"
	"time"

	"github.com/sejongkim-ctrl/figma-to-instagram/figma"
	"github.com/sejongkim-ctrl/figma-to-instagram/render"
)

func TestGroupFrames(t *testing.T) {
	frames := []figma.Frame{
		{ID: "1", Name: "250213-2"},
		{ID: "2", Name: "250213-10"},
		{ID: "3", Name: "250213-1"},
		{ID: "4", Name: "250301-1"},
		{ID: "5", Name: "cover draft"},
		{ID: "6", Name: "2502130-1"}, // seven digits, not a date
	}

	groups := GroupFrames(frames)
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	// Newest date first.
	if groups[0].Date != "250301" || groups[1].Date != "250213" {
		t.Errorf("dates = [%s %s], want [250301 250213]", groups[0].Date, groups[1].Date)
	}
	// Numeric sort, not lexicographic: 2 < 10.
	got := groups[1].Frames
	if len(got) != 3 || got[0].ID != "3" || got[1].ID != "1" || got[2].ID != "2" {
		t.Errorf("250213 order = %v, want [3 1 2]", got)
	}
}

func TestGroupFramesIgnoresNonMatching(t *testing.T) {
	groups := GroupFrames([]figma.Frame{
		{Name: "hero"},
		{Name: "250213"},
		{Name: "-1"},
	})
	if len(groups) != 0 {
		t.Errorf("got %d groups, want 0", len(groups))
	}
}

func TestSlidesFromForm(t *testing.T) {
	form := url.Values{
		"cover_title":    {"비타민 D 상식"},
		"cover_subtitle": {"겨울철 건강 관리"},
		"heading":        {"왜 중요한가", "", "어떻게 챙기나"},
		"body":           {"- 뼈 건강\n- 면역", "", "하루 20분 햇빛"},
		"cta_text":       {"팔로우하고 더 보기"},
		"account_name":   {"@health"},
	}

	slides := SlidesFromForm(form)
	if len(slides) != 4 {
		t.Fatalf("got %d slides, want 4", len(slides))
	}
	if slides[0].Kind != render.KindCover || slides[0].Title != "비타민 D 상식" {
		t.Errorf("cover = %+v", slides[0])
	}
	if slides[1].Kind != render.KindContent || slides[1].Heading != "왜 중요한가" {
		t.Errorf("content 1 = %+v", slides[1])
	}
	if slides[2].Heading != "어떻게 챙기나" || slides[2].Body != "하루 20분 햇빛" {
		t.Errorf("content 2 = %+v (empty pair should be skipped)", slides[2])
	}
	if slides[3].Kind != render.KindClosing || slides[3].AccountName != "@health" {
		t.Errorf("closing = %+v", slides[3])
	}
}

func TestSlidesFromFormEmpty(t *testing.T) {
	if slides := SlidesFromForm(url.Values{}); len(slides) != 0 {
		t.Errorf("got %d slides from empty form, want 0", len(slides))
	}
}

func TestSlidesFromFormContentOnly(t *testing.T) {
	form := url.Values{
		"heading": {"소제목"},
		"body":    {"본문"},
	}
	slides := SlidesFromForm(form)
	if len(slides) != 1 || slides[0].Kind != render.KindContent {
		t.Errorf("slides = %+v, want one content slide", slides)
	}
}

func TestDaysUntil(t *testing.T) {
	now := time.Date(2025, 2, 13, 12, 0, 0, 0, time.UTC)
	if d := DaysUntil(now.Add(72*time.Hour), now); d != 3 {
		t.Errorf("DaysUntil(+72h) = %d, want 3", d)
	}
	if d := DaysUntil(now.Add(-48*time.Hour), now); d != -2 {
		t.Errorf("DaysUntil(-48h) = %d, want -2", d)
	}
}

func TestFilterEmpty(t *testing.T) {
	got := FilterEmpty([]string{" a ", "", "  ", "b"})
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("FilterEmpty = %v, want [a b]", got)
	}
}
