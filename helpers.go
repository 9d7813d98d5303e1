package cardnews

import (
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sejongkim-ctrl/figma-to-instagram/figma"
	"github.com/sejongkim-ctrl/figma-to-instagram/render"
)

// Figma frames named "250213-1", "250213-2", ... form one carousel
// for the date 250213 (YYMMDD).
var reFrameName = regexp.MustCompile(`^(\d{6})-(\d+)$`)

// FrameGroup is one date's worth of frames, sorted by sequence.
type FrameGroup struct {
	Date   string
	Frames []figma.Frame
}

// GroupFrames buckets conventionally named frames by date and sorts
// each bucket by its numeric suffix. Frames that do not match the
// naming convention are ignored. Groups come back newest date first.
func GroupFrames(frames []figma.Frame) []FrameGroup {
	type numbered struct {
		seq   int
		frame figma.Frame
	}
	buckets := make(map[string][]numbered)
	for _, f := range frames {
		m := reFrameName.FindStringSubmatch(f.Name)
		if m == nil {
			continue
		}
		seq, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		buckets[m[1]] = append(buckets[m[1]], numbered{seq: seq, frame: f})
	}

	groups := make([]FrameGroup, 0, len(buckets))
	for date, items := range buckets {
		sort.Slice(items, func(i, j int) bool { return items[i].seq < items[j].seq })
		g := FrameGroup{Date: date}
		for _, it := range items {
			g.Frames = append(g.Frames, it.frame)
		}
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Date > groups[j].Date })
	return groups
}

// SlidesFromForm builds the slide deck from the compose form. The
// form carries one cover, parallel heading[]/body[] arrays for content
// slides, and one closing slide. Content slides with an empty heading
// and body are skipped.
func SlidesFromForm(form url.Values) []render.Slide {
	var slides []render.Slide

	if title := strings.TrimSpace(form.Get("cover_title")); title != "" {
		slides = append(slides, render.Slide{
			Kind:     render.KindCover,
			Title:    title,
			Subtitle: strings.TrimSpace(form.Get("cover_subtitle")),
		})
	}

	headings := form["heading"]
	bodies := form["body"]
	for _, i := range contentRows(form) {
		body := ""
		if i < len(bodies) {
			body = strings.TrimSpace(bodies[i])
		}
		slides = append(slides, render.Slide{
			Kind:    render.KindContent,
			Heading: strings.TrimSpace(headings[i]),
			Body:    body,
		})
	}

	if cta := strings.TrimSpace(form.Get("cta_text")); cta != "" {
		slides = append(slides, render.Slide{
			Kind:        render.KindClosing,
			CTAText:     cta,
			AccountName: strings.TrimSpace(form.Get("account_name")),
			ProfileURL:  strings.TrimSpace(form.Get("profile_url")),
		})
	}

	return slides
}

// contentRows returns the form row index behind each content slide
// SlidesFromForm produces, in order. Rows with an empty heading and
// body are skipped, so parallel per-row fields (like the background
// selects) must be resolved through these indices rather than by
// surviving-slide position.
func contentRows(form url.Values) []int {
	headings := form["heading"]
	bodies := form["body"]
	var rows []int
	for i := range headings {
		body := ""
		if i < len(bodies) {
			body = strings.TrimSpace(bodies[i])
		}
		if strings.TrimSpace(headings[i]) == "" && body == "" {
			continue
		}
		rows = append(rows, i)
	}
	return rows
}

// DaysUntil returns whole days from now until t, negative when past.
func DaysUntil(t, now time.Time) int {
	return int(t.Sub(now).Hours() / 24)
}

// FilterEmpty removes empty/whitespace-only strings from a slice.
func FilterEmpty(vals []string) []string {
	var out []string
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}
