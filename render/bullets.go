package render

import (
	"regexp"
	"strings"
)

// Item is one parsed bullet entry of a content slide body.
type Item struct {
	Title       string
	Description string
}

var reNumberedBullet = regexp.MustCompile(`^(\d{1,2})[.)]\s*(.*)$`)

// bulletMarkers are the literal prefixes that open a new item.
var bulletMarkers = []string{"-", "•", "·"}

// ParseBullets converts free-form body text into an ordered item list
// with a two-state line scanner (no open item / item open):
//
//   - a line starting with "-", "•", "·" or a one/two-digit numeral
//     followed by "." or ")" opens a new item titled with the rest of
//     the line;
//   - a blank line closes the open item without discarding it;
//   - any other line joins the open item's description, or opens a new
//     item as its title when none is open.
//
// A numeral-prefixed prose line parses as a bullet; downstream content
// is assumed well-formed, so ambiguity resolves toward bullets. When no
// item is detected at all the whole body becomes one item with an empty
// description.
func ParseBullets(body string) []Item {
	var items []Item
	var current *Item

	flush := func() {
		if current != nil {
			items = append(items, *current)
			current = nil
		}
	}

	for _, raw := range strings.Split(body, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			flush()
			continue
		}
		if title, ok := stripBulletMarker(line); ok {
			flush()
			current = &Item{Title: title}
			continue
		}
		if current != nil {
			if current.Description == "" {
				current.Description = line
			} else {
				current.Description += " " + line
			}
			continue
		}
		current = &Item{Title: line}
	}
	flush()

	if len(items) == 0 {
		return []Item{{Title: strings.TrimSpace(body)}}
	}
	return items
}

// stripBulletMarker reports whether line opens a new item and returns
// the title with the marker prefix removed.
func stripBulletMarker(line string) (string, bool) {
	for _, m := range bulletMarkers {
		if strings.HasPrefix(line, m) {
			return strings.TrimSpace(strings.TrimPrefix(line, m)), true
		}
	}
	if m := reNumberedBullet.FindStringSubmatch(line); m != nil {
		return strings.TrimSpace(m[2]), true
	}
	return "", false
}
